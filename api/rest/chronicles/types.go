package chronicles

import "github.com/harishkotra/onchain-chronicler/internal/chronicle"

// Response is the chronicle listing, most recent first
type Response struct {
	Total      int               `json:"total"`
	Chronicles []chronicle.Entry `json:"chronicles"`
}
