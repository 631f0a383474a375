package leaderboard

import "github.com/harishkotra/onchain-chronicler/internal/chronicle"

// Response is the leaderboard listing: at most ten entries, points
// descending, zero-point addresses excluded
type Response struct {
	Leaderboard []chronicle.Score `json:"leaderboard"`
}
