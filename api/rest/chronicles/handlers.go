package chronicles

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/harishkotra/onchain-chronicler/internal/chronicle"
	"github.com/harishkotra/onchain-chronicler/internal/errors"
)

// Provider rebuilds the chronicle listing from ledger events
type Provider interface {
	Chronicles(ctx context.Context) ([]chronicle.Entry, error)
}

// creates a handler for the chronicle listing
func Handler(provider Provider) gin.HandlerFunc {
	return func(c *gin.Context) {
		entries, err := provider.Chronicles(c.Request.Context())
		if err != nil {
			errors.LedgerReadError(c, "failed to load chronicles", err)
			return
		}

		if entries == nil {
			entries = []chronicle.Entry{}
		}

		c.JSON(http.StatusOK, Response{
			Total:      len(entries),
			Chronicles: entries,
		})
	}
}
