package leaderboard

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/harishkotra/onchain-chronicler/internal/chronicle"
	"github.com/harishkotra/onchain-chronicler/internal/errors"
)

// Provider rebuilds the leaderboard from ledger events
type Provider interface {
	Leaderboard(ctx context.Context) ([]chronicle.Score, error)
}

// creates a handler for the leaderboard listing
func Handler(provider Provider) gin.HandlerFunc {
	return func(c *gin.Context) {
		scores, err := provider.Leaderboard(c.Request.Context())
		if err != nil {
			errors.LedgerReadError(c, "failed to build leaderboard", err)
			return
		}

		if scores == nil {
			scores = []chronicle.Score{}
		}

		c.JSON(http.StatusOK, Response{Leaderboard: scores})
	}
}
