package chronicle

import (
	"context"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/harishkotra/onchain-chronicler/internal/ledger"
	"github.com/harishkotra/onchain-chronicler/internal/logger"
)

// Waiter polls ledger state until a pending analysis request becomes
// observable. Submission and confirmation are different parties, so "the
// request was submitted" and "the request is visible to us" are decoupled;
// no analysis work is safe until the request is visible.
type Waiter struct {
	reader ledger.Reader

	MaxAttempts int
	Delay       time.Duration
}

func NewWaiter(reader ledger.Reader) *Waiter {
	return &Waiter{
		reader:      reader,
		MaxAttempts: DefaultMaxAttempts,
		Delay:       DefaultPollDelayMs * time.Millisecond,
	}
}

// blocks until a pending request for txHash is visible on the ledger,
// returning the requester address. Each attempt waits Delay first, then
// reads; a read error only burns that attempt. Exhausting MaxAttempts
// returns ErrPendingRequestNotFound. Context cancellation aborts between
// polls with no side effects.
func (w *Waiter) AwaitPendingRequest(ctx context.Context, txHash common.Hash) (common.Address, error) {
	timer := time.NewTimer(w.Delay)
	defer timer.Stop()

	for attempt := 1; attempt <= w.MaxAttempts; attempt++ {
		select {
		case <-ctx.Done():
			return common.Address{}, ctx.Err()
		case <-timer.C:
		}

		requester, err := w.reader.PendingRequester(ctx, txHash)
		if err != nil {
			// transient read failure, the attempt still counts
			logger.Warn("pending request poll failed",
				"tx_hash", txHash.Hex(),
				"attempt", attempt,
				"error", err,
			)
		} else if requester != (common.Address{}) {
			logger.Debug("pending request confirmed",
				"tx_hash", txHash.Hex(),
				"attempt", attempt,
			)

			return requester, nil
		}

		timer.Reset(w.Delay)
	}

	return common.Address{}, ErrPendingRequestNotFound
}
