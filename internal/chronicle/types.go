package chronicle

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/harishkotra/onchain-chronicler/internal/ledger"
)

// aggregation and confirmation policy; the lookback windows are deliberately
// bounded because listings are best-effort views, not audit logs
const (
	// maximum block-range width per event query
	DefaultChunkWidth uint64 = 1000

	// how far back the leaderboard scan looks for requester addresses
	DefaultLeaderboardLookback uint64 = 10_000

	// how far back the chronicle listing scans
	DefaultChronicleLookback uint64 = 50_000

	// confirmation polling: 60 attempts 2s apart, a ~2 minute ceiling
	DefaultMaxAttempts = 60
	DefaultPollDelayMs = 2000
)

// Entry is one row of the chronicle listing
type Entry struct {
	TxHash    string `json:"txHash"`
	Narrative string `json:"narrative"`
	Requester string `json:"requester"`
	Timestamp uint64 `json:"timestamp"`
}

// Score is one row of the leaderboard
type Score struct {
	Address string `json:"address"`
	Points  uint64 `json:"points"`
}

// Status is the read-only answer to a chronicle status check
type Status struct {
	ChronicleExists bool
	RequestPending  bool
	Chronicle       *ledger.Chronicle
	Requester       string
	SubmissionFee   *big.Int
}

// Result is the outcome of a completed analysis run
type Result struct {
	Narrative       string
	CommitTxHash    string
	AlreadyExisted  bool
	AlreadyInFlight bool
}

// failures the caller can act on; anything else is transient infrastructure
var (
	// the confirmation window closed without the paid request becoming
	// observable; the caller should resubmit the payable request
	ErrPendingRequestNotFound = errors.New("pending analysis request not found on ledger")

	// the ledger has no transaction for the submitted hash
	ErrTransactionNotFound = errors.New("transaction not found on ledger")

	// the narrative service failed or returned an unusable response;
	// not retried automatically
	ErrUpstreamAI = errors.New("narrative generation failed")
)

// WriteError reports a failed on-chain commit after a narrative was already
// generated. The narrative is carried so the caller still sees the work the
// paid fee produced, even though nothing was persisted.
type WriteError struct {
	Narrative string
	Err       error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("failed to commit chronicle: %v", e.Err)
}

func (e *WriteError) Unwrap() error {
	return e.Err
}
