package ledger

import (
	"context"
	"errors"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// ErrNotFound is returned when the ledger has no record for the requested key
var ErrNotFound = errors.New("not found on ledger")

// Reader is the read-only ledger surface used by the aggregation and status paths.
// The chain is the sole source of truth; nothing read through this interface is
// cached or persisted locally.
type Reader interface {
	// current chain height
	BlockNumber(ctx context.Context) (uint64, error)

	// decoded contract events of one kind in [fromBlock, toBlock] inclusive
	FilterEvents(ctx context.Context, kind EventKind, fromBlock, toBlock uint64) ([]Event, error)

	// unix timestamp of the block at the given height
	BlockTimestamp(ctx context.Context, number uint64) (uint64, error)

	// whether a chronicle has been written for the hash
	ChronicleExists(ctx context.Context, txHash common.Hash) (bool, error)

	// the stored chronicle for the hash (zero-timestamp value if absent)
	Chronicle(ctx context.Context, txHash common.Hash) (Chronicle, error)

	// the address that paid for a pending analysis request, or the zero
	// address if no request is pending for the hash
	PendingRequester(ctx context.Context, txHash common.Hash) (common.Address, error)

	// the current fee (in wei) for submitting an analysis request
	SubmissionFee(ctx context.Context) (*big.Int, error)

	// the authoritative per-address points counter
	PointsOf(ctx context.Context, addr common.Address) (*big.Int, error)

	// the raw transaction record; ErrNotFound if the chain has no such hash
	TransactionByHash(ctx context.Context, txHash common.Hash) (Transaction, error)
}

// Writer is the mutating ledger surface used by the analysis orchestrator
type Writer interface {
	// persists a narrative for the hash and waits for the submission to be
	// mined; returns the commit transaction's hash
	SubmitChronicle(ctx context.Context, txHash common.Hash, narrative string) (common.Hash, error)
}
