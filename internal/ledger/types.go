package ledger

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// EventKind selects which contract event a query filters for
type EventKind int

const (
	// a user paid the submission fee and asked for an analysis
	EventRequestSubmitted EventKind = iota

	// a narrative was persisted on-chain for a transaction hash
	EventChronicleAdded
)

// Event is a decoded contract log, ordered by block number then log index
type Event struct {
	Kind        EventKind
	TxHash      common.Hash    // the analyzed transaction's hash (indexed)
	Requester   common.Address // who paid for / requested the analysis (indexed)
	FeePaid     *big.Int       // RequestSubmitted only
	Narrative   string         // ChronicleAdded only
	BlockNumber uint64
	LogIndex    uint
}

// Chronicle is the on-chain record of a narrative, keyed by transaction hash
type Chronicle struct {
	Narrative string
	Requester common.Address
	Timestamp uint64 // unix seconds; zero means the chronicle does not exist
}

// reports whether the chronicle has been written on-chain
func (c Chronicle) Exists() bool {
	return c.Timestamp != 0
}

// Transaction carries the fields of a ledger transaction used for prompt building
type Transaction struct {
	Hash        common.Hash
	From        common.Address
	To          common.Address
	Value       *big.Int
	BlockNumber uint64
	Gas         uint64
}
