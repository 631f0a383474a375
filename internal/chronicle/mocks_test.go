package chronicle

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/harishkotra/onchain-chronicler/internal/ledger"
	"github.com/harishkotra/onchain-chronicler/internal/narrative"
)

// implements ledger.Reader for testing
type fakeReader struct {
	blockNumberFunc      func(ctx context.Context) (uint64, error)
	filterEventsFunc     func(ctx context.Context, kind ledger.EventKind, fromBlock, toBlock uint64) ([]ledger.Event, error)
	blockTimestampFunc   func(ctx context.Context, number uint64) (uint64, error)
	chronicleExistsFunc  func(ctx context.Context, txHash common.Hash) (bool, error)
	chronicleFunc        func(ctx context.Context, txHash common.Hash) (ledger.Chronicle, error)
	pendingRequesterFunc func(ctx context.Context, txHash common.Hash) (common.Address, error)
	submissionFeeFunc    func(ctx context.Context) (*big.Int, error)
	pointsOfFunc         func(ctx context.Context, addr common.Address) (*big.Int, error)
	transactionFunc      func(ctx context.Context, txHash common.Hash) (ledger.Transaction, error)
}

func (f *fakeReader) BlockNumber(ctx context.Context) (uint64, error) {
	if f.blockNumberFunc != nil {
		return f.blockNumberFunc(ctx)
	}

	return 0, nil
}

func (f *fakeReader) FilterEvents(ctx context.Context, kind ledger.EventKind, fromBlock, toBlock uint64) ([]ledger.Event, error) {
	if f.filterEventsFunc != nil {
		return f.filterEventsFunc(ctx, kind, fromBlock, toBlock)
	}

	return nil, nil
}

func (f *fakeReader) BlockTimestamp(ctx context.Context, number uint64) (uint64, error) {
	if f.blockTimestampFunc != nil {
		return f.blockTimestampFunc(ctx, number)
	}

	return number * 10, nil
}

func (f *fakeReader) ChronicleExists(ctx context.Context, txHash common.Hash) (bool, error) {
	if f.chronicleExistsFunc != nil {
		return f.chronicleExistsFunc(ctx, txHash)
	}

	return false, nil
}

func (f *fakeReader) Chronicle(ctx context.Context, txHash common.Hash) (ledger.Chronicle, error) {
	if f.chronicleFunc != nil {
		return f.chronicleFunc(ctx, txHash)
	}

	return ledger.Chronicle{}, nil
}

func (f *fakeReader) PendingRequester(ctx context.Context, txHash common.Hash) (common.Address, error) {
	if f.pendingRequesterFunc != nil {
		return f.pendingRequesterFunc(ctx, txHash)
	}

	return common.Address{}, nil
}

func (f *fakeReader) SubmissionFee(ctx context.Context) (*big.Int, error) {
	if f.submissionFeeFunc != nil {
		return f.submissionFeeFunc(ctx)
	}

	return big.NewInt(0), nil
}

func (f *fakeReader) PointsOf(ctx context.Context, addr common.Address) (*big.Int, error) {
	if f.pointsOfFunc != nil {
		return f.pointsOfFunc(ctx, addr)
	}

	return big.NewInt(0), nil
}

func (f *fakeReader) TransactionByHash(ctx context.Context, txHash common.Hash) (ledger.Transaction, error) {
	if f.transactionFunc != nil {
		return f.transactionFunc(ctx, txHash)
	}

	return ledger.Transaction{}, nil
}

// implements ledger.Writer for testing
type fakeWriter struct {
	submitFunc func(ctx context.Context, txHash common.Hash, text string) (common.Hash, error)
}

func (f *fakeWriter) SubmitChronicle(ctx context.Context, txHash common.Hash, text string) (common.Hash, error) {
	if f.submitFunc != nil {
		return f.submitFunc(ctx, txHash, text)
	}

	return common.HexToHash("0xc0ffee"), nil
}

// implements Generator for testing
type fakeGenerator struct {
	completeFunc func(ctx context.Context, messages []narrative.Message, opts narrative.Options) (string, error)
}

func (f *fakeGenerator) Complete(ctx context.Context, messages []narrative.Message, opts narrative.Options) (string, error) {
	if f.completeFunc != nil {
		return f.completeFunc(ctx, messages, opts)
	}

	return "a perfectly ordinary transfer", nil
}
