package chronicle

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"sync"

	"github.com/ethereum/go-ethereum/common"
	"github.com/google/uuid"
	"github.com/harishkotra/onchain-chronicler/internal/ledger"
	"github.com/harishkotra/onchain-chronicler/internal/logger"
	"github.com/harishkotra/onchain-chronicler/internal/narrative"
)

// sampling parameters for narrative generation; low randomness and a short
// cap keep the output terse and (mostly) repeatable
const (
	narrativeTemperature = 0.3
	narrativeMaxTokens   = 200
)

// Generator produces a narrative from chat messages
type Generator interface {
	Complete(ctx context.Context, messages []narrative.Message, opts narrative.Options) (string, error)
}

// Orchestrator runs one analysis per invocation: verify the paid request is
// visible, fetch the transaction, generate a narrative, commit it on-chain.
// It never originates the payable request itself; it only reacts to one the
// user already submitted.
type Orchestrator struct {
	reader    ledger.Reader
	writer    ledger.Writer
	waiter    *Waiter
	generator Generator

	// per-hash in-flight guard; the contract's uniqueness rule is the final
	// backstop against duplicate commits, this just avoids wasting a second
	// AI call on client-side double submits
	inflight sync.Map
}

func NewOrchestrator(reader ledger.Reader, writer ledger.Writer, waiter *Waiter, generator Generator) *Orchestrator {
	return &Orchestrator{
		reader:    reader,
		writer:    writer,
		waiter:    waiter,
		generator: generator,
	}
}

// answers the caller-facing status check: does a chronicle exist, is a
// request pending, and what is the current submission fee. Pure read,
// no work performed, no fee implied.
func (o *Orchestrator) Status(ctx context.Context, txHash common.Hash) (*Status, error) {
	exists, err := o.reader.ChronicleExists(ctx, txHash)
	if err != nil {
		return nil, fmt.Errorf("failed to check chronicle existence: %w", err)
	}

	status := &Status{ChronicleExists: exists}

	if exists {
		record, err := o.reader.Chronicle(ctx, txHash)
		if err != nil {
			return nil, fmt.Errorf("failed to read chronicle: %w", err)
		}

		status.Chronicle = &record
	}

	requester, err := o.reader.PendingRequester(ctx, txHash)
	if err != nil {
		return nil, fmt.Errorf("failed to read pending request: %w", err)
	}

	if requester != (common.Address{}) {
		status.RequestPending = true
		status.Requester = requester.Hex()
	}

	fee, err := o.reader.SubmissionFee(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read submission fee: %w", err)
	}

	status.SubmissionFee = fee

	return status, nil
}

// runs the analysis pipeline for txHash. The caller must already have
// submitted the payable request on-chain; this waits for it to become
// visible, then fetches the transaction, generates the narrative, and
// commits it.
func (o *Orchestrator) Analyze(ctx context.Context, txHash common.Hash) (*Result, error) {
	if _, loaded := o.inflight.LoadOrStore(txHash, struct{}{}); loaded {
		return &Result{AlreadyInFlight: true}, nil
	}
	defer o.inflight.Delete(txHash)

	run := &attempt{}
	log := logger.With("analysis_id", uuid.NewString(), "tx_hash", txHash.Hex())

	// CHECKING: an existing chronicle short-circuits the whole pipeline
	exists, err := o.reader.ChronicleExists(ctx, txHash)
	if err != nil {
		return nil, fmt.Errorf("failed to check chronicle existence: %w", err)
	}

	if exists {
		record, err := o.reader.Chronicle(ctx, txHash)
		if err != nil {
			return nil, fmt.Errorf("failed to read existing chronicle: %w", err)
		}

		log.Info("chronicle already exists, returning verbatim")

		return &Result{Narrative: record.Narrative, AlreadyExisted: true}, nil
	}

	// WAITING_FOR_CONFIRMATION
	requester, err := o.waiter.AwaitPendingRequest(ctx, txHash)
	if err != nil {
		return nil, err
	}

	log.Info("analysis request confirmed", "requester", requester.Hex())

	// FETCHING_TX
	tx, err := o.reader.TransactionByHash(ctx, txHash)
	if err != nil {
		if errors.Is(err, ledger.ErrNotFound) {
			return nil, ErrTransactionNotFound
		}

		return nil, fmt.Errorf("failed to fetch transaction: %w", err)
	}

	// GENERATING_NARRATIVE: at most once per run
	if !run.beginGenerate() {
		return &Result{AlreadyInFlight: true}, nil
	}

	text, err := o.generator.Complete(ctx, buildPrompt(tx), narrative.Options{
		Temperature: narrativeTemperature,
		MaxTokens:   narrativeMaxTokens,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstreamAI, err)
	}

	log.Info("narrative generated", "length", len(text))

	// COMMITTING: at most once per run. The write is detached from the
	// request context: once submitted, a chain mutation cannot be recalled,
	// so let it finish even if the caller is gone.
	if !run.beginCommit() {
		return &Result{AlreadyInFlight: true}, nil
	}

	commitHash, err := o.writer.SubmitChronicle(context.WithoutCancel(ctx), txHash, text)
	if err != nil {
		// the narrative is still surfaced so the paid fee's work is not lost
		return nil, &WriteError{Narrative: text, Err: err}
	}

	log.Info("chronicle committed", "commit_tx", commitHash.Hex())

	return &Result{Narrative: text, CommitTxHash: commitHash.Hex()}, nil
}

// builds the bounded, templated prompt from transaction fields
func buildPrompt(tx ledger.Transaction) []narrative.Message {
	system := "You are a blockchain chronicler. Describe transactions in plain, " +
		"vivid language a non-technical reader enjoys. Two or three sentences, " +
		"no jargon, no disclaimers."

	user := fmt.Sprintf(
		"Describe this transaction:\n"+
			"- Value: %s ETH\n"+
			"- From: %s\n"+
			"- To: %s\n"+
			"- Block: %d\n"+
			"- Gas limit: %d",
		weiToEther(tx.Value), tx.From.Hex(), tx.To.Hex(), tx.BlockNumber, tx.Gas,
	)

	return []narrative.Message{
		{Role: "system", Content: system},
		{Role: "user", Content: user},
	}
}

// formats a wei amount as a decimal ether string
func weiToEther(wei *big.Int) string {
	if wei == nil {
		return "0"
	}

	ether := new(big.Float).Quo(new(big.Float).SetInt(wei), big.NewFloat(1e18))

	return ether.Text('f', 6)
}
