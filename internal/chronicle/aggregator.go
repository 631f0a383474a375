package chronicle

import (
	"context"
	"fmt"
	"sort"

	"github.com/ethereum/go-ethereum/common"
	"github.com/harishkotra/onchain-chronicler/internal/ledger"
	"github.com/harishkotra/onchain-chronicler/internal/logger"
)

const leaderboardSize = 10

// Aggregator rebuilds point-in-time views from raw contract events.
// Nothing is cached: every call rescans the ledger, which keeps the views
// trivially consistent with the chain at the cost of extra RPC reads.
type Aggregator struct {
	reader ledger.Reader

	ChunkWidth          uint64
	LeaderboardLookback uint64
	ChronicleLookback   uint64
}

func NewAggregator(reader ledger.Reader) *Aggregator {
	return &Aggregator{
		reader:              reader,
		ChunkWidth:          DefaultChunkWidth,
		LeaderboardLookback: DefaultLeaderboardLookback,
		ChronicleLookback:   DefaultChronicleLookback,
	}
}

// returns the top scoring addresses, sorted by points descending, capped at
// ten entries, zero-point addresses excluded
func (a *Aggregator) Leaderboard(ctx context.Context) ([]Score, error) {
	head, err := a.reader.BlockNumber(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read block height: %w", err)
	}

	events := a.scanEvents(ctx, ledger.EventRequestSubmitted, lookbackStart(head, a.LeaderboardLookback), head)

	// events only tell us which addresses to ask about; the contract's own
	// per-address counter is authoritative for the displayed value
	seen := make(map[common.Address]struct{}, len(events))
	scores := make([]Score, 0, len(events))

	for _, event := range events {
		if _, ok := seen[event.Requester]; ok {
			continue
		}

		seen[event.Requester] = struct{}{}

		points, err := a.reader.PointsOf(ctx, event.Requester)
		if err != nil {
			logger.Warn("skipping leaderboard entry, points read failed",
				"address", event.Requester.Hex(),
				"error", err,
			)
			continue
		}

		if points == nil || points.Sign() <= 0 {
			continue
		}

		scores = append(scores, Score{
			Address: event.Requester.Hex(),
			Points:  points.Uint64(),
		})
	}

	sort.SliceStable(scores, func(i, j int) bool {
		return scores[i].Points > scores[j].Points
	})

	if len(scores) > leaderboardSize {
		scores = scores[:leaderboardSize]
	}

	return scores, nil
}

// returns all recorded chronicles in the lookback window, most recent first
func (a *Aggregator) Chronicles(ctx context.Context) ([]Entry, error) {
	head, err := a.reader.BlockNumber(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read block height: %w", err)
	}

	events := a.scanEvents(ctx, ledger.EventChronicleAdded, lookbackStart(head, a.ChronicleLookback), head)

	// dedup by analyzed transaction hash; the contract enforces one chronicle
	// per hash, so last write wins is safe
	deduped := make(map[common.Hash]ledger.Event, len(events))
	for _, event := range events {
		deduped[event.TxHash] = event
	}

	entries := make([]Entry, 0, len(deduped))

	for _, event := range deduped {
		timestamp, err := a.reader.BlockTimestamp(ctx, event.BlockNumber)
		if err != nil {
			// drop the entry rather than fail the whole listing
			logger.Warn("skipping chronicle entry, timestamp read failed",
				"tx_hash", event.TxHash.Hex(),
				"block", event.BlockNumber,
				"error", err,
			)
			continue
		}

		entries = append(entries, Entry{
			TxHash:    event.TxHash.Hex(),
			Narrative: event.Narrative,
			Requester: event.Requester.Hex(),
			Timestamp: timestamp,
		})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Timestamp > entries[j].Timestamp
	})

	return entries, nil
}

// queries [fromBlock, toBlock] inclusive in bounded chunks. A failed chunk is
// logged and skipped; the scan is best-effort over a bounded window, so
// partial results beat no results.
func (a *Aggregator) scanEvents(ctx context.Context, kind ledger.EventKind, fromBlock, toBlock uint64) []ledger.Event {
	var events []ledger.Event

	for start := fromBlock; start <= toBlock; start += a.ChunkWidth {
		end := start + a.ChunkWidth - 1
		if end > toBlock {
			end = toBlock
		}

		chunk, err := a.reader.FilterEvents(ctx, kind, start, end)
		if err != nil {
			logger.Warn("skipping failed event chunk",
				"from_block", start,
				"to_block", end,
				"error", err,
			)
			continue
		}

		events = append(events, chunk...)
	}

	// chain order: block number, then log index within the block
	sort.SliceStable(events, func(i, j int) bool {
		if events[i].BlockNumber != events[j].BlockNumber {
			return events[i].BlockNumber < events[j].BlockNumber
		}

		return events[i].LogIndex < events[j].LogIndex
	})

	return events
}

// clamps head-lookback at genesis
func lookbackStart(head, lookback uint64) uint64 {
	if head < lookback {
		return 0
	}

	return head - lookback
}
