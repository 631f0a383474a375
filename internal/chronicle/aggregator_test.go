package chronicle

import (
	"context"
	"errors"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/harishkotra/onchain-chronicler/internal/ledger"
)

// builds a fake reader whose event log is the given fixed set; FilterEvents
// serves whatever falls inside the queried range
func readerWithEvents(head uint64, events []ledger.Event) *fakeReader {
	return &fakeReader{
		blockNumberFunc: func(_ context.Context) (uint64, error) {
			return head, nil
		},
		filterEventsFunc: func(_ context.Context, kind ledger.EventKind, fromBlock, toBlock uint64) ([]ledger.Event, error) {
			var matched []ledger.Event

			for _, e := range events {
				if e.Kind == kind && e.BlockNumber >= fromBlock && e.BlockNumber <= toBlock {
					matched = append(matched, e)
				}
			}

			return matched, nil
		},
	}
}

func requestEvent(block uint64, addr string) ledger.Event {
	return ledger.Event{
		Kind:        ledger.EventRequestSubmitted,
		TxHash:      common.HexToHash("0x1"),
		Requester:   common.HexToAddress(addr),
		BlockNumber: block,
	}
}

func chronicleEvent(block uint64, txHash, narrative string) ledger.Event {
	return ledger.Event{
		Kind:        ledger.EventChronicleAdded,
		TxHash:      common.HexToHash(txHash),
		Requester:   common.HexToAddress("0xaa"),
		Narrative:   narrative,
		BlockNumber: block,
	}
}

func TestScanEventsChunkingIsTransparent(t *testing.T) {
	// events spread across several 1000-block chunks of a 10k window
	events := []ledger.Event{
		requestEvent(90_100, "0x01"),
		requestEvent(92_500, "0x02"),
		requestEvent(95_000, "0x03"),
		requestEvent(99_999, "0x04"),
		requestEvent(100_000, "0x05"),
	}

	reader := readerWithEvents(100_000, events)

	var ranges [][2]uint64

	inner := reader.filterEventsFunc
	reader.filterEventsFunc = func(ctx context.Context, kind ledger.EventKind, fromBlock, toBlock uint64) ([]ledger.Event, error) {
		ranges = append(ranges, [2]uint64{fromBlock, toBlock})
		return inner(ctx, kind, fromBlock, toBlock)
	}

	agg := NewAggregator(reader)

	scanned := agg.scanEvents(context.Background(), ledger.EventRequestSubmitted, 90_000, 100_000)

	if len(scanned) != len(events) {
		t.Fatalf("expected %d events from chunked scan, got %d", len(events), len(scanned))
	}

	for _, r := range ranges {
		if width := r[1] - r[0] + 1; width > DefaultChunkWidth {
			t.Errorf("chunk [%d, %d] exceeds width %d", r[0], r[1], DefaultChunkWidth)
		}
	}

	// chunks must tile the range with no gaps or overlaps
	if ranges[0][0] != 90_000 {
		t.Errorf("first chunk starts at %d, expected 90000", ranges[0][0])
	}

	for i := 1; i < len(ranges); i++ {
		if ranges[i][0] != ranges[i-1][1]+1 {
			t.Errorf("gap between chunk %d and %d", i-1, i)
		}
	}

	if last := ranges[len(ranges)-1][1]; last != 100_000 {
		t.Errorf("last chunk ends at %d, expected 100000", last)
	}
}

func TestScanEventsOrdersByBlockThenLogIndex(t *testing.T) {
	events := []ledger.Event{
		{Kind: ledger.EventRequestSubmitted, BlockNumber: 20, LogIndex: 1},
		{Kind: ledger.EventRequestSubmitted, BlockNumber: 10, LogIndex: 5},
		{Kind: ledger.EventRequestSubmitted, BlockNumber: 10, LogIndex: 2},
	}

	agg := NewAggregator(readerWithEvents(100, events))

	scanned := agg.scanEvents(context.Background(), ledger.EventRequestSubmitted, 0, 100)

	if len(scanned) != 3 {
		t.Fatalf("expected 3 events, got %d", len(scanned))
	}

	if scanned[0].BlockNumber != 10 || scanned[0].LogIndex != 2 {
		t.Errorf("expected block 10 index 2 first, got block %d index %d", scanned[0].BlockNumber, scanned[0].LogIndex)
	}

	if scanned[2].BlockNumber != 20 {
		t.Errorf("expected block 20 last, got %d", scanned[2].BlockNumber)
	}
}

func TestScanEventsSkipsFailedChunk(t *testing.T) {
	events := []ledger.Event{
		requestEvent(500, "0x01"),   // chunk 0
		requestEvent(1_500, "0x02"), // chunk 1 (will fail)
		requestEvent(2_500, "0x03"), // chunk 2
	}

	reader := readerWithEvents(3_000, events)

	inner := reader.filterEventsFunc
	chunkIndex := -1
	reader.filterEventsFunc = func(ctx context.Context, kind ledger.EventKind, fromBlock, toBlock uint64) ([]ledger.Event, error) {
		chunkIndex++
		if chunkIndex == 1 {
			return nil, errors.New("rpc: query returned more than 10000 results")
		}

		return inner(ctx, kind, fromBlock, toBlock)
	}

	agg := NewAggregator(reader)

	scanned := agg.scanEvents(context.Background(), ledger.EventRequestSubmitted, 0, 3_000)

	if len(scanned) != 2 {
		t.Fatalf("expected 2 events despite one failed chunk, got %d", len(scanned))
	}

	for _, e := range scanned {
		if e.BlockNumber == 1_500 {
			t.Error("event from the failed chunk should have been skipped")
		}
	}
}

func TestLeaderboardFiltersSortsAndCaps(t *testing.T) {
	events := []ledger.Event{
		requestEvent(99_000, "0xA0"),
		requestEvent(99_100, "0xB0"),
		requestEvent(99_200, "0xC0"),
		requestEvent(99_300, "0xA0"), // duplicate address, queried once
	}

	points := map[common.Address]*big.Int{
		common.HexToAddress("0xA0"): big.NewInt(50),
		common.HexToAddress("0xB0"): big.NewInt(0), // filtered out
		common.HexToAddress("0xC0"): big.NewInt(12),
	}

	reader := readerWithEvents(100_000, events)

	pointsReads := 0
	reader.pointsOfFunc = func(_ context.Context, addr common.Address) (*big.Int, error) {
		pointsReads++
		return points[addr], nil
	}

	agg := NewAggregator(reader)

	scores, err := agg.Leaderboard(context.Background())
	if err != nil {
		t.Fatalf("Leaderboard failed: %v", err)
	}

	if pointsReads != 3 {
		t.Errorf("expected 3 points reads (one per distinct address), got %d", pointsReads)
	}

	if len(scores) != 2 {
		t.Fatalf("expected 2 entries (zero-point address excluded), got %d", len(scores))
	}

	if scores[0].Address != common.HexToAddress("0xA0").Hex() || scores[0].Points != 50 {
		t.Errorf("expected 0xA0 with 50 points first, got %s with %d", scores[0].Address, scores[0].Points)
	}

	if scores[1].Address != common.HexToAddress("0xC0").Hex() || scores[1].Points != 12 {
		t.Errorf("expected 0xC0 with 12 points second, got %s with %d", scores[1].Address, scores[1].Points)
	}
}

func TestLeaderboardCapsAtTen(t *testing.T) {
	var events []ledger.Event

	addrs := []string{
		"0x01", "0x02", "0x03", "0x04", "0x05", "0x06",
		"0x07", "0x08", "0x09", "0x0a", "0x0b", "0x0c",
	}

	for i, addr := range addrs {
		events = append(events, requestEvent(99_000+uint64(i), addr))
	}

	reader := readerWithEvents(100_000, events)
	reader.pointsOfFunc = func(_ context.Context, addr common.Address) (*big.Int, error) {
		return new(big.Int).SetBytes(addr.Bytes()), nil
	}

	agg := NewAggregator(reader)

	scores, err := agg.Leaderboard(context.Background())
	if err != nil {
		t.Fatalf("Leaderboard failed: %v", err)
	}

	if len(scores) != 10 {
		t.Fatalf("expected leaderboard capped at 10, got %d", len(scores))
	}
}

func TestLeaderboardSkipsFailedPointsRead(t *testing.T) {
	events := []ledger.Event{
		requestEvent(99_000, "0xA0"),
		requestEvent(99_100, "0xB0"),
	}

	reader := readerWithEvents(100_000, events)
	reader.pointsOfFunc = func(_ context.Context, addr common.Address) (*big.Int, error) {
		if addr == common.HexToAddress("0xB0") {
			return nil, errors.New("rpc: connection reset")
		}

		return big.NewInt(7), nil
	}

	agg := NewAggregator(reader)

	scores, err := agg.Leaderboard(context.Background())
	if err != nil {
		t.Fatalf("Leaderboard failed: %v", err)
	}

	if len(scores) != 1 {
		t.Fatalf("expected 1 entry after skipping failed read, got %d", len(scores))
	}
}

func TestLeaderboardFailsWithoutBlockHeight(t *testing.T) {
	reader := &fakeReader{
		blockNumberFunc: func(_ context.Context) (uint64, error) {
			return 0, errors.New("dial tcp: connection refused")
		},
	}

	agg := NewAggregator(reader)

	if _, err := agg.Leaderboard(context.Background()); err == nil {
		t.Fatal("expected error when block height is unavailable")
	}
}

func TestChroniclesDedupsAndSortsByTimestampDesc(t *testing.T) {
	events := []ledger.Event{
		chronicleEvent(60_000, "0x111", "first"),
		chronicleEvent(70_000, "0x222", "second"),
		chronicleEvent(80_000, "0x111", "first rewritten"), // same hash, last wins
	}

	reader := readerWithEvents(100_000, events)

	agg := NewAggregator(reader)

	entries, err := agg.Chronicles(context.Background())
	if err != nil {
		t.Fatalf("Chronicles failed: %v", err)
	}

	if len(entries) != 2 {
		t.Fatalf("expected 2 deduplicated entries, got %d", len(entries))
	}

	// fake timestamps are blockNumber*10, so 0x111 at block 80000 is newest
	if entries[0].TxHash != common.HexToHash("0x111").Hex() {
		t.Errorf("expected most recent entry first, got %s", entries[0].TxHash)
	}

	if entries[0].Narrative != "first rewritten" {
		t.Errorf("expected last write to win for duplicate hash, got %q", entries[0].Narrative)
	}

	if entries[1].Timestamp >= entries[0].Timestamp {
		t.Error("entries not sorted by timestamp descending")
	}
}

func TestChroniclesDropsEntryOnTimestampFailure(t *testing.T) {
	events := []ledger.Event{
		chronicleEvent(60_000, "0x111", "kept"),
		chronicleEvent(70_000, "0x222", "dropped"),
	}

	reader := readerWithEvents(100_000, events)
	reader.blockTimestampFunc = func(_ context.Context, number uint64) (uint64, error) {
		if number == 70_000 {
			return 0, errors.New("header not found")
		}

		return number * 10, nil
	}

	agg := NewAggregator(reader)

	entries, err := agg.Chronicles(context.Background())
	if err != nil {
		t.Fatalf("Chronicles failed: %v", err)
	}

	if len(entries) != 1 {
		t.Fatalf("expected 1 entry after dropping failed enrichment, got %d", len(entries))
	}

	if entries[0].Narrative != "kept" {
		t.Errorf("wrong entry survived: %q", entries[0].Narrative)
	}
}

func TestLookbackStartClampsAtGenesis(t *testing.T) {
	if got := lookbackStart(5_000, 10_000); got != 0 {
		t.Errorf("expected clamp to 0, got %d", got)
	}

	if got := lookbackStart(60_000, 10_000); got != 50_000 {
		t.Errorf("expected 50000, got %d", got)
	}
}
