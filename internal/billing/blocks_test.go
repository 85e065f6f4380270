package billing

import (
	"math/rand"
	"reflect"
	"testing"
	"time"
)

func d(month time.Month, day int) time.Time {
	return time.Date(2025, month, day, 0, 0, 0, 0, time.UTC)
}

// TestPartition_NineSessions is the canonical block-size-8 scenario:
// 9 records make one complete block and one in-progress block of 1.
func TestPartition_NineSessions(t *testing.T) {
	dates := []time.Time{
		d(time.January, 1), d(time.January, 8), d(time.January, 15), d(time.January, 22),
		d(time.January, 29), d(time.February, 5), d(time.February, 12), d(time.February, 19),
		d(time.February, 26),
	}

	blocks := Partition(dates, 8)
	if len(blocks) != 2 {
		t.Fatalf("expected 2 blocks, got %d", len(blocks))
	}

	b1 := blocks[0]
	if b1.Number != 1 || !b1.Start.Equal(d(time.January, 1)) || !b1.End.Equal(d(time.February, 19)) ||
		b1.Sessions != 8 || b1.Status != StatusComplete {
		t.Errorf("block 1 wrong: %+v", b1)
	}

	b2 := blocks[1]
	if b2.Number != 2 || !b2.Start.Equal(d(time.February, 26)) || !b2.End.Equal(d(time.February, 26)) ||
		b2.Sessions != 1 || b2.Status != StatusInProgress {
		t.Errorf("block 2 wrong: %+v", b2)
	}
}

func TestPartition_Empty(t *testing.T) {
	if got := Partition(nil, 8); got != nil {
		t.Errorf("empty history should yield no blocks, got %v", got)
	}
	if got := Partition([]time.Time{}, 4); got != nil {
		t.Errorf("empty history should yield no blocks, got %v", got)
	}
}

func TestPartition_InvalidBlockSize(t *testing.T) {
	if got := Partition([]time.Time{d(time.March, 1)}, 0); got != nil {
		t.Errorf("block size 0 should yield nil, got %v", got)
	}
}

// TestPartition_BlockCounts checks ceil(n/b) block count and per-block
// session counts across sizes, including exact multiples (no trailing
// empty block).
func TestPartition_BlockCounts(t *testing.T) {
	cases := []struct {
		n, b int
	}{
		{1, 4}, {3, 4}, {4, 4}, {5, 4}, {8, 4}, {9, 4},
		{7, 8}, {8, 8}, {16, 8}, {17, 8}, {25, 8},
		{5, 1},
	}
	for _, tc := range cases {
		dates := make([]time.Time, tc.n)
		for i := range dates {
			dates[i] = d(time.January, 1).AddDate(0, 0, i*7)
		}
		blocks := Partition(dates, tc.b)

		wantBlocks := (tc.n + tc.b - 1) / tc.b
		if len(blocks) != wantBlocks {
			t.Errorf("n=%d b=%d: expected %d blocks, got %d", tc.n, tc.b, wantBlocks, len(blocks))
			continue
		}
		for i, blk := range blocks {
			wantSessions := tc.b
			if i == len(blocks)-1 && tc.n%tc.b != 0 {
				wantSessions = tc.n % tc.b
			}
			if blk.Sessions != wantSessions {
				t.Errorf("n=%d b=%d block %d: expected %d sessions, got %d", tc.n, tc.b, blk.Number, wantSessions, blk.Sessions)
			}
			if (blk.Status == StatusComplete) != (blk.Sessions == tc.b) {
				t.Errorf("n=%d b=%d block %d: status %q does not match session count %d", tc.n, tc.b, blk.Number, blk.Status, blk.Sessions)
			}
			if blk.Number != i+1 {
				t.Errorf("n=%d b=%d: block numbers not sequential: %+v", tc.n, tc.b, blk)
			}
		}
	}
}

// TestPartition_Chronology verifies start <= end within a block and
// that consecutive blocks do not overlap.
func TestPartition_Chronology(t *testing.T) {
	dates := []time.Time{
		d(time.May, 20), d(time.May, 6), d(time.May, 13), d(time.April, 29),
		d(time.June, 3), d(time.May, 27), d(time.June, 10),
	}
	blocks := Partition(dates, 3)
	for i, blk := range blocks {
		if blk.Start.After(blk.End) {
			t.Errorf("block %d: start %v after end %v", blk.Number, blk.Start, blk.End)
		}
		if i > 0 && blk.Start.Before(blocks[i-1].End) {
			t.Errorf("block %d starts %v before block %d ends %v", blk.Number, blk.Start, blocks[i-1].Number, blocks[i-1].End)
		}
	}
}

// TestPartition_Idempotent shuffles the same history and checks the
// output is identical each time: sorting is internal and the input is
// never mutated.
func TestPartition_Idempotent(t *testing.T) {
	dates := make([]time.Time, 13)
	for i := range dates {
		dates[i] = d(time.January, 2).AddDate(0, 0, i*3)
	}
	rng := rand.New(rand.NewSource(42))

	first := Partition(dates, 4)
	for trial := 0; trial < 10; trial++ {
		shuffled := make([]time.Time, len(dates))
		copy(shuffled, dates)
		rng.Shuffle(len(shuffled), func(i, j int) { shuffled[i], shuffled[j] = shuffled[j], shuffled[i] })

		before := make([]time.Time, len(shuffled))
		copy(before, shuffled)

		got := Partition(shuffled, 4)
		if !reflect.DeepEqual(got, first) {
			t.Fatalf("trial %d: partition of shuffled input differs:\n got %+v\nwant %+v", trial, got, first)
		}
		if !reflect.DeepEqual(shuffled, before) {
			t.Fatalf("trial %d: input slice was mutated", trial)
		}
	}
}

func TestDue(t *testing.T) {
	// Threshold 7 (block size 8): due from the mark that fills the block.
	for c := 0; c < 7; c++ {
		if Due(c, 7) {
			t.Errorf("count %d should not be due at threshold 7", c)
		}
	}
	if !Due(7, 7) || !Due(8, 7) {
		t.Error("counts at or past the threshold should be due")
	}
}

func TestNextCount(t *testing.T) {
	cases := []struct{ have, blockSize, want int }{
		{0, 8, 1},
		{6, 8, 7},
		{7, 8, 8},
		{8, 8, 1},  // full block: visible progress restarts
		{9, 8, 1},  // drifted past full still restarts
		{3, 4, 4},
		{4, 4, 1},
	}
	for _, tc := range cases {
		if got := NextCount(tc.have, tc.blockSize); got != tc.want {
			t.Errorf("NextCount(%d, %d) = %d, want %d", tc.have, tc.blockSize, got, tc.want)
		}
	}
}
