// Package billing derives payment blocks from attendance history.
//
// A block is a fixed-size chronological grouping of a registration's
// attendance dates; each completed block is one billing cycle. The
// derivation is recomputed from the full record set on every read and
// is never stored, so it cannot drift the way a cached counter can.
package billing

import (
	"sort"
	"time"
)

// Block statuses.
const (
	StatusComplete   = "complete"
	StatusInProgress = "in_progress"
)

// Block is one billing cycle: a chronological run of up to blockSize
// sessions. Numbers are 1-based and assigned oldest-first.
type Block struct {
	Number   int       `json:"block_number"`
	Start    time.Time `json:"start_date"`
	End      time.Time `json:"end_date"`
	Sessions int       `json:"sessions"`
	Status   string    `json:"status"`
}

// Partition groups session dates into blocks of exactly blockSize,
// consumed in ascending date order. The input need not be sorted; the
// input slice is not modified. The final block may hold fewer than
// blockSize sessions and is reported as in progress. Returns all
// blocks oldest-first; callers reverse or truncate for display.
//
// An empty history yields no blocks. A non-positive blockSize yields
// no blocks rather than panicking; block size is validated where
// configuration is admitted, not here.
func Partition(dates []time.Time, blockSize int) []Block {
	if len(dates) == 0 || blockSize < 1 {
		return nil
	}

	sorted := make([]time.Time, len(dates))
	copy(sorted, dates)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Before(sorted[j]) })

	blocks := make([]Block, 0, (len(sorted)+blockSize-1)/blockSize)
	for i := 0; i < len(sorted); i += blockSize {
		end := i + blockSize
		if end > len(sorted) {
			end = len(sorted)
		}
		chunk := sorted[i:end]

		status := StatusInProgress
		if len(chunk) == blockSize {
			status = StatusComplete
		}
		blocks = append(blocks, Block{
			Number:   i/blockSize + 1,
			Start:    chunk[0],
			End:      chunk[len(chunk)-1],
			Sessions: len(chunk),
			Status:   status,
		})
	}
	return blocks
}

// Due reports whether marking one more session should flip a
// registration's payment status to pending: true when the cached
// pre-mark count has reached the due threshold (normally blockSize-1,
// i.e. this mark completes the current block).
func Due(sessionsAttended, threshold int) bool {
	return sessionsAttended >= threshold
}

// NextCount is the cached-counter transition for one attendance mark:
// increments, except that a counter already showing a full block
// restarts the visible progress at 1.
func NextCount(sessionsAttended, blockSize int) int {
	if sessionsAttended >= blockSize {
		return 1
	}
	return sessionsAttended + 1
}
