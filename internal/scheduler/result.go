package scheduler

import (
	"fmt"
	"time"
)

// Entry is one item's recommended latest start.
type Entry struct {
	ItemID      string
	LatestStart time.Time
	Bins        int // bins placed
	Needed      int // bins requested
}

// Shortfall records bins an item could not receive.
type Shortfall struct {
	ItemID      string
	MissingBins int
}

// Result is the outcome of one scheduling run.
type Result struct {
	Entries    []Entry // ordered by LatestStart
	Shortfalls []Shortfall
	IsFeasible bool
	BinMinutes int
}

// Complete reports whether every item received all the bins it asked for.
func (r *Result) Complete() bool {
	return len(r.Shortfalls) == 0
}

// assemble reads the finished store once. missing is indexed by itemRef.
func (e *engine) assemble(now time.Time, missing []int) (*Result, error) {
	slots := e.store.sortedSlots()
	if len(slots) == 0 {
		return nil, ErrNoSchedulableItems
	}

	// One slot of tolerance absorbs truncating now into its slot.
	res := &Result{
		IsFeasible: !e.cal.Instant(slots[0] + 1).Before(now),
		BinMinutes: e.cal.BinMinutes(),
	}

	counts := make([]int, len(e.items))
	for _, s := range slots {
		occ, _ := e.store.get(s)
		counts[occ.item]++
	}

	emitted := make([]bool, len(e.items))
	for _, s := range slots {
		occ, _ := e.store.get(s)
		if emitted[occ.item] {
			continue
		}
		emitted[occ.item] = true
		it := e.items[occ.item]
		if counts[occ.item] > it.Bins {
			return nil, fmt.Errorf("%w: item %s holds %d bins, asked for %d", ErrInternal, it.ItemID, counts[occ.item], it.Bins)
		}
		res.Entries = append(res.Entries, Entry{
			ItemID:      it.ItemID,
			LatestStart: e.cal.Instant(s),
			Bins:        counts[occ.item],
			Needed:      it.Bins,
		})
	}

	for ref, m := range missing {
		if m > 0 {
			res.Shortfalls = append(res.Shortfalls, Shortfall{ItemID: e.items[ref].ItemID, MissingBins: m})
		}
	}
	return res, nil
}
