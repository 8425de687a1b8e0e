package scheduler

import (
	"fmt"
	"time"

	"github.com/alexanderramin/laststart/internal/calendar"
)

// engine places normalized items into a binStore, walking backward from each
// deadline and compacting earlier occupants leftward when a slot is taken.
type engine struct {
	cal          *calendar.WorkCalendar
	items        []NormalizedItem
	store        *binStore
	lookbackBins calendar.Slot
}

func newEngine(cal *calendar.WorkCalendar, items []NormalizedItem, maxLookback time.Duration) *engine {
	if maxLookback <= 0 {
		maxLookback = DefaultMaxLookback
	}
	return &engine{
		cal:          cal,
		items:        items,
		store:        newBinStore(),
		lookbackBins: calendar.Slot(maxLookback / cal.BinDuration()),
	}
}

// placeItem claims up to the item's Bins, latest slots first, and returns how
// many bins it could not place.
//
// The walk stops at the item's own earliest start or at the lookback limit,
// whichever comes first.
func (e *engine) placeItem(ref itemRef) (int, error) {
	needed := e.items[ref].Bins
	deadline := e.cal.SlotOf(e.items[ref].Deadline)
	floor := deadline - e.lookbackBins

	for cursor := e.cal.PreviousWorkSlot(deadline); needed > 0; cursor = e.cal.PreviousWorkSlot(cursor) {
		if cursor < floor || !e.canPlace(ref, cursor) {
			break
		}
		if _, taken := e.store.get(cursor); taken {
			if !e.moveLeft(cursor) {
				continue
			}
			if _, still := e.store.get(cursor); still {
				return 0, fmt.Errorf("%w: slot %s still occupied after move", ErrInternal, e.cal.Instant(cursor))
			}
		}
		e.store.assign(cursor, ref)
		needed--
	}
	return needed, nil
}

// moveLeft frees target by shifting the chain of occupants before it one step
// to the left. It reports false, leaving every assignment untouched, when the
// chain cannot move without breaking an earliest-start constraint. Slots
// proven unmovable along the way are marked final.
func (e *engine) moveLeft(target calendar.Slot) bool {
	occ, taken := e.store.get(target)
	if !taken {
		return true
	}
	if occ.final {
		return false
	}

	path := []calendar.Slot{target}
	for {
		head := path[len(path)-1]
		headOcc, taken := e.store.get(head)
		if !taken {
			break
		}
		cand := e.previousMovable(head)
		if e.canPlace(headOcc.item, cand) {
			path = append(path, cand)
			continue
		}
		path = e.backtrack(path)
		if len(path) == 0 {
			return false
		}
	}

	e.shift(path)
	return true
}

// previousMovable returns the closest work slot before s that is free or
// holds a non-final occupant.
func (e *engine) previousMovable(s calendar.Slot) calendar.Slot {
	c := e.cal.PreviousWorkSlot(s)
	for e.store.isFinal(c) {
		c = e.cal.PreviousWorkSlot(c)
	}
	return c
}

// backtrack finalizes and drops the trailing run of path slots held by the
// same item as the path's last slot.
func (e *engine) backtrack(path []calendar.Slot) []calendar.Slot {
	last, _ := e.store.get(path[len(path)-1])
	for len(path) > 0 {
		s := path[len(path)-1]
		occ, _ := e.store.get(s)
		if occ.item != last.item {
			break
		}
		e.store.markFinal(s)
		path = path[:len(path)-1]
	}
	return path
}

// shift moves each occupant along path one step toward its free end and
// clears path[0].
func (e *engine) shift(path []calendar.Slot) {
	for i := len(path) - 1; i > 0; i-- {
		dst, src := path[i], path[i-1]
		from, _ := e.store.get(src)
		if to, taken := e.store.get(dst); taken && to.item == from.item {
			continue
		}
		e.store.assign(dst, from.item)
	}
	e.store.free(path[0])
}

// canPlace reports whether ref may occupy s given its earliest start.
func (e *engine) canPlace(ref itemRef, s calendar.Slot) bool {
	nb := e.items[ref].NotBefore
	return nb == nil || !e.cal.Instant(s).Before(*nb)
}
