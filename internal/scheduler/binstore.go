package scheduler

import (
	"sort"

	"github.com/alexanderramin/laststart/internal/calendar"
)

// itemRef indexes the run's NormalizedItem arena.
type itemRef int

// occupant is the item assigned to a slot. final never goes back to false.
type occupant struct {
	item  itemRef
	final bool
}

// binStore is the sparse slot → occupant mapping mutated by one run.
// An absent slot is free.
type binStore struct {
	slots map[calendar.Slot]occupant
}

func newBinStore() *binStore {
	return &binStore{slots: make(map[calendar.Slot]occupant)}
}

func (b *binStore) get(s calendar.Slot) (occupant, bool) {
	o, ok := b.slots[s]
	return o, ok
}

// assign gives s to item as a movable occupant.
func (b *binStore) assign(s calendar.Slot, item itemRef) {
	b.slots[s] = occupant{item: item}
}

func (b *binStore) free(s calendar.Slot) {
	delete(b.slots, s)
}

func (b *binStore) markFinal(s calendar.Slot) {
	if o, ok := b.slots[s]; ok && !o.final {
		o.final = true
		b.slots[s] = o
	}
}

func (b *binStore) isFinal(s calendar.Slot) bool {
	o, ok := b.slots[s]
	return ok && o.final
}

func (b *binStore) len() int { return len(b.slots) }

// sortedSlots returns every occupied slot in ascending order.
func (b *binStore) sortedSlots() []calendar.Slot {
	out := make([]calendar.Slot, 0, len(b.slots))
	for s := range b.slots {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
