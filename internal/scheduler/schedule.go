package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/alexanderramin/laststart/internal/calendar"
	"github.com/alexanderramin/laststart/internal/domain"
)

const (
	// DefaultMaxItems bounds how many items one run considers.
	DefaultMaxItems = 10

	// DefaultMaxLookback bounds how far before its deadline an item is placed.
	DefaultMaxLookback = 365 * 24 * time.Hour
)

// Options tunes a scheduling run. Zero values select the defaults.
type Options struct {
	MaxItems    int
	MaxLookback time.Duration
}

// DefaultOptions returns the options used when none are configured.
func DefaultOptions() Options {
	return Options{MaxItems: DefaultMaxItems, MaxLookback: DefaultMaxLookback}
}

// Schedule computes the latest start of each item so that all of them finish
// by their deadlines inside cal's work time. items must already be in
// CanonicalSort order; the order decides which item yields on conflicts.
//
// now is the reference instant for feasibility and is not re-sampled. The
// context is checked before placement starts and once per item; a cancelled
// run returns an error wrapping ErrCancelled and publishes nothing.
func Schedule(ctx context.Context, now time.Time, cal *calendar.WorkCalendar, items []domain.WorkItem, opts Options) (*Result, error) {
	if cal == nil {
		return nil, fmt.Errorf("%w: no calendar", calendar.ErrInvalidConfig)
	}
	if err := checkpoint(ctx); err != nil {
		return nil, err
	}

	maxItems := opts.MaxItems
	if maxItems <= 0 {
		maxItems = DefaultMaxItems
	}
	if len(items) > maxItems {
		items = items[:maxItems]
	}

	normalized := NormalizeAll(items, cal.BinMinutes())
	if len(normalized) == 0 {
		return nil, ErrNoSchedulableItems
	}

	e := newEngine(cal, normalized, opts.MaxLookback)
	missing := make([]int, len(normalized))
	for i := range normalized {
		if err := checkpoint(ctx); err != nil {
			return nil, err
		}
		m, err := e.placeItem(itemRef(i))
		if err != nil {
			return nil, err
		}
		missing[i] = m
	}
	return e.assemble(now, missing)
}

func checkpoint(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w: %w", ErrCancelled, err)
	}
	return nil
}
