package service

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/alexanderramin/laststart/internal/app"
)

// RefreshResult is the outcome of one refresh run.
type RefreshResult struct {
	Generation uint64
	Response   *app.LatestStartResponse
	Err        error
}

// Refresher runs the latest-start use case at most once at a time. A new
// Trigger cancels the run in flight and waits for it to exit before
// starting the next one. Only the newest run publishes; an unread result is
// replaced by a newer one.
type Refresher struct {
	useCase app.LatestStartUseCase
	logger  zerolog.Logger
	now     func() time.Time
	results chan RefreshResult

	triggerMu sync.Mutex // serialises Trigger and Close

	mu     sync.Mutex
	gen    uint64
	cancel context.CancelFunc
	done   chan struct{}
	closed bool
}

func NewRefresher(useCase app.LatestStartUseCase, logger zerolog.Logger) *Refresher {
	return &Refresher{
		useCase: useCase,
		logger:  logger,
		results: make(chan RefreshResult, 1),
	}
}

// WithClock makes every run plan as of now() instead of the wall clock.
func (r *Refresher) WithClock(now func() time.Time) *Refresher {
	r.now = now
	return r
}

// Results delivers published runs. It is closed by Close.
func (r *Refresher) Results() <-chan RefreshResult {
	return r.results
}

// Trigger supersedes the current run, if any, and starts a new one bound to
// ctx. It returns once the new run has started. Triggering a closed
// Refresher does nothing.
func (r *Refresher) Trigger(ctx context.Context) {
	r.triggerMu.Lock()
	defer r.triggerMu.Unlock()

	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return
	}
	r.gen++
	gen := r.gen
	prevCancel, prevDone := r.cancel, r.done
	r.mu.Unlock()

	if prevCancel != nil {
		prevCancel()
		<-prevDone
	}

	runCtx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	r.mu.Lock()
	r.cancel, r.done = cancel, done
	r.mu.Unlock()

	go r.run(runCtx, gen, done)
}

func (r *Refresher) run(ctx context.Context, gen uint64, done chan struct{}) {
	defer close(done)

	req := app.NewLatestStartRequest()
	if r.now != nil {
		t := r.now()
		req.Now = &t
	}
	resp, err := r.useCase.Compute(ctx, req)

	r.mu.Lock()
	defer r.mu.Unlock()
	if gen != r.gen || r.closed || ctx.Err() != nil {
		r.logger.Debug().Uint64("generation", gen).Msg("refresh superseded")
		return
	}
	// Replace an unread result; only this path sends, under mu.
	select {
	case <-r.results:
	default:
	}
	r.results <- RefreshResult{Generation: gen, Response: resp, Err: err}
	r.logger.Debug().Uint64("generation", gen).Bool("ok", err == nil).Msg("refresh published")
}

// Close cancels the run in flight, waits for it and closes Results.
func (r *Refresher) Close() {
	r.triggerMu.Lock()
	defer r.triggerMu.Unlock()

	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return
	}
	r.closed = true
	cancel, done := r.cancel, r.done
	r.mu.Unlock()

	if cancel != nil {
		cancel()
		<-done
	}
	close(r.results)
}
