// Package poller runs the refresh cycle: wait for the refresh interval, then
// fetch a new build snapshot. Both waits end early when the context is
// cancelled, so a pending cycle never outlives the UI.
package poller

import (
	"context"
	"time"

	"github.com/five82/nixtop/internal/nixps"
)

// Result is the outcome of one fetch.
type Result struct {
	Builds    nixps.Snapshot
	Err       error
	FetchedAt time.Time
}

// Scheduler performs refresh cycles against a fetcher. It holds no mutable
// state; callers decide when to start the next cycle and with which interval.
type Scheduler struct {
	fetcher nixps.Fetcher
	now     func() time.Time
}

// New creates a Scheduler for fetcher.
func New(fetcher nixps.Fetcher) *Scheduler {
	return &Scheduler{fetcher: fetcher, now: time.Now}
}

// Next waits for interval and then fetches. ok is false when ctx ended
// during either wait, in which case the result must be discarded.
func (s *Scheduler) Next(ctx context.Context, interval time.Duration) (Result, bool) {
	if !sleep(ctx, interval) {
		return Result{}, false
	}
	return s.Fetch(ctx)
}

// Fetch runs one fetch immediately. ok is false when ctx ended first.
func (s *Scheduler) Fetch(ctx context.Context) (Result, bool) {
	if ctx.Err() != nil {
		return Result{}, false
	}

	// Buffered so the fetch goroutine can always deliver and exit, even when
	// nobody is listening any more.
	done := make(chan Result, 1)
	go func() {
		builds, err := s.fetcher.Fetch(ctx)
		done <- Result{Builds: builds, Err: err, FetchedAt: s.now()}
	}()

	select {
	case <-ctx.Done():
		return Result{}, false
	case res := <-done:
		if ctx.Err() != nil {
			return Result{}, false
		}
		return res, true
	}
}

func sleep(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
