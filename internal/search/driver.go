package search

import (
	"context"
	"sync"
	"sync/atomic"
)

// Stats mirrors the per-thread checked-counter array of §3's search
// result record, rolled up for host reporting.
type Stats struct {
	AddressesChecked uint64
	MatchFound       bool
}

// Driver runs Config.NumThreads goroutines, one per work-item, each
// walking its own stride-N slice of the entropy space. It is the CPU
// substrate for the search kernel; gpu/wrapper/search.go plays the same
// role against device memory.
type Driver struct {
	cfg Config

	foundFlag atomic.Uint32
	result    atomic.Pointer[Result]
	checked   []atomic.Uint64
}

// NewDriver builds a driver for cfg. NumThreads and CheckInterval must
// already be validated (CheckInterval a power of two) by the caller.
func NewDriver(cfg Config) *Driver {
	return &Driver{
		cfg:     cfg,
		checked: make([]atomic.Uint64, cfg.NumThreads),
	}
}

// Run launches all work-items and blocks until either one finds a match
// or ctx is cancelled. A cancelled context does not itself count as a
// found result; Result() returns nil in that case.
func (d *Driver) Run(ctx context.Context) {
	var wg sync.WaitGroup
	wg.Add(int(d.cfg.NumThreads))

	for t := uint32(0); t < d.cfg.NumThreads; t++ {
		go func(t uint32) {
			defer wg.Done()
			d.checked[t].Store(runWorkItemCtx(ctx, d.cfg, t, &d.foundFlag, &d.result))
		}(t)
	}

	wg.Wait()
}

// runWorkItemCtx wraps runWorkItem with cooperative cancellation: a
// cancelled context is treated the same as the shared flag being set,
// since goroutines have no hardware equivalent of a kernel abort.
func runWorkItemCtx(ctx context.Context, cfg Config, t uint32, foundFlag *atomic.Uint32, result *atomic.Pointer[Result]) uint64 {
	done := ctx.Done()
	if done == nil {
		return runWorkItem(cfg, t, foundFlag, result)
	}

	stop := make(chan struct{})
	go func() {
		select {
		case <-done:
			foundFlag.CompareAndSwap(0, 2)
		case <-stop:
		}
	}()
	defer close(stop)

	return runWorkItem(cfg, t, foundFlag, result)
}

// Result returns the published match, or nil if none was found.
func (d *Driver) Result() *Result {
	if d.foundFlag.Load() != 1 {
		return nil
	}
	return d.result.Load()
}

// Stats aggregates the per-work-item counters into a summary.
func (d *Driver) Stats() Stats {
	var total uint64
	for i := range d.checked {
		total += d.checked[i].Load()
	}
	return Stats{
		AddressesChecked: total,
		MatchFound:       d.foundFlag.Load() == 1,
	}
}
