// internal/poller/runner.go
package poller

import (
	"context"
	"time"
)

// Run polls once immediately, then at a fixed rate, and emits every
// PollResult on out. One goroutine per logger. No overlap: a cycle that
// overruns the interval delays the next one instead of running beside it.
func (p *Poller) Run(ctx context.Context, out chan<- PollResult) {
	ticker := time.NewTicker(p.cfg.Interval)
	defer ticker.Stop()

	if !p.emit(ctx, out) {
		return
	}

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if !p.emit(ctx, out) {
				return
			}
		}
	}
}

func (p *Poller) emit(ctx context.Context, out chan<- PollResult) bool {
	res := p.PollOnce()
	select {
	case out <- res:
		return true
	case <-ctx.Done():
		return false
	}
}
