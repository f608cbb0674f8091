// internal/api/registry.go
package api

import (
	"sort"
	"sync"

	"github.com/tamzrod/solarman-poller/internal/poller"
)

// Registry keeps the last poll result of every logger.
// Written by the result consumers, read by HTTP handlers.
type Registry struct {
	mu   sync.RWMutex
	last map[string]poller.PollResult
}

func NewRegistry() *Registry {
	return &Registry{last: map[string]poller.PollResult{}}
}

// Write stores res as the latest result of its logger.
func (r *Registry) Write(res poller.PollResult) error {
	r.mu.Lock()
	r.last[res.LoggerID] = res
	r.mu.Unlock()
	return nil
}

// Get returns the latest result of one logger.
func (r *Registry) Get(id string) (poller.PollResult, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	res, ok := r.last[id]
	return res, ok
}

// All returns the latest results ordered by logger id.
func (r *Registry) All() []poller.PollResult {
	r.mu.RLock()
	out := make([]poller.PollResult, 0, len(r.last))
	for _, res := range r.last {
		out = append(out, res)
	}
	r.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool { return out[i].LoggerID < out[j].LoggerID })
	return out
}
