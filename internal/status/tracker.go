// internal/status/tracker.go
package status

// Tracker debounces per-cycle outcomes into a stable reachability state.
//
// A single failed cycle moves the logger to Limbo; only threshold
// consecutive failures make it Offline. Any success resets the count.
// Tracker is owned by one poller and is not safe for concurrent use.
type Tracker struct {
	state     State
	failures  uint32
	threshold uint32
}

// NewTracker returns a tracker in the Online state.
// A threshold of zero selects DefaultOfflineThreshold.
func NewTracker(threshold uint32) *Tracker {
	if threshold == 0 {
		threshold = DefaultOfflineThreshold
	}
	return &Tracker{
		state:     StateOnline,
		threshold: threshold,
	}
}

// RecordSuccess marks the logger reachable.
func (t *Tracker) RecordSuccess() {
	t.state = StateOnline
	t.failures = 0
}

// RecordFailure counts a failed cycle.
func (t *Tracker) RecordFailure() {
	t.failures++
	if t.failures < t.threshold {
		t.state = StateLimbo
	} else {
		t.state = StateOffline
	}
}

// Record dispatches on a cycle outcome.
func (t *Tracker) Record(reachable bool) {
	if reachable {
		t.RecordSuccess()
	} else {
		t.RecordFailure()
	}
}

// IsOffline reports whether the threshold has been reached.
func (t *Tracker) IsOffline() bool {
	return t.state == StateOffline
}

// JustBecameOffline is true only on the cycle where the failure count first
// reaches the threshold.
func (t *Tracker) JustBecameOffline() bool {
	return t.state == StateOffline && t.failures == t.threshold
}

// State returns the current state.
func (t *Tracker) State() State {
	return t.state
}

// Failures returns the consecutive failure count.
func (t *Tracker) Failures() uint32 {
	return t.failures
}

// Threshold returns the configured offline threshold.
func (t *Tracker) Threshold() uint32 {
	return t.threshold
}
