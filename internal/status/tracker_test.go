// internal/status/tracker_test.go
package status

import (
	"testing"

	"gotest.tools/v3/assert"
)

func TestTracker_InitiallyOnline(t *testing.T) {
	tr := NewTracker(0)

	assert.Equal(t, tr.State(), StateOnline)
	assert.Equal(t, tr.Threshold(), uint32(DefaultOfflineThreshold))
	assert.Assert(t, !tr.IsOffline())
	assert.Assert(t, !tr.JustBecameOffline())
}

func TestTracker_DebounceToOffline(t *testing.T) {
	tr := NewTracker(3)

	tr.RecordFailure()
	assert.Equal(t, tr.State(), StateLimbo)
	assert.Assert(t, !tr.JustBecameOffline())

	tr.RecordFailure()
	assert.Equal(t, tr.State(), StateLimbo)
	assert.Assert(t, !tr.JustBecameOffline())

	tr.RecordFailure()
	assert.Equal(t, tr.State(), StateOffline)
	assert.Assert(t, tr.IsOffline())
	assert.Assert(t, tr.JustBecameOffline())

	tr.RecordFailure()
	assert.Equal(t, tr.State(), StateOffline)
	assert.Assert(t, !tr.JustBecameOffline())
	assert.Equal(t, tr.Failures(), uint32(4))
}

func TestTracker_SuccessResets(t *testing.T) {
	tr := NewTracker(3)

	tr.RecordFailure()
	tr.RecordFailure()
	tr.RecordSuccess()
	assert.Equal(t, tr.State(), StateOnline)
	assert.Equal(t, tr.Failures(), uint32(0))

	// an isolated failure after recovery never reaches offline
	tr.Record(false)
	tr.Record(true)
	tr.Record(false)
	assert.Equal(t, tr.State(), StateLimbo)

	// recovery from offline re-arms the edge
	tr.Record(false)
	tr.Record(false)
	assert.Assert(t, tr.JustBecameOffline())
	tr.Record(true)
	tr.Record(false)
	tr.Record(false)
	tr.Record(false)
	assert.Assert(t, tr.JustBecameOffline())
}

func TestTracker_ThresholdOne(t *testing.T) {
	tr := NewTracker(1)

	tr.RecordFailure()
	assert.Equal(t, tr.State(), StateOffline)
	assert.Assert(t, tr.JustBecameOffline())
}

func TestTracker_Snapshot(t *testing.T) {
	tr := NewTracker(3)
	tr.RecordFailure()

	s := tr.Snapshot()
	assert.Equal(t, s.State, StateLimbo)
	assert.Equal(t, s.ConsecutiveFailures, uint16(1))
	assert.Assert(t, !s.Healthy())
}
