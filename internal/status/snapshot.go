// internal/status/snapshot.go
package status

// Snapshot represents exactly what the writers are allowed to deliver.
// It contains no logic and no memory of the past beyond current state.
type Snapshot struct {
	State               State
	ConsecutiveFailures uint16
	LastErrorCode       uint16
	SecondsInError      uint16
}

// Healthy reports whether the snapshot describes an online logger.
func (s Snapshot) Healthy() bool {
	return s.State == StateOnline
}

// Snapshot captures the tracker's current state.
// The failure count saturates at 65535.
func (t *Tracker) Snapshot() Snapshot {
	failures := t.failures
	if failures > 0xFFFF {
		failures = 0xFFFF
	}
	return Snapshot{
		State:               t.state,
		ConsecutiveFailures: uint16(failures),
	}
}
