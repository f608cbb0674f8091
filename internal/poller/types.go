// internal/poller/types.go
package poller

import (
	"time"

	"github.com/google/uuid"

	"github.com/tamzrod/solarman-poller/internal/decode"
	"github.com/tamzrod/solarman-poller/internal/status"
	"github.com/tamzrod/solarman-poller/internal/v5"
)

// RegisterRequest describes one V5 read.
// Geometry only: Start and End are inclusive.
type RegisterRequest struct {
	FunctionCode uint8
	Start        uint16
	End          uint16
}

// Count is the number of registers addressed.
func (r RegisterRequest) Count() uint16 {
	return r.End - r.Start + 1
}

// BlockResult is the raw result of a single successful request.
type BlockResult struct {
	FC       uint8
	Address  uint16
	Quantity uint16

	Registers []uint16
}

// PollResult is a snapshot produced by one poll cycle.
type PollResult struct {
	LoggerID string
	CycleID  uuid.UUID
	At       time.Time
	Duration time.Duration

	// Reachable is true when at least one register was read.
	Reachable bool

	Blocks   []BlockResult
	Words    map[uint16]v5.Word
	Readings []decode.Reading

	// Diagnostics holds every per-request and per-item failure of the cycle.
	Diagnostics []error

	Status            status.Snapshot
	JustBecameOffline bool

	// Err is the last request failure of the cycle, nil if every request succeeded.
	Err error
}
