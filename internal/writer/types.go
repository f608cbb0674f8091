// internal/writer/types.go
package writer

import "github.com/tamzrod/solarman-poller/internal/poller"

// MemoryDest is one memory destination inside an endpoint.
type MemoryDest struct {
	MemoryID uint16
	Offsets  map[int]uint16 // per-FC offset deltas; missing FC => 0
}

// TargetEndpoint is one target endpoint (TCP) with one or more memory destinations.
type TargetEndpoint struct {
	TargetID uint32
	Endpoint string
	Kind     string
	Memories []MemoryDest
}

// StatusPlan places the logger's status block.
type StatusPlan struct {
	Endpoint   string
	Kind       string
	UnitID     uint8
	BaseSlot   uint16
	DeviceName string
}

// Plan is the fully-built write plan for one logger.
type Plan struct {
	LoggerID string
	Targets  []TargetEndpoint
	Status   *StatusPlan // nil => status block disabled
}

// Writer delivers poll results somewhere.
type Writer interface {
	Write(res poller.PollResult) error
}
