// internal/writer/status_writer.go
package writer

import (
	"errors"
	"fmt"
	"strings"

	"github.com/tamzrod/solarman-poller/internal/poller"
	"github.com/tamzrod/solarman-poller/internal/status"
)

// StatusWriter is the delivery-only contract for logger status.
// It receives a snapshot and writes it verbatim.
// No logic, no interpretation.
type StatusWriter interface {
	WriteStatus(s status.Snapshot) error
}

// deviceStatusWriter writes the status block of one logger.
type deviceStatusWriter struct {
	plan *StatusPlan
	cli  endpointClient

	needFull bool
	last     status.Snapshot
	nameRegs []uint16
}

const statusAreaHoldingRegisters byte = 3

// NewDeviceStatusWriter builds a status writer if status is enabled for the logger.
// If plan.Status is nil, status is disabled.
func NewDeviceStatusWriter(plan Plan, clients map[string]endpointClient) (*deviceStatusWriter, bool) {
	if plan.Status == nil {
		return nil, false
	}

	sp := plan.Status

	return &deviceStatusWriter{
		plan:     sp,
		cli:      clients[sp.Endpoint],
		needFull: true, // full re-assert on first successful write
		nameRegs: status.EncodeDeviceName(sp.DeviceName),
	}, true
}

// Write delivers the status snapshot of a poll result.
func (sw *deviceStatusWriter) Write(res poller.PollResult) error {
	return sw.WriteStatus(res.Status)
}

// WriteStatus delivers a status snapshot into status memory.
// On any write failure, the next successful call will re-assert the full block.
func (sw *deviceStatusWriter) WriteStatus(s status.Snapshot) error {
	if sw == nil || sw.plan == nil {
		return errors.New("status writer: disabled")
	}
	if sw.cli == nil {
		return fmt.Errorf("status writer: missing client for endpoint %s", sw.plan.Endpoint)
	}

	baseAddr := sw.baseAddr()
	unitID := sw.plan.UnitID

	// ------------------------------------------------------------
	// Full block write (identity re-assert)
	// ------------------------------------------------------------
	if sw.needFull {
		if err := sw.cli.WriteRegisters(
			statusAreaHoldingRegisters,
			unitID,
			baseAddr,
			sw.fullBlockRegs(s),
		); err != nil {
			return fmt.Errorf("status writer: full block write failed: %w", err)
		}

		sw.needFull = false
		sw.last = s
		return nil
	}

	var errs []string

	write := func(slot uint16, name string, prev *uint16, v uint16) {
		if *prev == v {
			return
		}
		if err := sw.cli.WriteRegisters(
			statusAreaHoldingRegisters,
			unitID,
			baseAddr+slot,
			[]uint16{v},
		); err != nil {
			errs = append(errs, fmt.Sprintf("slot%d %s write failed: %v", slot, name, err))
			return
		}
		*prev = v
	}

	state := uint16(sw.last.State)
	write(status.SlotState, "state", &state, uint16(s.State))
	sw.last.State = status.State(state)

	write(status.SlotLastErrorCode, "last_error", &sw.last.LastErrorCode, s.LastErrorCode)
	write(status.SlotSecondsInError, "seconds", &sw.last.SecondsInError, s.SecondsInError)
	write(status.SlotConsecutiveFailures, "failures", &sw.last.ConsecutiveFailures, s.ConsecutiveFailures)

	if len(errs) > 0 {
		// Any partial failure introduces doubt; re-assert on next success.
		sw.needFull = true
		return errors.New("status writer: " + strings.Join(errs, " | "))
	}

	return nil
}

func (sw *deviceStatusWriter) baseAddr() uint16 {
	// Each logger owns a fixed SlotsPerDevice block.
	return sw.plan.BaseSlot * status.SlotsPerDevice
}

func (sw *deviceStatusWriter) fullBlockRegs(s status.Snapshot) []uint16 {
	regs := status.Encode(s)

	// Device name always lives at the end of the block
	copy(regs[status.SlotDeviceNameStart:status.SlotDeviceNameEnd+1], sw.nameRegs)

	return regs
}
