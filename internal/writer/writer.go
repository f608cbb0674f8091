// internal/writer/writer.go
package writer

import (
	"errors"
	"fmt"
	"strings"

	"github.com/tamzrod/solarman-poller/internal/poller"
)

// endpointClient is the exact contract the writers use.
type endpointClient interface {
	WriteRegisters(area byte, unitID uint8, addr uint16, regs []uint16) error
}

// mirrorWriter copies the raw register blocks of each cycle into targets.
type mirrorWriter struct {
	plan    Plan
	clients map[string]endpointClient
}

// New returns the mirror writer for plan.
func New(plan Plan, clients map[string]endpointClient) Writer {
	return &mirrorWriter{
		plan:    plan,
		clients: clients,
	}
}

// Write mirrors every successful block. Cycles without data write nothing,
// so targets keep the last good values.
func (w *mirrorWriter) Write(res poller.PollResult) error {
	if !res.Reachable {
		return nil
	}

	var errs []string

	for _, tgt := range w.plan.Targets {
		cli := w.clients[tgt.Endpoint]
		if cli == nil {
			errs = append(errs, fmt.Sprintf(
				"writer: missing client for endpoint %s",
				tgt.Endpoint,
			))
			continue
		}

		if tgt.TargetID > 255 {
			errs = append(errs, fmt.Sprintf(
				"writer: target unit id %d out of range",
				tgt.TargetID,
			))
			continue
		}
		unitID := uint8(tgt.TargetID)

		for _, mem := range tgt.Memories {
			for _, b := range res.Blocks {
				if b.FC != 3 && b.FC != 4 {
					errs = append(errs, fmt.Sprintf("writer: unsupported fc %d", b.FC))
					continue
				}

				dstAddr := offsetForFC(mem.Offsets, b.FC) + b.Address

				if err := cli.WriteRegisters(b.FC, unitID, dstAddr, b.Registers); err != nil {
					errs = append(errs, fmt.Sprintf(
						"writer: ep=%s unit=%d fc=%d addr=%d err=%v",
						tgt.Endpoint, unitID, b.FC, dstAddr, err,
					))
				}
			}
		}
	}

	if len(errs) > 0 {
		return errors.New(strings.Join(errs, " | "))
	}

	return nil
}

func offsetForFC(offsets map[int]uint16, fc uint8) uint16 {
	if offsets == nil {
		return 0
	}
	if v, ok := offsets[int(fc)]; ok {
		return v
	}
	return 0
}

// Fanout delivers each result to every writer and joins their errors.
type Fanout []Writer

func (f Fanout) Write(res poller.PollResult) error {
	var errs []error
	for _, w := range f {
		if err := w.Write(res); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
