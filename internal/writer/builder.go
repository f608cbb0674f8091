// internal/writer/builder.go
package writer

import (
	"errors"
	"fmt"
	"time"

	cfg "github.com/tamzrod/solarman-poller/internal/config"
	"github.com/tamzrod/solarman-poller/internal/writer/ingest"
	wmodbus "github.com/tamzrod/solarman-poller/internal/writer/modbus"
)

const defaultEndpointTimeout = 2 * time.Second

// BuildPlan converts one logger config into a writer Plan.
// Assumes config has already passed conflict validation.
func BuildPlan(l cfg.LoggerConfig) (Plan, error) {
	if l.ID == "" {
		return Plan{}, errors.New("writer: logger.id required")
	}

	plan := Plan{LoggerID: l.ID}

	for _, t := range l.Mirror {
		ep := TargetEndpoint{
			TargetID: t.ID,
			Endpoint: t.Endpoint,
			Kind:     t.Kind,
		}

		for _, m := range t.Memories {
			ep.Memories = append(ep.Memories, MemoryDest{
				MemoryID: m.MemoryID,
				Offsets:  m.Offsets, // map[int]uint16 (delta map)
			})
		}

		plan.Targets = append(plan.Targets, ep)
	}

	if l.Status != nil {
		plan.Status = &StatusPlan{
			Endpoint:   l.Status.Endpoint,
			Kind:       l.Status.Kind,
			UnitID:     l.Status.UnitID,
			BaseSlot:   l.Status.Slot,
			DeviceName: l.Status.DeviceName,
		}
	}

	return plan, nil
}

type closer interface {
	endpointClient
	Close() error
}

// BuildEndpointClients creates one client per unique endpoint of the plan.
// Modbus clients connect on first write.
func BuildEndpointClients(plan Plan, timeout time.Duration) (map[string]endpointClient, func() error, error) {
	if timeout <= 0 {
		timeout = defaultEndpointTimeout
	}

	kinds := map[string]string{}
	add := func(endpoint, kind string) error {
		if kind == "" {
			kind = cfg.KindModbus
		}
		if prev, ok := kinds[endpoint]; ok && prev != kind {
			return fmt.Errorf("writer: endpoint %s used as both %s and %s", endpoint, prev, kind)
		}
		kinds[endpoint] = kind
		return nil
	}

	for _, t := range plan.Targets {
		if err := add(t.Endpoint, t.Kind); err != nil {
			return nil, nil, err
		}
	}
	if plan.Status != nil {
		if err := add(plan.Status.Endpoint, plan.Status.Kind); err != nil {
			return nil, nil, err
		}
	}

	clients := make(map[string]endpointClient, len(kinds))
	var closers []func() error

	closeAll := func() error {
		var last error
		for _, fn := range closers {
			if err := fn(); err != nil {
				last = err
			}
		}
		return last
	}

	for endpoint, kind := range kinds {
		var (
			c   closer
			err error
		)
		switch kind {
		case cfg.KindIngest:
			c, err = ingest.NewEndpointClient(ingest.Config{Endpoint: endpoint, Timeout: timeout})
		default:
			c, err = wmodbus.NewEndpointClient(wmodbus.Config{Endpoint: endpoint, Timeout: timeout})
		}
		if err != nil {
			_ = closeAll()
			return nil, nil, err
		}
		clients[endpoint] = c
		closers = append(closers, c.Close)
	}

	return clients, closeAll, nil
}
