// internal/poller/builder.go
package poller

import (
	"fmt"
	"time"

	"github.com/rs/zerolog"

	cfg "github.com/tamzrod/solarman-poller/internal/config"
	"github.com/tamzrod/solarman-poller/internal/decode"
	"github.com/tamzrod/solarman-poller/internal/definition"
	"github.com/tamzrod/solarman-poller/internal/transport"
	"github.com/tamzrod/solarman-poller/internal/v5"
)

// Build constructs a Poller for one logger and wires its transport.
// The connection is not opened here; the first cycle dials.
// Configuration problems in single items or additional requests are logged
// and skipped; only an unusable serial or definition fails the build.
func Build(l cfg.LoggerConfig, log zerolog.Logger) (*Poller, error) {
	log = log.With().Str("logger", l.ID).Logger()

	serial, err := v5.ParseSerial(l.Serial)
	if err != nil {
		return nil, err
	}

	def, err := definition.Resolve(l.Definition)
	if err != nil {
		return nil, err
	}

	defItems, errs := def.Items()
	for _, err := range errs {
		log.Warn().Err(err).Msg("skipping definition item")
	}

	items := mergeItems(staticItems(l.Items, log), defItems)

	requests := MergeRequests(
		FromDefinition(def.Requests),
		ParseAdditionalRequests(l.AdditionalRequests, log),
	)

	timeout := time.Duration(l.TimeoutMs) * time.Millisecond
	tcfg := transport.Config{
		Host:        l.Host,
		Port:        l.Port,
		DialTimeout: timeout,
		ReadTimeout: timeout,
		Attempts:    l.ReadAttempts,
	}

	var link Link
	switch l.Connection {
	case cfg.ConnectionPerCycle:
		link = PerCycle(transport.NewConnector(tcfg, log))
	case "", cfg.ConnectionPersistent:
		link = Persistent(transport.New(tcfg, log))
	default:
		return nil, fmt.Errorf("poller: unknown connection mode %q", l.Connection)
	}

	log.Debug().
		Int("requests", len(requests)).
		Int("items", len(items)).
		Str("connection", l.Connection).
		Msg("poller built")

	return New(
		Config{
			LoggerID:          l.ID,
			Serial:            serial,
			Interval:          time.Duration(l.PollIntervalS) * time.Second,
			Requests:          requests,
			Items:             items,
			EnforceValidation: l.EnforceValidation,
			OfflineThreshold:  l.OfflineThreshold,
		},
		link,
		log,
	)
}

// staticItems converts operator items. Bad register tokens are dropped.
func staticItems(in []cfg.ItemConfig, log zerolog.Logger) []decode.Item {
	out := make([]decode.Item, 0, len(in))
	for _, ic := range in {
		regs, err := definition.ParseRegisterList(ic.Registers)
		if err != nil {
			// a partial list would change word significance
			log.Warn().Err(err).Str("item", ic.Name).Msg("skipping static item")
			continue
		}

		p := definition.ParameterItem{
			Name:      ic.Name,
			Uom:       ic.Uom,
			Scale:     ic.Scale,
			Rule:      ic.Rule,
			Registers: regs,
			Offset:    ic.Offset,
		}
		it, err := p.Item(ic.Group)
		if err != nil {
			log.Warn().Err(err).Msg("skipping static item")
			continue
		}
		out = append(out, it)
	}
	return out
}

// mergeItems keeps the first item seen for each id.
func mergeItems(lists ...[]decode.Item) []decode.Item {
	seen := make(map[string]struct{})
	var out []decode.Item
	for _, list := range lists {
		for _, it := range list {
			if _, dup := seen[it.ID]; dup {
				continue
			}
			seen[it.ID] = struct{}{}
			out = append(out, it)
		}
	}
	return out
}

// Reads returns the mirror geometry of the poller's requests.
func (p *Poller) Reads() []cfg.Read {
	out := make([]cfg.Read, 0, len(p.cfg.Requests))
	for _, r := range p.cfg.Requests {
		if r.Start >= r.End {
			continue
		}
		out = append(out, cfg.Read{FC: r.FunctionCode, Address: r.Start, Quantity: r.Count()})
	}
	return out
}
