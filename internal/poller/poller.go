// internal/poller/poller.go
package poller

import (
	"errors"
	"fmt"
	"time"

	"github.com/goburrow/modbus"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/tamzrod/solarman-poller/internal/decode"
	"github.com/tamzrod/solarman-poller/internal/status"
	"github.com/tamzrod/solarman-poller/internal/v5"
)

// Config is the runtime config the poller needs.
type Config struct {
	LoggerID string
	Serial   uint32
	Interval time.Duration
	Requests []RegisterRequest
	Items    []decode.Item

	EnforceValidation bool
	OfflineThreshold  uint32
}

// Poller runs poll cycles against one logger.
// Cycles must not overlap: a Poller is used by one goroutine.
type Poller struct {
	cfg      Config
	codec    *v5.Codec
	link     Link
	tracker  *status.Tracker
	pipeline decode.Pipeline
	log      zerolog.Logger

	downSince time.Time
	now       func() time.Time
}

// New creates a poller with immutable config.
func New(cfg Config, link Link, log zerolog.Logger) (*Poller, error) {
	if cfg.LoggerID == "" {
		return nil, errors.New("poller: logger id required")
	}
	if cfg.Interval <= 0 {
		return nil, errors.New("poller: interval must be > 0")
	}
	if len(cfg.Requests) == 0 {
		return nil, errors.New("poller: at least one request required")
	}
	if link == nil {
		return nil, errors.New("poller: link required")
	}

	return &Poller{
		cfg:     cfg,
		codec:   v5.NewCodec(cfg.Serial),
		link:    link,
		tracker: status.NewTracker(cfg.OfflineThreshold),
		pipeline: decode.Pipeline{
			Items:             cfg.Items,
			EnforceValidation: cfg.EnforceValidation,
		},
		log: log.With().Str("component", "poller").Str("logger", cfg.LoggerID).Logger(),
		now: time.Now,
	}, nil
}

// ID returns the logger id.
func (p *Poller) ID() string {
	return p.cfg.LoggerID
}

// Requests returns the merged request list.
func (p *Poller) Requests() []RegisterRequest {
	return p.cfg.Requests
}

// Close releases the transport.
func (p *Poller) Close() error {
	return p.link.Close()
}

// PollOnce performs exactly one poll cycle.
// A failed request never aborts the cycle; the remaining requests and all
// items are still processed.
func (p *Poller) PollOnce() PollResult {
	start := p.now()
	res := PollResult{
		LoggerID: p.cfg.LoggerID,
		CycleID:  uuid.New(),
		At:       start,
		Words:    make(map[uint16]v5.Word),
	}

	verbose := !p.tracker.IsOffline()
	log := p.log.With().Str("cycle", res.CycleID.String()).Logger()

	linkErr := p.link.Do(verbose, func(tx modbus.Transporter) error {
		for _, rr := range p.cfg.Requests {
			if rr.Start >= rr.End {
				err := fmt.Errorf("%w: fc=%d start=0x%04X end=0x%04X", v5.ErrInvalidRange, rr.FunctionCode, rr.Start, rr.End)
				log.Warn().Err(err).Msg("skipping request")
				res.Diagnostics = append(res.Diagnostics, err)
				continue
			}

			words, err := p.fetch(tx, rr, log)
			if err != nil {
				err = fmt.Errorf("request fc=%d 0x%04X-0x%04X: %w", rr.FunctionCode, rr.Start, rr.End, err)
				level(log, verbose).Err(err).Str("kind", v5.Kind(err)).Msg("request failed")
				res.Diagnostics = append(res.Diagnostics, err)
				res.Err = err
				continue
			}

			res.Blocks = append(res.Blocks, block(rr, words))

			// first writer wins
			for addr, w := range words {
				if _, seen := res.Words[addr]; !seen {
					res.Words[addr] = w
				}
			}
		}
		return nil
	})
	if linkErr != nil {
		log.Error().Err(linkErr).Msg("transport")
		res.Err = linkErr
	}

	res.Reachable = len(res.Words) > 0

	if res.Reachable {
		readings, errs := p.pipeline.Run(res.Words)
		res.Readings = readings
		for _, err := range errs {
			if errors.Is(err, decode.ErrMissingRegister) {
				log.Debug().Err(err).Msg("item not updated")
			} else {
				log.Warn().Err(err).Msg("item not updated")
			}
		}
		res.Diagnostics = append(res.Diagnostics, errs...)
	}

	p.record(&res, log)
	res.Duration = p.now().Sub(start)

	return res
}

// fetch runs one request: build, exchange, extract, parse.
func (p *Poller) fetch(tx modbus.Transporter, rr RegisterRequest, log zerolog.Logger) (map[uint16]v5.Word, error) {
	req := p.codec.BuildRequest(rr.FunctionCode, rr.Start, rr.End)

	resp, sendErr := tx.Send(req)
	if sendErr != nil {
		log.Debug().Err(sendErr).Msg("exchange failed")
	}

	frame, err := v5.ExtractModbusFrame(resp, req)
	if err != nil {
		if sendErr != nil && errors.Is(err, v5.ErrNoResponse) {
			return nil, fmt.Errorf("%w: %v", err, sendErr)
		}
		return nil, err
	}

	return v5.ParseRegisters(frame, rr.Start, rr.End)
}

// record feeds the cycle outcome to the reachability tracker.
func (p *Poller) record(res *PollResult, log zerolog.Logger) {
	wasOnline := p.tracker.State() == status.StateOnline

	p.tracker.Record(res.Reachable)
	res.JustBecameOffline = p.tracker.JustBecameOffline()

	switch {
	case res.JustBecameOffline:
		log.Warn().Uint32("failures", p.tracker.Failures()).Msg("logger is offline")
	case res.Reachable && !wasOnline:
		log.Info().Msg("logger is back online")
	}

	if res.Reachable {
		p.downSince = time.Time{}
	} else if p.downSince.IsZero() {
		p.downSince = res.At
	}

	snap := p.tracker.Snapshot()
	snap.LastErrorCode = v5.ErrorCode(res.Err)
	if !p.downSince.IsZero() {
		snap.SecondsInError = saturate(p.now().Sub(p.downSince).Seconds())
	}
	res.Status = snap
}

// State exposes the current reachability.
func (p *Poller) State() status.State {
	return p.tracker.State()
}

func block(rr RegisterRequest, words map[uint16]v5.Word) BlockResult {
	regs := make([]uint16, 0, rr.Count())
	for i := uint32(rr.Start); i <= uint32(rr.End); i++ {
		regs = append(regs, words[uint16(i)].Uint16())
	}
	return BlockResult{
		FC:        rr.FunctionCode,
		Address:   rr.Start,
		Quantity:  rr.Count(),
		Registers: regs,
	}
}

func level(log zerolog.Logger, verbose bool) *zerolog.Event {
	if verbose {
		return log.Warn()
	}
	return log.Debug()
}

func saturate(sec float64) uint16 {
	if sec >= 65535 {
		return 65535
	}
	if sec < 0 {
		return 0
	}
	return uint16(sec)
}
