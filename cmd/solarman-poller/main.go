// cmd/solarman-poller/main.go
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/tamzrod/solarman-poller/internal/api"
	"github.com/tamzrod/solarman-poller/internal/config"
	"github.com/tamzrod/solarman-poller/internal/logging"
	"github.com/tamzrod/solarman-poller/internal/metrics"
	"github.com/tamzrod/solarman-poller/internal/poller"
	"github.com/tamzrod/solarman-poller/internal/status"
	"github.com/tamzrod/solarman-poller/internal/writer"
	"github.com/tamzrod/solarman-poller/internal/writer/mqtt"
)

func main() {
	cfgPath := flag.String("config", "solarman.yaml", "path to the YAML config")
	flag.Parse()

	// --------------------
	// Load + validate config
	// --------------------

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		log.Fatal().Err(err).Msg("config load failed")
	}

	logger, err := logging.Setup(cfg.Logging.Level, cfg.Logging.Format)
	if err != nil {
		log.Fatal().Err(err).Msg("logging setup failed")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// --------------------
	// Shared sinks
	// --------------------

	collector := metrics.New()
	registry := api.NewRegistry()
	shared := writer.Fanout{collector, registry}

	if cfg.MQTT != nil {
		pub, disconnect, err := mqtt.Connect(*cfg.MQTT, logger)
		if err != nil {
			logger.Fatal().Err(err).Msg("mqtt connect failed")
		}
		defer disconnect()
		shared = append(shared, pub)
	}

	// --------------------
	// Build per-logger pipelines
	// --------------------

	pollers := make([]*poller.Poller, 0, len(cfg.Loggers))
	reads := map[string][]config.Read{}

	for _, l := range cfg.Loggers {
		p, err := poller.Build(l, logger)
		if err != nil {
			logger.Fatal().Err(err).Str("logger", l.ID).Msg("poller build failed")
		}
		defer p.Close()

		pollers = append(pollers, p)
		reads[l.ID] = p.Reads()
	}

	// mirror geometry is only known once definitions are resolved
	if err := config.ValidateGeometry(cfg, reads); err != nil {
		logger.Fatal().Err(err).Msg("mirror geometry invalid")
	}

	var wg sync.WaitGroup

	for i, l := range cfg.Loggers {
		l := l
		p := pollers[i]

		// ---- writer plan ----
		plan, err := writer.BuildPlan(l)
		if err != nil {
			logger.Fatal().Err(err).Str("logger", l.ID).Msg("writer plan failed")
		}

		// ---- writer clients (DATA + STATUS) ----
		clients, closeWriters, err := writer.BuildEndpointClients(plan, targetTimeout(l))
		if err != nil {
			logger.Fatal().Err(err).Str("logger", l.ID).Msg("writer clients failed")
		}
		defer closeWriters()

		sinks := append(writer.Fanout{writer.New(plan, clients)}, shared...)

		// Status writer (optional per logger)
		statusWriter, statusEnabled := writer.NewDeviceStatusWriter(plan, clients)
		if statusEnabled {
			sinks = append(sinks, statusWriter)
		}

		// ---- channel between poller and writers ----
		out := make(chan poller.PollResult)

		wg.Add(2)
		go func() {
			defer wg.Done()
			consume(ctx, l.ID, out, sinks, statusWriter, statusEnabled, logger)
		}()
		go func() {
			defer wg.Done()
			p.Run(ctx, out)
		}()
	}

	if cfg.HTTP != nil {
		srv := api.NewServer(registry, collector.Handler(), logger)
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := srv.ListenAndServe(ctx, cfg.HTTP.Listen); err != nil {
				logger.Error().Err(err).Msg("http server stopped")
				stop()
			}
		}()
	}

	logger.Info().Int("loggers", len(pollers)).Msg("polling started")

	<-ctx.Done()
	logger.Info().Msg("shutting down")
	wg.Wait()
}

// consume delivers each poll result to the sinks. Between cycles it ticks
// seconds_in_error in the status block once per second while the logger is
// not online.
func consume(
	ctx context.Context,
	loggerID string,
	out <-chan poller.PollResult,
	sinks writer.Writer,
	sw writer.StatusWriter,
	statusEnabled bool,
	base zerolog.Logger,
) {
	log := base.With().Str("component", "consumer").Str("logger", loggerID).Logger()

	snap := status.Snapshot{State: status.StateUnknown}

	secTicker := time.NewTicker(time.Second)
	defer secTicker.Stop()

	// Full block write on start (identity re-assert) if enabled.
	if statusEnabled {
		if err := sw.WriteStatus(snap); err != nil {
			log.Warn().Err(err).Msg("status write failed on start")
		}
	}

	for {
		select {
		case <-ctx.Done():
			return

		case res := <-out:
			snap = res.Status
			if err := sinks.Write(res); err != nil {
				log.Warn().Err(err).Str("cycle", res.CycleID.String()).Msg("writer error")
			}

		case <-secTicker.C:
			if !statusEnabled || snap.Healthy() || snap.State == status.StateUnknown {
				continue
			}
			if snap.SecondsInError < 65535 {
				snap.SecondsInError++
				if err := sw.WriteStatus(snap); err != nil {
					log.Debug().Err(err).Msg("status seconds tick write failed")
				}
			}
		}
	}
}

func targetTimeout(l config.LoggerConfig) time.Duration {
	var ms int
	for _, t := range l.Mirror {
		if t.TimeoutMs > ms {
			ms = t.TimeoutMs
		}
	}
	return time.Duration(ms) * time.Millisecond
}
