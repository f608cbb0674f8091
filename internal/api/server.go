// internal/api/server.go
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	"github.com/tamzrod/solarman-poller/internal/decode"
	"github.com/tamzrod/solarman-poller/internal/poller"
)

// Server exposes logger state over HTTP.
//
//	GET /api/v1/loggers        summary of every logger
//	GET /api/v1/loggers/{id}   summary plus decoded readings
//	GET /metrics               Prometheus exposition (when a handler is given)
type Server struct {
	registry *Registry
	router   *mux.Router
	server   *http.Server
	log      zerolog.Logger
}

func NewServer(registry *Registry, metrics http.Handler, log zerolog.Logger) *Server {
	s := &Server{
		registry: registry,
		router:   mux.NewRouter(),
		log:      log.With().Str("component", "api").Logger(),
	}

	api := s.router.PathPrefix("/api/v1").Subrouter()
	api.HandleFunc("/loggers", s.handleListLoggers).Methods(http.MethodGet)
	api.HandleFunc("/loggers/{id}", s.handleGetLogger).Methods(http.MethodGet)

	if metrics != nil {
		s.router.Handle("/metrics", metrics).Methods(http.MethodGet)
	}

	return s
}

// Handler returns the routed handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// ListenAndServe serves on addr until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	s.server = &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info().Str("listen", addr).Msg("http server started")
		errCh <- s.server.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return s.server.Shutdown(shutdownCtx)
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

type loggerSummary struct {
	ID                  string    `json:"id"`
	State               string    `json:"state"`
	ConsecutiveFailures uint16    `json:"consecutive_failures"`
	LastErrorCode       uint16    `json:"last_error_code"`
	SecondsInError      uint16    `json:"seconds_in_error"`
	LastCycle           string    `json:"last_cycle"`
	LastPoll            time.Time `json:"last_poll"`
	DurationMs          int64     `json:"duration_ms"`
	Reachable           bool      `json:"reachable"`
	LastError           string    `json:"last_error,omitempty"`
}

type readingView struct {
	ID    string `json:"id"`
	Group string `json:"group,omitempty"`
	Name  string `json:"name"`
	Value string `json:"value"`
	Unit  string `json:"unit,omitempty"`
}

type loggerDetail struct {
	loggerSummary
	Readings    []readingView `json:"readings"`
	Diagnostics []string      `json:"diagnostics,omitempty"`
}

func summarize(res poller.PollResult) loggerSummary {
	s := loggerSummary{
		ID:                  res.LoggerID,
		State:               res.Status.State.String(),
		ConsecutiveFailures: res.Status.ConsecutiveFailures,
		LastErrorCode:       res.Status.LastErrorCode,
		SecondsInError:      res.Status.SecondsInError,
		LastCycle:           res.CycleID.String(),
		LastPoll:            res.At,
		DurationMs:          res.Duration.Milliseconds(),
		Reachable:           res.Reachable,
	}
	if res.Err != nil {
		s.LastError = res.Err.Error()
	}
	return s
}

func (s *Server) handleListLoggers(w http.ResponseWriter, r *http.Request) {
	all := s.registry.All()

	result := make([]loggerSummary, 0, len(all))
	for _, res := range all {
		result = append(result, summarize(res))
	}

	s.writeJSON(w, map[string]interface{}{
		"loggers": result,
		"count":   len(result),
	}, http.StatusOK)
}

func (s *Server) handleGetLogger(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	res, found := s.registry.Get(id)
	if !found {
		s.writeError(w, "logger not found", http.StatusNotFound)
		return
	}

	d := loggerDetail{
		loggerSummary: summarize(res),
		Readings:      make([]readingView, 0, len(res.Readings)),
	}
	for _, rd := range res.Readings {
		v := readingView{
			ID:    rd.Item.ID,
			Group: rd.Item.Group,
			Name:  rd.Item.Name,
			Value: rd.Value.Text,
		}
		if rd.Value.Kind == decode.KindNumeric {
			v.Value = rd.Value.Number.String()
			v.Unit = rd.Value.Unit
		}
		d.Readings = append(d.Readings, v)
	}
	for _, e := range res.Diagnostics {
		d.Diagnostics = append(d.Diagnostics, e.Error())
	}

	s.writeJSON(w, d, http.StatusOK)
}

func (s *Server) writeJSON(w http.ResponseWriter, data interface{}, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.log.Error().Err(err).Msg("failed to encode JSON response")
	}
}

func (s *Server) writeError(w http.ResponseWriter, message string, statusCode int) {
	s.writeJSON(w, map[string]string{"error": message}, statusCode)
}
