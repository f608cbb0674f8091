// internal/metrics/metrics.go
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tamzrod/solarman-poller/internal/poller"
)

// Cycle results.
const (
	ResultOK      = "ok"
	ResultPartial = "partial"
	ResultFailed  = "failed"
)

// Collector turns poll results into Prometheus series.
// It owns its registry so tests and embedders never touch the global one.
type Collector struct {
	reg *prometheus.Registry

	itemValue *prometheus.GaugeVec
	state     *prometheus.GaugeVec
	failures  *prometheus.GaugeVec
	duration  *prometheus.HistogramVec
	cycles    *prometheus.CounterVec
}

func New() *Collector {
	c := &Collector{
		reg: prometheus.NewRegistry(),
		itemValue: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "solarman_item_value",
			Help: "Last decoded numeric value of an item.",
		}, []string{"logger", "item", "unit"}),
		state: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "solarman_logger_state",
			Help: "Logger reachability (1 online, 2 limbo, 3 offline).",
		}, []string{"logger"}),
		failures: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "solarman_logger_consecutive_failures",
			Help: "Consecutive cycles without any register data.",
		}, []string{"logger"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "solarman_poll_duration_seconds",
			Help:    "Duration of one poll cycle.",
			Buckets: []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
		}, []string{"logger"}),
		cycles: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "solarman_poll_cycles_total",
			Help: "Poll cycles by result.",
		}, []string{"logger", "result"}),
	}

	c.reg.MustRegister(c.itemValue, c.state, c.failures, c.duration, c.cycles)
	return c
}

// Registry exposes the collector's registry.
func (c *Collector) Registry() *prometheus.Registry {
	return c.reg
}

// Handler serves the registry in the Prometheus exposition format.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.reg, promhttp.HandlerOpts{})
}

// Write records one cycle. Item gauges keep their last value while the
// logger is unreachable.
func (c *Collector) Write(res poller.PollResult) error {
	id := res.LoggerID

	c.state.WithLabelValues(id).Set(float64(res.Status.State))
	c.failures.WithLabelValues(id).Set(float64(res.Status.ConsecutiveFailures))
	c.duration.WithLabelValues(id).Observe(res.Duration.Seconds())
	c.cycles.WithLabelValues(id, Result(res)).Inc()

	for _, r := range res.Readings {
		v, ok := r.Value.Float()
		if !ok {
			continue
		}
		c.itemValue.WithLabelValues(id, r.Item.ID, r.Value.Unit).Set(v)
	}
	return nil
}

// Result classifies a cycle.
func Result(res poller.PollResult) string {
	switch {
	case !res.Reachable:
		return ResultFailed
	case res.Err != nil:
		return ResultPartial
	default:
		return ResultOK
	}
}
