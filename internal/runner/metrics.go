package runner

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics exposes run progress to Prometheus. The collectors live on their
// own registry so the status API can serve them without inheriting global
// collectors.
type Metrics struct {
	registry         *prometheus.Registry
	ticks            prometheus.Counter
	simTime          prometheus.Gauge
	failingCriteria  prometheus.Gauge
	runsByStatus     *prometheus.CounterVec
}

// NewMetrics builds the collector set on a fresh registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		ticks: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "scenic",
			Name:      "ticks_total",
			Help:      "Simulation ticks executed.",
		}),
		simTime: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "scenic",
			Name:      "sim_time_seconds",
			Help:      "Simulated seconds of the current run.",
		}),
		failingCriteria: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "scenic",
			Name:      "failing_criteria",
			Help:      "Criteria currently in a failing state.",
		}),
		runsByStatus: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "scenic",
			Name:      "runs_total",
			Help:      "Finished scenario runs by status.",
		}, []string{"status"}),
	}
	m.registry.MustRegister(m.ticks, m.simTime, m.failingCriteria, m.runsByStatus)
	return m
}

// Registry returns the Prometheus registry backing the collectors.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

func (m *Metrics) observeTick(simTime float64, failing int) {
	if m == nil {
		return
	}
	m.ticks.Inc()
	m.simTime.Set(simTime)
	m.failingCriteria.Set(float64(failing))
}

func (m *Metrics) observeRun(status Status) {
	if m == nil {
		return
	}
	m.runsByStatus.WithLabelValues(string(status)).Inc()
}
