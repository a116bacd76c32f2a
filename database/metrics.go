package database

import (
	"context"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.mongodb.org/mongo-driver/event"
)

// Metrics records every command the driver sends.
type Metrics struct {
	commands *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		commands: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "catalogdemo",
				Subsystem: "mongo",
				Name:      "commands_total",
				Help:      "MongoDB commands by name and outcome.",
			},
			[]string{"command", "status"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "catalogdemo",
				Subsystem: "mongo",
				Name:      "command_duration_seconds",
				Help:      "MongoDB command round trip time.",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"command"},
		),
	}
	if reg != nil {
		reg.MustRegister(m.commands, m.duration)
	}
	return m
}

var (
	metricsOnce sync.Once
	metrics     *Metrics
)

// CommandMetrics returns the process-wide metrics registered with the
// default Prometheus registry.
func CommandMetrics() *Metrics {
	metricsOnce.Do(func() {
		metrics = NewMetrics(prometheus.DefaultRegisterer)
	})
	return metrics
}

func (m *Metrics) Monitor() *event.CommandMonitor {
	return &event.CommandMonitor{
		Succeeded: func(_ context.Context, e *event.CommandSucceededEvent) {
			m.observe(e.CommandName, "ok", e.Duration)
		},
		Failed: func(_ context.Context, e *event.CommandFailedEvent) {
			m.observe(e.CommandName, "error", e.Duration)
		},
	}
}

func (m *Metrics) observe(command, status string, d time.Duration) {
	m.commands.WithLabelValues(command, status).Inc()
	m.duration.WithLabelValues(command).Observe(d.Seconds())
}
