// Package metrics exports session activity to Prometheus and summarises
// history windows.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/san-kum/attractor/internal/dynamo"
	"github.com/san-kum/attractor/internal/sim"
)

// Collector is a sim.Observer that records every Advance, labelled by the
// session name.
type Collector struct {
	Steps           *prometheus.CounterVec
	Advances        *prometheus.CounterVec
	AdvanceDuration *prometheus.HistogramVec
	WindowFilled    *prometheus.GaugeVec
	NonFinite       *prometheus.GaugeVec
}

var _ sim.Observer = (*Collector)(nil)

func NewCollector(reg prometheus.Registerer) *Collector {
	factory := promauto.With(reg)

	return &Collector{
		Steps: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "attractor",
				Name:      "steps_total",
				Help:      "Integration steps produced by Advance",
			},
			[]string{"attractor"},
		),

		Advances: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "attractor",
				Name:      "advances_total",
				Help:      "Number of Advance calls",
			},
			[]string{"attractor"},
		),

		AdvanceDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "attractor",
				Name:      "advance_duration_seconds",
				Help:      "Time spent integrating and appending one Advance",
				Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 8),
			},
			[]string{"attractor"},
		),

		WindowFilled: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: "attractor",
				Name:      "window_filled",
				Help:      "History window slots holding real samples",
			},
			[]string{"attractor"},
		),

		NonFinite: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: "attractor",
				Name:      "nonfinite_particles",
				Help:      "Particles whose latest state holds NaN or Inf",
			},
			[]string{"attractor"},
		),
	}
}

func (c *Collector) OnAdvance(s *sim.Session, seg, window dynamo.Segment, elapsed time.Duration) {
	name := s.Name()
	c.Steps.WithLabelValues(name).Add(float64(seg.S))
	c.Advances.WithLabelValues(name).Inc()
	c.AdvanceDuration.WithLabelValues(name).Observe(elapsed.Seconds())
	c.WindowFilled.WithLabelValues(name).Set(float64(s.Window().Filled()))
	c.NonFinite.WithLabelValues(name).Set(float64(seg.Step(seg.S - 1).NonFinite()))
}
