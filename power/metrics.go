package power

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics counts loop iterations by outcome. A nil *Metrics records nothing.
type Metrics struct {
	iterations *prometheus.CounterVec
	samples    prometheus.Counter
}

func NewMetrics(reg prometheus.Registerer, id string) *Metrics {
	f := promauto.With(reg)
	labels := prometheus.Labels{"id": id}
	m := &Metrics{
		iterations: f.NewCounterVec(prometheus.CounterOpts{
			Namespace:   "bladerf_power",
			Name:        "iterations_total",
			Help:        "Acquisition loop iterations by outcome.",
			ConstLabels: labels,
		}, []string{"outcome"}),
		samples: f.NewCounter(prometheus.CounterOpts{
			Namespace:   "bladerf_power",
			Name:        "samples_total",
			Help:        "IQ pairs delivered by the device, including skipped blocks.",
			ConstLabels: labels,
		}),
	}
	for k := Delivered; k <= Failed; k++ {
		m.iterations.WithLabelValues(k.String())
	}
	return m
}

func (m *Metrics) observe(o Outcome) {
	if m == nil {
		return
	}
	m.iterations.WithLabelValues(o.Kind.String()).Inc()
	m.samples.Add(float64(o.Count))
}
