package usecasees

import (
	"github.com/onjuly19th/trading-hub-sub001/internal/usecasees/structs"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const metricsNamespace = "trading_hub"

type Metrics struct {
	Order map[structs.MetricConst]prometheus.Counter

	factory promauto.Factory
}

// NewMetrics registers one counter per structs.MetricConst on reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	metrics := Metrics{
		Order:   map[structs.MetricConst]prometheus.Counter{},
		factory: factory,
	}

	for _, m := range structs.MetricList {
		metrics.Order[m] = factory.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      m.ToString() + "_total",
			Help:      m.ToString(),
		})
	}

	return &metrics
}

// Inc is a no-op on a nil receiver.
func (m *Metrics) Inc(c structs.MetricConst) {
	if m == nil {
		return
	}
	if counter, ok := m.Order[c]; ok {
		counter.Inc()
	}
}

// Gauge registers a gauge sampled from value on every scrape.
func (m *Metrics) Gauge(name, help string, value func() float64) {
	if m == nil {
		return
	}

	m.factory.NewGaugeFunc(prometheus.GaugeOpts{
		Namespace: metricsNamespace,
		Name:      name,
		Help:      help,
	}, value)
}
