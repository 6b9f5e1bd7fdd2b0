package main

import (
	"github.com/onjuly19th/trading-hub-sub001/internal/usecasees"

	"github.com/prometheus/client_golang/prometheus"
)

// initMetrics registers engine counters on the default registry, the one
// the fiber /metrics endpoint serves.
func (a *App) initMetrics() *usecasees.Metrics {
	a.Registerer = prometheus.DefaultRegisterer

	return usecasees.NewMetrics(a.Registerer)
}
