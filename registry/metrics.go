// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package registry

import (
	"github.com/prometheus/client_golang/prometheus"
)

const metricsNamespace = "servicehub_registry"

// Collector is a prometheus.Collector that collects metrics about a
// registry's cache activity.
type Collector struct {
	services        prometheus.Gauge
	creations       prometheus.Counter
	evictions       prometheus.Counter
	reconciliations prometheus.Counter
}

func newCollector() *Collector {
	return &Collector{
		services: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: metricsNamespace,
				Name:      "services",
				Help:      "The number of cached service records.",
			},
		),
		creations: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Name:      "creations_total",
				Help:      "The number of service records constructed.",
			},
		),
		evictions: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Name:      "evictions_total",
				Help:      "The number of service records evicted.",
			},
		),
		reconciliations: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Name:      "reconciliations_total",
				Help:      "The number of per-tenant reconciliations.",
			},
		),
	}
}

func (c *Collector) serviceCreated(cached int) {
	c.creations.Inc()
	c.services.Set(float64(cached))
}

func (c *Collector) serviceEvicted(cached int) {
	c.evictions.Inc()
	c.services.Set(float64(cached))
}

func (c *Collector) reconciled() {
	c.reconciliations.Inc()
}

func (c *Collector) cleared() {
	c.services.Set(0)
}

// Describe is part of the prometheus.Collector interface.
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	c.services.Describe(ch)
	c.creations.Describe(ch)
	c.evictions.Describe(ch)
	c.reconciliations.Describe(ch)
}

// Collect is part of the prometheus.Collector interface.
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	c.services.Collect(ch)
	c.creations.Collect(ch)
	c.evictions.Collect(ch)
	c.reconciliations.Collect(ch)
}
