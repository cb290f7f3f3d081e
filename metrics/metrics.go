// Package metrics exports container resolution metrics to Prometheus.
package metrics

import (
	"net/http"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/danpasecinic/lattice"
)

const namespace = "lattice"

// Collector records every resolution observed through its Option.
type Collector struct {
	registry    prometheus.Gatherer
	resolutions *prometheus.CounterVec
	duration    *prometheus.HistogramVec
}

// NewCollector creates the metrics and registers them on reg. A nil reg
// uses a fresh private registry.
func NewCollector(reg *prometheus.Registry) (*Collector, error) {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}

	c := &Collector{
		registry: reg,
		resolutions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "resolutions_total",
				Help:      "Resolutions by contract and outcome.",
			}, []string{"contract", "outcome"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "resolve_duration_seconds",
				Help:      "Time spent resolving a contract, dependencies included.",
				Buckets:   prometheus.ExponentialBuckets(0.00001, 4, 10),
			}, []string{"contract"},
		),
	}

	for _, m := range []prometheus.Collector{c.resolutions, c.duration} {
		if err := reg.Register(m); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// ObserveResolve has the lattice.ResolveHook signature.
func (c *Collector) ObserveResolve(key string, d time.Duration, err error) {
	contract, _, _ := strings.Cut(key, "#")

	c.resolutions.WithLabelValues(contract, outcome(err)).Inc()
	c.duration.WithLabelValues(contract).Observe(d.Seconds())
}

func (c *Collector) Option() lattice.Option {
	return lattice.WithResolveObserver(c.ObserveResolve)
}

// Handler serves the registry in the Prometheus exposition format.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

func outcome(err error) string {
	switch {
	case err == nil:
		return "success"
	case lattice.IsNotFound(err):
		return "not_found"
	case lattice.IsAmbiguous(err):
		return "ambiguous"
	case lattice.IsCircularDependency(err):
		return "circular"
	default:
		return "error"
	}
}
