// Package telemetry exposes the few Prometheus metrics the solvers emit:
// how long each PSO iteration takes and how many particle-objective
// evaluations came back infeasible. It is grounded on the teacher's direct
// dependency on github.com/prometheus/client_golang, used here as an
// exposition registry rather than the query client the teacher built
// (see DESIGN.md).
package telemetry

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Recorder collects solver-run metrics. A nil *Recorder is safe to call
// methods on (they become no-ops), so callers that don't care about
// telemetry can simply pass nil.
type Recorder struct {
	registry         *prometheus.Registry
	iterationSeconds prometheus.Histogram
	infeasibleDraws  prometheus.Counter
}

// NewRecorder builds a Recorder backed by its own registry, so repeated
// solver runs in the same process don't collide with each other's
// collectors.
func NewRecorder() *Recorder {
	reg := prometheus.NewRegistry()

	r := &Recorder{
		registry: reg,
		iterationSeconds: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "microplace",
			Subsystem: "pso",
			Name:      "iteration_seconds",
			Help:      "Wall-clock time spent on one PSO iteration across all particles.",
			Buckets:   prometheus.DefBuckets,
		}),
		infeasibleDraws: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "microplace",
			Subsystem: "pso",
			Name:      "infeasible_draws_total",
			Help:      "Number of particle-objective evaluations that returned an infeasible cost.",
		}),
	}

	reg.MustRegister(r.iterationSeconds, r.infeasibleDraws)
	return r
}

// ObserveIteration records the wall-clock duration, in seconds, of one PSO
// iteration.
func (r *Recorder) ObserveIteration(seconds float64) {
	if r == nil {
		return
	}
	r.iterationSeconds.Observe(seconds)
}

// IncInfeasible increments the infeasible-draw counter by one.
func (r *Recorder) IncInfeasible() {
	if r == nil {
		return
	}
	r.infeasibleDraws.Inc()
}

// Handler returns an http.Handler serving this recorder's metrics in the
// Prometheus exposition format, for wiring into ServeMetrics or a caller's
// own mux.
func (r *Recorder) Handler() http.Handler {
	if r == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}

// ServeMetrics starts a blocking HTTP server exposing this recorder's
// metrics at /metrics on addr. Intended to be run in its own goroutine by
// the caller.
func (r *Recorder) ServeMetrics(addr string) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", r.Handler())
	return http.ListenAndServe(addr, mux)
}
