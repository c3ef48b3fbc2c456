package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder implements domain.repository.Metrics using Prometheus.
type Recorder struct {
	dispatches *prometheus.CounterVec
	failures   *prometheus.CounterVec
	latency    *prometheus.HistogramVec
	shapes     *prometheus.CounterVec
	journal    *prometheus.CounterVec
	rejections *prometheus.CounterVec
	inFlight   prometheus.Gauge
}

// New creates a Prometheus recorder registered on reg.
func New(reg prometheus.Registerer) *Recorder {
	f := promauto.With(reg)
	return &Recorder{
		dispatches: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fueldesk_dispatches_total",
				Help: "Resolved dispatches to the forecasting service by endpoint and final phase",
			},
			[]string{"endpoint", "phase"},
		),
		failures: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fueldesk_dispatch_failures_total",
				Help: "Failed dispatches by endpoint and error kind",
			},
			[]string{"endpoint", "kind"},
		),
		latency: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "fueldesk_dispatch_duration_seconds",
				Help:    "Time from Loading to a terminal phase",
				Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60, 120},
			},
			[]string{"endpoint"},
		),
		shapes: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fueldesk_result_shapes_total",
				Help: "Successful results by classified shape",
			},
			[]string{"shape"},
		),
		journal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fueldesk_journal_entries_total",
				Help: "Journal writes by backend and result",
			},
			[]string{"backend", "result"},
		),
		rejections: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fueldesk_validation_rejections_total",
				Help: "Form submissions rejected before any network call",
			},
			[]string{"endpoint"},
		),
		inFlight: f.NewGauge(
			prometheus.GaugeOpts{
				Name: "fueldesk_dispatches_in_flight",
				Help: "Dispatches currently waiting on the forecasting service",
			},
		),
	}
}

// RecordDispatch records a resolved dispatch and its latency in seconds.
func (r *Recorder) RecordDispatch(endpoint, phase string, seconds float64) {
	r.dispatches.WithLabelValues(endpoint, phase).Inc()
	r.latency.WithLabelValues(endpoint).Observe(seconds)
}

// RecordFailure records a failed dispatch by error kind.
func (r *Recorder) RecordFailure(endpoint, kind string) {
	r.failures.WithLabelValues(endpoint, kind).Inc()
}

// RecordResultShape records the shape a successful result was classified as.
func (r *Recorder) RecordResultShape(shape string) {
	r.shapes.WithLabelValues(shape).Inc()
}

// RecordRejection records a submission stopped by presence checks.
func (r *Recorder) RecordRejection(endpoint string) {
	r.rejections.WithLabelValues(endpoint).Inc()
}

// RecordJournal records a journal write outcome.
func (r *Recorder) RecordJournal(backend, result string) {
	r.journal.WithLabelValues(backend, result).Inc()
}

// InFlight adjusts the in-flight dispatch gauge by delta.
func (r *Recorder) InFlight(delta float64) {
	r.inFlight.Add(delta)
}
