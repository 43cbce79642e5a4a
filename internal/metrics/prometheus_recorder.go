package metrics

import (
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
)

// PrometheusRecorder implements Recorder using Prometheus metrics.
type PrometheusRecorder struct {
	attempts           prom.Counter
	regenerations      prom.Counter
	stepDuration       *prom.HistogramVec
	generationDuration *prom.HistogramVec
}

// NewPrometheusRecorder constructs and registers generation metrics on reg.
// A nil registry gets a private one, useful in tests.
func NewPrometheusRecorder(reg *prom.Registry) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	pr := &PrometheusRecorder{
		attempts: prom.NewCounter(prom.CounterOpts{
			Namespace: "mapforge",
			Name:      "generation_attempts_total",
			Help:      "Generation attempts, including safe-mode retries",
		}),
		regenerations: prom.NewCounter(prom.CounterOpts{
			Namespace: "mapforge",
			Name:      "regenerations_total",
			Help:      "Regenerate signals handled by safe driving modes",
		}),
		stepDuration: prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: "mapforge",
			Name:      "step_duration_seconds",
			Help:      "Duration of individual generation steps",
			Buckets:   prom.DefBuckets,
		}, []string{"step"}),
		generationDuration: prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: "mapforge",
			Name:      "generation_duration_seconds",
			Help:      "Duration of generation attempts by outcome",
			Buckets:   prom.DefBuckets,
		}, []string{"outcome"}),
	}
	reg.MustRegister(pr.attempts, pr.regenerations, pr.stepDuration, pr.generationDuration)
	return pr
}

func (pr *PrometheusRecorder) IncAttempt() {
	pr.attempts.Inc()
}

func (pr *PrometheusRecorder) IncRegenerate() {
	pr.regenerations.Inc()
}

func (pr *PrometheusRecorder) ObserveStepDuration(step string, d time.Duration) {
	pr.stepDuration.WithLabelValues(step).Observe(d.Seconds())
}

func (pr *PrometheusRecorder) ObserveGeneration(d time.Duration, outcome Outcome) {
	pr.generationDuration.WithLabelValues(string(outcome)).Observe(d.Seconds())
}
