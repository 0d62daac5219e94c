// Package metrics exposes list activity to Prometheus.
package metrics

import (
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/fulldump/listassistant/assistant"
)

const namespace = "listassistant"

type Metrics struct {
	gatherer prometheus.Gatherer

	// Episodes counts mutation episodes by operation and result (ok, reload,
	// conflict, error).
	Episodes *prometheus.CounterVec

	// Changes counts committed changes by scope and type.
	Changes *prometheus.CounterVec

	EpisodeDuration *prometheus.HistogramVec

	Lists    prometheus.Gauge
	Entities *prometheus.GaugeVec
}

// New registers every metric in a fresh registry.
func New() *Metrics {
	registry := prometheus.NewRegistry()
	factory := promauto.With(registry)

	return &Metrics{
		gatherer: registry,
		Episodes: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "episodes_total",
			Help:      "Mutation episodes by operation and result",
		}, []string{"operation", "result"}),
		Changes: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "changes_total",
			Help:      "Committed changes by scope and type",
		}, []string{"scope", "type"}),
		EpisodeDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "episode_duration_seconds",
			Help:      "Time to apply, diff and commit one episode",
			Buckets:   prometheus.ExponentialBuckets(0.00001, 4, 10),
		}, []string{"operation"}),
		Lists: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "lists",
			Help:      "Number of lists",
		}),
		Entities: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "entities",
			Help:      "Entities held by list",
		}, []string{"list"}),
	}
}

// ObserveEpisode records the outcome of one operation over a list.
func (m *Metrics) ObserveEpisode(operation string, started time.Time, report *assistant.Report, err error) {

	m.EpisodeDuration.WithLabelValues(operation).Observe(time.Since(started).Seconds())

	result := "ok"
	switch {
	case errors.Is(err, assistant.ErrEpisodeConflict):
		result = "conflict"
	case err != nil:
		result = "error"
	case report != nil && report.Reloaded:
		result = "reload"
	}
	m.Episodes.WithLabelValues(operation, result).Inc()

	if err != nil || report == nil || report.Batch == nil {
		return
	}
	for _, change := range report.Batch.Log() {
		m.Changes.WithLabelValues(change.Scope.String(), change.Type.String()).Inc()
	}
}

func (m *Metrics) SetEntities(list string, n int) {
	m.Entities.WithLabelValues(list).Set(float64(n))
}

func (m *Metrics) Forget(list string) {
	m.Entities.DeleteLabelValues(list)
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}
