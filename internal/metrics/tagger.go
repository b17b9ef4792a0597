package metrics

import "github.com/prometheus/client_golang/prometheus"

// Worker-side tagging metrics.
var (
	TaggerTextsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "taggate",
			Name:      "tagger_texts_total",
			Help:      "Texts tagged by the worker",
		},
		[]string{"tagger"},
	)

	TaggerTagsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "taggate",
			Name:      "tagger_tags_total",
			Help:      "Tags produced by the worker",
		},
		[]string{"tagger"},
	)
)

var taggerMetricsRegistered bool

// RegisterTaggerMetrics registers worker tagging metrics. Must be called once from main.
func RegisterTaggerMetrics() {
	if taggerMetricsRegistered {
		return
	}
	prometheus.MustRegister(TaggerTextsTotal)
	prometheus.MustRegister(TaggerTagsTotal)
	taggerMetricsRegistered = true
}
