package tagging

import (
	"github.com/kailas-cloud/taggate/internal/metrics"
)

// Service applies one Tagger to every text of a batch.
type Service struct {
	tagger Tagger
	name   string
}

// New creates a tagging service. name labels metrics (e.g. "frequency").
func New(tagger Tagger, name string) *Service {
	return &Service{tagger: tagger, name: name}
}

// Tag returns one tag list per text, in input order. Lists are never nil.
func (s *Service) Tag(texts []string) [][]string {
	out := make([][]string, len(texts))
	for i, text := range texts {
		tags := s.tagger.Tags(text)
		if tags == nil {
			tags = []string{}
		}
		out[i] = tags
		metrics.TaggerTagsTotal.WithLabelValues(s.name).Add(float64(len(tags)))
	}
	metrics.TaggerTextsTotal.WithLabelValues(s.name).Add(float64(len(texts)))
	return out
}
