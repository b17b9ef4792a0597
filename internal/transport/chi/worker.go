package chi

import (
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/kailas-cloud/taggate/internal/domain"
	"github.com/kailas-cloud/taggate/internal/domain/batch"
	"github.com/kailas-cloud/taggate/internal/usecase/gateway"
)

// BatchTagger tags every text of a batch.
type BatchTagger interface {
	Tag(texts []string) [][]string
}

// BatchDecoder decodes and validates a batch body.
type BatchDecoder interface {
	Decode(body []byte) (batch.Request, error)
}

// tagsResponse is the worker reply body.
type tagsResponse struct {
	Tags [][]string `json:"tags"`
}

// WorkerServer serves the internal tagging API of one worker.
type WorkerServer struct {
	tagger       BatchTagger
	decoder      BatchDecoder
	health       HealthChecker
	maxBodyBytes int64
}

// NewWorkerServer creates the worker API.
func NewWorkerServer(tagger BatchTagger, decoder BatchDecoder, health HealthChecker) *WorkerServer {
	return &WorkerServer{tagger: tagger, decoder: decoder, health: health, maxBodyBytes: 1 << 20}
}

// Mount registers the worker routes on r.
func (s *WorkerServer) Mount(r chi.Router) {
	r.Post("/internal/tagging", s.Tagging)
	r.Get("/health", healthHandler(s.health))
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())
}

// Tagging handles POST /internal/tagging.
func (s *WorkerServer) Tagging(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, s.maxBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, gateway.MsgBodyTooLarge)
			return
		}
		writeError(w, http.StatusBadRequest, gateway.MsgExpectedJSON)
		return
	}

	req, err := s.decoder.Decode(body)
	switch {
	case errors.Is(err, domain.ErrMalformedJSON):
		writeError(w, http.StatusBadRequest, gateway.MsgExpectedJSON)
		return
	case err != nil:
		writeError(w, http.StatusBadRequest, gateway.MsgWrongFormat)
		return
	}

	writeJSON(w, http.StatusOK, tagsResponse{Tags: s.tagger.Tag(req.Texts)})
}
