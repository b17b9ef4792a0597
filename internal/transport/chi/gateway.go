// Package chi exposes the gateway and worker HTTP APIs on go-chi routers.
package chi

import (
	"context"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/kailas-cloud/taggate/internal/usecase/gateway"
	healthuc "github.com/kailas-cloud/taggate/internal/usecase/health"
)

// TagService runs the gateway tagging flow.
type TagService interface {
	Tag(ctx context.Context, apiKey string, body gateway.Body) gateway.Reply
}

// HealthChecker reports component health.
type HealthChecker interface {
	Check(ctx context.Context) healthuc.Report
}

// GatewayServer serves the public gateway API.
type GatewayServer struct {
	tagging      TagService
	health       HealthChecker
	maxBodyBytes int64
}

// NewGatewayServer creates the gateway API. maxBodyBytes caps request
// bodies; non-positive means 1 MiB.
func NewGatewayServer(tagging TagService, health HealthChecker, maxBodyBytes int64) *GatewayServer {
	if maxBodyBytes <= 0 {
		maxBodyBytes = 1 << 20
	}
	return &GatewayServer{tagging: tagging, health: health, maxBodyBytes: maxBodyBytes}
}

// Mount registers the gateway routes on r.
func (s *GatewayServer) Mount(r chi.Router) {
	r.Post("/tagging", s.Tagging)
	r.Get("/health", healthHandler(s.health))
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())
}

// Tagging handles POST /tagging?api_key=KEY.
func (s *GatewayServer) Tagging(w http.ResponseWriter, r *http.Request) {
	limited := http.MaxBytesReader(w, r.Body, s.maxBodyBytes)
	readBody := func() ([]byte, error) { return io.ReadAll(limited) }

	reply := s.tagging.Tag(r.Context(), apiKeyFromRequest(r), readBody)
	writeRaw(w, reply.Status, reply.Body)
}

// healthResponse is the JSON body of GET /health.
type healthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

func healthHandler(h HealthChecker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		report := h.Check(r.Context())

		checks := make(map[string]string, len(report.Checks))
		for k, v := range report.Checks {
			checks[k] = string(v)
		}

		status := http.StatusOK
		if report.Status != healthuc.Healthy {
			status = http.StatusServiceUnavailable
		}
		writeJSON(w, status, healthResponse{Status: string(report.Status), Checks: checks})
	}
}
