// Package dispatch forwards a validated batch to one of a fixed pool of
// tagging workers, retrying on transport failures and 5xx replies.
package dispatch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math/rand/v2"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/taggate/internal/domain"
	"github.com/kailas-cloud/taggate/internal/metrics"
)

const (
	// DefaultAttempts is the attempt budget per dispatched batch.
	DefaultAttempts = 5
	// DefaultAttemptTimeout bounds one backend attempt.
	DefaultAttemptTimeout = 5 * time.Second

	maxResponseBytes = 4 << 20
)

// InternalErrorBody is the reply body for exhausted and malformed dispatches.
var InternalErrorBody = json.RawMessage(`{"error":"Internal error"}`)

// Result names the exit a dispatch took.
type Result string

const (
	// ResultAccepted means a backend replied with status < 500 and a JSON body.
	ResultAccepted Result = "accepted"
	// ResultExhausted means every attempt failed or the context ended.
	ResultExhausted Result = "exhausted"
	// ResultMalformed means the accepted reply body was not JSON.
	ResultMalformed Result = "malformed"
)

// Outcome is the reply to relay to the caller.
type Outcome struct {
	Status   int
	Body     json.RawMessage
	Result   Result
	Attempts int
	Endpoint string
}

type attemptOutcome string

const (
	attemptAccepted       attemptOutcome = "accepted"
	attemptTransportError attemptOutcome = "transport_error"
	attemptServerError    attemptOutcome = "server_error"
)

// Router dispatches batches to randomly chosen endpoints.
type Router struct {
	endpoints      []string
	client         Doer
	logger         *zap.Logger
	attempts       int
	attemptTimeout time.Duration
	pick           func(n int) int
}

// New creates a Router over a fixed endpoint list.
func New(endpoints []string, client Doer, logger *zap.Logger) *Router {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Router{
		endpoints:      append([]string(nil), endpoints...),
		client:         client,
		logger:         logger,
		attempts:       DefaultAttempts,
		attemptTimeout: DefaultAttemptTimeout,
		pick:           rand.IntN,
	}
}

// WithAttempts sets the attempt budget. Non-positive values are ignored.
func (r *Router) WithAttempts(n int) *Router {
	if n > 0 {
		r.attempts = n
	}
	return r
}

// WithAttemptTimeout sets the per-attempt timeout. Non-positive values are ignored.
func (r *Router) WithAttemptTimeout(d time.Duration) *Router {
	if d > 0 {
		r.attemptTimeout = d
	}
	return r
}

// WithPicker replaces the endpoint draw. pick must return a value in [0, n).
func (r *Router) WithPicker(pick func(n int) int) *Router {
	if pick != nil {
		r.pick = pick
	}
	return r
}

// Endpoints returns a copy of the configured endpoints.
func (r *Router) Endpoints() []string {
	return append([]string(nil), r.endpoints...)
}

// Dispatch forwards body unmodified. Each attempt draws an endpoint
// independently; there is no backoff between attempts.
func (r *Router) Dispatch(ctx context.Context, body []byte) Outcome {
	start := time.Now()
	out := r.dispatch(ctx, body)
	metrics.DispatchResultsTotal.WithLabelValues(string(out.Result)).Inc()
	metrics.DispatchDuration.Observe(time.Since(start).Seconds())
	return out
}

func (r *Router) dispatch(ctx context.Context, body []byte) Outcome {
	attempts := 0
	if len(r.endpoints) == 0 {
		r.logger.Warn("no tagging endpoints configured")
		return exhausted(attempts)
	}

	for attempts < r.attempts {
		if ctx.Err() != nil {
			break
		}
		attempts++
		endpoint := r.endpoints[r.pick(len(r.endpoints))]

		status, respBody, err := r.attempt(ctx, endpoint, body)
		switch {
		case err != nil:
			metrics.DispatchAttemptsTotal.WithLabelValues(string(attemptTransportError)).Inc()
			r.logger.Debug("dispatch attempt failed",
				zap.String("endpoint", endpoint),
				zap.Int("attempt", attempts),
				zap.Error(err),
			)
			continue
		case status >= http.StatusInternalServerError:
			metrics.DispatchAttemptsTotal.WithLabelValues(string(attemptServerError)).Inc()
			r.logger.Debug("dispatch attempt got server error",
				zap.String("endpoint", endpoint),
				zap.Int("attempt", attempts),
				zap.Int("status", status),
			)
			continue
		}

		metrics.DispatchAttemptsTotal.WithLabelValues(string(attemptAccepted)).Inc()
		r.logger.Debug("dispatch attempt accepted",
			zap.String("endpoint", endpoint),
			zap.Int("attempt", attempts),
			zap.Int("status", status),
		)

		if respBody == nil || !json.Valid(respBody) {
			r.logger.Warn("backend replied with non-JSON body",
				zap.String("endpoint", endpoint),
				zap.Int("status", status),
			)
			return Outcome{
				Status:   http.StatusInternalServerError,
				Body:     InternalErrorBody,
				Result:   ResultMalformed,
				Attempts: attempts,
				Endpoint: endpoint,
			}
		}
		return Outcome{
			Status:   status,
			Body:     respBody,
			Result:   ResultAccepted,
			Attempts: attempts,
			Endpoint: endpoint,
		}
	}

	r.logger.Warn("dispatch exhausted", zap.Int("attempts", attempts))
	return exhausted(attempts)
}

// attempt performs one POST. A non-nil error is a transport failure.
// A nil body with nil error means the accepted reply could not be read.
func (r *Router) attempt(ctx context.Context, endpoint string, body []byte) (int, []byte, error) {
	ctx, cancel := context.WithTimeout(ctx, r.attemptTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return 0, nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.client.Do(req)
	if err != nil {
		return 0, nil, fmt.Errorf("post %s: %w", endpoint, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= http.StatusInternalServerError {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxResponseBytes))
		return resp.StatusCode, nil, nil
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		r.logger.Debug("read backend reply", zap.String("endpoint", endpoint), zap.Error(err))
		return resp.StatusCode, nil, nil
	}
	return resp.StatusCode, data, nil
}

// Probe checks a worker's health endpoint, derived from the endpoint's
// scheme and host.
func (r *Router) Probe(ctx context.Context, endpoint string) error {
	u, err := url.Parse(endpoint)
	if err != nil {
		return fmt.Errorf("parse endpoint %q: %w", endpoint, err)
	}
	healthURL := url.URL{Scheme: u.Scheme, Host: u.Host, Path: "/health"}

	ctx, cancel := context.WithTimeout(ctx, r.attemptTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, healthURL.String(), http.NoBody)
	if err != nil {
		return fmt.Errorf("build probe: %w", err)
	}
	resp, err := r.client.Do(req)
	if err != nil {
		return fmt.Errorf("probe %s: %w: %w", endpoint, domain.ErrBackendUnavailable, err)
	}
	defer func() { _ = resp.Body.Close() }()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxResponseBytes))

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("probe %s: status %d: %w", endpoint, resp.StatusCode, domain.ErrBackendUnavailable)
	}
	return nil
}

func exhausted(attempts int) Outcome {
	return Outcome{
		Status:   http.StatusInternalServerError,
		Body:     InternalErrorBody,
		Result:   ResultExhausted,
		Attempts: attempts,
	}
}
