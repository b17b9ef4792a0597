// Package gateway authenticates, validates and dispatches tagging batches,
// recording every dispatched batch for audit.
package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/kailas-cloud/taggate/internal/domain"
	"github.com/kailas-cloud/taggate/internal/logger"
	"github.com/kailas-cloud/taggate/internal/metrics"
)

// Reply messages returned to API callers.
const (
	MsgMissingAPIKey  = "You should pass API key"
	MsgWrongAPIKey    = "Wrong API key"
	MsgInactiveAPIKey = "API key deactivate"
	MsgExpectedJSON   = "Expected JSON body"
	MsgWrongFormat    = "Wrong body format"
	MsgInternalError  = "Internal error"
	MsgBodyTooLarge   = "Request body too large"
)

// Body yields the request body. Tag reads it only after the API key is
// accepted; an *http.MaxBytesError from it becomes 413.
type Body func() ([]byte, error)

// Bytes wraps an already-read body.
func Bytes(b []byte) Body {
	return func() ([]byte, error) { return b, nil }
}

// Reply is the HTTP status and JSON body to send back.
type Reply struct {
	Status int
	Body   json.RawMessage
}

// Service runs the tagging request flow.
type Service struct {
	users    UserFinder
	decoder  BatchDecoder
	router   Dispatcher
	recorder QueryRecorder
	now      func() time.Time
	newID    func() string
}

// New creates a gateway Service.
func New(users UserFinder, decoder BatchDecoder, router Dispatcher, recorder QueryRecorder) *Service {
	return &Service{
		users:    users,
		decoder:  decoder,
		router:   router,
		recorder: recorder,
		now:      time.Now,
		newID:    func() string { return uuid.New().String() },
	}
}

// WithClock overrides the audit timestamp source.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// Tag authenticates apiKey, reads and validates the body, and dispatches it.
// The audit record is written before returning, even when the caller has
// gone away; a failed write is logged and does not change the reply.
func (s *Service) Tag(ctx context.Context, apiKey string, readBody Body) Reply {
	log := logger.FromContext(ctx)

	user, reply, ok := s.authenticate(ctx, apiKey)
	if !ok {
		return reply
	}

	body, err := readBody()
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return errorReply(http.StatusRequestEntityTooLarge, MsgBodyTooLarge)
		}
		log.Debug("read request body", zap.Error(err))
		return errorReply(http.StatusBadRequest, MsgExpectedJSON)
	}

	if _, err := s.decoder.Decode(body); err != nil {
		if errors.Is(err, domain.ErrMalformedJSON) {
			return errorReply(http.StatusBadRequest, MsgExpectedJSON)
		}
		return errorReply(http.StatusBadRequest, MsgWrongFormat)
	}

	out := s.router.Dispatch(ctx, body)
	log.Info("batch dispatched",
		zap.String("user_id", user.ID()),
		zap.String("result", string(out.Result)),
		zap.Int("status", out.Status),
		zap.Int("attempts", out.Attempts),
	)

	q := domain.NewQuery(s.newID(), user.ID(), body, out.Body, out.Status, s.now())
	if err := s.recorder.Record(context.WithoutCancel(ctx), q); err != nil {
		metrics.AuditWriteErrorsTotal.Inc()
		log.Error("record query", zap.String("user_id", user.ID()), zap.Error(err))
	}

	return Reply{Status: out.Status, Body: out.Body}
}

func (s *Service) authenticate(ctx context.Context, apiKey string) (domain.User, Reply, bool) {
	if apiKey == "" {
		return domain.User{}, errorReply(http.StatusForbidden, MsgMissingAPIKey), false
	}

	user, err := s.users.FindByAPIKey(ctx, apiKey)
	switch {
	case errors.Is(err, domain.ErrUserNotFound):
		return domain.User{}, errorReply(http.StatusForbidden, MsgWrongAPIKey), false
	case err != nil:
		logger.FromContext(ctx).Error("find user", zap.Error(err))
		return domain.User{}, errorReply(http.StatusInternalServerError, MsgInternalError), false
	case !user.Active():
		return domain.User{}, errorReply(http.StatusForbidden, MsgInactiveAPIKey), false
	}
	return user, Reply{}, true
}

func errorReply(status int, msg string) Reply {
	body, _ := json.Marshal(map[string]string{"error": msg})
	return Reply{Status: status, Body: body}
}
