package gateway

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kailas-cloud/taggate/internal/domain"
	"github.com/kailas-cloud/taggate/internal/domain/batch"
	"github.com/kailas-cloud/taggate/internal/metrics"
	"github.com/kailas-cloud/taggate/internal/usecase/dispatch"
)

// --- Mocks ---

type mockUsers struct {
	users map[string]domain.User
	err   error
}

func (m *mockUsers) FindByAPIKey(_ context.Context, apiKey string) (domain.User, error) {
	if m.err != nil {
		return domain.User{}, m.err
	}
	u, ok := m.users[apiKey]
	if !ok {
		return domain.User{}, domain.ErrUserNotFound
	}
	return u, nil
}

type mockRouter struct {
	out    dispatch.Outcome
	bodies [][]byte
}

func (m *mockRouter) Dispatch(_ context.Context, body []byte) dispatch.Outcome {
	m.bodies = append(m.bodies, body)
	return m.out
}

type mockRecorder struct {
	queries []domain.Query
	ctxErrs []error
	err     error
}

func (m *mockRecorder) Record(ctx context.Context, q domain.Query) error {
	m.queries = append(m.queries, q)
	m.ctxErrs = append(m.ctxErrs, ctx.Err())
	return m.err
}

var fixedNow = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

func newTestService(router *mockRouter, recorder *mockRecorder) *Service {
	users := &mockUsers{users: map[string]domain.User{
		"good":     domain.ReconstructUser("u1", "good", true),
		"disabled": domain.ReconstructUser("u2", "disabled", false),
	}}
	return New(users, batch.NewValidator(0, 0), router, recorder).
		WithClock(func() time.Time { return fixedNow })
}

// --- Tests ---

func TestTag_RejectsBeforeDispatch(t *testing.T) {
	tests := []struct {
		name   string
		apiKey string
		body   string
		status int
		want   string
	}{
		{"missing key", "", `{"texts":[]}`, http.StatusForbidden, `{"error":"You should pass API key"}`},
		{"unknown key", "nope", `{"texts":[]}`, http.StatusForbidden, `{"error":"Wrong API key"}`},
		{"inactive key", "disabled", `{"texts":[]}`, http.StatusForbidden, `{"error":"API key deactivate"}`},
		{"not json", "good", `texts=hello`, http.StatusBadRequest, `{"error":"Expected JSON body"}`},
		{"wrong shape", "good", `{"text":"hello"}`, http.StatusBadRequest, `{"error":"Wrong body format"}`},
		{"too many texts", "good", `{"texts":["a","a","a","a","a","a","a","a","a","a","a"]}`, http.StatusBadRequest, `{"error":"Wrong body format"}`},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			router := &mockRouter{}
			recorder := &mockRecorder{}
			svc := newTestService(router, recorder)

			reply := svc.Tag(context.Background(), tc.apiKey, Bytes([]byte(tc.body)))

			assert.Equal(t, tc.status, reply.Status)
			assert.JSONEq(t, tc.want, string(reply.Body))
			assert.Empty(t, router.bodies, "rejected request must not be dispatched")
			assert.Empty(t, recorder.queries, "rejected request must not be audited")
		})
	}
}

func TestTag_DispatchesAndRecords(t *testing.T) {
	router := &mockRouter{out: dispatch.Outcome{
		Status: http.StatusOK,
		Body:   []byte(`{"tags":[["cat"]]}`),
		Result: dispatch.ResultAccepted,
	}}
	recorder := &mockRecorder{}
	svc := newTestService(router, recorder)

	body := []byte(`{"texts":["the cat sat on the cat mat"]}`)
	reply := svc.Tag(context.Background(), "good", Bytes(body))

	assert.Equal(t, http.StatusOK, reply.Status)
	assert.JSONEq(t, `{"tags":[["cat"]]}`, string(reply.Body))

	require.Len(t, router.bodies, 1)
	assert.Equal(t, body, router.bodies[0])

	require.Len(t, recorder.queries, 1)
	q := recorder.queries[0]
	assert.NotEmpty(t, q.ID())
	assert.Equal(t, "u1", q.UserID())
	assert.JSONEq(t, string(body), string(q.Request()))
	assert.JSONEq(t, `{"tags":[["cat"]]}`, string(q.Response()))
	assert.Equal(t, http.StatusOK, q.Status())
	assert.Equal(t, fixedNow, q.CreatedAt())
}

func TestTag_RelaysDispatchFailure(t *testing.T) {
	router := &mockRouter{out: dispatch.Outcome{
		Status: http.StatusInternalServerError,
		Body:   dispatch.InternalErrorBody,
		Result: dispatch.ResultExhausted,
	}}
	recorder := &mockRecorder{}
	svc := newTestService(router, recorder)

	reply := svc.Tag(context.Background(), "good", Bytes([]byte(`{"texts":["x"]}`)))

	assert.Equal(t, http.StatusInternalServerError, reply.Status)
	assert.JSONEq(t, `{"error":"Internal error"}`, string(reply.Body))
	require.Len(t, recorder.queries, 1)
	assert.Equal(t, http.StatusInternalServerError, recorder.queries[0].Status())
}

func TestTag_AuditFailureKeepsReply(t *testing.T) {
	before := testutil.ToFloat64(metrics.AuditWriteErrorsTotal)

	router := &mockRouter{out: dispatch.Outcome{Status: http.StatusOK, Body: []byte(`{"tags":[[]]}`)}}
	recorder := &mockRecorder{err: errors.New("store down")}
	svc := newTestService(router, recorder)

	reply := svc.Tag(context.Background(), "good", Bytes([]byte(`{"texts":["x"]}`)))

	assert.Equal(t, http.StatusOK, reply.Status)
	assert.JSONEq(t, `{"tags":[[]]}`, string(reply.Body))
	assert.InDelta(t, 1, testutil.ToFloat64(metrics.AuditWriteErrorsTotal)-before, 0)
}

func TestTag_UserStoreError(t *testing.T) {
	router := &mockRouter{}
	svc := New(&mockUsers{err: errors.New("timeout")}, batch.NewValidator(0, 0), router, &mockRecorder{})

	reply := svc.Tag(context.Background(), "good", Bytes([]byte(`{"texts":[]}`)))

	assert.Equal(t, http.StatusInternalServerError, reply.Status)
	assert.JSONEq(t, `{"error":"Internal error"}`, string(reply.Body))
	assert.Empty(t, router.bodies)
}

func TestTag_UniqueQueryIDs(t *testing.T) {
	router := &mockRouter{out: dispatch.Outcome{Status: http.StatusOK, Body: []byte(`{}`)}}
	recorder := &mockRecorder{}
	svc := newTestService(router, recorder)

	svc.Tag(context.Background(), "good", Bytes([]byte(`{"texts":[]}`)))
	svc.Tag(context.Background(), "good", Bytes([]byte(`{"texts":[]}`)))

	require.Len(t, recorder.queries, 2)
	assert.NotEqual(t, recorder.queries[0].ID(), recorder.queries[1].ID())
}

func TestTag_AuthenticatesBeforeReadingBody(t *testing.T) {
	router := &mockRouter{}
	svc := newTestService(router, &mockRecorder{})

	read := false
	body := func() ([]byte, error) {
		read = true
		return []byte(`{"texts":[]}`), nil
	}

	for _, key := range []string{"", "nope", "disabled"} {
		reply := svc.Tag(context.Background(), key, body)
		assert.Equal(t, http.StatusForbidden, reply.Status, key)
	}
	assert.False(t, read, "body must not be read for rejected keys")
	assert.Empty(t, router.bodies)
}

func TestTag_BodyReadErrors(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		want   string
	}{
		{"too large", &http.MaxBytesError{Limit: 16}, http.StatusRequestEntityTooLarge, `{"error":"Request body too large"}`},
		{"read failure", errors.New("connection reset by peer"), http.StatusBadRequest, `{"error":"Expected JSON body"}`},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			router := &mockRouter{}
			recorder := &mockRecorder{}
			svc := newTestService(router, recorder)

			reply := svc.Tag(context.Background(), "good", func() ([]byte, error) { return nil, tc.err })

			assert.Equal(t, tc.status, reply.Status)
			assert.JSONEq(t, tc.want, string(reply.Body))
			assert.Empty(t, router.bodies)
			assert.Empty(t, recorder.queries)
		})
	}
}

func TestTag_RecordsAfterCallerCancels(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	router := &cancellingRouter{
		cancel: cancel,
		out:    dispatch.Outcome{Status: http.StatusOK, Body: []byte(`{"tags":[["x"]]}`), Result: dispatch.ResultAccepted},
	}
	recorder := &mockRecorder{}
	users := &mockUsers{users: map[string]domain.User{"good": domain.ReconstructUser("u1", "good", true)}}
	svc := New(users, batch.NewValidator(0, 0), router, recorder)

	reply := svc.Tag(ctx, "good", Bytes([]byte(`{"texts":["x"]}`)))

	require.Equal(t, http.StatusOK, reply.Status)
	require.Len(t, recorder.queries, 1)
	assert.NoError(t, recorder.ctxErrs[0], "audit write must not inherit the caller's cancellation")
	assert.Error(t, ctx.Err())
}

// cancellingRouter cancels the request context while dispatching, as a
// client disconnect would.
type cancellingRouter struct {
	cancel context.CancelFunc
	out    dispatch.Outcome
}

func (r *cancellingRouter) Dispatch(_ context.Context, _ []byte) dispatch.Outcome {
	r.cancel()
	return r.out
}
