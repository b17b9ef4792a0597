package chi

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"errors"
	"strings"
	"testing"
	"testing/iotest"

	"go.uber.org/zap"

	"github.com/kailas-cloud/taggate/internal/domain/batch"
	domtag "github.com/kailas-cloud/taggate/internal/domain/tagging"
	"github.com/kailas-cloud/taggate/internal/usecase/tagging"
)

func newWorkerRouter(t *testing.T) http.Handler {
	t.Helper()
	tagger := domtag.NewFrequencyTagger(domtag.NewStopWordSet([]string{"the", "on"}), 5)
	r := NewRouter("worker-test", zap.NewNop())
	NewWorkerServer(tagging.New(tagger, "frequency-transport-test"), batch.NewValidator(0, 0), &mockHealth{}).Mount(r)
	return r
}

func TestWorkerTagging(t *testing.T) {
	h := newWorkerRouter(t)

	body := `{"texts":["the cat sat on the cat mat", "on the"]}`
	req := httptest.NewRequest(http.MethodPost, "/internal/tagging", strings.NewReader(body))
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
	}
	var resp tagsResponse
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatal(err)
	}
	if len(resp.Tags) != 2 {
		t.Fatalf("expected 2 tag lists, got %v", resp.Tags)
	}
	if len(resp.Tags[0]) != 1 || resp.Tags[0][0] != "cat" {
		t.Errorf("expected [cat], got %v", resp.Tags[0])
	}
	if resp.Tags[1] == nil || len(resp.Tags[1]) != 0 {
		t.Errorf("expected empty list, got %v", resp.Tags[1])
	}
}

func TestWorkerTagging_Rejects(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"not json", `hello`, "Expected JSON body"},
		{"no texts", `{"documents":[]}`, "Wrong body format"},
		{"too long", `{"texts":["` + strings.Repeat("a", 1001) + `"]}`, "Wrong body format"},
	}
	h := newWorkerRouter(t)
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/internal/tagging", strings.NewReader(tc.body))
			rr := httptest.NewRecorder()
			h.ServeHTTP(rr, req)

			if rr.Code != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d", rr.Code)
			}
			var resp errorResponse
			if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
				t.Fatal(err)
			}
			if resp.Error != tc.want {
				t.Errorf("expected %q, got %q", tc.want, resp.Error)
			}
		})
	}
}

func TestWorkerTagging_BodyReadErrors(t *testing.T) {
	tests := []struct {
		name     string
		body     func() *http.Request
		wantCode int
		wantMsg  string
	}{
		{
			name: "oversized",
			body: func() *http.Request {
				return httptest.NewRequest(http.MethodPost, "/internal/tagging",
					strings.NewReader(strings.Repeat("x", (1<<20)+1)))
			},
			wantCode: http.StatusRequestEntityTooLarge,
			wantMsg:  "Request body too large",
		},
		{
			name: "connection reset",
			body: func() *http.Request {
				return httptest.NewRequest(http.MethodPost, "/internal/tagging",
					iotest.ErrReader(errors.New("connection reset by peer")))
			},
			wantCode: http.StatusBadRequest,
			wantMsg:  "Expected JSON body",
		},
	}
	h := newWorkerRouter(t)
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rr := httptest.NewRecorder()
			h.ServeHTTP(rr, tc.body())

			if rr.Code != tc.wantCode {
				t.Fatalf("expected %d, got %d", tc.wantCode, rr.Code)
			}
			var resp errorResponse
			if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
				t.Fatal(err)
			}
			if resp.Error != tc.wantMsg {
				t.Errorf("expected %q, got %q", tc.wantMsg, resp.Error)
			}
		})
	}
}
