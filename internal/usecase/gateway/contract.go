package gateway

import (
	"context"

	"github.com/kailas-cloud/taggate/internal/domain"
	"github.com/kailas-cloud/taggate/internal/domain/batch"
	"github.com/kailas-cloud/taggate/internal/usecase/dispatch"
)

// UserFinder resolves API keys to users.
type UserFinder interface {
	FindByAPIKey(ctx context.Context, apiKey string) (domain.User, error)
}

// Dispatcher forwards a validated batch to the tagging workers.
type Dispatcher interface {
	Dispatch(ctx context.Context, body []byte) dispatch.Outcome
}

// QueryRecorder persists the audit record of a dispatched batch.
type QueryRecorder interface {
	Record(ctx context.Context, q domain.Query) error
}

// BatchDecoder decodes and validates an inbound batch.
type BatchDecoder interface {
	Decode(body []byte) (batch.Request, error)
}
