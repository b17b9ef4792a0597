package health

import "context"

// DBPinger checks database availability.
type DBPinger interface {
	Ping(ctx context.Context) error
}

// BackendProber checks one tagging worker.
type BackendProber interface {
	Probe(ctx context.Context, endpoint string) error
}
