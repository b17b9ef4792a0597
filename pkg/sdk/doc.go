// Package taggate provides a Go client for the taggate gateway.
//
// The gateway authenticates callers by API key, validates a batch of texts
// and relays it to one of its tagging workers:
//
//	client, _ := taggate.New("http://localhost:8080", taggate.WithAPIKey(key))
//	tags, err := client.Tag(ctx, []string{"the cat sat on the cat mat"})
//	// tags[0] == []string{"cat"}
//
// Failures reported by the gateway come back as *APIError and match the
// sentinel errors with errors.Is:
//
//	if errors.Is(err, taggate.ErrUnauthorized) { ... }
package taggate
