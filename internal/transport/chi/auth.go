package chi

import (
	"net/http"
	"strings"
)

// APIKeyParam is the query parameter carrying the caller's API key.
const APIKeyParam = "api_key"

// apiKeyFromRequest reads the API key from the api_key query parameter,
// falling back to an "Authorization: Bearer" header. Returns "" when neither
// is present.
func apiKeyFromRequest(r *http.Request) string {
	if key := r.URL.Query().Get(APIKeyParam); key != "" {
		return key
	}

	const bearerPrefix = "Bearer "
	auth := r.Header.Get("Authorization")
	if strings.HasPrefix(auth, bearerPrefix) {
		return strings.TrimSpace(auth[len(bearerPrefix):])
	}
	return ""
}
