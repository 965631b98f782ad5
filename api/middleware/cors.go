package middleware

import (
	"net/http"
	"strings"

	"github.com/go-chi/cors"
)

// AccessTokenHeader carries a freshly minted access token on login, register and
// refresh responses.
const AccessTokenHeader = "X-XC-Token"

const corsMaxAgeSeconds = 300

// CORS lets the dashboard origins call the API with credentials. A "*" entry opens
// the API to any origin but turns credentials off, since browsers reject that pair.
func CORS(allowedOrigins []string) func(http.Handler) http.Handler {
	origins := make([]string, 0, len(allowedOrigins))
	for _, origin := range allowedOrigins {
		if origin = strings.TrimRight(strings.TrimSpace(origin), "/"); origin != "" {
			origins = append(origins, origin)
		}
	}
	if len(origins) == 0 {
		origins = []string{"http://localhost:3000"}
	}
	wildcard := false
	for _, origin := range origins {
		wildcard = wildcard || origin == "*"
	}

	return cors.New(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{
			"Accept", "Accept-Language", "Authorization", "Content-Type",
			localeHeader, IdempotencyKeyHeader, RequestIDHeader, "Last-Event-ID",
		},
		ExposedHeaders: []string{
			AccessTokenHeader, RequestIDHeader, IdempotencyReplayedHeader,
			"Content-Language", "Retry-After",
		},
		AllowCredentials: !wildcard,
		MaxAge:           corsMaxAgeSeconds,
	}).Handler
}
