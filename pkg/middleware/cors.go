package middleware

import (
	"net/http"
	"strings"

	"github.com/rs/cors"
)

const corsMaxAgeSeconds = 600

// CORS answers preflight requests and tags responses for allowed origins.
// "*" in allowedOrigins admits every origin.
func CORS(allowedOrigins []string) func(http.Handler) http.Handler {
	origins := make([]string, 0, len(allowedOrigins))
	for _, o := range allowedOrigins {
		origins = append(origins, strings.TrimRight(o, "/"))
	}

	c := cors.New(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{
			http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions,
		},
		AllowedHeaders: []string{"Authorization", "Content-Type", DefaultIdempotencyHeader, RequestIDHeader},
		ExposedHeaders: []string{RequestIDHeader},
		MaxAge:         corsMaxAgeSeconds,
	})
	return c.Handler
}
