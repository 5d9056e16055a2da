package middleware

import (
	"net/http"
)

// MaxRequestSize caps request bodies. Multipart uploads get uploadLimit instead of limit.
func MaxRequestSize(limit, uploadLimit int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Body != nil {
				maxBytes := limit
				if extractContentType(r.Header.Get("Content-Type")) == ContentTypeMultipart {
					maxBytes = uploadLimit
				}
				r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
			}
			next.ServeHTTP(w, r)
		})
	}
}
