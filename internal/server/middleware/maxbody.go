package middleware

import "net/http"

// DefaultMaxBody bounds request bodies when MaxBody is given no limit. The
// API only accepts small JSON documents.
const DefaultMaxBody = 64 << 10

// MaxBody caps the body of requests that carry one.
func MaxBody(limit int64) Middleware {
	if limit <= 0 {
		limit = DefaultMaxBody
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			switch r.Method {
			case http.MethodPost, http.MethodPut, http.MethodPatch:
				r.Body = http.MaxBytesReader(w, r.Body, limit)
			}
			next.ServeHTTP(w, r)
		})
	}
}
