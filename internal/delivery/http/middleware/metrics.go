package middleware

import (
	"net/http"
	"time"
)

// HTTPObserver records handled requests.
type HTTPObserver interface {
	ObserveHTTPRequest(method, path string, status int, duration time.Duration)
}

// Metrics reports every request to observer, labelled by the matched route
// pattern. Requests that match no route are labelled "unmatched".
func Metrics(observer HTTPObserver, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		wrapped := newResponseWriter(w)
		next.ServeHTTP(wrapped, r)
		// ServeMux sets Pattern on the request it is given.
		pattern := r.Pattern
		if pattern == "" {
			pattern = "unmatched"
		}
		observer.ObserveHTTPRequest(r.Method, pattern, wrapped.status, time.Since(start))
	})
}
