package middleware

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"
)

// RequestRecorder receives one observation per served request
type RequestRecorder interface {
	ObserveRequest(method, route string, status int, d time.Duration)
}

// Metrics records request counts and latency labelled by route template,
// so /matches/ABC234 and /matches/XYZ789 share a series
func Metrics(recorder RequestRecorder) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			wrapped := NewResponseWriter(w)

			next.ServeHTTP(wrapped, r)

			route := "unmatched"
			if current := mux.CurrentRoute(r); current != nil {
				if tmpl, err := current.GetPathTemplate(); err == nil {
					route = tmpl
				}
			}
			recorder.ObserveRequest(r.Method, route, wrapped.status, time.Since(start))
		})
	}
}
