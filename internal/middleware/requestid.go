package middleware

import (
	"net/http"

	"github.com/google/uuid"
)

// RequestID assigns every request an id, reusing one the client sent. The
// id travels on the request header so downstream error envelopes can echo
// it back.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
			r.Header.Set("X-Request-ID", id)
		}
		w.Header().Set("X-Request-ID", id)
		next.ServeHTTP(w, r)
	})
}
