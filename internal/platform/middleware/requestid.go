package middleware

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/Bahjat/seo-check-api/internal/platform/requestid"
)

const maxRequestIDLen = 128

// RequestID is middleware that assigns a unique request ID to each request
// and echoes it in the response. An incoming X-Request-ID header is reused
// when it is short enough; otherwise a new UUID v4 is generated.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(requestid.Header)
		if id == "" || len(id) > maxRequestIDLen {
			id = uuid.New().String()
		}

		w.Header().Set(requestid.Header, id)
		ctx := requestid.NewContext(r.Context(), id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
