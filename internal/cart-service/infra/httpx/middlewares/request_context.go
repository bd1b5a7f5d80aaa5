package middlewares

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
)

// HeaderXRequestID carries the request id back to the client.
const HeaderXRequestID = "X-Request-Id"

// contextKey is unexported so keys never collide with other packages.
type contextKey string

const requestIDKey contextKey = "request_id"

// AttachRequestContext stores the chi request id under this package's key and
// echoes it in the response. It must run after middleware.RequestID.
func AttachRequestContext(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := middleware.GetReqID(r.Context())
		if requestID != "" {
			w.Header().Set(HeaderXRequestID, requestID)
		}

		ctx := context.WithValue(r.Context(), requestIDKey, requestID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequestID returns the id stored by AttachRequestContext, or "".
func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}
