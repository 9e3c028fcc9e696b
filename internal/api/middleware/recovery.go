package middleware

import (
	"log/slog"
	"net/http"

	"github.com/scoreline/scoreline/internal/api/response"
)

// Recovery is middleware that recovers from panics and returns a 500 envelope.
func Recovery(next http.Handler) http.Handler {
	return RecoveryWith(func(w http.ResponseWriter, r *http.Request) {
		response.Err(w, http.StatusInternalServerError, "INTERNAL_ERROR", "An unexpected error occurred", GetRequestID(r.Context()))
	})(next)
}

// RecoveryWith is Recovery with a custom body writer, for route groups whose
// error shape differs from the envelope.
func RecoveryWith(write func(w http.ResponseWriter, r *http.Request)) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if err := recover(); err != nil {
					if err == http.ErrAbortHandler {
						panic(err)
					}
					slog.Error("panic recovered", "error", err, "requestId", GetRequestID(r.Context()), "path", r.URL.Path)
					write(w, r)
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}
