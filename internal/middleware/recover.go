package middleware

import (
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"

	"github.com/sakif/order-desk/internal/logging"
)

const serverErrorBody = `{"error":{"code":"server_error","message":"internal server error"}}` + "\n"

// Recoverer turns a panic in a handler into a 500 with the usual JSON error
// envelope. The panic value and stack trace are only logged.
//
// http.ErrAbortHandler is re-panicked so net/http can abort the connection
// as it expects.
func Recoverer(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				if rec == http.ErrAbortHandler {
					panic(rec)
				}

				logging.FromContext(r.Context(), logger).Error("panic recovered",
					slog.String("method", r.Method),
					slog.String("path", r.URL.Path),
					slog.String("panic", fmt.Sprint(rec)),
					slog.String("stack", string(debug.Stack())),
				)

				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusInternalServerError)
				_, _ = w.Write([]byte(serverErrorBody))
			}()

			next.ServeHTTP(w, r)
		})
	}
}
