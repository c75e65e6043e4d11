package middleware

import (
	"encoding/json"
	"net/http"
	"runtime/debug"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/attribute"

	"github.com/prezadito/data-detective-sub001/internal/metrics"
	"github.com/prezadito/data-detective-sub001/internal/tracking"
)

// FallbackMessage is shown whenever a handler panics.
const FallbackMessage = "Something went wrong. Please reload the page or start over."

type fallbackBody struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
	Reset   string `json:"reset"`
}

// Recovery is the error boundary: it turns a panic into a generic page that
// links back to "/", and forwards the panic to the tracker.
func Recovery(log zerolog.Logger, tracker *tracking.Tracker, m *metrics.Metrics) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		fn := func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rvr := recover()
				if rvr == nil {
					return
				}
				if rvr == http.ErrAbortHandler {
					panic(rvr)
				}

				stack := debug.Stack()
				log.Error().
					Interface("recover", rvr).
					Str("method", r.Method).
					Str("path", r.URL.Path).
					Str("request_id", middleware.GetReqID(r.Context())).
					Bytes("stack", stack).
					Msg("Panic recovered")

				tracker.CapturePanic(r.Context(), rvr, stack,
					attribute.String("http.method", r.Method),
					attribute.String("http.path", r.URL.Path),
				)
				m.IncPanic()

				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusInternalServerError)
				_ = json.NewEncoder(w).Encode(fallbackBody{
					Success: false,
					Error:   FallbackMessage,
					Reset:   "/",
				})
			}()

			next.ServeHTTP(w, r)
		}
		return http.HandlerFunc(fn)
	}
}
