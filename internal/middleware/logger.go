// AngelaMos | 2026
// logger.go

package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/ewastex/marketplace-api/internal/core"
)

type statusRecorder struct {
	http.ResponseWriter
	status int
	size   int
}

func (w *statusRecorder) WriteHeader(code int) {
	if w.status == 0 {
		w.status = code
	}
	w.ResponseWriter.WriteHeader(code)
}

func (w *statusRecorder) Write(b []byte) (int, error) {
	if w.status == 0 {
		w.status = http.StatusOK
	}
	n, err := w.ResponseWriter.Write(b)
	w.size += n
	return n, err
}

func (w *statusRecorder) Unwrap() http.ResponseWriter {
	return w.ResponseWriter
}

func wrapWriter(w http.ResponseWriter) *statusRecorder {
	if rec, ok := w.(*statusRecorder); ok {
		return rec
	}
	return &statusRecorder{ResponseWriter: w}
}

func (w *statusRecorder) Status() int {
	if w.status == 0 {
		return http.StatusOK
	}
	return w.status
}

// Logger writes one access log line per request. Server errors log at
// error level, client errors at warn.
func Logger(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := wrapWriter(w)
			caller := &callerSlot{}
			r = r.WithContext(context.WithValue(r.Context(), callerKey, caller))

			next.ServeHTTP(rec, r)

			status := rec.Status()
			attrs := []any{
				"request_id", GetRequestID(r.Context()),
				"method", r.Method,
				"route", routePattern(r),
				"status", status,
				"bytes", rec.size,
				"latency", time.Since(start),
				"remote", r.RemoteAddr,
			}
			if caller.userID != "" {
				attrs = append(attrs, "user_id", caller.userID)
			}
			if traceID := core.TraceIDFromContext(r.Context()); traceID != "" {
				attrs = append(attrs, "trace_id", traceID)
			}

			switch {
			case status >= http.StatusInternalServerError:
				logger.ErrorContext(r.Context(), "http request", attrs...)
			case status >= http.StatusBadRequest:
				logger.WarnContext(r.Context(), "http request", attrs...)
			default:
				logger.InfoContext(r.Context(), "http request", attrs...)
			}
		})
	}
}

// callerSlot is filled in by the auth middleware further down the chain
// so the access log can name the caller.
type callerSlot struct {
	userID string
}

const callerKey contextKey = "caller"

func noteCaller(ctx context.Context, userID string) {
	if slot, ok := ctx.Value(callerKey).(*callerSlot); ok {
		slot.userID = userID
	}
}

func routePattern(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		if pattern := rctx.RoutePattern(); pattern != "" {
			return pattern
		}
	}
	return r.URL.Path
}
