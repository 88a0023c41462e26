// AngelaMos | 2026
// concurrency.go

package middleware

import (
	"net/http"

	"golang.org/x/sync/semaphore"

	"github.com/ewastex/marketplace-api/internal/core"
)

// ConcurrencyLimit caps in-flight requests so a burst cannot exhaust the
// database pool. Waiters give up when their request context ends.
func ConcurrencyLimit(limit int64) func(http.Handler) http.Handler {
	sem := semaphore.NewWeighted(limit)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if err := sem.Acquire(r.Context(), 1); err != nil {
				core.JSONError(w, core.NewAppError(
					err,
					"server busy",
					http.StatusServiceUnavailable,
					"SERVER_BUSY",
				))
				return
			}
			defer sem.Release(1)

			next.ServeHTTP(w, r)
		})
	}
}
