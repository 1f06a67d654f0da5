package router

import (
	"errors"
	"log/slog"
	"math"
	"net/http"
	"strconv"

	"github.com/shandysiswandi/otpgate/internal/pkg/ratelimit"
)

// Throttle limits requests per client IP. scope separates counters of
// different routes and limitErr is rendered when the budget is spent.
// If the limiter backend fails the request is let through.
func Throttle(l ratelimit.Limiter, scope string, limitErr error) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if l == nil {
				next.ServeHTTP(w, r)
				return
			}

			ip := (&Request{Request: r}).ClientIP()
			res, err := l.Allow(r.Context(), scope+":"+ip)
			if err != nil {
				if !errors.Is(err, ratelimit.ErrUnavailable) {
					slog.ErrorContext(r.Context(), "failed to check rate limit", "scope", scope, "error", err)
				} else {
					slog.WarnContext(r.Context(), "rate limiter unavailable, allowing request", "scope", scope, "error", err)
				}
				next.ServeHTTP(w, r)
				return
			}

			w.Header().Set("X-RateLimit-Limit", strconv.Itoa(res.Limit))
			w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(res.Remaining))

			if !res.Allowed {
				w.Header().Set("Retry-After", strconv.Itoa(int(math.Ceil(res.RetryAfter.Seconds()))))
				slog.WarnContext(r.Context(), "request throttled", "scope", scope, "ip", ip)
				WriteError(w, limitErr)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
