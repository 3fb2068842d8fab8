package middleware

import (
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/ThomasBury/AceBet/internal/metrics"
	"github.com/ThomasBury/AceBet/internal/ratelimit"
)

// Admit rejects requests once the client's throughput budget is exhausted.
// Client identity is the authenticated username when an upstream Authenticate
// wrapper has run, otherwise the network origin. Rejection is immediate; the
// request is never queued.
func Admit(limiter *ratelimit.ClientLimiter, logger *logrus.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			clientID := clientAddr(r)
			if principal, ok := PrincipalFrom(r.Context()); ok {
				clientID = principal.Username
			}

			if !limiter.Allow(clientID) {
				metrics.RateLimitRejectionsTotal.WithLabelValues(r.URL.Path).Inc()
				logger.WithFields(logrus.Fields{
					"client": clientID,
					"path":   r.URL.Path,
				}).Warn("Rate limit exceeded")
				writeDetail(w, http.StatusTooManyRequests, "Rate limit exceeded")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
