package middleware

import (
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/ethpandaops/lottery/services"
)

// RateLimitMiddleware rejects requests once the visitor used up its call budget.
// Requests with a call cost of 0 are never limited.
func RateLimitMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cost := GetCallCost(r)
		if cost > 0 {
			if err := services.GlobalCallRateLimiter.CheckCallLimit(r, cost); err != nil {
				logrus.WithFields(logrus.Fields{
					"remote": r.RemoteAddr,
					"path":   r.URL.Path,
				}).Debug(err.Error())

				w.Header().Set("Retry-After", "1")
				http.Error(w, "Too many requests", http.StatusTooManyRequests)
				return
			}
		}

		next.ServeHTTP(w, r)
	})
}
