package ports

import (
	"log/slog"
	"net/http"

	"github.com/nbadata/courtside/internal/logging"
	"github.com/nbadata/courtside/internal/ratelimiting"
	"github.com/nbadata/courtside/internal/reporting"
)

func NewRateLimitMiddleware(rateLimiter ratelimiting.RequestRateLimiter, onLimitExceeded http.HandlerFunc) func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			if !rateLimiter.Consume(r) {
				onLimitExceeded(w, r)
				return
			}

			next(w, r)
		}
	}
}

func ComposeMiddlewares(middlewares ...func(http.HandlerFunc) http.HandlerFunc) func(http.HandlerFunc) http.HandlerFunc {
	if len(middlewares) == 1 {
		return middlewares[0]
	}
	first := middlewares[0]
	rest := ComposeMiddlewares(middlewares[1:]...)
	return func(h http.HandlerFunc) http.HandlerFunc {
		return first(rest(h))
	}
}

type rateLimits struct {
	ipRefill     ratelimiting.RefillPerSecond
	ipBurst      ratelimiting.BurstSize
	userIDRefill ratelimiting.RefillPerSecond
	userIDBurst  ratelimiting.BurstSize
}

// Endpoints served from the cache or the local store
var defaultRateLimits = rateLimits{
	ipRefill:     8,
	ipBurst:      480,
	userIDRefill: 2,
	userIDBurst:  120,
}

// Endpoints that may fan out to several provider requests
var providerHeavyRateLimits = rateLimits{
	ipRefill:     2,
	ipBurst:      60,
	userIDRefill: 1,
	userIDBurst:  30,
}

func onLimitExceeded(w http.ResponseWriter, r *http.Request) {
	writeErrorResponse(r.Context(), w, "rate limit exceeded", http.StatusTooManyRequests)
}

// buildEndpointMiddleware wraps a handler in the middleware every endpoint shares
func buildEndpointMiddleware(
	handlerName string,
	limits rateLimits,
	allowedOrigins *DomainSuffixes,
	rootLogger *slog.Logger,
	sentryMiddleware func(http.HandlerFunc) http.HandlerFunc,
) func(http.HandlerFunc) http.HandlerFunc {
	ipLimiter, _ := ratelimiting.NewTokenBucketRateLimiter(limits.ipRefill, limits.ipBurst)
	ipRateLimiter := ratelimiting.NewRequestBasedRateLimiter(
		ipLimiter,
		ratelimiting.IPKeyFunc,
	)
	userIDLimiter, _ := ratelimiting.NewTokenBucketRateLimiter(limits.userIDRefill, limits.userIDBurst)
	userIDRateLimiter := ratelimiting.NewRequestBasedRateLimiter(
		// NOTE: Rate limiting based on user controlled value
		userIDLimiter,
		ratelimiting.UserIDKeyFunc,
	)

	return ComposeMiddlewares(
		buildMetricsMiddleware(handlerName),
		logging.NewRequestLoggerMiddleware(rootLogger),
		sentryMiddleware,
		reporting.NewAddMetaMiddleware(handlerName),
		BuildCORSMiddleware(allowedOrigins),
		NewRateLimitMiddleware(ipRateLimiter, onLimitExceeded),
		NewRateLimitMiddleware(userIDRateLimiter, onLimitExceeded),
	)
}
