package middleware

import (
	"fmt"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// UserRateLimiter caps AI feature requests per authenticated user. Backed
// by Redis so the limit holds across replicas. Runs after JWT auth.
type UserRateLimiter struct {
	redis  *redis.Client
	limit  int64
	window time.Duration
}

func NewUserRateLimiter(client *redis.Client, limit int, window time.Duration) *UserRateLimiter {
	return &UserRateLimiter{redis: client, limit: int64(limit), window: window}
}

func (l *UserRateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID := GetUserID(r.Context())
		key := fmt.Sprintf("ratelimit:%s", userID)

		count, err := l.redis.Incr(r.Context(), key).Result()
		if err != nil {
			// Redis being down should not take the API with it.
			log.Warn().Err(err).Msg("user rate limiter unavailable, allowing request")
			next.ServeHTTP(w, r)
			return
		}
		if count == 1 {
			l.redis.Expire(r.Context(), key, l.window)
		}

		if count > l.limit {
			writeError(w, http.StatusTooManyRequests, "RATE_LIMITED", "Too many requests. Please try again later.", r)
			return
		}

		next.ServeHTTP(w, r)
	})
}
