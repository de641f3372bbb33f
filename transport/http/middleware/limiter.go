package middleware

import (
	"errors"
	"net"
	"net/http"
	"resort/shared"
	"resort/shared/cache"
	"resort/shared/constant"
	"resort/shared/timezone"
	"resort/transport/http/response"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"
)

const (
	cacheKeyRateLimit = "limiter"

	defaultRateLimitWindow = 60
)

// RateLimit counts requests per client IP in fixed windows. The cache being unavailable
// never blocks a guest.
func (a *appMiddleware) RateLimit() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			limiter := a.config.App.RateLimiter
			if !limiter.Enable || limiter.MaxRequests <= 0 {
				next.ServeHTTP(w, r)

				return
			}

			window := limiter.WindowSeconds
			if window <= 0 {
				window = defaultRateLimitWindow
			}

			now := timezone.Now().Unix()
			slot := now / int64(window)
			resetIn := int(int64(window) - now%int64(window))
			cacheKey := shared.BuildCacheKey(cacheKeyRateLimit, a.getClientIP(r), strconv.FormatInt(slot, 10))

			var count int

			err := a.cache.Get(r.Context(), cacheKey, &count)
			if err != nil && !errors.Is(err, cache.Nil) {
				next.ServeHTTP(w, r)

				return
			}

			count++

			w.Header().Set(constant.RequestHeaderRateLimit, strconv.Itoa(limiter.MaxRequests))
			w.Header().Set(constant.RequestHeaderRateLimitRemaining, strconv.Itoa(max(0, limiter.MaxRequests-count)))
			w.Header().Set(constant.RequestHeaderRateLimitWindow, strconv.Itoa(window))

			if count > limiter.MaxRequests {
				w.Header().Set(constant.RequestHeaderRetryAfter, strconv.Itoa(resetIn))
				response.WithRequestLimitExceeded(w)

				return
			}

			if err = a.cache.Save(r.Context(), cacheKey, count, resetIn); err != nil {
				log.Warn().Err(err).Str("cacheKey", cacheKey).Msg("failed to record request count")
			}

			next.ServeHTTP(w, r)
		})
	}
}

func (a *appMiddleware) getClientIP(r *http.Request) string {
	if xff := r.Header.Get(constant.RequestHeaderForwardedFor); xff != "" {
		if commaIdx := strings.Index(xff, ","); commaIdx > 0 {
			return strings.TrimSpace(xff[:commaIdx])
		}

		return strings.TrimSpace(xff)
	}

	if xri := r.Header.Get(constant.RequestHeaderRealIP); xri != "" {
		return strings.TrimSpace(xri)
	}

	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}

	return r.RemoteAddr
}
