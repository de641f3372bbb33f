package middleware

import (
	"bytes"
	"errors"
	"net/http"
	"resort/shared"
	"resort/shared/cache"
	"resort/shared/constant"
	"resort/transport/http/response"

	"github.com/rs/zerolog/log"
)

const (
	cacheKeyIdempotency = "idempotency"

	idempotencyStateProcessing = "processing"
	idempotencyStateDone       = "done"

	idempotencyLockSeconds  = 30
	idempotencyDefaultTTL   = 24 * 60 * 60
	idempotencyHeaderTrue   = "true"
	idempotencyMaxKeyLength = 255
)

type idempotencyRecord struct {
	State       string `json:"state"`
	Status      int    `json:"status,omitempty"`
	ContentType string `json:"content_type,omitempty"`
	Body        []byte `json:"body,omitempty"`
}

type recorder struct {
	http.ResponseWriter
	status int
	body   bytes.Buffer
}

func (r *recorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func (r *recorder) Write(data []byte) (int, error) {
	if r.status == 0 {
		r.status = http.StatusOK
	}

	r.body.Write(data)

	return r.ResponseWriter.Write(data) //nolint:wrapcheck
}

// Idempotency replays the stored response of a write request repeated with the same
// Idempotency-Key. A repeat that arrives while the first request runs gets 409.
// Server errors release the key so the client may retry.
func (a *appMiddleware) Idempotency(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := r.Header.Get(constant.RequestHeaderIdempotencyKey)

		if !a.config.App.Idempotency.Enable || key == "" || r.Method == http.MethodGet || len(key) > idempotencyMaxKeyLength {
			next.ServeHTTP(w, r)

			return
		}

		ctx := r.Context()
		cacheKey := shared.BuildCacheKey(cacheKeyIdempotency, r.Method, r.URL.Path, key)

		reserved, err := a.cache.Reserve(ctx, cacheKey, idempotencyRecord{State: idempotencyStateProcessing}, idempotencyLockSeconds)
		if err != nil {
			log.Warn().Err(err).Str("cacheKey", cacheKey).Msg("idempotency store unavailable")
			next.ServeHTTP(w, r)

			return
		}

		if !reserved {
			a.replay(w, r, cacheKey)

			return
		}

		rec := &recorder{ResponseWriter: w}

		next.ServeHTTP(rec, r)

		if rec.status >= http.StatusInternalServerError {
			if err = a.cache.Delete(ctx, cacheKey); err != nil {
				log.Error().Err(err).Str("cacheKey", cacheKey).Msg("failed to release idempotency key")
			}

			return
		}

		record := idempotencyRecord{
			State:       idempotencyStateDone,
			Status:      rec.status,
			ContentType: rec.Header().Get(constant.RequestHeaderContentType),
			Body:        rec.body.Bytes(),
		}

		if err = a.cache.Save(ctx, cacheKey, record, a.idempotencyTTL()); err != nil {
			log.Error().Err(err).Str("cacheKey", cacheKey).Msg("failed to store idempotent response")
		}
	})
}

func (a *appMiddleware) replay(w http.ResponseWriter, r *http.Request, cacheKey string) {
	var record idempotencyRecord

	err := a.cache.Get(r.Context(), cacheKey, &record)
	if err != nil && !errors.Is(err, cache.Nil) {
		log.Warn().Err(err).Str("cacheKey", cacheKey).Msg("failed to read idempotent response")
	}

	if err != nil || record.State != idempotencyStateDone {
		response.WithRequestInProgress(w)

		return
	}

	w.Header().Set(constant.RequestHeaderIdempotencyHit, idempotencyHeaderTrue)

	if record.ContentType != "" {
		w.Header().Set(constant.RequestHeaderContentType, record.ContentType)
	}

	w.WriteHeader(record.Status)

	if _, err = w.Write(record.Body); err != nil {
		log.Error().Err(err).Msg("failed to replay idempotent response")
	}
}

func (a *appMiddleware) idempotencyTTL() int {
	if a.config.App.Idempotency.TTLSeconds > 0 {
		return a.config.App.Idempotency.TTLSeconds
	}

	return idempotencyDefaultTTL
}
