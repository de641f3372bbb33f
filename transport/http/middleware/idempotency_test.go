package middleware_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"resort/config"
	otelMocks "resort/infras/otel/mocks"
	cacheMocks "resort/shared/cache/mocks"
	"resort/transport/http/middleware"
)

const commitKey = "idempotency:POST:/v1/bookings:key-1"

func newIdempotency(t *testing.T, enable bool) (http.Handler, *cacheMocks.MockRedisCache, *int) {
	t.Helper()

	cfg := &config.Config{}
	cfg.App.Idempotency.Enable = enable
	cfg.App.Idempotency.TTLSeconds = 600

	cache := cacheMocks.NewMockRedisCache(gomock.NewController(t))
	app := middleware.NewAppMiddleware(otelMocks.NewOtel(), cfg, cache)

	calls := 0
	handler := app.Idempotency(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls++

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"id":1}`))
	}))

	return handler, cache, &calls
}

func commitRequest(key string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/v1/bookings", nil)
	if key != "" {
		req.Header.Set("Idempotency-Key", key)
	}

	return req
}

func TestIdempotency_FirstRequestIsStored(t *testing.T) {
	handler, cache, calls := newIdempotency(t, true)

	cache.EXPECT().Reserve(gomock.Any(), commitKey, gomock.Any(), 30).Return(true, nil)
	cache.EXPECT().Save(gomock.Any(), commitKey, gomock.Any(), 600).
		DoAndReturn(func(_ context.Context, _ string, value any, _ int) error {
			raw, err := json.Marshal(value)
			assert.NoError(t, err)
			assert.Contains(t, string(raw), `"state":"done"`)
			assert.Contains(t, string(raw), `"status":201`)

			return nil
		})

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, commitRequest("key-1"))

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, 1, *calls)
}

func TestIdempotency_RepeatReplaysStoredResponse(t *testing.T) {
	handler, cache, calls := newIdempotency(t, true)

	cache.EXPECT().Reserve(gomock.Any(), commitKey, gomock.Any(), 30).Return(false, nil)
	cache.EXPECT().Get(gomock.Any(), commitKey, gomock.Any()).
		DoAndReturn(func(_ context.Context, _ string, value any) error {
			// body is base64 of {"id":1}
			return json.Unmarshal([]byte(`{"state":"done","status":201,"content_type":"application/json","body":"eyJpZCI6MX0="}`), value)
		})

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, commitRequest("key-1"))

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "true", rec.Header().Get("X-Idempotency-Hit"))
	assert.JSONEq(t, `{"id":1}`, rec.Body.String())
	assert.Zero(t, *calls)
}

func TestIdempotency_RepeatWhileProcessing(t *testing.T) {
	handler, cache, calls := newIdempotency(t, true)

	cache.EXPECT().Reserve(gomock.Any(), commitKey, gomock.Any(), 30).Return(false, nil)
	cache.EXPECT().Get(gomock.Any(), commitKey, gomock.Any()).
		DoAndReturn(func(_ context.Context, _ string, value any) error {
			return json.Unmarshal([]byte(`{"state":"processing"}`), value)
		})

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, commitRequest("key-1"))

	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Zero(t, *calls)
}

func TestIdempotency_ServerErrorReleasesKey(t *testing.T) {
	cfg := &config.Config{}
	cfg.App.Idempotency.Enable = true

	cache := cacheMocks.NewMockRedisCache(gomock.NewController(t))
	app := middleware.NewAppMiddleware(otelMocks.NewOtel(), cfg, cache)

	handler := app.Idempotency(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))

	cache.EXPECT().Reserve(gomock.Any(), commitKey, gomock.Any(), 30).Return(true, nil)
	cache.EXPECT().Delete(gomock.Any(), commitKey).Return(nil)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, commitRequest("key-1"))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestIdempotency_Bypass(t *testing.T) {
	t.Run("no key", func(t *testing.T) {
		handler, _, calls := newIdempotency(t, true)

		handler.ServeHTTP(httptest.NewRecorder(), commitRequest(""))
		assert.Equal(t, 1, *calls)
	})

	t.Run("disabled", func(t *testing.T) {
		handler, _, calls := newIdempotency(t, false)

		handler.ServeHTTP(httptest.NewRecorder(), commitRequest("key-1"))
		assert.Equal(t, 1, *calls)
	})

	t.Run("store unavailable", func(t *testing.T) {
		handler, cache, calls := newIdempotency(t, true)

		cache.EXPECT().Reserve(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(false, errors.New("dial tcp: refused"))

		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, commitRequest("key-1"))

		assert.Equal(t, http.StatusCreated, rec.Code)
		assert.Equal(t, 1, *calls)
	})
}
