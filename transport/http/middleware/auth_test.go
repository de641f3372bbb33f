package middleware_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"slices"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"resort/config"
	"resort/infras/jwt"
	jwtMocks "resort/infras/jwt/mocks"
	"resort/infras/otel"
	otelMocks "resort/infras/otel/mocks"
	"resort/permissions"
	"resort/shared/constant"
	"resort/transport/http/middleware"
)

func newProtectedRouter(t *testing.T) (chi.Router, *jwtMocks.MockJWT) {
	t.Helper()

	cfg := &config.Config{}
	cfg.App.APIKey = "internal-key"

	jwtService := jwtMocks.NewMockJWT(gomock.NewController(t))
	authRole := middleware.NewAuthRoleMiddleware(jwtService, otelMocks.NewOtel(), permissions.Get(), cfg)

	ok := func(w http.ResponseWriter, r *http.Request) {
		role, _ := r.Context().Value(constant.ContextKeyUserRole).(string)
		w.Header().Set("X-Role", role)
		w.WriteHeader(http.StatusOK)
	}

	router := chi.NewRouter()
	router.Group(func(r chi.Router) {
		r.Use(authRole.APIKey, authRole.Auth, authRole.RBAC)

		r.Route("/v1/bookings", func(r chi.Router) {
			r.Get("/availability/check", ok)
			r.Get("/", ok)
			r.Get("/{id}", ok)
		})
		r.Get("/v1/auth/me", ok)
	})

	return router, jwtService
}

func serve(router http.Handler, target string, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	for name, value := range headers {
		req.Header.Set(name, value)
	}

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	return rec
}

func TestAuth_PublicEndpointSkipsToken(t *testing.T) {
	router, _ := newProtectedRouter(t)

	rec := serve(router, "/v1/bookings/availability/check?checkInDate=2025-06-01&packageDuration=7", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAuth_MissingToken(t *testing.T) {
	router, _ := newProtectedRouter(t)

	rec := serve(router, "/v1/bookings", nil)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuth_ExpiredToken(t *testing.T) {
	router, jwtService := newProtectedRouter(t)

	jwtService.EXPECT().ValidateToken("expired", jwt.AccessToken).Return(nil, jwt.ErrExpiredToken)

	rec := serve(router, "/v1/bookings", map[string]string{"Authorization": "Bearer expired"})

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "Token has expired")
}

func TestRBAC_AdminOnlyEndpoint(t *testing.T) {
	tests := []struct {
		name     string
		role     string
		target   string
		wantCode int
	}{
		{name: "admin lists bookings", role: constant.RoleAdmin, target: "/v1/bookings", wantCode: http.StatusOK},
		{name: "guest cannot list bookings", role: constant.RoleGuest, target: "/v1/bookings", wantCode: http.StatusForbidden},
		{name: "guest cannot read a booking", role: constant.RoleGuest, target: "/v1/bookings/b-1", wantCode: http.StatusForbidden},
		{name: "guest reads own account", role: constant.RoleGuest, target: "/v1/auth/me", wantCode: http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router, jwtService := newProtectedRouter(t)

			jwtService.EXPECT().ValidateToken("token", jwt.AccessToken).
				Return(&jwt.Claims{UserID: "user-1", Email: "user@example.com", Role: tt.role}, nil)

			rec := serve(router, tt.target, map[string]string{"Authorization": "Bearer token"})

			assert.Equal(t, tt.wantCode, rec.Code)
		})
	}
}

func TestAPIKey(t *testing.T) {
	router, _ := newProtectedRouter(t)

	rec := serve(router, "/v1/bookings", map[string]string{"X-API-Key": "internal-key"})
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = serve(router, "/v1/bookings", map[string]string{"X-API-Key": "wrong"})
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestAuth_PublicEndpointAttachesValidToken(t *testing.T) {
	router, jwtService := newProtectedRouter(t)

	jwtService.EXPECT().ValidateToken("token", jwt.AccessToken).
		Return(&jwt.Claims{UserID: "guest-1", Email: "asha@example.com", Role: constant.RoleGuest}, nil)

	rec := serve(router, "/v1/bookings/availability/check", map[string]string{"Authorization": "Bearer token"})

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, constant.RoleGuest, rec.Header().Get("X-Role"))
}

func TestAuth_PublicEndpointIgnoresBadToken(t *testing.T) {
	router, jwtService := newProtectedRouter(t)

	jwtService.EXPECT().ValidateToken("stale", jwt.AccessToken).Return(nil, jwt.ErrInvalidToken)

	rec := serve(router, "/v1/bookings/availability/check", map[string]string{"Authorization": "Bearer stale"})

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Header().Get("X-Role"))
}

func TestAPIKey_EmptyConfiguredKeyNeverMatches(t *testing.T) {
	authRole := middleware.NewAuthRoleMiddleware(jwtMocks.NewMockJWT(gomock.NewController(t)), otelMocks.NewOtel(), permissions.Get(), &config.Config{})

	handler := authRole.APIKey(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	rec := serve(handler, "/v1/bookings", map[string]string{"X-API-Key": "anything"})

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

type spansKey struct{}

// spanChain records each span name in the context it returns, so a handler can
// see which middleware spans it runs under.
type spanChain struct{}

func (spanChain) NewScope(ctx context.Context, _, spanName string) (context.Context, otel.Scope) {
	spans, _ := ctx.Value(spansKey{}).([]string)

	return context.WithValue(ctx, spansKey{}, append(slices.Clone(spans), spanName)), otelMocks.NewScope()
}

func TestMiddleware_PropagatesSpanContext(t *testing.T) {
	cfg := &config.Config{}
	cfg.App.APIKey = "internal-key"

	authRole := middleware.NewAuthRoleMiddleware(jwtMocks.NewMockJWT(gomock.NewController(t)), spanChain{}, permissions.Get(), cfg)

	router := chi.NewRouter()
	router.Group(func(r chi.Router) {
		r.Use(authRole.APIKey, authRole.Auth, authRole.RBAC)

		r.Route("/v1/bookings", func(r chi.Router) {
			handler := func(w http.ResponseWriter, r *http.Request) {
				spans, _ := r.Context().Value(spansKey{}).([]string)
				w.Header().Set("X-Spans", strings.Join(spans, ","))
				w.WriteHeader(http.StatusOK)
			}

			r.Get("/availability/check", handler)
			r.Get("/", handler)
		})
	})

	tests := []struct {
		name    string
		target  string
		headers map[string]string
	}{
		{name: "client request", target: "/v1/bookings/availability/check"},
		{name: "internal request", target: "/v1/bookings", headers: map[string]string{"X-API-Key": "internal-key"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(router, tt.target, tt.headers)

			assert.Equal(t, http.StatusOK, rec.Code)
			assert.Equal(t, "api_key.middleware,auth.middleware,rbac.middleware", rec.Header().Get("X-Spans"))
		})
	}
}
