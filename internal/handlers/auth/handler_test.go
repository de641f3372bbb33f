package auth_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	otelMocks "resort/infras/otel/mocks"
	"resort/internal/domains/auth/model/dto"
	"resort/internal/domains/auth/service/mocks"
	"resort/internal/handlers/auth"
	"resort/shared/constant"
)

func newRouter(t *testing.T) (chi.Router, *mocks.MockAuth) {
	t.Helper()

	svc := mocks.NewMockAuth(gomock.NewController(t))
	handler := auth.New(svc, otelMocks.NewOtel())

	router := chi.NewRouter()
	handler.Router(router)

	return router, svc
}

func TestHandler_Register(t *testing.T) {
	router, svc := newRouter(t)

	svc.EXPECT().Register(gomock.Any(), dto.RegisterRequest{Email: "asha@example.com", Password: "password123"}).Return(nil)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/auth/register",
		strings.NewReader(`{"email":"asha@example.com","password":"password123"}`)))

	assert.Equal(t, http.StatusCreated, rec.Code)
}

func TestHandler_RegisterShortPassword(t *testing.T) {
	router, _ := newRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/auth/register",
		strings.NewReader(`{"email":"asha@example.com","password":"short"}`)))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandler_Me(t *testing.T) {
	router, svc := newRouter(t)

	svc.EXPECT().Me(gomock.Any(), "user-1").Return(dto.UserResponse{ID: "user-1", Role: constant.RoleAdmin}, nil)

	req := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
	req = req.WithContext(context.WithValue(req.Context(), constant.ContextKeyUserID, "user-1"))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"role":"admin"`)
}

func TestHandler_MeWithoutUser(t *testing.T) {
	router, _ := newRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/auth/me", nil))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
