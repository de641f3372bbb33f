package middleware

import (
	"context"
	"crypto/subtle"
	"errors"
	"net/http"
	"resort/config"
	"resort/infras/jwt"
	"resort/infras/otel"
	"resort/permissions"
	"resort/shared/constant"
	"resort/shared/failure"
	"resort/transport/http/response"
	"slices"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

type SkipAuthKey string

const skipAuth = SkipAuthKey("skip")

type Auth interface {
	// Auth requires a valid access token unless the route is public or an internal
	// caller was already admitted by APIKey. On public routes a valid token is still
	// attached so a signed-in guest's bookings carry their user id.
	Auth(http.Handler) http.Handler
	APIKey(http.Handler) http.Handler
}

type Role interface {
	// RBAC admits the caller when its role is listed for the route in permissions.json.
	RBAC(http.Handler) http.Handler
}

type AuthRole interface {
	Auth
	Role
}

type authRoleImpl struct {
	jwtService jwt.JWT
	otel       otel.Otel
	permission *permissions.PermissionData
	cfg        *config.Config
}

func NewAuthRoleMiddleware(jwtService jwt.JWT, otel otel.Otel, permissions *permissions.PermissionData, cfg *config.Config) AuthRole {
	return &authRoleImpl{
		jwtService: jwtService,
		otel:       otel,
		permission: permissions,
		cfg:        cfg,
	}
}

func internalCaller(ctx context.Context) bool {
	skip, _ := ctx.Value(skipAuth).(bool)

	return skip
}

func (m *authRoleImpl) public(request *http.Request) bool {
	return m.permission != nil && m.permission.FindPermissions(routePattern(request), request.Method).Skip
}

func (m *authRoleImpl) Auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		ctx, scope := m.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, "auth.middleware")
		defer scope.End()

		request = request.WithContext(ctx)

		if internalCaller(ctx) {
			next.ServeHTTP(writer, request)

			return
		}

		public := m.public(request)

		scope.SetAttributes(map[string]any{
			"middleware.type": "auth",
			"http.route":      routePattern(request),
			"http.method":     request.Method,
			"route.public":    public,
		})

		claims, err := m.authenticate(request)

		switch {
		case err == nil:
			next.ServeHTTP(writer, request.WithContext(withClaims(ctx, claims)))
		case public:
			next.ServeHTTP(writer, request)
		default:
			scope.TraceError(err)
			response.WithError(writer, err)
		}
	})
}

func (m *authRoleImpl) authenticate(request *http.Request) (*jwt.Claims, error) {
	header := request.Header.Get(constant.RequestHeaderAuthorization)
	if header == "" {
		return nil, failure.Unauthorized("Missing authorization header")
	}

	token, err := jwt.ExtractTokenFromHeader(header)
	if err != nil {
		return nil, failure.Unauthorized("Invalid authorization header format")
	}

	claims, err := m.jwtService.ValidateToken(token, jwt.AccessToken)

	switch {
	case err == nil:
	case errors.Is(err, jwt.ErrExpiredToken):
		return nil, failure.Unauthorized("Token has expired")
	case errors.Is(err, jwt.ErrInvalidClaim):
		return nil, failure.Unauthorized("Invalid token claims")
	default:
		return nil, failure.Unauthorized("Invalid token")
	}

	if claims.UserID == "" || claims.Email == "" {
		log.Warn().Str("user_id", claims.UserID).Msg("access token without user id or email")

		return nil, failure.Unauthorized("Invalid token claims")
	}

	return claims, nil
}

func withClaims(ctx context.Context, claims *jwt.Claims) context.Context {
	ctx = context.WithValue(ctx, constant.ContextKeyUserID, claims.UserID)
	ctx = context.WithValue(ctx, constant.ContextKeyUserEmail, claims.Email)
	ctx = context.WithValue(ctx, constant.ContextKeyUserRole, claims.Role)

	return context.WithValue(ctx, constant.ContextKeyTokenID, claims.TokenID)
}

func (m *authRoleImpl) RBAC(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		ctx, scope := m.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, "rbac.middleware")
		defer scope.End()

		request = request.WithContext(ctx)

		if internalCaller(ctx) {
			next.ServeHTTP(writer, request)

			return
		}

		if m.permission == nil {
			response.WithError(writer, failure.ForbiddenError)

			return
		}

		permission := m.permission.FindPermissions(routePattern(request), request.Method)
		if m.permission.Skip || permission.Skip || len(permission.Permissions) == 0 {
			next.ServeHTTP(writer, request)

			return
		}

		role, _ := ctx.Value(constant.ContextKeyUserRole).(string)
		if !slices.Contains(permission.Permissions, role) {
			scope.SetAttributes(map[string]any{
				"user_role":     role,
				"allowed_roles": permission.Permissions,
				"reason":        "role_not_allowed",
			})
			scope.TraceError(failure.ForbiddenError)
			response.WithError(writer, failure.ForbiddenError)

			return
		}

		next.ServeHTTP(writer, request)
	})
}

// APIKey admits internal callers, such as the front-desk tooling, that present X-API-Key.
// A wrong key is rejected rather than treated as an anonymous request.
func (m *authRoleImpl) APIKey(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		ctx, scope := m.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, "api_key.middleware")
		defer scope.End()

		apiKey := request.Header.Get(constant.RequestHeaderAPIKey)
		if apiKey == "" {
			scope.SetAttribute("http.source", "client")
			next.ServeHTTP(writer, request.WithContext(ctx))

			return
		}

		scope.SetAttribute("http.source", "internal")

		expected := m.cfg.App.APIKey
		if expected == "" || subtle.ConstantTimeCompare([]byte(apiKey), []byte(expected)) != 1 {
			scope.TraceError(failure.ForbiddenError)
			response.WithError(writer, failure.ForbiddenError)

			return
		}

		next.ServeHTTP(writer, request.WithContext(context.WithValue(ctx, skipAuth, true)))
	})
}

// routePattern resolves the registered chi pattern, such as /v1/bookings/{id}, for the request.
func routePattern(request *http.Request) string {
	rctx := chi.RouteContext(request.Context())
	if rctx == nil || rctx.Routes == nil {
		return request.URL.Path
	}

	if pattern := rctx.Routes.Find(chi.NewRouteContext(), request.Method, request.URL.Path); pattern != "" {
		return pattern
	}

	return request.URL.Path
}
