package auth

import (
	"context"
	"net/http"
	"resort/infras/otel"
	"resort/internal/domains/auth/model/dto"
	"resort/internal/domains/auth/service"
	"resort/shared/constant"
	"resort/shared/failure"
	"resort/shared/validator"
	"resort/transport/http/response"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

type Handler struct {
	service service.Auth
	otel    otel.Otel
}

func New(service service.Auth, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(r chi.Router) {
	r.Route("/auth", func(auth chi.Router) {
		auth.Post("/register", handler.Register)
		auth.Post("/login", handler.Login)
		auth.Post("/refresh-token", handler.RefreshToken)
		auth.Get("/me", handler.Me)
		auth.Put("/password", handler.ChangePassword)
	})
}

// Register handles user registration
// @Summary Register a new user
// @Description Register a new user with the provided details.
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body dto.RegisterRequest true "Register Request"
// @Success 201 {object} response.Message "User registered successfully"
// @Failure 400 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/auth/register [post]
func (handler *Handler) Register(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".Register")
	defer scope.End()

	var req dto.RegisterRequest
	if err := validator.Validate(r.Body, &req); err != nil {
		abort(w, scope, err, "failed to validate request body")

		return
	}

	if err := handler.service.Register(ctx, req); err != nil {
		abort(w, scope, err, "failed to register user")

		return
	}

	scope.AddEvent("User registered successfully")

	response.WithMessage(w, http.StatusCreated, "User registered successfully")
}

// Login handles user login
// @Summary Login a user
// @Description Login a user with the provided credentials.
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body dto.LoginRequest true "Login Request"
// @Success 200 {object} dto.LoginResponse "User logged in successfully"
// @Failure 400 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/auth/login [post]
func (handler *Handler) Login(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".Login")
	defer scope.End()

	var req dto.LoginRequest
	if err := validator.Validate(r.Body, &req); err != nil {
		abort(w, scope, err, "failed to validate request body")

		return
	}

	res, err := handler.service.Login(ctx, req)
	if err != nil {
		abort(w, scope, err, "failed to login user")

		return
	}

	scope.AddEvent("User logged in successfully")

	response.WithJSON(w, http.StatusOK, res)
}

// RefreshToken handles token refresh
// @Summary Refresh user token
// @Description Refresh user token using the provided refresh token.
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body dto.RefreshTokenRequest true "Refresh Token Request"
// @Success 200 {object} dto.RefreshTokenResponse "Token refreshed successfully"
// @Failure 400 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/auth/refresh-token [post]
func (handler *Handler) RefreshToken(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".RefreshToken")
	defer scope.End()

	var req dto.RefreshTokenRequest
	if err := validator.Validate(r.Body, &req); err != nil {
		abort(w, scope, err, "failed to validate request body")

		return
	}

	res, err := handler.service.RefreshToken(ctx, req)
	if err != nil {
		abort(w, scope, err, "failed to refresh token")

		return
	}

	scope.AddEvent("Token refreshed successfully")

	response.WithJSON(w, http.StatusOK, res)
}

// Me returns the authenticated account
// @Summary Current account
// @Tags Auth
// @Produce json
// @Success 200 {object} response.Data[dto.UserResponse]
// @Failure 401 {object} response.Error
// @Router /v1/auth/me [get]
// @Security BearerAuth
func (handler *Handler) Me(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".Me")
	defer scope.End()

	userID, err := currentUser(ctx)
	if err != nil {
		response.WithError(w, err)

		return
	}

	res, err := handler.service.Me(ctx, userID)
	if err != nil {
		abort(w, scope, err, "failed to get current user")

		return
	}

	response.WithJSON(w, http.StatusOK, res)
}

// ChangePassword changes the password of the authenticated account
// @Summary Change password
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body dto.ChangePasswordRequest true "Change Password Request"
// @Success 200 {object} response.Message
// @Failure 400 {object} response.Error
// @Failure 401 {object} response.Error
// @Router /v1/auth/password [put]
// @Security BearerAuth
func (handler *Handler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".ChangePassword")
	defer scope.End()

	userID, err := currentUser(ctx)
	if err != nil {
		response.WithError(w, err)

		return
	}

	var req dto.ChangePasswordRequest
	if err = validator.Validate(r.Body, &req); err != nil {
		abort(w, scope, err, "failed to validate request body")

		return
	}

	if err = handler.service.ChangePassword(ctx, req, userID); err != nil {
		abort(w, scope, err, "failed to change password")

		return
	}

	scope.AddEvent("Password changed successfully")

	response.WithMessage(w, http.StatusOK, "Password changed successfully")
}

// abort records err on the span and answers with its failure status. Client errors are
// logged at warn level.
func abort(w http.ResponseWriter, scope otel.Scope, err error, msg string) {
	scope.TraceError(err)

	event := log.Warn()
	if failure.GetCode(err) >= http.StatusInternalServerError {
		event = log.Error()
	}

	event.Err(err).Msg(msg)

	response.WithError(w, err)
}

func currentUser(ctx context.Context) (string, error) {
	userID, _ := ctx.Value(constant.ContextKeyUserID).(string)
	if userID == "" {
		return "", failure.Unauthorized("Missing authenticated user")
	}

	return userID, nil
}
