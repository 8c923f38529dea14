package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/louiecodes/auth-service/internal/application"
	"github.com/louiecodes/auth-service/internal/interface/middleware"
	"github.com/louiecodes/auth-service/pkg/helpers"
	"github.com/louiecodes/auth-service/pkg/response"
	"github.com/louiecodes/auth-service/pkg/validation"
)

type AuthHandler struct {
	Svc     *application.AuthService
	Logger  *logrus.Logger
	Cookies *helpers.CookieManager
}

func NewAuthHandler(svc *application.AuthService, logger *logrus.Logger, cookieDomain string, cookieSecure bool) *AuthHandler {
	return &AuthHandler{Svc: svc, Logger: logger, Cookies: helpers.NewCookieManager(cookieDomain, cookieSecure)}
}

type credentialsRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,pwd"`
}

type changePasswordRequest struct {
	CurrentPassword string `json:"current_password" binding:"required"`
	NewPassword     string `json:"new_password" binding:"required,pwd"`
}

type forgotPasswordRequest struct {
	Email string `json:"email" binding:"required,email"`
}

type resetPasswordRequest struct {
	Token       string `json:"token" binding:"required"`
	NewPassword string `json:"new_password" binding:"required,pwd"`
}

func tokensBody(pair helpers.TokenPair) gin.H {
	return gin.H{
		"access_token":  pair.AccessToken,
		"refresh_token": pair.RefreshToken,
	}
}

func tokensMeta(pair helpers.TokenPair) map[string]any {
	return map[string]any{
		"access_expires_at":  pair.AccessExpiresAt,
		"refresh_expires_at": pair.RefreshExpiresAt,
	}
}

// serviceError maps the auth service error taxonomy to HTTP responses.
func (h *AuthHandler) serviceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, application.ErrCredentialsTaken):
		response.Error[any](c, http.StatusForbidden, "credentials taken", nil)
	case errors.Is(err, application.ErrCredentialsIncorrect):
		response.Error[any](c, http.StatusForbidden, "credentials incorrect", nil)
	case errors.Is(err, application.ErrAccessDenied):
		response.Error[any](c, http.StatusForbidden, "access denied", nil)
	case errors.Is(err, application.ErrUserNotFound):
		response.Error[any](c, http.StatusNotFound, "user not found", nil)
	case errors.Is(err, application.ErrWrongPassword), errors.Is(err, application.ErrInvalidResetToken):
		response.Error[any](c, http.StatusBadRequest, err.Error(), nil)
	default:
		h.Logger.WithError(err).Error("auth operation failed")
		response.Error[any](c, http.StatusInternalServerError, "internal error", nil)
	}
}

// Signup POST /api/auth/signup
func (h *AuthHandler) Signup(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	u, pair, err := h.Svc.Signup(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		h.serviceError(c, err)
		return
	}
	h.Cookies.SetPair(c, pair.AccessToken, pair.AccessExpiresAt, pair.RefreshToken, pair.RefreshExpiresAt)
	body := tokensBody(pair)
	body["user_id"] = u.ID
	response.Success(c, http.StatusCreated, body, "signed up", tokensMeta(pair))
}

// Signin POST /api/auth/signin
func (h *AuthHandler) Signin(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	pair, err := h.Svc.Signin(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		h.serviceError(c, err)
		return
	}
	h.Cookies.SetPair(c, pair.AccessToken, pair.AccessExpiresAt, pair.RefreshToken, pair.RefreshExpiresAt)
	response.Success(c, http.StatusOK, tokensBody(pair), "signed in", tokensMeta(pair))
}

// Logout POST /api/auth/logout (auth required)
func (h *AuthHandler) Logout(c *gin.Context) {
	p, ok := middleware.CurrentUser(c)
	if !ok {
		response.Error[any](c, http.StatusUnauthorized, "unauthorized", nil)
		return
	}
	ok, err := h.Svc.Logout(c.Request.Context(), p.UserID)
	if err != nil {
		h.serviceError(c, err)
		return
	}
	h.Cookies.Clear(c)
	response.Success(c, http.StatusOK, gin.H{"logged_out": ok}, "logged out", nil)
}

// Refresh POST /api/auth/refresh (refresh guard)
func (h *AuthHandler) Refresh(c *gin.Context) {
	userID, token, ok := middleware.RefreshContext(c)
	if !ok {
		response.Error[any](c, http.StatusUnauthorized, "missing refresh token", nil)
		return
	}
	pair, err := h.Svc.RefreshTokens(c.Request.Context(), userID, token)
	if err != nil {
		h.serviceError(c, err)
		return
	}
	h.Cookies.SetPair(c, pair.AccessToken, pair.AccessExpiresAt, pair.RefreshToken, pair.RefreshExpiresAt)
	response.Success(c, http.StatusOK, tokensBody(pair), "tokens refreshed", tokensMeta(pair))
}

// ChangePassword PATCH /api/auth/change-password (auth required)
func (h *AuthHandler) ChangePassword(c *gin.Context) {
	p, ok := middleware.CurrentUser(c)
	if !ok {
		response.Error[any](c, http.StatusUnauthorized, "unauthorized", nil)
		return
	}
	var req changePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	u, err := h.Svc.ChangePassword(c.Request.Context(), p.UserID, req.CurrentPassword, req.NewPassword)
	if err != nil {
		h.serviceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{
		"id":         u.ID,
		"email":      u.Email,
		"first_name": u.FirstName,
		"last_name":  u.LastName,
	}, "password changed", nil)
}

// ForgotPassword POST /api/auth/forgot-password
func (h *AuthHandler) ForgotPassword(c *gin.Context) {
	var req forgotPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	msg, err := h.Svc.ForgotPassword(c.Request.Context(), req.Email)
	if err != nil {
		h.serviceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"message": msg}, msg, nil)
}

// ResetPassword POST /api/auth/reset-password
func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var req resetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	if err := h.Svc.ResetPassword(c.Request.Context(), req.Token, req.NewPassword); err != nil {
		h.serviceError(c, err)
		return
	}
	response.Success[any](c, http.StatusOK, gin.H{"reset": true}, "password updated", nil)
}
