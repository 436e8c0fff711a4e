package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"p2p-lending.backend/internal/domain/entities"
	"p2p-lending.backend/internal/interfaces/http/response"
	"p2p-lending.backend/pkg/jwt"
)

type authService interface {
	Register(ctx context.Context, input *entities.RegisterInput) (*entities.User, error)
	VerifyEmail(ctx context.Context, input *entities.VerifyEmailInput) error
	ResendOTP(ctx context.Context, email string) error
	Login(ctx context.Context, input *entities.LoginInput) (*entities.LoginResult, error)
	VerifyLoginOTP(ctx context.Context, input *entities.VerifyLoginOTPInput) (*entities.LoginResult, error)
	RefreshToken(ctx context.Context, refreshToken string) (*jwt.TokenPair, error)
	Logout(ctx context.Context, userID uuid.UUID, input *entities.LogoutInput) error
	GetMe(ctx context.Context, userID uuid.UUID) (*entities.User, error)
	UpdateMe(ctx context.Context, userID uuid.UUID, input *entities.UpdateProfileInput) (*entities.User, error)
	ChangePassword(ctx context.Context, userID uuid.UUID, input *entities.ChangePasswordInput) error
	ForgotPassword(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, input *entities.ResetPasswordInput) error
	ListSessions(ctx context.Context, userID uuid.UUID) ([]*entities.Session, error)
	UntrustDevice(ctx context.Context, userID uuid.UUID, deviceID string) error
}

// AuthHandler handles authentication endpoints
type AuthHandler struct {
	authUsecase authService
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authUsecase authService) *AuthHandler {
	return &AuthHandler{authUsecase: authUsecase}
}

// Register handles user registration
// POST /api/v1/auth/register
func (h *AuthHandler) Register(c *gin.Context) {
	var input entities.RegisterInput
	if !bindJSON(c, &input) {
		return
	}

	user, err := h.authUsecase.Register(c.Request.Context(), &input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Message(c, http.StatusCreated, "REGISTER_SUCCESS", user)
}

// VerifyEmail confirms a registration code
// POST /api/v1/auth/verify-email
func (h *AuthHandler) VerifyEmail(c *gin.Context) {
	var input entities.VerifyEmailInput
	if !bindJSON(c, &input) {
		return
	}

	if err := h.authUsecase.VerifyEmail(c.Request.Context(), &input); err != nil {
		response.Error(c, err)
		return
	}

	response.Message(c, http.StatusOK, "VERIFY_EMAIL_SUCCESS", nil)
}

// ResendOTP issues a fresh registration code
// POST /api/v1/auth/resend-otp
func (h *AuthHandler) ResendOTP(c *gin.Context) {
	var input entities.EmailInput
	if !bindJSON(c, &input) {
		return
	}

	if err := h.authUsecase.ResendOTP(c.Request.Context(), input.Email); err != nil {
		response.Error(c, err)
		return
	}

	response.Message(c, http.StatusOK, "OTP_SENT", nil)
}

// Login handles user login. Untrusted devices get an OTP challenge instead of tokens.
// POST /api/v1/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var input entities.LoginInput
	if !bindJSON(c, &input) {
		return
	}
	input.IPAddress = c.ClientIP()
	input.UserAgent = c.Request.UserAgent()

	result, err := h.authUsecase.Login(c.Request.Context(), &input)
	if err != nil {
		response.Error(c, err)
		return
	}

	if result.RequireOTP {
		response.Message(c, http.StatusOK, "LOGIN_OTP_REQUIRED", result)
		return
	}
	response.Message(c, http.StatusOK, "LOGIN_SUCCESS", result)
}

// VerifyLoginOTP completes a challenged login
// POST /api/v1/auth/verify-login-otp
func (h *AuthHandler) VerifyLoginOTP(c *gin.Context) {
	var input entities.VerifyLoginOTPInput
	if !bindJSON(c, &input) {
		return
	}
	input.IPAddress = c.ClientIP()
	input.UserAgent = c.Request.UserAgent()

	result, err := h.authUsecase.VerifyLoginOTP(c.Request.Context(), &input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Message(c, http.StatusOK, "LOGIN_SUCCESS", result)
}

// RefreshToken exchanges a refresh token for a new pair
// POST /api/v1/auth/refresh-token
func (h *AuthHandler) RefreshToken(c *gin.Context) {
	var input struct {
		RefreshToken string `json:"refreshToken" binding:"required"`
	}
	if !bindJSON(c, &input) {
		return
	}

	pair, err := h.authUsecase.RefreshToken(c.Request.Context(), input.RefreshToken)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Message(c, http.StatusOK, "SUCCESS", pair)
}

// ForgotPassword mails a reset code
// POST /api/v1/auth/forgot-password
func (h *AuthHandler) ForgotPassword(c *gin.Context) {
	var input entities.EmailInput
	if !bindJSON(c, &input) {
		return
	}

	if err := h.authUsecase.ForgotPassword(c.Request.Context(), input.Email); err != nil {
		response.Error(c, err)
		return
	}

	response.Message(c, http.StatusOK, "OTP_SENT", nil)
}

// ResetPassword sets a new password with a reset code
// POST /api/v1/auth/reset-password
func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var input entities.ResetPasswordInput
	if !bindJSON(c, &input) {
		return
	}

	if err := h.authUsecase.ResetPassword(c.Request.Context(), &input); err != nil {
		response.Error(c, err)
		return
	}

	response.Message(c, http.StatusOK, "PASSWORD_RESET", nil)
}

// GetMe returns the caller's profile
// GET /api/v1/auth/me
func (h *AuthHandler) GetMe(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	user, err := h.authUsecase.GetMe(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Message(c, http.StatusOK, "SUCCESS", user)
}

// UpdateMe edits the caller's profile
// PUT /api/v1/auth/me
func (h *AuthHandler) UpdateMe(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	var input entities.UpdateProfileInput
	if !bindJSON(c, &input) {
		return
	}

	user, err := h.authUsecase.UpdateMe(c.Request.Context(), userID, &input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Message(c, http.StatusOK, "UPDATE_SUCCESS", user)
}

// ChangePassword handles password change
// POST /api/v1/auth/change-password
func (h *AuthHandler) ChangePassword(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	var input entities.ChangePasswordInput
	if !bindJSON(c, &input) {
		return
	}

	if err := h.authUsecase.ChangePassword(c.Request.Context(), userID, &input); err != nil {
		response.Error(c, err)
		return
	}

	response.Message(c, http.StatusOK, "PASSWORD_CHANGED", nil)
}

// Logout ends one device session or all of them. The body is optional.
// POST /api/v1/auth/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	var input entities.LogoutInput
	if c.Request.ContentLength > 0 && !bindJSON(c, &input) {
		return
	}

	if err := h.authUsecase.Logout(c.Request.Context(), userID, &input); err != nil {
		response.Error(c, err)
		return
	}

	response.Message(c, http.StatusOK, "LOGOUT_SUCCESS", nil)
}

// ListSessions returns the caller's active device sessions
// GET /api/v1/auth/sessions
func (h *AuthHandler) ListSessions(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	sessions, err := h.authUsecase.ListSessions(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}
	if sessions == nil {
		sessions = []*entities.Session{}
	}

	response.Message(c, http.StatusOK, "SUCCESS", sessions)
}

// UntrustDevice revokes trust for one device
// DELETE /api/v1/auth/sessions/:deviceId/trust
func (h *AuthHandler) UntrustDevice(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	if err := h.authUsecase.UntrustDevice(c.Request.Context(), userID, c.Param("deviceId")); err != nil {
		response.Error(c, err)
		return
	}

	response.Message(c, http.StatusOK, "DEVICE_UNTRUSTED", nil)
}
