package http

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	authDomain "github.com/allisson/votesafe/internal/auth/domain"
	"github.com/allisson/votesafe/internal/auth/http/dto"
	authService "github.com/allisson/votesafe/internal/auth/service"
	authUseCase "github.com/allisson/votesafe/internal/auth/usecase"
	apperrors "github.com/allisson/votesafe/internal/errors"
	"github.com/allisson/votesafe/internal/httputil"
	customValidation "github.com/allisson/votesafe/internal/validation"
)

const (
	defaultQRSize = 256
	minQRSize     = 128
	maxQRSize     = 1024
)

// AuthHandler handles HTTP requests for the three-step voter login:
// password, QR challenge, then one-time password.
type AuthHandler struct {
	authUseCase    authUseCase.AuthUseCase
	userUseCase    authUseCase.UserUseCase
	sessionUseCase authUseCase.SessionUseCase
	qrService      authService.QRChallengeService
	logger         *slog.Logger
}

// NewAuthHandler creates a new auth handler with required dependencies.
func NewAuthHandler(
	authUseCase authUseCase.AuthUseCase,
	userUseCase authUseCase.UserUseCase,
	sessionUseCase authUseCase.SessionUseCase,
	qrService authService.QRChallengeService,
	logger *slog.Logger,
) *AuthHandler {
	return &AuthHandler{
		authUseCase:    authUseCase,
		userUseCase:    userUseCase,
		sessionUseCase: sessionUseCase,
		qrService:      qrService,
		logger:         logger,
	}
}

// RegisterHandler registers a voter.
// POST /v1/auth/register
// Returns 201 Created with the user and the one-time provisioning URI.
func (h *AuthHandler) RegisterHandler(c *gin.Context) {
	var req dto.RegisterUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}
	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	output, err := h.userUseCase.RegisterUser(c.Request.Context(), &authDomain.RegisterUserInput{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusCreated, dto.MapRegisterUserOutputToResponse(output))
}

// LoginHandler checks the password and, on success, issues a QR challenge.
// POST /v1/auth/login
// Returns 200 OK with state first_factor_complete and the challenge payload.
func (h *AuthHandler) LoginHandler(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}
	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	ctx := c.Request.Context()
	result, err := h.authUseCase.ValidateCredentials(ctx, req.Identifier, req.Password)
	if !h.proceed(c, result, err) {
		return
	}

	result, err = h.authUseCase.IssueChallenge(ctx, result.UserID)
	if !h.proceed(c, result, err) {
		return
	}

	c.JSON(http.StatusOK, dto.MapAuthResultToResponse(result))
}

// QRImageHandler renders a challenge payload as a PNG QR code.
// GET /v1/auth/qr.png?challenge=...&size=256
// Rendering is stateless; the payload is checked only when it is returned to QRVerifyHandler.
func (h *AuthHandler) QRImageHandler(c *gin.Context) {
	challenge := c.Query("challenge")
	if challenge == "" {
		httputil.HandleBadRequestGin(c, fmt.Errorf("challenge is required"), h.logger)
		return
	}

	size := defaultQRSize
	if raw := c.Query("size"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < minQRSize || parsed > maxQRSize {
			httputil.HandleBadRequestGin(c,
				fmt.Errorf("invalid size: must be between %d and %d", minQRSize, maxQRSize),
				h.logger)
			return
		}
		size = parsed
	}

	png, err := h.qrService.RenderPNG(challenge, size)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.Header("Cache-Control", "no-store")
	c.Data(http.StatusOK, "image/png", png)
}

// QRVerifyHandler checks a scanned challenge and issues a one-time password.
// POST /v1/auth/qr
func (h *AuthHandler) QRVerifyHandler(c *gin.Context) {
	var req dto.QRVerifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}
	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	result, err := h.authUseCase.AuthenticateWithQR(c.Request.Context(), uuid.MustParse(req.UserID), req.Challenge)
	if !h.proceed(c, result, err) {
		return
	}

	c.JSON(http.StatusOK, dto.MapAuthResultToResponse(result))
}

// OTPVerifyHandler completes the login with the one-time password.
// POST /v1/auth/otp
// Returns 200 OK with the session id and its expiry.
func (h *AuthHandler) OTPVerifyHandler(c *gin.Context) {
	var req dto.OTPVerifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}
	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	result, err := h.authUseCase.AuthenticateWithOTP(c.Request.Context(), uuid.MustParse(req.UserID), req.Code)
	if !h.proceed(c, result, err) {
		return
	}

	c.JSON(http.StatusOK, dto.MapAuthResultToResponse(result))
}

// LogoutHandler invalidates the caller's session.
// POST /v1/auth/logout - Requires SessionMiddleware.
func (h *AuthHandler) LogoutHandler(c *gin.Context) {
	session, ok := GetSession(c.Request.Context())
	if !ok {
		httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, h.logger)
		return
	}

	if err := h.authUseCase.Logout(c.Request.Context(), session.ID); err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.Status(http.StatusNoContent)
}

// SessionHandler describes the caller's session.
// GET /v1/auth/session - Requires SessionMiddleware.
func (h *AuthHandler) SessionHandler(c *gin.Context) {
	session, ok := GetSession(c.Request.Context())
	if !ok {
		httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapSessionToResponse(session))
}

// RefreshSessionHandler pushes the session expiry to now plus the session timeout.
// POST /v1/auth/session/refresh - Requires SessionMiddleware.
func (h *AuthHandler) RefreshSessionHandler(c *gin.Context) {
	session, ok := GetSession(c.Request.Context())
	if !ok {
		httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, h.logger)
		return
	}

	extended, err := h.sessionUseCase.Extend(c.Request.Context(), session.ID)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapSessionToResponse(extended))
}

// proceed writes the response for a fault or a declined step and reports
// whether the handler should continue. Declines expose only the generic message.
func (h *AuthHandler) proceed(c *gin.Context, result *authDomain.AuthResult, err error) bool {
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return false
	}
	if !result.IsDeclined() {
		return true
	}

	if result.Reason == authDomain.ReasonRateLimitExceeded {
		c.JSON(http.StatusTooManyRequests, gin.H{
			"error":   "rate_limit_exceeded",
			"message": result.Message(),
		})
		return false
	}

	c.JSON(http.StatusUnauthorized, gin.H{
		"error":   "authentication_failed",
		"message": result.Message(),
	})
	return false
}
