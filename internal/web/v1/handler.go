package v1

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/tdnguyen/profile-service/internal/core/domain"
	logicv1 "github.com/tdnguyen/profile-service/internal/logic/v1"
	"github.com/tdnguyen/profile-service/middleware"
)

// ProfileHandler handles HTTP requests for the profile API
type ProfileHandler struct {
	service *logicv1.ProfileService
}

// NewProfileHandler creates a new profile handler
func NewProfileHandler(service *logicv1.ProfileService) *ProfileHandler {
	return &ProfileHandler{
		service: service,
	}
}

// authedUserID extracts the user id set by the auth middleware. A zero value
// means the middleware did not run or did not authenticate the request.
func authedUserID(c *gin.Context) int {
	return c.GetInt(middleware.CtxUserID)
}

// Register handles POST /api/auth/register
func (h *ProfileHandler) Register(c *gin.Context) {
	ctx, span := middleware.StartSpan(c.Request.Context(), "http.request", trace.WithAttributes(
		attribute.String("layer", "web"),
		attribute.String("method", c.Request.Method),
		attribute.String("path", c.Request.URL.Path),
	))
	defer span.End()

	logger := middleware.GetLoggerFromGinContext(c)

	var req domain.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		span.SetAttributes(attribute.Bool("request.valid", false))
		c.JSON(http.StatusBadRequest, gin.H{"error": sanitizeValidationError(err)})
		return
	}

	user, err := h.service.Register(ctx, req)
	if err != nil {
		span.RecordError(err)
		logger.Error("Failed to register user", zap.Error(err))

		switch {
		case errors.Is(err, domain.ErrEmailTaken):
			c.JSON(http.StatusConflict, gin.H{"error": "Email already in use"})
		case errors.Is(err, domain.ErrWeakPassword):
			c.JSON(http.StatusBadRequest, gin.H{"error": sanitizeValidationError(err)})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		}
		return
	}

	logger.Info("User registered", zap.Int("user_id", user.ID))
	c.JSON(http.StatusCreated, user.Profile())
}

// Login handles POST /api/auth/login
func (h *ProfileHandler) Login(c *gin.Context) {
	ctx, span := middleware.StartSpan(c.Request.Context(), "http.request", trace.WithAttributes(
		attribute.String("layer", "web"),
		attribute.String("method", c.Request.Method),
		attribute.String("path", c.Request.URL.Path),
	))
	defer span.End()

	logger := middleware.GetLoggerFromGinContext(c)

	var req domain.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		span.SetAttributes(attribute.Bool("request.valid", false))
		c.JSON(http.StatusBadRequest, gin.H{"error": sanitizeValidationError(err)})
		return
	}

	token, err := h.service.Login(ctx, req)
	if err != nil {
		span.RecordError(err)

		if errors.Is(err, domain.ErrInvalidCredentials) {
			// Same message for unknown email and wrong password
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid email or password"})
			return
		}
		logger.Error("Failed to log in user", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	c.JSON(http.StatusOK, domain.LoginResponse{AccessToken: token})
}

// GetProfile handles GET /api/profile/me
func (h *ProfileHandler) GetProfile(c *gin.Context) {
	ctx, span := middleware.StartSpan(c.Request.Context(), "http.request", trace.WithAttributes(
		attribute.String("layer", "web"),
		attribute.String("method", c.Request.Method),
		attribute.String("path", c.Request.URL.Path),
	))
	defer span.End()

	logger := middleware.GetLoggerFromGinContext(c)

	userID := authedUserID(c)
	if userID == 0 {
		logger.Warn("GetProfile: no user_id in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}

	user, err := h.service.GetProfile(ctx, userID)
	if err != nil {
		span.RecordError(err)

		if errors.Is(err, domain.ErrUserNotFound) {
			// Token signature was valid but the account no longer exists
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			return
		}
		logger.Error("Failed to get profile", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	c.JSON(http.StatusOK, user.Profile())
}

// UpdateProfile handles PUT /api/profile/me
func (h *ProfileHandler) UpdateProfile(c *gin.Context) {
	ctx, span := middleware.StartSpan(c.Request.Context(), "http.request", trace.WithAttributes(
		attribute.String("layer", "web"),
		attribute.String("method", c.Request.Method),
		attribute.String("path", c.Request.URL.Path),
	))
	defer span.End()

	logger := middleware.GetLoggerFromGinContext(c)

	userID := authedUserID(c)
	if userID == 0 {
		logger.Warn("UpdateProfile: no user_id in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}

	var req domain.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		span.SetAttributes(attribute.Bool("request.valid", false))
		c.JSON(http.StatusBadRequest, gin.H{"error": sanitizeValidationError(err)})
		return
	}

	user, err := h.service.UpdateProfile(ctx, userID, req)
	if err != nil {
		span.RecordError(err)

		switch {
		case errors.Is(err, domain.ErrUserNotFound):
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
		case errors.Is(err, domain.ErrEmailTaken):
			c.JSON(http.StatusConflict, gin.H{"error": "Email already in use"})
		default:
			logger.Error("Failed to update profile", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		}
		return
	}

	logger.Info("Profile updated", zap.Int("user_id", userID))
	c.JSON(http.StatusOK, user.Profile())
}

// ChangePassword handles PUT /api/profile/change-password
func (h *ProfileHandler) ChangePassword(c *gin.Context) {
	ctx, span := middleware.StartSpan(c.Request.Context(), "http.request", trace.WithAttributes(
		attribute.String("layer", "web"),
		attribute.String("method", c.Request.Method),
		attribute.String("path", c.Request.URL.Path),
	))
	defer span.End()

	logger := middleware.GetLoggerFromGinContext(c)

	userID := authedUserID(c)
	if userID == 0 {
		logger.Warn("ChangePassword: no user_id in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}

	var req domain.ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		span.SetAttributes(attribute.Bool("request.valid", false))
		c.JSON(http.StatusBadRequest, gin.H{"error": sanitizeValidationError(err)})
		return
	}

	if err := h.service.ChangePassword(ctx, userID, req); err != nil {
		span.RecordError(err)

		switch {
		case errors.Is(err, domain.ErrInvalidCredentials):
			// Deliberately vague: do not reveal more than the check that failed
			c.JSON(http.StatusBadRequest, gin.H{"error": "Current password incorrect"})
		case errors.Is(err, domain.ErrWeakPassword):
			c.JSON(http.StatusBadRequest, gin.H{"error": sanitizeValidationError(err)})
		case errors.Is(err, domain.ErrUserNotFound):
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
		default:
			logger.Error("Failed to change password", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		}
		return
	}

	logger.Info("Password changed", zap.Int("user_id", userID))
	c.Status(http.StatusNoContent)
}

// DeleteAccount handles DELETE /api/profile/me. A request body with a
// confirm flag is accepted but ignored; the bearer token alone gates
// deletion.
func (h *ProfileHandler) DeleteAccount(c *gin.Context) {
	ctx, span := middleware.StartSpan(c.Request.Context(), "http.request", trace.WithAttributes(
		attribute.String("layer", "web"),
		attribute.String("method", c.Request.Method),
		attribute.String("path", c.Request.URL.Path),
	))
	defer span.End()

	logger := middleware.GetLoggerFromGinContext(c)

	userID := authedUserID(c)
	if userID == 0 {
		logger.Warn("DeleteAccount: no user_id in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}

	if err := h.service.DeleteAccount(ctx, userID); err != nil {
		span.RecordError(err)

		if errors.Is(err, domain.ErrUserNotFound) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			return
		}
		logger.Error("Failed to delete account", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	logger.Info("Account deleted", zap.Int("user_id", userID))
	c.Status(http.StatusNoContent)
}
