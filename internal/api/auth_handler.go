package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/koek1/budget-app/internal/core"
	"github.com/koek1/budget-app/internal/models"
)

// AuthHandler handles registration, login and profile endpoints.
type AuthHandler struct {
	userService  core.UserService
	tokenService core.TokenService
	logger       *zap.Logger
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(us core.UserService, ts core.TokenService, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{userService: us, tokenService: ts, logger: logger}
}

// Register handles POST /api/auth/register
func (h *AuthHandler) Register(c *gin.Context) {
	var req models.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request payload", Details: err.Error()})
		return
	}

	user, err := h.userService.Register(c.Request.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, core.ErrUserExists) {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "User already exists"})
			return
		}
		h.logger.Error("Register failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Server error"})
		return
	}

	token, err := h.tokenService.Issue(user.ID)
	if err != nil {
		h.logger.Error("Token issue failed", zap.String("userID", user.ID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Server error"})
		return
	}
	c.JSON(http.StatusCreated, RegisterResponse{ID: user.ID, Name: user.Name, Email: user.Email, Token: token})
}

// Login handles POST /api/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request payload", Details: err.Error()})
		return
	}

	user, err := h.userService.Authenticate(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, core.ErrInvalidCredentials) {
			c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Invalid email or password"})
			return
		}
		h.logger.Error("Login failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Server error"})
		return
	}

	token, err := h.tokenService.Issue(user.ID)
	if err != nil {
		h.logger.Error("Token issue failed", zap.String("userID", user.ID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Server error"})
		return
	}
	c.JSON(http.StatusOK, newLoginResponse(user, token))
}

// Profile handles GET /api/auth/profile
func (h *AuthHandler) Profile(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	user, err := h.userService.GetByID(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, core.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "User not found"})
			return
		}
		h.logger.Error("Get profile failed", zap.String("userID", userID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Server error"})
		return
	}
	c.JSON(http.StatusOK, user)
}
