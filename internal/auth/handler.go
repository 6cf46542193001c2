package auth

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

// Handler handles authentication-related HTTP requests
type Handler struct {
	authService *Service
}

// NewHandler creates a new Handler instance
func NewHandler(authService *Service) *Handler {
	return &Handler{
		authService: authService,
	}
}

// RegisterRoutes registers authentication routes with the Echo instance
func (h *Handler) RegisterRoutes(e *echo.Echo) {
	e.POST("/auth/login", h.handleLogin)
	e.GET("/auth/validate-session", h.handleValidateSession)
	e.DELETE("/auth/signout", h.handleSignOut)
	e.GET("/health", h.handleHealth)
}

// handleLogin exchanges the admin PIN for a session token
func (h *Handler) handleLogin(c echo.Context) error {
	var req LoginRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{
			"error": "Invalid request format",
		})
	}

	if req.Pin == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{
			"error": "pin is required",
		})
	}

	session, err := h.authService.Login(req.Pin)
	if err != nil {
		if errors.Is(err, ErrMissingPin) {
			return c.JSON(http.StatusServiceUnavailable, map[string]string{
				"error": "Admin access is not configured",
			})
		}
		return c.JSON(http.StatusUnauthorized, map[string]string{
			"error": "Invalid PIN",
		})
	}

	return c.JSON(http.StatusOK, LoginResponse{SessionID: session.Token})
}

// handleValidateSession checks whether a session token is still valid
func (h *Handler) handleValidateSession(c echo.Context) error {
	sessionID := c.QueryParam("session_id")
	if sessionID == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{
			"error": "session_id is required",
		})
	}

	if err := h.authService.Validate(sessionID); err != nil {
		return c.JSON(http.StatusOK, map[string]interface{}{
			"valid":         false,
			"requires_auth": true,
		})
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"valid":         true,
		"requires_auth": false,
	})
}

// handleSignOut discards a session token
func (h *Handler) handleSignOut(c echo.Context) error {
	sessionID := c.QueryParam("session_id")
	if sessionID == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{
			"error": "session_id is required",
		})
	}

	h.authService.SignOut(sessionID)

	return c.JSON(http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Successfully signed out",
	})
}

// handleHealth returns the health status of the backend service
func (h *Handler) handleHealth(c echo.Context) error {
	response := map[string]interface{}{
		"status":    "healthy",
		"sessions":  h.authService.GetSessionCount(),
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	}

	return c.JSON(http.StatusOK, response)
}
