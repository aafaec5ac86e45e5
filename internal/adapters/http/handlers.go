package http

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/districhem/backoffice/internal/adapters/githubstore"
	"github.com/districhem/backoffice/internal/application/services"
	"github.com/districhem/backoffice/internal/domain/entities"
	"github.com/districhem/backoffice/internal/infrastructure/logger"
	"github.com/districhem/backoffice/internal/ports"
)

// AuthHandler handles authentication-related requests
type AuthHandler struct {
	authService *services.AuthService
	logger      *logger.Logger
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService *services.AuthService, logger *logger.Logger) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		logger:      logger,
	}
}

// Login handles back-office login
func (h *AuthHandler) Login(c echo.Context) error {
	var req ports.LoginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	response, err := h.authService.Login(c.Request().Context(), req)
	if err != nil {
		h.logger.LogSecurityEvent("login_failed", req.Login, c.RealIP(), nil)
		return echo.NewHTTPError(http.StatusUnauthorized, "Invalid credentials")
	}

	return c.JSON(http.StatusOK, response)
}

// Logout handles logout. Idempotent; the client drops the token.
func (h *AuthHandler) Logout(c echo.Context) error {
	claims := ClaimsFromContext(c)
	h.authService.Logout(c.Request().Context(), claims.UserID)
	return c.JSON(http.StatusOK, MessageResponse{Message: "Logged out successfully"})
}

// Session returns the claims of the current token.
func (h *AuthHandler) Session(c echo.Context) error {
	claims := ClaimsFromContext(c)
	return c.JSON(http.StatusOK, entities.Session{
		UserID:  claims.UserID,
		Login:   claims.Login,
		IsAdmin: claims.IsAdmin,
	})
}

// Utility functions and helper types

const claimsKey = "claims"

// SetClaims attaches validated session claims to the request context.
func SetClaims(c echo.Context, claims *ports.Claims) {
	c.Set(claimsKey, claims)
}

// ClaimsFromContext returns the session claims attached by the auth
// middleware, or empty claims for unauthenticated requests.
func ClaimsFromContext(c echo.Context) ports.Claims {
	if claims, ok := c.Get(claimsKey).(*ports.Claims); ok && claims != nil {
		return *claims
	}
	return ports.Claims{}
}

// StoreHTTPError maps the store and sync error taxonomy to an HTTP
// response. Conflicts tell the admin to re-fetch and redo the edit; a
// partial sync says which file still needs the second step.
func StoreHTTPError(err error) *echo.HTTPError {
	var partial *services.PartialSyncError
	if errors.As(err, &partial) {
		return echo.NewHTTPError(http.StatusBadGateway, map[string]interface{}{
			"message":  "tables are partially synchronized, re-run the pending step",
			"op_id":    partial.OpID,
			"complete": partial.Complete,
			"pending":  partial.Pending,
		})
	}

	switch {
	case errors.Is(err, githubstore.ErrConflict):
		return echo.NewHTTPError(http.StatusConflict, "Concurrent edit detected, reload and retry")
	case errors.Is(err, githubstore.ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, "Not found")
	case errors.Is(err, githubstore.ErrAuth):
		return echo.NewHTTPError(http.StatusBadGateway, "Content store rejected the write credential")
	case errors.Is(err, entities.ErrDuplicateReference),
		errors.Is(err, entities.ErrDuplicateCategory),
		errors.Is(err, entities.ErrDuplicateLogin):
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	case errors.Is(err, entities.ErrProductNotFound),
		errors.Is(err, entities.ErrCategoryNotFound),
		errors.Is(err, entities.ErrIndustryNotFound),
		errors.Is(err, entities.ErrUserNotFound):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	default:
		return echo.NewHTTPError(http.StatusBadGateway, "Content store unavailable")
	}
}

// Request/Response types
type MessageResponse struct {
	Message string `json:"message"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}
