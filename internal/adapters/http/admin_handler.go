package http

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/districhem/backoffice/internal/application/services"
	"github.com/districhem/backoffice/internal/domain/entities"
	"github.com/districhem/backoffice/internal/infrastructure/logger"
	"github.com/districhem/backoffice/internal/ports"
)

// UserHandler handles back-office account management
type UserHandler struct {
	userService *services.UserService
	logger      *logger.Logger
}

// NewUserHandler creates a new user handler
func NewUserHandler(userService *services.UserService, logger *logger.Logger) *UserHandler {
	return &UserHandler{
		userService: userService,
		logger:      logger,
	}
}

// ListUsers returns every account, hashes blanked.
func (h *UserHandler) ListUsers(c echo.Context) error {
	users, err := h.userService.List(c.Request().Context())
	if err != nil {
		h.logger.Error("List users failed", "error", err)
		return StoreHTTPError(err)
	}
	return c.JSON(http.StatusOK, users)
}

// CreateUser adds an account.
func (h *UserHandler) CreateUser(c echo.Context) error {
	var req ports.CreateUserRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	claims := ClaimsFromContext(c)
	user, err := h.userService.Create(c.Request().Context(), claims.UserID, req)
	if err != nil {
		h.logger.Error("Create user failed", "error", err, "login", req.Login)
		return StoreHTTPError(err)
	}

	return c.JSON(http.StatusCreated, user)
}

// DeleteUser removes an account by id.
func (h *UserHandler) DeleteUser(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid user ID")
	}

	claims := ClaimsFromContext(c)
	if claims.UserID == id {
		return echo.NewHTTPError(http.StatusBadRequest, "Cannot delete the current account")
	}

	if err := h.userService.Delete(c.Request().Context(), claims.UserID, id); err != nil {
		h.logger.Error("Delete user failed", "error", err, "id", id)
		return StoreHTTPError(err)
	}

	return c.JSON(http.StatusOK, MessageResponse{Message: "User deleted"})
}

// HistoryHandler handles the admin action log
type HistoryHandler struct {
	historyService *services.HistoryService
	logger         *logger.Logger
}

// NewHistoryHandler creates a new history handler
func NewHistoryHandler(historyService *services.HistoryService, logger *logger.Logger) *HistoryHandler {
	return &HistoryHandler{
		historyService: historyService,
		logger:         logger,
	}
}

// ListHistory returns the full action log.
func (h *HistoryHandler) ListHistory(c echo.Context) error {
	entries, err := h.historyService.List(c.Request().Context())
	if err != nil {
		h.logger.Error("List history failed", "error", err)
		return StoreHTTPError(err)
	}
	return c.JSON(http.StatusOK, entries)
}

// CompanyHandler handles the singleton company record
type CompanyHandler struct {
	companyService *services.CompanyService
	logger         *logger.Logger
}

// NewCompanyHandler creates a new company handler
func NewCompanyHandler(companyService *services.CompanyService, logger *logger.Logger) *CompanyHandler {
	return &CompanyHandler{
		companyService: companyService,
		logger:         logger,
	}
}

// GetCompany returns the company record.
func (h *CompanyHandler) GetCompany(c echo.Context) error {
	info, err := h.companyService.Get(c.Request().Context())
	if err != nil {
		h.logger.Error("Get company failed", "error", err)
		return StoreHTTPError(err)
	}
	return c.JSON(http.StatusOK, info)
}

// UpdateCompany replaces the company record.
func (h *CompanyHandler) UpdateCompany(c echo.Context) error {
	var info entities.CompanyInfo
	if err := c.Bind(&info); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	claims := ClaimsFromContext(c)
	if err := h.companyService.Update(c.Request().Context(), claims.UserID, &info); err != nil {
		h.logger.Error("Update company failed", "error", err)
		return StoreHTTPError(err)
	}

	return c.JSON(http.StatusOK, info)
}

// ContactHandler handles contact and quote requests
type ContactHandler struct {
	contactService *services.ContactService
	logger         *logger.Logger
}

// NewContactHandler creates a new contact handler
func NewContactHandler(contactService *services.ContactService, logger *logger.Logger) *ContactHandler {
	return &ContactHandler{
		contactService: contactService,
		logger:         logger,
	}
}

// SendContact dispatches a contact message to the company mailbox.
func (h *ContactHandler) SendContact(c echo.Context) error {
	var msg ports.ContactMessage
	if err := c.Bind(&msg); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}
	if err := c.Validate(&msg); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := h.contactService.Send(c.Request().Context(), msg); err != nil {
		h.logger.Error("Contact dispatch failed", "error", err)
		return echo.NewHTTPError(http.StatusBadGateway, "Message could not be delivered")
	}

	return c.JSON(http.StatusOK, MessageResponse{Message: "Message sent"})
}
