package http

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/districhem/backoffice/internal/application/services"
	"github.com/districhem/backoffice/internal/infrastructure/logger"
	"github.com/districhem/backoffice/internal/ports"
)

// CatalogHandler handles product catalog requests
type CatalogHandler struct {
	catalogService *services.CatalogService
	logger         *logger.Logger
}

// NewCatalogHandler creates a new catalog handler
func NewCatalogHandler(catalogService *services.CatalogService, logger *logger.Logger) *CatalogHandler {
	return &CatalogHandler{
		catalogService: catalogService,
		logger:         logger,
	}
}

// ListCategories returns the full products table.
func (h *CatalogHandler) ListCategories(c echo.Context) error {
	categories, err := h.catalogService.ListCategories(c.Request().Context())
	if err != nil {
		h.logger.Error("List categories failed", "error", err)
		return StoreHTTPError(err)
	}
	return c.JSON(http.StatusOK, categories)
}

// ListProductViews returns the flattened catalog projection.
func (h *CatalogHandler) ListProductViews(c echo.Context) error {
	categories, err := h.catalogService.ListCategories(c.Request().Context())
	if err != nil {
		h.logger.Error("List products failed", "error", err)
		return StoreHTTPError(err)
	}
	return c.JSON(http.StatusOK, services.ProjectProducts(categories))
}

// GetProduct returns one product by reference, with its category and the
// prefilled WhatsApp quote link.
func (h *CatalogHandler) GetProduct(c echo.Context) error {
	reference := c.Param("reference")

	product, category, err := h.catalogService.GetProduct(c.Request().Context(), reference)
	if err != nil {
		return StoreHTTPError(err)
	}

	resp := map[string]interface{}{
		"product":   product,
		"categorie": category,
	}
	if phone := c.QueryParam("phone"); phone != "" {
		resp["whatsapp"] = services.WhatsAppQuoteLink(phone, product, product.Quantity)
	}

	return c.JSON(http.StatusOK, resp)
}

// SearchProducts returns products matching ?q= case-insensitively.
func (h *CatalogHandler) SearchProducts(c echo.Context) error {
	query := c.QueryParam("q")
	if query == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Missing query parameter 'q'")
	}

	products, err := h.catalogService.Search(c.Request().Context(), query)
	if err != nil {
		h.logger.Error("Search failed", "error", err, "query", query)
		return StoreHTTPError(err)
	}
	return c.JSON(http.StatusOK, products)
}

// SaveProduct creates or replaces a product.
func (h *CatalogHandler) SaveProduct(c echo.Context) error {
	var req ports.SaveProductRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	claims := ClaimsFromContext(c)
	product, err := h.catalogService.SaveProduct(c.Request().Context(), claims.UserID, req)
	if err != nil {
		h.logger.Error("Save product failed", "error", err, "reference", req.Reference)
		return StoreHTTPError(err)
	}

	return c.JSON(http.StatusCreated, product)
}

// DeleteProduct removes a product by reference.
func (h *CatalogHandler) DeleteProduct(c echo.Context) error {
	reference := c.Param("reference")

	claims := ClaimsFromContext(c)
	if err := h.catalogService.DeleteProduct(c.Request().Context(), claims.UserID, reference); err != nil {
		h.logger.Error("Delete product failed", "error", err, "reference", reference)
		return StoreHTTPError(err)
	}

	return c.JSON(http.StatusOK, MessageResponse{Message: "Product deleted"})
}

// TaxonomyHandler handles display taxonomy requests
type TaxonomyHandler struct {
	taxonomyService *services.TaxonomyService
	userService     *services.UserService
	logger          *logger.Logger
}

// NewTaxonomyHandler creates a new taxonomy handler
func NewTaxonomyHandler(taxonomyService *services.TaxonomyService, userService *services.UserService, logger *logger.Logger) *TaxonomyHandler {
	return &TaxonomyHandler{
		taxonomyService: taxonomyService,
		userService:     userService,
		logger:          logger,
	}
}

// ListIndustries returns the navigation projection of the taxonomy.
func (h *TaxonomyHandler) ListIndustries(c echo.Context) error {
	industries, err := h.taxonomyService.ListIndustries(c.Request().Context())
	if err != nil {
		h.logger.Error("List industries failed", "error", err)
		return StoreHTTPError(err)
	}
	return c.JSON(http.StatusOK, services.ProjectIndustries(industries))
}

// SaveCategory creates or updates a taxonomy entry, cascading renames.
func (h *TaxonomyHandler) SaveCategory(c echo.Context) error {
	var req ports.SaveCategoryRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	claims := ClaimsFromContext(c)
	industry, err := h.taxonomyService.SaveCategory(c.Request().Context(), claims.UserID, req)
	if err != nil {
		h.logger.Error("Save category failed", "error", err, "category", req.Name)
		return StoreHTTPError(err)
	}

	return c.JSON(http.StatusCreated, industry)
}

// DeleteCategory removes a taxonomy entry and its products.
func (h *TaxonomyHandler) DeleteCategory(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid category ID")
	}

	claims := ClaimsFromContext(c)
	if err := h.taxonomyService.DeleteCategory(c.Request().Context(), claims.UserID, id); err != nil {
		h.logger.Error("Delete category failed", "error", err, "id", id)
		return StoreHTTPError(err)
	}

	return c.JSON(http.StatusOK, MessageResponse{Message: "Category deleted"})
}

// Consistency audits the taxonomy files and the users table.
func (h *TaxonomyHandler) Consistency(c echo.Context) error {
	users, err := h.userService.List(c.Request().Context())
	if err != nil {
		h.logger.Error("Consistency audit failed", "error", err)
		return StoreHTTPError(err)
	}

	report, err := h.taxonomyService.Audit(c.Request().Context(), users)
	if err != nil {
		h.logger.Error("Consistency audit failed", "error", err)
		return StoreHTTPError(err)
	}

	return c.JSON(http.StatusOK, report)
}
