package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"reviewhub/internal/service"
)

// CatalogHandler handles category and genre endpoints.
type CatalogHandler struct {
	catalog service.CatalogService
}

// NewCatalogHandler creates a new catalog handler.
func NewCatalogHandler(catalog service.CatalogService) *CatalogHandler {
	return &CatalogHandler{catalog: catalog}
}

// ClassifierRequest is the shared create payload for categories and genres.
type ClassifierRequest struct {
	Name string `json:"name" validate:"required,max=100"`
	Slug string `json:"slug" validate:"required,max=50,slug"`
}

// ListCategories godoc
// @Summary List categories
// @Tags categories
// @Produce json
// @Param search query string false "Name substring"
// @Param page query int false "Page number"
// @Param page_size query int false "Page size"
// @Success 200 {object} PagedResponse
// @Router /categories [get]
func (h *CatalogHandler) ListCategories(c echo.Context) error {
	page := pageFrom(c)
	categories, count, err := h.catalog.ListCategories(c.Request().Context(), c.QueryParam("search"), page)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, newPagedResponse(count, page, categories))
}

// CreateCategory godoc
// @Summary Create a category (admin only)
// @Tags categories
// @Accept json
// @Produce json
// @Param request body ClassifierRequest true "Category data"
// @Success 201 {object} model.Category
// @Failure 400 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Router /categories [post]
func (h *CatalogHandler) CreateCategory(c echo.Context) error {
	var req ClassifierRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	category, err := h.catalog.CreateCategory(c.Request().Context(), principalFrom(c), req.Name, req.Slug)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, category)
}

// DeleteCategory godoc
// @Summary Delete a category (admin only); its titles remain, uncategorized
// @Tags categories
// @Param slug path string true "Category slug"
// @Success 204
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /categories/{slug} [delete]
func (h *CatalogHandler) DeleteCategory(c echo.Context) error {
	if err := h.catalog.DeleteCategory(c.Request().Context(), principalFrom(c), c.Param("slug")); err != nil {
		return respondError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// ListGenres godoc
// @Summary List genres
// @Tags genres
// @Produce json
// @Param search query string false "Name substring"
// @Param page query int false "Page number"
// @Param page_size query int false "Page size"
// @Success 200 {object} PagedResponse
// @Router /genres [get]
func (h *CatalogHandler) ListGenres(c echo.Context) error {
	page := pageFrom(c)
	genres, count, err := h.catalog.ListGenres(c.Request().Context(), c.QueryParam("search"), page)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, newPagedResponse(count, page, genres))
}

// CreateGenre godoc
// @Summary Create a genre (admin only)
// @Tags genres
// @Accept json
// @Produce json
// @Param request body ClassifierRequest true "Genre data"
// @Success 201 {object} model.Genre
// @Failure 400 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Router /genres [post]
func (h *CatalogHandler) CreateGenre(c echo.Context) error {
	var req ClassifierRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	genre, err := h.catalog.CreateGenre(c.Request().Context(), principalFrom(c), req.Name, req.Slug)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, genre)
}

// DeleteGenre godoc
// @Summary Delete a genre (admin only); detaches it from titles
// @Tags genres
// @Param slug path string true "Genre slug"
// @Success 204
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /genres/{slug} [delete]
func (h *CatalogHandler) DeleteGenre(c echo.Context) error {
	if err := h.catalog.DeleteGenre(c.Request().Context(), principalFrom(c), c.Param("slug")); err != nil {
		return respondError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
