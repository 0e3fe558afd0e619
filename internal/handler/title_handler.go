package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"reviewhub/internal/repository"
	"reviewhub/internal/service"
)

// TitleHandler handles title endpoints.
type TitleHandler struct {
	titles service.TitleService
}

// NewTitleHandler creates a new title handler.
func NewTitleHandler(titles service.TitleService) *TitleHandler {
	return &TitleHandler{titles: titles}
}

// TitleRequest is the create payload for a title.
type TitleRequest struct {
	Name        string   `json:"name" validate:"required,max=100"`
	Year        int      `json:"year" validate:"required"`
	Description *string  `json:"description"`
	Category    string   `json:"category" validate:"omitempty,max=50"`
	Genre       []string `json:"genre" validate:"dive,max=50"`
}

// PatchTitleRequest is a partial title update; absent fields stay untouched.
type PatchTitleRequest struct {
	Name        *string   `json:"name" validate:"omitempty,max=100"`
	Year        *int      `json:"year"`
	Description *string   `json:"description"`
	Category    *string   `json:"category" validate:"omitempty,max=50"`
	Genre       *[]string `json:"genre" validate:"omitempty,dive,max=50"`
}

// ListTitles godoc
// @Summary List titles with their derived ratings
// @Tags titles
// @Produce json
// @Param category query string false "Category slug"
// @Param genre query string false "Genre slug"
// @Param name query string false "Name substring, case-insensitive"
// @Param year query int false "Exact year"
// @Param page query int false "Page number"
// @Param page_size query int false "Page size"
// @Success 200 {object} PagedResponse
// @Router /titles [get]
func (h *TitleHandler) ListTitles(c echo.Context) error {
	filter := repository.TitleFilter{
		CategorySlug: c.QueryParam("category"),
		GenreSlug:    c.QueryParam("genre"),
		Name:         c.QueryParam("name"),
	}
	if y := c.QueryParam("year"); y != "" {
		year, err := strconv.Atoi(y)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid year")
		}
		filter.Year = &year
	}

	page := pageFrom(c)
	titles, count, err := h.titles.ListTitles(c.Request().Context(), filter, page)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, newPagedResponse(count, page, titles))
}

// CreateTitle godoc
// @Summary Create a title (admin only)
// @Tags titles
// @Accept json
// @Produce json
// @Param request body TitleRequest true "Title data"
// @Success 201 {object} service.RatedTitle
// @Failure 400 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Router /titles [post]
func (h *TitleHandler) CreateTitle(c echo.Context) error {
	var req TitleRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	title, err := h.titles.CreateTitle(c.Request().Context(), principalFrom(c), service.TitleInput{
		Name:         req.Name,
		Year:         req.Year,
		Description:  req.Description,
		CategorySlug: req.Category,
		GenreSlugs:   req.Genre,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, title)
}

// GetTitle godoc
// @Summary Get a title with its derived rating
// @Tags titles
// @Produce json
// @Param title_id path int true "Title ID"
// @Success 200 {object} service.RatedTitle
// @Failure 404 {object} errors.ErrorResponse
// @Router /titles/{title_id} [get]
func (h *TitleHandler) GetTitle(c echo.Context) error {
	id, err := pathID(c, "title_id")
	if err != nil {
		return err
	}
	title, err := h.titles.GetTitle(c.Request().Context(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, title)
}

// UpdateTitle godoc
// @Summary Patch a title (admin only)
// @Tags titles
// @Accept json
// @Produce json
// @Param title_id path int true "Title ID"
// @Param request body PatchTitleRequest true "Fields to update"
// @Success 200 {object} service.RatedTitle
// @Failure 400 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /titles/{title_id} [patch]
func (h *TitleHandler) UpdateTitle(c echo.Context) error {
	id, err := pathID(c, "title_id")
	if err != nil {
		return err
	}

	var req PatchTitleRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	title, err := h.titles.UpdateTitle(c.Request().Context(), principalFrom(c), id, service.TitlePatch{
		Name:         req.Name,
		Year:         req.Year,
		Description:  req.Description,
		CategorySlug: req.Category,
		GenreSlugs:   req.Genre,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, title)
}

// DeleteTitle godoc
// @Summary Delete a title and cascade its reviews and comments (admin only)
// @Tags titles
// @Param title_id path int true "Title ID"
// @Success 204
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /titles/{title_id} [delete]
func (h *TitleHandler) DeleteTitle(c echo.Context) error {
	id, err := pathID(c, "title_id")
	if err != nil {
		return err
	}
	if err := h.titles.DeleteTitle(c.Request().Context(), principalFrom(c), id); err != nil {
		return respondError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
