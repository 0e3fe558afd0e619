package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"reviewhub/internal/model"
	"reviewhub/internal/service"
)

// ReviewHandler handles review endpoints nested under titles.
type ReviewHandler struct {
	discussion service.DiscussionService
}

// NewReviewHandler creates a new review handler.
func NewReviewHandler(discussion service.DiscussionService) *ReviewHandler {
	return &ReviewHandler{discussion: discussion}
}

// ReviewRequest is the create payload for a review.
type ReviewRequest struct {
	Text  string `json:"text" validate:"required"`
	Score int    `json:"score" validate:"required"`
}

// PatchReviewRequest is a partial review update.
type PatchReviewRequest struct {
	Text  *string `json:"text"`
	Score *int    `json:"score"`
}

// ReviewResponse serializes a review with its author's username.
type ReviewResponse struct {
	ID      uint      `json:"id"`
	Author  string    `json:"author"`
	Text    string    `json:"text"`
	Score   int       `json:"score"`
	PubDate time.Time `json:"pub_date"`
}

func newReviewResponse(r *model.Review) ReviewResponse {
	return ReviewResponse{
		ID:      r.ID,
		Author:  r.Author.Username,
		Text:    r.Text,
		Score:   r.Score,
		PubDate: r.PubDate,
	}
}

// ListReviews godoc
// @Summary List a title's reviews
// @Tags reviews
// @Produce json
// @Param title_id path int true "Title ID"
// @Param page query int false "Page number"
// @Param page_size query int false "Page size"
// @Success 200 {object} PagedResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /titles/{title_id}/reviews [get]
func (h *ReviewHandler) ListReviews(c echo.Context) error {
	titleID, err := pathID(c, "title_id")
	if err != nil {
		return err
	}

	page := pageFrom(c)
	reviews, count, err := h.discussion.ListReviews(c.Request().Context(), titleID, page)
	if err != nil {
		return respondError(c, err)
	}

	results := make([]ReviewResponse, len(reviews))
	for i := range reviews {
		results[i] = newReviewResponse(&reviews[i])
	}
	return c.JSON(http.StatusOK, newPagedResponse(count, page, results))
}

// CreateReview godoc
// @Summary Post a review; one per author per title
// @Tags reviews
// @Accept json
// @Produce json
// @Param title_id path int true "Title ID"
// @Param request body ReviewRequest true "Review data"
// @Success 201 {object} ReviewResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Router /titles/{title_id}/reviews [post]
func (h *ReviewHandler) CreateReview(c echo.Context) error {
	titleID, err := pathID(c, "title_id")
	if err != nil {
		return err
	}

	var req ReviewRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	review, err := h.discussion.CreateReview(c.Request().Context(), principalFrom(c), titleID, req.Text, req.Score)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, newReviewResponse(review))
}

// GetReview godoc
// @Summary Get a review under its title
// @Tags reviews
// @Produce json
// @Param title_id path int true "Title ID"
// @Param review_id path int true "Review ID"
// @Success 200 {object} ReviewResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /titles/{title_id}/reviews/{review_id} [get]
func (h *ReviewHandler) GetReview(c echo.Context) error {
	titleID, reviewID, err := reviewPath(c)
	if err != nil {
		return err
	}
	review, err := h.discussion.GetReview(c.Request().Context(), titleID, reviewID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, newReviewResponse(review))
}

// UpdateReview godoc
// @Summary Patch a review (author, moderator or admin)
// @Tags reviews
// @Accept json
// @Produce json
// @Param title_id path int true "Title ID"
// @Param review_id path int true "Review ID"
// @Param request body PatchReviewRequest true "Fields to update"
// @Success 200 {object} ReviewResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /titles/{title_id}/reviews/{review_id} [patch]
func (h *ReviewHandler) UpdateReview(c echo.Context) error {
	titleID, reviewID, err := reviewPath(c)
	if err != nil {
		return err
	}

	var req PatchReviewRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	review, err := h.discussion.UpdateReview(c.Request().Context(), principalFrom(c), titleID, reviewID, service.ReviewPatch{
		Text:  req.Text,
		Score: req.Score,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, newReviewResponse(review))
}

// DeleteReview godoc
// @Summary Delete a review and cascade its comments (author, moderator or admin)
// @Tags reviews
// @Param title_id path int true "Title ID"
// @Param review_id path int true "Review ID"
// @Success 204
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /titles/{title_id}/reviews/{review_id} [delete]
func (h *ReviewHandler) DeleteReview(c echo.Context) error {
	titleID, reviewID, err := reviewPath(c)
	if err != nil {
		return err
	}
	if err := h.discussion.DeleteReview(c.Request().Context(), principalFrom(c), titleID, reviewID); err != nil {
		return respondError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func reviewPath(c echo.Context) (titleID, reviewID uint, err error) {
	if titleID, err = pathID(c, "title_id"); err != nil {
		return 0, 0, err
	}
	if reviewID, err = pathID(c, "review_id"); err != nil {
		return 0, 0, err
	}
	return titleID, reviewID, nil
}
