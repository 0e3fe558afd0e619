package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"reviewhub/internal/model"
	"reviewhub/internal/service"
)

// CommentHandler handles comment endpoints nested under reviews.
type CommentHandler struct {
	discussion service.DiscussionService
}

// NewCommentHandler creates a new comment handler.
func NewCommentHandler(discussion service.DiscussionService) *CommentHandler {
	return &CommentHandler{discussion: discussion}
}

// CommentRequest is the create/update payload for a comment.
type CommentRequest struct {
	Text string `json:"text" validate:"required"`
}

// CommentResponse serializes a comment with its author's username.
type CommentResponse struct {
	ID      uint      `json:"id"`
	Author  string    `json:"author"`
	Text    string    `json:"text"`
	PubDate time.Time `json:"pub_date"`
}

func newCommentResponse(cm *model.Comment) CommentResponse {
	return CommentResponse{
		ID:      cm.ID,
		Author:  cm.Author.Username,
		Text:    cm.Text,
		PubDate: cm.PubDate,
	}
}

// ListComments godoc
// @Summary List a review's comments
// @Tags comments
// @Produce json
// @Param title_id path int true "Title ID"
// @Param review_id path int true "Review ID"
// @Param page query int false "Page number"
// @Param page_size query int false "Page size"
// @Success 200 {object} PagedResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /titles/{title_id}/reviews/{review_id}/comments [get]
func (h *CommentHandler) ListComments(c echo.Context) error {
	titleID, reviewID, err := reviewPath(c)
	if err != nil {
		return err
	}

	page := pageFrom(c)
	comments, count, err := h.discussion.ListComments(c.Request().Context(), titleID, reviewID, page)
	if err != nil {
		return respondError(c, err)
	}

	results := make([]CommentResponse, len(comments))
	for i := range comments {
		results[i] = newCommentResponse(&comments[i])
	}
	return c.JSON(http.StatusOK, newPagedResponse(count, page, results))
}

// CreateComment godoc
// @Summary Comment on a review
// @Tags comments
// @Accept json
// @Produce json
// @Param title_id path int true "Title ID"
// @Param review_id path int true "Review ID"
// @Param request body CommentRequest true "Comment data"
// @Success 201 {object} CommentResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /titles/{title_id}/reviews/{review_id}/comments [post]
func (h *CommentHandler) CreateComment(c echo.Context) error {
	titleID, reviewID, err := reviewPath(c)
	if err != nil {
		return err
	}

	var req CommentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	comment, err := h.discussion.CreateComment(c.Request().Context(), principalFrom(c), titleID, reviewID, req.Text)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, newCommentResponse(comment))
}

// GetComment godoc
// @Summary Get a comment under its review
// @Tags comments
// @Produce json
// @Param title_id path int true "Title ID"
// @Param review_id path int true "Review ID"
// @Param comment_id path int true "Comment ID"
// @Success 200 {object} CommentResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /titles/{title_id}/reviews/{review_id}/comments/{comment_id} [get]
func (h *CommentHandler) GetComment(c echo.Context) error {
	titleID, reviewID, commentID, err := commentPath(c)
	if err != nil {
		return err
	}
	comment, err := h.discussion.GetComment(c.Request().Context(), titleID, reviewID, commentID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, newCommentResponse(comment))
}

// UpdateComment godoc
// @Summary Patch a comment (author, moderator or admin)
// @Tags comments
// @Accept json
// @Produce json
// @Param title_id path int true "Title ID"
// @Param review_id path int true "Review ID"
// @Param comment_id path int true "Comment ID"
// @Param request body CommentRequest true "Fields to update"
// @Success 200 {object} CommentResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /titles/{title_id}/reviews/{review_id}/comments/{comment_id} [patch]
func (h *CommentHandler) UpdateComment(c echo.Context) error {
	titleID, reviewID, commentID, err := commentPath(c)
	if err != nil {
		return err
	}

	var req CommentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	comment, err := h.discussion.UpdateComment(c.Request().Context(), principalFrom(c), titleID, reviewID, commentID, req.Text)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, newCommentResponse(comment))
}

// DeleteComment godoc
// @Summary Delete a comment (author, moderator or admin)
// @Tags comments
// @Param title_id path int true "Title ID"
// @Param review_id path int true "Review ID"
// @Param comment_id path int true "Comment ID"
// @Success 204
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /titles/{title_id}/reviews/{review_id}/comments/{comment_id} [delete]
func (h *CommentHandler) DeleteComment(c echo.Context) error {
	titleID, reviewID, commentID, err := commentPath(c)
	if err != nil {
		return err
	}
	if err := h.discussion.DeleteComment(c.Request().Context(), principalFrom(c), titleID, reviewID, commentID); err != nil {
		return respondError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func commentPath(c echo.Context) (titleID, reviewID, commentID uint, err error) {
	if titleID, reviewID, err = reviewPath(c); err != nil {
		return 0, 0, 0, err
	}
	if commentID, err = pathID(c, "comment_id"); err != nil {
		return 0, 0, 0, err
	}
	return titleID, reviewID, commentID, nil
}
