package errors

import (
	"errors"
	"net/http"
)

// Not-found errors cover a missing target or a parent/child mismatch in a
// nested path: a review fetched under the wrong title is "not found", never
// "belongs to another title".
var (
	ErrUserNotFound     = errors.New("user not found")
	ErrCategoryNotFound = errors.New("category not found")
	ErrGenreNotFound    = errors.New("genre not found")
	ErrTitleNotFound    = errors.New("title not found")
	ErrReviewNotFound   = errors.New("review not found")
	ErrCommentNotFound  = errors.New("comment not found")
)

var (
	// ErrReviewExists is returned on a second review for the same
	// (title, author) pair.
	ErrReviewExists = errors.New("review for this title by this author already exists")
	// ErrSlugExists is returned on a duplicate category or genre slug.
	ErrSlugExists = errors.New("slug already in use")
	// ErrUsernameTaken is returned when the username is already registered.
	ErrUsernameTaken = errors.New("username already in use")
	// ErrEmailTaken is returned when the email is already registered.
	ErrEmailTaken = errors.New("email already in use")
	// ErrReservedUsername is returned when signing up as the reserved "me".
	ErrReservedUsername = errors.New("username is reserved")
	// ErrUnknownCategory is returned when a title payload names a category
	// slug that does not exist. Unlike ErrCategoryNotFound this is a field
	// validation failure, not a missing target resource.
	ErrUnknownCategory = errors.New("unknown category slug")
	// ErrUnknownGenre is the genre-slug counterpart of ErrUnknownCategory.
	ErrUnknownGenre = errors.New("unknown genre slug")
	// ErrInvalidScore is returned when a review score is outside 1..10.
	ErrInvalidScore = errors.New("score must be an integer between 1 and 10")
	// ErrInvalidRole is returned when a role value is not user/moderator/admin.
	ErrInvalidRole = errors.New("invalid role")
	// ErrPermissionDenied is returned when the authorization engine denies
	// the (principal, action, resource) triple.
	ErrPermissionDenied = errors.New("permission denied")
	// ErrInvalidCredentials is deliberately generic: wrong code and unknown
	// username produce the same message to prevent username enumeration.
	ErrInvalidCredentials = errors.New("invalid username or confirmation code")
)

// ErrorResponse represents a standardized error response.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// HTTPError represents an HTTP error with status code.
type HTTPError struct {
	StatusCode int
	Message    string
	Code       string
}

func (e *HTTPError) Error() string {
	return e.Message
}

// NewHTTPError creates a new HTTP error.
func NewHTTPError(statusCode int, message, code string) *HTTPError {
	return &HTTPError{
		StatusCode: statusCode,
		Message:    message,
		Code:       code,
	}
}

// ToErrorResponse converts an HTTPError to ErrorResponse.
func (e *HTTPError) ToErrorResponse() ErrorResponse {
	return ErrorResponse{
		Error: e.Message,
		Code:  e.Code,
	}
}

// MapErrorToHTTP maps domain errors to HTTP errors.
func MapErrorToHTTP(err error) *HTTPError {
	switch {
	case errors.Is(err, ErrUserNotFound):
		return NewHTTPError(http.StatusNotFound, err.Error(), "USER_NOT_FOUND")
	case errors.Is(err, ErrCategoryNotFound):
		return NewHTTPError(http.StatusNotFound, err.Error(), "CATEGORY_NOT_FOUND")
	case errors.Is(err, ErrGenreNotFound):
		return NewHTTPError(http.StatusNotFound, err.Error(), "GENRE_NOT_FOUND")
	case errors.Is(err, ErrTitleNotFound):
		return NewHTTPError(http.StatusNotFound, err.Error(), "TITLE_NOT_FOUND")
	case errors.Is(err, ErrReviewNotFound):
		return NewHTTPError(http.StatusNotFound, err.Error(), "REVIEW_NOT_FOUND")
	case errors.Is(err, ErrCommentNotFound):
		return NewHTTPError(http.StatusNotFound, err.Error(), "COMMENT_NOT_FOUND")
	case errors.Is(err, ErrReviewExists):
		return NewHTTPError(http.StatusConflict, err.Error(), "REVIEW_EXISTS")
	case errors.Is(err, ErrSlugExists):
		return NewHTTPError(http.StatusConflict, err.Error(), "SLUG_EXISTS")
	case errors.Is(err, ErrUsernameTaken):
		return NewHTTPError(http.StatusBadRequest, err.Error(), "USERNAME_TAKEN")
	case errors.Is(err, ErrEmailTaken):
		return NewHTTPError(http.StatusBadRequest, err.Error(), "EMAIL_TAKEN")
	case errors.Is(err, ErrReservedUsername):
		return NewHTTPError(http.StatusBadRequest, err.Error(), "RESERVED_USERNAME")
	case errors.Is(err, ErrUnknownCategory):
		return NewHTTPError(http.StatusBadRequest, err.Error(), "UNKNOWN_CATEGORY")
	case errors.Is(err, ErrUnknownGenre):
		return NewHTTPError(http.StatusBadRequest, err.Error(), "UNKNOWN_GENRE")
	case errors.Is(err, ErrInvalidScore):
		return NewHTTPError(http.StatusBadRequest, err.Error(), "INVALID_SCORE")
	case errors.Is(err, ErrInvalidRole):
		return NewHTTPError(http.StatusBadRequest, err.Error(), "INVALID_ROLE")
	case errors.Is(err, ErrPermissionDenied):
		return NewHTTPError(http.StatusForbidden, err.Error(), "PERMISSION_DENIED")
	case errors.Is(err, ErrInvalidCredentials):
		return NewHTTPError(http.StatusBadRequest, err.Error(), "INVALID_CREDENTIALS")
	default:
		return NewHTTPError(http.StatusInternalServerError, "internal server error", "INTERNAL_ERROR")
	}
}
