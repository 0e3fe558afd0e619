package handler

import (
	"strconv"

	"github.com/labstack/echo/v4"

	"reviewhub/internal/authz"
	"reviewhub/internal/errors"
	"reviewhub/internal/repository"
)

// PrincipalKey is the echo context key under which the authenticated
// principal is stored by the router middleware.
const PrincipalKey = "principal"

// PagedResponse is the page-number list envelope used by every list endpoint.
type PagedResponse struct {
	Count    int64       `json:"count"`
	Page     int         `json:"page"`
	PageSize int         `json:"page_size"`
	Results  interface{} `json:"results"`
}

func newPagedResponse(count int64, page repository.Page, results interface{}) PagedResponse {
	page = page.Normalize()
	return PagedResponse{
		Count:    count,
		Page:     page.Number,
		PageSize: page.Size,
		Results:  results,
	}
}

// principalFrom returns the request principal, anonymous when the route
// carries no token.
func principalFrom(c echo.Context) authz.Principal {
	if p, ok := c.Get(PrincipalKey).(authz.Principal); ok {
		return p
	}
	return authz.Anonymous
}

// pageFrom reads page-number pagination from the query string.
func pageFrom(c echo.Context) repository.Page {
	page, _ := strconv.Atoi(c.QueryParam("page"))
	size, _ := strconv.Atoi(c.QueryParam("page_size"))
	return repository.Page{Number: page, Size: size}.Normalize()
}

// pathID parses a numeric path parameter.
func pathID(c echo.Context, name string) (uint, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil {
		return 0, echo.NewHTTPError(400, "invalid "+name)
	}
	return uint(id), nil
}

// respondError translates a domain error into the standardized error body.
func respondError(c echo.Context, err error) error {
	httpErr := errors.MapErrorToHTTP(err)
	return c.JSON(httpErr.StatusCode, httpErr.ToErrorResponse())
}
