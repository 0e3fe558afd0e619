package router

import (
	"net/http"
	"regexp"

	"github.com/go-playground/validator/v10"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"

	"reviewhub/internal/config"
	"reviewhub/internal/handler"
	"reviewhub/internal/middleware/principal"
)

// Register wires routes and middleware. Reads on catalog and discussion
// resources are public; every write goes through the JWT group plus the
// principal loader, which rebuilds the acting identity from the database
// so role changes apply without token reissue.
func Register(
	e *echo.Echo,
	cfg *config.Config,
	principalLoader *principal.Loader,
	authHandler *handler.AuthHandler,
	userHandler *handler.UserHandler,
	catalogHandler *handler.CatalogHandler,
	titleHandler *handler.TitleHandler,
	reviewHandler *handler.ReviewHandler,
	commentHandler *handler.CommentHandler,
) {
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())

	e.Validator = NewValidator()

	e.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})

	e.GET("/swagger/*", echoSwagger.WrapHandler)

	api := e.Group("/api/v1")

	// Public routes
	api.POST("/auth/signup", authHandler.Signup)
	api.POST("/auth/token", authHandler.Token)

	api.GET("/categories", catalogHandler.ListCategories)
	api.GET("/genres", catalogHandler.ListGenres)
	api.GET("/titles", titleHandler.ListTitles)
	api.GET("/titles/:title_id", titleHandler.GetTitle)
	api.GET("/titles/:title_id/reviews", reviewHandler.ListReviews)
	api.GET("/titles/:title_id/reviews/:review_id", reviewHandler.GetReview)
	api.GET("/titles/:title_id/reviews/:review_id/comments", commentHandler.ListComments)
	api.GET("/titles/:title_id/reviews/:review_id/comments/:comment_id", commentHandler.GetComment)

	// Secured routes (require JWT authentication)
	secured := api.Group("", echojwt.WithConfig(echojwt.Config{
		SigningKey:    []byte(cfg.JWTSecret),
		NewClaimsFunc: principal.NewClaims,
		TokenLookup:   "header:" + echo.HeaderAuthorization,
	}), principalLoader.Middleware())

	secured.GET("/users/me", userHandler.Me)
	secured.PATCH("/users/me", userHandler.UpdateMe)

	secured.GET("/users", userHandler.ListUsers)
	secured.POST("/users", userHandler.CreateUser)
	secured.GET("/users/:username", userHandler.GetUser)
	secured.PATCH("/users/:username", userHandler.UpdateUser)
	secured.DELETE("/users/:username", userHandler.DeleteUser)

	secured.POST("/categories", catalogHandler.CreateCategory)
	secured.DELETE("/categories/:slug", catalogHandler.DeleteCategory)
	secured.POST("/genres", catalogHandler.CreateGenre)
	secured.DELETE("/genres/:slug", catalogHandler.DeleteGenre)

	secured.POST("/titles", titleHandler.CreateTitle)
	secured.PATCH("/titles/:title_id", titleHandler.UpdateTitle)
	secured.DELETE("/titles/:title_id", titleHandler.DeleteTitle)

	secured.POST("/titles/:title_id/reviews", reviewHandler.CreateReview)
	secured.PATCH("/titles/:title_id/reviews/:review_id", reviewHandler.UpdateReview)
	secured.DELETE("/titles/:title_id/reviews/:review_id", reviewHandler.DeleteReview)

	secured.POST("/titles/:title_id/reviews/:review_id/comments", commentHandler.CreateComment)
	secured.PATCH("/titles/:title_id/reviews/:review_id/comments/:comment_id", commentHandler.UpdateComment)
	secured.DELETE("/titles/:title_id/reviews/:review_id/comments/:comment_id", commentHandler.DeleteComment)
}

var slugPattern = regexp.MustCompile(`^[-a-zA-Z0-9_]+$`)

// CustomValidator wraps validator for Echo.
type CustomValidator struct {
	validator *validator.Validate
}

// NewValidator builds the request validator with the slug format rule.
func NewValidator() *CustomValidator {
	v := validator.New()
	_ = v.RegisterValidation("slug", func(fl validator.FieldLevel) bool {
		return slugPattern.MatchString(fl.Field().String())
	})
	return &CustomValidator{validator: v}
}

// Validate implements echo.Validator interface.
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}
