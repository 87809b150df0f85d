package httpserver

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	mw "github.com/vitikova/user-service/internal/middleware"
	"github.com/vitikova/user-service/internal/models"
)

// PublicPrefixes are the always-public paths the access filter skips.
var PublicPrefixes = []string{"/auth", "/health"}

type Deps struct {
	Auth   *AuthHTTP
	Users  *UserHTTP
	Filter *mw.AccessFilter
	Logger *slog.Logger
	Redis  *redis.Client
}

func Register(e *echo.Echo, d *Deps) {
	e.Use(mw.RequestLogger(d.Logger))
	e.Use(d.Filter.Filter)

	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/ready", func(c echo.Context) error { return c.NoContent(http.StatusOK) })

	auth := e.Group("/auth", mw.RateLimit(d.Redis, 20, time.Minute))
	auth.POST("/signUp", d.Auth.SignUp)
	auth.POST("/signIn", d.Auth.SignIn)
	auth.POST("/check", d.Auth.Check)

	users := e.Group("/users")
	users.GET("/me", d.Users.Me)
	users.GET("/logout", d.Users.Logout)

	admin := users.Group("", mw.RequireRole(models.RoleAdmin))
	admin.GET("", d.Users.FindAll)
	admin.GET("/search", d.Users.Search)
	admin.GET("/:id", d.Users.FindByID)
	admin.POST("", d.Users.Create)
	admin.PUT("/:id", d.Users.Update)
	admin.DELETE("/:id", d.Users.Delete)
}
