package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/vitikova/user-service/internal/logging"
	"github.com/vitikova/user-service/internal/middleware"
	"github.com/vitikova/user-service/internal/service"
	"github.com/vitikova/user-service/internal/transport"
)

type AuthHTTP struct {
	Svc *service.AuthService
}

func (h *AuthHTTP) SignUp(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth_sign_up")

	var req transport.SignUpRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("sign_up_error", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	token, err := h.Svc.SignUp(ctx, req)
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, transport.TokenResponse{AccessToken: token})
}

func (h *AuthHTTP) SignIn(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth_sign_in")

	var req transport.SignInRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("sign_in_error", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	token, err := h.Svc.SignIn(ctx, req)
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, transport.TokenResponse{AccessToken: token})
}

// Check answers only cryptographic validity; revocation is the access
// filter's concern and /auth routes bypass the filter.
func (h *AuthHTTP) Check(c echo.Context) error {
	token := middleware.ExtractBearer(c.Request().Header.Get(echo.HeaderAuthorization))
	return c.JSON(http.StatusOK, h.Svc.Check(token))
}
