package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/vitikova/user-service/internal/models"
	"github.com/vitikova/user-service/internal/repo"
	"github.com/vitikova/user-service/internal/tokens"
)

const (
	bearerPrefix = "Bearer "

	ctxKeyLogin = "auth_login"
	ctxKeyRoles = "auth_roles"
	ctxKeyToken = "auth_token"
)

// AccessFilter gates every non-public request: it resolves the caller's
// identity from the bearer token, rejects blacklisted users, then rejects
// invalid tokens. Any failure along the way collapses to the same 401.
type AccessFilter struct {
	Repo           *repo.GormRepo
	Tokens         *tokens.Service
	PublicPrefixes []string
}

func NewAccessFilter(r *repo.GormRepo, t *tokens.Service, publicPrefixes ...string) *AccessFilter {
	return &AccessFilter{Repo: r, Tokens: t, PublicPrefixes: publicPrefixes}
}

func (f *AccessFilter) Filter(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if f.isPublic(c.Request().URL.Path) {
			return next(c)
		}

		token := ExtractBearer(c.Request().Header.Get(echo.HeaderAuthorization))

		// The username is read from the payload before any verification;
		// it is only used to look up the stored record.
		username, err := tokens.DecodeUsername(token)
		if err != nil {
			return reject()
		}
		user, err := f.Repo.FindUserByLogin(c.Request().Context(), username)
		if err != nil {
			return reject()
		}

		// Revocation overrides signature validity.
		revoked, err := f.Repo.IsRevoked(c.Request().Context(), user.Login)
		if err != nil || revoked {
			return reject()
		}
		if !f.Tokens.Validate(token) {
			return reject()
		}

		c.Set(ctxKeyLogin, user.Login)
		c.Set(ctxKeyRoles, expandRoles(user))
		c.Set(ctxKeyToken, token)
		return next(c)
	}
}

func (f *AccessFilter) isPublic(path string) bool {
	for _, prefix := range f.PublicPrefixes {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}
	return false
}

func reject() error {
	return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
}

// ExtractBearer returns the raw token from an Authorization header value,
// or "" when the bearer prefix is absent.
func ExtractBearer(header string) string {
	if !strings.HasPrefix(header, bearerPrefix) {
		return ""
	}
	return strings.TrimPrefix(header, bearerPrefix)
}

// expandRoles builds the caller's capability set from the stored roles.
func expandRoles(user *models.User) []models.RoleName {
	seen := make(map[models.RoleName]bool)
	var out []models.RoleName
	for _, r := range user.Roles {
		for _, granted := range r.Name.Expand() {
			if !seen[granted] {
				seen[granted] = true
				out = append(out, granted)
			}
		}
	}
	return out
}

// CurrentLogin returns the authenticated login set by the access filter.
func CurrentLogin(c echo.Context) string {
	if v, ok := c.Get(ctxKeyLogin).(string); ok {
		return v
	}
	return ""
}

// CurrentToken returns the raw bearer token set by the access filter.
func CurrentToken(c echo.Context) string {
	if v, ok := c.Get(ctxKeyToken).(string); ok {
		return v
	}
	return ""
}
