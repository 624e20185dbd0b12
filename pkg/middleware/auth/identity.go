package middleware

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/storefront/pkg/authclient"
	"github.com/Skotchmaster/storefront/pkg/cookies"
	"github.com/Skotchmaster/storefront/pkg/logging"
	"github.com/Skotchmaster/storefront/pkg/tokens"
)

const (
	AccessCookie  = "accessToken"
	RefreshCookie = "refreshToken"

	ctxIdentity   = "identity"
	ctxIdentified = "identified"
	RoleAdmin     = "admin"
)

// Identity is the logged-in customer as asserted by the access token.
type Identity struct {
	ID    uuid.UUID
	Name  string
	Email string
	Role  string
}

// CurrentUser returns nil for guests.
func CurrentUser(c echo.Context) *Identity {
	id, _ := c.Get(ctxIdentity).(*Identity)
	return id
}

type Refresher interface {
	RefreshTokens(ctx context.Context, refreshToken, accessToken string) (*authclient.RefreshResponse, error)
}

type AutoRefreshMiddleware struct {
	JWTSecret []byte
	// Nil disables refreshing; an expired token then means guest.
	AuthClient Refresher
}

func NewAutoRefreshMiddleware(secret []byte, authClient Refresher) *AutoRefreshMiddleware {
	return &AutoRefreshMiddleware{
		JWTSecret:  secret,
		AuthClient: authClient,
	}
}

// Identify resolves the caller's identity if one is presented. It never
// rejects a request: guests browse and check out without a token. Running it
// twice on one request is a no-op the second time.
func (m *AutoRefreshMiddleware) Identify(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if c.Get(ctxIdentified) != nil {
			return next(c)
		}
		c.Set(ctxIdentified, true)

		l := logging.FromContext(c.Request().Context()).With("mw", "identify")

		accessCookie, err := c.Cookie(AccessCookie)
		if err != nil || accessCookie.Value == "" {
			return next(c)
		}

		claims, err := tokens.AccessClaimsFromToken(accessCookie.Value, m.JWTSecret)
		if err == nil {
			setIdentity(c, claims)
			return next(c)
		}

		if !errors.Is(err, jwt.ErrTokenExpired) || m.AuthClient == nil {
			l.Warn("identify_failed", "reason", "invalid access token", "error", err)
			clearAuthCookies(c)
			return next(c)
		}

		refreshCookie, rErr := c.Cookie(RefreshCookie)
		if rErr != nil || refreshCookie.Value == "" {
			clearAuthCookies(c)
			return next(c)
		}

		resp, refErr := m.AuthClient.RefreshTokens(c.Request().Context(), refreshCookie.Value, accessCookie.Value)
		if refErr != nil {
			l.Warn("identify_failed", "reason", "refresh failed", "error", refErr)
			clearAuthCookies(c)
			return next(c)
		}

		newClaims, pErr := tokens.AccessClaimsFromToken(resp.AccessToken, m.JWTSecret)
		if pErr != nil {
			l.Warn("identify_failed", "reason", "refreshed token invalid", "error", pErr)
			clearAuthCookies(c)
			return next(c)
		}

		c.SetCookie(cookies.Create(AccessCookie, resp.AccessToken, "/", time.Unix(resp.AccessExp, 0)))
		c.SetCookie(cookies.Create(RefreshCookie, resp.RefreshToken, "/", time.Unix(resp.RefreshExp, 0)))
		setIdentity(c, newClaims)

		return next(c)
	}
}

func (m *AutoRefreshMiddleware) RequireAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return m.Identify(func(c echo.Context) error {
		if CurrentUser(c) == nil {
			return echo.NewHTTPError(http.StatusUnauthorized, "login required")
		}
		return next(c)
	})
}

func (m *AutoRefreshMiddleware) RequireAdmin(next echo.HandlerFunc) echo.HandlerFunc {
	return m.RequireAuth(func(c echo.Context) error {
		if CurrentUser(c).Role != RoleAdmin {
			return echo.NewHTTPError(http.StatusForbidden, "admin access required")
		}
		return next(c)
	})
}

func setIdentity(c echo.Context, claims *tokens.AccessClaims) {
	id, err := uuid.Parse(claims.Subject)
	if err != nil {
		return
	}
	c.Set(ctxIdentity, &Identity{
		ID:    id,
		Name:  claims.Name,
		Email: claims.Email,
		Role:  claims.Role,
	})
}

func clearAuthCookies(c echo.Context) {
	c.SetCookie(cookies.Delete(AccessCookie, "/"))
	c.SetCookie(cookies.Delete(RefreshCookie, "/"))
}
