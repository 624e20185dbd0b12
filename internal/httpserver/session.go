package httpserver

import (
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/storefront/pkg/cookies"
)

const (
	SessionCookie = "cart_session"
	ctxSessionID  = "session_id"
)

// CartSession makes sure every request carries a cart session id, issuing a
// fresh one when the cookie is missing or malformed.
func CartSession(ttl time.Duration) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			id := ""
			if ck, err := c.Cookie(SessionCookie); err == nil {
				if parsed, err := uuid.Parse(ck.Value); err == nil {
					id = parsed.String()
				}
			}
			if id == "" {
				id = uuid.NewString()
			}
			c.SetCookie(cookies.Create(SessionCookie, id, "/", time.Now().Add(ttl)))
			c.Set(ctxSessionID, id)
			return next(c)
		}
	}
}

func sessionID(c echo.Context) string {
	s, _ := c.Get(ctxSessionID).(string)
	return s
}
