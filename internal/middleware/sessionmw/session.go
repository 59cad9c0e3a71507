package sessionmw

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/finobags/shop/internal/session"
)

const (
	CookieName = "session"
	ContextKey = "session"
)

func CreateCookie(name, value, path string, expTime time.Time) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     path,
		Expires:  expTime,
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteLaxMode,
	}
}

func DeleteCookie(name, path string) *http.Cookie {
	return CreateCookie(name, "", path, time.Now().Add(-1*time.Hour))
}

// Middleware makes sure every request runs with a live server-side session.
// The cookie carries a signed token wrapping the session id; anything
// missing, forged or pointing at a dead session gets a fresh session and a
// new cookie.
func Middleware(store *session.Store, secret []byte) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			var sess *session.Session

			if cookie, err := c.Cookie(CookieName); err == nil && cookie.Value != "" {
				if id, err := session.ParseID(cookie.Value, secret); err == nil {
					if s, ok := store.Get(id); ok {
						sess = s
					}
				}
			}

			if sess == nil {
				sess = store.New()
				token, err := session.SignID(sess.ID(), secret)
				if err != nil {
					return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
				}
				c.SetCookie(CreateCookie(CookieName, token, "/", time.Now().Add(session.TokenTTL)))
			}

			c.Set(ContextKey, sess)
			return next(c)
		}
	}
}

// FromContext returns the request session placed there by Middleware.
func FromContext(c echo.Context) *session.Session {
	if s, ok := c.Get(ContextKey).(*session.Session); ok {
		return s
	}
	return nil
}
