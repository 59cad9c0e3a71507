package httpserver

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/finobags/shop/internal/logging"
	"github.com/finobags/shop/internal/middleware/sessionmw"
	"github.com/finobags/shop/internal/mykafka"
	"github.com/finobags/shop/internal/service"
	"github.com/finobags/shop/internal/session"
)

type AuthHTTP struct {
	Svc      *service.AuthService
	Sessions *session.Store
	Producer *mykafka.Producer
}

type credentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (h *AuthHTTP) Register(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.register")

	var req credentialsRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("register_error", "status", 400, "error", err)
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	user, err := h.Svc.Register(ctx, req.Username, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrValidation):
			l.Warn("register_error", "status", 400, "error", err)
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "username and password required"})
		case errors.Is(err, service.ErrUserExists):
			l.Warn("register_error", "status", 409, "error", err)
			return c.JSON(http.StatusConflict, echo.Map{"error": "user already exists"})
		default:
			l.Error("register_error", "status", 500, "error", err)
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
		}
	}

	publish(c, h.Producer, "user_events", fmt.Sprint(user.ID), map[string]any{
		"type":     "user_registered",
		"user_id":  user.ID,
		"username": user.Username,
	})

	l.Info("user registered", "user_id", user.ID)
	return c.JSON(http.StatusOK, echo.Map{"success": true})
}

func (h *AuthHTTP) Login(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.login")

	var req credentialsRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("login_error", "status", 400, "error", err)
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	user, err := h.Svc.Login(ctx, req.Username, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrValidation):
			l.Warn("login_error", "status", 400, "error", err)
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "username and password required"})
		case errors.Is(err, service.ErrAuthRequired):
			l.Warn("login_error", "status", 401)
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
		default:
			l.Error("login_error", "status", 500, "error", err)
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
		}
	}

	sess := sessionmw.FromContext(c)
	if sess == nil {
		l.Error("login_error", "status", 500, "error", "no session")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}
	sess.SetUser(user.ID)

	publish(c, h.Producer, "user_events", fmt.Sprint(user.ID), map[string]any{
		"type":     "user_logged_in",
		"user_id":  user.ID,
		"username": user.Username,
	})

	l.Info("user logged in", "user_id", user.ID)
	return c.JSON(http.StatusOK, echo.Map{"user": user})
}

// Logout destroys the session server-side and expires the cookie; the cart
// dies with the session.
func (h *AuthHTTP) Logout(c echo.Context) error {
	l := logging.FromContext(c.Request().Context()).With("handler", "auth.logout")

	if sess := sessionmw.FromContext(c); sess != nil {
		h.Sessions.Delete(sess.ID())
	}
	c.SetCookie(sessionmw.DeleteCookie(sessionmw.CookieName, "/"))

	l.Info("logged out")
	return c.JSON(http.StatusOK, echo.Map{"message": "logged out"})
}
