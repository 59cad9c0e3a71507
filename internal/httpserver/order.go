package httpserver

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/finobags/shop/internal/logging"
	"github.com/finobags/shop/internal/middleware/sessionmw"
	"github.com/finobags/shop/internal/repo"
	"github.com/finobags/shop/internal/util"
)

type OrderHTTP struct {
	Repo *repo.GormRepo
}

// ListOrders returns the logged-in user's orders, newest first.
func (h *OrderHTTP) ListOrders(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.list")

	sess := sessionmw.FromContext(c)
	if sess == nil || sess.UserID() == 0 {
		l.Warn("list_orders_error", "status", 401)
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "login required"})
	}

	page, _ := strconv.Atoi(c.QueryParam("page"))
	size, _ := strconv.Atoi(c.QueryParam("size"))
	offset, limit := util.Calculate(page, size)

	orders, err := h.Repo.ListOrders(ctx, sess.UserID(), limit, offset)
	if err != nil {
		l.Error("list_orders_error", "status", 500, "error", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}

	return c.JSON(http.StatusOK, orders)
}
