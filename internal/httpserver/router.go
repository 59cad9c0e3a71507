package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/finobags/shop/internal/metrics"
	"github.com/finobags/shop/internal/middleware/sessionmw"
	"github.com/finobags/shop/internal/session"
)

type Deps struct {
	AuthHandler    *AuthHTTP
	ProductHandler *ProductHTTP
	CartHandler    *CartHTTP
	OrderHandler   *OrderHTTP
	SearchHandler  *SearchHTTP

	Sessions      *session.Store
	SessionSecret []byte
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/ready", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/metrics", echo.WrapHandler(metrics.Handler()))

	api := e.Group("/api", sessionmw.Middleware(d.Sessions, d.SessionSecret))

	api.POST("/register", d.AuthHandler.Register)
	api.POST("/login", d.AuthHandler.Login)
	api.POST("/logout", d.AuthHandler.Logout)

	api.GET("/products", d.ProductHandler.GetProducts)
	api.GET("/products/:id", d.ProductHandler.GetProduct)
	if d.SearchHandler != nil {
		api.GET("/products/search", d.SearchHandler.Search)
	}

	api.GET("/cart", d.CartHandler.GetCart)
	api.POST("/cart/add/:id", d.CartHandler.AddToCart)
	api.POST("/cart/checkout", d.CartHandler.Checkout)

	api.GET("/orders", d.OrderHandler.ListOrders)
}
