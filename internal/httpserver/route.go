package httpserver

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	middleware "github.com/Skotchmaster/storefront/pkg/middleware/auth"
	"github.com/Skotchmaster/storefront/pkg/middleware/csrf"
)

type Pinger interface {
	Ping(ctx context.Context) error
}

type Deps struct {
	CartHandler     *CartHTTP
	CheckoutHandler *CheckoutHTTP
	OrderHandler    *OrderHTTP

	JWTSecret  []byte
	AuthClient middleware.Refresher
	SessionTTL time.Duration
	// Nil disables CSRF checks.
	CSRF *csrf.Config
	// Checked by /health/ready.
	Ready []Pinger
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/ready", readiness(d.Ready))

	authMW := middleware.NewAutoRefreshMiddleware(d.JWTSecret, d.AuthClient)

	api := e.Group("/api/v1")
	api.Use(CartSession(d.SessionTTL), authMW.Identify)
	if d.CSRF != nil {
		api.Use(csrf.Middleware(*d.CSRF))
	}

	cart := api.Group("/cart")
	cart.GET("", d.CartHandler.GetCart)
	cart.GET("/badge", d.CartHandler.Badge)
	cart.POST("/items", d.CartHandler.AddToCart)
	cart.PATCH("/items/:product_id", d.CartHandler.UpdateCartItem)
	cart.DELETE("/items/:product_id", d.CartHandler.RemoveFromCart)
	cart.DELETE("", d.CartHandler.ClearCart)

	api.GET("/checkout", d.CheckoutHandler.Summary)
	api.POST("/checkout", d.CheckoutHandler.PlaceOrder)

	api.GET("/orders", d.OrderHandler.MyOrders, authMW.RequireAuth)

	admin := api.Group("/admin", authMW.RequireAdmin)
	admin.GET("/orders", d.OrderHandler.ListOrders)
	admin.GET("/orders/:id", d.OrderHandler.GetOrder)
}

func readiness(deps []Pinger) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
		defer cancel()
		for _, p := range deps {
			if err := p.Ping(ctx); err != nil {
				return c.JSON(http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
			}
		}
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	}
}
