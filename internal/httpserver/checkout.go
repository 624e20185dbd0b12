package httpserver

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/storefront/internal/cart"
	"github.com/Skotchmaster/storefront/internal/service"
	"github.com/Skotchmaster/storefront/internal/transport"
	middleware "github.com/Skotchmaster/storefront/pkg/middleware/auth"
	"github.com/Skotchmaster/storefront/pkg/logging"
)

type CheckoutHTTP struct {
	Placer *service.OrderPlacer
}

// Summary backs the checkout page: the cart plus contact details prefilled
// for logged-in customers.
func (h *CheckoutHTTP) Summary(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "checkout.summary")

	crt, err := h.Placer.Summary(ctx, sessionID(c))
	if err != nil {
		return writeError(c, l, "checkout_summary_error", err)
	}

	resp := transport.CheckoutSummaryResponse{Cart: cart.Present(crt)}
	if u := middleware.CurrentUser(c); u != nil {
		resp.CustomerName = u.Name
		resp.CustomerEmail = u.Email
	}
	return c.JSON(http.StatusOK, resp)
}

func (h *CheckoutHTTP) PlaceOrder(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "checkout.place")

	var info service.ShippingInfo
	if err := c.Bind(&info); err != nil {
		l.Warn("place_order_error", "status", 400, "error", err)
		return c.JSON(http.StatusBadRequest, transport.ErrorResponse{Message: "invalid body"})
	}

	var userID *uuid.UUID
	if u := middleware.CurrentUser(c); u != nil {
		id := u.ID
		userID = &id
	}

	order, err := h.Placer.PlaceOrder(ctx, sessionID(c), info, userID)
	if err != nil {
		return writeError(c, l, "place_order_error", err)
	}

	l.Info("place_order_success", "order_id", order.ID)
	return c.JSON(http.StatusCreated, transport.PlaceOrderResponse{
		OrderID:     order.ID,
		TotalAmount: order.TotalAmount,
		Status:      order.Status,
	})
}
