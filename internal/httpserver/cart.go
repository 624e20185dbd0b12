package httpserver

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/storefront/internal/cart"
	"github.com/Skotchmaster/storefront/internal/service"
	"github.com/Skotchmaster/storefront/internal/transport"
	"github.com/Skotchmaster/storefront/pkg/logging"
)

type CartHTTP struct {
	Svc *service.CartService
}

func (h *CartHTTP) GetCart(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "get.cart")

	crt, err := h.Svc.GetCart(ctx, sessionID(c))
	if err != nil {
		return writeError(c, l, "get_cart_error", err)
	}
	return c.JSON(http.StatusOK, cart.Present(crt))
}

func (h *CartHTTP) Badge(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.badge")

	crt, err := h.Svc.GetCart(ctx, sessionID(c))
	if err != nil {
		return writeError(c, l, "cart_badge_error", err)
	}
	return c.JSON(http.StatusOK, cart.Badge(crt))
}

func (h *CartHTTP) AddToCart(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "add.cart")

	var req transport.AddToCartRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("add_to_cart_error", "status", 400, "error", err)
		return c.JSON(http.StatusBadRequest, transport.ErrorResponse{Message: "invalid body"})
	}

	res, err := h.Svc.AddToCart(ctx, sessionID(c), req.ProductID, req.Quantity)
	if err != nil {
		return writeError(c, l, "add_to_cart_error", err)
	}

	l.Info("add_to_cart_success", "product_id", req.ProductID, "added", res.Added, "clamped", res.Clamped)
	return c.JSON(http.StatusOK, transport.AddToCartResponse{
		View:    cart.Present(res.Cart),
		Added:   res.Added,
		Clamped: res.Clamped,
	})
}

func (h *CartHTTP) UpdateCartItem(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "update.cart.item")

	productID, err := productIDParam(c)
	if err != nil {
		l.Warn("update_cart_item_error", "status", 400, "error", err)
		return c.JSON(http.StatusBadRequest, transport.ErrorResponse{Message: "invalid product id"})
	}

	var req transport.UpdateCartItemRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("update_cart_item_error", "status", 400, "error", err)
		return c.JSON(http.StatusBadRequest, transport.ErrorResponse{Message: "invalid body"})
	}
	if req.Quantity == nil {
		l.Warn("update_cart_item_error", "status", 400, "error", "quantity is missing")
		return c.JSON(http.StatusBadRequest, transport.ErrorResponse{Message: "quantity is required"})
	}

	crt, err := h.Svc.UpdateCartItem(ctx, sessionID(c), productID, *req.Quantity)
	if err != nil {
		return writeError(c, l, "update_cart_item_error", err)
	}
	return c.JSON(http.StatusOK, cart.Present(crt))
}

func (h *CartHTTP) RemoveFromCart(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "remove.cart.item")

	productID, err := productIDParam(c)
	if err != nil {
		l.Warn("remove_cart_item_error", "status", 400, "error", err)
		return c.JSON(http.StatusBadRequest, transport.ErrorResponse{Message: "invalid product id"})
	}

	crt, err := h.Svc.RemoveFromCart(ctx, sessionID(c), productID)
	if err != nil {
		return writeError(c, l, "remove_cart_item_error", err)
	}
	return c.JSON(http.StatusOK, cart.Present(crt))
}

func (h *CartHTTP) ClearCart(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "clear.cart")

	crt, err := h.Svc.ClearCart(ctx, sessionID(c))
	if err != nil {
		return writeError(c, l, "clear_cart_error", err)
	}

	l.Info("clear_cart_success")
	return c.JSON(http.StatusOK, cart.Present(crt))
}

func productIDParam(c echo.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("product_id"), 10, 0)
	if err != nil {
		return 0, err
	}
	return uint(id), nil
}
