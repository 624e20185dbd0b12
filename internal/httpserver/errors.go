package httpserver

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/storefront/internal/service"
	"github.com/Skotchmaster/storefront/internal/transport"
)

// writeError maps service errors onto HTTP responses and logs them under
// event.
func writeError(c echo.Context, l *slog.Logger, event string, err error) error {
	var verr *service.ValidationError
	if errors.As(err, &verr) {
		l.Warn(event, "status", http.StatusUnprocessableEntity, "reason", "validation", "error", err)
		return c.JSON(http.StatusUnprocessableEntity, transport.ErrorResponse{
			Message: "validation failed",
			Errors:  verr.Fields,
		})
	}

	var status int
	var msg string
	switch {
	case errors.Is(err, service.ErrValidation):
		status, msg = http.StatusBadRequest, err.Error()
	case errors.Is(err, service.ErrNotFound):
		status, msg = http.StatusNotFound, err.Error()
	case errors.Is(err, service.ErrEmptyCart):
		status, msg = http.StatusConflict, "Your cart is empty. Please add items before checking out."
	case errors.Is(err, service.ErrInsufficientStock), errors.Is(err, service.ErrOutOfStock):
		status, msg = http.StatusConflict, err.Error()
	default:
		l.Error(event, "status", http.StatusInternalServerError, "error", err)
		return c.JSON(http.StatusInternalServerError, transport.ErrorResponse{Message: "internal server error"})
	}

	l.Warn(event, "status", status, "error", err)
	return c.JSON(status, transport.ErrorResponse{Message: msg})
}
