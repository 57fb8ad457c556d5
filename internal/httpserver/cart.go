package httpserver

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	authmw "github.com/Skotchmaster/storefront/internal/middleware/auth"
	"github.com/Skotchmaster/storefront/internal/service"
	"github.com/Skotchmaster/storefront/internal/transport"
	"github.com/Skotchmaster/storefront/pkg/logging"
)

// EventPublisher is implemented by events.Producer. A nil publisher
// disables event emission.
type EventPublisher interface {
	PublishEvent(ctx context.Context, topic, key string, event any) error
}

type CartHTTP struct {
	Svc    *service.CartService
	Events EventPublisher
}

func (h *CartHTTP) publish(c echo.Context, topic string, event map[string]any) {
	if h.Events == nil {
		return
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	key := strconv.FormatUint(uint64(authmw.UserID(c)), 10)
	if err := h.Events.PublishEvent(ctx, topic, key, event); err != nil {
		logging.FromContext(c.Request().Context()).Warn("event publish failed", "topic", topic, "error", err)
	}
}

func (h *CartHTTP) GetCart(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.get")

	lines, err := h.Svc.ListLines(ctx, authmw.UserID(c))
	if err != nil {
		l.Error("get_cart_failed", "status", 500, "error", err)
		return c.JSON(http.StatusInternalServerError, transport.ErrorResponse{Error: "Failed to fetch cart"})
	}

	return c.JSON(http.StatusOK, lines)
}

func (h *CartHTTP) AddToCart(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.add")

	var req transport.AddToCartRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("add_to_cart_failed", "status", 400, "error", err)
		return c.JSON(http.StatusBadRequest, transport.ErrorResponse{Error: "invalid body"})
	}
	if req.ItemID == 0 || req.Quantity == 0 {
		l.Warn("add_to_cart_failed", "status", 400, "reason", "missing fields")
		return c.JSON(http.StatusBadRequest, transport.ErrorResponse{Error: "itemId and quantity are required"})
	}

	userID := authmw.UserID(c)
	if err := h.Svc.AddItem(ctx, userID, req.ItemID, req.Quantity); err != nil {
		switch {
		case errors.Is(err, service.ErrValidation):
			l.Warn("add_to_cart_failed", "status", 400, "error", err)
			return c.JSON(http.StatusBadRequest, transport.ErrorResponse{Error: "itemId and quantity are required"})
		case errors.Is(err, service.ErrNotFound):
			l.Warn("add_to_cart_failed", "status", 404, "error", err)
			return c.JSON(http.StatusNotFound, transport.ErrorResponse{Error: "item not found"})
		default:
			l.Error("add_to_cart_failed", "status", 500, "error", err)
			return c.JSON(http.StatusInternalServerError, transport.ErrorResponse{Error: "Failed to add to cart"})
		}
	}

	h.publish(c, "cart_events", map[string]any{
		"type":     "cart_item_added",
		"user_id":  userID,
		"item_id":  req.ItemID,
		"quantity": req.Quantity,
	})

	return c.JSON(http.StatusOK, transport.SuccessResponse{Success: true})
}

func (h *CartHTTP) UpdateCart(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.update")

	var req transport.UpdateCartRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("update_cart_failed", "status", 400, "error", err)
		return c.JSON(http.StatusBadRequest, transport.ErrorResponse{Error: "invalid body"})
	}
	if req.CartItemID == 0 {
		l.Warn("update_cart_failed", "status", 400, "reason", "missing fields")
		return c.JSON(http.StatusBadRequest, transport.ErrorResponse{Error: "cartItemId and quantity are required"})
	}

	if err := h.Svc.UpdateQuantity(ctx, req.CartItemID, req.Quantity); err != nil {
		switch {
		case errors.Is(err, service.ErrValidation):
			l.Warn("update_cart_failed", "status", 400, "error", err)
			return c.JSON(http.StatusBadRequest, transport.ErrorResponse{Error: "Quantity must be at least 1"})
		case errors.Is(err, service.ErrNotFound):
			l.Warn("update_cart_failed", "status", 404, "error", err)
			return c.JSON(http.StatusNotFound, transport.ErrorResponse{Error: "cart item not found"})
		default:
			l.Error("update_cart_failed", "status", 500, "error", err)
			return c.JSON(http.StatusInternalServerError, transport.ErrorResponse{Error: "Failed to update cart"})
		}
	}

	h.publish(c, "cart_events", map[string]any{
		"type":         "cart_item_updated",
		"user_id":      authmw.UserID(c),
		"cart_item_id": req.CartItemID,
		"quantity":     req.Quantity,
	})

	return c.JSON(http.StatusOK, transport.SuccessResponse{Success: true})
}

func (h *CartHTTP) RemoveFromCart(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.remove")

	raw := c.QueryParam("cartItemId")
	if raw == "" {
		l.Warn("remove_from_cart_failed", "status", 400, "reason", "missing cartItemId")
		return c.JSON(http.StatusBadRequest, transport.ErrorResponse{Error: "cartItemId is required"})
	}
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		l.Warn("remove_from_cart_failed", "status", 400, "reason", "invalid cartItemId")
		return c.JSON(http.StatusBadRequest, transport.ErrorResponse{Error: "cartItemId is required"})
	}

	if err := h.Svc.RemoveLine(ctx, uint(id)); err != nil {
		l.Error("remove_from_cart_failed", "status", 500, "error", err)
		return c.JSON(http.StatusInternalServerError, transport.ErrorResponse{Error: "Failed to remove from cart"})
	}

	h.publish(c, "cart_events", map[string]any{
		"type":         "cart_item_removed",
		"user_id":      authmw.UserID(c),
		"cart_item_id": id,
	})

	return c.JSON(http.StatusOK, transport.SuccessResponse{Success: true})
}

func (h *CartHTTP) Summary(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.summary")

	total, count, err := h.Svc.Summary(ctx, authmw.UserID(c))
	if err != nil {
		l.Error("cart_summary_failed", "status", 500, "error", err)
		return c.JSON(http.StatusInternalServerError, transport.ErrorResponse{Error: "Failed to fetch cart"})
	}

	return c.JSON(http.StatusOK, transport.CartSummaryResponse{Total: total, ItemCount: count})
}
