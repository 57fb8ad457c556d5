package httpserver

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/elastic/go-elasticsearch/v9"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/Skotchmaster/storefront/internal/models"
	"github.com/Skotchmaster/storefront/internal/search"
	"github.com/Skotchmaster/storefront/internal/service"
	"github.com/Skotchmaster/storefront/internal/transport"
	"github.com/Skotchmaster/storefront/internal/util"
	"github.com/Skotchmaster/storefront/pkg/logging"
)

type CatalogHTTP struct {
	Svc     *service.CatalogService
	Events  EventPublisher
	ES      *elasticsearch.Client
	ESIndex string
}

func (h *CatalogHTTP) publish(c echo.Context, event map[string]any) {
	if h.Events == nil {
		return
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	key := ""
	if id, ok := event["item_id"]; ok {
		key = toKey(id)
	}
	if err := h.Events.PublishEvent(ctx, "product_events", key, event); err != nil {
		logging.FromContext(c.Request().Context()).Warn("event publish failed", "topic", "product_events", "error", err)
	}
}

func toKey(v any) string {
	switch n := v.(type) {
	case uint:
		return strconv.FormatUint(uint64(n), 10)
	case int:
		return strconv.Itoa(n)
	default:
		return ""
	}
}

func (h *CatalogHTTP) index(c echo.Context, item *models.Item) {
	if h.ES == nil {
		return
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	if err := search.IndexItem(ctx, h.ES, h.ESIndex, item); err != nil {
		logging.FromContext(c.Request().Context()).Warn("index failed", "item_id", item.ID, "error", err)
	}
}

func (h *CatalogHTTP) GetItem(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "catalog.get_item")

	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		l.Warn("get_item_failed", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid item id")
	}

	item, err := h.Svc.GetItem(ctx, uint(id))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			l.Warn("get_item_failed", "status", 404, "item_id", id)
			return echo.NewHTTPError(http.StatusNotFound, "item not found")
		}
		l.Error("get_item_failed", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot get item")
	}

	return c.JSON(http.StatusOK, item)
}

func (h *CatalogHTTP) GetItems(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "catalog.get_items")

	page := util.ParseIntDefault(c.QueryParam("page"), 1)
	size := util.ParseIntDefault(c.QueryParam("size"), util.DefaultPageSize)
	offset, limit := util.Calculate(page, size)

	total, items, err := h.Svc.GetItems(ctx, offset, limit)
	if err != nil {
		l.Error("get_items_failed", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot list items")
	}

	return c.JSON(http.StatusOK, map[string]any{
		"data": items,
		"meta": map[string]any{
			"page":        page,
			"size":        limit,
			"total":       total,
			"total_pages": (total + int64(limit) - 1) / int64(limit),
			"has_prev":    page > 1,
			"has_next":    int64(offset+limit) < total,
		},
	})
}

func (h *CatalogHTTP) CreateItem(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "catalog.create_item")

	var req transport.CreateItemRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("create_item_failed", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	item := models.Item{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		ImageURL:    req.ImageURL,
		OnSale:      req.OnSale,
		SalePercent: req.SalePercent,
	}
	if err := h.Svc.CreateItem(ctx, &item); err != nil {
		if errors.Is(err, service.ErrValidation) {
			l.Warn("create_item_failed", "status", 400, "error", err)
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		l.Error("create_item_failed", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot create item")
	}

	h.publish(c, map[string]any{
		"type":    "product_created",
		"item_id": item.ID,
		"name":    item.Name,
	})
	h.index(c, &item)

	return c.JSON(http.StatusCreated, item)
}

func (h *CatalogHTTP) PatchItem(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "catalog.patch_item")

	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		l.Warn("patch_item_failed", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid item id")
	}

	var req transport.PatchItemRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("patch_item_failed", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	item, err := h.Svc.PatchItem(ctx, uint(id), req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrValidation):
			l.Warn("patch_item_failed", "status", 400, "error", err)
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		case errors.Is(err, gorm.ErrRecordNotFound):
			l.Warn("patch_item_failed", "status", 404, "item_id", id)
			return echo.NewHTTPError(http.StatusNotFound, "item not found")
		default:
			l.Error("patch_item_failed", "status", 500, "error", err)
			return echo.NewHTTPError(http.StatusInternalServerError, "cannot update item")
		}
	}

	h.publish(c, map[string]any{
		"type":    "product_updated",
		"item_id": item.ID,
		"name":    item.Name,
	})
	h.index(c, item)

	return c.JSON(http.StatusOK, item)
}

func (h *CatalogHTTP) DeleteItem(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "catalog.delete_item")

	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		l.Warn("delete_item_failed", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid item id")
	}

	if err := h.Svc.DeleteItem(ctx, uint(id)); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			l.Warn("delete_item_failed", "status", 404, "item_id", id)
			return echo.NewHTTPError(http.StatusNotFound, "item not found")
		}
		l.Error("delete_item_failed", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot delete item")
	}

	h.publish(c, map[string]any{
		"type":    "product_deleted",
		"item_id": uint(id),
	})
	if h.ES != nil {
		ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
		defer cancel()
		if err := search.DeleteItem(ctx, h.ES, h.ESIndex, uint(id)); err != nil {
			l.Warn("index delete failed", "item_id", id, "error", err)
		}
	}

	return c.NoContent(http.StatusNoContent)
}
