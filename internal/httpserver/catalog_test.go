package httpserver

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/storefront/internal/models"
)

func TestGetItems(t *testing.T) {
	env := newTestEnv(t)
	env.seedItem("alpha", "10", false, 0)
	env.seedItem("beta", "20", true, 50)

	rec, c := env.doJSON(http.MethodGet, "/products", nil)
	require.NoError(t, env.Catalog.GetItems(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Data []models.Item  `json:"data"`
		Meta map[string]any `json:"meta"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Data, 2)
	require.Equal(t, "alpha", resp.Data[0].Name)
	require.Equal(t, float64(2), resp.Meta["total"])
}

func TestGetItem(t *testing.T) {
	env := newTestEnv(t)
	item := env.seedItem("alpha", "10", false, 0)

	rec, c := env.doJSON(http.MethodGet, "/products/"+itoa(item.ID), nil)
	c.SetParamNames("id")
	c.SetParamValues(itoa(item.ID))
	require.NoError(t, env.Catalog.GetItem(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var got models.Item
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Equal(t, item.ID, got.ID)
	require.Equal(t, "alpha", got.Name)
}

func TestGetItemNotFound(t *testing.T) {
	env := newTestEnv(t)

	_, c := env.doJSON(http.MethodGet, "/products/999", nil)
	c.SetParamNames("id")
	c.SetParamValues("999")

	err := env.Catalog.GetItem(c)
	he, ok := err.(*echo.HTTPError)
	require.True(t, ok)
	require.Equal(t, http.StatusNotFound, he.Code)
}

func TestCreateItemPublishesEvent(t *testing.T) {
	env := newTestEnv(t)

	body := map[string]any{
		"name":         "gadget",
		"description":  "shiny",
		"price":        "19.99",
		"on_sale":      true,
		"sale_percent": 10,
	}
	rec, c := env.doJSON(http.MethodPost, "/products", body)
	require.NoError(t, env.Catalog.CreateItem(c))
	require.Equal(t, http.StatusCreated, rec.Code)

	var created models.Item
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	require.NotZero(t, created.ID)
	require.Equal(t, "gadget", created.Name)

	events := env.Events.byTopic("product_events")
	require.Len(t, events, 1)
}

func TestCreateItemNegativePrice(t *testing.T) {
	env := newTestEnv(t)

	body := map[string]any{"name": "gadget", "price": "-5"}
	_, c := env.doJSON(http.MethodPost, "/products", body)

	err := env.Catalog.CreateItem(c)
	he, ok := err.(*echo.HTTPError)
	require.True(t, ok)
	require.Equal(t, http.StatusBadRequest, he.Code)
}

func TestPatchItem(t *testing.T) {
	env := newTestEnv(t)
	item := env.seedItem("alpha", "10", false, 0)

	body := map[string]any{"price": "15", "on_sale": true, "sale_percent": 20}
	rec, c := env.doJSON(http.MethodPatch, "/products/"+itoa(item.ID), body)
	c.SetParamNames("id")
	c.SetParamValues(itoa(item.ID))
	require.NoError(t, env.Catalog.PatchItem(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var got models.Item
	require.NoError(t, env.DB.First(&got, item.ID).Error)
	require.Equal(t, "alpha", got.Name, "unset fields stay untouched")
	require.True(t, got.OnSale)
	require.Equal(t, 20, got.SalePercent)
}

func TestDeleteItem(t *testing.T) {
	env := newTestEnv(t)
	item := env.seedItem("alpha", "10", false, 0)

	rec, c := env.doJSON(http.MethodDelete, "/products/"+itoa(item.ID), nil)
	c.SetParamNames("id")
	c.SetParamValues(itoa(item.ID))
	require.NoError(t, env.Catalog.DeleteItem(c))
	require.Equal(t, http.StatusNoContent, rec.Code)

	var count int64
	require.NoError(t, env.DB.Model(&models.Item{}).Count(&count).Error)
	require.Zero(t, count)

	// Second delete reports not found.
	_, c = env.doJSON(http.MethodDelete, "/products/"+itoa(item.ID), nil)
	c.SetParamNames("id")
	c.SetParamValues(itoa(item.ID))
	err := env.Catalog.DeleteItem(c)
	he, ok := err.(*echo.HTTPError)
	require.True(t, ok)
	require.Equal(t, http.StatusNotFound, he.Code)
}
