package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	authmw "github.com/Skotchmaster/storefront/internal/middleware/auth"
)

type Deps struct {
	Cart    *CartHTTP
	Catalog *CatalogHTTP
	Auth    *AuthHTTP
	Search  *SearchHTTP
	Tokens  *authmw.TokenMiddleware
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/ready", func(c echo.Context) error { return c.NoContent(http.StatusOK) })

	auth := e.Group("/auth")
	auth.POST("/register", d.Auth.Register)
	auth.POST("/login", d.Auth.Login)
	auth.POST("/logout", d.Auth.Logout)

	cart := e.Group("/cart")
	cart.Use(d.Tokens.WithUser)
	cart.GET("", d.Cart.GetCart)
	cart.POST("", d.Cart.AddToCart)
	cart.PUT("", d.Cart.UpdateCart)
	cart.DELETE("", d.Cart.RemoveFromCart)
	cart.GET("/summary", d.Cart.Summary)

	e.GET("/products", d.Catalog.GetItems)
	e.GET("/products/:id", d.Catalog.GetItem)

	admin := e.Group("/products")
	admin.Use(d.Tokens.WithUser, d.Tokens.RequireAdmin)
	admin.POST("", d.Catalog.CreateItem)
	admin.PATCH("/:id", d.Catalog.PatchItem)
	admin.DELETE("/:id", d.Catalog.DeleteItem)

	if d.Search != nil {
		e.GET("/search", d.Search.Handler)
	}
}
