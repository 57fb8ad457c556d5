package transport

import "github.com/shopspring/decimal"

type AddToCartRequest struct {
	ItemID   uint `json:"itemId"`
	Quantity uint `json:"quantity"`
}

type UpdateCartRequest struct {
	CartItemID uint `json:"cartItemId"`
	Quantity   int  `json:"quantity"`
}

type SuccessResponse struct {
	Success bool `json:"success"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

type CartSummaryResponse struct {
	Total     decimal.Decimal `json:"total"`
	ItemCount uint            `json:"item_count"`
}

type CreateItemRequest struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	ImageURL    string          `json:"image_url"`
	OnSale      bool            `json:"on_sale"`
	SalePercent int             `json:"sale_percent"`
}

type PatchItemRequest struct {
	Name        *string          `json:"name"`
	Description *string          `json:"description"`
	Price       *decimal.Decimal `json:"price"`
	ImageURL    *string          `json:"image_url"`
	OnSale      *bool            `json:"on_sale"`
	SalePercent *int             `json:"sale_percent"`
}

type RegisterRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}
