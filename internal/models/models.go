package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type Item struct {
	ID          uint            `gorm:"primaryKey;autoIncrement"                       json:"id"`
	Name        string          `gorm:"not null"                                       json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `gorm:"type:numeric(12,2);not null"                    json:"price"`
	ImageURL    string          `json:"image_url"`
	Rating      float64         `json:"rating"`
	Reviews     int             `json:"reviews"`
	OnSale      bool            `gorm:"default:false"                                  json:"on_sale"`
	SalePercent int             `gorm:"default:0;check:sale_percent BETWEEN 0 AND 100" json:"sale_percent"`
}

type CartItem struct {
	ID       uint      `gorm:"primaryKey;autoIncrement"           json:"id"`
	UserID   uint      `gorm:"uniqueIndex:idx_user_item;not null" json:"user_id"`
	ItemID   uint      `gorm:"uniqueIndex:idx_user_item;not null" json:"item_id"`
	Quantity uint      `gorm:"default:1;check:quantity>0"         json:"quantity"`
	AddedAt  time.Time `gorm:"autoCreateTime;index"               json:"added_at"`
}

// CartLine is the read model for the cart listing: one cart row joined with
// the current item attributes.
type CartLine struct {
	CartItemID  uint            `json:"cart_item_id"`
	Quantity    uint            `json:"quantity"`
	ItemID      uint            `json:"item_id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	ImageURL    string          `json:"image_url"`
	Rating      float64         `json:"rating"`
	Reviews     int             `json:"reviews"`
	OnSale      bool            `json:"on_sale"`
	SalePercent int             `json:"sale_percent"`
}

type User struct {
	ID           uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Username     string `gorm:"unique;not null"          json:"username"`
	PasswordHash string `gorm:"not null"                 json:"-"`
	Role         string `gorm:"not null"                 json:"role"`
}

type RefreshToken struct {
	ID        uint      `gorm:"primaryKey"      json:"id"`
	Token     string    `gorm:"unique;not null" json:"token"`
	UserID    uint      `gorm:"index;not null"  json:"user_id"`
	ExpiresAt time.Time `gorm:"not null"        json:"expires_at"`
	Revoked   bool      `gorm:"default:false"   json:"revoked"`
}

func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(&Item{}, &CartItem{}, &User{}, &RefreshToken{})
}
