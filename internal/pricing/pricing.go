// Package pricing derives effective prices and cart totals. It is pure: no
// I/O, no mutation of its inputs.
package pricing

import (
	"github.com/shopspring/decimal"

	"github.com/Skotchmaster/storefront/internal/models"
)

var hundred = decimal.NewFromInt(100)

func unitPrice(price decimal.Decimal, onSale bool, salePercent int) decimal.Decimal {
	if !onSale || salePercent <= 0 {
		return price
	}
	if salePercent >= 100 {
		return decimal.Zero
	}
	return price.Mul(decimal.NewFromInt(int64(100 - salePercent))).Div(hundred).Round(2)
}

// EffectiveUnitPrice applies the active sale discount, if any. sale_percent
// is ignored unless the item is on sale.
func EffectiveUnitPrice(it models.Item) decimal.Decimal {
	return unitPrice(it.Price, it.OnSale, it.SalePercent)
}

func LineTotal(it models.Item, quantity uint) decimal.Decimal {
	return EffectiveUnitPrice(it).Mul(decimal.NewFromInt(int64(quantity)))
}

func CartTotal(lines []models.CartLine) decimal.Decimal {
	total := decimal.Zero
	for _, l := range lines {
		line := unitPrice(l.Price, l.OnSale, l.SalePercent).Mul(decimal.NewFromInt(int64(l.Quantity)))
		total = total.Add(line)
	}
	return total
}

func CartItemCount(lines []models.CartLine) uint {
	var n uint
	for _, l := range lines {
		n += l.Quantity
	}
	return n
}
