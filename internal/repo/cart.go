package repo

import (
	"context"

	"gorm.io/gorm"

	"github.com/Skotchmaster/storefront/internal/models"
)

// ListLines returns the user's cart joined with current item data, most
// recently added first.
func (r *GormRepo) ListLines(ctx context.Context, userID uint) ([]models.CartLine, error) {
	lines := make([]models.CartLine, 0)
	err := r.DB.WithContext(ctx).
		Table("cart_items").
		Select(`cart_items.id AS cart_item_id,
			cart_items.quantity,
			items.id AS item_id,
			items.name,
			items.description,
			items.price,
			items.image_url,
			items.rating,
			items.reviews,
			items.on_sale,
			items.sale_percent`).
		Joins("JOIN items ON items.id = cart_items.item_id").
		Where("cart_items.user_id = ?", userID).
		Order("cart_items.added_at DESC").
		Scan(&lines).Error
	if err != nil {
		return nil, err
	}
	return lines, nil
}

// AddItem performs the insert-or-increment for one (user, item) pair inside
// a single transaction, so two concurrent adds of the same new item cannot
// both insert. The unique index on (user_id, item_id) backs this up.
func (r *GormRepo) AddItem(ctx context.Context, userID, itemID, quantity uint) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var item models.Item
		if err := tx.First(&item, itemID).Error; err != nil {
			return err
		}

		res := tx.Model(&models.CartItem{}).
			Where("user_id = ? AND item_id = ?", userID, itemID).
			Update("quantity", gorm.Expr("quantity + ?", quantity))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected > 0 {
			return nil
		}

		return tx.Create(&models.CartItem{
			UserID:   userID,
			ItemID:   itemID,
			Quantity: quantity,
		}).Error
	})
}

// UpdateQuantity sets the line's quantity to an absolute value.
func (r *GormRepo) UpdateQuantity(ctx context.Context, lineID, quantity uint) error {
	res := r.DB.WithContext(ctx).
		Model(&models.CartItem{}).
		Where("id = ?", lineID).
		Update("quantity", quantity)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// RemoveLine deletes the line. Deleting an absent id is not an error.
func (r *GormRepo) RemoveLine(ctx context.Context, lineID uint) error {
	return r.DB.WithContext(ctx).Delete(&models.CartItem{}, lineID).Error
}
