package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/Skotchmaster/storefront/internal/models"
	"github.com/Skotchmaster/storefront/internal/pricing"
	"github.com/Skotchmaster/storefront/internal/repo"
)

type CartService struct {
	Repo *repo.GormRepo
}

func (s *CartService) ListLines(ctx context.Context, userID uint) ([]models.CartLine, error) {
	return s.Repo.ListLines(ctx, userID)
}

// AddItem merges additively: re-adding an item already in the cart bumps
// the existing line by the requested quantity.
func (s *CartService) AddItem(ctx context.Context, userID, itemID, quantity uint) error {
	if itemID == 0 {
		return fmt.Errorf("itemId is required: %w", ErrValidation)
	}
	if quantity < 1 {
		return fmt.Errorf("quantity must be at least 1: %w", ErrValidation)
	}

	if err := s.Repo.AddItem(ctx, userID, itemID, quantity); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("item %d does not exist: %w", itemID, ErrNotFound)
		}
		return err
	}
	return nil
}

// UpdateQuantity sets an absolute quantity, in contrast with AddItem.
// Quantity zero is rejected, not treated as removal.
func (s *CartService) UpdateQuantity(ctx context.Context, lineID uint, quantity int) error {
	if lineID == 0 {
		return fmt.Errorf("cartItemId is required: %w", ErrValidation)
	}
	if quantity < 1 {
		return fmt.Errorf("quantity must be at least 1: %w", ErrValidation)
	}

	if err := s.Repo.UpdateQuantity(ctx, lineID, uint(quantity)); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("cart line %d does not exist: %w", lineID, ErrNotFound)
		}
		return err
	}
	return nil
}

// RemoveLine is idempotent: removing an id that is already gone succeeds.
func (s *CartService) RemoveLine(ctx context.Context, lineID uint) error {
	if lineID == 0 {
		return fmt.Errorf("cartItemId is required: %w", ErrValidation)
	}
	return s.Repo.RemoveLine(ctx, lineID)
}

func (s *CartService) Summary(ctx context.Context, userID uint) (decimal.Decimal, uint, error) {
	lines, err := s.Repo.ListLines(ctx, userID)
	if err != nil {
		return decimal.Zero, 0, err
	}
	return pricing.CartTotal(lines), pricing.CartItemCount(lines), nil
}
