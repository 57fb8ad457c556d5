package service

import (
	"context"
	"fmt"

	"github.com/Skotchmaster/storefront/internal/models"
	"github.com/Skotchmaster/storefront/internal/repo"
	"github.com/Skotchmaster/storefront/internal/transport"
)

type CatalogService struct {
	Repo *repo.GormRepo
}

func (s *CatalogService) GetItem(ctx context.Context, id uint) (*models.Item, error) {
	return s.Repo.GetItem(ctx, id)
}

func (s *CatalogService) GetItems(ctx context.Context, offset, limit int) (int64, []models.Item, error) {
	return s.Repo.GetItems(ctx, offset, limit)
}

func (s *CatalogService) CreateItem(ctx context.Context, item *models.Item) error {
	if item.Name == "" {
		return fmt.Errorf("name is required: %w", ErrValidation)
	}
	if item.Price.IsNegative() {
		return fmt.Errorf("price cannot be negative: %w", ErrValidation)
	}
	if item.SalePercent < 0 || item.SalePercent > 100 {
		return fmt.Errorf("sale_percent must be in [0, 100]: %w", ErrValidation)
	}
	return s.Repo.CreateItem(ctx, item)
}

func (s *CatalogService) PatchItem(ctx context.Context, id uint, req transport.PatchItemRequest) (*models.Item, error) {
	if req.Price != nil && req.Price.IsNegative() {
		return nil, fmt.Errorf("price cannot be negative: %w", ErrValidation)
	}
	if req.SalePercent != nil && (*req.SalePercent < 0 || *req.SalePercent > 100) {
		return nil, fmt.Errorf("sale_percent must be in [0, 100]: %w", ErrValidation)
	}
	return s.Repo.PatchItem(ctx, id, req)
}

func (s *CatalogService) DeleteItem(ctx context.Context, id uint) error {
	return s.Repo.DeleteItem(ctx, id)
}
