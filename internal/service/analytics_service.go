package service

import (
	"context"
	"fmt"

	"catalog-service/internal/domain"
)

type analyticsService struct {
	itemRepo domain.ItemRepository // The item repository also serves the analytics queries
}

// NewAnalyticsService creates a new AnalyticsService.
func NewAnalyticsService(itemRepo domain.ItemRepository) domain.AnalyticsService {
	return &analyticsService{itemRepo: itemRepo}
}

// CalculateTotalStockValue calculates the total stock value of the catalog.
func (s *analyticsService) CalculateTotalStockValue(ctx context.Context) (float64, error) {
	value, err := s.itemRepo.TotalStockValue(ctx)
	if err != nil {
		return 0, fmt.Errorf("service: failed to calculate total stock value: %w", err)
	}
	return value, nil
}

// ListLowStockItems lists items that are low in stock.
func (s *analyticsService) ListLowStockItems(ctx context.Context, threshold int) ([]domain.Item, error) {
	if threshold < 0 {
		threshold = 5 // Default threshold if not sensible
	}
	items, err := s.itemRepo.LowStockItems(ctx, threshold)
	if err != nil {
		return nil, fmt.Errorf("service: failed to list low stock items: %w", err)
	}
	return items, nil
}

// ListMostValuableItems lists the top N items by stock value.
func (s *analyticsService) ListMostValuableItems(ctx context.Context, limit int) ([]domain.Item, error) {
	if limit <= 0 {
		limit = 5
	} else if limit > 50 {
		limit = 50 // Max limit for this query
	}
	items, err := s.itemRepo.MostValuableItems(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("service: failed to list most valuable items: %w", err)
	}
	return items, nil
}
