package service

import (
	"context"
	"fmt"
	"log"

	"catalog-service/internal/domain"
)

// EventBroadcaster pushes catalog events to connected clients.
// *realtime.Hub satisfies it; tests substitute a recorder.
type EventBroadcaster interface {
	BroadcastStockUpdate(payload domain.StockUpdatePayload)
	BroadcastItemDeleted(payload domain.ItemDeletedPayload)
}

type itemService struct {
	repo domain.ItemRepository
	hub  EventBroadcaster // may be nil in tests
}

// NewItemService creates a new ItemService.
func NewItemService(repo domain.ItemRepository, hub EventBroadcaster) domain.ItemService {
	return &itemService{
		repo: repo,
		hub:  hub,
	}
}

// CreateItem handles the business logic for creating a new catalog item.
// Identity and timestamps are assigned by the repository.
func (s *itemService) CreateItem(ctx context.Context, req *domain.CreateItemRequest) (*domain.Item, error) {
	newItem := &domain.Item{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Category:    req.Category,
		Stock:       req.Stock,
	}

	created, err := s.repo.Save(ctx, newItem)
	if err != nil {
		return nil, fmt.Errorf("service: failed to create item: %w", err)
	}
	return created, nil
}

// GetItems retrieves every catalog item.
func (s *itemService) GetItems(ctx context.Context) ([]domain.Item, error) {
	items, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("service: failed to get items: %w", err)
	}
	return items, nil
}

// GetItemByID retrieves a single item.
func (s *itemService) GetItemByID(ctx context.Context, id int64) (*domain.Item, error) {
	item, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("service: failed to get item by ID %d: %w", id, err)
	}
	return item, nil
}

// UpdateItem replaces the stored item with the request payload (PUT
// semantics, matching the public API). Existence is checked by the
// repository so its not-found branch stays authoritative.
func (s *itemService) UpdateItem(ctx context.Context, id int64, req *domain.UpdateItemRequest) (*domain.Item, error) {
	// Best-effort read of the prior stock for the broadcast comparison.
	// Errors are ignored on purpose: the save path below owns the error
	// taxonomy, and a transient lookup fault must not mask it.
	var prevStock *int
	if existing, err := s.repo.GetByID(ctx, id); err == nil {
		prevStock = &existing.Stock
	}

	item := &domain.Item{
		ID:          id,
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Category:    req.Category,
		Stock:       req.Stock,
	}

	updated, err := s.repo.Save(ctx, item)
	if err != nil {
		return nil, fmt.Errorf("service: failed to update item ID %d: %w", id, err)
	}

	// Broadcast only when the stock actually changed. An unknown prior
	// value (lookup fault above) is treated as a change.
	if s.hub != nil && (prevStock == nil || *prevStock != updated.Stock) {
		log.Printf("Service: stock changed for item %d (%s), broadcasting stock %d.",
			updated.ID, updated.Name, updated.Stock)
		s.hub.BroadcastStockUpdate(domain.StockUpdatePayload{
			ID:       updated.ID,
			Name:     updated.Name,
			NewStock: updated.Stock,
		})
	}
	return updated, nil
}

// DeleteItem removes an item, subject to the protected-name policy
// enforced by the repository.
func (s *itemService) DeleteItem(ctx context.Context, id int64) error {
	if err := s.repo.DeleteByID(ctx, id); err != nil {
		return fmt.Errorf("service: failed to delete item ID %d: %w", id, err)
	}

	if s.hub != nil {
		s.hub.BroadcastItemDeleted(domain.ItemDeletedPayload{ID: id})
	}
	return nil
}

// GetItemsByCategory filters the catalog by category.
func (s *itemService) GetItemsByCategory(ctx context.Context, category string) ([]domain.Item, error) {
	items, err := s.repo.FindByCategory(ctx, category)
	if err != nil {
		return nil, fmt.Errorf("service: failed to get items by category %q: %w", category, err)
	}
	return items, nil
}

// GetItemsByPriceRange filters the catalog by an inclusive price range.
func (s *itemService) GetItemsByPriceRange(ctx context.Context, minPrice, maxPrice float64) ([]domain.Item, error) {
	items, err := s.repo.FindByPriceRange(ctx, minPrice, maxPrice)
	if err != nil {
		return nil, fmt.Errorf("service: failed to get items by price range: %w", err)
	}
	return items, nil
}

// SearchItemsByName searches item names for a case-insensitive fragment.
func (s *itemService) SearchItemsByName(ctx context.Context, fragment string) ([]domain.Item, error) {
	items, err := s.repo.FindByNameContaining(ctx, fragment)
	if err != nil {
		return nil, fmt.Errorf("service: failed to search items by name %q: %w", fragment, err)
	}
	return items, nil
}
