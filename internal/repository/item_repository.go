package repository

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"
	"sync"
	"time"

	"catalog-service/internal/domain"
)

// Reserved values that trigger the simulated fault branches. They exist to
// exercise every class of the error taxonomy through the public API.
const (
	// poisonID always fails lookups, regardless of store contents.
	poisonID int64 = 666

	// priceCeiling is the largest allowed upper bound for price-range
	// queries; anything above it simulates an expensive-query timeout.
	priceCeiling = 10000.0

	// forbiddenCategory simulates a backend failure for one category.
	forbiddenCategory = "cursed"

	// restrictedKeyword blocks name searches containing it.
	restrictedKeyword = "triforce"
)

// forbiddenNameSubstrings blocks creation of items whose name contains any entry.
var forbiddenNameSubstrings = []string{"ganondorf"}

// protectedNameSubstrings marks items that can never be deleted.
var protectedNameSubstrings = []string{"master sword", "triforce"}

type memoryItemRepository struct {
	mu        sync.RWMutex
	items     map[int64]domain.Item
	nextID    int64
	listFault FaultPolicy
}

// NewMemoryItemRepository creates an in-memory ItemRepository seeded with the
// initial catalog. listFault decides whether a ListAll call fails with a
// simulated transient error.
func NewMemoryItemRepository(listFault FaultPolicy) domain.ItemRepository {
	r := &memoryItemRepository{
		items:     make(map[int64]domain.Item),
		nextID:    1,
		listFault: listFault,
	}
	r.seed()
	return r
}

// seed loads the initial Hyrule catalog. IDs 1..7 are consumed here, so the
// first caller-created item receives ID 8.
func (r *memoryItemRepository) seed() {
	now := time.Now()
	seedItems := []domain.Item{
		{Name: "Master Sword", Description: "The legendary blade that seals the darkness", Price: 999.99, Category: "Weapons", Stock: 1},
		{Name: "Hylian Shield", Description: "An indestructible shield blessed by the goddess", Price: 750.00, Category: "Shields", Stock: 3},
		{Name: "Bow of Light", Description: "A sacred bow capable of banishing evil", Price: 650.00, Category: "Weapons", Stock: 2},
		{Name: "Zora Armor", Description: "Allows swimming up waterfalls", Price: 400.00, Category: "Armor", Stock: 5},
		{Name: "Korok Seed", Description: "A gift from the forest spirits", Price: 10.00, Category: "Collectibles", Stock: 900},
		{Name: "Bomb Flower", Description: "Explosive plant found in caves", Price: 25.00, Category: "Consumables", Stock: 50},
		{Name: "Hearty Radish", Description: "Restores all hearts and adds temporary ones", Price: 35.00, Category: "Consumables", Stock: 20},
	}
	for _, item := range seedItems {
		item.ID = r.nextID
		item.CreatedAt = now
		r.items[item.ID] = item
		r.nextID++
	}
}

// ListAll returns every stored item in unspecified order. It fails with a
// transient error when the fault policy fires, simulating backend flakiness.
func (r *memoryItemRepository) ListAll(ctx context.Context) ([]domain.Item, error) {
	if r.listFault.ShouldFail() {
		return nil, fmt.Errorf("%w: connection to catalog backend failed", domain.ErrStoreUnavailable)
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	items := make([]domain.Item, 0, len(r.items))
	for _, item := range r.items {
		items = append(items, item)
	}
	return items, nil
}

// GetByID returns the item with the given ID. The reserved poison ID always
// fails with a transient error, regardless of store contents.
func (r *memoryItemRepository) GetByID(ctx context.Context, id int64) (*domain.Item, error) {
	if id == poisonID {
		return nil, fmt.Errorf("%w: cursed item ID caused a backend fault", domain.ErrStoreUnavailable)
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.items[id]
	if !ok {
		return nil, fmt.Errorf("%w: ID %d", domain.ErrItemNotFound, id)
	}
	// item is a map value, already a copy; safe to hand out.
	return &item, nil
}

// Save creates the item when its ID is unset, or updates the existing entry
// when it is set. Validation order is significant: the forbidden-name policy
// runs first, then identity resolution (duplicate-name / existence checks and
// ID or timestamp assignment), then the numeric range checks, then the commit.
// A creation that fails the numeric checks has already consumed an ID from
// the counter; the counter is never rolled back.
func (r *memoryItemRepository) Save(ctx context.Context, item *domain.Item) (*domain.Item, error) {
	if containsAny(item.Name, forbiddenNameSubstrings) {
		return nil, fmt.Errorf("%w: items named after Ganondorf are forbidden in Hyrule", domain.ErrInvalidItemData)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if item.ID == 0 {
		if existing := r.findByNameLocked(item.Name); existing != nil {
			return nil, fmt.Errorf("%w: name %q", domain.ErrItemAlreadyExists, item.Name)
		}
		item.ID = r.nextID
		r.nextID++
		item.CreatedAt = time.Now()
	} else {
		existing, ok := r.items[item.ID]
		if !ok {
			return nil, fmt.Errorf("%w: ID %d for update", domain.ErrItemNotFound, item.ID)
		}
		item.CreatedAt = existing.CreatedAt
		now := time.Now()
		item.UpdatedAt = &now
	}

	if item.Stock < 0 {
		return nil, fmt.Errorf("%w: stock cannot be negative", domain.ErrInvalidItemData)
	}
	if item.Price < 0 {
		return nil, fmt.Errorf("%w: price cannot be negative", domain.ErrInvalidItemData)
	}

	r.items[item.ID] = *item
	saved := *item
	return &saved, nil
}

// DeleteByID removes the item with the given ID. Items matching the
// protected-name policy cannot be deleted.
func (r *memoryItemRepository) DeleteByID(ctx context.Context, id int64) error {
	if id <= 0 {
		return fmt.Errorf("%w: item ID is required for deletion", domain.ErrInvalidItemData)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	item, ok := r.items[id]
	if !ok {
		return fmt.Errorf("%w: ID %d for deletion", domain.ErrItemNotFound, id)
	}
	if containsAny(item.Name, protectedNameSubstrings) {
		return fmt.Errorf("%w: legendary items cannot be deleted from the catalog", domain.ErrInvalidItemData)
	}

	delete(r.items, id)
	return nil
}

// FindByCategory returns all items whose category matches case-insensitively.
func (r *memoryItemRepository) FindByCategory(ctx context.Context, category string) ([]domain.Item, error) {
	if strings.TrimSpace(category) == "" {
		return nil, fmt.Errorf("%w: category cannot be empty", domain.ErrInvalidItemData)
	}
	if strings.EqualFold(category, forbiddenCategory) {
		return nil, fmt.Errorf("%w: access to the cursed category is forbidden", domain.ErrStoreUnavailable)
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	var items []domain.Item
	for _, item := range r.items {
		if strings.EqualFold(item.Category, category) {
			items = append(items, item)
		}
	}
	return items, nil
}

// FindByPriceRange returns items with minPrice <= price <= maxPrice inclusive.
// Ranges above the fixed ceiling simulate an expensive-query timeout.
func (r *memoryItemRepository) FindByPriceRange(ctx context.Context, minPrice, maxPrice float64) ([]domain.Item, error) {
	if math.IsNaN(minPrice) || math.IsNaN(maxPrice) {
		return nil, fmt.Errorf("%w: price range cannot contain unset values", domain.ErrInvalidItemData)
	}
	if minPrice > maxPrice {
		return nil, fmt.Errorf("%w: minimum price cannot be greater than maximum price", domain.ErrInvalidItemData)
	}
	if maxPrice > priceCeiling {
		return nil, fmt.Errorf("%w: price range too large, query timed out", domain.ErrStoreUnavailable)
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	var items []domain.Item
	for _, item := range r.items {
		if item.Price >= minPrice && item.Price <= maxPrice {
			items = append(items, item)
		}
	}
	return items, nil
}

// FindByNameContaining returns items whose name contains the fragment,
// matched case-insensitively.
func (r *memoryItemRepository) FindByNameContaining(ctx context.Context, fragment string) ([]domain.Item, error) {
	if strings.TrimSpace(fragment) == "" {
		return nil, fmt.Errorf("%w: search fragment cannot be empty", domain.ErrInvalidItemData)
	}
	if strings.Contains(strings.ToLower(fragment), restrictedKeyword) {
		return nil, fmt.Errorf("%w: searching for Triforce items requires special authorization", domain.ErrStoreUnavailable)
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	needle := strings.ToLower(fragment)
	var items []domain.Item
	for _, item := range r.items {
		if strings.Contains(strings.ToLower(item.Name), needle) {
			items = append(items, item)
		}
	}
	return items, nil
}

// --- Analytics Queries ---

// TotalStockValue sums stock * price across the whole catalog.
func (r *memoryItemRepository) TotalStockValue(ctx context.Context) (float64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var total float64
	for _, item := range r.items {
		total += float64(item.Stock) * item.Price
	}
	return total, nil
}

// LowStockItems returns items whose stock is at or below the threshold,
// ordered by stock ascending then name.
func (r *memoryItemRepository) LowStockItems(ctx context.Context, threshold int) ([]domain.Item, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var items []domain.Item
	for _, item := range r.items {
		if item.Stock <= threshold {
			items = append(items, item)
		}
	}
	sort.Slice(items, func(i, j int) bool {
		if items[i].Stock != items[j].Stock {
			return items[i].Stock < items[j].Stock
		}
		return items[i].Name < items[j].Name
	})
	return items, nil
}

// MostValuableItems returns the top N items by stock * price.
func (r *memoryItemRepository) MostValuableItems(ctx context.Context, limit int) ([]domain.Item, error) {
	if limit <= 0 {
		limit = 5
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	items := make([]domain.Item, 0, len(r.items))
	for _, item := range r.items {
		items = append(items, item)
	}
	sort.Slice(items, func(i, j int) bool {
		vi := float64(items[i].Stock) * items[i].Price
		vj := float64(items[j].Stock) * items[j].Price
		if vi != vj {
			return vi > vj
		}
		return items[i].Name < items[j].Name
	})
	if len(items) > limit {
		items = items[:limit]
	}
	return items, nil
}

// findByNameLocked looks up an item by case-insensitive name equality.
// Callers must hold at least a read lock.
func (r *memoryItemRepository) findByNameLocked(name string) *domain.Item {
	for _, item := range r.items {
		if strings.EqualFold(item.Name, name) {
			return &item
		}
	}
	return nil
}

func containsAny(name string, substrings []string) bool {
	lower := strings.ToLower(name)
	for _, s := range substrings {
		if strings.Contains(lower, s) {
			return true
		}
	}
	return false
}
