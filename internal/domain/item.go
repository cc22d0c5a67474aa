package domain

import (
	"context"
	"time"
)

// Item represents a single catalog entry.
// The ID is zero until the store assigns one on first save. UpdatedAt is a
// pointer so it stays out of the JSON until the first update; omitempty has
// no effect on a time.Time value.
type Item struct {
	ID          int64      `json:"id,omitempty"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Price       float64    `json:"price"`
	Category    string     `json:"category"`
	Stock       int        `json:"stock"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   *time.Time `json:"updatedAt,omitempty"`
}

// CreateItemRequest is the payload for creating a new catalog item.
// Numeric range rules (price/stock >= 0) are enforced by the store so that
// its validation branches stay reachable; the handler only checks shape.
type CreateItemRequest struct {
	Name        string  `json:"name" validate:"required"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Category    string  `json:"category" validate:"required"`
	Stock       int     `json:"stock"`
}

// UpdateItemRequest is the payload for a full item update (PUT semantics).
type UpdateItemRequest struct {
	Name        string  `json:"name" validate:"required"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Category    string  `json:"category" validate:"required"`
	Stock       int     `json:"stock"`
}

// ItemRepository is the catalog store contract. The backing store is an
// in-memory map; implementations must be safe for concurrent use.
type ItemRepository interface {
	ListAll(ctx context.Context) ([]Item, error)
	GetByID(ctx context.Context, id int64) (*Item, error)
	Save(ctx context.Context, item *Item) (*Item, error)
	DeleteByID(ctx context.Context, id int64) error
	FindByCategory(ctx context.Context, category string) ([]Item, error)
	FindByPriceRange(ctx context.Context, minPrice, maxPrice float64) ([]Item, error)
	FindByNameContaining(ctx context.Context, fragment string) ([]Item, error)

	// Analytics queries over the same catalog.
	TotalStockValue(ctx context.Context) (float64, error)
	LowStockItems(ctx context.Context, threshold int) ([]Item, error)
	MostValuableItems(ctx context.Context, limit int) ([]Item, error)
}

// ItemService is the business-layer contract consumed by the HTTP handlers.
type ItemService interface {
	CreateItem(ctx context.Context, req *CreateItemRequest) (*Item, error)
	GetItems(ctx context.Context) ([]Item, error)
	GetItemByID(ctx context.Context, id int64) (*Item, error)
	UpdateItem(ctx context.Context, id int64, req *UpdateItemRequest) (*Item, error)
	DeleteItem(ctx context.Context, id int64) error
	GetItemsByCategory(ctx context.Context, category string) ([]Item, error)
	GetItemsByPriceRange(ctx context.Context, minPrice, maxPrice float64) ([]Item, error)
	SearchItemsByName(ctx context.Context, fragment string) ([]Item, error)
}

// AnalyticsService exposes aggregate views of the catalog.
type AnalyticsService interface {
	CalculateTotalStockValue(ctx context.Context) (float64, error)
	ListLowStockItems(ctx context.Context, threshold int) ([]Item, error)
	ListMostValuableItems(ctx context.Context, limit int) ([]Item, error)
}

// --- WebSocket payloads ---

const (
	StockUpdateMessageType = "STOCK_UPDATE"
	ItemDeletedMessageType = "ITEM_DELETED"
)

// WebSocketMessage is the envelope broadcast to connected clients.
type WebSocketMessage struct {
	Type    string `json:"type"`
	Payload any    `json:"payload"`
}

// StockUpdatePayload is broadcast when an item's stock changes.
type StockUpdatePayload struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	NewStock int    `json:"newStock"`
}

// ItemDeletedPayload is broadcast when an item is removed from the catalog.
type ItemDeletedPayload struct {
	ID int64 `json:"id"`
}
