package repository

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"catalog-service/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// The seed catalog occupies IDs 1..7, so the first created item receives ID 8.
const firstCreatedID int64 = 8

func newTestRepo() domain.ItemRepository {
	return NewMemoryItemRepository(NeverFail)
}

func TestListAll_ReturnsSeededCatalog(t *testing.T) {
	repo := newTestRepo()

	items, err := repo.ListAll(context.Background())
	require.NoError(t, err)
	assert.Len(t, items, 7)
}

func TestListAll_FaultPolicyFailure(t *testing.T) {
	repo := NewMemoryItemRepository(AlwaysFail)

	_, err := repo.ListAll(context.Background())
	require.ErrorIs(t, err, domain.ErrStoreUnavailable)
}

func TestGetByID(t *testing.T) {
	repo := newTestRepo()
	ctx := context.Background()

	t.Run("returns existing item", func(t *testing.T) {
		item, err := repo.GetByID(ctx, 1)
		require.NoError(t, err)
		assert.Equal(t, "Master Sword", item.Name)
	})

	t.Run("not found for unknown id", func(t *testing.T) {
		_, err := repo.GetByID(ctx, 9999)
		require.ErrorIs(t, err, domain.ErrItemNotFound)
	})

	t.Run("poison id always fails transiently", func(t *testing.T) {
		_, err := repo.GetByID(ctx, 666)
		require.ErrorIs(t, err, domain.ErrStoreUnavailable)
	})

	t.Run("returns a copy, not an alias", func(t *testing.T) {
		item, err := repo.GetByID(ctx, 2)
		require.NoError(t, err)
		item.Name = "mutated"

		again, err := repo.GetByID(ctx, 2)
		require.NoError(t, err)
		assert.Equal(t, "Hylian Shield", again.Name)
	})
}

func TestSave_CreateAssignsMonotonicIDs(t *testing.T) {
	repo := newTestRepo()
	ctx := context.Background()

	var lastID int64
	for i := 0; i < 5; i++ {
		created, err := repo.Save(ctx, &domain.Item{
			Name:     fmt.Sprintf("Rupee Pouch %d", i),
			Price:    5.00,
			Category: "Collectibles",
			Stock:    10,
		})
		require.NoError(t, err)
		assert.Greater(t, created.ID, lastID)
		assert.False(t, created.CreatedAt.IsZero())
		lastID = created.ID
	}
	assert.Equal(t, firstCreatedID+4, lastID)
}

func TestSave_CreateDuplicateNameCaseInsensitive(t *testing.T) {
	repo := newTestRepo()

	_, err := repo.Save(context.Background(), &domain.Item{
		Name:     "MASTER SWORD",
		Price:    1.00,
		Category: "Weapons",
		Stock:    1,
	})
	require.ErrorIs(t, err, domain.ErrItemAlreadyExists)
}

func TestSave_ForbiddenName(t *testing.T) {
	repo := newTestRepo()

	_, err := repo.Save(context.Background(), &domain.Item{
		Name:     "Ganondorf Statue",
		Price:    100.00,
		Category: "Collectibles",
		Stock:    1,
	})
	require.ErrorIs(t, err, domain.ErrInvalidItemData)
}

func TestSave_NegativeNumericFields(t *testing.T) {
	repo := newTestRepo()
	ctx := context.Background()

	t.Run("negative stock on create", func(t *testing.T) {
		_, err := repo.Save(ctx, &domain.Item{Name: "Broken Pot", Category: "Misc", Stock: -1})
		require.ErrorIs(t, err, domain.ErrInvalidItemData)
	})

	t.Run("negative price on create", func(t *testing.T) {
		_, err := repo.Save(ctx, &domain.Item{Name: "Cracked Pot", Category: "Misc", Price: -0.01})
		require.ErrorIs(t, err, domain.ErrInvalidItemData)
	})

	t.Run("negative stock on update", func(t *testing.T) {
		_, err := repo.Save(ctx, &domain.Item{ID: 2, Name: "Hylian Shield", Category: "Shields", Stock: -5})
		require.ErrorIs(t, err, domain.ErrInvalidItemData)
	})

	t.Run("negative price on update", func(t *testing.T) {
		_, err := repo.Save(ctx, &domain.Item{ID: 2, Name: "Hylian Shield", Category: "Shields", Price: -750})
		require.ErrorIs(t, err, domain.ErrInvalidItemData)
	})
}

// A creation that fails the numeric checks has already consumed an ID from
// the counter, leaving a gap in the sequence.
func TestSave_FailedCreateBurnsID(t *testing.T) {
	repo := newTestRepo()
	ctx := context.Background()

	_, err := repo.Save(ctx, &domain.Item{Name: "Rotten Apple", Category: "Consumables", Stock: -1})
	require.ErrorIs(t, err, domain.ErrInvalidItemData)

	// The failed create must not have left a partial entry behind.
	items, err := repo.ListAll(ctx)
	require.NoError(t, err)
	assert.Len(t, items, 7)

	created, err := repo.Save(ctx, &domain.Item{Name: "Fresh Apple", Category: "Consumables", Stock: 10})
	require.NoError(t, err)
	assert.Equal(t, firstCreatedID+1, created.ID)
}

func TestSave_UpdateUnknownID(t *testing.T) {
	repo := newTestRepo()

	_, err := repo.Save(context.Background(), &domain.Item{
		ID:       9999,
		Name:     "Phantom Item",
		Category: "Misc",
	})
	require.ErrorIs(t, err, domain.ErrItemNotFound)
}

func TestSave_UpdateKeepsIDAndSetsTimestamps(t *testing.T) {
	repo := newTestRepo()
	ctx := context.Background()

	before, err := repo.GetByID(ctx, 4)
	require.NoError(t, err)

	time.Sleep(5 * time.Millisecond)

	updated, err := repo.Save(ctx, &domain.Item{
		ID:       4,
		Name:     "Zora Armor",
		Price:    450.00,
		Category: "Armor",
		Stock:    4,
	})
	require.NoError(t, err)

	assert.Equal(t, int64(4), updated.ID)
	assert.Equal(t, before.CreatedAt, updated.CreatedAt)
	require.NotNil(t, updated.UpdatedAt)
	assert.True(t, updated.UpdatedAt.After(updated.CreatedAt))
	assert.Equal(t, 450.00, updated.Price)

	stored, err := repo.GetByID(ctx, 4)
	require.NoError(t, err)
	assert.Equal(t, updated.Stock, stored.Stock)
}

func TestDeleteByID(t *testing.T) {
	t.Run("zero id is invalid", func(t *testing.T) {
		repo := newTestRepo()
		err := repo.DeleteByID(context.Background(), 0)
		require.ErrorIs(t, err, domain.ErrInvalidItemData)
	})

	t.Run("unknown id is not found", func(t *testing.T) {
		repo := newTestRepo()
		err := repo.DeleteByID(context.Background(), 9999)
		require.ErrorIs(t, err, domain.ErrItemNotFound)
	})

	t.Run("protected item cannot be deleted", func(t *testing.T) {
		repo := newTestRepo()
		ctx := context.Background()

		err := repo.DeleteByID(ctx, 1) // Master Sword
		require.ErrorIs(t, err, domain.ErrInvalidItemData)

		// The protected item must remain retrievable afterwards.
		item, err := repo.GetByID(ctx, 1)
		require.NoError(t, err)
		assert.Equal(t, "Master Sword", item.Name)
	})

	t.Run("deletes an unprotected item", func(t *testing.T) {
		repo := newTestRepo()
		ctx := context.Background()

		require.NoError(t, repo.DeleteByID(ctx, 5)) // Korok Seed

		_, err := repo.GetByID(ctx, 5)
		require.ErrorIs(t, err, domain.ErrItemNotFound)
	})
}

func TestFindByCategory(t *testing.T) {
	repo := newTestRepo()
	ctx := context.Background()

	t.Run("blank category is invalid", func(t *testing.T) {
		_, err := repo.FindByCategory(ctx, "   ")
		require.ErrorIs(t, err, domain.ErrInvalidItemData)
	})

	t.Run("forbidden category fails transiently", func(t *testing.T) {
		_, err := repo.FindByCategory(ctx, "CURSED")
		require.ErrorIs(t, err, domain.ErrStoreUnavailable)
	})

	t.Run("matches case-insensitively", func(t *testing.T) {
		items, err := repo.FindByCategory(ctx, "weapons")
		require.NoError(t, err)
		require.Len(t, items, 2)
		names := []string{items[0].Name, items[1].Name}
		assert.ElementsMatch(t, []string{"Master Sword", "Bow of Light"}, names)
	})
}

func TestFindByPriceRange(t *testing.T) {
	repo := newTestRepo()
	ctx := context.Background()

	t.Run("min greater than max is invalid", func(t *testing.T) {
		_, err := repo.FindByPriceRange(ctx, 100, 50)
		require.ErrorIs(t, err, domain.ErrInvalidItemData)
	})

	t.Run("max above ceiling fails transiently", func(t *testing.T) {
		_, err := repo.FindByPriceRange(ctx, 0, 10000.01)
		require.ErrorIs(t, err, domain.ErrStoreUnavailable)
	})

	t.Run("returns items within inclusive bounds", func(t *testing.T) {
		items, err := repo.FindByPriceRange(ctx, 20, 700)
		require.NoError(t, err)

		prices := make([]float64, 0, len(items))
		for _, item := range items {
			prices = append(prices, item.Price)
		}
		assert.ElementsMatch(t, []float64{25.00, 35.00, 400.00, 650.00}, prices)
	})

	t.Run("bounds are inclusive", func(t *testing.T) {
		items, err := repo.FindByPriceRange(ctx, 10, 10)
		require.NoError(t, err)
		require.Len(t, items, 1)
		assert.Equal(t, "Korok Seed", items[0].Name)
	})
}

func TestFindByNameContaining(t *testing.T) {
	repo := newTestRepo()
	ctx := context.Background()

	t.Run("blank fragment is invalid", func(t *testing.T) {
		_, err := repo.FindByNameContaining(ctx, "")
		require.ErrorIs(t, err, domain.ErrInvalidItemData)
	})

	t.Run("restricted keyword fails transiently", func(t *testing.T) {
		_, err := repo.FindByNameContaining(ctx, "TriForce")
		require.ErrorIs(t, err, domain.ErrStoreUnavailable)
	})

	t.Run("matches case-insensitive substrings", func(t *testing.T) {
		items, err := repo.FindByNameContaining(ctx, "SWORD")
		require.NoError(t, err)
		require.Len(t, items, 1)
		assert.Equal(t, "Master Sword", items[0].Name)
	})
}

// Two concurrent creations must never receive the same identifier.
func TestSave_ConcurrentCreatesAssignUniqueIDs(t *testing.T) {
	repo := newTestRepo()
	ctx := context.Background()

	const workers = 50
	ids := make(chan int64, workers)
	var wg sync.WaitGroup

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			created, err := repo.Save(ctx, &domain.Item{
				Name:     fmt.Sprintf("Arrow Bundle %d", n),
				Price:    2.00,
				Category: "Consumables",
				Stock:    30,
			})
			assert.NoError(t, err)
			if err == nil {
				ids <- created.ID
			}
		}(i)
	}
	wg.Wait()
	close(ids)

	seen := make(map[int64]bool)
	for id := range ids {
		assert.False(t, seen[id], "duplicate ID %d assigned", id)
		seen[id] = true
	}
	assert.Len(t, seen, workers)
}

func TestAnalyticsQueries(t *testing.T) {
	repo := newTestRepo()
	ctx := context.Background()

	t.Run("total stock value", func(t *testing.T) {
		total, err := repo.TotalStockValue(ctx)
		require.NoError(t, err)
		// 999.99*1 + 750*3 + 650*2 + 400*5 + 10*900 + 25*50 + 35*20
		assert.InDelta(t, 17499.99, total, 0.001)
	})

	t.Run("low stock items sorted by stock then name", func(t *testing.T) {
		items, err := repo.LowStockItems(ctx, 5)
		require.NoError(t, err)
		require.Len(t, items, 4)
		assert.Equal(t, "Master Sword", items[0].Name)
		assert.Equal(t, "Bow of Light", items[1].Name)
		assert.Equal(t, "Hylian Shield", items[2].Name)
		assert.Equal(t, "Zora Armor", items[3].Name)
	})

	t.Run("most valuable items", func(t *testing.T) {
		items, err := repo.MostValuableItems(ctx, 3)
		require.NoError(t, err)
		require.Len(t, items, 3)
		assert.Equal(t, "Korok Seed", items[0].Name)
		assert.Equal(t, "Hylian Shield", items[1].Name)
		assert.Equal(t, "Zora Armor", items[2].Name)
	})
}
