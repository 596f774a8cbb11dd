package inventory

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/moonlinghq/moonling-core/internal/catalog"
	"github.com/moonlinghq/moonling-core/internal/domain"
	"github.com/moonlinghq/moonling-core/internal/storage"
)

func testCatalog() *catalog.Catalog {
	return catalog.New(
		[]domain.Ingredient{
			{ID: "pink-sugar", Name: "Pink Sugar", Description: "Sweet crystals.", Rarity: domain.RarityCommon, MoodBonus: 2, HungerBonus: 1},
			{ID: "moon-dust", Name: "Moon Dust", Description: "Silver powder.", Rarity: domain.RarityCommon, MoodBonus: 1},
			{ID: "star-fragment", Name: "Star Fragment", Description: "A shard of starlight.", Rarity: domain.RarityRare, MoodBonus: 4},
		},
		[]domain.Recipe{mooncakeRecipe()},
	)
}

func mooncakeRecipe() domain.Recipe {
	return domain.Recipe{
		ID:          "mooncake",
		Name:        "Mooncake",
		Description: "A soft cake.",
		Ingredients: []domain.RecipeIngredient{
			{IngredientID: "pink-sugar", Quantity: 2},
			{IngredientID: "moon-dust", Quantity: 1},
		},
		Result:     domain.ResultItem{ID: "mooncake-item", Name: "Mooncake"},
		StarRating: 1,
		Difficulty: domain.DifficultyEasy,
	}
}

func newTestService(t *testing.T) (Service, *storage.MemoryStore) {
	t.Helper()
	store := storage.NewMemoryStore()
	return NewService(context.Background(), store, testCatalog()), store
}

func TestAddThenRemoveLeavesNoZeroEntry(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	svc.Add(ctx, []AddInput{{ID: "pink-sugar", Quantity: 3, Source: domain.SourceReward}})

	item, ok := svc.Item("pink-sugar")
	require.True(t, ok)
	assert.Equal(t, 3, item.Quantity)
	assert.Equal(t, domain.ItemTypeIngredient, item.Type)
	assert.Equal(t, domain.SourceReward, item.Source)

	assert.True(t, svc.Remove(ctx, "pink-sugar", 3))

	_, ok = svc.Item("pink-sugar")
	assert.False(t, ok, "zero-quantity records must be deleted entirely")
	assert.Empty(t, svc.Items())
}

func TestAddMergesExistingRecord(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	svc.Add(ctx, []AddInput{{ID: "pink-sugar", Quantity: 2, Source: domain.SourceDiscovery}})
	svc.Add(ctx, []AddInput{{ID: "pink-sugar", Quantity: 5, Source: domain.SourcePurchase}})

	item, _ := svc.Item("pink-sugar")
	assert.Equal(t, 7, item.Quantity)
	assert.Len(t, svc.Items(), 1)
}

func TestAddUnknownIDFallsBackToMarketplace(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	svc.Add(ctx, []AddInput{{ID: "mystery-box", Quantity: 1, Source: domain.SourcePurchase}})

	item, ok := svc.Item("mystery-box")
	require.True(t, ok)
	assert.Equal(t, domain.ItemTypeMarketplace, item.Type)
	assert.Equal(t, "mystery-box", item.Name)
}

func TestRemoveInsufficientQuantityFails(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	svc.Add(ctx, []AddInput{{ID: "moon-dust", Quantity: 2, Source: domain.SourceDiscovery}})

	assert.False(t, svc.Remove(ctx, "moon-dust", 5))
	item, _ := svc.Item("moon-dust")
	assert.Equal(t, 2, item.Quantity, "failed remove must not mutate")

	assert.False(t, svc.Remove(ctx, "never-owned", 1))
}

func TestCraftConsumesIngredientsAndAddsResult(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	svc.Add(ctx, []AddInput{
		{ID: "pink-sugar", Quantity: 2, Source: domain.SourceDiscovery},
		{ID: "moon-dust", Quantity: 3, Source: domain.SourceDiscovery},
	})

	require.True(t, svc.CanCraft(mooncakeRecipe()))
	require.True(t, svc.Craft(ctx, mooncakeRecipe()))

	_, ok := svc.Item("pink-sugar")
	assert.False(t, ok, "fully consumed ingredient should be gone")

	dust, _ := svc.Item("moon-dust")
	assert.Equal(t, 2, dust.Quantity)

	result, ok := svc.Item("mooncake-item")
	require.True(t, ok)
	assert.Equal(t, 1, result.Quantity)
	assert.Equal(t, domain.ItemTypeCrafted, result.Type)
	assert.Equal(t, domain.SourceCrafting, result.Source)
}

func TestCraftIsAllOrNothing(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	// One pink-sugar short
	svc.Add(ctx, []AddInput{
		{ID: "pink-sugar", Quantity: 1, Source: domain.SourceDiscovery},
		{ID: "moon-dust", Quantity: 1, Source: domain.SourceDiscovery},
	})

	assert.False(t, svc.CanCraft(mooncakeRecipe()))
	assert.False(t, svc.Craft(ctx, mooncakeRecipe()))

	sugar, _ := svc.Item("pink-sugar")
	dust, _ := svc.Item("moon-dust")
	assert.Equal(t, 1, sugar.Quantity, "failed craft must leave quantities unchanged")
	assert.Equal(t, 1, dust.Quantity)
	_, ok := svc.Item("mooncake-item")
	assert.False(t, ok)
}

func TestCraftAggregatesRepeatedIngredient(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	// The same id listed twice must be checked and consumed against
	// its combined quantity, not against the stack twice.
	repeated := domain.Recipe{
		ID:          "double-sugar",
		Name:        "Double Sugar",
		Description: "Too sweet.",
		Ingredients: []domain.RecipeIngredient{
			{IngredientID: "pink-sugar", Quantity: 2},
			{IngredientID: "pink-sugar", Quantity: 2},
		},
		Result:     domain.ResultItem{ID: "sugar-lump", Name: "Sugar Lump"},
		StarRating: 1,
		Difficulty: domain.DifficultyEasy,
	}

	svc.Add(ctx, []AddInput{{ID: "pink-sugar", Quantity: 2, Source: domain.SourceDiscovery}})

	assert.False(t, svc.CanCraft(repeated), "2 in stock cannot cover a combined need of 4")
	assert.False(t, svc.Craft(ctx, repeated))

	sugar, ok := svc.Item("pink-sugar")
	require.True(t, ok)
	assert.Equal(t, 2, sugar.Quantity, "failed craft must leave quantities unchanged")

	svc.Add(ctx, []AddInput{{ID: "pink-sugar", Quantity: 2, Source: domain.SourceDiscovery}})

	require.True(t, svc.CanCraft(repeated))
	require.True(t, svc.Craft(ctx, repeated))

	_, ok = svc.Item("pink-sugar")
	assert.False(t, ok, "combined quantity fully consumed")
	lump, ok := svc.Item("sugar-lump")
	require.True(t, ok)
	assert.Equal(t, 1, lump.Quantity)

	// The service must stay usable afterwards
	svc.Add(ctx, []AddInput{{ID: "moon-dust", Quantity: 1, Source: domain.SourceReward}})
	_, ok = svc.Item("moon-dust")
	assert.True(t, ok)
}

func TestSubscribeReceivesSnapshots(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	var got [][]domain.InventoryItem
	unsubscribe := svc.Subscribe(func(items []domain.InventoryItem) {
		got = append(got, items)
	})

	svc.Add(ctx, []AddInput{{ID: "pink-sugar", Quantity: 1, Source: domain.SourceDiscovery}})
	require.Len(t, got, 1)
	assert.Len(t, got[0], 1)

	unsubscribe()
	svc.Add(ctx, []AddInput{{ID: "moon-dust", Quantity: 1, Source: domain.SourceDiscovery}})
	assert.Len(t, got, 1, "no notifications after unsubscribe")
}

func TestPersistenceRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemoryStore()
	cat := testCatalog()

	first := NewService(ctx, store, cat)
	first.Add(ctx, []AddInput{{ID: "star-fragment", Quantity: 2, Source: domain.SourceReward}})

	blob, err := store.Get(ctx, storage.KeyInventory)
	require.NoError(t, err)
	var persisted []domain.InventoryItem
	require.NoError(t, json.Unmarshal(blob, &persisted))
	require.Len(t, persisted, 1)
	assert.Equal(t, "star-fragment", persisted[0].ID)

	// A second service over the same store restores the same items
	second := NewService(ctx, store, cat)
	item, ok := second.Item("star-fragment")
	require.True(t, ok)
	assert.Equal(t, 2, item.Quantity)
}

func TestNewServiceSurvivesCorruptBlob(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemoryStore()
	require.NoError(t, store.Set(ctx, storage.KeyInventory, []byte("not json")))

	svc := NewService(ctx, store, testCatalog())
	assert.Empty(t, svc.Items())
}

func TestStats(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	svc.Add(ctx, []AddInput{
		{ID: "pink-sugar", Quantity: 3, Source: domain.SourceDiscovery},
		{ID: "star-fragment", Quantity: 1, Source: domain.SourceReward},
		{ID: "mystery-box", Quantity: 2, Source: domain.SourcePurchase},
	})

	stats := svc.Stats()
	assert.Equal(t, 6, stats.TotalQuantity)
	assert.Equal(t, 3, stats.UniqueItems)
	assert.Equal(t, 4, stats.ByType[domain.ItemTypeIngredient])
	assert.Equal(t, 2, stats.ByType[domain.ItemTypeMarketplace])
	assert.Equal(t, 3, stats.ByRarity[domain.RarityCommon])
	assert.Equal(t, 1, stats.ByRarity[domain.RarityRare])
}

func TestAddRejectsInvalidQuantity(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	svc.Add(ctx, []AddInput{{ID: "pink-sugar", Quantity: 0, Source: domain.SourceDiscovery}})
	svc.Add(ctx, []AddInput{{ID: "pink-sugar", Quantity: -2, Source: domain.SourceDiscovery}})

	assert.Empty(t, svc.Items())
}

func TestDateAddedStamped(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	before := time.Now().Add(-time.Second)
	svc.Add(ctx, []AddInput{{ID: "pink-sugar", Quantity: 1, Source: domain.SourceDiscovery}})
	after := time.Now().Add(time.Second)

	item, _ := svc.Item("pink-sugar")
	assert.True(t, item.DateAdded.After(before) && item.DateAdded.Before(after))
}
