package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/moonlinghq/moonling-core/internal/catalog"
	"github.com/moonlinghq/moonling-core/internal/domain"
	"github.com/moonlinghq/moonling-core/internal/inventory"
	"github.com/moonlinghq/moonling-core/internal/storage"
)

func testCatalog() *catalog.Catalog {
	return catalog.New(
		[]domain.Ingredient{
			{ID: "pink-sugar", Name: "Pink Sugar", Description: "Sweet and pink.", Rarity: domain.RarityCommon},
			{ID: "moon-dust", Name: "Moon Dust", Description: "Fine silver powder.", Rarity: domain.RarityCommon},
		},
		[]domain.Recipe{
			{
				ID: "mooncake", Name: "Mooncake", Description: "A soft cake.",
				Ingredients: []domain.RecipeIngredient{
					{IngredientID: "pink-sugar", Quantity: 2},
					{IngredientID: "moon-dust", Quantity: 1},
				},
				Result:     domain.ResultItem{ID: "mooncake-item", Name: "Mooncake"},
				StarRating: 1,
				Difficulty: domain.DifficultyEasy,
			},
		},
	)
}

func newInventoryService(t *testing.T) inventory.Service {
	t.Helper()
	return inventory.NewService(context.Background(), storage.NewMemoryStore(), testCatalog())
}

func TestHandleAddItems(t *testing.T) {
	svc := newInventoryService(t)

	body := `{"items":[{"id":"pink-sugar","quantity":3,"source":"reward"}]}`
	req := httptest.NewRequest(http.MethodPost, "/inventory/add", strings.NewReader(body))
	rec := httptest.NewRecorder()

	HandleAddItems(svc)(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	item, ok := svc.Item("pink-sugar")
	require.True(t, ok)
	assert.Equal(t, 3, item.Quantity)
}

func TestHandleAddItemsRejectsBadSource(t *testing.T) {
	svc := newInventoryService(t)

	body := `{"items":[{"id":"pink-sugar","quantity":3,"source":"teleport"}]}`
	req := httptest.NewRequest(http.MethodPost, "/inventory/add", strings.NewReader(body))
	rec := httptest.NewRecorder()

	HandleAddItems(svc)(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	_, ok := svc.Item("pink-sugar")
	assert.False(t, ok)
}

func TestHandleRemoveItem(t *testing.T) {
	svc := newInventoryService(t)
	svc.Add(context.Background(), []inventory.AddInput{{ID: "pink-sugar", Quantity: 3, Source: domain.SourceReward}})

	body := `{"id":"pink-sugar","quantity":3}`
	req := httptest.NewRequest(http.MethodPost, "/inventory/remove", strings.NewReader(body))
	rec := httptest.NewRecorder()

	HandleRemoveItem(svc)(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	_, ok := svc.Item("pink-sugar")
	assert.False(t, ok)
}

func TestHandleRemoveItemInsufficient(t *testing.T) {
	svc := newInventoryService(t)

	body := `{"id":"pink-sugar","quantity":1}`
	req := httptest.NewRequest(http.MethodPost, "/inventory/remove", strings.NewReader(body))
	rec := httptest.NewRecorder()

	HandleRemoveItem(svc)(rec, req)

	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestHandleGetInventoryFiltered(t *testing.T) {
	svc := newInventoryService(t)
	svc.Add(context.Background(), []inventory.AddInput{
		{ID: "pink-sugar", Quantity: 1, Source: domain.SourceReward},
		{ID: "mystery-box", Quantity: 1, Source: domain.SourcePurchase},
	})

	req := httptest.NewRequest(http.MethodGet, "/inventory?type=ingredient", nil)
	rec := httptest.NewRecorder()
	HandleGetInventory(svc)(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		Data []domain.InventoryItem `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Data, 1)
	assert.Equal(t, "pink-sugar", resp.Data[0].ID)
}

func TestHandleGetItemNotFound(t *testing.T) {
	svc := newInventoryService(t)

	req := httptest.NewRequest(http.MethodGet, "/inventory/item?id=ghost", nil)
	rec := httptest.NewRecorder()
	HandleGetItem(svc)(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandleSearchInventoryRequiresQuery(t *testing.T) {
	svc := newInventoryService(t)

	req := httptest.NewRequest(http.MethodGet, "/inventory/search", nil)
	rec := httptest.NewRecorder()
	HandleSearchInventory(svc)(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleGetInventoryStats(t *testing.T) {
	svc := newInventoryService(t)
	svc.Add(context.Background(), []inventory.AddInput{
		{ID: "pink-sugar", Quantity: 2, Source: domain.SourceReward},
	})

	req := httptest.NewRequest(http.MethodGet, "/inventory/stats", nil)
	rec := httptest.NewRecorder()
	HandleGetInventoryStats(svc)(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		Data domain.InventoryStats `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 2, resp.Data.TotalQuantity)
	assert.Equal(t, 1, resp.Data.UniqueItems)
}
