package handler

import (
	"net/http"

	"github.com/moonlinghq/moonling-core/internal/domain"
	"github.com/moonlinghq/moonling-core/internal/inventory"
	"github.com/moonlinghq/moonling-core/internal/logger"
)

type AddItemsRequest struct {
	Items []AddItemEntry `json:"items" validate:"required,min=1,max=100,dive"`
}

type AddItemEntry struct {
	ID       string `json:"id" validate:"required,max=100"`
	Quantity int    `json:"quantity" validate:"min=1,max=10000"`
	Source   string `json:"source" validate:"required,oneof=purchase discovery crafting reward"`
}

// HandleAddItems adds a batch of items to the inventory
func HandleAddItems(svc inventory.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromContext(r.Context())

		var req AddItemsRequest
		if err := DecodeAndValidateRequest(r, w, &req, "Add items"); err != nil {
			return
		}

		batch := make([]inventory.AddInput, 0, len(req.Items))
		for _, entry := range req.Items {
			batch = append(batch, inventory.AddInput{
				ID:       entry.ID,
				Quantity: entry.Quantity,
				Source:   domain.ItemSource(entry.Source),
			})
		}
		svc.Add(r.Context(), batch)

		log.Info("Items added", "count", len(batch))
		respondJSON(w, http.StatusOK, SuccessResponse{Message: "Items added successfully"})
	}
}

type RemoveItemRequest struct {
	ID       string `json:"id" validate:"required,max=100"`
	Quantity int    `json:"quantity" validate:"min=1,max=10000"`
}

// HandleRemoveItem removes a quantity of one item
func HandleRemoveItem(svc inventory.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromContext(r.Context())

		var req RemoveItemRequest
		if err := DecodeAndValidateRequest(r, w, &req, "Remove item"); err != nil {
			return
		}

		if !svc.Remove(r.Context(), req.ID, req.Quantity) {
			log.Warn("Remove item failed", "item", req.ID, "quantity", req.Quantity)
			respondError(w, http.StatusConflict, "Item absent or quantity insufficient")
			return
		}

		log.Info("Item removed", "item", req.ID, "quantity", req.Quantity)
		respondJSON(w, http.StatusOK, SuccessResponse{Message: "Item removed successfully"})
	}
}

// HandleGetInventory returns the full inventory, optionally filtered
// by the type or rarity query parameters.
func HandleGetInventory(svc inventory.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var items []domain.InventoryItem
		switch {
		case r.URL.Query().Get("type") != "":
			items = svc.ItemsByType(domain.ItemType(r.URL.Query().Get("type")))
		case r.URL.Query().Get("rarity") != "":
			items = svc.ItemsByRarity(domain.Rarity(r.URL.Query().Get("rarity")))
		default:
			items = svc.Items()
		}
		respondJSON(w, http.StatusOK, DataResponse{Data: items})
	}
}

// HandleGetItem returns one inventory item by id
func HandleGetItem(svc inventory.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := GetQueryParam(r, w, "id")
		if !ok {
			return
		}
		item, ok := svc.Item(id)
		if !ok {
			respondError(w, http.StatusNotFound, ErrMsgItemNotFound)
			return
		}
		respondJSON(w, http.StatusOK, DataResponse{Data: item})
	}
}

// HandleSearchInventory searches the inventory. The fuzzy parameter
// switches from substring to fuzzy name matching.
func HandleSearchInventory(svc inventory.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		query, ok := GetQueryParam(r, w, "q")
		if !ok {
			return
		}
		var items []domain.InventoryItem
		if r.URL.Query().Get("fuzzy") == "true" {
			items = svc.SearchFuzzy(query)
		} else {
			items = svc.Search(query)
		}
		respondJSON(w, http.StatusOK, DataResponse{Data: items})
	}
}

// HandleGetInventoryStats returns aggregate inventory stats
func HandleGetInventoryStats(svc inventory.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, DataResponse{Data: svc.Stats()})
	}
}
