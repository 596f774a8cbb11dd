package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/moonlinghq/moonling-core/internal/catalog"
	"github.com/moonlinghq/moonling-core/internal/domain"
)

// HandleGetIngredients lists the ingredient catalog, optionally
// filtered by the rarity query parameter.
func HandleGetIngredients(cat *catalog.Catalog) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if rarity := r.URL.Query().Get("rarity"); rarity != "" {
			if !domain.Rarity(rarity).IsValid() {
				respondError(w, http.StatusBadRequest, "Invalid rarity tier")
				return
			}
			respondJSON(w, http.StatusOK, DataResponse{Data: cat.IngredientsByRarity(domain.Rarity(rarity))})
			return
		}
		respondJSON(w, http.StatusOK, DataResponse{Data: cat.Ingredients()})
	}
}

// HandleGetIngredient returns one catalog ingredient by id
func HandleGetIngredient(cat *catalog.Catalog) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		ing, ok := cat.Ingredient(id)
		if !ok {
			respondError(w, http.StatusNotFound, ErrMsgIngredientNotFound)
			return
		}
		respondJSON(w, http.StatusOK, DataResponse{Data: ing})
	}
}
