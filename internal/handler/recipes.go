package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/moonlinghq/moonling-core/internal/domain"
	"github.com/moonlinghq/moonling-core/internal/logger"
	"github.com/moonlinghq/moonling-core/internal/recipe"
)

// HandleGetRecipes lists recipes, optionally filtered by the stars,
// difficulty, or q query parameters.
func HandleGetRecipes(svc recipe.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var recipes []domain.Recipe
		switch {
		case r.URL.Query().Get("stars") != "":
			stars, err := strconv.Atoi(r.URL.Query().Get("stars"))
			if err != nil {
				respondError(w, http.StatusBadRequest, "stars must be a number")
				return
			}
			recipes = svc.RecipesByStarRating(stars)
		case r.URL.Query().Get("difficulty") != "":
			recipes = svc.RecipesByDifficulty(domain.Difficulty(r.URL.Query().Get("difficulty")))
		case r.URL.Query().Get("q") != "":
			recipes = svc.Search(r.URL.Query().Get("q"))
		default:
			recipes = svc.Recipes()
		}
		respondJSON(w, http.StatusOK, DataResponse{Data: recipes})
	}
}

// HandleGetRecipe returns one recipe by id
func HandleGetRecipe(svc recipe.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		rec, ok := svc.Recipe(id)
		if !ok {
			respondError(w, http.StatusNotFound, ErrMsgRecipeNotFound)
			return
		}
		respondJSON(w, http.StatusOK, DataResponse{Data: rec})
	}
}

// HandleGetRecipeStats returns aggregate recipe catalog stats
func HandleGetRecipeStats(svc recipe.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, DataResponse{Data: svc.Stats()})
	}
}

// HandleGetRequirements joins a recipe's materials against inventory
func HandleGetRequirements(svc recipe.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		reqs, ok := svc.Requirements(id)
		if !ok {
			respondError(w, http.StatusNotFound, ErrMsgRecipeNotFound)
			return
		}
		respondJSON(w, http.StatusOK, DataResponse{Data: reqs})
	}
}

// HandleCraftRecipe crafts a recipe instantly. Craft failures are part
// of the result payload, not HTTP errors.
func HandleCraftRecipe(svc recipe.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromContext(r.Context())

		id := chi.URLParam(r, "id")
		result := svc.Craft(r.Context(), id)
		log.Info("Craft attempted", "recipe", id, "success", result.Success)
		respondJSON(w, http.StatusOK, DataResponse{Data: result})
	}
}

type TimedCraftRequest struct {
	DurationSeconds int `json:"duration_seconds" validate:"min=1,max=86400"`
}

// HandleStartTimedCraft starts a deferred craft for a recipe
func HandleStartTimedCraft(svc recipe.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req TimedCraftRequest
		if err := DecodeAndValidateRequest(r, w, &req, "Start timed craft"); err != nil {
			return
		}

		id := chi.URLParam(r, "id")
		result := svc.StartTimedCraft(r.Context(), id, time.Duration(req.DurationSeconds)*time.Second)
		respondJSON(w, http.StatusOK, DataResponse{Data: result})
	}
}

// HandleGetCraftProgress reports progress of one timed craft
func HandleGetCraftProgress(svc recipe.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		progress, ok := svc.Progress(id)
		if !ok {
			respondError(w, http.StatusNotFound, ErrMsgCraftNotActive)
			return
		}
		respondJSON(w, http.StatusOK, DataResponse{Data: progress})
	}
}

// HandleGetActiveCrafts lists all in-flight timed crafts
func HandleGetActiveCrafts(svc recipe.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, DataResponse{Data: svc.ActiveCrafts()})
	}
}

// HandleCancelCraft cancels a timed craft. Cancellation is idempotent,
// so cancelling an unknown id still succeeds.
func HandleCancelCraft(svc recipe.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromContext(r.Context())

		id := chi.URLParam(r, "id")
		svc.CancelCraft(id)
		log.Info("Timed craft cancelled", "recipe", id)
		respondJSON(w, http.StatusOK, SuccessResponse{Message: "Crafting cancelled"})
	}
}
