package handler

import (
	"net/http"

	"github.com/moonlinghq/moonling-core/internal/catalog"
	"github.com/moonlinghq/moonling-core/internal/domain"
	"github.com/moonlinghq/moonling-core/internal/logger"
	"github.com/moonlinghq/moonling-core/internal/mooncycle"
	"github.com/moonlinghq/moonling-core/internal/points"
)

// CycleScope identifies whose cycle a request targets
type CycleScope struct {
	Wallet        string `json:"wallet" validate:"required,max=100"`
	CharacterMint string `json:"character_mint" validate:"required,max=100"`
}

// scopeFromQuery reads the wallet and mint query parameters. If ok is
// false the response has already been written.
func scopeFromQuery(r *http.Request, w http.ResponseWriter) (CycleScope, bool) {
	wallet, ok := GetQueryParam(r, w, "wallet")
	if !ok {
		return CycleScope{}, false
	}
	mint, ok := GetQueryParam(r, w, "mint")
	if !ok {
		return CycleScope{}, false
	}
	return CycleScope{Wallet: wallet, CharacterMint: mint}, true
}

// HandleGetCurrentCycle returns the active cycle, creating one if
// needed.
func HandleGetCurrentCycle(svc mooncycle.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		scope, ok := scopeFromQuery(r, w)
		if !ok {
			return
		}
		cycle := svc.CurrentCycle(r.Context(), scope.Wallet, scope.CharacterMint)
		respondJSON(w, http.StatusOK, DataResponse{Data: cycle})
	}
}

type RecordStatsRequest struct {
	CycleScope
	Mood          int     `json:"mood" validate:"min=0,max=10"`
	Hunger        int     `json:"hunger" validate:"min=0,max=10"`
	Energy        int     `json:"energy" validate:"min=0,max=10"`
	Action        string  `json:"action" validate:"required,action"`
	SleepDuration float64 `json:"sleep_duration,omitempty" validate:"min=0,max=24"`
	CharacterName string  `json:"character_name,omitempty" validate:"max=100"`
}

// HandleRecordDailyStats applies one care action to today's entry.
// Precondition failures (no active cycle, completed cycle) come back
// as success=false in the payload.
func HandleRecordDailyStats(svc mooncycle.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromContext(r.Context())

		var req RecordStatsRequest
		if err := DecodeAndValidateRequest(r, w, &req, "Record daily stats"); err != nil {
			return
		}

		result := svc.RecordDailyStats(r.Context(), req.Wallet, req.CharacterMint, mooncycle.StatsInput{
			Mood:          req.Mood,
			Hunger:        req.Hunger,
			Energy:        req.Energy,
			Action:        domain.ActionType(req.Action),
			SleepDuration: req.SleepDuration,
			CharacterName: req.CharacterName,
		})

		log.Info("Daily stats recorded", "character", req.CharacterMint, "action", req.Action, "success", result.Success)
		respondJSON(w, http.StatusOK, DataResponse{Data: result})
	}
}

type SleepRequest struct {
	CycleScope
}

// HandleStartSleep opens a sleep session
func HandleStartSleep(svc mooncycle.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req SleepRequest
		if err := DecodeAndValidateRequest(r, w, &req, "Start sleep"); err != nil {
			return
		}
		result := svc.StartSleep(r.Context(), req.Wallet, req.CharacterMint)
		respondJSON(w, http.StatusOK, DataResponse{Data: result})
	}
}

// HandleEndSleep closes the open sleep session and grades it
func HandleEndSleep(svc mooncycle.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req SleepRequest
		if err := DecodeAndValidateRequest(r, w, &req, "End sleep"); err != nil {
			return
		}
		result := svc.EndSleep(r.Context(), req.Wallet, req.CharacterMint)
		respondJSON(w, http.StatusOK, DataResponse{Data: result})
	}
}

type CompleteCycleRequest struct {
	CycleScope
}

// HandleCheckCycleCompletion settles a finished cycle. Before day 28,
// or after settlement, the reward is null.
func HandleCheckCycleCompletion(svc mooncycle.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req CompleteCycleRequest
		if err := DecodeAndValidateRequest(r, w, &req, "Check cycle completion"); err != nil {
			return
		}
		reward := svc.CheckCycleCompletion(r.Context(), req.Wallet, req.CharacterMint)
		respondJSON(w, http.StatusOK, DataResponse{Data: reward})
	}
}

// HandleGetCycleProgress returns the read-only cycle projection
func HandleGetCycleProgress(svc mooncycle.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		scope, ok := scopeFromQuery(r, w)
		if !ok {
			return
		}
		progress := svc.CycleProgress(r.Context(), scope.Wallet, scope.CharacterMint)
		respondJSON(w, http.StatusOK, DataResponse{Data: progress})
	}
}

// HandleFlavorDiscovery rolls the character flavor find
func HandleFlavorDiscovery(svc mooncycle.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, DataResponse{Data: svc.GenerateIngredientDiscovery()})
	}
}

type FoodStarsRequest struct {
	IngredientIDs []string `json:"ingredient_ids" validate:"max=20,dive,max=100"`
}

// FoodStarsResponse carries the star grade of a meal
type FoodStarsResponse struct {
	Stars int `json:"stars"`
}

// HandleFoodStars grades a meal composed of catalog ingredients.
// Unknown ids are ignored rather than rejected, matching how the
// grading treats an empty meal.
func HandleFoodStars(svc mooncycle.Service, cat *catalog.Catalog) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req FoodStarsRequest
		if err := DecodeAndValidateRequest(r, w, &req, "Food stars"); err != nil {
			return
		}

		var ingredients []domain.Ingredient
		for _, id := range req.IngredientIDs {
			if ing, ok := cat.Ingredient(id); ok {
				ingredients = append(ingredients, ing)
			}
		}
		respondJSON(w, http.StatusOK, DataResponse{Data: FoodStarsResponse{
			Stars: svc.CalculateFoodStars(ingredients),
		}})
	}
}

// HandleGetPointBalance returns a character's point balance
func HandleGetPointBalance(svc points.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		mint, ok := GetQueryParam(r, w, "mint")
		if !ok {
			return
		}
		respondJSON(w, http.StatusOK, DataResponse{Data: svc.Balance(r.Context(), mint)})
	}
}
