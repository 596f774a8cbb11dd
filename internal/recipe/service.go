// Package recipe provides recipe catalog queries and crafting
// orchestration layered on the inventory service.
package recipe

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/moonlinghq/moonling-core/internal/catalog"
	"github.com/moonlinghq/moonling-core/internal/domain"
	"github.com/moonlinghq/moonling-core/internal/logger"
	"github.com/moonlinghq/moonling-core/internal/metrics"
)

// Inventory is the narrow port this service needs from the inventory
type Inventory interface {
	Item(id string) (domain.InventoryItem, bool)
	CanCraft(recipe domain.Recipe) bool
	Craft(ctx context.Context, recipe domain.Recipe) bool
}

// CraftingResult reports the outcome of a craft attempt. Crafting
// never returns an error to the caller; failures are reported here.
type CraftingResult struct {
	Success    bool                      `json:"success"`
	RecipeID   string                    `json:"recipe_id"`
	Message    string                    `json:"message"`
	ResultItem *domain.ResultItem        `json:"result_item,omitempty"`
	Consumed   []domain.RecipeIngredient `json:"consumed,omitempty"`
}

// IngredientRequirement joins one recipe requirement against inventory
type IngredientRequirement struct {
	IngredientID string `json:"ingredient_id"`
	Name         string `json:"name"`
	Required     int    `json:"required"`
	Available    int    `json:"available"`
	Satisfied    bool   `json:"satisfied"`
}

// Requirements is the full craftability report for a recipe
type Requirements struct {
	RecipeID    string                  `json:"recipe_id"`
	CanCraft    bool                    `json:"can_craft"`
	Ingredients []IngredientRequirement `json:"ingredients"`
}

// Stats summarizes the recipe catalog
type Stats struct {
	Total        int                       `json:"total"`
	ByDifficulty map[domain.Difficulty]int `json:"by_difficulty"`
	ByStarRating map[int]int               `json:"by_star_rating"`
}

// Service defines the recipe operations
type Service interface {
	Recipe(id string) (domain.Recipe, bool)
	Recipes() []domain.Recipe
	RecipesByStarRating(stars int) []domain.Recipe
	RecipesByDifficulty(d domain.Difficulty) []domain.Recipe
	Search(query string) []domain.Recipe
	Stats() Stats

	Requirements(id string) (Requirements, bool)
	Craft(ctx context.Context, id string) CraftingResult
	Validate(r domain.Recipe) []string

	StartTimedCraft(ctx context.Context, id string, duration time.Duration) CraftingResult
	Progress(id string) (CraftingProgress, bool)
	ActiveCrafts() []CraftingProgress
	CancelCraft(id string)
	Shutdown()
}

type service struct {
	catalog   *catalog.Catalog
	inventory Inventory

	mu     sync.Mutex
	active map[string]*timedCraft
	now    func() time.Time
}

// NewService creates a new recipe service
func NewService(cat *catalog.Catalog, inv Inventory) Service {
	return &service{
		catalog:   cat,
		inventory: inv,
		active:    make(map[string]*timedCraft),
		now:       time.Now,
	}
}

// Recipe looks up a recipe by id
func (s *service) Recipe(id string) (domain.Recipe, bool) {
	return s.catalog.Recipe(id)
}

// Recipes returns the full recipe catalog
func (s *service) Recipes() []domain.Recipe {
	return s.catalog.Recipes()
}

// RecipesByStarRating returns recipes with the given star rating
func (s *service) RecipesByStarRating(stars int) []domain.Recipe {
	var out []domain.Recipe
	for _, r := range s.catalog.Recipes() {
		if r.StarRating == stars {
			out = append(out, r)
		}
	}
	return out
}

// RecipesByDifficulty returns recipes with the given difficulty
func (s *service) RecipesByDifficulty(d domain.Difficulty) []domain.Recipe {
	var out []domain.Recipe
	for _, r := range s.catalog.Recipes() {
		if r.Difficulty == d {
			out = append(out, r)
		}
	}
	return out
}

// Search does a case-insensitive substring match on name and description
func (s *service) Search(query string) []domain.Recipe {
	q := strings.ToLower(query)
	var out []domain.Recipe
	for _, r := range s.catalog.Recipes() {
		if strings.Contains(strings.ToLower(r.Name), q) ||
			strings.Contains(strings.ToLower(r.Description), q) {
			out = append(out, r)
		}
	}
	return out
}

// Stats aggregates the recipe catalog
func (s *service) Stats() Stats {
	stats := Stats{
		ByDifficulty: make(map[domain.Difficulty]int),
		ByStarRating: make(map[int]int),
	}
	for _, r := range s.catalog.Recipes() {
		stats.Total++
		stats.ByDifficulty[r.Difficulty]++
		stats.ByStarRating[r.StarRating]++
	}
	return stats
}

// Requirements joins a recipe's materials against current inventory
func (s *service) Requirements(id string) (Requirements, bool) {
	r, ok := s.catalog.Recipe(id)
	if !ok {
		return Requirements{}, false
	}

	reqs := Requirements{RecipeID: id, CanCraft: true}
	for _, need := range r.Ingredients {
		available := 0
		if item, ok := s.inventory.Item(need.IngredientID); ok {
			available = item.Quantity
		}
		name := need.IngredientID
		if ing, ok := s.catalog.Ingredient(need.IngredientID); ok {
			name = ing.Name
		}
		satisfied := available >= need.Quantity
		if !satisfied {
			reqs.CanCraft = false
		}
		reqs.Ingredients = append(reqs.Ingredients, IngredientRequirement{
			IngredientID: need.IngredientID,
			Name:         name,
			Required:     need.Quantity,
			Available:    available,
			Satisfied:    satisfied,
		})
	}
	return reqs, true
}

// Craft crafts a recipe instantly. It never returns an error: all
// failures are folded into the result message.
func (s *service) Craft(ctx context.Context, id string) CraftingResult {
	log := logger.FromContext(ctx)

	r, ok := s.catalog.Recipe(id)
	if !ok {
		return CraftingResult{
			RecipeID: id,
			Message:  fmt.Sprintf("Recipe '%s' does not exist.", id),
		}
	}

	if !s.inventory.Craft(ctx, r) {
		log.Warn("Craft failed", "recipe", id)
		return CraftingResult{
			RecipeID: id,
			Message:  fmt.Sprintf("Not enough ingredients to craft %s.", r.Name),
		}
	}

	metrics.RecipesCrafted.WithLabelValues(id).Inc()

	result := r.Result
	return CraftingResult{
		Success:    true,
		RecipeID:   id,
		Message:    fmt.Sprintf("Crafted %s!", r.Name),
		ResultItem: &result,
		Consumed:   r.Ingredients,
	}
}

// Validate checks a recipe's structural sanity and returns the list of
// violated constraints, empty when the recipe is well formed.
func (s *service) Validate(r domain.Recipe) []string {
	var violations []string

	if r.ID == "" {
		violations = append(violations, "id must not be empty")
	}
	if r.Name == "" {
		violations = append(violations, "name must not be empty")
	}
	if r.Description == "" {
		violations = append(violations, "description must not be empty")
	}
	if len(r.Ingredients) == 0 {
		violations = append(violations, "at least one ingredient is required")
	}
	seen := make(map[string]bool, len(r.Ingredients))
	for _, req := range r.Ingredients {
		if req.IngredientID == "" {
			violations = append(violations, "ingredient id must not be empty")
		}
		if req.Quantity < 1 {
			violations = append(violations, fmt.Sprintf("ingredient '%s' quantity must be positive", req.IngredientID))
		}
		if seen[req.IngredientID] {
			violations = append(violations, fmt.Sprintf("ingredient '%s' is listed more than once", req.IngredientID))
		}
		seen[req.IngredientID] = true
	}
	if r.Result.ID == "" || r.Result.Name == "" {
		violations = append(violations, "result item must have id and name")
	}
	if r.StarRating < domain.MinStarRating || r.StarRating > domain.MaxStarRating {
		violations = append(violations, fmt.Sprintf("star rating must be between %d and %d", domain.MinStarRating, domain.MaxStarRating))
	}
	if !r.Difficulty.IsValid() {
		violations = append(violations, fmt.Sprintf("unknown difficulty '%s'", r.Difficulty))
	}

	return violations
}
