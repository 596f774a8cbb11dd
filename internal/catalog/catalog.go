// Package catalog holds the static ingredient and recipe reference
// data. Catalog contents are loaded once at startup and never mutated.
package catalog

import (
	"github.com/moonlinghq/moonling-core/internal/domain"
)

// Catalog provides indexed lookup over the loaded reference data
type Catalog struct {
	ingredients     map[string]domain.Ingredient
	ingredientOrder []string
	byRarity        map[domain.Rarity][]domain.Ingredient

	recipes     map[string]domain.Recipe
	recipeOrder []string
}

// New builds a catalog from already-validated definitions. Tests use
// this directly; production code goes through the Loader.
func New(ingredients []domain.Ingredient, recipes []domain.Recipe) *Catalog {
	c := &Catalog{
		ingredients: make(map[string]domain.Ingredient, len(ingredients)),
		byRarity:    make(map[domain.Rarity][]domain.Ingredient),
		recipes:     make(map[string]domain.Recipe, len(recipes)),
	}
	for _, ing := range ingredients {
		c.ingredients[ing.ID] = ing
		c.ingredientOrder = append(c.ingredientOrder, ing.ID)
		c.byRarity[ing.Rarity] = append(c.byRarity[ing.Rarity], ing)
	}
	for _, r := range recipes {
		c.recipes[r.ID] = r
		c.recipeOrder = append(c.recipeOrder, r.ID)
	}
	return c
}

// Ingredient looks up an ingredient by id
func (c *Catalog) Ingredient(id string) (domain.Ingredient, bool) {
	ing, ok := c.ingredients[id]
	return ing, ok
}

// Ingredients returns all ingredients in definition order
func (c *Catalog) Ingredients() []domain.Ingredient {
	out := make([]domain.Ingredient, 0, len(c.ingredientOrder))
	for _, id := range c.ingredientOrder {
		out = append(out, c.ingredients[id])
	}
	return out
}

// IngredientsByRarity returns the catalog subset for one rarity tier.
// The returned slice may be empty for tiers with no catalog entries.
func (c *Catalog) IngredientsByRarity(r domain.Rarity) []domain.Ingredient {
	return c.byRarity[r]
}

// Recipe looks up a recipe by id
func (c *Catalog) Recipe(id string) (domain.Recipe, bool) {
	r, ok := c.recipes[id]
	return r, ok
}

// Recipes returns all recipes in definition order
func (c *Catalog) Recipes() []domain.Recipe {
	out := make([]domain.Recipe, 0, len(c.recipeOrder))
	for _, id := range c.recipeOrder {
		out = append(out, c.recipes[id])
	}
	return out
}
