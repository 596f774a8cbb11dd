package catalog

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"

	"github.com/moonlinghq/moonling-core/internal/domain"
)

// Sentinel errors for the catalog loader
var (
	ErrDuplicateID       = errors.New("duplicate id")
	ErrInvalidConfig     = errors.New("invalid configuration")
	ErrUnknownIngredient = errors.New("recipe references unknown ingredient")
)

// IngredientsConfig is the JSON shape of configs/ingredients.json
type IngredientsConfig struct {
	Version     string          `json:"version"`
	Description string          `json:"description"`
	Ingredients []IngredientDef `json:"ingredients" validate:"min=1,dive"`
}

// IngredientDef is a single ingredient definition in the JSON
type IngredientDef struct {
	ID          string `json:"id" validate:"required"`
	Name        string `json:"name" validate:"required"`
	Description string `json:"description"`
	Image       string `json:"image"`
	Rarity      string `json:"rarity" validate:"required,oneof=common uncommon rare epic legendary"`
	Cost        int    `json:"cost" validate:"min=0"`
	MoodBonus   int    `json:"mood_bonus"`
	HungerBonus int    `json:"hunger_bonus"`
	EnergyBonus int    `json:"energy_bonus"`
}

// RecipesConfig is the JSON shape of configs/recipes.json
type RecipesConfig struct {
	Version     string      `json:"version"`
	Description string      `json:"description"`
	Recipes     []RecipeDef `json:"recipes" validate:"min=1,dive"`
}

// RecipeDef is a single recipe definition in the JSON
type RecipeDef struct {
	ID          string                `json:"id" validate:"required"`
	Name        string                `json:"name" validate:"required"`
	Description string                `json:"description" validate:"required"`
	Ingredients []RecipeIngredientDef `json:"ingredients" validate:"min=1,dive"`
	Result      ResultDef             `json:"result"`
	StarRating  int                   `json:"star_rating" validate:"min=1,max=4"`
	Difficulty  string                `json:"difficulty" validate:"required,oneof=easy medium hard expert"`
}

// RecipeIngredientDef is one material requirement in a recipe definition
type RecipeIngredientDef struct {
	IngredientID string `json:"ingredient_id" validate:"required"`
	Quantity     int    `json:"quantity" validate:"min=1"`
}

// ResultDef is the produced-item descriptor in a recipe definition
type ResultDef struct {
	ID          string `json:"id" validate:"required"`
	Name        string `json:"name" validate:"required"`
	Description string `json:"description"`
	Image       string `json:"image"`
}

// Loader handles loading and validating catalog configuration
type Loader interface {
	Load(ingredientsPath, recipesPath string) (*Catalog, error)
}

type loader struct {
	validate *validator.Validate
}

// NewLoader creates a new Loader instance
func NewLoader() Loader {
	return &loader{validate: validator.New()}
}

// Load reads, validates and indexes both catalog files
func (l *loader) Load(ingredientsPath, recipesPath string) (*Catalog, error) {
	ingredients, err := l.loadIngredients(ingredientsPath)
	if err != nil {
		return nil, err
	}

	recipes, err := l.loadRecipes(recipesPath, ingredients)
	if err != nil {
		return nil, err
	}

	ingList := make([]domain.Ingredient, 0, len(ingredients))
	for _, def := range ingredients {
		ingList = append(ingList, domain.Ingredient{
			ID:          def.ID,
			Name:        def.Name,
			Description: def.Description,
			Image:       def.Image,
			Rarity:      domain.Rarity(def.Rarity),
			Cost:        def.Cost,
			MoodBonus:   def.MoodBonus,
			HungerBonus: def.HungerBonus,
			EnergyBonus: def.EnergyBonus,
		})
	}

	return New(ingList, recipes), nil
}

func (l *loader) loadIngredients(path string) ([]IngredientDef, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read ingredients config: %w", err)
	}

	var config IngredientsConfig
	if err := json.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse ingredients config: %w", err)
	}

	if err := l.validate.Struct(&config); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidConfig, err)
	}

	seen := make(map[string]bool, len(config.Ingredients))
	for _, def := range config.Ingredients {
		if seen[def.ID] {
			return nil, fmt.Errorf("%w: ingredient '%s'", ErrDuplicateID, def.ID)
		}
		seen[def.ID] = true
	}

	return config.Ingredients, nil
}

func (l *loader) loadRecipes(path string, ingredients []IngredientDef) ([]domain.Recipe, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read recipes config: %w", err)
	}

	var config RecipesConfig
	if err := json.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse recipes config: %w", err)
	}

	if err := l.validate.Struct(&config); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidConfig, err)
	}

	known := make(map[string]bool, len(ingredients))
	for _, def := range ingredients {
		known[def.ID] = true
	}

	seen := make(map[string]bool, len(config.Recipes))
	recipes := make([]domain.Recipe, 0, len(config.Recipes))
	for _, def := range config.Recipes {
		if seen[def.ID] {
			return nil, fmt.Errorf("%w: recipe '%s'", ErrDuplicateID, def.ID)
		}
		seen[def.ID] = true

		reqSeen := make(map[string]bool, len(def.Ingredients))
		reqs := make([]domain.RecipeIngredient, 0, len(def.Ingredients))
		for _, req := range def.Ingredients {
			if !known[req.IngredientID] {
				return nil, fmt.Errorf("%w: recipe '%s' needs '%s'", ErrUnknownIngredient, def.ID, req.IngredientID)
			}
			if reqSeen[req.IngredientID] {
				return nil, fmt.Errorf("%w: recipe '%s' lists ingredient '%s' twice", ErrDuplicateID, def.ID, req.IngredientID)
			}
			reqSeen[req.IngredientID] = true
			reqs = append(reqs, domain.RecipeIngredient{
				IngredientID: req.IngredientID,
				Quantity:     req.Quantity,
			})
		}

		recipes = append(recipes, domain.Recipe{
			ID:          def.ID,
			Name:        def.Name,
			Description: def.Description,
			Ingredients: reqs,
			Result: domain.ResultItem{
				ID:          def.Result.ID,
				Name:        def.Result.Name,
				Description: def.Result.Description,
				Image:       def.Result.Image,
			},
			StarRating: def.StarRating,
			Difficulty: domain.Difficulty(def.Difficulty),
		})
	}

	return recipes, nil
}
