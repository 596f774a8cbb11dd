package domain

// Difficulty represents how hard a recipe is to craft
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
	DifficultyExpert Difficulty = "expert"
)

// IsValid reports whether the difficulty is one of the known levels
func (d Difficulty) IsValid() bool {
	switch d {
	case DifficultyEasy, DifficultyMedium, DifficultyHard, DifficultyExpert:
		return true
	}
	return false
}

// Star rating bounds for recipes
const (
	MinStarRating = 1
	MaxStarRating = 4
)

// RecipeIngredient is a single material requirement for a recipe
type RecipeIngredient struct {
	IngredientID string `json:"ingredient_id"`
	Quantity     int    `json:"quantity"`
}

// ResultItem describes the item a recipe produces. It is a distinct
// descriptor, not itself an Ingredient.
type ResultItem struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Image       string `json:"image"`
}

// Recipe is a static catalog entry. Immutable.
type Recipe struct {
	ID          string             `json:"id"`
	Name        string             `json:"name"`
	Description string             `json:"description"`
	Ingredients []RecipeIngredient `json:"ingredients"`
	Result      ResultItem         `json:"result"`
	StarRating  int                `json:"star_rating"`
	Difficulty  Difficulty         `json:"difficulty"`
}
