package domain

import "errors"

// Error message string constants - single source of truth for error messages.
// Use these in assert.Contains() checks when testing error messages
const (
	// Cycle errors
	ErrMsgNoActiveCycle  = "no active cycle"
	ErrMsgCycleCompleted = "cycle already completed"

	// Sleep errors
	ErrMsgAlreadySleeping = "already sleeping"
	ErrMsgNotSleeping     = "not currently sleeping"

	// Inventory errors
	ErrMsgItemNotFound         = "item not found"
	ErrMsgInsufficientQuantity = "insufficient quantity"

	// Catalog errors
	ErrMsgIngredientNotFound = "ingredient not found"
	ErrMsgRecipeNotFound     = "recipe not found"
	ErrMsgInvalidRecipe      = "invalid recipe"

	// Crafting errors
	ErrMsgMissingIngredients = "missing ingredients"
	ErrMsgCraftingActive     = "crafting already in progress"

	// Input errors
	ErrMsgInvalidInput = "invalid input"
)

// Common domain errors.
// Wrap these with fmt.Errorf("%w: %s", domain.ErrXxx, details) for additional context.
var (
	ErrNoActiveCycle  = errors.New(ErrMsgNoActiveCycle)
	ErrCycleCompleted = errors.New(ErrMsgCycleCompleted)

	ErrAlreadySleeping = errors.New(ErrMsgAlreadySleeping)
	ErrNotSleeping     = errors.New(ErrMsgNotSleeping)

	ErrItemNotFound         = errors.New(ErrMsgItemNotFound)
	ErrInsufficientQuantity = errors.New(ErrMsgInsufficientQuantity)

	ErrIngredientNotFound = errors.New(ErrMsgIngredientNotFound)
	ErrRecipeNotFound     = errors.New(ErrMsgRecipeNotFound)
	ErrInvalidRecipe      = errors.New(ErrMsgInvalidRecipe)

	ErrMissingIngredients = errors.New(ErrMsgMissingIngredients)
	ErrCraftingActive     = errors.New(ErrMsgCraftingActive)

	ErrInvalidInput = errors.New(ErrMsgInvalidInput)
)
