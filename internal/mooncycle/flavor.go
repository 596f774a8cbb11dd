package mooncycle

import "github.com/moonlinghq/moonling-core/internal/domain"

// flavorFindChance is the per-call probability of a flavor find
const flavorFindChance = 0.3

// FlavorFind is a character flavor-text discovery. It is deliberately
// separate from the catalog-backed discovery service and never enters
// the inventory.
type FlavorFind struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Message   string `json:"message"`
	MoodBonus int    `json:"mood_bonus"`
}

var flavorFinds = []FlavorFind{
	{ID: "moon-pebble", Name: "Moon Pebble", MoodBonus: 1,
		Message: "Your moonling found a smooth moon pebble and won't stop rolling it around."},
	{ID: "stardust-crumb", Name: "Stardust Crumb", MoodBonus: 2,
		Message: "A crumb of stardust! Your moonling sparkles with delight."},
	{ID: "comet-shard", Name: "Comet Shard", MoodBonus: 3,
		Message: "Your moonling caught a comet shard mid-fall. Show-off."},
	{ID: "lunar-bloom", Name: "Lunar Bloom", MoodBonus: 5,
		Message: "A lunar bloom opened just for your moonling. A once-in-a-cycle sight!"},
}

// GenerateIngredientDiscovery rolls a 30% chance of returning one of
// the fixed flavor finds, nil otherwise.
func (s *service) GenerateIngredientDiscovery() *FlavorFind {
	if s.rnd() >= flavorFindChance {
		return nil
	}
	idx := int(s.rnd() * float64(len(flavorFinds)))
	if idx >= len(flavorFinds) {
		idx = len(flavorFinds) - 1
	}
	find := flavorFinds[idx]
	return &find
}

// Food star thresholds over the summed mood bonus of a meal
var foodStarThresholds = []struct {
	minBonus int
	stars    int
}{
	{10, 5},
	{7, 4},
	{4, 3},
	{2, 2},
}

// CalculateFoodStars grades a meal by the summed mood bonus of its
// ingredients. An empty meal rates one star.
func (s *service) CalculateFoodStars(ingredients []domain.Ingredient) int {
	total := 0
	for _, ing := range ingredients {
		total += ing.MoodBonus
	}
	for _, t := range foodStarThresholds {
		if total >= t.minBonus {
			return t.stars
		}
	}
	return 1
}
