package domain

// Rarity represents the rarity tier of an ingredient
type Rarity string

const (
	RarityCommon    Rarity = "common"
	RarityUncommon  Rarity = "uncommon"
	RarityRare      Rarity = "rare"
	RarityEpic      Rarity = "epic"
	RarityLegendary Rarity = "legendary"
)

// ValidRarities lists every rarity tier in ascending order
var ValidRarities = []Rarity{
	RarityCommon,
	RarityUncommon,
	RarityRare,
	RarityEpic,
	RarityLegendary,
}

// IsValid reports whether the rarity is one of the known tiers
func (r Rarity) IsValid() bool {
	switch r {
	case RarityCommon, RarityUncommon, RarityRare, RarityEpic, RarityLegendary:
		return true
	}
	return false
}

// Ingredient is a static catalog entry. Immutable reference data,
// never mutated at runtime.
type Ingredient struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Image       string `json:"image"`
	Rarity      Rarity `json:"rarity"`
	Cost        int    `json:"cost"`
	MoodBonus   int    `json:"mood_bonus"`
	HungerBonus int    `json:"hunger_bonus"`
	EnergyBonus int    `json:"energy_bonus"`
}
