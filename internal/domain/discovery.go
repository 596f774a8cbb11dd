package domain

import "time"

// IngredientDiscovery is an ephemeral record of a passive ingredient
// find, appended to a rolling discovery log.
type IngredientDiscovery struct {
	ID           string    `json:"id"`
	IngredientID string    `json:"ingredient_id"`
	Quantity     int       `json:"quantity"`
	DiscoveredAt time.Time `json:"discovered_at"`
	Rarity       Rarity    `json:"rarity"`
	Message      string    `json:"message"`
}

// DiscoverySettings is the per-installation discovery configuration.
// DailyDiscoveries resets to zero exactly once per calendar day,
// lazily, the first time any discovery call observes a date change.
type DiscoverySettings struct {
	Enabled              bool      `json:"enabled"`
	IntervalHours        float64   `json:"interval_hours"`
	LastDiscoveryTime    time.Time `json:"last_discovery_time"`
	DiscoveryChance      float64   `json:"discovery_chance"` // 0..1
	MaxDiscoveriesPerDay int       `json:"max_discoveries_per_day"`
	DailyDiscoveries     int       `json:"daily_discoveries"`
	LastDailyReset       string    `json:"last_daily_reset"` // YYYY-MM-DD
}

// DefaultDiscoverySettings returns the settings used for a fresh install
func DefaultDiscoverySettings() DiscoverySettings {
	return DiscoverySettings{
		Enabled:              true,
		IntervalHours:        4,
		DiscoveryChance:      0.7,
		MaxDiscoveriesPerDay: 3,
	}
}
