package domain

import "time"

// ItemType categorizes where an inventory item's definition comes from
type ItemType string

const (
	ItemTypeIngredient  ItemType = "ingredient"
	ItemTypeMarketplace ItemType = "marketplace"
	ItemTypeCrafted     ItemType = "crafted"
)

// ItemSource records how an inventory item was obtained
type ItemSource string

const (
	SourcePurchase  ItemSource = "purchase"
	SourceDiscovery ItemSource = "discovery"
	SourceCrafting  ItemSource = "crafting"
	SourceReward    ItemSource = "reward"
)

// InventoryItem is one owned item record, unified across ingredient,
// marketplace and crafted items. Quantity is always positive: a record
// whose quantity reaches zero is removed from the store entirely.
type InventoryItem struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Image       string     `json:"image,omitempty"`
	Rarity      Rarity     `json:"rarity,omitempty"`
	Quantity    int        `json:"quantity"`
	DateAdded   time.Time  `json:"date_added"`
	Type        ItemType   `json:"type"`
	Source      ItemSource `json:"source"`
	MoodBonus   int        `json:"mood_bonus,omitempty"`
	HungerBonus int        `json:"hunger_bonus,omitempty"`
	EnergyBonus int        `json:"energy_bonus,omitempty"`
}

// InventoryStats summarizes the current inventory contents
type InventoryStats struct {
	TotalQuantity int                `json:"total_quantity"`
	UniqueItems   int                `json:"unique_items"`
	ByType        map[ItemType]int   `json:"by_type"`
	ByRarity      map[Rarity]int     `json:"by_rarity"`
}
