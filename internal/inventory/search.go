package inventory

import (
	"strings"

	"github.com/sahilm/fuzzy"

	"github.com/moonlinghq/moonling-core/internal/domain"
)

// Items returns a copy of the current item list
func (s *service) Items() []domain.InventoryItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// Item looks up a single record by id
func (s *service) Item(id string) (domain.InventoryItem, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if i := s.indexOf(id); i != -1 {
		return s.items[i], true
	}
	return domain.InventoryItem{}, false
}

// ItemsByType returns all records of the given type
func (s *service) ItemsByType(t domain.ItemType) []domain.InventoryItem {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []domain.InventoryItem
	for _, item := range s.items {
		if item.Type == t {
			out = append(out, item)
		}
	}
	return out
}

// ItemsByRarity returns all records of the given rarity
func (s *service) ItemsByRarity(r domain.Rarity) []domain.InventoryItem {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []domain.InventoryItem
	for _, item := range s.items {
		if item.Rarity == r {
			out = append(out, item)
		}
	}
	return out
}

// Search does a case-insensitive substring match across name,
// description and rarity.
func (s *service) Search(query string) []domain.InventoryItem {
	s.mu.Lock()
	defer s.mu.Unlock()

	q := strings.ToLower(query)
	var out []domain.InventoryItem
	for _, item := range s.items {
		if strings.Contains(strings.ToLower(item.Name), q) ||
			strings.Contains(strings.ToLower(item.Description), q) ||
			strings.Contains(strings.ToLower(string(item.Rarity)), q) {
			out = append(out, item)
		}
	}
	return out
}

// SearchFuzzy ranks items by fuzzy match against their names, for
// typo-tolerant lookups from the client.
func (s *service) SearchFuzzy(query string) []domain.InventoryItem {
	s.mu.Lock()
	defer s.mu.Unlock()

	names := make([]string, len(s.items))
	for i, item := range s.items {
		names[i] = item.Name
	}

	matches := fuzzy.Find(query, names)
	out := make([]domain.InventoryItem, 0, len(matches))
	for _, m := range matches {
		out = append(out, s.items[m.Index])
	}
	return out
}

// Stats aggregates quantities and breakdowns over the current items
func (s *service) Stats() domain.InventoryStats {
	s.mu.Lock()
	defer s.mu.Unlock()

	stats := domain.InventoryStats{
		ByType:   make(map[domain.ItemType]int),
		ByRarity: make(map[domain.Rarity]int),
	}
	for _, item := range s.items {
		stats.TotalQuantity += item.Quantity
		stats.UniqueItems++
		stats.ByType[item.Type] += item.Quantity
		if item.Rarity != "" {
			stats.ByRarity[item.Rarity] += item.Quantity
		}
	}
	return stats
}
