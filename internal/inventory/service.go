// Package inventory is the single source of truth for owned item
// quantities. The whole item list is persisted as one JSON blob and
// rewritten after every successful mutation.
package inventory

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/moonlinghq/moonling-core/internal/catalog"
	"github.com/moonlinghq/moonling-core/internal/domain"
	"github.com/moonlinghq/moonling-core/internal/logger"
	"github.com/moonlinghq/moonling-core/internal/storage"
)

// AddInput describes one batch entry for Add
type AddInput struct {
	ID       string            `json:"id"`
	Quantity int               `json:"quantity"`
	Source   domain.ItemSource `json:"source"`
}

// Listener receives the full item snapshot after every successful mutation
type Listener func(items []domain.InventoryItem)

// Service defines the inventory operations
type Service interface {
	Add(ctx context.Context, items []AddInput)
	Remove(ctx context.Context, id string, quantity int) bool
	CanCraft(recipe domain.Recipe) bool
	Craft(ctx context.Context, recipe domain.Recipe) bool

	Items() []domain.InventoryItem
	Item(id string) (domain.InventoryItem, bool)
	ItemsByType(t domain.ItemType) []domain.InventoryItem
	ItemsByRarity(r domain.Rarity) []domain.InventoryItem
	Search(query string) []domain.InventoryItem
	SearchFuzzy(query string) []domain.InventoryItem
	Stats() domain.InventoryStats

	Subscribe(l Listener) (unsubscribe func())
}

type service struct {
	mu        sync.Mutex
	store     storage.Store
	catalog   *catalog.Catalog
	items     []domain.InventoryItem
	listeners map[int]Listener
	nextID    int
	now       func() time.Time
}

// NewService creates the inventory service, restoring any persisted
// item list. A missing blob starts an empty inventory; a corrupt or
// unreadable one is logged and treated the same way.
func NewService(ctx context.Context, store storage.Store, cat *catalog.Catalog) Service {
	log := logger.FromContext(ctx)

	s := &service{
		store:     store,
		catalog:   cat,
		listeners: make(map[int]Listener),
		now:       time.Now,
	}

	blob, err := store.Get(ctx, storage.KeyInventory)
	switch {
	case err == nil:
		if err := json.Unmarshal(blob, &s.items); err != nil {
			log.Error("Failed to decode persisted inventory, starting empty", "error", err)
			s.items = nil
		}
	case errors.Is(err, storage.ErrKeyNotFound):
		// fresh install
	default:
		log.Error("Failed to load persisted inventory, starting empty", "error", err)
	}

	return s
}

// Add merges a batch of items into the inventory. Unknown ids fall
// back to a generic marketplace record. The blob is persisted once
// after the whole batch and subscribers receive the new snapshot.
func (s *service) Add(ctx context.Context, items []AddInput) {
	log := logger.FromContext(ctx)

	if len(items) == 0 {
		return
	}

	s.mu.Lock()
	changed := false
	for _, in := range items {
		if in.Quantity <= 0 || in.Quantity > domain.MaxBatchQuantity {
			log.Warn("Skipping add with invalid quantity", "id", in.ID, "quantity", in.Quantity)
			continue
		}

		if i := s.indexOf(in.ID); i != -1 {
			s.items[i].Quantity += in.Quantity
			changed = true
			continue
		}

		s.items = append(s.items, s.newRecord(in))
		changed = true
	}
	snapshot := s.snapshotLocked()
	s.mu.Unlock()

	if !changed {
		return
	}

	s.persist(ctx, snapshot)
	s.notify(snapshot)
}

// newRecord synthesizes an item record from the catalog, or a generic
// marketplace placeholder when the id is not catalogued.
func (s *service) newRecord(in AddInput) domain.InventoryItem {
	if ing, ok := s.catalog.Ingredient(in.ID); ok {
		return domain.InventoryItem{
			ID:          ing.ID,
			Name:        ing.Name,
			Description: ing.Description,
			Image:       ing.Image,
			Rarity:      ing.Rarity,
			Quantity:    in.Quantity,
			DateAdded:   s.now(),
			Type:        domain.ItemTypeIngredient,
			Source:      in.Source,
			MoodBonus:   ing.MoodBonus,
			HungerBonus: ing.HungerBonus,
			EnergyBonus: ing.EnergyBonus,
		}
	}

	return domain.InventoryItem{
		ID:        in.ID,
		Name:      in.ID,
		Quantity:  in.Quantity,
		DateAdded: s.now(),
		Type:      domain.ItemTypeMarketplace,
		Source:    in.Source,
	}
}

// Remove decrements an item's quantity. It returns false without
// mutation when the item is absent or the quantity insufficient. A
// record reaching zero is deleted entirely.
func (s *service) Remove(ctx context.Context, id string, quantity int) bool {
	log := logger.FromContext(ctx)

	if quantity <= 0 {
		quantity = 1
	}

	s.mu.Lock()
	i := s.indexOf(id)
	if i == -1 || s.items[i].Quantity < quantity {
		s.mu.Unlock()
		log.Warn("Remove rejected", "id", id, "quantity", quantity)
		return false
	}

	s.items[i].Quantity -= quantity
	if s.items[i].Quantity == 0 {
		s.items = append(s.items[:i], s.items[i+1:]...)
	}
	snapshot := s.snapshotLocked()
	s.mu.Unlock()

	s.persist(ctx, snapshot)
	s.notify(snapshot)
	return true
}

// CanCraft reports whether every required ingredient is present with
// sufficient quantity.
func (s *service) CanCraft(recipe domain.Recipe) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.canCraftLocked(recipe)
}

// requiredQuantities folds a recipe's requirement list into one total
// per ingredient id, so an id listed more than once is checked and
// consumed against its combined quantity.
func requiredQuantities(recipe domain.Recipe) map[string]int {
	needs := make(map[string]int, len(recipe.Ingredients))
	for _, req := range recipe.Ingredients {
		needs[req.IngredientID] += req.Quantity
	}
	return needs
}

func (s *service) canCraftLocked(recipe domain.Recipe) bool {
	for id, qty := range requiredQuantities(recipe) {
		i := s.indexOf(id)
		if i == -1 || s.items[i].Quantity < qty {
			return false
		}
	}
	return true
}

// Craft consumes a recipe's ingredients and adds one unit of its
// result item. The operation is all-or-nothing: craftability is
// checked and the consumption applied under one lock, and the blob is
// only persisted after every removal succeeded.
func (s *service) Craft(ctx context.Context, recipe domain.Recipe) bool {
	log := logger.FromContext(ctx)

	snapshot, ok := s.applyCraft(recipe)
	if !ok {
		log.Warn("Craft rejected, missing ingredients", "recipe", recipe.ID)
		return false
	}

	s.persist(ctx, snapshot)
	s.notify(snapshot)
	log.Info("Recipe crafted", "recipe", recipe.ID, "result", recipe.Result.ID)
	return true
}

func (s *service) applyCraft(recipe domain.Recipe) ([]domain.InventoryItem, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	needs := requiredQuantities(recipe)
	for id, qty := range needs {
		i := s.indexOf(id)
		if i == -1 || s.items[i].Quantity < qty {
			return nil, false
		}
	}

	for id, qty := range needs {
		i := s.indexOf(id)
		s.items[i].Quantity -= qty
		if s.items[i].Quantity == 0 {
			s.items = append(s.items[:i], s.items[i+1:]...)
		}
	}

	if i := s.indexOf(recipe.Result.ID); i != -1 {
		s.items[i].Quantity++
	} else {
		s.items = append(s.items, domain.InventoryItem{
			ID:          recipe.Result.ID,
			Name:        recipe.Result.Name,
			Description: recipe.Result.Description,
			Image:       recipe.Result.Image,
			Quantity:    1,
			DateAdded:   s.now(),
			Type:        domain.ItemTypeCrafted,
			Source:      domain.SourceCrafting,
		})
	}
	return s.snapshotLocked(), true
}

// Subscribe registers a listener for mutation snapshots. The returned
// function removes it; calling it more than once is harmless.
func (s *service) Subscribe(l Listener) func() {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = l
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.listeners, id)
		s.mu.Unlock()
	}
}

func (s *service) indexOf(id string) int {
	for i := range s.items {
		if s.items[i].ID == id {
			return i
		}
	}
	return -1
}

func (s *service) snapshotLocked() []domain.InventoryItem {
	out := make([]domain.InventoryItem, len(s.items))
	copy(out, s.items)
	return out
}

// persist writes the whole item list as one blob. Storage failures are
// logged and swallowed: the in-memory state stays authoritative for the
// rest of the process lifetime.
func (s *service) persist(ctx context.Context, snapshot []domain.InventoryItem) {
	log := logger.FromContext(ctx)

	blob, err := json.Marshal(snapshot)
	if err != nil {
		log.Error("Failed to encode inventory", "error", err)
		return
	}
	if err := s.store.Set(ctx, storage.KeyInventory, blob); err != nil {
		log.Error("Failed to persist inventory", "error", err)
	}
}

func (s *service) notify(snapshot []domain.InventoryItem) {
	s.mu.Lock()
	listeners := make([]Listener, 0, len(s.listeners))
	for _, l := range s.listeners {
		listeners = append(listeners, l)
	}
	s.mu.Unlock()

	for _, l := range listeners {
		l(snapshot)
	}
}
