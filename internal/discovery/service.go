// Package discovery simulates a moonling passively finding ingredients
// over time. Finds are rate limited, rarity weighted, and capped per
// calendar day.
package discovery

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/moonlinghq/moonling-core/internal/catalog"
	"github.com/moonlinghq/moonling-core/internal/domain"
	"github.com/moonlinghq/moonling-core/internal/logger"
	"github.com/moonlinghq/moonling-core/internal/metrics"
	"github.com/moonlinghq/moonling-core/internal/storage"
)

// LogRetention bounds how far back CleanupLog keeps discovery records
const LogRetention = 7 * 24 * time.Hour

// DailyProgress reports how much of today's discovery budget is used
type DailyProgress struct {
	Current    int     `json:"current"`
	Max        int     `json:"max"`
	Percentage float64 `json:"percentage"`
}

// SettingsPatch is a partial settings update. Nil fields are left
// unchanged. Rewinding LastDiscoveryTime to force an immediate
// discovery is a supported use of this contract.
type SettingsPatch struct {
	Enabled              *bool      `json:"enabled,omitempty"`
	IntervalHours        *float64   `json:"interval_hours,omitempty"`
	LastDiscoveryTime    *time.Time `json:"last_discovery_time,omitempty"`
	DiscoveryChance      *float64   `json:"discovery_chance,omitempty"`
	MaxDiscoveriesPerDay *int       `json:"max_discoveries_per_day,omitempty"`
}

// Service defines the ingredient discovery operations
type Service interface {
	ShouldDiscover() bool
	Discover(ctx context.Context) []domain.IngredientDiscovery
	TimeUntilNext() time.Duration
	DailyProgress() DailyProgress
	Settings() domain.DiscoverySettings
	UpdateSettings(ctx context.Context, patch SettingsPatch) domain.DiscoverySettings
	Log() []domain.IngredientDiscovery
	CleanupLog(ctx context.Context)
}

type service struct {
	mu      sync.Mutex
	store   storage.Store
	catalog *catalog.Catalog

	settings domain.DiscoverySettings
	log      []domain.IngredientDiscovery

	now func() time.Time
	rnd func() float64
}

// NewService restores persisted settings and the discovery log from
// the store. A missing or unreadable blob falls back to defaults so a
// fresh install starts clean instead of failing.
func NewService(ctx context.Context, store storage.Store, cat *catalog.Catalog, now func() time.Time, rnd func() float64) Service {
	log := logger.FromContext(ctx)

	s := &service{
		store:    store,
		catalog:  cat,
		settings: domain.DefaultDiscoverySettings(),
		now:      now,
		rnd:      rnd,
	}

	if blob, err := store.Get(ctx, storage.KeyDiscoverySettings); err == nil {
		var settings domain.DiscoverySettings
		if err := json.Unmarshal(blob, &settings); err != nil {
			log.Error("Failed to decode discovery settings, using defaults", "error", err)
		} else {
			s.settings = settings
		}
	} else if !errors.Is(err, storage.ErrKeyNotFound) {
		log.Error("Failed to load discovery settings, using defaults", "error", err)
	}

	if blob, err := store.Get(ctx, storage.KeyDiscoveryLog); err == nil {
		var entries []domain.IngredientDiscovery
		if err := json.Unmarshal(blob, &entries); err != nil {
			log.Error("Failed to decode discovery log, starting empty", "error", err)
		} else {
			s.log = entries
		}
	} else if !errors.Is(err, storage.ErrKeyNotFound) {
		log.Error("Failed to load discovery log, starting empty", "error", err)
	}

	s.mu.Lock()
	s.resetDailyLocked()
	s.mu.Unlock()

	return s
}

// resetDailyLocked zeroes the daily counter the first time any call
// observes a date change. Must hold s.mu.
func (s *service) resetDailyLocked() {
	today := s.now().Format(domain.DateFormat)
	if s.settings.LastDailyReset != today {
		s.settings.DailyDiscoveries = 0
		s.settings.LastDailyReset = today
	}
}

func (s *service) shouldDiscoverLocked() bool {
	if !s.settings.Enabled {
		return false
	}
	if s.settings.DailyDiscoveries >= s.settings.MaxDiscoveriesPerDay {
		return false
	}
	elapsed := s.now().Sub(s.settings.LastDiscoveryTime).Hours()
	return elapsed >= s.settings.IntervalHours
}

// ShouldDiscover reports whether a discovery roll would produce finds
func (s *service) ShouldDiscover() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.resetDailyLocked()
	return s.shouldDiscoverLocked()
}

// Discover performs one discovery roll. It returns nil without mutating
// any state when discovery is disabled, on cooldown, or over the daily
// cap. A non-empty result stamps the cooldown, consumes daily budget,
// and appends to the persisted log.
func (s *service) Discover(ctx context.Context) []domain.IngredientDiscovery {
	log := logger.FromContext(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()

	s.resetDailyLocked()
	if !s.shouldDiscoverLocked() {
		return nil
	}

	count := s.rollCount()
	if remaining := s.settings.MaxDiscoveriesPerDay - s.settings.DailyDiscoveries; count > remaining {
		count = remaining
	}

	now := s.now()
	var found []domain.IngredientDiscovery
	for i := 0; i < count; i++ {
		if s.rnd() >= s.settings.DiscoveryChance {
			continue
		}
		rarity := rollRarity(s.rnd())
		pool := s.catalog.IngredientsByRarity(rarity)
		if len(pool) == 0 {
			continue
		}
		ing := pool[s.pick(len(pool))]
		d := domain.IngredientDiscovery{
			ID:           uuid.New().String(),
			IngredientID: ing.ID,
			Quantity:     s.rollQuantity(rarity),
			DiscoveredAt: now,
			Rarity:       rarity,
			Message:      s.flavorMessage(rarity, ing.Name),
		}
		found = append(found, d)
		metrics.IngredientsFound.WithLabelValues(string(rarity)).Inc()
	}

	if len(found) == 0 {
		return nil
	}

	s.settings.LastDiscoveryTime = now
	s.settings.DailyDiscoveries += len(found)
	s.log = append(s.log, found...)

	s.persistSettingsLocked(ctx)
	s.persistLogLocked(ctx)

	log.Info("Ingredients discovered", "count", len(found), "daily", s.settings.DailyDiscoveries)
	return found
}

// rollCount picks how many discovery slots to attempt. The first roll
// keeps one slot 60% of the time; the rest splits 80/20 between two
// and three.
func (s *service) rollCount() int {
	if s.rnd() < 0.6 {
		return 1
	}
	if s.rnd() < 0.8 {
		return 2
	}
	return 3
}

// rollRarity maps a uniform roll onto the rarity tiers via cumulative
// thresholds: common 60%, uncommon 25%, rare 10%, epic 4%, legendary 1%.
func rollRarity(roll float64) domain.Rarity {
	switch {
	case roll < 0.60:
		return domain.RarityCommon
	case roll < 0.85:
		return domain.RarityUncommon
	case roll < 0.95:
		return domain.RarityRare
	case roll < 0.99:
		return domain.RarityEpic
	default:
		return domain.RarityLegendary
	}
}

func (s *service) rollQuantity(r domain.Rarity) int {
	switch r {
	case domain.RarityCommon:
		return 1 + s.pick(3)
	case domain.RarityUncommon:
		return 1 + s.pick(2)
	default:
		return 1
	}
}

// pick returns a uniform index in [0, n)
func (s *service) pick(n int) int {
	idx := int(s.rnd() * float64(n))
	if idx >= n {
		idx = n - 1
	}
	return idx
}

// TimeUntilNext reports the remaining cooldown, zero when discovery is
// disabled or already off cooldown.
func (s *service) TimeUntilNext() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.settings.Enabled {
		return 0
	}
	interval := time.Duration(s.settings.IntervalHours * float64(time.Hour))
	next := s.settings.LastDiscoveryTime.Add(interval)
	remaining := next.Sub(s.now())
	if remaining < 0 {
		return 0
	}
	return remaining
}

// DailyProgress reports the used share of today's discovery budget
func (s *service) DailyProgress() DailyProgress {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.resetDailyLocked()
	p := DailyProgress{
		Current: s.settings.DailyDiscoveries,
		Max:     s.settings.MaxDiscoveriesPerDay,
	}
	if p.Max > 0 {
		p.Percentage = float64(p.Current) / float64(p.Max) * 100
	}
	return p
}

// Settings returns a copy of the current settings
func (s *service) Settings() domain.DiscoverySettings {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.resetDailyLocked()
	return s.settings
}

// UpdateSettings merges the non-nil patch fields, persists, and
// returns the merged settings.
func (s *service) UpdateSettings(ctx context.Context, patch SettingsPatch) domain.DiscoverySettings {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.resetDailyLocked()
	if patch.Enabled != nil {
		s.settings.Enabled = *patch.Enabled
	}
	if patch.IntervalHours != nil {
		s.settings.IntervalHours = *patch.IntervalHours
	}
	if patch.LastDiscoveryTime != nil {
		s.settings.LastDiscoveryTime = *patch.LastDiscoveryTime
	}
	if patch.DiscoveryChance != nil {
		s.settings.DiscoveryChance = *patch.DiscoveryChance
	}
	if patch.MaxDiscoveriesPerDay != nil {
		s.settings.MaxDiscoveriesPerDay = *patch.MaxDiscoveriesPerDay
	}
	s.persistSettingsLocked(ctx)
	return s.settings
}

// Log returns a copy of the discovery log, oldest first
func (s *service) Log() []domain.IngredientDiscovery {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]domain.IngredientDiscovery, len(s.log))
	copy(out, s.log)
	return out
}

// CleanupLog prunes discovery records older than the retention window.
// Pruning only happens when explicitly requested.
func (s *service) CleanupLog(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := s.now().Add(-LogRetention)
	kept := s.log[:0]
	for _, d := range s.log {
		if d.DiscoveredAt.After(cutoff) {
			kept = append(kept, d)
		}
	}
	if len(kept) == len(s.log) {
		return
	}
	s.log = kept
	s.persistLogLocked(ctx)
}

// persistSettingsLocked writes settings best effort. Storage failures
// are logged and swallowed; in-memory state stays authoritative for
// the rest of the process lifetime.
func (s *service) persistSettingsLocked(ctx context.Context) {
	log := logger.FromContext(ctx)

	blob, err := json.Marshal(s.settings)
	if err != nil {
		log.Error("Failed to encode discovery settings", "error", err)
		return
	}
	if err := s.store.Set(ctx, storage.KeyDiscoverySettings, blob); err != nil {
		log.Error("Failed to persist discovery settings", "error", err)
	}
}

func (s *service) persistLogLocked(ctx context.Context) {
	log := logger.FromContext(ctx)

	blob, err := json.Marshal(s.log)
	if err != nil {
		log.Error("Failed to encode discovery log", "error", err)
		return
	}
	if err := s.store.Set(ctx, storage.KeyDiscoveryLog, blob); err != nil {
		log.Error("Failed to persist discovery log", "error", err)
	}
}
