// Package mooncycle implements the 28-day engagement cycle state
// machine: daily stat recording, action completion, mood-day counting,
// sleep sessions, and completion rewards.
package mooncycle

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/moonlinghq/moonling-core/internal/domain"
	"github.com/moonlinghq/moonling-core/internal/logger"
	"github.com/moonlinghq/moonling-core/internal/metrics"
	"github.com/moonlinghq/moonling-core/internal/storage"
)

// cycleCacheSize bounds the in-memory cache of recently used cycles
const cycleCacheSize = 128

// PointAwarder is the narrow port onto the point system. A nil awarder
// simply skips point awards.
type PointAwarder interface {
	AwardInteractionPoints(ctx context.Context, characterMint, characterName string, action domain.ActionType, achievedGoal bool) domain.PointsReward
}

// StatsInput carries one daily-care action's readings
type StatsInput struct {
	Mood          int               `json:"mood"`
	Hunger        int               `json:"hunger"`
	Energy        int               `json:"energy"`
	Action        domain.ActionType `json:"action"`
	SleepDuration float64           `json:"sleep_duration,omitempty"` // hours, sleep actions only
	CharacterName string            `json:"character_name,omitempty"`
}

// StatsResult reports the outcome of recording a daily action
type StatsResult struct {
	Success         bool                 `json:"success"`
	MoodBonusEarned bool                 `json:"mood_bonus_earned"`
	Message         string               `json:"message"`
	PointsReward    *domain.PointsReward `json:"points_reward,omitempty"`
}

// SleepResult reports the outcome of starting a sleep session
type SleepResult struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// EndSleepResult reports the outcome of ending a sleep session
type EndSleepResult struct {
	Success      bool    `json:"success"`
	EnergyGained int     `json:"energy_gained"`
	Stars        int     `json:"stars"`
	Message      string  `json:"message"`
	Hours        float64 `json:"hours"`
}

// TodayProgress holds today's completion flags
type TodayProgress struct {
	FeedCompleted   bool `json:"feed_completed"`
	SleepCompleted  bool `json:"sleep_completed"`
	ChatCompleted   bool `json:"chat_completed"`
	MoodBonusEarned bool `json:"mood_bonus_earned"`
}

// Progress is a read-only projection of the current cycle
type Progress struct {
	CurrentDay       int           `json:"current_day"`
	DaysRemaining    int           `json:"days_remaining"`
	MoodDaysAchieved int           `json:"mood_days_achieved"`
	MoodDaysNeeded   int           `json:"mood_days_needed"`
	OnTrack          bool          `json:"on_track"`
	Today            TodayProgress `json:"today"`
}

// Service defines the moon cycle operations. Cycles are scoped to a
// (wallet, character mint) pair.
type Service interface {
	CurrentCycle(ctx context.Context, wallet, characterMint string) domain.MoonCycle
	RecordDailyStats(ctx context.Context, wallet, characterMint string, input StatsInput) StatsResult
	StartSleep(ctx context.Context, wallet, characterMint string) SleepResult
	EndSleep(ctx context.Context, wallet, characterMint string) EndSleepResult
	CheckCycleCompletion(ctx context.Context, wallet, characterMint string) *domain.CycleReward
	CycleProgress(ctx context.Context, wallet, characterMint string) Progress
	GenerateIngredientDiscovery() *FlavorFind
	CalculateFoodStars(ingredients []domain.Ingredient) int
}

type service struct {
	mu      sync.Mutex
	store   storage.Store
	awarder PointAwarder
	cache   *lru.Cache[string, domain.MoonCycle]

	now func() time.Time
	rnd func() float64
}

// NewService creates a new moon cycle service. The awarder may be nil,
// in which point awards are skipped.
func NewService(store storage.Store, awarder PointAwarder, now func() time.Time, rnd func() float64) Service {
	cache, _ := lru.New[string, domain.MoonCycle](cycleCacheSize)
	return &service{
		store:   store,
		awarder: awarder,
		cache:   cache,
		now:     now,
		rnd:     rnd,
	}
}

func cycleKey(wallet, characterMint string) string {
	return storage.KeyCyclePrefix + wallet + ":" + characterMint
}

// midnight truncates a timestamp to the start of its calendar day
func midnight(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// CurrentCycle returns the active cycle, creating a fresh one when
// none exists, the stored one is completed, or it has date-expired.
// The stored cycle's CurrentDay is refreshed from elapsed days.
func (s *service) CurrentCycle(ctx context.Context, wallet, characterMint string) domain.MoonCycle {
	s.mu.Lock()
	defer s.mu.Unlock()

	cycle, ok := s.loadCycleLocked(ctx, wallet, characterMint)
	now := s.now()
	if !ok || cycle.IsCompleted || now.After(cycle.EndDate) {
		return s.createNewCycleLocked(ctx, wallet, characterMint)
	}

	day := s.elapsedDay(cycle.StartDate)
	if day != cycle.CurrentDay {
		cycle.CurrentDay = day
		s.saveCycleLocked(ctx, wallet, characterMint, cycle)
	}
	return copyCycle(cycle)
}

// elapsedDay maps the clock onto a 1..28 cycle day
func (s *service) elapsedDay(startDate time.Time) int {
	elapsed := int(s.now().Sub(startDate).Hours() / 24)
	day := elapsed + 1
	if day > domain.CycleLengthDays {
		day = domain.CycleLengthDays
	}
	if day < 1 {
		day = 1
	}
	return day
}

func (s *service) createNewCycleLocked(ctx context.Context, wallet, characterMint string) domain.MoonCycle {
	log := logger.FromContext(ctx)

	start := midnight(s.now())
	cycle := domain.MoonCycle{
		ID:            uuid.New().String(),
		CharacterMint: characterMint,
		StartDate:     start,
		EndDate:       start.AddDate(0, 0, domain.CycleLengthDays),
		CurrentDay:    1,
	}
	s.saveCycleLocked(ctx, wallet, characterMint, cycle)
	log.Info("New moon cycle started", "character", characterMint, "cycle", cycle.ID)
	return copyCycle(cycle)
}

// RecordDailyStats applies one care action to today's entry. Gauges are
// only ever raised, completion flags latch, and the mood bonus is
// reported at most once per day.
func (s *service) RecordDailyStats(ctx context.Context, wallet, characterMint string, input StatsInput) StatsResult {
	if !input.Action.IsValid() {
		return StatsResult{Message: fmt.Sprintf("Unknown action '%s'.", input.Action)}
	}

	s.mu.Lock()
	cycle, ok := s.loadCycleLocked(ctx, wallet, characterMint)
	if !ok || s.now().After(cycle.EndDate) {
		s.mu.Unlock()
		return StatsResult{Message: domain.ErrMsgNoActiveCycle}
	}
	if cycle.IsCompleted {
		s.mu.Unlock()
		return StatsResult{Message: domain.ErrMsgCycleCompleted}
	}

	today := s.now().Format(domain.DateFormat)
	idx := s.ensureDayLocked(&cycle, today)
	entry := &cycle.DailyStats[idx]

	entry.Mood = max(entry.Mood, input.Mood)
	entry.Hunger = max(entry.Hunger, input.Hunger)
	entry.Energy = max(entry.Energy, input.Energy)

	var goalMet, newlyCompleted bool
	switch input.Action {
	case domain.ActionFeed:
		entry.FeedActions++
		if entry.Hunger >= domain.StatCompleteLevel && !entry.FeedCompleted {
			entry.FeedCompleted = true
			newlyCompleted = true
		}
		goalMet = entry.FeedCompleted
	case domain.ActionSleep:
		entry.SleepActions++
		if entry.Energy >= domain.StatCompleteLevel && input.SleepDuration >= domain.SleepGoalHours && !entry.SleepCompleted {
			entry.SleepCompleted = true
			newlyCompleted = true
		}
		goalMet = entry.SleepCompleted
	case domain.ActionChat:
		entry.ChatActions++
		if !entry.ChatCompleted {
			entry.ChatCompleted = true
			newlyCompleted = true
		}
		goalMet = entry.ChatCompleted
	}

	result := StatsResult{Success: true}
	if newlyCompleted && !entry.MoodBonusEarned {
		entry.MoodBonusEarned = true
		result.MoodBonusEarned = true
	}

	cycle.MoodStreakDays = cycle.CountMoodDays()
	cycle.CurrentDay = s.elapsedDay(cycle.StartDate)
	s.saveCycleLocked(ctx, wallet, characterMint, cycle)
	s.mu.Unlock()

	metrics.DailyActionsRecorded.WithLabelValues(string(input.Action)).Inc()

	result.Message = fmt.Sprintf("Recorded %s on day %d.", input.Action, cycle.CurrentDay)
	if result.MoodBonusEarned {
		result.Message = fmt.Sprintf("Recorded %s on day %d. Mood bonus earned!", input.Action, cycle.CurrentDay)
	}

	if s.awarder != nil && input.CharacterName != "" {
		reward := s.awarder.AwardInteractionPoints(ctx, characterMint, input.CharacterName, input.Action, goalMet)
		result.PointsReward = &reward
	}
	return result
}

// ensureDayLocked finds or creates the daily entry for a date, keeping
// the list ordered. New entries start at the default stat level.
func (s *service) ensureDayLocked(cycle *domain.MoonCycle, date string) int {
	if idx := cycle.StatsForDate(date); idx >= 0 {
		return idx
	}
	cycle.DailyStats = append(cycle.DailyStats, domain.DailyStats{
		Date:   date,
		Mood:   domain.DefaultStatLevel,
		Hunger: domain.DefaultStatLevel,
		Energy: domain.DefaultStatLevel,
	})
	return len(cycle.DailyStats) - 1
}

// CheckCycleCompletion settles a cycle that has reached its final day.
// It returns nil before day 28 and nil again once already settled.
func (s *service) CheckCycleCompletion(ctx context.Context, wallet, characterMint string) *domain.CycleReward {
	log := logger.FromContext(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()

	cycle, ok := s.loadCycleLocked(ctx, wallet, characterMint)
	if !ok || cycle.IsCompleted {
		return nil
	}
	if s.elapsedDay(cycle.StartDate) < domain.CycleLengthDays {
		return nil
	}

	reward := buildCycleReward(cycle.CountMoodDays())
	cycle.CurrentDay = domain.CycleLengthDays
	cycle.IsCompleted = true
	cycle.FinalReward = &reward
	s.saveCycleLocked(ctx, wallet, characterMint, cycle)

	metrics.CyclesCompleted.WithLabelValues(string(reward.Type)).Inc()
	log.Info("Moon cycle completed", "character", characterMint, "cycle", cycle.ID,
		"reward", reward.Type, "mood_days", reward.MoodDaysAchieved)

	out := reward
	return &out
}

// CycleProgress is a read-only projection; it returns zeroed defaults
// when no cycle exists and never creates one.
func (s *service) CycleProgress(ctx context.Context, wallet, characterMint string) Progress {
	s.mu.Lock()
	defer s.mu.Unlock()

	cycle, ok := s.loadCycleLocked(ctx, wallet, characterMint)
	if !ok {
		return Progress{MoodDaysNeeded: domain.MoodDaysNeeded}
	}

	day := cycle.CurrentDay
	if !cycle.IsCompleted {
		day = s.elapsedDay(cycle.StartDate)
	}

	p := Progress{
		CurrentDay:       day,
		DaysRemaining:    domain.CycleLengthDays - day,
		MoodDaysAchieved: cycle.CountMoodDays(),
		MoodDaysNeeded:   domain.MoodDaysNeeded,
	}
	p.OnTrack = float64(p.MoodDaysAchieved) >= float64(day)*float64(domain.MoodDaysNeeded)/float64(domain.CycleLengthDays)

	if idx := cycle.StatsForDate(s.now().Format(domain.DateFormat)); idx >= 0 {
		entry := cycle.DailyStats[idx]
		p.Today = TodayProgress{
			FeedCompleted:   entry.FeedCompleted,
			SleepCompleted:  entry.SleepCompleted,
			ChatCompleted:   entry.ChatCompleted,
			MoodBonusEarned: entry.MoodBonusEarned,
		}
	}
	return p
}

func (s *service) loadCycleLocked(ctx context.Context, wallet, characterMint string) (domain.MoonCycle, bool) {
	log := logger.FromContext(ctx)
	key := cycleKey(wallet, characterMint)

	if cycle, ok := s.cache.Get(key); ok {
		return copyCycle(cycle), true
	}

	blob, err := s.store.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, storage.ErrKeyNotFound) {
			log.Error("Failed to load moon cycle", "character", characterMint, "error", err)
		}
		return domain.MoonCycle{}, false
	}
	var cycle domain.MoonCycle
	if err := json.Unmarshal(blob, &cycle); err != nil {
		log.Error("Failed to decode moon cycle", "character", characterMint, "error", err)
		return domain.MoonCycle{}, false
	}
	s.cache.Add(key, copyCycle(cycle))
	return cycle, true
}

// saveCycleLocked persists best effort; storage failures are logged
// and swallowed, the cache stays authoritative for this process.
func (s *service) saveCycleLocked(ctx context.Context, wallet, characterMint string, cycle domain.MoonCycle) {
	log := logger.FromContext(ctx)
	key := cycleKey(wallet, characterMint)

	s.cache.Add(key, copyCycle(cycle))

	blob, err := json.Marshal(cycle)
	if err != nil {
		log.Error("Failed to encode moon cycle", "character", characterMint, "error", err)
		return
	}
	if err := s.store.Set(ctx, key, blob); err != nil {
		log.Error("Failed to persist moon cycle", "character", characterMint, "error", err)
	}
}

func copyCycle(c domain.MoonCycle) domain.MoonCycle {
	out := c
	out.DailyStats = make([]domain.DailyStats, len(c.DailyStats))
	copy(out.DailyStats, c.DailyStats)
	if c.FinalReward != nil {
		reward := *c.FinalReward
		reward.Rewards = append([]string(nil), c.FinalReward.Rewards...)
		out.FinalReward = &reward
	}
	return out
}
