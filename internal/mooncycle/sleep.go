package mooncycle

import (
	"context"
	"fmt"

	"github.com/moonlinghq/moonling-core/internal/domain"
	"github.com/moonlinghq/moonling-core/internal/logger"
	"github.com/moonlinghq/moonling-core/internal/metrics"
)

// sleepTier maps a minimum duration to its energy and star outcome
type sleepTier struct {
	minHours  float64
	energy    int
	stars     int
	completes bool
}

// Tiers are checked top down; the first match wins.
var sleepTiers = []sleepTier{
	{minHours: domain.SleepGoalHours, energy: 5, stars: 5, completes: true},
	{minHours: 7, energy: 4, stars: 4},
	{minHours: 5, energy: 3, stars: 3},
	{minHours: 3, energy: 2, stars: 2},
	{minHours: 0, energy: 1, stars: 1},
}

func gradeSleep(hours float64) sleepTier {
	for _, tier := range sleepTiers {
		if hours >= tier.minHours {
			return tier
		}
	}
	return sleepTiers[len(sleepTiers)-1]
}

// StartSleep stamps the start of a sleep session on today's entry.
// Starting while a session is already open fails.
func (s *service) StartSleep(ctx context.Context, wallet, characterMint string) SleepResult {
	log := logger.FromContext(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()

	cycle, ok := s.loadCycleLocked(ctx, wallet, characterMint)
	if !ok || s.now().After(cycle.EndDate) {
		return SleepResult{Message: domain.ErrMsgNoActiveCycle}
	}
	if cycle.IsCompleted {
		return SleepResult{Message: domain.ErrMsgCycleCompleted}
	}
	if s.openSleepIndex(cycle) >= 0 {
		return SleepResult{Message: domain.ErrMsgAlreadySleeping}
	}

	now := s.now()
	idx := s.ensureDayLocked(&cycle, now.Format(domain.DateFormat))
	cycle.DailyStats[idx].SleepStartTime = &now
	s.saveCycleLocked(ctx, wallet, characterMint, cycle)

	log.Info("Sleep started", "character", characterMint)
	return SleepResult{Success: true, Message: "Sweet dreams! Sleep session started."}
}

// EndSleep closes the open sleep session, grades the duration, and
// raises today's energy. Sessions may cross midnight; the outcome is
// always written onto today's entry.
func (s *service) EndSleep(ctx context.Context, wallet, characterMint string) EndSleepResult {
	log := logger.FromContext(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()

	cycle, ok := s.loadCycleLocked(ctx, wallet, characterMint)
	if !ok {
		return EndSleepResult{Message: domain.ErrMsgNoActiveCycle}
	}
	openIdx := s.openSleepIndex(cycle)
	if openIdx < 0 {
		return EndSleepResult{Message: domain.ErrMsgNotSleeping}
	}

	now := s.now()
	hours := now.Sub(*cycle.DailyStats[openIdx].SleepStartTime).Hours()
	cycle.DailyStats[openIdx].SleepStartTime = nil

	tier := gradeSleep(hours)
	idx := s.ensureDayLocked(&cycle, now.Format(domain.DateFormat))
	entry := &cycle.DailyStats[idx]
	entry.Energy = max(entry.Energy, tier.energy)
	entry.SleepDuration = hours
	entry.SleepActions++
	if tier.completes {
		entry.SleepCompleted = true
	}

	cycle.MoodStreakDays = cycle.CountMoodDays()
	s.saveCycleLocked(ctx, wallet, characterMint, cycle)

	metrics.DailyActionsRecorded.WithLabelValues(string(domain.ActionSleep)).Inc()
	log.Info("Sleep ended", "character", characterMint, "hours", hours, "stars", tier.stars)

	return EndSleepResult{
		Success:      true,
		EnergyGained: tier.energy,
		Stars:        tier.stars,
		Hours:        hours,
		Message:      fmt.Sprintf("Slept %.1f hours and gained %d energy.", hours, tier.energy),
	}
}

// openSleepIndex returns the index of the entry holding an open sleep
// session, -1 when none is open. Sessions crossing midnight live on
// the entry of the day they started.
func (s *service) openSleepIndex(cycle domain.MoonCycle) int {
	for i := len(cycle.DailyStats) - 1; i >= 0; i-- {
		if cycle.DailyStats[i].SleepStartTime != nil {
			return i
		}
	}
	return -1
}
