package recipe

import (
	"context"
	"fmt"
	"time"

	"github.com/moonlinghq/moonling-core/internal/logger"
	"github.com/moonlinghq/moonling-core/internal/metrics"
)

// timedCraft tracks one in-flight timed craft. The timer handle is
// kept so cancellation and shutdown can stop future callbacks.
type timedCraft struct {
	recipeID  string
	startedAt time.Time
	duration  time.Duration
	timer     *time.Timer
}

// CraftingProgress is a read-only projection of a timed craft
type CraftingProgress struct {
	RecipeID  string        `json:"recipe_id"`
	Percent   float64       `json:"percent"` // 0..100
	Remaining time.Duration `json:"remaining"`
}

// StartTimedCraft defers the inventory mutation until the duration
// elapses. Ingredients are not pre-deducted, so cancellation is free.
// Only one timed craft per recipe id is active at a time: starting a
// second stops the first timer and replaces its tracking.
func (s *service) StartTimedCraft(ctx context.Context, id string, duration time.Duration) CraftingResult {
	log := logger.FromContext(ctx)

	r, ok := s.catalog.Recipe(id)
	if !ok {
		return CraftingResult{
			RecipeID: id,
			Message:  fmt.Sprintf("Recipe '%s' does not exist.", id),
		}
	}

	if duration <= 0 {
		return CraftingResult{
			RecipeID: id,
			Message:  "Crafting duration must be positive.",
		}
	}

	s.mu.Lock()
	if prev, ok := s.active[id]; ok {
		prev.timer.Stop()
	}
	tc := &timedCraft{
		recipeID:  id,
		startedAt: s.now(),
		duration:  duration,
	}
	tc.timer = time.AfterFunc(duration, func() {
		s.completeTimedCraft(tc)
	})
	s.active[id] = tc
	s.mu.Unlock()

	metrics.TimedCraftsStarted.WithLabelValues(id).Inc()
	log.Info("Timed craft started", "recipe", id, "duration", duration)

	return CraftingResult{
		Success:  true,
		RecipeID: id,
		Message:  fmt.Sprintf("Started crafting %s.", r.Name),
	}
}

// completeTimedCraft performs the same inventory mutation as instant
// crafting and drops the tracking entry. It only acts if tc is still
// the tracked entry for its recipe id: a Stop that loses the race with
// the timer firing must not complete a cancelled or replaced craft.
func (s *service) completeTimedCraft(tc *timedCraft) {
	ctx := logger.WithRequestID(context.Background(), logger.GenerateRequestID())
	log := logger.FromContext(ctx)

	id := tc.recipeID

	s.mu.Lock()
	if s.active[id] != tc {
		// cancelled or replaced between firing and acquiring the lock
		s.mu.Unlock()
		return
	}
	delete(s.active, id)
	s.mu.Unlock()

	result := s.Craft(ctx, id)
	if !result.Success {
		log.Warn("Timed craft finished but crafting failed", "recipe", id, "message", result.Message)
		return
	}
	log.Info("Timed craft completed", "recipe", id)
}

// Progress reports fractional completion for an active timed craft
func (s *service) Progress(id string) (CraftingProgress, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tc, ok := s.active[id]
	if !ok {
		return CraftingProgress{}, false
	}
	return s.progressLocked(tc), true
}

// ActiveCrafts lists progress for every in-flight timed craft
func (s *service) ActiveCrafts() []CraftingProgress {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]CraftingProgress, 0, len(s.active))
	for _, tc := range s.active {
		out = append(out, s.progressLocked(tc))
	}
	return out
}

func (s *service) progressLocked(tc *timedCraft) CraftingProgress {
	elapsed := s.now().Sub(tc.startedAt)
	percent := float64(elapsed) / float64(tc.duration) * 100
	if percent > 100 {
		percent = 100
	}
	if percent < 0 {
		percent = 0
	}
	remaining := tc.duration - elapsed
	if remaining < 0 {
		remaining = 0
	}
	return CraftingProgress{
		RecipeID:  tc.recipeID,
		Percent:   percent,
		Remaining: remaining,
	}
}

// CancelCraft stops the timer and removes tracking. Ingredients were
// never deducted, so cancellation has no inventory side effects and is
// idempotent.
func (s *service) CancelCraft(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if tc, ok := s.active[id]; ok {
		tc.timer.Stop()
		delete(s.active, id)
	}
}

// Shutdown stops all pending timed-craft timers
func (s *service) Shutdown() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, tc := range s.active {
		tc.timer.Stop()
		delete(s.active, id)
	}
}
