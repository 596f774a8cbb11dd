// Package points awards interaction points for daily-care actions.
// Balances are tracked per character and capped per calendar day.
package points

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/moonlinghq/moonling-core/internal/domain"
	"github.com/moonlinghq/moonling-core/internal/logger"
	"github.com/moonlinghq/moonling-core/internal/metrics"
	"github.com/moonlinghq/moonling-core/internal/storage"
)

// Balance is the persisted per-character point state
type Balance struct {
	CharacterMint  string `json:"character_mint"`
	TotalPoints    int    `json:"total_points"`
	DailyPoints    int    `json:"daily_points"`
	LastDailyReset string `json:"last_daily_reset"`
}

// Service defines the point system operations
type Service interface {
	AwardInteractionPoints(ctx context.Context, characterMint, characterName string, action domain.ActionType, achievedGoal bool) domain.PointsReward
	Balance(ctx context.Context, characterMint string) Balance
}

type service struct {
	mu    sync.Mutex
	store storage.Store
	now   func() time.Time
}

// NewService creates a new point system
func NewService(store storage.Store, now func() time.Time) Service {
	return &service{store: store, now: now}
}

// AwardInteractionPoints grants base points for the action plus a bonus
// when the daily goal was achieved, clamped to the daily cap. Awards
// never fail: an unknown action or exhausted cap yields a zero-point
// reward with an explanatory message.
func (s *service) AwardInteractionPoints(ctx context.Context, characterMint, characterName string, action domain.ActionType, achievedGoal bool) domain.PointsReward {
	log := logger.FromContext(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()

	base, ok := basePoints[action]
	if !ok {
		return domain.PointsReward{Message: fmt.Sprintf("No points for unknown action '%s'.", action)}
	}
	bonus := 0
	if achievedGoal {
		bonus = GoalBonusPoints
	}

	balance := s.loadBalanceLocked(ctx, characterMint)
	s.resetDailyLocked(&balance)

	remaining := DailyPointCap - balance.DailyPoints
	if remaining <= 0 {
		return domain.PointsReward{
			Message: fmt.Sprintf("%s has reached today's point cap.", characterName),
		}
	}

	total := base + bonus
	if total > remaining {
		total = remaining
		if base > total {
			base = total
			bonus = 0
		} else {
			bonus = total - base
		}
	}

	balance.TotalPoints += total
	balance.DailyPoints += total
	s.persistBalanceLocked(ctx, balance)

	metrics.PointsAwarded.Add(float64(total))
	log.Info("Points awarded", "character", characterMint, "action", action, "total", total)

	msg := fmt.Sprintf("%s earned %d points!", characterName, total)
	if bonus > 0 {
		msg = fmt.Sprintf("%s earned %d points (+%d goal bonus)!", characterName, total, bonus)
	}
	return domain.PointsReward{
		Points:      base,
		BonusPoints: bonus,
		Total:       total,
		Message:     msg,
	}
}

// Balance returns the current persisted balance for a character
func (s *service) Balance(ctx context.Context, characterMint string) Balance {
	s.mu.Lock()
	defer s.mu.Unlock()

	balance := s.loadBalanceLocked(ctx, characterMint)
	s.resetDailyLocked(&balance)
	return balance
}

func (s *service) loadBalanceLocked(ctx context.Context, characterMint string) Balance {
	log := logger.FromContext(ctx)

	balance := Balance{CharacterMint: characterMint}
	blob, err := s.store.Get(ctx, storage.KeyPointsPrefix+characterMint)
	if err != nil {
		if !errors.Is(err, storage.ErrKeyNotFound) {
			log.Error("Failed to load point balance", "character", characterMint, "error", err)
		}
		return balance
	}
	if err := json.Unmarshal(blob, &balance); err != nil {
		log.Error("Failed to decode point balance", "character", characterMint, "error", err)
		return Balance{CharacterMint: characterMint}
	}
	return balance
}

func (s *service) resetDailyLocked(balance *Balance) {
	today := s.now().Format(domain.DateFormat)
	if balance.LastDailyReset != today {
		balance.DailyPoints = 0
		balance.LastDailyReset = today
	}
}

// persistBalanceLocked writes best effort; storage failures are logged
// and swallowed.
func (s *service) persistBalanceLocked(ctx context.Context, balance Balance) {
	log := logger.FromContext(ctx)

	blob, err := json.Marshal(balance)
	if err != nil {
		log.Error("Failed to encode point balance", "character", balance.CharacterMint, "error", err)
		return
	}
	if err := s.store.Set(ctx, storage.KeyPointsPrefix+balance.CharacterMint, blob); err != nil {
		log.Error("Failed to persist point balance", "character", balance.CharacterMint, "error", err)
	}
}
