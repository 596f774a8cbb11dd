package points

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/moonlinghq/moonling-core/internal/domain"
	"github.com/moonlinghq/moonling-core/internal/storage"
)

const testMint = "mint-abc123"

func newTestService() (Service, *storage.MemoryStore, *time.Time) {
	store := storage.NewMemoryStore()
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	current := &now
	return NewService(store, func() time.Time { return *current }), store, current
}

func TestAwardBasePoints(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestService()

	reward := svc.AwardInteractionPoints(ctx, testMint, "Luna", domain.ActionFeed, false)
	assert.Equal(t, 10, reward.Points)
	assert.Equal(t, 0, reward.BonusPoints)
	assert.Equal(t, 10, reward.Total)
	assert.Contains(t, reward.Message, "Luna")
	assert.Contains(t, reward.Message, "10 points")
}

func TestAwardGoalBonus(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestService()

	reward := svc.AwardInteractionPoints(ctx, testMint, "Luna", domain.ActionSleep, true)
	assert.Equal(t, 15, reward.Points)
	assert.Equal(t, GoalBonusPoints, reward.BonusPoints)
	assert.Equal(t, 20, reward.Total)
	assert.Contains(t, reward.Message, "goal bonus")
}

func TestAwardUnknownAction(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestService()

	reward := svc.AwardInteractionPoints(ctx, testMint, "Luna", domain.ActionType("dance"), false)
	assert.Equal(t, 0, reward.Total)
	assert.Contains(t, reward.Message, "unknown action")
}

func TestDailyCapClampsAward(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestService()

	// sleep with bonus awards 20 per call; the sixth hits the 100 cap
	for i := 0; i < 5; i++ {
		reward := svc.AwardInteractionPoints(ctx, testMint, "Luna", domain.ActionSleep, true)
		assert.Equal(t, 20, reward.Total)
	}

	capped := svc.AwardInteractionPoints(ctx, testMint, "Luna", domain.ActionSleep, true)
	assert.Equal(t, 0, capped.Total)
	assert.Contains(t, capped.Message, "point cap")

	balance := svc.Balance(ctx, testMint)
	assert.Equal(t, DailyPointCap, balance.DailyPoints)
	assert.Equal(t, DailyPointCap, balance.TotalPoints)
}

func TestPartialAwardNearCap(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestService()

	// 9 feeds without bonus leaves 10 of the cap; sleep+bonus (20) clamps
	for i := 0; i < 9; i++ {
		svc.AwardInteractionPoints(ctx, testMint, "Luna", domain.ActionFeed, false)
	}

	reward := svc.AwardInteractionPoints(ctx, testMint, "Luna", domain.ActionSleep, true)
	assert.Equal(t, 10, reward.Total)
	assert.Equal(t, DailyPointCap, svc.Balance(ctx, testMint).DailyPoints)
}

func TestDailyCapResetsNextDay(t *testing.T) {
	ctx := context.Background()
	svc, _, current := newTestService()

	for i := 0; i < 10; i++ {
		svc.AwardInteractionPoints(ctx, testMint, "Luna", domain.ActionFeed, false)
	}
	assert.Equal(t, 0, svc.AwardInteractionPoints(ctx, testMint, "Luna", domain.ActionFeed, false).Total)

	*current = current.Add(24 * time.Hour)

	reward := svc.AwardInteractionPoints(ctx, testMint, "Luna", domain.ActionFeed, false)
	assert.Equal(t, 10, reward.Total)

	balance := svc.Balance(ctx, testMint)
	assert.Equal(t, 10, balance.DailyPoints)
	assert.Equal(t, 110, balance.TotalPoints)
}

func TestBalancePersistsAcrossRestarts(t *testing.T) {
	ctx := context.Background()
	svc, store, current := newTestService()

	svc.AwardInteractionPoints(ctx, testMint, "Luna", domain.ActionChat, false)

	again := NewService(store, func() time.Time { return *current })
	balance := again.Balance(ctx, testMint)
	assert.Equal(t, 5, balance.TotalPoints)
	assert.Equal(t, testMint, balance.CharacterMint)
}

func TestBalancesAreScopedPerCharacter(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestService()

	svc.AwardInteractionPoints(ctx, "mint-a", "Luna", domain.ActionFeed, false)
	svc.AwardInteractionPoints(ctx, "mint-b", "Nova", domain.ActionChat, false)

	require.Equal(t, 10, svc.Balance(ctx, "mint-a").TotalPoints)
	require.Equal(t, 5, svc.Balance(ctx, "mint-b").TotalPoints)
}
