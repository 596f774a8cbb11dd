package mooncycle

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/moonlinghq/moonling-core/internal/domain"
)

func TestSleepSessionFullNight(t *testing.T) {
	ctx := context.Background()
	svc, _, clock := newTestService(nil)
	svc.CurrentCycle(ctx, testWallet, testMint)

	start := svc.StartSleep(ctx, testWallet, testMint)
	require.True(t, start.Success)

	// a second start before waking fails
	again := svc.StartSleep(ctx, testWallet, testMint)
	assert.False(t, again.Success)
	assert.Contains(t, again.Message, domain.ErrMsgAlreadySleeping)

	clock.advance(9 * time.Hour)
	end := svc.EndSleep(ctx, testWallet, testMint)
	require.True(t, end.Success)
	assert.Equal(t, 5, end.EnergyGained)
	assert.Equal(t, 5, end.Stars)
	assert.InDelta(t, 9.0, end.Hours, 0.001)

	cycle := svc.CurrentCycle(ctx, testWallet, testMint)
	today := cycle.DailyStats[len(cycle.DailyStats)-1]
	assert.True(t, today.SleepCompleted)
	assert.Equal(t, 5, today.Energy)
	assert.InDelta(t, 9.0, today.SleepDuration, 0.001)
	assert.Nil(t, today.SleepStartTime)
	assert.Equal(t, 1, today.SleepActions)
}

func TestSleepTiers(t *testing.T) {
	tests := []struct {
		name          string
		hours         time.Duration
		wantEnergy    int
		wantStars     int
		wantCompleted bool
	}{
		{"full night", 9 * time.Hour, 5, 5, true},
		{"goal boundary", 8*time.Hour + 30*time.Minute, 5, 5, true},
		{"solid night", 7 * time.Hour, 4, 4, false},
		{"short night", 5 * time.Hour, 3, 3, false},
		{"nap", 3 * time.Hour, 2, 2, false},
		{"doze", 30 * time.Minute, 1, 1, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			svc, _, clock := newTestService(nil)
			svc.CurrentCycle(ctx, testWallet, testMint)

			require.True(t, svc.StartSleep(ctx, testWallet, testMint).Success)
			clock.advance(tt.hours)

			end := svc.EndSleep(ctx, testWallet, testMint)
			require.True(t, end.Success)
			assert.Equal(t, tt.wantEnergy, end.EnergyGained)
			assert.Equal(t, tt.wantStars, end.Stars)

			cycle := svc.CurrentCycle(ctx, testWallet, testMint)
			today := cycle.DailyStats[len(cycle.DailyStats)-1]
			assert.Equal(t, tt.wantCompleted, today.SleepCompleted)
		})
	}
}

func TestEndSleepWithoutSession(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestService(nil)
	svc.CurrentCycle(ctx, testWallet, testMint)

	end := svc.EndSleep(ctx, testWallet, testMint)
	assert.False(t, end.Success)
	assert.Contains(t, end.Message, domain.ErrMsgNotSleeping)
}

func TestStartSleepWithoutCycle(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestService(nil)

	start := svc.StartSleep(ctx, testWallet, testMint)
	assert.False(t, start.Success)
	assert.Contains(t, start.Message, domain.ErrMsgNoActiveCycle)
}

func TestSleepAcrossMidnight(t *testing.T) {
	ctx := context.Background()
	svc, _, clock := newTestService(nil)
	svc.CurrentCycle(ctx, testWallet, testMint)

	// fall asleep at 22:00, wake at 06:30 the next day
	clock.current = time.Date(2026, 3, 1, 22, 0, 0, 0, time.UTC)
	require.True(t, svc.StartSleep(ctx, testWallet, testMint).Success)

	clock.current = time.Date(2026, 3, 2, 6, 30, 0, 0, time.UTC)
	end := svc.EndSleep(ctx, testWallet, testMint)
	require.True(t, end.Success)
	assert.Equal(t, 5, end.EnergyGained)
	assert.InDelta(t, 8.5, end.Hours, 0.001)

	// the outcome lands on the wake-up day, the start day is cleared
	cycle := svc.CurrentCycle(ctx, testWallet, testMint)
	require.Len(t, cycle.DailyStats, 2)
	assert.Equal(t, "2026-03-01", cycle.DailyStats[0].Date)
	assert.Nil(t, cycle.DailyStats[0].SleepStartTime)
	assert.Equal(t, "2026-03-02", cycle.DailyStats[1].Date)
	assert.True(t, cycle.DailyStats[1].SleepCompleted)
	assert.InDelta(t, 8.5, cycle.DailyStats[1].SleepDuration, 0.001)
}

func TestSleepRestartAfterWake(t *testing.T) {
	ctx := context.Background()
	svc, _, clock := newTestService(nil)
	svc.CurrentCycle(ctx, testWallet, testMint)

	require.True(t, svc.StartSleep(ctx, testWallet, testMint).Success)
	clock.advance(time.Hour)
	require.True(t, svc.EndSleep(ctx, testWallet, testMint).Success)

	// a nap later the same day opens a fresh session
	clock.advance(2 * time.Hour)
	assert.True(t, svc.StartSleep(ctx, testWallet, testMint).Success)
}
