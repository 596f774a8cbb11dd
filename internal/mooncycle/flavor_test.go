package mooncycle

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/moonlinghq/moonling-core/internal/domain"
	"github.com/moonlinghq/moonling-core/internal/storage"
)

func serviceWithRolls(rolls ...float64) Service {
	i := 0
	rnd := func() float64 {
		v := rolls[i%len(rolls)]
		i++
		return v
	}
	return NewService(storage.NewMemoryStore(), nil, time.Now, rnd)
}

func TestGenerateIngredientDiscoveryMiss(t *testing.T) {
	svc := serviceWithRolls(0.5)
	assert.Nil(t, svc.GenerateIngredientDiscovery())
}

func TestGenerateIngredientDiscoveryHit(t *testing.T) {
	// chance roll hits, pick roll selects the last flavor find
	svc := serviceWithRolls(0.1, 0.99)
	find := svc.GenerateIngredientDiscovery()
	require.NotNil(t, find)
	assert.Equal(t, "lunar-bloom", find.ID)
	assert.Equal(t, 5, find.MoodBonus)
	assert.NotEmpty(t, find.Message)
}

func TestGenerateIngredientDiscoveryBonusLadder(t *testing.T) {
	picks := []struct {
		roll      float64
		wantID    string
		wantBonus int
	}{
		{0.0, "moon-pebble", 1},
		{0.3, "stardust-crumb", 2},
		{0.6, "comet-shard", 3},
		{0.99, "lunar-bloom", 5},
	}
	for _, p := range picks {
		svc := serviceWithRolls(0.1, p.roll)
		find := svc.GenerateIngredientDiscovery()
		require.NotNil(t, find)
		assert.Equal(t, p.wantID, find.ID)
		assert.Equal(t, p.wantBonus, find.MoodBonus)
	}
}

func TestCalculateFoodStars(t *testing.T) {
	svc := serviceWithRolls(0)

	ing := func(bonus int) domain.Ingredient {
		return domain.Ingredient{MoodBonus: bonus}
	}

	assert.Equal(t, 1, svc.CalculateFoodStars(nil))
	assert.Equal(t, 1, svc.CalculateFoodStars([]domain.Ingredient{ing(1)}))
	assert.Equal(t, 2, svc.CalculateFoodStars([]domain.Ingredient{ing(2)}))
	assert.Equal(t, 3, svc.CalculateFoodStars([]domain.Ingredient{ing(2), ing(2)}))
	assert.Equal(t, 4, svc.CalculateFoodStars([]domain.Ingredient{ing(4), ing(3)}))
	assert.Equal(t, 5, svc.CalculateFoodStars([]domain.Ingredient{ing(5), ing(5)}))
	assert.Equal(t, 5, svc.CalculateFoodStars([]domain.Ingredient{ing(6), ing(6)}))
}
