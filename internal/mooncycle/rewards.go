package mooncycle

import "github.com/moonlinghq/moonling-core/internal/domain"

// NFTBonusName is minted alongside the rewards of a successful cycle
const NFTBonusName = "Moonlight Guardian Badge"

// Mood-day thresholds for the reward tiers
const (
	perfectMoodDays = domain.CycleLengthDays
	goodMoodDays    = domain.MoodDaysNeeded
)

var (
	perfectRewards = []string{
		"Perfect Cycle Trophy",
		"500 Moon Points",
		"Legendary Ingredient Chest",
	}
	goodRewards = []string{
		"Lunar Care Medal",
		"300 Moon Points",
		"Rare Ingredient Chest",
	}
	basicRewards = []string{
		"Stardust Pouch",
		"100 Moon Points",
	}
)

// buildCycleReward maps achieved mood days onto a reward tier. The NFT
// bonus is attached only when the cycle counts as a success.
func buildCycleReward(moodDays int) domain.CycleReward {
	reward := domain.CycleReward{
		MoodDaysAchieved: moodDays,
		Success:          moodDays >= goodMoodDays,
	}
	switch {
	case moodDays >= perfectMoodDays:
		reward.Type = domain.RewardPerfect
		reward.Rewards = append([]string(nil), perfectRewards...)
	case moodDays >= goodMoodDays:
		reward.Type = domain.RewardGood
		reward.Rewards = append([]string(nil), goodRewards...)
	default:
		reward.Type = domain.RewardBasic
		reward.Rewards = append([]string(nil), basicRewards...)
	}
	if reward.Success {
		reward.NFTBonus = NFTBonusName
	}
	return reward
}
