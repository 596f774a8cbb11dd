package domain

import "time"

// ActionType identifies a daily-care action
type ActionType string

const (
	ActionFeed  ActionType = "feed"
	ActionSleep ActionType = "sleep"
	ActionChat  ActionType = "chat"
)

// IsValid reports whether the action type is one of the known actions
func (a ActionType) IsValid() bool {
	switch a {
	case ActionFeed, ActionSleep, ActionChat:
		return true
	}
	return false
}

// Moon cycle tuning constants
const (
	CycleLengthDays   = 28
	MoodDaysNeeded    = 24
	StatCompleteLevel = 5
	DefaultStatLevel  = 3

	// Sleep must reach this many hours for the sleep goal to count
	SleepGoalHours = 8.5
)

// DailyStats holds one calendar day's care record within a cycle.
// Gauges are raised monotonically via max() within the day; decay is
// handled elsewhere and never written back here.
type DailyStats struct {
	Date   string `json:"date"` // YYYY-MM-DD
	Mood   int    `json:"mood"`
	Hunger int    `json:"hunger"`
	Energy int    `json:"energy"`

	FeedCompleted  bool `json:"feed_completed"`
	SleepCompleted bool `json:"sleep_completed"`
	ChatCompleted  bool `json:"chat_completed"`

	// MoodBonusEarned transitions false -> true at most once per date
	MoodBonusEarned bool `json:"mood_bonus_earned"`

	FeedActions  int `json:"feed_actions"`
	SleepActions int `json:"sleep_actions"`
	ChatActions  int `json:"chat_actions"`

	SleepStartTime *time.Time `json:"sleep_start_time,omitempty"`
	SleepDuration  float64    `json:"sleep_duration,omitempty"` // hours, set once woken
}

// RewardType classifies the outcome of a completed cycle
type RewardType string

const (
	RewardPerfect RewardType = "perfect"
	RewardGood    RewardType = "good"
	RewardBasic   RewardType = "basic"
)

// CycleReward is computed once when a cycle completes
type CycleReward struct {
	Type             RewardType `json:"type"`
	Success          bool       `json:"success"`
	MoodDaysAchieved int        `json:"mood_days_achieved"`
	Rewards          []string   `json:"rewards"`
	NFTBonus         string     `json:"nft_bonus,omitempty"` // set only on success
}

// MoonCycle is one 28-day engagement cycle for a character. A character
// has at most one non-terminal cycle at a time; expired or completed
// cycles are superseded by a freshly created one on next access.
type MoonCycle struct {
	ID             string       `json:"id"`
	CharacterMint  string       `json:"character_mint"`
	StartDate      time.Time    `json:"start_date"`
	EndDate        time.Time    `json:"end_date"`
	CurrentDay     int          `json:"current_day"` // 1..28, derived from elapsed days
	DailyStats     []DailyStats `json:"daily_stats"` // ordered by date, one entry per date
	MoodStreakDays int          `json:"mood_streak_days"`
	IsCompleted    bool         `json:"is_completed"`
	FinalReward    *CycleReward `json:"final_reward,omitempty"`
}

// StatsForDate returns the index of the daily entry for the given date,
// or -1 when the date has no entry yet.
func (c *MoonCycle) StatsForDate(date string) int {
	for i := range c.DailyStats {
		if c.DailyStats[i].Date == date {
			return i
		}
	}
	return -1
}

// CountMoodDays counts daily entries with mood at or above the
// completion level. The count is not required to be consecutive.
func (c *MoonCycle) CountMoodDays() int {
	count := 0
	for i := range c.DailyStats {
		if c.DailyStats[i].Mood >= StatCompleteLevel {
			count++
		}
	}
	return count
}
