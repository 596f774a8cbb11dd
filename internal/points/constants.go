package points

import "github.com/moonlinghq/moonling-core/internal/domain"

const (
	// GoalBonusPoints is added when the action completed its daily goal
	GoalBonusPoints = 5

	// DailyPointCap bounds how many points one character earns per day
	DailyPointCap = 100
)

// basePoints is the per-action base award
var basePoints = map[domain.ActionType]int{
	domain.ActionFeed:  10,
	domain.ActionSleep: 15,
	domain.ActionChat:  5,
}
