package domain

// PointsReward is returned by the point system after an interaction
// award. Callers treat it opaquely and forward it to their own caller.
type PointsReward struct {
	Points      int    `json:"points"`
	BonusPoints int    `json:"bonus_points"`
	Total       int    `json:"total"`
	Message     string `json:"message"`
}
