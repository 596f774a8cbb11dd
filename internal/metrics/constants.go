package metrics

// HTTP metric names
const (
	MetricNameHTTPRequestsTotal    = "http_requests_total"
	MetricNameHTTPRequestDuration  = "http_request_duration_seconds"
	MetricNameHTTPRequestsInFlight = "http_requests_in_flight"
)

// Business metric names
const (
	MetricNameRecipesCrafted       = "recipes_crafted_total"
	MetricNameTimedCraftsStarted   = "timed_crafts_started_total"
	MetricNameIngredientsFound     = "ingredients_found_total"
	MetricNameDailyActionsRecorded = "daily_actions_recorded_total"
	MetricNameCyclesCompleted      = "cycles_completed_total"
	MetricNamePointsAwarded        = "points_awarded_total"
)

// Metric help text
const (
	HelpTextHTTPRequestsTotal    = "Total number of HTTP requests"
	HelpTextHTTPRequestDuration  = "HTTP request latency in seconds"
	HelpTextHTTPRequestsInFlight = "Current number of HTTP requests being served"

	HelpTextRecipesCrafted       = "Total number of recipes crafted"
	HelpTextTimedCraftsStarted   = "Total number of timed crafts started"
	HelpTextIngredientsFound     = "Total number of ingredients discovered passively"
	HelpTextDailyActionsRecorded = "Total number of daily care actions recorded"
	HelpTextCyclesCompleted      = "Total number of moon cycles completed"
	HelpTextPointsAwarded        = "Total points awarded for interactions"
)

// Metric label names
const (
	LabelMethod = "method"
	LabelPath   = "path"
	LabelStatus = "status"
	LabelRecipe = "recipe"
	LabelRarity = "rarity"
	LabelAction = "action"
	LabelReward = "reward"
)

// HTTPLatencyBuckets are the histogram buckets for request latency
var HTTPLatencyBuckets = []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5}
