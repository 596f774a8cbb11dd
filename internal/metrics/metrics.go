package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// HTTP Metrics
var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameHTTPRequestsTotal,
			Help: HelpTextHTTPRequestsTotal,
		},
		[]string{LabelMethod, LabelPath, LabelStatus},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    MetricNameHTTPRequestDuration,
			Help:    HelpTextHTTPRequestDuration,
			Buckets: HTTPLatencyBuckets,
		},
		[]string{LabelMethod, LabelPath},
	)

	HTTPRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: MetricNameHTTPRequestsInFlight,
			Help: HelpTextHTTPRequestsInFlight,
		},
	)
)

// Business Metrics
var (
	RecipesCrafted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameRecipesCrafted,
			Help: HelpTextRecipesCrafted,
		},
		[]string{LabelRecipe},
	)

	TimedCraftsStarted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameTimedCraftsStarted,
			Help: HelpTextTimedCraftsStarted,
		},
		[]string{LabelRecipe},
	)

	IngredientsFound = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameIngredientsFound,
			Help: HelpTextIngredientsFound,
		},
		[]string{LabelRarity},
	)

	DailyActionsRecorded = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameDailyActionsRecorded,
			Help: HelpTextDailyActionsRecorded,
		},
		[]string{LabelAction},
	)

	CyclesCompleted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameCyclesCompleted,
			Help: HelpTextCyclesCompleted,
		},
		[]string{LabelReward},
	)

	PointsAwarded = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNamePointsAwarded,
			Help: HelpTextPointsAwarded,
		},
	)
)
