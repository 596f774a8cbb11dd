package handler

import (
	"net/http"
	"time"

	"github.com/moonlinghq/moonling-core/internal/discovery"
	"github.com/moonlinghq/moonling-core/internal/logger"
)

// HandleGetDiscoverySettings returns the current discovery settings
func HandleGetDiscoverySettings(svc discovery.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, DataResponse{Data: svc.Settings()})
	}
}

type UpdateDiscoverySettingsRequest struct {
	Enabled              *bool      `json:"enabled,omitempty"`
	IntervalHours        *float64   `json:"interval_hours,omitempty" validate:"omitempty,min=0"`
	LastDiscoveryTime    *time.Time `json:"last_discovery_time,omitempty"`
	DiscoveryChance      *float64   `json:"discovery_chance,omitempty" validate:"omitempty,min=0,max=1"`
	MaxDiscoveriesPerDay *int       `json:"max_discoveries_per_day,omitempty" validate:"omitempty,min=0,max=100"`
}

// HandleUpdateDiscoverySettings merges a partial settings update
func HandleUpdateDiscoverySettings(svc discovery.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromContext(r.Context())

		var req UpdateDiscoverySettingsRequest
		if err := DecodeAndValidateRequest(r, w, &req, "Update discovery settings"); err != nil {
			return
		}

		updated := svc.UpdateSettings(r.Context(), discovery.SettingsPatch{
			Enabled:              req.Enabled,
			IntervalHours:        req.IntervalHours,
			LastDiscoveryTime:    req.LastDiscoveryTime,
			DiscoveryChance:      req.DiscoveryChance,
			MaxDiscoveriesPerDay: req.MaxDiscoveriesPerDay,
		})

		log.Info("Discovery settings updated")
		respondJSON(w, http.StatusOK, DataResponse{Data: updated})
	}
}

// HandleDiscoverRoll triggers one discovery roll. The roll may produce
// nothing (cooldown, cap, or failed chance); that is still a 200.
func HandleDiscoverRoll(svc discovery.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		found := svc.Discover(r.Context())
		respondJSON(w, http.StatusOK, DataResponse{Data: found})
	}
}

// NextDiscoveryResponse reports the remaining cooldown
type NextDiscoveryResponse struct {
	RemainingMS int64 `json:"remaining_ms"`
}

// HandleGetNextDiscovery reports time until the next possible roll
func HandleGetNextDiscovery(svc discovery.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, DataResponse{Data: NextDiscoveryResponse{
			RemainingMS: svc.TimeUntilNext().Milliseconds(),
		}})
	}
}

// HandleGetDiscoveryProgress reports today's discovery budget usage
func HandleGetDiscoveryProgress(svc discovery.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, DataResponse{Data: svc.DailyProgress()})
	}
}

// HandleGetDiscoveryLog returns the rolling discovery log
func HandleGetDiscoveryLog(svc discovery.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, DataResponse{Data: svc.Log()})
	}
}

// HandleCleanupDiscoveryLog prunes old discovery records
func HandleCleanupDiscoveryLog(svc discovery.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		svc.CleanupLog(r.Context())
		respondJSON(w, http.StatusOK, SuccessResponse{Message: "Discovery log cleaned up"})
	}
}
