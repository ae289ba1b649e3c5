package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/recordarr/recordarr/internal/models"
	"github.com/recordarr/recordarr/internal/scheduler"
	"github.com/sirupsen/logrus"
)

const recentRecordingLimit = 25

// StatusHandler handles status requests
type StatusHandler struct {
	db     *models.Database
	loop   *scheduler.Loop
	logger *logrus.Logger
}

// NewStatusHandler creates a new status handler
func NewStatusHandler(db *models.Database, loop *scheduler.Loop, logger *logrus.Logger) *StatusHandler {
	return &StatusHandler{
		db:     db,
		loop:   loop,
		logger: logger,
	}
}

// RecordingSummary is one history entry in the status response
type RecordingSummary struct {
	Title         string `json:"title"`
	Kind          string `json:"kind"`
	Library       string `json:"library"`
	LineupChannel string `json:"lineup_channel"`
	AiringStart   string `json:"airing_start"`
	CreatedAt     string `json:"created_at"`
}

// StatusResponse represents the status response
type StatusResponse struct {
	LastScanAt      string             `json:"last_scan_at,omitempty"`
	NextWakeAt      string             `json:"next_wake_at,omitempty"`
	LastError       string             `json:"last_error,omitempty"`
	TotalRecordings int                `json:"total_recordings"`
	Recent          []RecordingSummary `json:"recent"`
}

// ServeHTTP handles the status endpoint
func (h *StatusHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	all, err := h.db.GetAllRecordings()
	if err != nil {
		h.logger.WithError(err).Error("Failed to get recordings")
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	recent, err := h.db.GetRecentRecordings(recentRecordingLimit)
	if err != nil {
		h.logger.WithError(err).Error("Failed to get recent recordings")
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	loopStatus := h.loop.Status()

	response := StatusResponse{
		LastError:       loopStatus.LastError,
		TotalRecordings: len(all),
		Recent:          make([]RecordingSummary, 0, len(recent)),
	}
	if !loopStatus.LastScan.IsZero() {
		response.LastScanAt = loopStatus.LastScan.Format(time.RFC3339)
	}
	if !loopStatus.NextWake.IsZero() {
		response.NextWakeAt = loopStatus.NextWake.Format(time.RFC3339)
	}

	for _, rec := range recent {
		response.Recent = append(response.Recent, RecordingSummary{
			Title:         rec.Title,
			Kind:          string(rec.Kind),
			Library:       string(rec.Library),
			LineupChannel: rec.LineupChannel,
			AiringStart:   rec.AiringStart.Format(time.RFC3339),
			CreatedAt:     rec.CreatedAt.Format(time.RFC3339),
		})
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}
