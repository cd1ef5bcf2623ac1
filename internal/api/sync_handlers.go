package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"exam-supervision/proctorate/internal/constants"
	"exam-supervision/proctorate/internal/jobs"
	"exam-supervision/proctorate/internal/logging"
	"exam-supervision/proctorate/internal/models/dtos/responses"
	"exam-supervision/proctorate/internal/models/entities"
	"exam-supervision/proctorate/internal/providers"
	"exam-supervision/proctorate/internal/services"
)

// SyncHandlers exposes the manual sync triggers and ledger read endpoints.
type SyncHandlers struct {
	facilities   *jobs.FacilitySyncJob
	participants *jobs.ParticipantSyncJob
	status       *services.StatusService
	windowDays   int
}

func NewSyncHandlers(
	facilities *jobs.FacilitySyncJob,
	participants *jobs.ParticipantSyncJob,
	status *services.StatusService,
	windowDays int,
) *SyncHandlers {
	return &SyncHandlers{
		facilities:   facilities,
		participants: participants,
		status:       status,
		windowDays:   windowDays,
	}
}

// TriggerExamHalls handles POST /api/v1/sync/exam-halls
//
// @Summary Trigger a facility sync
// @Description Runs a full exam-hall sync synchronously and reports the run.
// @Tags Sync
// @Success 200 {object} responses.SyncRunResult
// @Router /api/v1/sync/exam-halls [post]
func (h *SyncHandlers) TriggerExamHalls(w http.ResponseWriter, r *http.Request) {
	closed, err := h.facilities.Run(r.Context())
	h.status.Invalidate()
	h.respondRun(w, closed, err)
}

// TriggerHallRooms handles POST /api/v1/sync/hall-rooms/{facilityId}
func (h *SyncHandlers) TriggerHallRooms(w http.ResponseWriter, r *http.Request) {
	facilityID, err := strconv.ParseInt(chi.URLParam(r, "facilityId"), 10, 64)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "facilityId must be a numeric external ID")
		return
	}

	closed, err := h.facilities.RunRooms(r.Context(), facilityID)
	h.status.Invalidate()
	h.respondRun(w, closed, err)
}

// TriggerParticipantsForDate handles POST /api/v1/sync/participants/{date}
//
// @Summary Trigger a participant sync for one exam date
// @Router /api/v1/sync/participants/{date} [post]
func (h *SyncHandlers) TriggerParticipantsForDate(w http.ResponseWriter, r *http.Request) {
	examDate, err := time.Parse(constants.DateFormat, chi.URLParam(r, "date"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "date must be formatted YYYY-MM-DD")
		return
	}

	closed, err := h.participants.RunDate(r.Context(), examDate)
	h.status.Invalidate()
	h.respondRun(w, closed, err)
}

// TriggerParticipantWindow handles POST /api/v1/sync/participants/next-3-days
//
// The window runs in the background; the response only acknowledges the
// trigger. Per-date outcomes are readable via the status and history
// endpoints once each date's row closes.
func (h *SyncHandlers) TriggerParticipantWindow(w http.ResponseWriter, r *http.Request) {
	days := h.windowDays

	go func() {
		defer h.status.Invalidate()
		h.participants.RunWindow(context.Background(), days)
	}()

	respondWithSuccess(w, http.StatusAccepted, &responses.WindowAck{
		Message: "participant window sync started",
		Days:    days,
	})
}

// GetStatus handles GET /api/v1/sync/status
func (h *SyncHandlers) GetStatus(w http.ResponseWriter, r *http.Request) {
	latest, err := h.status.LatestPerType(r.Context())
	if err != nil {
		logging.Error("failed to load sync status", "error", err.Error())
		respondWithError(w, http.StatusInternalServerError, "failed to load sync status")
		return
	}

	respondWithSuccess(w, http.StatusOK, &responses.SyncStatusResponse{Latest: latest})
}

// GetHistory handles GET /api/v1/sync/history?type=PARTICIPANTS&limit=50
func (h *SyncHandlers) GetHistory(w http.ResponseWriter, r *http.Request) {
	syncType := r.URL.Query().Get("type")
	if syncType != "" && !validSyncType(syncType) {
		respondWithError(w, http.StatusBadRequest, "unknown sync type")
		return
	}

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			respondWithError(w, http.StatusBadRequest, "limit must be a non-negative integer")
			return
		}
		limit = parsed
	}

	runs, err := h.status.Recent(r.Context(), syncType, limit)
	if err != nil {
		logging.Error("failed to load sync history", "error", err.Error())
		respondWithError(w, http.StatusInternalServerError, "failed to load sync history")
		return
	}

	respondWithSuccess(w, http.StatusOK, &responses.SyncHistoryResponse{Runs: runs})
}

// respondRun maps a finished (or refused) run onto the HTTP surface. A run
// that failed upstream still closed its ledger row, so the failed row's
// details ride along with the error status.
func (h *SyncHandlers) respondRun(w http.ResponseWriter, closed *entities.SyncLog, err error) {
	switch {
	case errors.Is(err, jobs.ErrSyncAlreadyRunning):
		respondWithError(w, http.StatusConflict, err.Error())
	case err != nil && providers.IsSourceError(err):
		respondFailedRun(w, http.StatusBadGateway, closed, err)
	case err != nil:
		respondFailedRun(w, http.StatusInternalServerError, closed, err)
	default:
		respondWithSuccess(w, http.StatusOK, responses.NewSyncRunResult(closed))
	}
}

func respondFailedRun(w http.ResponseWriter, statusCode int, closed *entities.SyncLog, err error) {
	resp := responses.APIResponse[responses.SyncRunResult]{
		Status:    "error",
		Timestamp: time.Now().UTC(),
		Error:     err.Error(),
	}
	if closed != nil {
		resp.Data = responses.NewSyncRunResult(closed)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(resp)
}

func validSyncType(syncType string) bool {
	switch syncType {
	case constants.SyncTypeExamHalls, constants.SyncTypeHallRooms, constants.SyncTypeParticipants:
		return true
	}
	return false
}
