package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/KruASe76/grindex/internal/domain"
)

// CreateActivityRequest creates an activity.
type CreateActivityRequest struct {
	Name       string `json:"name"`
	Emoji      string `json:"emoji"`
	Color      string `json:"color"`
	Resolution string `json:"resolution"`
}

// UpdateActivityRequest is a partial activity update.
type UpdateActivityRequest struct {
	Name       *string `json:"name"`
	Emoji      *string `json:"emoji"`
	Color      *string `json:"color"`
	Resolution *string `json:"resolution"`
	Archived   *bool   `json:"archived"`
}

// StartTrackingRequest starts or switches the timer.
type StartTrackingRequest struct {
	ActivityID uuid.UUID `json:"activityId"`
}

// CreateLogRequest records a manual log entry.
type CreateLogRequest struct {
	Timestamp       string `json:"timestamp"`
	DurationMinutes int    `json:"durationMinutes"`
}

// activeActivity is the timer state machine surface: GET reads the state,
// POST starts, PUT switches, DELETE stops.
func (h *Handler) activeActivity(w http.ResponseWriter, r *http.Request) {
	claims, ok := claimsFrom(w, r)
	if !ok {
		return
	}

	switch r.Method {
	case http.MethodGet:
		state, err := h.tracker.Active(r.Context(), claims.UserID)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		if !state.Tracking {
			writeError(w, http.StatusNotFound, "not_found", "no active activity")
			return
		}
		writeJSON(w, http.StatusOK, ActiveView{ActivityID: state.ActivityID, StartTime: state.StartedAt})

	case http.MethodPost:
		var req StartTrackingRequest
		if !decodeBody(w, r, &req) {
			return
		}
		active, err := h.tracker.Start(r.Context(), claims.UserID, req.ActivityID)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, ActiveView{ActivityID: active.ActivityID, StartTime: active.StartedAt})

	case http.MethodPut:
		var req StartTrackingRequest
		if !decodeBody(w, r, &req) {
			return
		}
		active, err := h.tracker.Switch(r.Context(), claims.UserID, req.ActivityID)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, ActiveView{ActivityID: active.ActivityID, StartTime: active.StartedAt})

	case http.MethodDelete:
		// Stopping while idle is still a 204; nothing was running, nothing
		// was logged.
		if _, err := h.tracker.Stop(r.Context(), claims.UserID); err != nil {
			writeDomainError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)

	default:
		methodNotAllowed(w)
	}
}

func (h *Handler) activityCollection(w http.ResponseWriter, r *http.Request) {
	claims, ok := claimsFrom(w, r)
	if !ok {
		return
	}

	switch r.Method {
	case http.MethodPost:
		var req CreateActivityRequest
		if !decodeBody(w, r, &req) {
			return
		}
		if req.Name == "" {
			writeError(w, http.StatusBadRequest, "validation_failed", "name is required")
			return
		}
		resolution := domain.ResolutionDay
		if req.Resolution != "" {
			parsed, err := domain.ParseResolution(req.Resolution)
			if err != nil {
				writeError(w, http.StatusBadRequest, "validation_failed", err.Error())
				return
			}
			resolution = parsed
		}

		activity, err := h.activities.Create(r.Context(), claims.UserID, domain.CreateActivityInput{
			Name:       req.Name,
			Emoji:      req.Emoji,
			Color:      req.Color,
			Resolution: resolution,
		})
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, toActivityView(*activity))

	case http.MethodGet:
		activities, err := h.activities.List(r.Context(), claims.UserID)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		views := make([]ActivityView, 0, len(activities))
		for _, a := range activities {
			views = append(views, toActivityView(a))
		}
		writeJSON(w, http.StatusOK, views)

	default:
		methodNotAllowed(w)
	}
}

// activityByID routes /v1/activities/{id} and /v1/activities/{id}/logs.
func (h *Handler) activityByID(w http.ResponseWriter, r *http.Request) {
	claims, ok := claimsFrom(w, r)
	if !ok {
		return
	}

	rest := strings.TrimPrefix(r.URL.Path, "/v1/activities/")
	parts := strings.Split(strings.Trim(rest, "/"), "/")
	if len(parts) == 0 || parts[0] == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "missing activity id")
		return
	}
	activityID, ok := parseUUID(w, parts[0], "activity id")
	if !ok {
		return
	}

	if len(parts) == 2 && parts[1] == "logs" {
		h.activityLogs(w, r, claims.UserID, activityID)
		return
	}
	if len(parts) != 1 {
		writeError(w, http.StatusNotFound, "not_found", "unknown route")
		return
	}

	switch r.Method {
	case http.MethodPatch:
		var req UpdateActivityRequest
		if !decodeBody(w, r, &req) {
			return
		}
		update := domain.ActivityUpdate{
			Name:     req.Name,
			Emoji:    req.Emoji,
			Color:    req.Color,
			Archived: req.Archived,
		}
		if req.Resolution != nil {
			parsed, err := domain.ParseResolution(*req.Resolution)
			if err != nil {
				writeError(w, http.StatusBadRequest, "validation_failed", err.Error())
				return
			}
			update.Resolution = &parsed
		}

		activity, err := h.activities.Update(r.Context(), activityID, claims.UserID, update)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toActivityView(*activity))

	default:
		methodNotAllowed(w)
	}
}

func (h *Handler) activityLogs(w http.ResponseWriter, r *http.Request, userID, activityID uuid.UUID) {
	switch r.Method {
	case http.MethodPost:
		var req CreateLogRequest
		if !decodeBody(w, r, &req) {
			return
		}
		logDate, err := time.Parse(dateLayout, req.Timestamp)
		if err != nil {
			writeError(w, http.StatusBadRequest, "validation_failed", "invalid timestamp")
			return
		}
		if req.DurationMinutes < 0 {
			writeError(w, http.StatusBadRequest, "validation_failed", "durationMinutes must not be negative")
			return
		}

		log, err := h.activities.Log(r.Context(), activityID, userID, logDate, req.DurationMinutes)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, toLogView(*log))

	case http.MethodGet:
		window, ok := parseWindow(w, r)
		if !ok {
			return
		}
		logs, err := h.activities.Logs(r.Context(), activityID, userID, window)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		views := make([]LogView, 0, len(logs))
		for _, log := range logs {
			views = append(views, toLogView(log))
		}
		writeJSON(w, http.StatusOK, views)

	default:
		methodNotAllowed(w)
	}
}
