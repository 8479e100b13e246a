// Package api exposes the HTTP handlers for the grindex backend.
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/KruASe76/grindex/internal/auth"
	"github.com/KruASe76/grindex/internal/domain"
)

// Handler coordinates HTTP requests with the domain services.
type Handler struct {
	authCfg    auth.Config
	users      *domain.Users
	tracker    *domain.Tracker
	activities *domain.Activities
	rooms      *domain.Rooms
	mappings   *domain.Mappings
	objectives *domain.Objectives
	reactions  *domain.Reactions
	stats      *domain.Stats
}

// NewHandler builds a Handler over the domain services.
func NewHandler(
	authCfg auth.Config,
	users *domain.Users,
	tracker *domain.Tracker,
	activities *domain.Activities,
	rooms *domain.Rooms,
	mappings *domain.Mappings,
	objectives *domain.Objectives,
	reactions *domain.Reactions,
	stats *domain.Stats,
) *Handler {
	return &Handler{
		authCfg:    authCfg,
		users:      users,
		tracker:    tracker,
		activities: activities,
		rooms:      rooms,
		mappings:   mappings,
		objectives: objectives,
		reactions:  reactions,
		stats:      stats,
	}
}

// RegisterRoutes wires endpoints to the mux. Exact patterns win over subtree
// patterns, so /v1/activities/active is matched before /v1/activities/.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/v1/auth/register", h.register)
	mux.HandleFunc("/v1/auth/login", h.login)
	mux.HandleFunc("/v1/auth/refresh", h.refresh)

	mux.HandleFunc("/v1/activities/active", h.activeActivity)
	mux.HandleFunc("/v1/activities", h.activityCollection)
	mux.HandleFunc("/v1/activities/", h.activityByID)

	mux.HandleFunc("/v1/rooms", h.roomCollection)
	mux.HandleFunc("/v1/rooms/", h.roomByID)

	mux.HandleFunc("/v1/users/me", h.profile)
	mux.HandleFunc("/v1/users/me/stats", h.personalStats)
	mux.HandleFunc("/v1/users/me/password", h.changePassword)
	mux.HandleFunc("/v1/users/me/settings", h.updateSettings)

	mux.HandleFunc("/v1/live-status", h.liveStatus)

	mux.HandleFunc("/healthz", healthz)
}

// AuthSkipper exempts the public routes from bearer authentication.
func AuthSkipper(r *http.Request) bool {
	switch r.URL.Path {
	case "/healthz", "/metrics", "/v1/auth/register", "/v1/auth/login", "/v1/auth/refresh":
		return true
	}
	return false
}

// healthz reports a simple OK status for container health checks.
func healthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

// claimsFrom extracts validated claims; the auth middleware guarantees they
// are present on protected routes.
func claimsFrom(w http.ResponseWriter, r *http.Request) (*auth.Claims, bool) {
	claims, ok := auth.FromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "missing bearer token")
		return nil, false
	}
	return claims, true
}

func parseUUID(w http.ResponseWriter, raw, field string) (uuid.UUID, bool) {
	id, err := uuid.Parse(raw)
	if err != nil {
		writeError(w, http.StatusBadRequest, "validation_failed", "invalid "+field)
		return uuid.Nil, false
	}
	return id, true
}

// parseWindow reads the optional start_date/end_date query bounds, both
// inclusive calendar dates.
func parseWindow(w http.ResponseWriter, r *http.Request) (domain.DateWindow, bool) {
	var window domain.DateWindow
	for _, bound := range []struct {
		param string
		dest  **time.Time
	}{
		{"start_date", &window.Start},
		{"end_date", &window.End},
	} {
		raw := r.URL.Query().Get(bound.param)
		if raw == "" {
			continue
		}
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "validation_failed", "invalid "+bound.param)
			return domain.DateWindow{}, false
		}
		*bound.dest = &parsed
	}
	return window, true
}

func decodeBody(w http.ResponseWriter, r *http.Request, dest interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(dest); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "unable to parse body")
		return false
	}
	return true
}

func methodNotAllowed(w http.ResponseWriter) {
	writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "unsupported method")
}

// writeDomainError maps sentinel errors onto the HTTP taxonomy: absence to
// 404, state collisions to 409, authorization to 403, rule violations to 400.
func writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrActivityNotFound),
		errors.Is(err, domain.ErrRoomNotFound),
		errors.Is(err, domain.ErrObjectiveNotFound),
		errors.Is(err, domain.ErrGroupNotFound),
		errors.Is(err, domain.ErrMappingNotFound),
		errors.Is(err, domain.ErrUserNotFound),
		errors.Is(err, domain.ErrSettingsNotFound):
		writeError(w, http.StatusNotFound, "not_found", err.Error())
	case errors.Is(err, domain.ErrAlreadyTracking),
		errors.Is(err, domain.ErrAlreadyMember),
		errors.Is(err, domain.ErrEmailTaken):
		writeError(w, http.StatusConflict, "conflict", err.Error())
	case errors.Is(err, domain.ErrNotRoomAdmin),
		errors.Is(err, domain.ErrNotRoomMember):
		writeError(w, http.StatusForbidden, "forbidden", err.Error())
	case errors.Is(err, domain.ErrRoomLimit),
		errors.Is(err, domain.ErrResolutionTooCoarse):
		writeError(w, http.StatusBadRequest, "validation_failed", err.Error())
	case errors.Is(err, domain.ErrInvalidCredentials):
		writeError(w, http.StatusUnauthorized, "unauthorized", err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "server_error", err.Error())
	}
}

func writeError(w http.ResponseWriter, status int, code, detail string) {
	payload := map[string]string{
		"type":   code,
		"detail": detail,
	}
	writeJSON(w, status, payload)
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
