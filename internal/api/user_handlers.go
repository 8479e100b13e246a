package api

import (
	"net/http"

	"github.com/KruASe76/grindex/internal/auth"
	"github.com/KruASe76/grindex/internal/domain"
)

// ChangePasswordRequest rotates the caller's password.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

// UpdateSettingsRequest changes the caller's settings.
type UpdateSettingsRequest struct {
	Theme string `json:"theme"`
}

func (h *Handler) profile(w http.ResponseWriter, r *http.Request) {
	claims, ok := claimsFrom(w, r)
	if !ok {
		return
	}
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}

	user, settings, err := h.users.Profile(r.Context(), claims.UserID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toUserView(*user, settings))
}

func (h *Handler) personalStats(w http.ResponseWriter, r *http.Request) {
	claims, ok := claimsFrom(w, r)
	if !ok {
		return
	}
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}

	window, ok := parseWindow(w, r)
	if !ok {
		return
	}
	stats, err := h.stats.PersonalStats(r.Context(), claims.UserID, window)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	views := make([]PersonalStatView, 0, len(stats))
	for _, stat := range stats {
		views = append(views, PersonalStatView{
			Name:      stat.Name,
			Color:     stat.Color,
			Minutes:   stat.Minutes,
			Live:      stat.Live,
			StartTime: stat.StartedAt,
		})
	}
	writeJSON(w, http.StatusOK, views)
}

func (h *Handler) changePassword(w http.ResponseWriter, r *http.Request) {
	claims, ok := claimsFrom(w, r)
	if !ok {
		return
	}
	if r.Method != http.MethodPatch {
		methodNotAllowed(w)
		return
	}

	var req ChangePasswordRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if len(req.NewPassword) < 8 {
		writeError(w, http.StatusBadRequest, "validation_failed", "password must be at least 8 characters")
		return
	}

	user, _, err := h.users.Profile(r.Context(), claims.UserID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if err := auth.CheckPassword(user.PasswordHash, req.CurrentPassword); err != nil {
		writeError(w, http.StatusBadRequest, "validation_failed", "current password is incorrect")
		return
	}

	hash, err := auth.HashPassword(req.NewPassword)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "server_error", err.Error())
		return
	}
	if err := h.users.UpdatePassword(r.Context(), claims.UserID, hash); err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) updateSettings(w http.ResponseWriter, r *http.Request) {
	claims, ok := claimsFrom(w, r)
	if !ok {
		return
	}
	if r.Method != http.MethodPatch {
		methodNotAllowed(w)
		return
	}

	var req UpdateSettingsRequest
	if !decodeBody(w, r, &req) {
		return
	}
	theme := domain.Theme(req.Theme)
	if theme != domain.ThemeLight && theme != domain.ThemeDark {
		writeError(w, http.StatusBadRequest, "validation_failed", "unknown theme")
		return
	}

	settings, err := h.users.UpdateSettings(r.Context(), claims.UserID, theme)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, UserSettingsView{
		Theme:      string(settings.Theme),
		Resolution: string(settings.Resolution),
	})
}

// liveStatus returns, for every room the caller belongs to, the members
// currently tracking a mapped activity.
func (h *Handler) liveStatus(w http.ResponseWriter, r *http.Request) {
	claims, ok := claimsFrom(w, r)
	if !ok {
		return
	}
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}

	status, err := h.stats.LiveStatus(r.Context(), claims.UserID)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	payload := make(map[string]map[string][]LiveObjectiveView, len(status))
	for roomID, members := range status {
		room := make(map[string][]LiveObjectiveView, len(members))
		for userID, objectives := range members {
			views := make([]LiveObjectiveView, 0, len(objectives))
			for _, obj := range objectives {
				views = append(views, LiveObjectiveView{
					ObjectiveID: obj.ObjectiveID,
					StartTime:   obj.StartedAt,
				})
			}
			room[userID.String()] = views
		}
		payload[roomID.String()] = room
	}
	writeJSON(w, http.StatusOK, payload)
}
