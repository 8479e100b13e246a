package api

import (
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/KruASe76/grindex/internal/auth"
	"github.com/KruASe76/grindex/internal/domain"
)

// CreateRoomRequest creates a room.
type CreateRoomRequest struct {
	Name       string `json:"name"`
	Resolution string `json:"resolution"`
}

// UpsertMappingRequest links an activity to an objective at a weight.
type UpsertMappingRequest struct {
	ActivityID  uuid.UUID `json:"activityId"`
	ObjectiveID uuid.UUID `json:"objectiveId"`
	Weight      float64   `json:"weight"`
}

// CreateObjectiveRequest creates an objective in a room.
type CreateObjectiveRequest struct {
	Name          string     `json:"name"`
	Emoji         string     `json:"emoji"`
	Color         string     `json:"color"`
	TargetMinutes int        `json:"targetMinutes"`
	Metric        string     `json:"metric"`
	GroupID       *uuid.UUID `json:"groupId"`
}

// UpdateObjectiveRequest is a partial objective update.
type UpdateObjectiveRequest struct {
	Name          *string    `json:"name"`
	Emoji         *string    `json:"emoji"`
	Color         *string    `json:"color"`
	TargetMinutes *int       `json:"targetMinutes"`
	Metric        *string    `json:"metric"`
	GroupID       *uuid.UUID `json:"groupId"`
	Archived      *bool      `json:"archived"`
}

// GroupRequest creates or renames an objective group.
type GroupRequest struct {
	Name string `json:"name"`
}

// CreateReactionRequest sends one emoji reaction to a room member.
type CreateReactionRequest struct {
	ReceiverID uuid.UUID `json:"receiverId"`
	Emoji      string    `json:"emoji"`
}

func (h *Handler) roomCollection(w http.ResponseWriter, r *http.Request) {
	claims, ok := claimsFrom(w, r)
	if !ok {
		return
	}

	switch r.Method {
	case http.MethodPost:
		var req CreateRoomRequest
		if !decodeBody(w, r, &req) {
			return
		}
		if req.Name == "" {
			writeError(w, http.StatusBadRequest, "validation_failed", "name is required")
			return
		}
		resolution, err := domain.ParseResolution(req.Resolution)
		if err != nil {
			writeError(w, http.StatusBadRequest, "validation_failed", err.Error())
			return
		}

		room, err := h.rooms.Create(r.Context(), claims.UserID, domain.CreateRoomInput{
			Name:       req.Name,
			Resolution: resolution,
		})
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, toRoomView(*room))

	case http.MethodGet:
		rooms, err := h.rooms.List(r.Context(), claims.UserID)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		views := make([]RoomView, 0, len(rooms))
		for _, room := range rooms {
			views = append(views, toRoomView(room))
		}
		writeJSON(w, http.StatusOK, views)

	default:
		methodNotAllowed(w)
	}
}

// roomByID routes every /v1/rooms/{id}/... subresource.
func (h *Handler) roomByID(w http.ResponseWriter, r *http.Request) {
	claims, ok := claimsFrom(w, r)
	if !ok {
		return
	}

	rest := strings.TrimPrefix(r.URL.Path, "/v1/rooms/")
	parts := strings.Split(strings.Trim(rest, "/"), "/")
	if len(parts) == 0 || parts[0] == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "missing room id")
		return
	}
	roomID, ok := parseUUID(w, parts[0], "room id")
	if !ok {
		return
	}
	if len(parts) < 2 {
		writeError(w, http.StatusNotFound, "not_found", "unknown route")
		return
	}

	switch parts[1] {
	case "join":
		h.joinRoom(w, r, claims, roomID)
	case "stats":
		h.roomStats(w, r, claims, roomID)
	case "leaderboard":
		h.roomLeaderboard(w, r, claims, roomID)
	case "mapping":
		h.roomMapping(w, r, claims, roomID)
	case "objectives":
		h.roomObjectives(w, r, claims, roomID, parts[2:])
	case "groups":
		h.roomGroups(w, r, claims, roomID, parts[2:])
	case "reactions":
		h.roomReactions(w, r, claims, roomID)
	default:
		writeError(w, http.StatusNotFound, "not_found", "unknown route")
	}
}

func (h *Handler) joinRoom(w http.ResponseWriter, r *http.Request, claims *auth.Claims, roomID uuid.UUID) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}

	member, err := h.rooms.Join(r.Context(), roomID, claims.UserID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, MemberView{
		RoomID:   member.RoomID,
		UserID:   member.UserID,
		JoinedAt: member.JoinedAt,
	})
}

func (h *Handler) roomStats(w http.ResponseWriter, r *http.Request, claims *auth.Claims, roomID uuid.UUID) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}
	if _, err := h.rooms.VerifyMember(r.Context(), roomID, claims.UserID); err != nil {
		writeDomainError(w, err)
		return
	}

	window, ok := parseWindow(w, r)
	if !ok {
		return
	}
	stats, err := h.stats.ParticipantStats(r.Context(), roomID, window)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toMemberStatsViews(stats))
}

func (h *Handler) roomLeaderboard(w http.ResponseWriter, r *http.Request, claims *auth.Claims, roomID uuid.UUID) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}
	if _, err := h.rooms.VerifyMember(r.Context(), roomID, claims.UserID); err != nil {
		writeDomainError(w, err)
		return
	}

	window, ok := parseWindow(w, r)
	if !ok {
		return
	}
	rankings, err := h.stats.Leaderboard(r.Context(), roomID, window)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toLeaderboardViews(rankings))
}

func (h *Handler) roomMapping(w http.ResponseWriter, r *http.Request, claims *auth.Claims, roomID uuid.UUID) {
	switch r.Method {
	case http.MethodPut:
		var req UpsertMappingRequest
		if !decodeBody(w, r, &req) {
			return
		}
		if req.Weight <= 0 {
			writeError(w, http.StatusBadRequest, "validation_failed", "weight must be positive")
			return
		}
		mapping, err := h.mappings.Upsert(r.Context(), roomID, claims.UserID, req.ActivityID, req.ObjectiveID, req.Weight)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toMappingView(*mapping))

	case http.MethodGet:
		mappings, err := h.mappings.List(r.Context(), roomID, claims.UserID)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		views := make([]MappingView, 0, len(mappings))
		for _, m := range mappings {
			views = append(views, toMappingView(m))
		}
		writeJSON(w, http.StatusOK, views)

	case http.MethodDelete:
		activityID, ok := parseUUID(w, r.URL.Query().Get("activity_id"), "activity_id")
		if !ok {
			return
		}
		objectiveID, ok := parseUUID(w, r.URL.Query().Get("objective_id"), "objective_id")
		if !ok {
			return
		}
		if err := h.mappings.Delete(r.Context(), roomID, claims.UserID, activityID, objectiveID); err != nil {
			writeDomainError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)

	default:
		methodNotAllowed(w)
	}
}

// roomObjectives handles the objective collection and single-objective
// routes. Reads need membership; mutations need the room admin.
func (h *Handler) roomObjectives(w http.ResponseWriter, r *http.Request, claims *auth.Claims, roomID uuid.UUID, rest []string) {
	if len(rest) > 1 {
		writeError(w, http.StatusNotFound, "not_found", "unknown route")
		return
	}

	if len(rest) == 0 {
		switch r.Method {
		case http.MethodPost:
			if _, err := h.rooms.VerifyAdmin(r.Context(), roomID, claims.UserID); err != nil {
				writeDomainError(w, err)
				return
			}
			var req CreateObjectiveRequest
			if !decodeBody(w, r, &req) {
				return
			}
			if req.Name == "" {
				writeError(w, http.StatusBadRequest, "validation_failed", "name is required")
				return
			}
			objective, err := h.objectives.Create(r.Context(), roomID, domain.CreateObjectiveInput{
				Name:          req.Name,
				Emoji:         req.Emoji,
				Color:         req.Color,
				TargetMinutes: req.TargetMinutes,
				Metric:        req.Metric,
				GroupID:       req.GroupID,
			})
			if err != nil {
				writeDomainError(w, err)
				return
			}
			writeJSON(w, http.StatusCreated, toObjectiveView(*objective))

		case http.MethodGet:
			if _, err := h.rooms.VerifyMember(r.Context(), roomID, claims.UserID); err != nil {
				writeDomainError(w, err)
				return
			}
			objectives, err := h.objectives.List(r.Context(), roomID)
			if err != nil {
				writeDomainError(w, err)
				return
			}
			views := make([]ObjectiveView, 0, len(objectives))
			for _, o := range objectives {
				views = append(views, toObjectiveView(o))
			}
			writeJSON(w, http.StatusOK, views)

		default:
			methodNotAllowed(w)
		}
		return
	}

	objectiveID, ok := parseUUID(w, rest[0], "objective id")
	if !ok {
		return
	}
	if _, err := h.rooms.VerifyAdmin(r.Context(), roomID, claims.UserID); err != nil {
		writeDomainError(w, err)
		return
	}

	switch r.Method {
	case http.MethodPatch:
		var req UpdateObjectiveRequest
		if !decodeBody(w, r, &req) {
			return
		}
		objective, err := h.objectives.Update(r.Context(), objectiveID, domain.ObjectiveUpdate{
			Name:          req.Name,
			Emoji:         req.Emoji,
			Color:         req.Color,
			TargetMinutes: req.TargetMinutes,
			Metric:        req.Metric,
			GroupID:       req.GroupID,
			Archived:      req.Archived,
		})
		if err != nil {
			writeDomainError(w, err)
			return
		}
		if objective.RoomID != roomID {
			writeError(w, http.StatusNotFound, "not_found", "objective not found")
			return
		}
		writeJSON(w, http.StatusOK, toObjectiveView(*objective))

	case http.MethodDelete:
		if err := h.objectives.Delete(r.Context(), objectiveID); err != nil {
			writeDomainError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)

	default:
		methodNotAllowed(w)
	}
}

func (h *Handler) roomGroups(w http.ResponseWriter, r *http.Request, claims *auth.Claims, roomID uuid.UUID, rest []string) {
	if len(rest) > 1 {
		writeError(w, http.StatusNotFound, "not_found", "unknown route")
		return
	}

	if len(rest) == 0 {
		switch r.Method {
		case http.MethodPost:
			if _, err := h.rooms.VerifyAdmin(r.Context(), roomID, claims.UserID); err != nil {
				writeDomainError(w, err)
				return
			}
			var req GroupRequest
			if !decodeBody(w, r, &req) {
				return
			}
			if req.Name == "" {
				writeError(w, http.StatusBadRequest, "validation_failed", "name is required")
				return
			}
			group, err := h.objectives.CreateGroup(r.Context(), roomID, req.Name)
			if err != nil {
				writeDomainError(w, err)
				return
			}
			writeJSON(w, http.StatusCreated, toGroupView(*group))

		case http.MethodGet:
			if _, err := h.rooms.VerifyMember(r.Context(), roomID, claims.UserID); err != nil {
				writeDomainError(w, err)
				return
			}
			groups, err := h.objectives.ListGroups(r.Context(), roomID)
			if err != nil {
				writeDomainError(w, err)
				return
			}
			views := make([]GroupView, 0, len(groups))
			for _, g := range groups {
				views = append(views, toGroupView(g))
			}
			writeJSON(w, http.StatusOK, views)

		default:
			methodNotAllowed(w)
		}
		return
	}

	groupID, ok := parseUUID(w, rest[0], "group id")
	if !ok {
		return
	}
	if _, err := h.rooms.VerifyAdmin(r.Context(), roomID, claims.UserID); err != nil {
		writeDomainError(w, err)
		return
	}

	switch r.Method {
	case http.MethodPatch:
		var req GroupRequest
		if !decodeBody(w, r, &req) {
			return
		}
		if req.Name == "" {
			writeError(w, http.StatusBadRequest, "validation_failed", "name is required")
			return
		}
		group, err := h.objectives.RenameGroup(r.Context(), groupID, req.Name)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		if group.RoomID != roomID {
			writeError(w, http.StatusNotFound, "not_found", "objective group not found")
			return
		}
		writeJSON(w, http.StatusOK, toGroupView(*group))

	case http.MethodDelete:
		if err := h.objectives.DeleteGroup(r.Context(), groupID); err != nil {
			writeDomainError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)

	default:
		methodNotAllowed(w)
	}
}

func (h *Handler) roomReactions(w http.ResponseWriter, r *http.Request, claims *auth.Claims, roomID uuid.UUID) {
	if _, err := h.rooms.VerifyMember(r.Context(), roomID, claims.UserID); err != nil {
		writeDomainError(w, err)
		return
	}

	switch r.Method {
	case http.MethodPost:
		var req CreateReactionRequest
		if !decodeBody(w, r, &req) {
			return
		}
		if req.Emoji == "" {
			writeError(w, http.StatusBadRequest, "validation_failed", "emoji is required")
			return
		}
		if _, err := h.reactions.Add(r.Context(), roomID, claims.UserID, req.ReceiverID, req.Emoji); err != nil {
			writeDomainError(w, err)
			return
		}
		w.WriteHeader(http.StatusCreated)

	case http.MethodGet:
		aggregated, err := h.reactions.Aggregate(r.Context(), roomID)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		// Keyed by receiver id, then emoji.
		payload := make(map[string]map[string]int, len(aggregated))
		for receiverID, emojis := range aggregated {
			payload[receiverID.String()] = emojis
		}
		writeJSON(w, http.StatusOK, payload)

	default:
		methodNotAllowed(w)
	}
}
