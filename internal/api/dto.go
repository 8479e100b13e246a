package api

import (
	"time"

	"github.com/google/uuid"

	"github.com/KruASe76/grindex/internal/domain"
)

const dateLayout = "2006-01-02"

// TokenPairResponse carries a freshly issued access/refresh pair.
type TokenPairResponse struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
	TokenType    string `json:"tokenType"`
}

// UserView is the profile representation, settings included.
type UserView struct {
	ID        uuid.UUID         `json:"id"`
	Email     string            `json:"email"`
	FullName  string            `json:"fullName"`
	CreatedAt time.Time         `json:"createdAt"`
	Settings  *UserSettingsView `json:"settings,omitempty"`
}

// UserSettingsView mirrors the per-user settings row.
type UserSettingsView struct {
	Theme      string `json:"theme"`
	Resolution string `json:"resolution"`
}

// ActivityView is the activity representation.
type ActivityView struct {
	ID         uuid.UUID `json:"id"`
	Name       string    `json:"name"`
	Emoji      string    `json:"emoji"`
	Color      string    `json:"color"`
	Resolution string    `json:"resolution"`
	Archived   bool      `json:"archived"`
	CreatedAt  time.Time `json:"createdAt"`
}

// ActiveView is the running timer representation.
type ActiveView struct {
	ActivityID uuid.UUID `json:"activityId"`
	StartTime  time.Time `json:"startTime"`
}

// LogView is one immutable log entry. Timestamp is the calendar date the
// interval started on.
type LogView struct {
	ID              uuid.UUID `json:"id"`
	ActivityID      uuid.UUID `json:"activityId"`
	Timestamp       string    `json:"timestamp"`
	DurationMinutes int       `json:"durationMinutes"`
}

// RoomView is the room representation.
type RoomView struct {
	ID         uuid.UUID `json:"id"`
	AdminID    uuid.UUID `json:"adminId"`
	Name       string    `json:"name"`
	Resolution string    `json:"resolution"`
	CreatedAt  time.Time `json:"createdAt"`
}

// MemberView is one membership row.
type MemberView struct {
	RoomID   uuid.UUID `json:"roomId"`
	UserID   uuid.UUID `json:"userId"`
	JoinedAt time.Time `json:"joinedAt"`
}

// MappingView links an activity to an objective at a weight.
type MappingView struct {
	ID          uuid.UUID `json:"id"`
	RoomID      uuid.UUID `json:"roomId"`
	ActivityID  uuid.UUID `json:"activityId"`
	ObjectiveID uuid.UUID `json:"objectiveId"`
	Weight      float64   `json:"weight"`
}

// ObjectiveView is the objective representation.
type ObjectiveView struct {
	ID            uuid.UUID  `json:"id"`
	RoomID        uuid.UUID  `json:"roomId"`
	GroupID       *uuid.UUID `json:"groupId"`
	Name          string     `json:"name"`
	Emoji         string     `json:"emoji"`
	Color         string     `json:"color"`
	TargetMinutes int        `json:"targetMinutes"`
	Metric        string     `json:"metric"`
	Archived      bool       `json:"archived"`
}

// GroupView is the objective-group representation.
type GroupView struct {
	ID     uuid.UUID `json:"id"`
	RoomID uuid.UUID `json:"roomId"`
	Name   string    `json:"name"`
}

// PersonalStatView is one activity's aggregate on the owner's dashboard.
type PersonalStatView struct {
	Name      string     `json:"name"`
	Color     string     `json:"color"`
	Minutes   int        `json:"minutes"`
	Live      bool       `json:"live"`
	StartTime *time.Time `json:"startTime,omitempty"`
}

// ObjectiveStatView is one weighted contribution toward one objective.
type ObjectiveStatView struct {
	ObjectiveID uuid.UUID  `json:"objectiveId"`
	Minutes     float64    `json:"minutes"`
	Live        bool       `json:"live"`
	StartTime   *time.Time `json:"startTime,omitempty"`
}

// MemberStatsView nests one member's per-objective contributions.
type MemberStatsView struct {
	UserID     uuid.UUID           `json:"userId"`
	FullName   string              `json:"fullName"`
	Objectives []ObjectiveStatView `json:"objectives"`
}

// RankingEntryView is one leaderboard row.
type RankingEntryView struct {
	UserID    uuid.UUID  `json:"userId"`
	FullName  string     `json:"fullName"`
	Minutes   float64    `json:"minutes"`
	Live      bool       `json:"live"`
	StartTime *time.Time `json:"startTime,omitempty"`
}

// LeaderboardView is one objective's ranking, minutes descending.
type LeaderboardView struct {
	ObjectiveID uuid.UUID          `json:"objectiveId"`
	Rankings    []RankingEntryView `json:"rankings"`
}

// LiveObjectiveView marks a currently tracked contribution.
type LiveObjectiveView struct {
	ObjectiveID uuid.UUID `json:"objectiveId"`
	StartTime   time.Time `json:"startTime"`
}

func toUserView(user domain.User, settings *domain.UserSettings) UserView {
	view := UserView{
		ID:        user.ID,
		Email:     user.Email,
		FullName:  user.FullName,
		CreatedAt: user.CreatedAt,
	}
	if settings != nil {
		view.Settings = &UserSettingsView{
			Theme:      string(settings.Theme),
			Resolution: string(settings.Resolution),
		}
	}
	return view
}

func toActivityView(a domain.Activity) ActivityView {
	return ActivityView{
		ID:         a.ID,
		Name:       a.Name,
		Emoji:      a.Emoji,
		Color:      a.Color,
		Resolution: string(a.Resolution),
		Archived:   a.Archived(),
		CreatedAt:  a.CreatedAt,
	}
}

func toLogView(log domain.ActivityLog) LogView {
	return LogView{
		ID:              log.ID,
		ActivityID:      log.ActivityID,
		Timestamp:       log.LogDate.Format(dateLayout),
		DurationMinutes: log.DurationMinutes,
	}
}

func toRoomView(room domain.Room) RoomView {
	return RoomView{
		ID:         room.ID,
		AdminID:    room.AdminID,
		Name:       room.Name,
		Resolution: string(room.Resolution),
		CreatedAt:  room.CreatedAt,
	}
}

func toMappingView(m domain.Mapping) MappingView {
	return MappingView{
		ID:          m.ID,
		RoomID:      m.RoomID,
		ActivityID:  m.ActivityID,
		ObjectiveID: m.ObjectiveID,
		Weight:      m.Weight,
	}
}

func toObjectiveView(o domain.Objective) ObjectiveView {
	return ObjectiveView{
		ID:            o.ID,
		RoomID:        o.RoomID,
		GroupID:       o.GroupID,
		Name:          o.Name,
		Emoji:         o.Emoji,
		Color:         o.Color,
		TargetMinutes: o.TargetMinutes,
		Metric:        o.Metric,
		Archived:      o.ArchivedAt != nil,
	}
}

func toGroupView(g domain.ObjectiveGroup) GroupView {
	return GroupView{ID: g.ID, RoomID: g.RoomID, Name: g.Name}
}

func toMemberStatsViews(stats []domain.MemberStats) []MemberStatsView {
	views := make([]MemberStatsView, 0, len(stats))
	for _, member := range stats {
		view := MemberStatsView{
			UserID:     member.UserID,
			FullName:   member.FullName,
			Objectives: make([]ObjectiveStatView, 0, len(member.Objectives)),
		}
		for _, obj := range member.Objectives {
			view.Objectives = append(view.Objectives, ObjectiveStatView{
				ObjectiveID: obj.ObjectiveID,
				Minutes:     obj.Minutes,
				Live:        obj.Live,
				StartTime:   obj.StartedAt,
			})
		}
		views = append(views, view)
	}
	return views
}

func toLeaderboardViews(rankings []domain.ObjectiveRanking) []LeaderboardView {
	views := make([]LeaderboardView, 0, len(rankings))
	for _, ranking := range rankings {
		view := LeaderboardView{
			ObjectiveID: ranking.ObjectiveID,
			Rankings:    make([]RankingEntryView, 0, len(ranking.Rankings)),
		}
		for _, entry := range ranking.Rankings {
			view.Rankings = append(view.Rankings, RankingEntryView{
				UserID:    entry.UserID,
				FullName:  entry.FullName,
				Minutes:   entry.Minutes,
				Live:      entry.Live,
				StartTime: entry.StartedAt,
			})
		}
		views = append(views, view)
	}
	return views
}
