package domain

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
)

// StatsRepository is the read surface behind the aggregation views.
// Member and mapping listings come back in stable discovery order
// (joined_at and created_at respectively); leaderboard tie-breaking
// depends on it.
type StatsRepository interface {
	RoomExists(ctx context.Context, roomID uuid.UUID) (bool, error)
	ActivitiesByUser(ctx context.Context, userID uuid.UUID) ([]Activity, error)
	// MinutesByActivity sums logged minutes per activity within the window.
	// Activities with no logs in the window are absent from the map.
	MinutesByActivity(ctx context.Context, activityIDs []uuid.UUID, window DateWindow) (map[uuid.UUID]int, error)
	TrackerState(ctx context.Context, userID uuid.UUID) (TrackerState, error)
	MembersWithNames(ctx context.Context, roomID uuid.UUID) ([]RoomMemberInfo, error)
	MappingsForMember(ctx context.Context, roomID, userID uuid.UUID) ([]Mapping, error)
	RoomsByMember(ctx context.Context, userID uuid.UUID) ([]Room, error)
	MemberIDsByRooms(ctx context.Context, roomIDs []uuid.UUID) ([]uuid.UUID, error)
	MappingsByRooms(ctx context.Context, roomIDs []uuid.UUID) ([]Mapping, error)
	ActiveForUsers(ctx context.Context, userIDs []uuid.UUID) ([]ActiveActivity, error)
}

// PersonalStat is one activity's aggregate for the owner's dashboard.
type PersonalStat struct {
	Name      string
	Color     string
	Minutes   int
	Live      bool
	StartedAt *time.Time
}

// MemberObjectiveStat is one member's weighted contribution to one objective.
type MemberObjectiveStat struct {
	ObjectiveID uuid.UUID
	Minutes     float64
	Live        bool
	StartedAt   *time.Time
}

// MemberStats nests a room member's per-objective contributions.
type MemberStats struct {
	UserID     uuid.UUID
	FullName   string
	Objectives []MemberObjectiveStat
}

// RankingEntry is one member's row in an objective leaderboard.
type RankingEntry struct {
	UserID    uuid.UUID
	FullName  string
	Minutes   float64
	Live      bool
	StartedAt *time.Time
}

// ObjectiveRanking is the leaderboard for one objective, sorted by minutes
// descending.
type ObjectiveRanking struct {
	ObjectiveID uuid.UUID
	Rankings    []RankingEntry
}

// LiveObjective marks a currently-tracked contribution toward an objective.
type LiveObjective struct {
	ObjectiveID uuid.UUID
	StartedAt   time.Time
}

// Stats computes the aggregation views: personal totals, per-room
// participant breakdowns, leaderboards and the live-status overview.
type Stats struct {
	repo StatsRepository
}

// NewStats constructs a Stats service.
func NewStats(repo StatsRepository) *Stats {
	return &Stats{repo: repo}
}

// PersonalStats sums each owned activity's logged minutes within the window
// and overlays the live timer. Activities with neither logged time nor a
// running timer are omitted.
func (s *Stats) PersonalStats(ctx context.Context, userID uuid.UUID, window DateWindow) ([]PersonalStat, error) {
	activities, err := s.repo.ActivitiesByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	ids := make([]uuid.UUID, 0, len(activities))
	for _, a := range activities {
		ids = append(ids, a.ID)
	}

	minutes, err := s.repo.MinutesByActivity(ctx, ids, window)
	if err != nil {
		return nil, err
	}

	state, err := s.repo.TrackerState(ctx, userID)
	if err != nil {
		return nil, err
	}

	stats := make([]PersonalStat, 0, len(activities))
	for _, a := range activities {
		total := minutes[a.ID]
		live := state.Tracking && state.ActivityID == a.ID
		if total == 0 && !live {
			continue
		}
		stat := PersonalStat{Name: a.Name, Color: a.Color, Minutes: total, Live: live}
		if live {
			started := state.StartedAt
			stat.StartedAt = &started
		}
		stats = append(stats, stat)
	}
	return stats, nil
}

// ParticipantStats computes, per room member, the weighted minutes each of
// their mappings contributed within the window, flagging the mapping live
// when its activity is the member's running timer.
func (s *Stats) ParticipantStats(ctx context.Context, roomID uuid.UUID, window DateWindow) ([]MemberStats, error) {
	exists, err := s.repo.RoomExists(ctx, roomID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, ErrRoomNotFound
	}

	members, err := s.repo.MembersWithNames(ctx, roomID)
	if err != nil {
		return nil, err
	}

	stats := make([]MemberStats, 0, len(members))
	for _, member := range members {
		mappings, err := s.repo.MappingsForMember(ctx, roomID, member.UserID)
		if err != nil {
			return nil, err
		}

		ids := make([]uuid.UUID, 0, len(mappings))
		for _, m := range mappings {
			ids = append(ids, m.ActivityID)
		}
		minutes, err := s.repo.MinutesByActivity(ctx, ids, window)
		if err != nil {
			return nil, err
		}

		state, err := s.repo.TrackerState(ctx, member.UserID)
		if err != nil {
			return nil, err
		}

		ms := MemberStats{UserID: member.UserID, FullName: member.FullName, Objectives: make([]MemberObjectiveStat, 0, len(mappings))}
		for _, m := range mappings {
			entry := MemberObjectiveStat{
				ObjectiveID: m.ObjectiveID,
				Minutes:     float64(minutes[m.ActivityID]) * m.Weight,
			}
			if state.Tracking && state.ActivityID == m.ActivityID {
				entry.Live = true
				started := state.StartedAt
				entry.StartedAt = &started
			}
			ms.Objectives = append(ms.Objectives, entry)
		}
		stats = append(stats, ms)
	}
	return stats, nil
}

// Leaderboard regroups participant stats by objective and ranks members by
// weighted minutes descending.
func (s *Stats) Leaderboard(ctx context.Context, roomID uuid.UUID, window DateWindow) ([]ObjectiveRanking, error) {
	stats, err := s.ParticipantStats(ctx, roomID, window)
	if err != nil {
		return nil, err
	}
	return BuildLeaderboard(stats), nil
}

// BuildLeaderboard pivots member stats into per-objective rankings. The sort
// is stable, so ties keep the member discovery order.
func BuildLeaderboard(stats []MemberStats) []ObjectiveRanking {
	order := make([]uuid.UUID, 0)
	grouped := make(map[uuid.UUID][]RankingEntry)

	for _, member := range stats {
		for _, obj := range member.Objectives {
			if _, seen := grouped[obj.ObjectiveID]; !seen {
				order = append(order, obj.ObjectiveID)
			}
			grouped[obj.ObjectiveID] = append(grouped[obj.ObjectiveID], RankingEntry{
				UserID:    member.UserID,
				FullName:  member.FullName,
				Minutes:   obj.Minutes,
				Live:      obj.Live,
				StartedAt: obj.StartedAt,
			})
		}
	}

	result := make([]ObjectiveRanking, 0, len(order))
	for _, objectiveID := range order {
		rankings := grouped[objectiveID]
		sort.SliceStable(rankings, func(i, j int) bool {
			return rankings[i].Minutes > rankings[j].Minutes
		})
		result = append(result, ObjectiveRanking{ObjectiveID: objectiveID, Rankings: rankings})
	}
	return result
}

// LiveStatus returns, for every room the caller belongs to, the members
// currently tracking a mapped activity: room -> member -> live objectives.
func (s *Stats) LiveStatus(ctx context.Context, userID uuid.UUID) (map[uuid.UUID]map[uuid.UUID][]LiveObjective, error) {
	rooms, err := s.repo.RoomsByMember(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(rooms) == 0 {
		return map[uuid.UUID]map[uuid.UUID][]LiveObjective{}, nil
	}

	roomIDs := make([]uuid.UUID, 0, len(rooms))
	for _, room := range rooms {
		roomIDs = append(roomIDs, room.ID)
	}

	memberIDs, err := s.repo.MemberIDsByRooms(ctx, roomIDs)
	if err != nil {
		return nil, err
	}
	trackers, err := s.repo.ActiveForUsers(ctx, memberIDs)
	if err != nil {
		return nil, err
	}
	mappings, err := s.repo.MappingsByRooms(ctx, roomIDs)
	if err != nil {
		return nil, err
	}

	status := make(map[uuid.UUID]map[uuid.UUID][]LiveObjective)
	for _, tracker := range trackers {
		for _, m := range mappings {
			if m.ActivityID != tracker.ActivityID || m.UserID != tracker.UserID {
				continue
			}
			room := status[m.RoomID]
			if room == nil {
				room = make(map[uuid.UUID][]LiveObjective)
				status[m.RoomID] = room
			}
			room[tracker.UserID] = append(room[tracker.UserID], LiveObjective{
				ObjectiveID: m.ObjectiveID,
				StartedAt:   tracker.StartedAt,
			})
		}
	}
	return status, nil
}
