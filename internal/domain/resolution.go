package domain

import "fmt"

// Resolution is the tracking granularity attached to activities, rooms and
// user settings. The ordering day < week < month < year is total and gates
// room joins: a member's personal resolution must be at least as fine as the
// room's.
type Resolution string

const (
	ResolutionDay   Resolution = "day"
	ResolutionWeek  Resolution = "week"
	ResolutionMonth Resolution = "month"
	ResolutionYear  Resolution = "year"
)

var resolutionRanks = map[Resolution]int{
	ResolutionDay:   0,
	ResolutionWeek:  1,
	ResolutionMonth: 2,
	ResolutionYear:  3,
}

// Rank returns the position of the resolution in the day<week<month<year
// order. Unknown values rank as day, matching the most permissive bucket.
func (r Resolution) Rank() int {
	return resolutionRanks[r]
}

// Valid reports whether r is one of the four known granularities.
func (r Resolution) Valid() bool {
	_, ok := resolutionRanks[r]
	return ok
}

// ParseResolution validates a raw string coming off the wire.
func ParseResolution(raw string) (Resolution, error) {
	r := Resolution(raw)
	if !r.Valid() {
		return "", fmt.Errorf("unknown resolution %q", raw)
	}
	return r, nil
}
