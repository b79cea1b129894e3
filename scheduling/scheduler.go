// Package scheduling assigns unscheduled matches to time slots and courts.
// The assignment is a greedy first-fit scan over the chronological slot
// grid, not an optimal solver: matches that fit nowhere are reported back,
// never silently dropped.
package scheduling

import (
	"errors"
	"fmt"
	"time"

	"github.com/padelpoint/tournament-system/models"
)

// DefaultMaxPerPlayerPerDay caps how many matches one player can be booked
// for on a single day.
const DefaultMaxPerPlayerPerDay = 2

type Params struct {
	StartDate time.Time
	EndDate   time.Time

	// Daily window as offsets from midnight, e.g. 17h to 22h40m.
	DayStart time.Duration
	DayEnd   time.Duration

	MatchDuration time.Duration
	Courts        []string

	// Zero means DefaultMaxPerPlayerPerDay.
	MaxPerPlayerPerDay int
}

func (p Params) Validate() error {
	if p.EndDate.Before(p.StartDate) {
		return errors.New("scheduling end date before start date")
	}
	if p.MatchDuration <= 0 {
		return errors.New("match duration must be positive")
	}
	if p.DayEnd <= p.DayStart {
		return errors.New("daily window is empty")
	}
	if len(p.Courts) == 0 {
		return errors.New("at least one court is required")
	}
	return nil
}

type Result struct {
	Scheduled   []*models.Match
	Unscheduled []*models.Match
}

type interval struct {
	start time.Time
	end   time.Time
}

func (iv interval) overlaps(start, end time.Time) bool {
	return start.Before(iv.end) && iv.start.Before(end)
}

// Schedule walks the matches in input order and books each into the first
// chronological slot where the court is free, no involved player has an
// overlapping booking, and no involved player exceeds the daily cap. It
// mutates ScheduledAt and Location on the matches it places.
func Schedule(matches []*models.Match, p Params) (*Result, error) {
	if err := p.Validate(); err != nil {
		return nil, fmt.Errorf("invalid scheduling parameters: %w", err)
	}

	maxPerDay := p.MaxPerPlayerPerDay
	if maxPerDay == 0 {
		maxPerDay = DefaultMaxPerPlayerPerDay
	}

	slots := buildSlots(p)

	courtBusy := make(map[time.Time]map[string]bool)
	playerBookings := make(map[int][]interval)
	playerDaily := make(map[string]map[int]int)

	result := &Result{}

	for _, m := range matches {
		players := m.PlayerIDs()
		placed := false

	slotScan:
		for _, slotStart := range slots {
			slotEnd := slotStart.Add(p.MatchDuration)
			day := slotStart.Format("2006-01-02")

			for _, id := range players {
				if playerDaily[day][id] >= maxPerDay {
					continue slotScan
				}
				for _, iv := range playerBookings[id] {
					if iv.overlaps(slotStart, slotEnd) {
						continue slotScan
					}
				}
			}

			court := freeCourt(courtBusy[slotStart], p.Courts)
			if court == "" {
				continue
			}

			at := slotStart
			loc := court
			m.ScheduledAt = &at
			m.Location = &loc

			if courtBusy[slotStart] == nil {
				courtBusy[slotStart] = make(map[string]bool)
			}
			courtBusy[slotStart][court] = true
			if playerDaily[day] == nil {
				playerDaily[day] = make(map[int]int)
			}
			for _, id := range players {
				playerBookings[id] = append(playerBookings[id], interval{start: slotStart, end: slotEnd})
				playerDaily[day][id]++
			}

			result.Scheduled = append(result.Scheduled, m)
			placed = true
			break
		}

		if !placed {
			result.Unscheduled = append(result.Unscheduled, m)
		}
	}

	return result, nil
}

func buildSlots(p Params) []time.Time {
	var slots []time.Time
	day := atMidnight(p.StartDate)
	last := atMidnight(p.EndDate)
	for !day.After(last) {
		start := day.Add(p.DayStart)
		limit := day.Add(p.DayEnd)
		for !start.Add(p.MatchDuration).After(limit) {
			slots = append(slots, start)
			start = start.Add(p.MatchDuration)
		}
		day = day.AddDate(0, 0, 1)
	}
	return slots
}

func freeCourt(busy map[string]bool, courts []string) string {
	for _, c := range courts {
		if !busy[c] {
			return c
		}
	}
	return ""
}

func atMidnight(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
