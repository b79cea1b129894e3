package scheduling

import (
	"testing"
	"time"

	"github.com/padelpoint/tournament-system/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(v int) *int { return &v }

func matchBetween(p1, p2 int) *models.Match {
	return &models.Match{
		Player1ID: intPtr(p1),
		Player2ID: intPtr(p2),
		Status:    models.MatchPending,
	}
}

func testParams(days int, courts ...string) Params {
	start := time.Date(2026, 9, 7, 0, 0, 0, 0, time.UTC)
	return Params{
		StartDate:     start,
		EndDate:       start.AddDate(0, 0, days-1),
		DayStart:      17 * time.Hour,
		DayEnd:        22 * time.Hour,
		MatchDuration: time.Hour,
		Courts:        courts,
	}
}

func TestScheduleAssignsTimeAndCourt(t *testing.T) {
	matches := []*models.Match{matchBetween(1, 2), matchBetween(3, 4)}

	result, err := Schedule(matches, testParams(1, "Court 1"))
	require.NoError(t, err)
	require.Len(t, result.Scheduled, 2)
	assert.Empty(t, result.Unscheduled)

	for _, m := range result.Scheduled {
		require.NotNil(t, m.ScheduledAt)
		require.NotNil(t, m.Location)
		assert.Equal(t, "Court 1", *m.Location)
	}
	assert.NotEqual(t, *matches[0].ScheduledAt, *matches[1].ScheduledAt,
		"one court cannot host two matches at once")
}

func TestScheduleUsesBothCourtsInParallel(t *testing.T) {
	matches := []*models.Match{matchBetween(1, 2), matchBetween(3, 4)}

	result, err := Schedule(matches, testParams(1, "Court 1", "Court 2"))
	require.NoError(t, err)
	require.Len(t, result.Scheduled, 2)

	// Disjoint players, two courts: both go into the first slot.
	assert.Equal(t, *matches[0].ScheduledAt, *matches[1].ScheduledAt)
	assert.NotEqual(t, *matches[0].Location, *matches[1].Location)
}

func TestScheduleNeverDoubleBooksAPlayer(t *testing.T) {
	// Player 1 is in both matches; even with two free courts the bookings
	// must not overlap.
	matches := []*models.Match{matchBetween(1, 2), matchBetween(1, 3)}

	result, err := Schedule(matches, testParams(1, "Court 1", "Court 2"))
	require.NoError(t, err)
	require.Len(t, result.Scheduled, 2)

	first := *matches[0].ScheduledAt
	second := *matches[1].ScheduledAt
	assert.False(t, first.Equal(second))
}

func TestScheduleEnforcesDailyCap(t *testing.T) {
	matches := []*models.Match{
		matchBetween(1, 2),
		matchBetween(1, 3),
		matchBetween(1, 4),
	}

	// One day only: the default cap of two leaves the third match homeless.
	result, err := Schedule(matches, testParams(1, "Court 1"))
	require.NoError(t, err)
	assert.Len(t, result.Scheduled, 2)
	require.Len(t, result.Unscheduled, 1)
	assert.Nil(t, result.Unscheduled[0].ScheduledAt, "an unplaced match stays untouched")

	// A second day gives it a home.
	result, err = Schedule([]*models.Match{matches[2]}, testParams(2, "Court 1"))
	require.NoError(t, err)
	assert.Len(t, result.Scheduled, 1)
}

func TestScheduleSpillsToNextDay(t *testing.T) {
	matches := []*models.Match{
		matchBetween(1, 2),
		matchBetween(1, 3),
		matchBetween(1, 4),
	}

	result, err := Schedule(matches, testParams(2, "Court 1"))
	require.NoError(t, err)
	require.Len(t, result.Scheduled, 3)

	third := *matches[2].ScheduledAt
	assert.Equal(t, 8, third.Day(), "the capped match moves to the second day")
}

func TestScheduleStaysInsideDailyWindow(t *testing.T) {
	matches := make([]*models.Match, 0, 6)
	for i := 0; i < 6; i++ {
		matches = append(matches, matchBetween(10+2*i, 11+2*i))
	}

	result, err := Schedule(matches, testParams(3, "Court 1"))
	require.NoError(t, err)
	for _, m := range result.Scheduled {
		hour := m.ScheduledAt.Hour()
		assert.GreaterOrEqual(t, hour, 17)
		assert.Less(t, hour, 22)
	}
}

func TestScheduleValidation(t *testing.T) {
	base := testParams(1, "Court 1")

	p := base
	p.EndDate = p.StartDate.AddDate(0, 0, -1)
	_, err := Schedule(nil, p)
	assert.Error(t, err)

	p = base
	p.MatchDuration = 0
	_, err = Schedule(nil, p)
	assert.Error(t, err)

	p = base
	p.DayEnd = p.DayStart
	_, err = Schedule(nil, p)
	assert.Error(t, err)

	p = base
	p.Courts = nil
	_, err = Schedule(nil, p)
	assert.Error(t, err)
}
