package scoring

import (
	"testing"
	"time"

	"github.com/padelpoint/tournament-system/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(v int) *int { return &v }

func winnerPtr(w models.SetWinner) *models.SetWinner { return &w }

func TestResolveSetWinner(t *testing.T) {
	cases := []struct {
		name         string
		p1, p2       int
		pointsPerSet int
		want         *models.SetWinner
	}{
		{"clear player1 win", 15, 10, 15, winnerPtr(models.SetWinnerPlayer1)},
		{"clear player2 win", 9, 15, 15, winnerPtr(models.SetWinnerPlayer2)},
		{"tie at threshold has no winner", 15, 15, 15, nil},
		{"past threshold needs the lead", 16, 14, 15, winnerPtr(models.SetWinnerPlayer1)},
		{"lead below threshold is not enough", 14, 10, 15, nil},
		{"zero-zero", 0, 0, 15, nil},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := ResolveSetWinner(tc.p1, tc.p2, tc.pointsPerSet)
			if tc.want == nil {
				assert.Nil(t, got)
			} else {
				require.NotNil(t, got)
				assert.Equal(t, *tc.want, *got)
			}
		})
	}
}

func TestSetScoreValidate(t *testing.T) {
	assert.NoError(t, SetScore{SetNumber: 1, Player1Score: 15, Player2Score: 10}.Validate(3))

	err := SetScore{SetNumber: 4, Player1Score: 15, Player2Score: 10}.Validate(3)
	assert.ErrorIs(t, err, ErrSetNumberOutOfRange)

	err = SetScore{SetNumber: 0, Player1Score: 15, Player2Score: 10}.Validate(3)
	assert.ErrorIs(t, err, ErrSetNumberOutOfRange)

	err = SetScore{SetNumber: 1, Player1Score: -1, Player2Score: 10}.Validate(3)
	assert.ErrorIs(t, err, ErrNegativeScore)
}

func matchWithSetWinners(maxSets int, winners ...models.SetWinner) *models.Match {
	m := &models.Match{MaxSets: maxSets, PointsPerSet: 15}
	for i, w := range winners {
		won := w
		m.Sets = append(m.Sets, &models.Set{SetNumber: i + 1, Winner: &won})
	}
	return m
}

func TestOutcome(t *testing.T) {
	// Best of three: two set wins decide it.
	m := matchWithSetWinners(3, models.SetWinnerPlayer1, models.SetWinnerPlayer1)
	got := Outcome(m)
	require.NotNil(t, got)
	assert.Equal(t, models.SetWinnerPlayer1, *got)

	m = matchWithSetWinners(3, models.SetWinnerPlayer1, models.SetWinnerPlayer2)
	assert.Nil(t, Outcome(m), "one set each leaves the match open")

	m = matchWithSetWinners(3, models.SetWinnerPlayer2, models.SetWinnerPlayer1, models.SetWinnerPlayer2)
	got = Outcome(m)
	require.NotNil(t, got)
	assert.Equal(t, models.SetWinnerPlayer2, *got)

	// Undecided sets never count toward either side.
	m = matchWithSetWinners(3, models.SetWinnerPlayer1)
	m.Sets = append(m.Sets, &models.Set{SetNumber: 2})
	assert.Nil(t, Outcome(m))
}

func TestComplete(t *testing.T) {
	now := time.Now()
	m := &models.Match{
		Type:       models.MatchDoubles,
		Player1ID:  intPtr(10),
		Partner1ID: intPtr(11),
		Player2ID:  intPtr(20),
		Partner2ID: intPtr(21),
		Status:     models.MatchInProgress,
	}

	Complete(m, models.SetWinnerPlayer2, now)

	assert.Equal(t, models.MatchCompleted, m.Status)
	require.NotNil(t, m.WinnerID)
	assert.Equal(t, 20, *m.WinnerID)
	require.NotNil(t, m.WinnerPartnerID)
	assert.Equal(t, 21, *m.WinnerPartnerID)
	require.NotNil(t, m.CompletedAt)
	assert.Equal(t, now, *m.CompletedAt)
}

func TestPropagateWinnerFillsFirstOpenSlot(t *testing.T) {
	completed := &models.Match{WinnerID: intPtr(7)}
	next := &models.Match{}

	require.True(t, PropagateWinner(completed, next))
	require.NotNil(t, next.Player1ID)
	assert.Equal(t, 7, *next.Player1ID)
	assert.Nil(t, next.Player2ID)

	other := &models.Match{WinnerID: intPtr(9)}
	require.True(t, PropagateWinner(other, next))
	require.NotNil(t, next.Player2ID)
	assert.Equal(t, 9, *next.Player2ID)

	// Both slots taken: nothing is overwritten.
	third := &models.Match{WinnerID: intPtr(11)}
	assert.False(t, PropagateWinner(third, next))
	assert.Equal(t, 7, *next.Player1ID)
	assert.Equal(t, 9, *next.Player2ID)
}

func TestPropagateWinnerCarriesDoublesPartner(t *testing.T) {
	completed := &models.Match{
		Type:            models.MatchDoubles,
		WinnerID:        intPtr(7),
		WinnerPartnerID: intPtr(8),
	}
	next := &models.Match{}

	require.True(t, PropagateWinner(completed, next))
	require.NotNil(t, next.Partner1ID)
	assert.Equal(t, 8, *next.Partner1ID)
}

func TestPropagateWinnerWithoutWinner(t *testing.T) {
	assert.False(t, PropagateWinner(&models.Match{}, &models.Match{}))
}
