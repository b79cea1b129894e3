package brackets

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"testing"

	"github.com/padelpoint/tournament-system/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func generateDouble(t *testing.T, n int) []*Match {
	t.Helper()
	gen := NewDoubleEliminationGenerator(rand.New(rand.NewSource(42)))
	matches, err := gen.GenerateBracket(context.Background(), GenerateBracketParams{
		Entries: testEntries(n),
	})
	require.NoError(t, err)
	return matches
}

func splitDouble(matches []*Match) (winners, losers []*Match, grandFinal *Match) {
	for _, m := range matches {
		switch {
		case m.Code == GrandFinalCode:
			grandFinal = m
		case m.IsLosersBracket:
			losers = append(losers, m)
		default:
			winners = append(winners, m)
		}
	}
	return winners, losers, grandFinal
}

func TestDoubleEliminationWinnersBracketSize(t *testing.T) {
	for n := 3; n <= 20; n++ {
		t.Run(fmt.Sprintf("%d_participants", n), func(t *testing.T) {
			winners, _, _ := splitDouble(generateDouble(t, n))
			assert.Len(t, winners, n-1)
		})
	}
}

func TestDoubleEliminationGrandFinal(t *testing.T) {
	for _, n := range []int{4, 5, 8, 13} {
		matches := generateDouble(t, n)
		winners, losers, grandFinal := splitDouble(matches)

		require.NotNil(t, grandFinal, "n=%d: grand final missing", n)
		assert.Equal(t, models.GrandFinalRound, grandFinal.RoundNumber)
		assert.False(t, grandFinal.IsLosersBracket)
		assert.Nil(t, grandFinal.NextCode)

		// Exactly one match from each half advances into the grand final.
		feedersFromWinners := 0
		for _, m := range winners {
			if m.NextCode != nil && *m.NextCode == GrandFinalCode {
				feedersFromWinners++
			}
		}
		feedersFromLosers := 0
		for _, m := range losers {
			if m.NextCode != nil && *m.NextCode == GrandFinalCode {
				feedersFromLosers++
			}
		}
		assert.Equal(t, 1, feedersFromWinners, "n=%d", n)
		assert.Equal(t, 1, feedersFromLosers, "n=%d", n)
	}
}

func TestDoubleEliminationLoserCodes(t *testing.T) {
	_, losers, _ := splitDouble(generateDouble(t, 8))
	require.NotEmpty(t, losers)
	for i, m := range losers {
		assert.True(t, strings.HasPrefix(m.Code, "LM"), "losers match %d has code %s", i, m.Code)
		assert.Equal(t, fmt.Sprintf("LM%d", i+1), m.Code)
		assert.Nil(t, m.Player1, "losers slots are filled by eliminations, never seeded")
		assert.Nil(t, m.Player2)
	}
}

func TestDoubleEliminationEightParticipantsShape(t *testing.T) {
	winners, losers, grandFinal := splitDouble(generateDouble(t, 8))
	require.NotNil(t, grandFinal)
	require.Len(t, winners, 7)

	// Four first-round losers pair into two matches, each surviving thread
	// gets one match per later winners round, and the two open threads meet
	// in a consolidation match.
	byRound := make(map[int]int)
	for _, m := range losers {
		byRound[m.RoundNumber]++
	}
	assert.Equal(t, 2, byRound[1])
	assert.Equal(t, 2, byRound[2])
	assert.Equal(t, 2, byRound[3])
	assert.Equal(t, 1, byRound[4])
}

func TestDoubleEliminationEveryNonFinalLinksForward(t *testing.T) {
	for _, n := range []int{3, 6, 8, 12, 20} {
		matches := generateDouble(t, n)
		codes := make(map[string]bool, len(matches))
		for _, m := range matches {
			codes[m.Code] = true
		}
		for _, m := range matches {
			if m.Code == GrandFinalCode {
				continue
			}
			require.NotNil(t, m.NextCode, "n=%d: match %s dead-ends", n, m.Code)
			assert.True(t, codes[*m.NextCode], "n=%d: match %s links to unknown code %s", n, m.Code, *m.NextCode)
		}
	}
}

func TestDoubleEliminationTwoParticipants(t *testing.T) {
	winners, losers, grandFinal := splitDouble(generateDouble(t, 2))
	assert.Len(t, winners, 1)
	assert.Len(t, losers, 1)
	require.NotNil(t, grandFinal)
}
