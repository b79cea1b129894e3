package brackets

import (
	"context"
	"fmt"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testEntries(n int) []Entry {
	entries := make([]Entry, 0, n)
	for i := 1; i <= n; i++ {
		entries = append(entries, Entry{ParticipantID: i, PlayerID: 100 + i})
	}
	return entries
}

func generateSingle(t *testing.T, n int, keepOrder bool) []*Match {
	t.Helper()
	gen := NewSingleEliminationGenerator(rand.New(rand.NewSource(42)))
	matches, err := gen.GenerateBracket(context.Background(), GenerateBracketParams{
		Entries:   testEntries(n),
		KeepOrder: keepOrder,
	})
	require.NoError(t, err)
	return matches
}

func TestSingleEliminationMatchCount(t *testing.T) {
	for n := 2; n <= 20; n++ {
		t.Run(fmt.Sprintf("%d_participants", n), func(t *testing.T) {
			matches := generateSingle(t, n, false)
			assert.Len(t, matches, n-1, "a knockout for %d participants needs %d matches", n, n-1)
		})
	}
}

func TestSingleEliminationEverySlotHasExactlyOneSource(t *testing.T) {
	// Each match must be fed by exactly two sources: a pre-seeded player or
	// an incoming winner link, never more, never fewer.
	for n := 2; n <= 20; n++ {
		matches := generateSingle(t, n, false)

		incoming := make(map[string]int)
		for _, m := range matches {
			if m.NextCode != nil {
				incoming[*m.NextCode]++
			}
		}
		for _, m := range matches {
			seeded := 0
			if m.Player1 != nil {
				seeded++
			}
			if m.Player2 != nil {
				seeded++
			}
			assert.Equal(t, 2, seeded+incoming[m.Code],
				"n=%d match %s: %d seeded players and %d feeders", n, m.Code, seeded, incoming[m.Code])
		}
	}
}

func TestSingleEliminationFiveParticipants(t *testing.T) {
	matches := generateSingle(t, 5, false)
	require.Len(t, matches, 4)

	byRound := make(map[int][]*Match)
	for _, m := range matches {
		byRound[m.RoundNumber] = append(byRound[m.RoundNumber], m)
	}

	// One preliminary, two semifinal slots, one final.
	require.Len(t, byRound[1], 1)
	require.Len(t, byRound[2], 2)
	require.Len(t, byRound[3], 1)

	prelim := byRound[1][0]
	assert.NotNil(t, prelim.Player1)
	assert.NotNil(t, prelim.Player2, "a preliminary match never has an open slot")
	require.NotNil(t, prelim.NextCode)

	final := byRound[3][0]
	assert.Nil(t, final.NextCode, "the final advances nowhere")
	assert.Equal(t, "M1", prelim.Code)
	assert.Equal(t, "M4", final.Code)
}

func TestSingleEliminationPowerOfTwoHasNoPreliminaries(t *testing.T) {
	matches := generateSingle(t, 8, false)
	require.Len(t, matches, 7)
	for _, m := range matches {
		if m.RoundNumber == 1 {
			assert.True(t, m.Player1 != nil && m.Player2 != nil,
				"round 1 of a full bracket is fully seeded, match %s is not", m.Code)
		}
	}
}

func TestSingleEliminationAllParticipantsSeededOnce(t *testing.T) {
	for _, n := range []int{2, 5, 6, 7, 11, 16} {
		matches := generateSingle(t, n, false)
		seen := make(map[int]int)
		for _, m := range matches {
			if m.Player1 != nil {
				seen[m.Player1.ParticipantID]++
			}
			if m.Player2 != nil {
				seen[m.Player2.ParticipantID]++
			}
		}
		require.Len(t, seen, n, "n=%d: every participant enters the bracket", n)
		for id, count := range seen {
			assert.Equal(t, 1, count, "n=%d: participant %d seeded %d times", n, id, count)
		}
	}
}

func TestSingleEliminationKeepOrderPreservesSeeding(t *testing.T) {
	matches := generateSingle(t, 4, true)
	require.Len(t, matches, 3)

	first := matches[0]
	require.NotNil(t, first.Player1)
	require.NotNil(t, first.Player2)
	assert.Equal(t, 1, first.Player1.ParticipantID)
	assert.Equal(t, 2, first.Player2.ParticipantID)
}

func TestSingleEliminationDeterministicWithSeed(t *testing.T) {
	a := generateSingle(t, 9, false)
	b := generateSingle(t, 9, false)
	require.Len(t, b, len(a))
	for i := range a {
		assert.Equal(t, a[i].Code, b[i].Code)
		assert.Equal(t, a[i].RoundNumber, b[i].RoundNumber)
		if a[i].Player1 != nil {
			require.NotNil(t, b[i].Player1)
			assert.Equal(t, a[i].Player1.ParticipantID, b[i].Player1.ParticipantID)
		}
	}
}

func TestSingleEliminationTooFewEntries(t *testing.T) {
	matches := generateSingle(t, 1, false)
	assert.Empty(t, matches)
}
