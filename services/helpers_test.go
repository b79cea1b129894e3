package services

import (
	"errors"
	"testing"

	"github.com/padelpoint/tournament-system/brackets"
	"github.com/padelpoint/tournament-system/models"
	"github.com/padelpoint/tournament-system/repositories"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMatchConfigValidate(t *testing.T) {
	assert.NoError(t, MatchConfig{MaxSets: 3, PointsPerSet: 15}.Validate())
	assert.NoError(t, MatchConfig{MaxSets: 10, PointsPerSet: 50}.Validate())
	assert.NoError(t, MatchConfig{MaxSets: 3, PointsPerSet: 1}.Validate())

	assert.ErrorIs(t, MatchConfig{MaxSets: 2, PointsPerSet: 15}.Validate(), ErrInvalidMatchConfig)
	assert.ErrorIs(t, MatchConfig{MaxSets: 11, PointsPerSet: 15}.Validate(), ErrInvalidMatchConfig)
	assert.ErrorIs(t, MatchConfig{MaxSets: 3, PointsPerSet: 0}.Validate(), ErrInvalidMatchConfig)
	assert.ErrorIs(t, MatchConfig{MaxSets: 3, PointsPerSet: 51}.Validate(), ErrInvalidMatchConfig)
}

func TestCodeForKnownErrors(t *testing.T) {
	cases := map[error]string{
		repositories.ErrDivisionNotFound: "ERROR_DIVISION_NOT_FOUND",
		repositories.ErrMatchNotFound:    "ERROR_MATCH_NOT_FOUND",
		ErrDivisionNotPublished:          "ERROR_DIVISION_NOT_PUBLISHED",
		ErrDivisionHasMatches:            "ERROR_DIVISION_HAS_EXISTING_MATCHES",
		ErrPendingParticipants:           "ERROR_PENDING_INVOLVEMENTS",
		ErrInsufficientParticipants:      "ERROR_INSUFFICIENT_PLAYERS_FOR_GENERATION",
		ErrMatchAlreadyCompleted:         "ERROR_MATCH_ALREADY_COMPLETED",
		ErrGroupPhaseIncomplete:          "ERROR_GROUP_PHASE_INCOMPLETE",
	}
	for err, want := range cases {
		assert.Equal(t, want, CodeFor(err))
		// Wrapping must not lose the code.
		assert.Equal(t, want, CodeFor(errors.Join(errors.New("context"), err)))
		assert.True(t, IsBusinessError(err))
	}
}

func TestCodeForInternalErrors(t *testing.T) {
	assert.Empty(t, CodeFor(errors.New("disk on fire")))
	assert.Empty(t, CodeFor(ErrBracketStructure))
	assert.False(t, IsBusinessError(errors.New("disk on fire")))
}

func TestToModelMatchCopiesSlots(t *testing.T) {
	partner := 42
	code := "M2"
	node := &brackets.Match{
		Code:        "M1",
		RoundNumber: 1,
		Player1:     &brackets.Entry{ParticipantID: 1, PlayerID: 101, PartnerID: &partner},
		NextCode:    &code,
	}
	cfg := MatchConfig{MaxSets: 5, PointsPerSet: 21}

	m := toModelMatch(7, models.MatchDoubles, cfg, node)

	assert.Equal(t, 7, m.DivisionID)
	assert.Equal(t, "M1", m.Code)
	assert.Equal(t, models.MatchDoubles, m.Type)
	assert.Equal(t, 5, m.MaxSets)
	assert.Equal(t, 21, m.PointsPerSet)
	assert.Equal(t, models.MatchPending, m.Status)
	require.NotNil(t, m.Player1ID)
	assert.Equal(t, 101, *m.Player1ID)
	require.NotNil(t, m.Partner1ID)
	assert.Equal(t, 42, *m.Partner1ID)
	assert.Nil(t, m.Player2ID, "open slots stay open")
	assert.Nil(t, m.NextMatchID, "links resolve in the second persistence pass")
}

func TestEntriesFromParticipants(t *testing.T) {
	partner := 9
	entries := entriesFromParticipants([]*models.Participant{
		{ID: 1, PlayerID: 100},
		{ID: 2, PlayerID: 200, PartnerID: &partner},
	})
	require.Len(t, entries, 2)
	assert.Equal(t, 1, entries[0].ParticipantID)
	assert.Nil(t, entries[0].PartnerID)
	require.NotNil(t, entries[1].PartnerID)
	assert.Equal(t, 9, *entries[1].PartnerID)
}
