package models

import "time"

// Standing is one participant's record inside a group. Counters are a
// derived view: the calculator resets them and replays every completed
// group match, it never increments them in place.
type Standing struct {
	ID            int `json:"id" db:"id"`
	GroupID       int `json:"group_id" db:"group_id"`
	ParticipantID int `json:"participant_id" db:"participant_id"`

	MatchesPlayed int `json:"matches_played" db:"matches_played"`
	MatchesWon    int `json:"matches_won" db:"matches_won"`
	MatchesLost   int `json:"matches_lost" db:"matches_lost"`
	SetsWon       int `json:"sets_won" db:"sets_won"`
	SetsLost      int `json:"sets_lost" db:"sets_lost"`
	Points        int `json:"points" db:"points"`

	PositionInGroup *int `json:"position_in_group,omitempty" db:"position_in_group"`
	GlobalPosition  *int `json:"global_position,omitempty" db:"global_position"`

	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`

	// Populated by the service layer, not stored on the standings table.
	Participant *Participant `json:"participant,omitempty" db:"-"`
}

func (s *Standing) SetsDifference() int {
	return s.SetsWon - s.SetsLost
}

// ResetCounters zeroes everything the calculator replays.
func (s *Standing) ResetCounters() {
	s.MatchesPlayed = 0
	s.MatchesWon = 0
	s.MatchesLost = 0
	s.SetsWon = 0
	s.SetsLost = 0
	s.Points = 0
	s.PositionInGroup = nil
	s.GlobalPosition = nil
}
