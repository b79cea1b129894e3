package models

import "time"

type MatchStatus string

const (
	MatchPending    MatchStatus = "pending"
	MatchInProgress MatchStatus = "in_progress"
	MatchCompleted  MatchStatus = "completed"
	MatchCancelled  MatchStatus = "cancelled"
)

type MatchType string

const (
	MatchSingles MatchType = "singles"
	MatchDoubles MatchType = "doubles"
)

type SetWinner string

const (
	SetWinnerPlayer1 SetWinner = "player1"
	SetWinnerPlayer2 SetWinner = "player2"
)

// GrandFinalRound is the sentinel round number of the grand final in a
// double elimination bracket. Group phase matches use negative round
// numbers (-groupNumber); regular bracket rounds are positive.
const GrandFinalRound = 999

// Match is a node of the competition graph. Slots are nullable: nil means
// "not yet determined" until an earlier match completes and the resolver
// fills the slot. NextMatchID points at the match the winner advances to.
type Match struct {
	ID         int       `json:"id" db:"id"`
	DivisionID int       `json:"division_id" db:"division_id"`
	Code       string    `json:"code" db:"code"`
	Type       MatchType `json:"type" db:"type"`

	Player1ID  *int `json:"player1_id,omitempty" db:"player1_id"`
	Player2ID  *int `json:"player2_id,omitempty" db:"player2_id"`
	Partner1ID *int `json:"partner1_id,omitempty" db:"partner1_id"`
	Partner2ID *int `json:"partner2_id,omitempty" db:"partner2_id"`

	MaxSets      int `json:"max_sets" db:"max_sets"`
	PointsPerSet int `json:"points_per_set" db:"points_per_set"`

	RoundNumber     int  `json:"round_number" db:"round_number"`
	IsLosersBracket bool `json:"is_losers_bracket" db:"is_losers_bracket"`
	NextMatchID     *int `json:"next_match_id,omitempty" db:"next_match_id"`

	Status          MatchStatus `json:"status" db:"status"`
	WinnerID        *int        `json:"winner_id,omitempty" db:"winner_id"`
	WinnerPartnerID *int        `json:"winner_partner_id,omitempty" db:"winner_partner_id"`

	ScheduledAt *time.Time `json:"scheduled_at,omitempty" db:"scheduled_at"`
	Location    *string    `json:"location,omitempty" db:"location"`
	StartedAt   *time.Time `json:"started_at,omitempty" db:"started_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty" db:"completed_at"`
	CreatedAt   time.Time  `json:"created_at" db:"created_at"`

	// Populated by the service layer, not stored on the matches table.
	Sets []*Set `json:"sets,omitempty" db:"-"`
}

// SetsToWin is the number of set wins that completes the match.
func (m *Match) SetsToWin() int {
	return m.MaxSets/2 + 1
}

// SetsWonBy counts completed sets won by the given side.
func (m *Match) SetsWonBy(side SetWinner) int {
	count := 0
	for _, s := range m.Sets {
		if s.Winner != nil && *s.Winner == side {
			count++
		}
	}
	return count
}

func (m *Match) IsCompleted() bool {
	return m.Status == MatchCompleted
}

// HasBothSides reports whether both player slots are occupied. A round-one
// bracket match with a nil second slot is a bye.
func (m *Match) HasBothSides() bool {
	return m.Player1ID != nil && m.Player2ID != nil
}

// IsGroupPhase reports whether the match belongs to a round-robin group.
func (m *Match) IsGroupPhase() bool {
	return m.RoundNumber < 0
}

// GroupNumber returns the owning group for group-phase matches, 0 otherwise.
func (m *Match) GroupNumber() int {
	if m.RoundNumber < 0 {
		return -m.RoundNumber
	}
	return 0
}

// Involves reports whether the given player id occupies any slot.
func (m *Match) Involves(playerID int) bool {
	for _, id := range []*int{m.Player1ID, m.Player2ID, m.Partner1ID, m.Partner2ID} {
		if id != nil && *id == playerID {
			return true
		}
	}
	return false
}

// PlayerIDs returns the ids occupying slots, in slot order.
func (m *Match) PlayerIDs() []int {
	ids := make([]int, 0, 4)
	for _, id := range []*int{m.Player1ID, m.Player2ID, m.Partner1ID, m.Partner2ID} {
		if id != nil {
			ids = append(ids, *id)
		}
	}
	return ids
}
