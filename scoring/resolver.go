// Package scoring resolves set winners and match outcomes from recorded
// scores, and propagates match winners into the next bracket match.
package scoring

import (
	"errors"
	"fmt"
	"time"

	"github.com/padelpoint/tournament-system/models"
)

var (
	ErrNegativeScore       = errors.New("scores cannot be negative")
	ErrSetNumberOutOfRange = errors.New("set number outside the match's set range")
)

// SetScore is one submitted set result.
type SetScore struct {
	SetNumber    int `json:"set_number"`
	Player1Score int `json:"player1_score"`
	Player2Score int `json:"player2_score"`
}

// Validate checks a submitted set against the match configuration.
func (s SetScore) Validate(maxSets int) error {
	if s.SetNumber < 1 || s.SetNumber > maxSets {
		return fmt.Errorf("%w: set %d, match plays up to %d sets", ErrSetNumberOutOfRange, s.SetNumber, maxSets)
	}
	if s.Player1Score < 0 || s.Player2Score < 0 {
		return fmt.Errorf("%w: set %d", ErrNegativeScore, s.SetNumber)
	}
	return nil
}

// ResolveSetWinner determines the winner of a set, or nil if the set has no
// winner yet. Winning requires reaching pointsPerSet and holding strictly
// more points than the opponent; reaching the threshold alone is not enough.
func ResolveSetWinner(p1Score, p2Score, pointsPerSet int) *models.SetWinner {
	if p1Score > p2Score && p1Score >= pointsPerSet {
		w := models.SetWinnerPlayer1
		return &w
	}
	if p2Score > p1Score && p2Score >= pointsPerSet {
		w := models.SetWinnerPlayer2
		return &w
	}
	return nil
}

// Outcome reports the side that has won enough sets to take the match, or
// nil if the match is still open. The decision is recomputed from the
// match's sets every time, never carried forward.
func Outcome(m *models.Match) *models.SetWinner {
	toWin := m.SetsToWin()
	if m.SetsWonBy(models.SetWinnerPlayer1) >= toWin {
		w := models.SetWinnerPlayer1
		return &w
	}
	if m.SetsWonBy(models.SetWinnerPlayer2) >= toWin {
		w := models.SetWinnerPlayer2
		return &w
	}
	return nil
}

// Complete marks the match won by the given side and stamps completion.
func Complete(m *models.Match, side models.SetWinner, now time.Time) {
	if side == models.SetWinnerPlayer1 {
		m.WinnerID = m.Player1ID
		m.WinnerPartnerID = m.Partner1ID
	} else {
		m.WinnerID = m.Player2ID
		m.WinnerPartnerID = m.Partner2ID
	}
	m.Status = models.MatchCompleted
	m.CompletedAt = &now
}

// PropagateWinner fills the first empty player slot of the next match with
// the completed match's winner. An already-filled slot is never overwritten.
// Returns false when both slots were taken.
func PropagateWinner(completed, next *models.Match) bool {
	if completed.WinnerID == nil {
		return false
	}
	switch {
	case next.Player1ID == nil:
		next.Player1ID = completed.WinnerID
		if completed.Type == models.MatchDoubles && completed.WinnerPartnerID != nil {
			next.Partner1ID = completed.WinnerPartnerID
		}
		return true
	case next.Player2ID == nil:
		next.Player2ID = completed.WinnerID
		if completed.Type == models.MatchDoubles && completed.WinnerPartnerID != nil {
			next.Partner2ID = completed.WinnerPartnerID
		}
		return true
	default:
		return false
	}
}
