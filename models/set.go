package models

import "time"

// Set belongs to exactly one match. Winner stays nil until one side reaches
// the match's points-per-set threshold with the higher score.
type Set struct {
	ID           int        `json:"id" db:"id"`
	MatchID      int        `json:"match_id" db:"match_id"`
	SetNumber    int        `json:"set_number" db:"set_number"`
	Player1Score int        `json:"player1_score" db:"player1_score"`
	Player2Score int        `json:"player2_score" db:"player2_score"`
	Winner       *SetWinner `json:"winner,omitempty" db:"winner"`
	CompletedAt  *time.Time `json:"completed_at,omitempty" db:"completed_at"`
}
