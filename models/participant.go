package models

import "time"

type ParticipantStatus string

const (
	ParticipantPending  ParticipantStatus = "pending"
	ParticipantApproved ParticipantStatus = "approved"
	ParticipantRejected ParticipantStatus = "rejected"
)

// Participant is an approved entrant in a division. For doubles it is the
// pair (player, partner); for singles PartnerID is nil. The core treats the
// player ids as opaque identities minted by the registration workflow.
type Participant struct {
	ID         int               `json:"id" db:"id"`
	DivisionID int               `json:"division_id" db:"division_id"`
	PlayerID   int               `json:"player_id" db:"player_id"`
	PartnerID  *int              `json:"partner_id,omitempty" db:"partner_id"`
	Status     ParticipantStatus `json:"status" db:"status"`
	CreatedAt  time.Time         `json:"created_at" db:"created_at"`
}
