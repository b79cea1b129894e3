package models

import "time"

type TournamentFormat string

const (
	FormatKnockout           TournamentFormat = "knockout"
	FormatDoubleSlash        TournamentFormat = "double_slash"
	FormatRoundRobin         TournamentFormat = "round_robin"
	FormatRoundRobinKnockout TournamentFormat = "round_robin_knockout"
)

type ParticipantType string

const (
	ParticipantSingle  ParticipantType = "single"
	ParticipantDoubles ParticipantType = "doubles"
)

// Division is one event inside a tournament. Registration, approval and
// publication happen outside the core; the core only reads the flags.
type Division struct {
	ID              int              `json:"id" db:"id"`
	TournamentID    int              `json:"tournament_id" db:"tournament_id"`
	Name            string           `json:"name" db:"name"`
	Format          TournamentFormat `json:"format" db:"format"`
	ParticipantType ParticipantType  `json:"participant_type" db:"participant_type"`
	IsPublished     bool             `json:"is_published" db:"is_published"`
	PublishedAt     *time.Time       `json:"published_at,omitempty" db:"published_at"`
	CreatedAt       time.Time        `json:"created_at" db:"created_at"`
}

func (d *Division) IsBracketFormat() bool {
	return d.Format == FormatKnockout || d.Format == FormatDoubleSlash
}

func (d *Division) HasGroupPhase() bool {
	return d.Format == FormatRoundRobin || d.Format == FormatRoundRobinKnockout
}
