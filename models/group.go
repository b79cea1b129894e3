package models

import "fmt"

const (
	MinGroupSize = 3
	MaxGroupSize = 5
)

// Group is a round-robin pool inside a division. Group numbers are 1-based
// and double as the round sentinel of the group's matches (-GroupNumber).
type Group struct {
	ID          int    `json:"id" db:"id"`
	DivisionID  int    `json:"division_id" db:"division_id"`
	GroupNumber int    `json:"group_number" db:"group_number"`
	Name        string `json:"name" db:"name"`

	// Populated by the service layer, not stored on the groups table.
	Standings []*Standing `json:"standings,omitempty" db:"-"`
}

// GroupName returns the display name for a 1-based group number
// ("Group A", "Group B", ...).
func GroupName(number int) string {
	if number >= 1 && number <= 26 {
		return fmt.Sprintf("Group %c", 'A'+number-1)
	}
	return fmt.Sprintf("Group %d", number)
}
