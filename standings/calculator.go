// Package standings computes group and global rankings from completed
// round-robin matches. The calculation is a pure reset-and-replay over the
// match list; standings are a derived view, never an incremental ledger.
package standings

import (
	"fmt"
	"sort"

	"github.com/padelpoint/tournament-system/models"
)

const (
	pointsForWin  = 3
	pointsForLoss = 1
)

// RankGroup resets every standing in the group, replays all completed
// matches of that group and assigns 1-based positions. Matches must have
// their sets attached and standings their participants.
func RankGroup(group *models.Group, matches []*models.Match) error {
	byPlayer := make(map[int]*models.Standing, len(group.Standings))
	for _, s := range group.Standings {
		if s.Participant == nil {
			return fmt.Errorf("standing %d in group %d has no participant attached", s.ID, group.GroupNumber)
		}
		s.ResetCounters()
		byPlayer[s.Participant.PlayerID] = s
	}

	groupMatches := matchesOfGroup(group.GroupNumber, matches)
	for _, m := range groupMatches {
		if !m.IsCompleted() {
			continue
		}
		if m.Player1ID == nil || m.Player2ID == nil || m.WinnerID == nil {
			return fmt.Errorf("completed group match %s is missing players or winner", m.Code)
		}
		side1, ok1 := byPlayer[*m.Player1ID]
		side2, ok2 := byPlayer[*m.Player2ID]
		if !ok1 || !ok2 {
			return fmt.Errorf("group match %s references players outside group %d", m.Code, group.GroupNumber)
		}

		side1.MatchesPlayed++
		side2.MatchesPlayed++
		if *m.WinnerID == *m.Player1ID {
			award(side1, side2)
		} else {
			award(side2, side1)
		}

		p1Sets := m.SetsWonBy(models.SetWinnerPlayer1)
		p2Sets := m.SetsWonBy(models.SetWinnerPlayer2)
		side1.SetsWon += p1Sets
		side1.SetsLost += p2Sets
		side2.SetsWon += p2Sets
		side2.SetsLost += p1Sets
	}

	sortStandings(group.Standings)
	applyHeadToHead(group.Standings, groupMatches)

	for i, s := range group.Standings {
		pos := i + 1
		s.PositionInGroup = &pos
	}
	return nil
}

// RankGlobal sorts the concatenation of every group's standings by the same
// tuple and assigns global positions. Ties are not re-checked head-to-head
// across groups.
func RankGlobal(all []*models.Standing) {
	sortStandings(all)
	for i, s := range all {
		pos := i + 1
		s.GlobalPosition = &pos
	}
}

func award(winner, loser *models.Standing) {
	winner.MatchesWon++
	winner.Points += pointsForWin
	loser.MatchesLost++
	loser.Points += pointsForLoss
}

// sortStandings orders by points, then sets difference, then sets won, all
// descending. The sort is stable so ties keep their incoming order.
func sortStandings(list []*models.Standing) {
	sort.SliceStable(list, func(i, j int) bool {
		a, b := list[i], list[j]
		if a.Points != b.Points {
			return a.Points > b.Points
		}
		if a.SetsDifference() != b.SetsDifference() {
			return a.SetsDifference() > b.SetsDifference()
		}
		return a.SetsWon > b.SetsWon
	})
}

func sameRankKey(a, b *models.Standing) bool {
	return a.Points == b.Points &&
		a.SetsDifference() == b.SetsDifference() &&
		a.SetsWon == b.SetsWon
}

// applyHeadToHead reorders exact two-way ties by the direct result between
// the tied participants. Ties among three or more stay in sort order.
func applyHeadToHead(sorted []*models.Standing, matches []*models.Match) {
	i := 0
	for i < len(sorted) {
		j := i + 1
		for j < len(sorted) && sameRankKey(sorted[i], sorted[j]) {
			j++
		}
		if j-i == 2 {
			first, second := sorted[i], sorted[i+1]
			if winner := headToHeadWinner(first, second, matches); winner == second {
				sorted[i], sorted[i+1] = second, first
			}
		}
		i = j
	}
}

func headToHeadWinner(a, b *models.Standing, matches []*models.Match) *models.Standing {
	aID := a.Participant.PlayerID
	bID := b.Participant.PlayerID
	for _, m := range matches {
		if !m.IsCompleted() || m.Player1ID == nil || m.Player2ID == nil || m.WinnerID == nil {
			continue
		}
		direct := (*m.Player1ID == aID && *m.Player2ID == bID) ||
			(*m.Player1ID == bID && *m.Player2ID == aID)
		if !direct {
			continue
		}
		if *m.WinnerID == aID {
			return a
		}
		return b
	}
	return nil
}

func matchesOfGroup(groupNumber int, matches []*models.Match) []*models.Match {
	out := make([]*models.Match, 0, len(matches))
	for _, m := range matches {
		if m.RoundNumber == -groupNumber {
			out = append(out, m)
		}
	}
	return out
}
