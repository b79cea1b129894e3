package brackets

import "fmt"

// BuildRoundRobin generates the n*(n-1)/2 matches of one group, every
// unordered pair once. Group-phase matches carry the negative round sentinel
// (-groupNumber) and never link to a next match.
func BuildRoundRobin(groupNumber int, entries []Entry) []*Match {
	n := len(entries)
	matches := make([]*Match, 0, n*(n-1)/2)
	k := 1
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			e1 := entries[i]
			e2 := entries[j]
			matches = append(matches, &Match{
				Code:        fmt.Sprintf("G%d-M%d", groupNumber, k),
				RoundNumber: -groupNumber,
				Player1:     &e1,
				Player2:     &e2,
			})
			k++
		}
	}
	return matches
}
