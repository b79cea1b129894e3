package brackets

import (
	"context"
	"fmt"
	"math/rand"
)

// SingleEliminationGenerator builds a minimal knockout bracket with no bye
// matches. When the participant count is not a power of two, the excess
// participants play a preliminary round (round 1) and the winners join the
// first main round through NextCode links.
type SingleEliminationGenerator struct {
	rng     *rand.Rand
	counter int
}

func NewSingleEliminationGenerator(rng *rand.Rand) *SingleEliminationGenerator {
	return &SingleEliminationGenerator{rng: defaultRand(rng)}
}

func (g *SingleEliminationGenerator) GetName() string {
	return "SingleElimination"
}

func (g *SingleEliminationGenerator) GenerateBracket(ctx context.Context, params GenerateBracketParams) ([]*Match, error) {
	entries := params.Entries
	if !params.KeepOrder {
		entries = shuffled(g.rng, entries)
	}
	g.counter = 1
	return g.build(entries)
}

func (g *SingleEliminationGenerator) nextCode() string {
	code := fmt.Sprintf("M%d", g.counter)
	g.counter++
	return code
}

func (g *SingleEliminationGenerator) build(entries []Entry) ([]*Match, error) {
	n := len(entries)
	if n <= 1 {
		return nil, nil
	}

	// Largest power of two that fits; everyone beyond it must be eliminated
	// in the preliminary round.
	bracketSize := 1
	for bracketSize*2 <= n {
		bracketSize *= 2
	}
	excess := n - bracketSize

	all := make([]*Match, 0, n-1)
	idx := 0

	var preliminary []*Match
	if excess > 0 {
		for i := 0; i < excess; i++ {
			e1 := entries[idx]
			e2 := entries[idx+1]
			m := &Match{
				Code:        g.nextCode(),
				RoundNumber: 1,
				Player1:     &e1,
				Player2:     &e2,
			}
			preliminary = append(preliminary, m)
			all = append(all, m)
			idx += 2
		}
	}

	mainStartRound := 1
	if excess > 0 {
		mainStartRound = 2
	}

	// First main round: direct participants fill slots left to right, the
	// remaining slots wait for preliminary winners.
	direct := entries[idx:]
	firstRound := make([]*Match, 0, bracketSize/2)
	di := 0
	for i := 0; i < bracketSize/2; i++ {
		m := &Match{Code: g.nextCode(), RoundNumber: mainStartRound}
		if di < len(direct) {
			e := direct[di]
			m.Player1 = &e
			di++
		}
		if di < len(direct) {
			e := direct[di]
			m.Player2 = &e
			di++
		}
		firstRound = append(firstRound, m)
		all = append(all, m)
	}

	pi := 0
	for _, fm := range firstRound {
		if fm.Player1 == nil && pi < len(preliminary) {
			preliminary[pi].NextCode = codeRef(fm.Code)
			pi++
		}
		if fm.Player2 == nil && pi < len(preliminary) {
			preliminary[pi].NextCode = codeRef(fm.Code)
			pi++
		}
	}
	if pi < len(preliminary) {
		return nil, fmt.Errorf("bracket for %d entries left %d preliminary matches unlinked", n, len(preliminary)-pi)
	}

	// Later rounds pair up the previous round's matches.
	current := firstRound
	round := mainStartRound
	for len(current) > 1 {
		round++
		next := make([]*Match, 0, len(current)/2)
		for i := 0; i < len(current); i += 2 {
			m := &Match{Code: g.nextCode(), RoundNumber: round}
			current[i].NextCode = codeRef(m.Code)
			if i+1 < len(current) {
				current[i+1].NextCode = codeRef(m.Code)
			}
			next = append(next, m)
			all = append(all, m)
		}
		current = next
	}

	return all, nil
}

func codeRef(code string) *string {
	return &code
}
