package brackets

import (
	"context"
	"fmt"
	"math/rand"

	"github.com/padelpoint/tournament-system/models"
)

// GrandFinalCode is the fixed code of the match joining both bracket finals.
const GrandFinalCode = "GF1"

// DoubleEliminationGenerator builds a winners bracket (reusing the single
// elimination layout), a losers bracket fed by winners-bracket losers, and a
// grand final joining both finals.
//
// The losers bracket follows the shape of the winners bracket: its round 1
// pairs up the losers of winners round 1, and every later winners round w
// gets a losers round w with one match per surviving losers-round-(w-1)
// match. Uneven bracket sizes can leave more than one match in the last
// losers round; a consolidation match is appended to join them. That step is
// a heuristic, not a verified general construction.
type DoubleEliminationGenerator struct {
	rng          *rand.Rand
	loserCounter int
}

func NewDoubleEliminationGenerator(rng *rand.Rand) *DoubleEliminationGenerator {
	return &DoubleEliminationGenerator{rng: defaultRand(rng)}
}

func (g *DoubleEliminationGenerator) GetName() string {
	return "DoubleElimination"
}

func (g *DoubleEliminationGenerator) GenerateBracket(ctx context.Context, params GenerateBracketParams) ([]*Match, error) {
	entries := params.Entries
	if !params.KeepOrder {
		entries = shuffled(g.rng, entries)
	}
	if len(entries) <= 1 {
		return nil, nil
	}

	winnersGen := NewSingleEliminationGenerator(g.rng)
	winnersGen.counter = 1
	winners, err := winnersGen.build(entries)
	if err != nil {
		return nil, fmt.Errorf("winners bracket: %w", err)
	}

	all := make([]*Match, 0, 2*len(winners)+2)
	all = append(all, winners...)

	losers := g.buildLosersBracket(winners)
	all = append(all, losers...)

	all = append(all, g.createGrandFinal(winners, losers))

	return all, nil
}

func (g *DoubleEliminationGenerator) nextLoserCode() string {
	code := fmt.Sprintf("LM%d", g.loserCounter)
	g.loserCounter++
	return code
}

func (g *DoubleEliminationGenerator) buildLosersBracket(winners []*Match) []*Match {
	g.loserCounter = 1

	maxWinnersRound := 0
	for _, m := range winners {
		if m.RoundNumber > maxWinnersRound {
			maxWinnersRound = m.RoundNumber
		}
	}

	// Only winners-round-1 matches with two real participants drop a loser.
	var feeders []*Match
	for _, m := range winners {
		if m.RoundNumber == 1 && m.Player2 != nil {
			feeders = append(feeders, m)
		}
	}

	losers := make([]*Match, 0)
	var previousRound []*Match
	for i := 0; i < len(feeders); i += 2 {
		m := &Match{
			Code:            g.nextLoserCode(),
			RoundNumber:     1,
			IsLosersBracket: true,
		}
		previousRound = append(previousRound, m)
		losers = append(losers, m)
	}

	// Each later losers round takes the winner of the previous losers match
	// plus the loser dropping from the corresponding winners round.
	for w := 2; w <= maxWinnersRound; w++ {
		currentRound := make([]*Match, 0, len(previousRound))
		for _, prev := range previousRound {
			m := &Match{
				Code:            g.nextLoserCode(),
				RoundNumber:     w,
				IsLosersBracket: true,
			}
			prev.NextCode = codeRef(m.Code)
			currentRound = append(currentRound, m)
			losers = append(losers, m)
		}
		if len(currentRound) > 0 {
			previousRound = currentRound
		}
	}

	// Uneven brackets can leave several unresolved threads in the last
	// round; join them with a consolidation match.
	if len(previousRound) > 1 {
		finalRound := previousRound[0].RoundNumber
		consolidation := &Match{
			Code:            g.nextLoserCode(),
			RoundNumber:     finalRound + 1,
			IsLosersBracket: true,
		}
		for _, m := range previousRound {
			m.NextCode = codeRef(consolidation.Code)
		}
		losers = append(losers, consolidation)
	}

	return losers
}

func (g *DoubleEliminationGenerator) createGrandFinal(winners, losers []*Match) *Match {
	grandFinal := &Match{
		Code:        GrandFinalCode,
		RoundNumber: models.GrandFinalRound,
	}

	if wf := lastRoundMatch(winners); wf != nil {
		wf.NextCode = codeRef(grandFinal.Code)
	}
	if lf := lastRoundMatch(losers); lf != nil {
		lf.NextCode = codeRef(grandFinal.Code)
	}

	return grandFinal
}

// lastRoundMatch picks the final of a bracket half: the match in the highest
// round that has no onward link yet.
func lastRoundMatch(matches []*Match) *Match {
	maxRound := 0
	for _, m := range matches {
		if m.RoundNumber > maxRound {
			maxRound = m.RoundNumber
		}
	}
	var fallback *Match
	for _, m := range matches {
		if m.RoundNumber != maxRound {
			continue
		}
		if m.NextCode == nil {
			return m
		}
		if fallback == nil {
			fallback = m
		}
	}
	return fallback
}
