package brackets

import (
	"context"
	"math/rand"
	"time"

	"github.com/padelpoint/tournament-system/models"
)

// Entry is a seeded participant: the primary player plus the partner for
// doubles divisions.
type Entry struct {
	ParticipantID int
	PlayerID      int
	PartnerID     *int
}

// Match is a generated bracket node. Codes are unique within one generator
// invocation; NextMatchCode names the match the winner advances to and is
// resolved to a database id when the batch is persisted.
type Match struct {
	Code            string
	RoundNumber     int
	IsLosersBracket bool

	Player1  *Entry
	Player2  *Entry
	NextCode *string
}

type GenerateBracketParams struct {
	Division *models.Division
	Entries  []Entry

	// KeepOrder suppresses the random seeding shuffle so that a caller can
	// seed the draw itself, e.g. from group-phase standings.
	KeepOrder bool
}

// BracketGenerator builds the full match graph for one division. Generators
// keep their code counters as instance state and reset them per invocation,
// so a generator value must not be shared between concurrent calls.
type BracketGenerator interface {
	GenerateBracket(ctx context.Context, params GenerateBracketParams) ([]*Match, error)

	GetName() string
}

// GeneratorForFormat selects the strategy for a division format. rng may be
// nil, in which case a time-seeded source is used.
func GeneratorForFormat(format models.TournamentFormat, rng *rand.Rand) (BracketGenerator, bool) {
	switch format {
	case models.FormatKnockout:
		return NewSingleEliminationGenerator(rng), true
	case models.FormatDoubleSlash:
		return NewDoubleEliminationGenerator(rng), true
	default:
		return nil, false
	}
}

func defaultRand(rng *rand.Rand) *rand.Rand {
	if rng != nil {
		return rng
	}
	return rand.New(rand.NewSource(time.Now().UnixNano()))
}

func shuffled(rng *rand.Rand, entries []Entry) []Entry {
	out := make([]Entry, len(entries))
	copy(out, entries)
	rng.Shuffle(len(out), func(i, j int) {
		out[i], out[j] = out[j], out[i]
	})
	return out
}
