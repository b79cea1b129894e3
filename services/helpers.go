package services

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/padelpoint/tournament-system/brackets"
	"github.com/padelpoint/tournament-system/models"
)

// Match configuration bounds. Defaults come from config when a request omits
// the values.
const (
	MinSetsPerMatch = 3
	MaxSetsPerMatch = 10
	MinPointsPerSet = 1
	MaxPointsPerSet = 50
)

// MatchConfig is the per-match scoring configuration applied to every match
// a builder creates.
type MatchConfig struct {
	MaxSets      int `json:"max_sets"`
	PointsPerSet int `json:"points_per_set"`
}

func (c MatchConfig) Validate() error {
	if c.MaxSets < MinSetsPerMatch || c.MaxSets > MaxSetsPerMatch {
		return fmt.Errorf("%w: max_sets must be between %d and %d, got %d",
			ErrInvalidMatchConfig, MinSetsPerMatch, MaxSetsPerMatch, c.MaxSets)
	}
	if c.PointsPerSet < MinPointsPerSet || c.PointsPerSet > MaxPointsPerSet {
		return fmt.Errorf("%w: points_per_set must be between %d and %d, got %d",
			ErrInvalidMatchConfig, MinPointsPerSet, MaxPointsPerSet, c.PointsPerSet)
	}
	return nil
}

// runInTx wraps fn in a transaction with rollback on error or panic.
func runInTx(ctx context.Context, db *sql.DB, logger *slog.Logger, fn func(tx *sql.Tx) error) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	var txErr error
	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
		if txErr != nil {
			if rbErr := tx.Rollback(); rbErr != nil {
				logger.Error("rollback failed", "error", rbErr, "cause", txErr)
			}
		}
	}()

	if txErr = fn(tx); txErr != nil {
		return txErr
	}
	if txErr = tx.Commit(); txErr != nil {
		txErr = fmt.Errorf("failed to commit transaction: %w", txErr)
		return txErr
	}
	return nil
}

// entriesFromParticipants converts approved participants into seeding entries.
func entriesFromParticipants(participants []*models.Participant) []brackets.Entry {
	entries := make([]brackets.Entry, 0, len(participants))
	for _, p := range participants {
		entries = append(entries, brackets.Entry{
			ParticipantID: p.ID,
			PlayerID:      p.PlayerID,
			PartnerID:     p.PartnerID,
		})
	}
	return entries
}

// matchTypeFor maps the division's participant type to the match type.
func matchTypeFor(d *models.Division) models.MatchType {
	if d.ParticipantType == models.ParticipantDoubles {
		return models.MatchDoubles
	}
	return models.MatchSingles
}

// toModelMatch converts a generated bracket node into a persistable match.
// NextMatchID stays nil; the caller links it in a second pass once every
// node has a database id.
func toModelMatch(divisionID int, matchType models.MatchType, cfg MatchConfig, node *brackets.Match) *models.Match {
	m := &models.Match{
		DivisionID:      divisionID,
		Code:            node.Code,
		Type:            matchType,
		MaxSets:         cfg.MaxSets,
		PointsPerSet:    cfg.PointsPerSet,
		RoundNumber:     node.RoundNumber,
		IsLosersBracket: node.IsLosersBracket,
		Status:          models.MatchPending,
	}
	if node.Player1 != nil {
		id := node.Player1.PlayerID
		m.Player1ID = &id
		if node.Player1.PartnerID != nil {
			partner := *node.Player1.PartnerID
			m.Partner1ID = &partner
		}
	}
	if node.Player2 != nil {
		id := node.Player2.PlayerID
		m.Player2ID = &id
		if node.Player2.PartnerID != nil {
			partner := *node.Player2.PartnerID
			m.Partner2ID = &partner
		}
	}
	return m
}

// persistBracket inserts the generated matches and resolves next-match codes
// to database ids in a second pass. Insertion order follows the generated
// order so codes resolve deterministically.
func persistBracket(
	ctx context.Context,
	tx *sql.Tx,
	create func(ctx context.Context, tx *sql.Tx, m *models.Match) error,
	link func(ctx context.Context, tx *sql.Tx, matchID, nextMatchID int) error,
	divisionID int,
	matchType models.MatchType,
	cfg MatchConfig,
	nodes []*brackets.Match,
) ([]*models.Match, error) {
	created := make([]*models.Match, 0, len(nodes))
	idByCode := make(map[string]int, len(nodes))

	for _, node := range nodes {
		m := toModelMatch(divisionID, matchType, cfg, node)
		if err := create(ctx, tx, m); err != nil {
			return nil, err
		}
		idByCode[node.Code] = m.ID
		created = append(created, m)
	}

	for i, node := range nodes {
		if node.NextCode == nil {
			continue
		}
		nextID, ok := idByCode[*node.NextCode]
		if !ok {
			return nil, fmt.Errorf("%w: match %s advances to unknown code %s",
				ErrBracketStructure, node.Code, *node.NextCode)
		}
		if err := link(ctx, tx, created[i].ID, nextID); err != nil {
			return nil, err
		}
		created[i].NextMatchID = &nextID
	}

	return created, nil
}
