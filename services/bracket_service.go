package services

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"github.com/padelpoint/tournament-system/brackets"
	"github.com/padelpoint/tournament-system/models"
	"github.com/padelpoint/tournament-system/repositories"
	"github.com/padelpoint/tournament-system/storage"
)

type BracketService interface {
	// GenerateBracket builds and persists the full knockout or double
	// elimination bracket of a division. The division must be published,
	// have no existing matches and no pending participant approvals.
	GenerateBracket(ctx context.Context, divisionID int, cfg MatchConfig) ([]*models.Match, error)
}

type bracketService struct {
	db              *sql.DB
	divisionRepo    repositories.DivisionRepository
	participantRepo repositories.ParticipantRepository
	matchRepo       repositories.MatchRepository
	uploader        storage.FileUploader
	logger          *slog.Logger

	// Non-nil only in tests; production uses a time-seeded source.
	rng *rand.Rand
}

func NewBracketService(
	db *sql.DB,
	divisionRepo repositories.DivisionRepository,
	participantRepo repositories.ParticipantRepository,
	matchRepo repositories.MatchRepository,
	uploader storage.FileUploader,
	logger *slog.Logger,
) BracketService {
	return &bracketService{
		db:              db,
		divisionRepo:    divisionRepo,
		participantRepo: participantRepo,
		matchRepo:       matchRepo,
		uploader:        uploader,
		logger:          logger,
	}
}

func (s *bracketService) GenerateBracket(ctx context.Context, divisionID int, cfg MatchConfig) ([]*models.Match, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	var created []*models.Match
	var division *models.Division

	err := runInTx(ctx, s.db, s.logger, func(tx *sql.Tx) error {
		var err error
		// The row lock serializes concurrent builders on the same division.
		division, err = s.divisionRepo.GetForUpdate(ctx, tx, divisionID)
		if err != nil {
			return err
		}
		if !division.IsPublished {
			return fmt.Errorf("%w: division %d", ErrDivisionNotPublished, divisionID)
		}
		if !division.IsBracketFormat() {
			return fmt.Errorf("%w: format %s needs a group phase builder", ErrUnsupportedFormat, division.Format)
		}

		exists, err := s.matchRepo.ExistsByDivision(ctx, tx, divisionID)
		if err != nil {
			return err
		}
		if exists {
			return fmt.Errorf("%w: division %d", ErrDivisionHasMatches, divisionID)
		}

		pending, err := s.participantRepo.CountByStatus(ctx, tx, divisionID, models.ParticipantPending)
		if err != nil {
			return err
		}
		if pending > 0 {
			return fmt.Errorf("%w: %d approvals outstanding", ErrPendingParticipants, pending)
		}

		approved := models.ParticipantApproved
		participants, err := s.participantRepo.ListByDivision(ctx, divisionID, &approved)
		if err != nil {
			return err
		}
		if len(participants) < 2 {
			return fmt.Errorf("%w: need at least 2, have %d", ErrInsufficientParticipants, len(participants))
		}

		generator, ok := brackets.GeneratorForFormat(division.Format, s.rng)
		if !ok {
			return fmt.Errorf("%w: %s", ErrUnsupportedFormat, division.Format)
		}

		nodes, err := generator.GenerateBracket(ctx, brackets.GenerateBracketParams{
			Division: division,
			Entries:  entriesFromParticipants(participants),
		})
		if err != nil {
			return fmt.Errorf("failed to generate %s bracket for division %d: %w",
				generator.GetName(), divisionID, err)
		}

		created, err = persistBracket(ctx, tx,
			func(ctx context.Context, tx *sql.Tx, m *models.Match) error {
				return s.matchRepo.Create(ctx, tx, m)
			},
			func(ctx context.Context, tx *sql.Tx, matchID, nextMatchID int) error {
				return s.matchRepo.UpdateNextMatch(ctx, tx, matchID, nextMatchID)
			},
			divisionID, matchTypeFor(division), cfg, nodes,
		)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("bracket generated",
		"division_id", divisionID,
		"format", division.Format,
		"matches", len(created))

	// Snapshot failures never fail the request; the bracket is committed.
	s.archiveSnapshot(ctx, divisionID, created)

	return created, nil
}

// archiveSnapshot uploads a JSON copy of the generated bracket to the object
// store for audit and recovery.
func (s *bracketService) archiveSnapshot(ctx context.Context, divisionID int, matches []*models.Match) {
	if s.uploader == nil {
		return
	}
	payload, err := json.Marshal(matches)
	if err != nil {
		s.logger.Error("failed to encode bracket snapshot", "division_id", divisionID, "error", err)
		return
	}
	key := fmt.Sprintf("divisions/%d/bracket-%d.json", divisionID, time.Now().Unix())
	if _, err := s.uploader.Upload(ctx, key, "application/json", bytes.NewReader(payload)); err != nil {
		s.logger.Error("failed to archive bracket snapshot", "division_id", divisionID, "key", key, "error", err)
		return
	}
	s.logger.Info("bracket snapshot archived", "division_id", divisionID, "key", key)
}
