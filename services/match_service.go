package services

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/padelpoint/tournament-system/models"
	"github.com/padelpoint/tournament-system/repositories"
	"github.com/padelpoint/tournament-system/scoring"
)

type MatchService interface {
	// RecordScores stores or corrects the submitted sets of a match,
	// recomputes the outcome and, when the match completes, advances the
	// winner into the next bracket match. Completed and cancelled matches
	// reject further submissions.
	RecordScores(ctx context.Context, matchID int, scores []scoring.SetScore) (*models.Match, error)

	// GetMatch returns the match with its sets attached.
	GetMatch(ctx context.Context, matchID int) (*models.Match, error)
}

type matchService struct {
	db          *sql.DB
	matchRepo   repositories.MatchRepository
	setRepo     repositories.SetRepository
	standingSvc StandingService
	logger      *slog.Logger
}

func NewMatchService(
	db *sql.DB,
	matchRepo repositories.MatchRepository,
	setRepo repositories.SetRepository,
	standingSvc StandingService,
	logger *slog.Logger,
) MatchService {
	return &matchService{
		db:          db,
		matchRepo:   matchRepo,
		setRepo:     setRepo,
		standingSvc: standingSvc,
		logger:      logger,
	}
}

func (s *matchService) RecordScores(ctx context.Context, matchID int, scores []scoring.SetScore) (*models.Match, error) {
	if len(scores) == 0 {
		return nil, fmt.Errorf("%w: no sets submitted", ErrInvalidMatchConfig)
	}

	var match *models.Match

	err := runInTx(ctx, s.db, s.logger, func(tx *sql.Tx) error {
		var err error
		match, err = s.matchRepo.GetForUpdate(ctx, tx, matchID)
		if err != nil {
			return err
		}
		if match.Status == models.MatchCompleted {
			return fmt.Errorf("%w: match %s", ErrMatchAlreadyCompleted, match.Code)
		}
		if match.Status == models.MatchCancelled {
			return fmt.Errorf("%w: match %s", ErrMatchCancelled, match.Code)
		}
		if !match.HasBothSides() {
			return fmt.Errorf("%w: match %s is still waiting for an opponent", ErrMatchMissingPlayers, match.Code)
		}

		for _, sc := range scores {
			if err := sc.Validate(match.MaxSets); err != nil {
				return err
			}
		}

		now := time.Now()
		for _, sc := range scores {
			set := &models.Set{
				MatchID:      matchID,
				SetNumber:    sc.SetNumber,
				Player1Score: sc.Player1Score,
				Player2Score: sc.Player2Score,
				Winner:       scoring.ResolveSetWinner(sc.Player1Score, sc.Player2Score, match.PointsPerSet),
			}
			if set.Winner != nil {
				set.CompletedAt = &now
			}
			if err := s.setRepo.Upsert(ctx, tx, set); err != nil {
				return err
			}
		}

		// Corrections may overlap previously stored sets, so the outcome is
		// recomputed from the full stored list, not the submission.
		match.Sets, err = s.setRepo.ListByMatch(ctx, tx, matchID)
		if err != nil {
			return err
		}

		if match.Status == models.MatchPending {
			match.Status = models.MatchInProgress
			match.StartedAt = &now
		}

		if outcome := scoring.Outcome(match); outcome != nil {
			scoring.Complete(match, *outcome, now)
			if match.NextMatchID != nil {
				if err := s.advanceWinner(ctx, tx, match); err != nil {
					return err
				}
			}
		}

		return s.matchRepo.UpdateResult(ctx, tx, match)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("scores recorded",
		"match_id", matchID,
		"code", match.Code,
		"status", match.Status)

	// Group standings refresh after the commit; a failure here leaves stale
	// positions but never loses the recorded result.
	if match.IsCompleted() && match.IsGroupPhase() {
		if _, err := s.standingSvc.CalculateStandings(ctx, match.DivisionID); err != nil {
			s.logger.Error("failed to refresh standings after result",
				"division_id", match.DivisionID, "match_id", matchID, "error", err)
		}
	}

	return match, nil
}

// advanceWinner places the completed match's winner into the first open slot
// of the next match. The next match row is locked so two feeders finishing
// at once cannot claim the same slot.
func (s *matchService) advanceWinner(ctx context.Context, tx *sql.Tx, completed *models.Match) error {
	next, err := s.matchRepo.GetForUpdate(ctx, tx, *completed.NextMatchID)
	if err != nil {
		return fmt.Errorf("failed to load next match %d of %s: %w", *completed.NextMatchID, completed.Code, err)
	}
	if !scoring.PropagateWinner(completed, next) {
		return fmt.Errorf("%w: match %s has no open slot for the winner of %s",
			ErrBracketStructure, next.Code, completed.Code)
	}
	return s.matchRepo.UpdateSlots(ctx, tx, next)
}

func (s *matchService) GetMatch(ctx context.Context, matchID int) (*models.Match, error) {
	match, err := s.matchRepo.GetByID(ctx, matchID)
	if err != nil {
		return nil, err
	}
	match.Sets, err = s.setRepo.ListByMatch(ctx, nil, matchID)
	if err != nil {
		return nil, err
	}
	return match, nil
}
