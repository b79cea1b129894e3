package services

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"sort"

	"github.com/padelpoint/tournament-system/models"
	"github.com/padelpoint/tournament-system/repositories"
	"github.com/padelpoint/tournament-system/scheduling"
)

type ScheduleService interface {
	// ScheduleMatches books every unscheduled pending match of the division
	// into the court and time grid. Matches that fit nowhere are returned in
	// Unscheduled; the rest get their time and court persisted.
	ScheduleMatches(ctx context.Context, divisionID int, params scheduling.Params) (*scheduling.Result, error)
}

type scheduleService struct {
	db           *sql.DB
	divisionRepo repositories.DivisionRepository
	matchRepo    repositories.MatchRepository
	logger       *slog.Logger
}

func NewScheduleService(
	db *sql.DB,
	divisionRepo repositories.DivisionRepository,
	matchRepo repositories.MatchRepository,
	logger *slog.Logger,
) ScheduleService {
	return &scheduleService{
		db:           db,
		divisionRepo: divisionRepo,
		matchRepo:    matchRepo,
		logger:       logger,
	}
}

func (s *scheduleService) ScheduleMatches(ctx context.Context, divisionID int, params scheduling.Params) (*scheduling.Result, error) {
	if err := params.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidScheduleParams, err)
	}

	var result *scheduling.Result

	err := runInTx(ctx, s.db, s.logger, func(tx *sql.Tx) error {
		if _, err := s.divisionRepo.GetForUpdate(ctx, tx, divisionID); err != nil {
			return err
		}

		pending := models.MatchPending
		matches, err := s.matchRepo.ListByDivision(ctx, tx, divisionID, repositories.MatchListFilter{
			Status:          &pending,
			UnscheduledOnly: true,
		})
		if err != nil {
			return err
		}

		// Players with the most matches are the hardest to place under the
		// daily cap, so their matches go through the grid first.
		sortByPlayerLoad(matches)

		result, err = scheduling.Schedule(matches, params)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidScheduleParams, err)
		}

		for _, m := range result.Scheduled {
			if err := s.matchRepo.UpdateSchedule(ctx, tx, m); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("matches scheduled",
		"division_id", divisionID,
		"scheduled", len(result.Scheduled),
		"unscheduled", len(result.Unscheduled))
	return result, nil
}

func sortByPlayerLoad(matches []*models.Match) {
	load := make(map[int]int)
	for _, m := range matches {
		for _, id := range m.PlayerIDs() {
			load[id]++
		}
	}
	weight := func(m *models.Match) int {
		max := 0
		for _, id := range m.PlayerIDs() {
			if load[id] > max {
				max = load[id]
			}
		}
		return max
	}
	sort.SliceStable(matches, func(i, j int) bool {
		return weight(matches[i]) > weight(matches[j])
	})
}
