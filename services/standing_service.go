package services

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/padelpoint/tournament-system/models"
	"github.com/padelpoint/tournament-system/repositories"
	"github.com/padelpoint/tournament-system/standings"
)

type StandingService interface {
	// CalculateStandings replays every completed group match of the division
	// and persists the refreshed counters and positions. The operation is
	// idempotent; running it twice in a row changes nothing.
	CalculateStandings(ctx context.Context, divisionID int) ([]*models.Group, error)

	// GetStandings returns the stored standings grouped and ordered, without
	// recalculating.
	GetStandings(ctx context.Context, divisionID int) ([]*models.Group, error)
}

type standingService struct {
	db           *sql.DB
	divisionRepo repositories.DivisionRepository
	groupRepo    repositories.GroupRepository
	standingRepo repositories.StandingRepository
	matchRepo    repositories.MatchRepository
	setRepo      repositories.SetRepository
	logger       *slog.Logger
}

func NewStandingService(
	db *sql.DB,
	divisionRepo repositories.DivisionRepository,
	groupRepo repositories.GroupRepository,
	standingRepo repositories.StandingRepository,
	matchRepo repositories.MatchRepository,
	setRepo repositories.SetRepository,
	logger *slog.Logger,
) StandingService {
	return &standingService{
		db:           db,
		divisionRepo: divisionRepo,
		groupRepo:    groupRepo,
		standingRepo: standingRepo,
		matchRepo:    matchRepo,
		setRepo:      setRepo,
		logger:       logger,
	}
}

func (s *standingService) CalculateStandings(ctx context.Context, divisionID int) ([]*models.Group, error) {
	var groups []*models.Group

	err := runInTx(ctx, s.db, s.logger, func(tx *sql.Tx) error {
		division, err := s.divisionRepo.GetForUpdate(ctx, tx, divisionID)
		if err != nil {
			return err
		}
		if !division.HasGroupPhase() {
			return fmt.Errorf("%w: division %d has format %s", ErrNoGroupPhase, divisionID, division.Format)
		}

		groups, _, err = recalculateStandings(ctx, tx,
			s.groupRepo, s.standingRepo, s.matchRepo, s.setRepo, divisionID)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("standings recalculated", "division_id", divisionID, "groups", len(groups))
	return groups, nil
}

func (s *standingService) GetStandings(ctx context.Context, divisionID int) ([]*models.Group, error) {
	if _, err := s.divisionRepo.GetByID(ctx, divisionID); err != nil {
		return nil, err
	}
	groups, err := s.groupRepo.ListByDivision(ctx, nil, divisionID)
	if err != nil {
		return nil, err
	}
	if len(groups) == 0 {
		return nil, fmt.Errorf("%w: division %d", ErrNoGroupPhase, divisionID)
	}
	all, err := s.standingRepo.ListByDivision(ctx, nil, divisionID)
	if err != nil {
		return nil, err
	}
	attachStandings(groups, all)
	return groups, nil
}

// recalculateStandings is the shared reset-and-replay core used by the
// standings endpoint, the post-score refresh and the knockout seeding. The
// caller holds the division row lock. The returned slice of all standings is
// ordered by global position.
func recalculateStandings(
	ctx context.Context,
	tx *sql.Tx,
	groupRepo repositories.GroupRepository,
	standingRepo repositories.StandingRepository,
	matchRepo repositories.MatchRepository,
	setRepo repositories.SetRepository,
	divisionID int,
) ([]*models.Group, []*models.Standing, error) {
	groups, err := groupRepo.ListByDivision(ctx, tx, divisionID)
	if err != nil {
		return nil, nil, err
	}
	if len(groups) == 0 {
		return nil, nil, fmt.Errorf("%w: division %d", ErrNoGroupPhase, divisionID)
	}

	all, err := standingRepo.ListByDivision(ctx, tx, divisionID)
	if err != nil {
		return nil, nil, err
	}
	attachStandings(groups, all)

	matches, err := matchRepo.ListByDivision(ctx, tx, divisionID, repositories.MatchListFilter{GroupPhaseOnly: true})
	if err != nil {
		return nil, nil, err
	}
	if err := attachSets(ctx, tx, setRepo, matches); err != nil {
		return nil, nil, err
	}

	for _, g := range groups {
		if err := standings.RankGroup(g, matches); err != nil {
			return nil, nil, fmt.Errorf("failed to rank group %d of division %d: %w", g.GroupNumber, divisionID, err)
		}
	}
	standings.RankGlobal(all)

	for _, st := range all {
		if err := standingRepo.Update(ctx, tx, st); err != nil {
			return nil, nil, err
		}
	}
	return groups, all, nil
}

func attachStandings(groups []*models.Group, all []*models.Standing) {
	byGroup := make(map[int][]*models.Standing, len(groups))
	for _, st := range all {
		byGroup[st.GroupID] = append(byGroup[st.GroupID], st)
	}
	for _, g := range groups {
		g.Standings = byGroup[g.ID]
	}
}

func attachSets(ctx context.Context, tx *sql.Tx, setRepo repositories.SetRepository, matches []*models.Match) error {
	ids := make([]int, 0, len(matches))
	for _, m := range matches {
		ids = append(ids, m.ID)
	}
	setsByMatch, err := setRepo.ListByMatchIDs(ctx, tx, ids)
	if err != nil {
		return err
	}
	for _, m := range matches {
		m.Sets = setsByMatch[m.ID]
	}
	return nil
}
