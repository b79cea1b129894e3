package services

import (
	"context"
	"database/sql"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/padelpoint/tournament-system/models"
	"github.com/padelpoint/tournament-system/repositories"
)

// DivisionOverview is the full public view of a division: every match with
// its sets, and for group formats the groups with their standings.
type DivisionOverview struct {
	Division *models.Division `json:"division"`
	Matches  []*models.Match  `json:"matches"`
	Groups   []*models.Group  `json:"groups,omitempty"`
}

type OverviewService interface {
	GetDivisionOverview(ctx context.Context, divisionID int) (*DivisionOverview, error)

	// ListMatches returns the division's matches with sets attached,
	// optionally filtered.
	ListMatches(ctx context.Context, divisionID int, filter repositories.MatchListFilter) ([]*models.Match, error)
}

type overviewService struct {
	db           *sql.DB
	divisionRepo repositories.DivisionRepository
	groupRepo    repositories.GroupRepository
	standingRepo repositories.StandingRepository
	matchRepo    repositories.MatchRepository
	setRepo      repositories.SetRepository
	logger       *slog.Logger
}

func NewOverviewService(
	db *sql.DB,
	divisionRepo repositories.DivisionRepository,
	groupRepo repositories.GroupRepository,
	standingRepo repositories.StandingRepository,
	matchRepo repositories.MatchRepository,
	setRepo repositories.SetRepository,
	logger *slog.Logger,
) OverviewService {
	return &overviewService{
		db:           db,
		divisionRepo: divisionRepo,
		groupRepo:    groupRepo,
		standingRepo: standingRepo,
		matchRepo:    matchRepo,
		setRepo:      setRepo,
		logger:       logger,
	}
}

func (s *overviewService) GetDivisionOverview(ctx context.Context, divisionID int) (*DivisionOverview, error) {
	division, err := s.divisionRepo.GetByID(ctx, divisionID)
	if err != nil {
		return nil, err
	}

	overview := &DivisionOverview{Division: division}

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		matches, err := s.loadMatchesWithSets(gCtx, divisionID, repositories.MatchListFilter{})
		if err != nil {
			return err
		}
		overview.Matches = matches
		return nil
	})

	if division.HasGroupPhase() {
		g.Go(func() error {
			groups, err := s.groupRepo.ListByDivision(gCtx, nil, divisionID)
			if err != nil {
				return err
			}
			all, err := s.standingRepo.ListByDivision(gCtx, nil, divisionID)
			if err != nil {
				return err
			}
			attachStandings(groups, all)
			overview.Groups = groups
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return overview, nil
}

func (s *overviewService) ListMatches(ctx context.Context, divisionID int, filter repositories.MatchListFilter) ([]*models.Match, error) {
	if _, err := s.divisionRepo.GetByID(ctx, divisionID); err != nil {
		return nil, err
	}
	return s.loadMatchesWithSets(ctx, divisionID, filter)
}

func (s *overviewService) loadMatchesWithSets(ctx context.Context, divisionID int, filter repositories.MatchListFilter) ([]*models.Match, error) {
	matches, err := s.matchRepo.ListByDivision(ctx, nil, divisionID, filter)
	if err != nil {
		return nil, err
	}

	ids := make([]int, 0, len(matches))
	for _, m := range matches {
		ids = append(ids, m.ID)
	}
	setsByMatch, err := s.setRepo.ListByMatchIDs(ctx, nil, ids)
	if err != nil {
		return nil, err
	}
	for _, m := range matches {
		m.Sets = setsByMatch[m.ID]
	}
	return matches, nil
}
