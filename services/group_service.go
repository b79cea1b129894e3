package services

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"math/rand"

	"github.com/padelpoint/tournament-system/brackets"
	"github.com/padelpoint/tournament-system/models"
	"github.com/padelpoint/tournament-system/repositories"
)

// GroupPhaseResult is what GenerateGroupPhase hands back: the created groups
// with their zeroed standings, plus every round-robin match.
type GroupPhaseResult struct {
	Groups  []*models.Group `json:"groups"`
	Matches []*models.Match `json:"matches"`
}

type GroupService interface {
	// GenerateGroupPhase partitions the approved participants into balanced
	// groups of 3 to 5, creates zeroed standings and the full round-robin
	// match list of every group.
	GenerateGroupPhase(ctx context.Context, divisionID int, cfg MatchConfig) (*GroupPhaseResult, error)

	// GenerateKnockoutFromStandings builds the knockout stage of a
	// round_robin_knockout division, seeded by the final global standings.
	// Every group match must be completed first.
	GenerateKnockoutFromStandings(ctx context.Context, divisionID int, cfg MatchConfig) ([]*models.Match, error)
}

type groupService struct {
	db              *sql.DB
	divisionRepo    repositories.DivisionRepository
	participantRepo repositories.ParticipantRepository
	groupRepo       repositories.GroupRepository
	standingRepo    repositories.StandingRepository
	matchRepo       repositories.MatchRepository
	setRepo         repositories.SetRepository
	logger          *slog.Logger

	rng *rand.Rand
}

func NewGroupService(
	db *sql.DB,
	divisionRepo repositories.DivisionRepository,
	participantRepo repositories.ParticipantRepository,
	groupRepo repositories.GroupRepository,
	standingRepo repositories.StandingRepository,
	matchRepo repositories.MatchRepository,
	setRepo repositories.SetRepository,
	logger *slog.Logger,
) GroupService {
	return &groupService{
		db:              db,
		divisionRepo:    divisionRepo,
		participantRepo: participantRepo,
		groupRepo:       groupRepo,
		standingRepo:    standingRepo,
		matchRepo:       matchRepo,
		setRepo:         setRepo,
		logger:          logger,
	}
}

func (s *groupService) GenerateGroupPhase(ctx context.Context, divisionID int, cfg MatchConfig) (*GroupPhaseResult, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	result := &GroupPhaseResult{}
	var division *models.Division

	err := runInTx(ctx, s.db, s.logger, func(tx *sql.Tx) error {
		var err error
		division, err = s.divisionRepo.GetForUpdate(ctx, tx, divisionID)
		if err != nil {
			return err
		}
		if !division.IsPublished {
			return fmt.Errorf("%w: division %d", ErrDivisionNotPublished, divisionID)
		}
		if !division.HasGroupPhase() {
			return fmt.Errorf("%w: format %s uses a bracket builder", ErrUnsupportedFormat, division.Format)
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
		if len(participants) < models.MinGroupSize {
			return fmt.Errorf("%w: need at least %d for a group phase, have %d",
				ErrInsufficientParticipants, models.MinGroupSize, len(participants))
		}

		drafts, err := brackets.BuildGroups(s.rng, entriesFromParticipants(participants),
			models.MinGroupSize, models.MaxGroupSize)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrGroupSizeBounds, err)
		}

		matchType := matchTypeFor(division)
		for _, draft := range drafts {
			group := &models.Group{
				DivisionID:  divisionID,
				GroupNumber: draft.GroupNumber,
				Name:        draft.Name,
			}
			if err := s.groupRepo.Create(ctx, tx, group); err != nil {
				return err
			}

			zeroed := make([]*models.Standing, 0, len(draft.Entries))
			for _, entry := range draft.Entries {
				zeroed = append(zeroed, &models.Standing{
					GroupID:       group.ID,
					ParticipantID: entry.ParticipantID,
				})
			}
			if err := s.standingRepo.BatchCreate(ctx, tx, zeroed); err != nil {
				return err
			}
			group.Standings = zeroed

			for _, node := range brackets.BuildRoundRobin(draft.GroupNumber, draft.Entries) {
				m := toModelMatch(divisionID, matchType, cfg, node)
				if err := s.matchRepo.Create(ctx, tx, m); err != nil {
					return err
				}
				result.Matches = append(result.Matches, m)
			}

			result.Groups = append(result.Groups, group)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("group phase generated",
		"division_id", divisionID,
		"format", division.Format,
		"groups", len(result.Groups),
		"matches", len(result.Matches))
	return result, nil
}

func (s *groupService) GenerateKnockoutFromStandings(ctx context.Context, divisionID int, cfg MatchConfig) ([]*models.Match, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	var created []*models.Match

	err := runInTx(ctx, s.db, s.logger, func(tx *sql.Tx) error {
		division, err := s.divisionRepo.GetForUpdate(ctx, tx, divisionID)
		if err != nil {
			return err
		}
		if division.Format != models.FormatRoundRobinKnockout {
			return fmt.Errorf("%w: format %s has no knockout stage after groups",
				ErrUnsupportedFormat, division.Format)
		}

		groupMatches, err := s.matchRepo.ListByDivision(ctx, tx, divisionID,
			repositories.MatchListFilter{GroupPhaseOnly: true})
		if err != nil {
			return err
		}
		if len(groupMatches) == 0 {
			return fmt.Errorf("%w: division %d", ErrNoGroupPhase, divisionID)
		}
		for _, m := range groupMatches {
			if !m.IsCompleted() {
				return fmt.Errorf("%w: match %s is %s", ErrGroupPhaseIncomplete, m.Code, m.Status)
			}
		}

		all, err := s.matchRepo.ListByDivision(ctx, tx, divisionID, repositories.MatchListFilter{})
		if err != nil {
			return err
		}
		for _, m := range all {
			if !m.IsGroupPhase() {
				return fmt.Errorf("%w: knockout stage already exists for division %d",
					ErrDivisionHasMatches, divisionID)
			}
		}

		// Refresh positions from the final group results before seeding.
		_, ranked, err := recalculateStandings(ctx, tx,
			s.groupRepo, s.standingRepo, s.matchRepo, s.setRepo, divisionID)
		if err != nil {
			return err
		}

		entries := make([]brackets.Entry, 0, len(ranked))
		for _, st := range ranked {
			entries = append(entries, brackets.Entry{
				ParticipantID: st.ParticipantID,
				PlayerID:      st.Participant.PlayerID,
				PartnerID:     st.Participant.PartnerID,
			})
		}
		if len(entries) < 2 {
			return fmt.Errorf("%w: need at least 2, have %d", ErrInsufficientParticipants, len(entries))
		}

		generator := brackets.NewSingleEliminationGenerator(s.rng)
		nodes, err := generator.GenerateBracket(ctx, brackets.GenerateBracketParams{
			Division:  division,
			Entries:   entries,
			KeepOrder: true,
		})
		if err != nil {
			return fmt.Errorf("failed to generate knockout stage for division %d: %w", divisionID, err)
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

	s.logger.Info("knockout stage generated from standings",
		"division_id", divisionID, "matches", len(created))
	return created, nil
}
