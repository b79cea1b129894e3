package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/padelpoint/tournament-system/models"
)

var ErrStandingNotFound = errors.New("standing not found")

type StandingRepository interface {
	BatchCreate(ctx context.Context, exec SQLExecutor, standings []*models.Standing) error
	ListByGroup(ctx context.Context, exec SQLExecutor, groupID int) ([]*models.Standing, error)
	// ListByDivision returns every standing of the division with its
	// participant attached, ordered by group then position.
	ListByDivision(ctx context.Context, exec SQLExecutor, divisionID int) ([]*models.Standing, error)
	Update(ctx context.Context, exec SQLExecutor, standing *models.Standing) error
}

type postgresStandingRepository struct {
	db *sql.DB
}

func NewPostgresStandingRepository(db *sql.DB) StandingRepository {
	return &postgresStandingRepository{db: db}
}

func (r *postgresStandingRepository) BatchCreate(ctx context.Context, exec SQLExecutor, standings []*models.Standing) error {
	if exec == nil {
		exec = r.db
	}
	if len(standings) == 0 {
		return nil
	}
	query := `
		INSERT INTO standings
			(group_id, participant_id, matches_played, matches_won, matches_lost,
			 sets_won, sets_lost, points, position_in_group, global_position, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id`

	for _, s := range standings {
		if s.UpdatedAt.IsZero() {
			s.UpdatedAt = time.Now()
		}
		err := exec.QueryRowContext(ctx, query,
			s.GroupID, s.ParticipantID, s.MatchesPlayed, s.MatchesWon, s.MatchesLost,
			s.SetsWon, s.SetsLost, s.Points, s.PositionInGroup, s.GlobalPosition, s.UpdatedAt,
		).Scan(&s.ID)
		if err != nil {
			return fmt.Errorf("failed to insert standing for participant %d: %w", s.ParticipantID, err)
		}
	}
	return nil
}

const standingSelect = `
	SELECT s.id, s.group_id, s.participant_id, s.matches_played, s.matches_won, s.matches_lost,
	       s.sets_won, s.sets_lost, s.points, s.position_in_group, s.global_position, s.updated_at,
	       p.id, p.division_id, p.player_id, p.partner_id, p.status, p.created_at
	FROM standings s
	JOIN participants p ON p.id = s.participant_id`

func (r *postgresStandingRepository) ListByGroup(ctx context.Context, exec SQLExecutor, groupID int) ([]*models.Standing, error) {
	if exec == nil {
		exec = r.db
	}
	query := standingSelect + `
	WHERE s.group_id = $1
	ORDER BY s.position_in_group NULLS LAST, s.id ASC`
	rows, err := exec.QueryContext(ctx, query, groupID)
	if err != nil {
		return nil, fmt.Errorf("failed to query standings for group %d: %w", groupID, err)
	}
	defer rows.Close()
	return collectStandings(rows)
}

func (r *postgresStandingRepository) ListByDivision(ctx context.Context, exec SQLExecutor, divisionID int) ([]*models.Standing, error) {
	if exec == nil {
		exec = r.db
	}
	query := standingSelect + `
	JOIN groups g ON g.id = s.group_id
	WHERE g.division_id = $1
	ORDER BY g.group_number ASC, s.position_in_group NULLS LAST, s.id ASC`
	rows, err := exec.QueryContext(ctx, query, divisionID)
	if err != nil {
		return nil, fmt.Errorf("failed to query standings for division %d: %w", divisionID, err)
	}
	defer rows.Close()
	return collectStandings(rows)
}

func (r *postgresStandingRepository) Update(ctx context.Context, exec SQLExecutor, standing *models.Standing) error {
	if exec == nil {
		exec = r.db
	}
	standing.UpdatedAt = time.Now()
	result, err := exec.ExecContext(ctx, `
		UPDATE standings SET
			matches_played = $1, matches_won = $2, matches_lost = $3,
			sets_won = $4, sets_lost = $5, points = $6,
			position_in_group = $7, global_position = $8, updated_at = $9
		WHERE id = $10`,
		standing.MatchesPlayed, standing.MatchesWon, standing.MatchesLost,
		standing.SetsWon, standing.SetsLost, standing.Points,
		standing.PositionInGroup, standing.GlobalPosition, standing.UpdatedAt,
		standing.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update standing %d: %w", standing.ID, err)
	}
	return checkAffectedRows(result, ErrStandingNotFound)
}

func collectStandings(rows *sql.Rows) ([]*models.Standing, error) {
	standings := make([]*models.Standing, 0)
	for rows.Next() {
		s := &models.Standing{Participant: &models.Participant{}}
		p := s.Participant
		err := rows.Scan(
			&s.ID, &s.GroupID, &s.ParticipantID, &s.MatchesPlayed, &s.MatchesWon, &s.MatchesLost,
			&s.SetsWon, &s.SetsLost, &s.Points, &s.PositionInGroup, &s.GlobalPosition, &s.UpdatedAt,
			&p.ID, &p.DivisionID, &p.PlayerID, &p.PartnerID, &p.Status, &p.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan standing: %w", err)
		}
		standings = append(standings, s)
	}
	return standings, rows.Err()
}
