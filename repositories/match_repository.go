package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/padelpoint/tournament-system/models"
)

var (
	ErrMatchNotFound      = errors.New("match not found")
	ErrMatchCodeConflict  = errors.New("match code already exists in this division")
	ErrMatchInvalidPlayer = errors.New("match references an unknown player")
)

// MatchListFilter narrows ListByDivision. Nil fields are ignored.
type MatchListFilter struct {
	RoundNumber     *int
	Status          *models.MatchStatus
	IsLosersBracket *bool
	GroupPhaseOnly  bool
	UnscheduledOnly bool
}

type MatchRepository interface {
	Create(ctx context.Context, exec SQLExecutor, match *models.Match) error
	GetByID(ctx context.Context, id int) (*models.Match, error)
	GetForUpdate(ctx context.Context, exec SQLExecutor, id int) (*models.Match, error)
	ListByDivision(ctx context.Context, exec SQLExecutor, divisionID int, filter MatchListFilter) ([]*models.Match, error)
	ExistsByDivision(ctx context.Context, exec SQLExecutor, divisionID int) (bool, error)
	UpdateNextMatch(ctx context.Context, exec SQLExecutor, matchID int, nextMatchID int) error
	UpdateSlots(ctx context.Context, exec SQLExecutor, match *models.Match) error
	UpdateResult(ctx context.Context, exec SQLExecutor, match *models.Match) error
	UpdateSchedule(ctx context.Context, exec SQLExecutor, match *models.Match) error
}

type postgresMatchRepository struct {
	db *sql.DB
}

func NewPostgresMatchRepository(db *sql.DB) MatchRepository {
	return &postgresMatchRepository{db: db}
}

const matchColumns = `id, division_id, code, type, player1_id, player2_id, partner1_id, partner2_id,
	max_sets, points_per_set, round_number, is_losers_bracket, next_match_id,
	status, winner_id, winner_partner_id, scheduled_at, location, started_at, completed_at, created_at`

func (r *postgresMatchRepository) Create(ctx context.Context, exec SQLExecutor, match *models.Match) error {
	if exec == nil {
		exec = r.db
	}
	query := `
		INSERT INTO matches
			(division_id, code, type, player1_id, player2_id, partner1_id, partner2_id,
			 max_sets, points_per_set, round_number, is_losers_bracket, next_match_id, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING id, created_at`

	err := exec.QueryRowContext(ctx, query,
		match.DivisionID,
		match.Code,
		match.Type,
		match.Player1ID,
		match.Player2ID,
		match.Partner1ID,
		match.Partner2ID,
		match.MaxSets,
		match.PointsPerSet,
		match.RoundNumber,
		match.IsLosersBracket,
		match.NextMatchID,
		match.Status,
	).Scan(&match.ID, &match.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: %s", ErrMatchCodeConflict, match.Code)
		}
		if isForeignKeyViolation(err) {
			return fmt.Errorf("%w: match %s", ErrMatchInvalidPlayer, match.Code)
		}
		return fmt.Errorf("failed to insert match %s: %w", match.Code, err)
	}
	return nil
}

func (r *postgresMatchRepository) GetByID(ctx context.Context, id int) (*models.Match, error) {
	query := `SELECT ` + matchColumns + ` FROM matches WHERE id = $1`
	return scanMatchRow(r.db.QueryRowContext(ctx, query, id), id)
}

func (r *postgresMatchRepository) GetForUpdate(ctx context.Context, exec SQLExecutor, id int) (*models.Match, error) {
	query := `SELECT ` + matchColumns + ` FROM matches WHERE id = $1 FOR UPDATE`
	return scanMatchRow(exec.QueryRowContext(ctx, query, id), id)
}

func (r *postgresMatchRepository) ListByDivision(ctx context.Context, exec SQLExecutor, divisionID int, filter MatchListFilter) ([]*models.Match, error) {
	if exec == nil {
		exec = r.db
	}

	var queryBuilder strings.Builder
	queryBuilder.WriteString(`SELECT ` + matchColumns + ` FROM matches WHERE division_id = $1`)
	args := []interface{}{divisionID}
	placeholder := 2

	if filter.RoundNumber != nil {
		queryBuilder.WriteString(" AND round_number = $" + strconv.Itoa(placeholder))
		args = append(args, *filter.RoundNumber)
		placeholder++
	}
	if filter.Status != nil {
		queryBuilder.WriteString(" AND status = $" + strconv.Itoa(placeholder))
		args = append(args, *filter.Status)
		placeholder++
	}
	if filter.IsLosersBracket != nil {
		queryBuilder.WriteString(" AND is_losers_bracket = $" + strconv.Itoa(placeholder))
		args = append(args, *filter.IsLosersBracket)
		placeholder++
	}
	if filter.GroupPhaseOnly {
		queryBuilder.WriteString(" AND round_number < 0")
	}
	if filter.UnscheduledOnly {
		queryBuilder.WriteString(" AND scheduled_at IS NULL")
	}

	queryBuilder.WriteString(" ORDER BY round_number ASC, id ASC")

	rows, err := exec.QueryContext(ctx, queryBuilder.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query matches for division %d: %w", divisionID, err)
	}
	defer rows.Close()

	matches := make([]*models.Match, 0)
	for rows.Next() {
		m, scanErr := scanMatch(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		matches = append(matches, m)
	}
	return matches, rows.Err()
}

func (r *postgresMatchRepository) ExistsByDivision(ctx context.Context, exec SQLExecutor, divisionID int) (bool, error) {
	if exec == nil {
		exec = r.db
	}
	var exists bool
	err := exec.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM matches WHERE division_id = $1)`, divisionID,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check matches for division %d: %w", divisionID, err)
	}
	return exists, nil
}

func (r *postgresMatchRepository) UpdateNextMatch(ctx context.Context, exec SQLExecutor, matchID int, nextMatchID int) error {
	result, err := exec.ExecContext(ctx,
		`UPDATE matches SET next_match_id = $1 WHERE id = $2`, nextMatchID, matchID)
	if err != nil {
		return fmt.Errorf("failed to link match %d to next match %d: %w", matchID, nextMatchID, err)
	}
	return checkAffectedRows(result, ErrMatchNotFound)
}

func (r *postgresMatchRepository) UpdateSlots(ctx context.Context, exec SQLExecutor, match *models.Match) error {
	result, err := exec.ExecContext(ctx, `
		UPDATE matches SET player1_id = $1, player2_id = $2, partner1_id = $3, partner2_id = $4
		WHERE id = $5`,
		match.Player1ID, match.Player2ID, match.Partner1ID, match.Partner2ID, match.ID)
	if err != nil {
		return fmt.Errorf("failed to update slots of match %d: %w", match.ID, err)
	}
	return checkAffectedRows(result, ErrMatchNotFound)
}

func (r *postgresMatchRepository) UpdateResult(ctx context.Context, exec SQLExecutor, match *models.Match) error {
	result, err := exec.ExecContext(ctx, `
		UPDATE matches SET status = $1, winner_id = $2, winner_partner_id = $3, started_at = $4, completed_at = $5
		WHERE id = $6`,
		match.Status, match.WinnerID, match.WinnerPartnerID, match.StartedAt, match.CompletedAt, match.ID)
	if err != nil {
		return fmt.Errorf("failed to update result of match %d: %w", match.ID, err)
	}
	return checkAffectedRows(result, ErrMatchNotFound)
}

func (r *postgresMatchRepository) UpdateSchedule(ctx context.Context, exec SQLExecutor, match *models.Match) error {
	result, err := exec.ExecContext(ctx,
		`UPDATE matches SET scheduled_at = $1, location = $2 WHERE id = $3`,
		match.ScheduledAt, match.Location, match.ID)
	if err != nil {
		return fmt.Errorf("failed to update schedule of match %d: %w", match.ID, err)
	}
	return checkAffectedRows(result, ErrMatchNotFound)
}

func scanMatchRow(row *sql.Row, id int) (*models.Match, error) {
	m := &models.Match{}
	err := row.Scan(
		&m.ID, &m.DivisionID, &m.Code, &m.Type,
		&m.Player1ID, &m.Player2ID, &m.Partner1ID, &m.Partner2ID,
		&m.MaxSets, &m.PointsPerSet, &m.RoundNumber, &m.IsLosersBracket, &m.NextMatchID,
		&m.Status, &m.WinnerID, &m.WinnerPartnerID,
		&m.ScheduledAt, &m.Location, &m.StartedAt, &m.CompletedAt, &m.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrMatchNotFound
		}
		return nil, fmt.Errorf("failed to scan match %d: %w", id, err)
	}
	return m, nil
}

func scanMatch(rows *sql.Rows) (*models.Match, error) {
	m := &models.Match{}
	err := rows.Scan(
		&m.ID, &m.DivisionID, &m.Code, &m.Type,
		&m.Player1ID, &m.Player2ID, &m.Partner1ID, &m.Partner2ID,
		&m.MaxSets, &m.PointsPerSet, &m.RoundNumber, &m.IsLosersBracket, &m.NextMatchID,
		&m.Status, &m.WinnerID, &m.WinnerPartnerID,
		&m.ScheduledAt, &m.Location, &m.StartedAt, &m.CompletedAt, &m.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to scan match: %w", err)
	}
	return m, nil
}
