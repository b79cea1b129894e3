package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/padelpoint/tournament-system/models"
)

var ErrDivisionNotFound = errors.New("division not found")

type DivisionRepository interface {
	GetByID(ctx context.Context, id int) (*models.Division, error)
	// GetForUpdate locks the division row for the duration of the
	// transaction; builders and the standings calculator serialize on it.
	GetForUpdate(ctx context.Context, exec SQLExecutor, id int) (*models.Division, error)
}

type postgresDivisionRepository struct {
	db *sql.DB
}

func NewPostgresDivisionRepository(db *sql.DB) DivisionRepository {
	return &postgresDivisionRepository{db: db}
}

const divisionColumns = `id, tournament_id, name, format, participant_type, is_published, published_at, created_at`

func (r *postgresDivisionRepository) GetByID(ctx context.Context, id int) (*models.Division, error) {
	query := `SELECT ` + divisionColumns + ` FROM divisions WHERE id = $1`
	return scanDivision(r.db.QueryRowContext(ctx, query, id), id)
}

func (r *postgresDivisionRepository) GetForUpdate(ctx context.Context, exec SQLExecutor, id int) (*models.Division, error) {
	query := `SELECT ` + divisionColumns + ` FROM divisions WHERE id = $1 FOR UPDATE`
	return scanDivision(exec.QueryRowContext(ctx, query, id), id)
}

func scanDivision(row *sql.Row, id int) (*models.Division, error) {
	d := &models.Division{}
	err := row.Scan(
		&d.ID,
		&d.TournamentID,
		&d.Name,
		&d.Format,
		&d.ParticipantType,
		&d.IsPublished,
		&d.PublishedAt,
		&d.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrDivisionNotFound
		}
		return nil, fmt.Errorf("failed to scan division %d: %w", id, err)
	}
	return d, nil
}
