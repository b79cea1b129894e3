package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/padelpoint/tournament-system/models"
)

var ErrGroupNumberConflict = errors.New("group number already exists in this division")

type GroupRepository interface {
	Create(ctx context.Context, exec SQLExecutor, group *models.Group) error
	ListByDivision(ctx context.Context, exec SQLExecutor, divisionID int) ([]*models.Group, error)
}

type postgresGroupRepository struct {
	db *sql.DB
}

func NewPostgresGroupRepository(db *sql.DB) GroupRepository {
	return &postgresGroupRepository{db: db}
}

func (r *postgresGroupRepository) Create(ctx context.Context, exec SQLExecutor, group *models.Group) error {
	if exec == nil {
		exec = r.db
	}
	query := `
		INSERT INTO groups (division_id, group_number, name)
		VALUES ($1, $2, $3)
		RETURNING id`
	err := exec.QueryRowContext(ctx, query, group.DivisionID, group.GroupNumber, group.Name).Scan(&group.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: group %d", ErrGroupNumberConflict, group.GroupNumber)
		}
		return fmt.Errorf("failed to insert group %d for division %d: %w", group.GroupNumber, group.DivisionID, err)
	}
	return nil
}

func (r *postgresGroupRepository) ListByDivision(ctx context.Context, exec SQLExecutor, divisionID int) ([]*models.Group, error) {
	if exec == nil {
		exec = r.db
	}
	query := `
		SELECT id, division_id, group_number, name
		FROM groups
		WHERE division_id = $1
		ORDER BY group_number ASC`
	rows, err := exec.QueryContext(ctx, query, divisionID)
	if err != nil {
		return nil, fmt.Errorf("failed to query groups for division %d: %w", divisionID, err)
	}
	defer rows.Close()

	groups := make([]*models.Group, 0)
	for rows.Next() {
		g := &models.Group{}
		if err := rows.Scan(&g.ID, &g.DivisionID, &g.GroupNumber, &g.Name); err != nil {
			return nil, fmt.Errorf("failed to scan group: %w", err)
		}
		groups = append(groups, g)
	}
	return groups, rows.Err()
}
