package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/padelpoint/tournament-system/models"
)

type ParticipantRepository interface {
	ListByDivision(ctx context.Context, divisionID int, status *models.ParticipantStatus) ([]*models.Participant, error)
	CountByStatus(ctx context.Context, exec SQLExecutor, divisionID int, status models.ParticipantStatus) (int, error)
}

type postgresParticipantRepository struct {
	db *sql.DB
}

func NewPostgresParticipantRepository(db *sql.DB) ParticipantRepository {
	return &postgresParticipantRepository{db: db}
}

func (r *postgresParticipantRepository) ListByDivision(ctx context.Context, divisionID int, status *models.ParticipantStatus) ([]*models.Participant, error) {
	query := `
		SELECT id, division_id, player_id, partner_id, status, created_at
		FROM participants
		WHERE division_id = $1`
	args := []interface{}{divisionID}
	if status != nil {
		query += ` AND status = $2`
		args = append(args, *status)
	}
	query += ` ORDER BY id ASC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query participants for division %d: %w", divisionID, err)
	}
	defer rows.Close()

	participants := make([]*models.Participant, 0)
	for rows.Next() {
		p := &models.Participant{}
		if err := rows.Scan(&p.ID, &p.DivisionID, &p.PlayerID, &p.PartnerID, &p.Status, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan participant: %w", err)
		}
		participants = append(participants, p)
	}
	return participants, rows.Err()
}

func (r *postgresParticipantRepository) CountByStatus(ctx context.Context, exec SQLExecutor, divisionID int, status models.ParticipantStatus) (int, error) {
	if exec == nil {
		exec = r.db
	}
	var count int
	err := exec.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM participants WHERE division_id = $1 AND status = $2`,
		divisionID, status,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count %s participants for division %d: %w", status, divisionID, err)
	}
	return count, nil
}
