package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"
	"github.com/padelpoint/tournament-system/models"
)

type SetRepository interface {
	Upsert(ctx context.Context, exec SQLExecutor, set *models.Set) error
	ListByMatch(ctx context.Context, exec SQLExecutor, matchID int) ([]*models.Set, error)
	ListByMatchIDs(ctx context.Context, exec SQLExecutor, matchIDs []int) (map[int][]*models.Set, error)
}

type postgresSetRepository struct {
	db *sql.DB
}

func NewPostgresSetRepository(db *sql.DB) SetRepository {
	return &postgresSetRepository{db: db}
}

const setColumns = `id, match_id, set_number, player1_score, player2_score, winner, completed_at`

// Upsert inserts the set or, when the (match, set number) pair already
// exists, replaces its scores and winner. Score corrections resubmit the
// same set number.
func (r *postgresSetRepository) Upsert(ctx context.Context, exec SQLExecutor, set *models.Set) error {
	if exec == nil {
		exec = r.db
	}
	query := `
		INSERT INTO sets (match_id, set_number, player1_score, player2_score, winner, completed_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (match_id, set_number) DO UPDATE SET
			player1_score = EXCLUDED.player1_score,
			player2_score = EXCLUDED.player2_score,
			winner = EXCLUDED.winner,
			completed_at = EXCLUDED.completed_at
		RETURNING id`

	err := exec.QueryRowContext(ctx, query,
		set.MatchID, set.SetNumber, set.Player1Score, set.Player2Score, set.Winner, set.CompletedAt,
	).Scan(&set.ID)
	if err != nil {
		return fmt.Errorf("failed to upsert set %d of match %d: %w", set.SetNumber, set.MatchID, err)
	}
	return nil
}

func (r *postgresSetRepository) ListByMatch(ctx context.Context, exec SQLExecutor, matchID int) ([]*models.Set, error) {
	if exec == nil {
		exec = r.db
	}
	query := `SELECT ` + setColumns + ` FROM sets WHERE match_id = $1 ORDER BY set_number ASC`
	rows, err := exec.QueryContext(ctx, query, matchID)
	if err != nil {
		return nil, fmt.Errorf("failed to query sets for match %d: %w", matchID, err)
	}
	defer rows.Close()
	return collectSets(rows)
}

func (r *postgresSetRepository) ListByMatchIDs(ctx context.Context, exec SQLExecutor, matchIDs []int) (map[int][]*models.Set, error) {
	if exec == nil {
		exec = r.db
	}
	result := make(map[int][]*models.Set, len(matchIDs))
	if len(matchIDs) == 0 {
		return result, nil
	}

	query := `SELECT ` + setColumns + ` FROM sets WHERE match_id = ANY($1) ORDER BY match_id ASC, set_number ASC`
	rows, err := exec.QueryContext(ctx, query, pq.Array(matchIDs))
	if err != nil {
		return nil, fmt.Errorf("failed to query sets for %d matches: %w", len(matchIDs), err)
	}
	defer rows.Close()

	sets, err := collectSets(rows)
	if err != nil {
		return nil, err
	}
	for _, s := range sets {
		result[s.MatchID] = append(result[s.MatchID], s)
	}
	return result, nil
}

func collectSets(rows *sql.Rows) ([]*models.Set, error) {
	sets := make([]*models.Set, 0)
	for rows.Next() {
		s := &models.Set{}
		if err := rows.Scan(&s.ID, &s.MatchID, &s.SetNumber, &s.Player1Score, &s.Player2Score, &s.Winner, &s.CompletedAt); err != nil {
			return nil, fmt.Errorf("failed to scan set: %w", err)
		}
		sets = append(sets, s)
	}
	return sets, rows.Err()
}
