package gratitudes

import (
	"context"
	"fmt"
	"time"

	"github.com/leeya018/gratitudes/internal/common"
	"github.com/leeya018/gratitudes/internal/dbx"
	"github.com/leeya018/gratitudes/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func dayKey(day time.Time) string {
	return day.Format(common.DateLayout)
}

func (r *PostgresRepository) LockDay(ctx context.Context, userID string, day time.Time) error {
	query := `SELECT pg_advisory_xact_lock(hashtext($1))`

	if _, err := r.db.ExecContext(ctx, query, "gratitudes:"+userID+":"+dayKey(day)); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) CountForDay(ctx context.Context, userID string, day time.Time) (int, error) {
	query :=
		`SELECT count(*) FROM gratitudes
		 WHERE user_id = $1 AND day = $2
		 `

	var n int
	if err := r.db.QueryRowContext(ctx, query, userID, dayKey(day)).Scan(&n); err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return n, nil
}

func (r *PostgresRepository) Create(ctx context.Context, g *models.Gratitude) (*models.Gratitude, error) {
	query :=
		`INSERT INTO gratitudes (user_id, text, day)
		 VALUES ($1, $2, $3)
		 RETURNING id, created_at
		 `

	if err := r.db.QueryRowContext(ctx, query, g.UserID, g.Text, dayKey(g.Day)).Scan(&g.ID, &g.CreatedAt); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return g, nil
}

func (r *PostgresRepository) ListForDay(ctx context.Context, userID string, day time.Time) ([]*models.Gratitude, error) {
	query :=
		`SELECT id, text, day, created_at FROM gratitudes
		 WHERE user_id = $1 AND day = $2
		 ORDER BY created_at, id
		 `

	rows, err := r.db.QueryContext(ctx, query, userID, dayKey(day))
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []*models.Gratitude
	for rows.Next() {
		g := &models.Gratitude{UserID: userID}
		if err := rows.Scan(&g.ID, &g.Text, &g.Day, &g.CreatedAt); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, g)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return result, nil
}

func (r *PostgresRepository) Dates(ctx context.Context, userID string) ([]time.Time, error) {
	query :=
		`SELECT DISTINCT day FROM gratitudes
		 WHERE user_id = $1
		 ORDER BY day DESC
		 `

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []time.Time
	for rows.Next() {
		var d time.Time
		if err := rows.Scan(&d); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return result, nil
}
