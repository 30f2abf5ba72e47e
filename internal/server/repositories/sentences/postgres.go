package sentences

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/leeya018/gratitudes/internal/common"
	"github.com/leeya018/gratitudes/internal/dbx"
	"github.com/leeya018/gratitudes/internal/server/models"
)

const columns = `id, user_id, text, audio_key, audio_content_type, created_at`

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

type scanner interface {
	Scan(dest ...any) error
}

func scanSentence(row scanner) (*models.Sentence, error) {
	s := &models.Sentence{}
	err := row.Scan(&s.ID, &s.UserID, &s.Text, &s.AudioKey, &s.AudioContentType, &s.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return s, nil
}

func (r *PostgresRepository) Create(ctx context.Context, s *models.Sentence) (*models.Sentence, error) {
	query :=
		`INSERT INTO sentences (user_id, text)
		 VALUES ($1, $2)
		 RETURNING ` + columns

	return scanSentence(r.db.QueryRowContext(ctx, query, s.UserID, s.Text))
}

func (r *PostgresRepository) ListByUser(ctx context.Context, userID string) ([]*models.Sentence, error) {
	query :=
		`SELECT ` + columns + ` FROM sentences
		 WHERE user_id = $1
		 ORDER BY created_at DESC, id DESC`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []*models.Sentence
	for rows.Next() {
		s, err := scanSentence(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return result, nil
}

func (r *PostgresRepository) Get(ctx context.Context, userID, id string) (*models.Sentence, error) {
	query :=
		`SELECT ` + columns + ` FROM sentences
		 WHERE id = $1 AND user_id = $2`

	return scanSentence(r.db.QueryRowContext(ctx, query, id, userID))
}

func (r *PostgresRepository) UpdateText(ctx context.Context, userID, id, text string) (*models.Sentence, error) {
	query :=
		`UPDATE sentences SET text = $3
		 WHERE id = $1 AND user_id = $2
		 RETURNING ` + columns

	return scanSentence(r.db.QueryRowContext(ctx, query, id, userID, text))
}

func (r *PostgresRepository) SetAudio(ctx context.Context, userID, id, key, contentType string) (*models.Sentence, error) {
	query :=
		`UPDATE sentences SET audio_key = $3, audio_content_type = $4
		 WHERE id = $1 AND user_id = $2
		 RETURNING ` + columns

	return scanSentence(r.db.QueryRowContext(ctx, query, id, userID, key, contentType))
}

func (r *PostgresRepository) Delete(ctx context.Context, userID, id string) (*models.Sentence, error) {
	query :=
		`DELETE FROM sentences
		 WHERE id = $1 AND user_id = $2
		 RETURNING ` + columns

	return scanSentence(r.db.QueryRowContext(ctx, query, id, userID))
}
