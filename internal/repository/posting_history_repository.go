package repository

import (
	"context"
	"database/sql"
	"log/slog"

	"github.com/maheshrc27/content-planner/internal/models"
)

type PostingHistoryRepository interface {
	Create(ctx context.Context, ph *models.PostingHistory) (int64, error)
	ListByPostID(ctx context.Context, postID string) ([]models.PostingHistory, error)
}

type postingHistoryRepository struct {
	db *sql.DB
}

func NewPostingHistoryRepository(db *sql.DB) PostingHistoryRepository {
	return &postingHistoryRepository{db: db}
}

func (r *postingHistoryRepository) Create(ctx context.Context, ph *models.PostingHistory) (int64, error) {
	query := `
		INSERT INTO publish_history (post_id, page_id, target_id, mode, external_post_id, permalink_url, error_kind, error_message)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at
	`

	err := r.db.QueryRowContext(ctx, query,
		ph.PostID, ph.PageID, ph.TargetID, ph.Mode, ph.ExternalPostID, ph.PermalinkURL, ph.ErrorKind, ph.ErrorMessage,
	).Scan(&ph.ID, &ph.CreatedAt)
	if err != nil {
		slog.Info(err.Error())
		return 0, err
	}

	return ph.ID, nil
}

func (r *postingHistoryRepository) ListByPostID(ctx context.Context, postID string) ([]models.PostingHistory, error) {
	query := `
		SELECT id, post_id, page_id, target_id, mode, external_post_id, permalink_url, error_kind, error_message, created_at
		FROM publish_history
		WHERE post_id = $1
		ORDER BY created_at DESC, id DESC
	`

	rows, err := r.db.QueryContext(ctx, query, postID)
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	defer rows.Close()

	phs := []models.PostingHistory{}
	for rows.Next() {
		var ph models.PostingHistory
		err := rows.Scan(&ph.ID, &ph.PostID, &ph.PageID, &ph.TargetID, &ph.Mode,
			&ph.ExternalPostID, &ph.PermalinkURL, &ph.ErrorKind, &ph.ErrorMessage, &ph.CreatedAt)
		if err != nil {
			slog.Info(err.Error())
			return nil, err
		}
		phs = append(phs, ph)
	}
	if err := rows.Err(); err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	return phs, nil
}
