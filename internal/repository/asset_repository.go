package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/lib/pq"
	"github.com/maheshrc27/content-planner/internal/models"
)

type MediaAssetRepository interface {
	Create(ctx context.Context, tx *sql.Tx, a *models.Asset) error
	GetByID(ctx context.Context, id string) (*models.Asset, error)
	ListByPageID(ctx context.Context, pageID string) ([]models.Asset, error)
	ListByPostIDs(ctx context.Context, postIDs []string) (map[string][]models.Asset, error)
	ReplaceForPost(ctx context.Context, tx *sql.Tx, post *models.Post) error
	Remove(ctx context.Context, id string) error
}

type mediaAssetRepository struct {
	db *sql.DB
}

func NewMediaAssetRepository(db *sql.DB) MediaAssetRepository {
	return &mediaAssetRepository{db: db}
}

const assetColumns = `id, page_id, COALESCE(post_id, ''), asset_type, url_or_path, description, position, created_at`

func scanAsset(row interface{ Scan(dest ...any) error }) (models.Asset, error) {
	var a models.Asset
	err := row.Scan(&a.ID, &a.PageID, &a.RelatedPostID, &a.Type, &a.URLOrPath, &a.Description, &a.Position, &a.CreatedAt)
	return a, err
}

func nullable(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func (r *mediaAssetRepository) Create(ctx context.Context, tx *sql.Tx, a *models.Asset) error {
	query := `
		INSERT INTO assets (id, page_id, post_id, asset_type, url_or_path, description, position)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at
	`
	err := pick(r.db, tx).QueryRowContext(ctx, query,
		a.ID, a.PageID, nullable(a.RelatedPostID), a.Type, a.URLOrPath, a.Description, a.Position,
	).Scan(&a.CreatedAt)
	if err != nil {
		slog.Info(err.Error())
		return err
	}
	return nil
}

func (r *mediaAssetRepository) GetByID(ctx context.Context, id string) (*models.Asset, error) {
	query := `SELECT ` + assetColumns + ` FROM assets WHERE id = $1`

	a, err := scanAsset(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		slog.Info(err.Error())
		return nil, err
	}
	return &a, nil
}

func (r *mediaAssetRepository) ListByPageID(ctx context.Context, pageID string) ([]models.Asset, error) {
	query := `SELECT ` + assetColumns + ` FROM assets WHERE page_id = $1 ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, pageID)
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	defer rows.Close()

	assets := []models.Asset{}
	for rows.Next() {
		a, err := scanAsset(rows)
		if err != nil {
			slog.Info(err.Error())
			return nil, err
		}
		assets = append(assets, a)
	}
	if err := rows.Err(); err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	return assets, nil
}

// ListByPostIDs groups the assets of the given posts by post id, each group
// in attachment order.
func (r *mediaAssetRepository) ListByPostIDs(ctx context.Context, postIDs []string) (map[string][]models.Asset, error) {
	query := `SELECT ` + assetColumns + ` FROM assets WHERE post_id = ANY($1) ORDER BY post_id, position`

	rows, err := r.db.QueryContext(ctx, query, pq.Array(postIDs))
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	defer rows.Close()

	grouped := make(map[string][]models.Asset)
	for rows.Next() {
		a, err := scanAsset(rows)
		if err != nil {
			slog.Info(err.Error())
			return nil, err
		}
		grouped[a.RelatedPostID] = append(grouped[a.RelatedPostID], a)
	}
	if err := rows.Err(); err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	return grouped, nil
}

// ReplaceForPost makes post.Assets the exact attachment list of the post.
// Assets dropped from the list are deleted, the rest are upserted in order.
func (r *mediaAssetRepository) ReplaceForPost(ctx context.Context, tx *sql.Tx, post *models.Post) error {
	q := pick(r.db, tx)

	keep := make([]string, 0, len(post.Assets))
	for _, a := range post.Assets {
		keep = append(keep, a.ID)
	}

	_, err := q.ExecContext(ctx, `DELETE FROM assets WHERE post_id = $1 AND NOT (id = ANY($2))`, post.ID, pq.Array(keep))
	if err != nil {
		slog.Info(err.Error())
		return err
	}

	query := `
		INSERT INTO assets (id, page_id, post_id, asset_type, url_or_path, description, position)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (id) DO UPDATE
		SET post_id = EXCLUDED.post_id,
			asset_type = EXCLUDED.asset_type,
			url_or_path = EXCLUDED.url_or_path,
			description = EXCLUDED.description,
			position = EXCLUDED.position
		WHERE assets.post_id = EXCLUDED.post_id
		RETURNING created_at
	`
	for i := range post.Assets {
		a := &post.Assets[i]
		a.PageID = post.PageID
		a.RelatedPostID = post.ID
		a.Position = i
		err := q.QueryRowContext(ctx, query,
			a.ID, a.PageID, a.RelatedPostID, a.Type, a.URLOrPath, a.Description, a.Position,
		).Scan(&a.CreatedAt)
		if errors.Is(err, sql.ErrNoRows) {
			err = fmt.Errorf("asset %s belongs to another post", a.ID)
		}
		if err != nil {
			slog.Info(err.Error())
			return err
		}
	}
	return nil
}

func (r *mediaAssetRepository) Remove(ctx context.Context, id string) error {
	query := `
		DELETE FROM assets
		WHERE id = $1
	`
	_, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		slog.Info(err.Error())
		return err
	}
	return nil
}
