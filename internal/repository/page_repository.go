package repository

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"time"

	"github.com/maheshrc27/content-planner/internal/models"
)

type PageRepository interface {
	Create(ctx context.Context, page *models.Page) error
	GetByID(ctx context.Context, id string) (*models.Page, error)
	List(ctx context.Context) ([]models.Page, error)
	Update(ctx context.Context, page *models.Page) error
	SetConnection(ctx context.Context, id, targetID, encryptedToken string, connected bool) error
	Remove(ctx context.Context, id string) error
}

type pageRepository struct {
	db *sql.DB
}

func NewPageRepository(db *sql.DB) PageRepository {
	return &pageRepository{db: db}
}

const pageColumns = `id, name, niche, avatar, description, brand_voice, main_color, note,
	external_target_id, access_token, is_connected, created_at, updated_at`

func scanPage(row interface{ Scan(dest ...any) error }) (models.Page, error) {
	var p models.Page
	err := row.Scan(&p.ID, &p.Name, &p.Niche, &p.Avatar, &p.Description, &p.BrandVoice, &p.MainColor, &p.Note,
		&p.ExternalTargetID, &p.AccessToken, &p.IsConnected, &p.CreatedAt, &p.UpdatedAt)
	return p, err
}

func (r *pageRepository) Create(ctx context.Context, page *models.Page) error {
	query := `
		INSERT INTO pages (id, name, niche, avatar, description, brand_voice, main_color, note)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING created_at, updated_at
	`
	err := r.db.QueryRowContext(ctx, query,
		page.ID, page.Name, page.Niche, page.Avatar, page.Description, page.BrandVoice, page.MainColor, page.Note,
	).Scan(&page.CreatedAt, &page.UpdatedAt)
	if err != nil {
		slog.Info(err.Error())
		return err
	}
	return nil
}

func (r *pageRepository) GetByID(ctx context.Context, id string) (*models.Page, error) {
	query := `SELECT ` + pageColumns + ` FROM pages WHERE id = $1`

	page, err := scanPage(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		slog.Info(err.Error())
		return nil, err
	}
	return &page, nil
}

func (r *pageRepository) List(ctx context.Context) ([]models.Page, error) {
	query := `SELECT ` + pageColumns + ` FROM pages ORDER BY created_at`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	defer rows.Close()

	pages := []models.Page{}
	for rows.Next() {
		page, err := scanPage(rows)
		if err != nil {
			slog.Info(err.Error())
			return nil, err
		}
		pages = append(pages, page)
	}
	if err := rows.Err(); err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	return pages, nil
}

// Update writes the profile fields. Connection state is only changed through
// SetConnection.
func (r *pageRepository) Update(ctx context.Context, page *models.Page) error {
	query := `
		UPDATE pages
		SET name = $1,
			niche = $2,
			avatar = $3,
			description = $4,
			brand_voice = $5,
			main_color = $6,
			note = $7,
			updated_at = $8
		WHERE id = $9
	`
	page.UpdatedAt = time.Now()
	_, err := r.db.ExecContext(ctx, query,
		page.Name, page.Niche, page.Avatar, page.Description, page.BrandVoice, page.MainColor, page.Note,
		page.UpdatedAt, page.ID)
	if err != nil {
		slog.Info(err.Error())
		return err
	}
	return nil
}

func (r *pageRepository) SetConnection(ctx context.Context, id, targetID, encryptedToken string, connected bool) error {
	query := `
		UPDATE pages
		SET external_target_id = $1,
			access_token = $2,
			is_connected = $3,
			updated_at = CURRENT_TIMESTAMP
		WHERE id = $4
	`
	result, err := r.db.ExecContext(ctx, query, targetID, encryptedToken, connected, id)
	if err != nil {
		slog.Info(err.Error())
		return err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		slog.Info(err.Error())
		return err
	}
	if affected != 1 {
		slog.Info("no rows affected; page may not exist")
		return errors.New("no rows affected; page may not exist")
	}
	return nil
}

func (r *pageRepository) Remove(ctx context.Context, id string) error {
	query := `DELETE FROM pages WHERE id = $1`
	_, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		slog.Info(err.Error())
		return err
	}
	return nil
}
