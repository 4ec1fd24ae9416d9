package repository

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	"github.com/maheshrc27/content-planner/internal/models"
)

type PostRepository interface {
	GetByID(ctx context.Context, id string) (*models.Post, error)
	Create(ctx context.Context, tx *sql.Tx, post *models.Post) error
	Update(ctx context.Context, tx *sql.Tx, post *models.Post) error
	ListByPageID(ctx context.Context, pageID string) ([]models.Post, error)
	ListByDateRange(ctx context.Context, pageID, from, to string) ([]models.Post, error)
	UpdatePostStatus(ctx context.Context, status models.PostStatus, postID string) error
	MarkPublished(ctx context.Context, postID, postLink string) error
	CheckByPageID(ctx context.Context, postID, pageID string) (bool, error)
	Remove(ctx context.Context, id string) error
}

type postRepository struct {
	db     *sql.DB
	assets MediaAssetRepository
}

func NewPostRepository(db *sql.DB, assets MediaAssetRepository) PostRepository {
	return &postRepository{db: db, assets: assets}
}

const postColumns = `id, page_id, post_date, time_slot, goal, topic, platform, format,
	main_idea, hook, caption_draft, cta, visual_brief, notes, status, post_link, created_at, updated_at`

func scanPost(row interface{ Scan(dest ...any) error }) (models.Post, error) {
	var p models.Post
	var postDate time.Time
	err := row.Scan(&p.ID, &p.PageID, &postDate, &p.TimeSlot, &p.Goal, &p.Topic, &p.Platform, &p.Format,
		&p.MainIdea, &p.Hook, &p.CaptionDraft, &p.CTA, &p.VisualBrief, &p.Notes, &p.Status, &p.PostLink,
		&p.CreatedAt, &p.UpdatedAt)
	p.PostDate = postDate.Format(models.DateLayout)
	p.Assets = []models.Asset{}
	return p, err
}

func (r *postRepository) Create(ctx context.Context, tx *sql.Tx, post *models.Post) error {
	query := `
		INSERT INTO posts (id, page_id, post_date, time_slot, goal, topic, platform, format,
			main_idea, hook, caption_draft, cta, visual_brief, notes, status, post_link)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
		RETURNING created_at, updated_at
	`

	return inTx(ctx, r.db, tx, func(tx *sql.Tx) error {
		err := tx.QueryRowContext(ctx, query,
			post.ID, post.PageID, post.PostDate, post.TimeSlot, post.Goal, post.Topic, post.Platform, post.Format,
			post.MainIdea, post.Hook, post.CaptionDraft, post.CTA, post.VisualBrief, post.Notes, post.Status, post.PostLink,
		).Scan(&post.CreatedAt, &post.UpdatedAt)
		if err != nil {
			slog.Info(err.Error())
			return err
		}
		return r.assets.ReplaceForPost(ctx, tx, post)
	})
}

func (r *postRepository) Update(ctx context.Context, tx *sql.Tx, post *models.Post) error {
	query := `
		UPDATE posts
		SET post_date = $1,
			time_slot = $2,
			goal = $3,
			topic = $4,
			platform = $5,
			format = $6,
			main_idea = $7,
			hook = $8,
			caption_draft = $9,
			cta = $10,
			visual_brief = $11,
			notes = $12,
			status = $13,
			post_link = $14,
			updated_at = $15
		WHERE id = $16
	`

	post.UpdatedAt = time.Now()
	return inTx(ctx, r.db, tx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, query,
			post.PostDate, post.TimeSlot, post.Goal, post.Topic, post.Platform, post.Format,
			post.MainIdea, post.Hook, post.CaptionDraft, post.CTA, post.VisualBrief, post.Notes,
			post.Status, post.PostLink, post.UpdatedAt, post.ID,
		)
		if err != nil {
			slog.Info(err.Error())
			return err
		}
		return r.assets.ReplaceForPost(ctx, tx, post)
	})
}

func (r *postRepository) GetByID(ctx context.Context, id string) (*models.Post, error) {
	query := `SELECT ` + postColumns + ` FROM posts WHERE id = $1`

	post, err := scanPost(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		slog.Info(err.Error())
		return nil, err
	}

	assets, err := r.assets.ListByPostIDs(ctx, []string{post.ID})
	if err != nil {
		return nil, err
	}
	if a, ok := assets[post.ID]; ok {
		post.Assets = a
	}
	return &post, nil
}

// ListByPageID returns the page's posts newest first, the order in which the
// dashboard shows them.
func (r *postRepository) ListByPageID(ctx context.Context, pageID string) ([]models.Post, error) {
	query := `SELECT ` + postColumns + ` FROM posts WHERE page_id = $1 ORDER BY created_at DESC, id`
	return r.list(ctx, query, pageID)
}

// ListByDateRange returns posts dated in [from, to].
func (r *postRepository) ListByDateRange(ctx context.Context, pageID, from, to string) ([]models.Post, error) {
	query := `SELECT ` + postColumns + ` FROM posts
		WHERE page_id = $1 AND post_date BETWEEN $2 AND $3
		ORDER BY post_date, time_slot, created_at`
	return r.list(ctx, query, pageID, from, to)
}

func (r *postRepository) list(ctx context.Context, query string, args ...any) ([]models.Post, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	defer rows.Close()

	posts := []models.Post{}
	ids := []string{}
	for rows.Next() {
		post, err := scanPost(rows)
		if err != nil {
			slog.Info(err.Error())
			return nil, err
		}
		posts = append(posts, post)
		ids = append(ids, post.ID)
	}
	if err := rows.Err(); err != nil {
		slog.Info(err.Error())
		return nil, err
	}

	if len(ids) == 0 {
		return posts, nil
	}
	assets, err := r.assets.ListByPostIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range posts {
		if a, ok := assets[posts[i].ID]; ok {
			posts[i].Assets = a
		}
	}
	return posts, nil
}

func (r *postRepository) CheckByPageID(ctx context.Context, postID, pageID string) (bool, error) {
	query := "SELECT 1 FROM posts WHERE id = $1 AND page_id = $2"

	var result int
	err := r.db.QueryRowContext(ctx, query, postID, pageID).Scan(&result)
	if err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		slog.Info(err.Error())
		return false, err
	}

	return result == 1, nil
}

func (r *postRepository) UpdatePostStatus(ctx context.Context, status models.PostStatus, postID string) error {
	query := `
		UPDATE posts
		SET status = $1,
			updated_at = $2
		WHERE id = $3
	`
	_, err := r.db.ExecContext(ctx, query, status, time.Now(), postID)
	if err != nil {
		slog.Info(err.Error())
		return err
	}
	return nil
}

func (r *postRepository) MarkPublished(ctx context.Context, postID, postLink string) error {
	query := `
		UPDATE posts
		SET status = $1,
			post_link = $2,
			updated_at = $3
		WHERE id = $4
	`
	_, err := r.db.ExecContext(ctx, query, models.PostStatusPublished, postLink, time.Now(), postID)
	if err != nil {
		slog.Info(err.Error())
		return err
	}
	return nil
}

func (r *postRepository) Remove(ctx context.Context, id string) error {
	query := `DELETE FROM posts WHERE id = $1`
	_, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		slog.Info(err.Error())
		return err
	}
	return nil
}
