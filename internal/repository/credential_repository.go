package repository

import (
	"context"
	"database/sql"
	"log/slog"

	"github.com/maheshrc27/content-planner/internal/models"
)

// CredentialRepository stores the operator's provider logins, one per provider.
type CredentialRepository interface {
	Upsert(ctx context.Context, c *models.OperatorCredential) error
	GetByProvider(ctx context.Context, provider string) (*models.OperatorCredential, error)
	Remove(ctx context.Context, provider string) error
}

type credentialRepository struct {
	db *sql.DB
}

func NewCredentialRepository(db *sql.DB) CredentialRepository {
	return &credentialRepository{db: db}
}

func (r *credentialRepository) Upsert(ctx context.Context, c *models.OperatorCredential) error {
	tx, err := r.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelSerializable})
	if err != nil {
		slog.Info(err.Error())
		return err
	}
	defer tx.Rollback()

	query := `
		INSERT INTO operator_credentials (provider, account_id, account_name, access_token, token_expires_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (provider) DO UPDATE
		SET account_id = EXCLUDED.account_id,
			account_name = EXCLUDED.account_name,
			access_token = COALESCE(NULLIF(EXCLUDED.access_token, ''), operator_credentials.access_token),
			token_expires_at = EXCLUDED.token_expires_at,
			updated_at = CURRENT_TIMESTAMP
		RETURNING created_at, updated_at
	`
	err = tx.QueryRowContext(ctx, query,
		c.Provider, c.AccountID, c.AccountName, c.AccessToken, c.TokenExpiresAt,
	).Scan(&c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		slog.Info(err.Error())
		return err
	}

	if err = tx.Commit(); err != nil {
		slog.Info(err.Error())
		return err
	}
	return nil
}

func (r *credentialRepository) GetByProvider(ctx context.Context, provider string) (*models.OperatorCredential, error) {
	query := `
		SELECT provider, account_id, account_name, access_token, token_expires_at, created_at, updated_at
		FROM operator_credentials
		WHERE provider = $1
	`
	var c models.OperatorCredential
	err := r.db.QueryRowContext(ctx, query, provider).Scan(
		&c.Provider, &c.AccountID, &c.AccountName, &c.AccessToken, &c.TokenExpiresAt, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		slog.Info(err.Error())
		return nil, err
	}
	return &c, nil
}

func (r *credentialRepository) Remove(ctx context.Context, provider string) error {
	query := `DELETE FROM operator_credentials WHERE provider = $1`
	_, err := r.db.ExecContext(ctx, query, provider)
	if err != nil {
		slog.Info(err.Error())
		return err
	}
	return nil
}
