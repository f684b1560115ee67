package repositories

import (
	"context"
	"encoding/json"
	"time"

	"github.com/ad-wizard/backend/internal/models"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

type ConnectionRepo struct {
	pool *pgxpool.Pool
}

func NewConnectionRepo(pool *pgxpool.Pool) *ConnectionRepo {
	return &ConnectionRepo{pool: pool}
}

func (r *ConnectionRepo) scanRow(row interface{ Scan(dest ...any) error }) (*models.PlatformConnection, error) {
	var c models.PlatformConnection
	var metadata []byte
	err := row.Scan(&c.ID, &c.UserID, &c.Platform, &c.AccessToken, &c.TokenExpiresAt,
		&c.AccountID, &c.SelectedAdAccountID, &c.SelectedPageID, &metadata,
		&c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	c.Metadata = models.DecodeConnectionMetadata(metadata)
	return &c, nil
}

const connectionColumns = `id, user_id, platform, access_token, token_expires_at,
	account_id, selected_ad_account_id, selected_page_id, metadata, created_at, updated_at`

func (r *ConnectionRepo) Get(ctx context.Context, userID uuid.UUID, platform string) (*models.PlatformConnection, error) {
	return r.scanRow(r.pool.QueryRow(ctx, `
		SELECT `+connectionColumns+`
		FROM platform_connections WHERE user_id = $1 AND platform = $2
	`, userID, platform))
}

// Upsert stores the OAuth result. Metadata replaces the stored value; the
// account selection is reset so the caller must select explicitly.
func (r *ConnectionRepo) Upsert(ctx context.Context, c *models.PlatformConnection) error {
	metadata, err := json.Marshal(c.Metadata)
	if err != nil {
		return err
	}
	return r.pool.QueryRow(ctx, `
		INSERT INTO platform_connections (user_id, platform, access_token, token_expires_at, account_id, metadata)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (user_id, platform) DO UPDATE SET
			access_token = EXCLUDED.access_token,
			token_expires_at = EXCLUDED.token_expires_at,
			account_id = EXCLUDED.account_id,
			metadata = EXCLUDED.metadata,
			selected_ad_account_id = NULL,
			selected_page_id = NULL,
			updated_at = now()
		RETURNING id, created_at, updated_at
	`, c.UserID, c.Platform, c.AccessToken, c.TokenExpiresAt, c.AccountID, metadata).
		Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt)
}

func (r *ConnectionRepo) SelectAdAccount(ctx context.Context, userID uuid.UUID, platform, adAccountID string) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE platform_connections SET selected_ad_account_id = $1, updated_at = now()
		WHERE user_id = $2 AND platform = $3
	`, adAccountID, userID, platform)
	return err
}

func (r *ConnectionRepo) SelectPage(ctx context.Context, userID uuid.UUID, platform, pageID string) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE platform_connections SET selected_page_id = $1, updated_at = now()
		WHERE user_id = $2 AND platform = $3
	`, pageID, userID, platform)
	return err
}

func (r *ConnectionRepo) Delete(ctx context.Context, userID uuid.UUID, platform string) error {
	_, err := r.pool.Exec(ctx, `
		DELETE FROM platform_connections WHERE user_id = $1 AND platform = $2
	`, userID, platform)
	return err
}

// ListExpired returns connections whose recorded expiry is older than now.
// Used by the worker sweep.
func (r *ConnectionRepo) ListExpired(ctx context.Context, before time.Time) ([]models.PlatformConnection, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+connectionColumns+`
		FROM platform_connections
		WHERE token_expires_at IS NOT NULL AND token_expires_at < $1
	`, before)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var conns []models.PlatformConnection
	for rows.Next() {
		c, err := r.scanRow(rows)
		if err != nil {
			return nil, err
		}
		conns = append(conns, *c)
	}
	return conns, nil
}
