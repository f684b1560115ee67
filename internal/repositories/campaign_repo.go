package repositories

import (
	"context"
	"fmt"

	"github.com/ad-wizard/backend/internal/models"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

type AdCampaignRepo struct {
	pool *pgxpool.Pool
}

func NewAdCampaignRepo(pool *pgxpool.Pool) *AdCampaignRepo {
	return &AdCampaignRepo{pool: pool}
}

const campaignColumns = `id, project_id, user_id, platform, name, status,
	platform_campaign_id, platform_ad_set_id, platform_ad_ids, campaign_data, image_url,
	created_at, updated_at`

func scanCampaign(row interface{ Scan(dest ...any) error }) (*models.AdCampaign, error) {
	var c models.AdCampaign
	err := row.Scan(&c.ID, &c.ProjectID, &c.UserID, &c.Platform, &c.Name, &c.Status,
		&c.PlatformCampaignID, &c.PlatformAdSetID, &c.PlatformAdIDs, &c.CampaignData,
		&c.ImageURL, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *AdCampaignRepo) Create(ctx context.Context, c *models.AdCampaign) error {
	return r.pool.QueryRow(ctx, `
		INSERT INTO ad_campaigns (project_id, user_id, platform, name, status,
			platform_campaign_id, platform_ad_set_id, platform_ad_ids, campaign_data, image_url)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, created_at, updated_at
	`, c.ProjectID, c.UserID, c.Platform, c.Name, c.Status,
		c.PlatformCampaignID, c.PlatformAdSetID, c.PlatformAdIDs, c.CampaignData, c.ImageURL,
	).Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt)
}

func (r *AdCampaignRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.AdCampaign, error) {
	return scanCampaign(r.pool.QueryRow(ctx, `
		SELECT `+campaignColumns+` FROM ad_campaigns WHERE id = $1
	`, id))
}

func (r *AdCampaignRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status string) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE ad_campaigns SET status = $1, updated_at = now() WHERE id = $2
	`, status, id)
	return err
}

// UpdateResults rewrites the ad id list and the campaign_data snapshot after
// a per-creative retry run.
func (r *AdCampaignRepo) UpdateResults(ctx context.Context, id uuid.UUID, adIDs []string, campaignData []byte) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE ad_campaigns SET platform_ad_ids = $1, campaign_data = $2, updated_at = now()
		WHERE id = $3
	`, adIDs, campaignData, id)
	return err
}

func (r *AdCampaignRepo) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM ad_campaigns WHERE id = $1`, id)
	return err
}

type AdCampaignFilter struct {
	UserID    *uuid.UUID
	ProjectID *uuid.UUID
	Status    *string
	Limit     int
	Offset    int
}

func (r *AdCampaignRepo) List(ctx context.Context, f AdCampaignFilter) ([]models.AdCampaign, error) {
	query := `SELECT ` + campaignColumns + ` FROM ad_campaigns`
	args := []any{}
	argIdx := 1
	where := []string{}

	if f.UserID != nil {
		where = append(where, fmt.Sprintf("user_id = $%d", argIdx))
		args = append(args, *f.UserID)
		argIdx++
	}
	if f.ProjectID != nil {
		where = append(where, fmt.Sprintf("project_id = $%d", argIdx))
		args = append(args, *f.ProjectID)
		argIdx++
	}
	if f.Status != nil {
		where = append(where, fmt.Sprintf("status = $%d", argIdx))
		args = append(args, *f.Status)
		argIdx++
	}

	if len(where) > 0 {
		query += " WHERE "
		for i, w := range where {
			if i > 0 {
				query += " AND "
			}
			query += w
		}
	}

	limit := f.Limit
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", argIdx, argIdx+1)
	args = append(args, limit, f.Offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var campaigns []models.AdCampaign
	for rows.Next() {
		c, err := scanCampaign(rows)
		if err != nil {
			return nil, err
		}
		campaigns = append(campaigns, *c)
	}
	return campaigns, nil
}
