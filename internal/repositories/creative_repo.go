package repositories

import (
	"context"
	"encoding/json"

	"github.com/ad-wizard/backend/internal/models"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

type CreativeRepo struct {
	pool *pgxpool.Pool
}

func NewCreativeRepo(pool *pgxpool.Pool) *CreativeRepo {
	return &CreativeRepo{pool: pool}
}

const creativeColumns = `id, project_id, platform, headline, primary_text, image_url,
	size, fb_ad_settings, created_at, updated_at`

func scanCreative(row interface{ Scan(dest ...any) error }) (*models.AdVariant, error) {
	var v models.AdVariant
	var size, settings []byte
	err := row.Scan(&v.ID, &v.ProjectID, &v.Platform, &v.Headline, &v.PrimaryText,
		&v.ImageURL, &size, &settings, &v.CreatedAt, &v.UpdatedAt)
	if err != nil {
		return nil, err
	}
	v.Size = models.DecodeAdSize(size)
	v.FBAdSettings = models.DecodeFacebookAdSettings(settings)
	return &v, nil
}

func (r *CreativeRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.AdVariant, error) {
	return scanCreative(r.pool.QueryRow(ctx, `
		SELECT `+creativeColumns+` FROM ad_variants WHERE id = $1
	`, id))
}

func (r *CreativeRepo) ListByProject(ctx context.Context, projectID uuid.UUID) ([]models.AdVariant, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+creativeColumns+` FROM ad_variants
		WHERE project_id = $1 ORDER BY created_at
	`, projectID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.AdVariant
	for rows.Next() {
		v, err := scanCreative(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *v)
	}
	return out, nil
}

func (r *CreativeRepo) ListByIDs(ctx context.Context, ids []uuid.UUID) ([]models.AdVariant, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+creativeColumns+` FROM ad_variants WHERE id = ANY($1)
	`, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.AdVariant
	for rows.Next() {
		v, err := scanCreative(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *v)
	}
	return out, nil
}

func (r *CreativeRepo) Create(ctx context.Context, v *models.AdVariant) error {
	size, err := json.Marshal(v.Size)
	if err != nil {
		return err
	}
	var settings []byte
	if v.FBAdSettings != nil {
		if settings, err = json.Marshal(v.FBAdSettings); err != nil {
			return err
		}
	}
	return r.pool.QueryRow(ctx, `
		INSERT INTO ad_variants (project_id, platform, headline, primary_text, image_url, size, fb_ad_settings)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, updated_at
	`, v.ProjectID, v.Platform, v.Headline, v.PrimaryText, v.ImageURL, size, settings).
		Scan(&v.ID, &v.CreatedAt, &v.UpdatedAt)
}

// UpdateCopy edits the text/image fields of a variant.
func (r *CreativeRepo) UpdateCopy(ctx context.Context, id uuid.UUID, headline, primaryText, imageURL string) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE ad_variants SET headline = $1, primary_text = $2, image_url = $3, updated_at = now()
		WHERE id = $4
	`, headline, primaryText, imageURL, id)
	return err
}

// ApplySettings bulk-applies a FacebookAdSettings payload to a set of
// creatives.
func (r *CreativeRepo) ApplySettings(ctx context.Context, ids []uuid.UUID, settings models.FacebookAdSettings) error {
	raw, err := json.Marshal(settings)
	if err != nil {
		return err
	}
	_, err = r.pool.Exec(ctx, `
		UPDATE ad_variants SET fb_ad_settings = $1, updated_at = now()
		WHERE id = ANY($2)
	`, raw, ids)
	return err
}

func (r *CreativeRepo) Duplicate(ctx context.Context, id uuid.UUID) (*models.AdVariant, error) {
	return scanCreative(r.pool.QueryRow(ctx, `
		INSERT INTO ad_variants (project_id, platform, headline, primary_text, image_url, size, fb_ad_settings)
		SELECT project_id, platform, headline, primary_text, image_url, size, fb_ad_settings
		FROM ad_variants WHERE id = $1
		RETURNING `+creativeColumns+`
	`, id))
}

func (r *CreativeRepo) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM ad_variants WHERE id = $1`, id)
	return err
}

// ProjectOwner resolves the owning user of a creative, for authorization.
func (r *CreativeRepo) ProjectOwner(ctx context.Context, creativeID uuid.UUID) (uuid.UUID, error) {
	var owner uuid.UUID
	err := r.pool.QueryRow(ctx, `
		SELECT p.user_id FROM ad_variants v
		JOIN projects p ON p.id = v.project_id
		WHERE v.id = $1
	`, creativeID).Scan(&owner)
	return owner, err
}
