package repositories

import (
	"context"
	"encoding/json"

	"github.com/ad-wizard/backend/internal/models"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

type ProjectRepo struct {
	pool *pgxpool.Pool
}

func NewProjectRepo(pool *pgxpool.Pool) *ProjectRepo {
	return &ProjectRepo{pool: pool}
}

func (r *ProjectRepo) Create(ctx context.Context, p *models.Project) error {
	idea, err := json.Marshal(p.BusinessIdea)
	if err != nil {
		return err
	}
	audience, err := json.Marshal(p.TargetAudience)
	if err != nil {
		return err
	}
	return r.pool.QueryRow(ctx, `
		INSERT INTO projects (user_id, name, business_idea, target_audience)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`, p.UserID, p.Name, idea, audience).Scan(&p.ID, &p.CreatedAt)
}

func (r *ProjectRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Project, error) {
	var p models.Project
	var idea, audience []byte
	err := r.pool.QueryRow(ctx, `
		SELECT id, user_id, name, business_idea, target_audience, created_at
		FROM projects WHERE id = $1
	`, id).Scan(&p.ID, &p.UserID, &p.Name, &idea, &audience, &p.CreatedAt)
	if err != nil {
		return nil, err
	}
	p.BusinessIdea = models.DecodeBusinessIdea(idea)
	p.TargetAudience = models.DecodeTargetAudience(audience)
	return &p, nil
}

func (r *ProjectRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Project, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, user_id, name, business_idea, target_audience, created_at
		FROM projects WHERE user_id = $1 ORDER BY created_at DESC
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Project
	for rows.Next() {
		var p models.Project
		var idea, audience []byte
		if err := rows.Scan(&p.ID, &p.UserID, &p.Name, &idea, &audience, &p.CreatedAt); err != nil {
			return nil, err
		}
		p.BusinessIdea = models.DecodeBusinessIdea(idea)
		p.TargetAudience = models.DecodeTargetAudience(audience)
		out = append(out, p)
	}
	return out, nil
}
