package store

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/uptrace/bun"

	contractx "github.com/voxagenda/voxagenda/agent/contract"
	"github.com/voxagenda/voxagenda/agent/domain"
)

type ActivityRepo struct {
	db *bun.DB
}

var _ contractx.ActivityStore = (*ActivityRepo)(nil)

func NewActivityRepo(db *bun.DB) *ActivityRepo {
	return &ActivityRepo{db: db}
}

func (r *ActivityRepo) Create(ctx context.Context, act *domain.Activity) error {
	if _, err := r.db.NewInsert().Model(act).Exec(ctx); err != nil {
		return fmt.Errorf("insert activity: %w", err)
	}
	return nil
}

func (r *ActivityRepo) ListByLead(ctx context.Context, leadID uuid.UUID) ([]domain.Activity, error) {
	var out []domain.Activity
	err := r.db.NewSelect().
		Model(&out).
		Where("ac.lead_id = ?", leadID).
		Order("created_at ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("select activities: %w", err)
	}
	return out, nil
}
