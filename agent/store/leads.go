package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/uptrace/bun"

	contractx "github.com/voxagenda/voxagenda/agent/contract"
	"github.com/voxagenda/voxagenda/agent/domain"
)

type LeadRepo struct {
	db *bun.DB
}

var _ contractx.LeadStore = (*LeadRepo)(nil)

func NewLeadRepo(db *bun.DB) *LeadRepo {
	return &LeadRepo{db: db}
}

func (r *LeadRepo) FindByID(ctx context.Context, id uuid.UUID) (*domain.Lead, error) {
	lead := new(domain.Lead)
	if err := r.db.NewSelect().Model(lead).Where("l.id = ?", id).Limit(1).Scan(ctx); err != nil {
		return nil, mapNotFound(err)
	}
	return lead, nil
}

func (r *LeadRepo) FindByPhone(ctx context.Context, phone string) (*domain.Lead, error) {
	lead := new(domain.Lead)
	if err := r.db.NewSelect().Model(lead).Where("l.phone = ?", phone).Limit(1).Scan(ctx); err != nil {
		return nil, mapNotFound(err)
	}
	return lead, nil
}

func (r *LeadRepo) FindByEmail(ctx context.Context, email string) (*domain.Lead, error) {
	lead := new(domain.Lead)
	if err := r.db.NewSelect().Model(lead).Where("lower(l.email) = lower(?)", email).Limit(1).Scan(ctx); err != nil {
		return nil, mapNotFound(err)
	}
	return lead, nil
}

func (r *LeadRepo) Create(ctx context.Context, lead *domain.Lead) error {
	if _, err := r.db.NewInsert().Model(lead).Exec(ctx); err != nil {
		return fmt.Errorf("insert lead: %w", err)
	}
	return nil
}

func (r *LeadRepo) Update(ctx context.Context, lead *domain.Lead) error {
	res, err := r.db.NewUpdate().Model(lead).WherePK().Exec(ctx)
	if err != nil {
		return fmt.Errorf("update lead: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return contractx.ErrLeadNotFound
	}
	return nil
}

func mapNotFound(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return contractx.ErrLeadNotFound
	}
	return err
}
