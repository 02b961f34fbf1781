package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/uptrace/bun"

	contractx "github.com/voxagenda/voxagenda/agent/contract"
	"github.com/voxagenda/voxagenda/agent/domain"
)

// calendarLockKey serializes booking attempts on the business's single
// calendar. With per-team calendars this would become a derived key.
const calendarLockKey = int64(0x766f7861)

type AppointmentRepo struct {
	db *bun.DB
}

var _ contractx.AppointmentStore = (*AppointmentRepo)(nil)

func NewAppointmentRepo(db *bun.DB) *AppointmentRepo {
	return &AppointmentRepo{db: db}
}

func (r *AppointmentRepo) ActiveBetween(ctx context.Context, from, to time.Time) ([]domain.Appointment, error) {
	var out []domain.Appointment
	err := r.db.NewSelect().
		Model(&out).
		Where("a.status != ?", domain.AppointmentCancelled).
		Where("a.starts_at < ?", to).
		Where("a.ends_at > ?", from).
		Order("starts_at ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("select appointments: %w", err)
	}
	return out, nil
}

// CreateIfFree re-checks the half-open overlap condition and inserts inside
// one transaction, serialized on the calendar's advisory lock so two
// concurrent bookings for the same slot cannot both pass the check.
func (r *AppointmentRepo) CreateIfFree(ctx context.Context, appt *domain.Appointment) error {
	return r.db.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		if _, err := tx.ExecContext(ctx, "SELECT pg_advisory_xact_lock(?)", calendarLockKey); err != nil {
			return fmt.Errorf("acquire calendar lock: %w", err)
		}

		taken, err := tx.NewSelect().
			Model((*domain.Appointment)(nil)).
			Where("a.status != ?", domain.AppointmentCancelled).
			Where("a.starts_at < ?", appt.EndsAt).
			Where("a.ends_at > ?", appt.StartsAt).
			Count(ctx)
		if err != nil {
			return fmt.Errorf("overlap check: %w", err)
		}
		if taken > 0 {
			return contractx.ErrSlotTaken
		}

		if _, err := tx.NewInsert().Model(appt).Exec(ctx); err != nil {
			return fmt.Errorf("insert appointment: %w", err)
		}
		return nil
	})
}
