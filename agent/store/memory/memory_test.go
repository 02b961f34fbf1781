package memory

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	contractx "github.com/voxagenda/voxagenda/agent/contract"
	"github.com/voxagenda/voxagenda/agent/domain"
)

func TestLeadRoundTrip(t *testing.T) {
	t.Parallel()

	st := New()
	ctx := context.Background()
	lead := &domain.Lead{
		ID:     uuid.New(),
		Name:   "Ana",
		Phone:  "+34600000000",
		Email:  "ana@example.com",
		Status: domain.LeadStatusNew,
	}
	require.NoError(t, st.Leads().Create(ctx, lead))

	byPhone, err := st.Leads().FindByPhone(ctx, "+34600000000")
	require.NoError(t, err)
	assert.Equal(t, lead.ID, byPhone.ID)

	byEmail, err := st.Leads().FindByEmail(ctx, "ANA@example.com")
	require.NoError(t, err)
	assert.Equal(t, lead.ID, byEmail.ID, "email lookup is case-insensitive")

	_, err = st.Leads().FindByPhone(ctx, "+34999999999")
	assert.ErrorIs(t, err, contractx.ErrLeadNotFound)

	// mutating the returned copy must not leak into the store
	byPhone.Name = "changed"
	fresh, err := st.Leads().FindByID(ctx, lead.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ana", fresh.Name)
}

func TestUpdateUnknownLead(t *testing.T) {
	t.Parallel()

	st := New()
	err := st.Leads().Update(context.Background(), &domain.Lead{ID: uuid.New()})
	assert.ErrorIs(t, err, contractx.ErrLeadNotFound)
}

func TestCreateIfFreeIgnoresCancelled(t *testing.T) {
	t.Parallel()

	st := New()
	ctx := context.Background()
	start := time.Date(2026, time.April, 1, 10, 0, 0, 0, time.UTC)

	cancelled := &domain.Appointment{
		ID:       uuid.New(),
		StartsAt: start,
		EndsAt:   start.Add(30 * time.Minute),
		Status:   domain.AppointmentCancelled,
	}
	require.NoError(t, st.Appointments().CreateIfFree(ctx, cancelled))

	// cancelled rows do not block the slot
	replacement := &domain.Appointment{
		ID:       uuid.New(),
		StartsAt: start,
		EndsAt:   start.Add(30 * time.Minute),
		Status:   domain.AppointmentScheduled,
	}
	require.NoError(t, st.Appointments().CreateIfFree(ctx, replacement))

	// but scheduled rows do
	err := st.Appointments().CreateIfFree(ctx, &domain.Appointment{
		ID:       uuid.New(),
		StartsAt: start.Add(15 * time.Minute),
		EndsAt:   start.Add(45 * time.Minute),
		Status:   domain.AppointmentScheduled,
	})
	assert.ErrorIs(t, err, contractx.ErrSlotTaken)
}

func TestActiveBetweenSortedAndFiltered(t *testing.T) {
	t.Parallel()

	st := New()
	ctx := context.Background()
	base := time.Date(2026, time.April, 1, 9, 0, 0, 0, time.UTC)

	for _, offset := range []time.Duration{4 * time.Hour, 0, 2 * time.Hour} {
		require.NoError(t, st.Appointments().CreateIfFree(ctx, &domain.Appointment{
			ID:       uuid.New(),
			StartsAt: base.Add(offset),
			EndsAt:   base.Add(offset + 30*time.Minute),
			Status:   domain.AppointmentScheduled,
		}))
	}

	out, err := st.Appointments().ActiveBetween(ctx, base, base.Add(3*time.Hour))
	require.NoError(t, err)
	require.Len(t, out, 2, "the 13:00 booking is outside the window")
	assert.True(t, out[0].StartsAt.Before(out[1].StartsAt))
}
