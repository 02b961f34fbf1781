package booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	contractx "github.com/voxagenda/voxagenda/agent/contract"
	"github.com/voxagenda/voxagenda/agent/domain"
	"github.com/voxagenda/voxagenda/agent/leads"
	"github.com/voxagenda/voxagenda/agent/schedule"
)

// Ledger owns appointment creation. It is the only component allowed to
// write appointment rows, and the conflict check it relies on happens
// inside the store's own transaction.
type Ledger struct {
	appointments contractx.AppointmentStore
	directory    *leads.Directory
	hours        schedule.Hours
	duration     time.Duration
	now          func() time.Time
}

type Option func(*Ledger)

func WithHours(h schedule.Hours) Option {
	return func(l *Ledger) {
		if h.Open < h.Close {
			l.hours = h
		}
	}
}

func WithDefaultDuration(d time.Duration) Option {
	return func(l *Ledger) {
		if d > 0 {
			l.duration = d
		}
	}
}

func NewLedger(appointments contractx.AppointmentStore, directory *leads.Directory, opts ...Option) (*Ledger, error) {
	if appointments == nil {
		return nil, errors.New("appointment store is required")
	}
	if directory == nil {
		return nil, errors.New("lead directory is required")
	}
	l := &Ledger{
		appointments: appointments,
		directory:    directory,
		hours:        schedule.DefaultHours,
		duration:     schedule.DefaultDuration,
		now:          time.Now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(l)
		}
	}
	return l, nil
}

// BookRequest carries everything one booking tool call supplies. Duration
// zero means the configured default.
type BookRequest struct {
	Name     string
	Phone    string
	Email    string
	Title    string
	Start    time.Time
	Duration time.Duration
	CallID   string
	Virtual  bool
}

// Book creates the appointment, provisioning the lead first when needed,
// and applies the qualification side effect on success. A slot conflict
// comes back as contract.ErrSlotTaken with no appointment written.
func (l *Ledger) Book(ctx context.Context, req BookRequest) (*domain.Appointment, error) {
	if req.Start.IsZero() {
		return nil, fmt.Errorf("%w: start time is required", contractx.ErrValidation)
	}
	duration := req.Duration
	if duration <= 0 {
		duration = l.duration
	}

	lead, err := l.directory.ResolveOrCreate(ctx, req.Phone, req.Email, req.Name, domain.SourceVoiceAgent)
	if err != nil {
		return nil, err
	}

	title := req.Title
	if title == "" {
		title = "Cita con " + lead.Name
	}

	appt := &domain.Appointment{
		ID:        uuid.New(),
		LeadID:    lead.ID,
		Title:     title,
		StartsAt:  req.Start,
		EndsAt:    req.Start.Add(duration),
		Status:    domain.AppointmentScheduled,
		Source:    domain.SourceVoiceAgent,
		CallID:    req.CallID,
		Virtual:   req.Virtual,
		CreatedAt: l.now().UTC(),
	}

	if err := l.appointments.CreateIfFree(ctx, appt); err != nil {
		return nil, err
	}

	// The appointment exists at this point. A failed lead update must not
	// undo the booking; it is logged and the trail catches up on the next
	// touch of the lead.
	if err := l.directory.MarkBooked(ctx, lead, appt); err != nil {
		log.Error().Err(err).
			Str("appointment_id", appt.ID.String()).
			Str("lead_id", lead.ID.String()).
			Msg("booked but lead qualification failed")
	}

	return appt, nil
}

// FreeSlots lists open start times for the given calendar day, checked
// against the live appointment store with the same overlap predicate Book
// enforces. An empty list means no availability, not an error.
func (l *Ledger) FreeSlots(ctx context.Context, day time.Time, duration time.Duration) ([]time.Time, error) {
	if duration <= 0 {
		duration = l.duration
	}

	y, m, d := day.Date()
	from := time.Date(y, m, d, 0, 0, 0, 0, day.Location())
	to := from.AddDate(0, 0, 1)

	booked, err := l.appointments.ActiveBetween(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("load bookings: %w", err)
	}

	busy := make([]schedule.Interval, 0, len(booked))
	for _, appt := range booked {
		busy = append(busy, schedule.Interval{Start: appt.StartsAt, End: appt.EndsAt})
	}

	return schedule.Collect(schedule.FreeSlots(day, duration, busy, l.hours)), nil
}

// DefaultDuration is the meeting length used when a tool call does not
// request one.
func (l *Ledger) DefaultDuration() time.Duration {
	return l.duration
}
