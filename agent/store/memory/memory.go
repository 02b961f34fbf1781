// Package memory holds mutex-guarded in-process implementations of the
// store contracts, used by tests and by local runs without a database.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	contractx "github.com/voxagenda/voxagenda/agent/contract"
	"github.com/voxagenda/voxagenda/agent/domain"
)

// Store is the shared in-memory dataset. The entity repos hand out by
// Leads, Appointments and Activities all serialize on the same lock.
type Store struct {
	mu           sync.Mutex
	leads        map[uuid.UUID]domain.Lead
	appointments map[uuid.UUID]domain.Appointment
	activities   []domain.Activity
}

func New() *Store {
	return &Store{
		leads:        make(map[uuid.UUID]domain.Lead),
		appointments: make(map[uuid.UUID]domain.Appointment),
	}
}

func (s *Store) Leads() contractx.LeadStore               { return &leadRepo{s} }
func (s *Store) Appointments() contractx.AppointmentStore { return &appointmentRepo{s} }
func (s *Store) Activities() contractx.ActivityStore      { return &activityRepo{s} }

type leadRepo struct{ s *Store }

func (r *leadRepo) FindByID(_ context.Context, id uuid.UUID) (*domain.Lead, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if lead, ok := r.s.leads[id]; ok {
		return &lead, nil
	}
	return nil, contractx.ErrLeadNotFound
}

func (r *leadRepo) FindByPhone(_ context.Context, phone string) (*domain.Lead, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, lead := range r.s.leads {
		if lead.Phone != "" && lead.Phone == phone {
			l := lead
			return &l, nil
		}
	}
	return nil, contractx.ErrLeadNotFound
}

func (r *leadRepo) FindByEmail(_ context.Context, email string) (*domain.Lead, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, lead := range r.s.leads {
		if lead.Email != "" && strings.EqualFold(lead.Email, email) {
			l := lead
			return &l, nil
		}
	}
	return nil, contractx.ErrLeadNotFound
}

func (r *leadRepo) Create(_ context.Context, lead *domain.Lead) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.leads[lead.ID] = *lead
	return nil
}

func (r *leadRepo) Update(_ context.Context, lead *domain.Lead) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.leads[lead.ID]; !ok {
		return contractx.ErrLeadNotFound
	}
	r.s.leads[lead.ID] = *lead
	return nil
}

type appointmentRepo struct{ s *Store }

func (r *appointmentRepo) ActiveBetween(_ context.Context, from, to time.Time) ([]domain.Appointment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []domain.Appointment
	for _, appt := range r.s.appointments {
		if !appt.Active() {
			continue
		}
		if appt.StartsAt.Before(to) && appt.EndsAt.After(from) {
			out = append(out, appt)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartsAt.Before(out[j].StartsAt) })
	return out, nil
}

// CreateIfFree checks for overlap and inserts under one lock acquisition,
// so two racing bookings for the same interval cannot both win.
func (r *appointmentRepo) CreateIfFree(_ context.Context, appt *domain.Appointment) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.appointments {
		if !existing.Active() {
			continue
		}
		if appt.StartsAt.Before(existing.EndsAt) && existing.StartsAt.Before(appt.EndsAt) {
			return contractx.ErrSlotTaken
		}
	}
	r.s.appointments[appt.ID] = *appt
	return nil
}

type activityRepo struct{ s *Store }

func (r *activityRepo) Create(_ context.Context, act *domain.Activity) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.activities = append(r.s.activities, *act)
	return nil
}

func (r *activityRepo) ListByLead(_ context.Context, leadID uuid.UUID) ([]domain.Activity, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []domain.Activity
	for _, act := range r.s.activities {
		if act.LeadID == leadID {
			out = append(out, act)
		}
	}
	return out, nil
}
