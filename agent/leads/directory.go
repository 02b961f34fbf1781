package leads

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	contractx "github.com/voxagenda/voxagenda/agent/contract"
	"github.com/voxagenda/voxagenda/agent/domain"
)

// Directory resolves callers to sales leads and keeps the audit trail.
// It is the only writer of lead and activity rows.
type Directory struct {
	leads      contractx.LeadStore
	activities contractx.ActivityStore
	now        func() time.Time
}

func NewDirectory(leads contractx.LeadStore, activities contractx.ActivityStore) (*Directory, error) {
	if leads == nil {
		return nil, errors.New("lead store is required")
	}
	if activities == nil {
		return nil, errors.New("activity store is required")
	}
	return &Directory{
		leads:      leads,
		activities: activities,
		now:        time.Now,
	}, nil
}

// ResolveOrCreate finds the lead for the given contact info, trying phone
// first, then email, and provisions a new lead when neither matches. An
// existing lead is enriched with any contact detail or name it was missing.
func (d *Directory) ResolveOrCreate(ctx context.Context, phone, email, name, source string) (*domain.Lead, error) {
	phone = strings.TrimSpace(phone)
	email = strings.TrimSpace(strings.ToLower(email))
	name = strings.TrimSpace(name)

	if phone == "" && email == "" {
		return nil, fmt.Errorf("%w: phone or email is required", contractx.ErrValidation)
	}

	lead, err := d.resolve(ctx, phone, email)
	if err != nil && !errors.Is(err, contractx.ErrLeadNotFound) {
		return nil, err
	}
	if lead != nil {
		return d.enrich(ctx, lead, phone, email, name)
	}

	now := d.now().UTC()
	lead = &domain.Lead{
		ID:            uuid.New(),
		Name:          name,
		Phone:         phone,
		Email:         email,
		Status:        domain.LeadStatusNew,
		Temperature:   domain.TemperatureWarm,
		Source:        source,
		LastContactAt: now,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if lead.Name == "" {
		lead.Name = "Sin nombre"
	}
	if err := d.leads.Create(ctx, lead); err != nil {
		return nil, fmt.Errorf("create lead: %w", err)
	}

	log.Info().Str("lead_id", lead.ID.String()).Str("source", source).Msg("lead created")
	return lead, nil
}

func (d *Directory) resolve(ctx context.Context, phone, email string) (*domain.Lead, error) {
	if phone != "" {
		lead, err := d.leads.FindByPhone(ctx, phone)
		if err == nil {
			return lead, nil
		}
		if !errors.Is(err, contractx.ErrLeadNotFound) {
			return nil, err
		}
	}
	if email != "" {
		return d.leads.FindByEmail(ctx, email)
	}
	return nil, contractx.ErrLeadNotFound
}

// enrich fills in contact details the stored lead was missing and bumps the
// last-contact timestamp. It never overwrites known values.
func (d *Directory) enrich(ctx context.Context, lead *domain.Lead, phone, email, name string) (*domain.Lead, error) {
	if lead.Phone == "" && phone != "" {
		lead.Phone = phone
	}
	if lead.Email == "" && email != "" {
		lead.Email = email
	}
	if lead.Name == "" || lead.Name == "Sin nombre" {
		if name != "" {
			lead.Name = name
		}
	}
	lead.LastContactAt = d.now().UTC()
	lead.UpdatedAt = lead.LastContactAt
	if err := d.leads.Update(ctx, lead); err != nil {
		return nil, fmt.Errorf("update lead: %w", err)
	}
	return lead, nil
}

// UpdateStatus moves the lead identified by phone or email through the
// pipeline. Re-applying the current status is a no-op success and writes no
// activity. A lost status may carry a reason.
func (d *Directory) UpdateStatus(ctx context.Context, phone, email string, status domain.LeadStatus, temperature domain.Temperature, lostReason string) (*domain.Lead, error) {
	if !status.Valid() {
		return nil, fmt.Errorf("%w: unknown status %q", contractx.ErrValidation, status)
	}
	if temperature != "" && !temperature.Valid() {
		return nil, fmt.Errorf("%w: unknown temperature %q", contractx.ErrValidation, temperature)
	}

	lead, err := d.resolve(ctx, strings.TrimSpace(phone), strings.TrimSpace(strings.ToLower(email)))
	if err != nil {
		return nil, err
	}

	changed := lead.Status != status
	if temperature != "" && lead.Temperature != temperature {
		changed = true
	}
	if status == domain.LeadStatusLost && lostReason != "" && lead.LostReason != lostReason {
		changed = true
	}
	if !changed {
		return lead, nil
	}

	prev := lead.Status
	lead.Status = status
	if temperature != "" {
		lead.Temperature = temperature
	}
	if status == domain.LeadStatusLost {
		lead.LostReason = lostReason
	} else {
		lead.LostReason = ""
	}
	lead.LastContactAt = d.now().UTC()
	lead.UpdatedAt = lead.LastContactAt

	if err := d.leads.Update(ctx, lead); err != nil {
		return nil, fmt.Errorf("update lead status: %w", err)
	}
	d.record(ctx, lead.ID, domain.ActivityStatus, "Estado actualizado",
		fmt.Sprintf("%s -> %s", prev, status))
	return lead, nil
}

// MarkBooked applies the fixed side effect of a successful booking: the
// lead is qualified and hot. A booked demo is a strong qualification
// signal, so this is not configurable.
func (d *Directory) MarkBooked(ctx context.Context, lead *domain.Lead, appt *domain.Appointment) error {
	lead.Status = domain.LeadStatusQualified
	lead.Temperature = domain.TemperatureHot
	lead.LastContactAt = d.now().UTC()
	lead.UpdatedAt = lead.LastContactAt
	if err := d.leads.Update(ctx, lead); err != nil {
		return fmt.Errorf("qualify lead after booking: %w", err)
	}
	d.record(ctx, lead.ID, domain.ActivityBooking, "Cita reservada",
		fmt.Sprintf("%s, %s - %s", appt.Title, appt.StartsAt.Format("2006-01-02 15:04"), appt.EndsAt.Format("15:04")))
	return nil
}

// AppendNote attaches a free-form note to the lead for the given contact
// info, provisioning a minimal lead first when none resolves. Caller
// information is never dropped because resolution failed.
func (d *Directory) AppendNote(ctx context.Context, phone, email, name, text, category string) (*domain.Lead, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, fmt.Errorf("%w: note text is required", contractx.ErrValidation)
	}

	lead, err := d.ResolveOrCreate(ctx, phone, email, name, domain.SourceVoiceAgent)
	if err != nil {
		return nil, err
	}

	if lead.Notes == "" {
		lead.Notes = text
	} else {
		lead.Notes = lead.Notes + "\n" + text
	}
	lead.UpdatedAt = d.now().UTC()
	if err := d.leads.Update(ctx, lead); err != nil {
		return nil, fmt.Errorf("append note: %w", err)
	}

	title := "Nota"
	if category != "" {
		title = "Nota: " + category
	}
	d.record(ctx, lead.ID, domain.ActivityNote, title, text)
	return lead, nil
}

// record writes an audit entry. Failing to write the trail is logged but
// does not undo the mutation it describes.
func (d *Directory) record(ctx context.Context, leadID uuid.UUID, kind domain.ActivityKind, title, body string) {
	act := &domain.Activity{
		ID:        uuid.New(),
		LeadID:    leadID,
		Kind:      kind,
		Title:     title,
		Body:      body,
		Actor:     domain.SourceVoiceAgent,
		CreatedAt: d.now().UTC(),
	}
	if err := d.activities.Create(ctx, act); err != nil {
		log.Error().Err(err).Str("lead_id", leadID.String()).Str("kind", string(kind)).Msg("activity write failed")
	}
}
