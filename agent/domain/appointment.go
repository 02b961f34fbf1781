package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

type AppointmentStatus string

const (
	AppointmentScheduled AppointmentStatus = "scheduled"
	AppointmentConfirmed AppointmentStatus = "confirmed"
	AppointmentCancelled AppointmentStatus = "cancelled"
	AppointmentCompleted AppointmentStatus = "completed"
)

// SourceVoiceAgent tags every row written on behalf of the automated
// phone assistant, carrying no human operator identity.
const SourceVoiceAgent = "voice-agent"

// Appointment is a scheduled meeting on the business's single calendar.
// Intervals are half-open: [StartsAt, EndsAt). The booking ledger never
// lets two non-cancelled appointments overlap, regardless of lead.
type Appointment struct {
	bun.BaseModel `bun:"table:appointments,alias:a"`

	ID        uuid.UUID         `bun:"id,pk,type:uuid" json:"id"`
	LeadID    uuid.UUID         `bun:"lead_id,notnull,type:uuid" json:"lead_id"`
	Title     string            `bun:"title,notnull" json:"title"`
	StartsAt  time.Time         `bun:"starts_at,notnull" json:"starts_at"`
	EndsAt    time.Time         `bun:"ends_at,notnull" json:"ends_at"`
	Status    AppointmentStatus `bun:"status,notnull" json:"status"`
	Source    string            `bun:"source,notnull" json:"source"`
	CallID    string            `bun:"call_id,nullzero" json:"call_id,omitempty"`
	Virtual   bool              `bun:"virtual,notnull" json:"virtual"`
	CreatedAt time.Time         `bun:"created_at,notnull" json:"created_at"`
}

func (a *Appointment) Active() bool {
	return a.Status != AppointmentCancelled
}
