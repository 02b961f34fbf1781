package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

type LeadStatus string

const (
	LeadStatusNew         LeadStatus = "new"
	LeadStatusContacted   LeadStatus = "contacted"
	LeadStatusQualified   LeadStatus = "qualified"
	LeadStatusProposal    LeadStatus = "proposal"
	LeadStatusNegotiating LeadStatus = "negotiating"
	LeadStatusWon         LeadStatus = "won"
	LeadStatusLost        LeadStatus = "lost"
)

func (s LeadStatus) Valid() bool {
	switch s {
	case LeadStatusNew, LeadStatusContacted, LeadStatusQualified,
		LeadStatusProposal, LeadStatusNegotiating, LeadStatusWon, LeadStatusLost:
		return true
	}
	return false
}

type Temperature string

const (
	TemperatureCold Temperature = "cold"
	TemperatureWarm Temperature = "warm"
	TemperatureHot  Temperature = "hot"
)

func (t Temperature) Valid() bool {
	switch t {
	case TemperatureCold, TemperatureWarm, TemperatureHot:
		return true
	}
	return false
}

// Lead is a prospective customer tracked through the sales pipeline.
// A lead is uniquely identified by its phone or its email; at least one
// of the two must be present.
type Lead struct {
	bun.BaseModel `bun:"table:leads,alias:l"`

	ID            uuid.UUID   `bun:"id,pk,type:uuid" json:"id"`
	Name          string      `bun:"name,notnull" json:"name"`
	Phone         string      `bun:"phone,nullzero,unique" json:"phone,omitempty"`
	Email         string      `bun:"email,nullzero,unique" json:"email,omitempty"`
	Status        LeadStatus  `bun:"status,notnull" json:"status"`
	Temperature   Temperature `bun:"temperature,notnull" json:"temperature"`
	Notes         string      `bun:"notes,nullzero" json:"notes,omitempty"`
	Source        string      `bun:"source,notnull" json:"source"`
	LostReason    string      `bun:"lost_reason,nullzero" json:"lost_reason,omitempty"`
	LastContactAt time.Time   `bun:"last_contact_at,notnull" json:"last_contact_at"`
	CreatedAt     time.Time   `bun:"created_at,notnull" json:"created_at"`
	UpdatedAt     time.Time   `bun:"updated_at,notnull" json:"updated_at"`
}

func (l *Lead) HasContact() bool {
	return l.Phone != "" || l.Email != ""
}
