package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

type ActivityKind string

const (
	ActivityNote    ActivityKind = "note"
	ActivityStatus  ActivityKind = "status"
	ActivityBooking ActivityKind = "booking"
)

// Activity is an append-only audit entry attached to a lead. For a fully
// automated channel this trail is the only record of what the assistant
// did or learned during a call.
type Activity struct {
	bun.BaseModel `bun:"table:activities,alias:ac"`

	ID        uuid.UUID    `bun:"id,pk,type:uuid" json:"id"`
	LeadID    uuid.UUID    `bun:"lead_id,notnull,type:uuid" json:"lead_id"`
	Kind      ActivityKind `bun:"kind,notnull" json:"kind"`
	Title     string       `bun:"title,notnull" json:"title"`
	Body      string       `bun:"body,nullzero" json:"body,omitempty"`
	Actor     string       `bun:"actor,notnull" json:"actor"`
	CreatedAt time.Time    `bun:"created_at,notnull" json:"created_at"`
}
