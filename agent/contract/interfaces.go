package contract

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/openai/openai-go/v2"
	"github.com/openai/openai-go/v2/option"

	"github.com/voxagenda/voxagenda/agent/domain"
)

// ChatCompleter is the narrow slice of the chat-completion API the
// orchestrator needs. *openai.ChatCompletionService satisfies it.
type ChatCompleter interface {
	New(ctx context.Context, params openai.ChatCompletionNewParams, opts ...option.RequestOption) (*openai.ChatCompletion, error)
}

// LeadStore owns lead rows. Find methods return ErrLeadNotFound when no
// row matches.
type LeadStore interface {
	FindByID(ctx context.Context, id uuid.UUID) (*domain.Lead, error)
	FindByPhone(ctx context.Context, phone string) (*domain.Lead, error)
	FindByEmail(ctx context.Context, email string) (*domain.Lead, error)
	Create(ctx context.Context, lead *domain.Lead) error
	Update(ctx context.Context, lead *domain.Lead) error
}

// AppointmentStore owns appointment rows. CreateIfFree must perform the
// overlap check and the insert as one atomic unit with respect to other
// concurrent callers, returning ErrSlotTaken on conflict.
type AppointmentStore interface {
	ActiveBetween(ctx context.Context, from, to time.Time) ([]domain.Appointment, error)
	CreateIfFree(ctx context.Context, appt *domain.Appointment) error
}

// ActivityStore owns the append-only audit trail.
type ActivityStore interface {
	Create(ctx context.Context, act *domain.Activity) error
	ListByLead(ctx context.Context, leadID uuid.UUID) ([]domain.Activity, error)
}
