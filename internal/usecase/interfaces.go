package usecase

import (
	"context"

	"github.com/businessofone/crm-backend/internal/entity"
	"github.com/businessofone/crm-backend/internal/infra/queue"
)

// CRMConnector is the capability set a CRM provider adapter must satisfy.
// Connectors are stateless per call; the only state they hold is vendor
// credentials from construction time.
type CRMConnector interface {
	CreateContact(ctx context.Context, lead entity.Lead) (*entity.CRMContact, error)
	UpdateContact(ctx context.Context, id string, updates entity.LeadUpdate) (*entity.CRMContact, error)

	// GetContact returns (nil, nil) when the contact does not exist;
	// absence is not an error.
	GetContact(ctx context.Context, id string) (*entity.CRMContact, error)
	SearchContacts(ctx context.Context, query string) ([]entity.CRMContact, error)
	TrackEvent(ctx context.Context, event entity.CRMEvent) error
	BatchCreateContacts(ctx context.Context, leads []entity.Lead) ([]entity.CRMContact, error)
	TestConnection(ctx context.Context) error

	Provider() string
}

type QueueProducerInterface interface {
	PublishLeadCaptured(ctx context.Context, payload queue.LeadCapturedPayload) error
}
