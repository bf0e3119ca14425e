package usecase

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/businessofone/crm-backend/internal/entity"
)

// ImportBatchSize is the fixed bulk-import batch size. Batches run strictly
// in sequence to keep outbound pressure on the CRM vendor predictable (most
// vendors rate-limit aggressively).
const ImportBatchSize = 10

// CRMService is the single entry point for the lead lifecycle: it composes
// the scoring engine and the provider connector and decides when scores are
// recomputed. Stateless beyond the connector reference, so it is safe to
// share across requests.
type CRMService struct {
	Connector CRMConnector
}

func NewCRMService(connector CRMConnector) *CRMService {
	return &CRMService{Connector: connector}
}

// CreateLead scores the lead, creates the contact in the CRM and tracks a
// "Lead Created" event. The tracking call is best-effort: the contact already
// exists remotely at that point, so a tracking failure is logged and never
// fails the create.
func (s *CRMService) CreateLead(ctx context.Context, lead entity.Lead) (*entity.CRMContact, error) {
	score := CalculateLeadScore(lead)

	enriched := lead.Clone()
	enriched.LeadScore = score.Total

	contact, err := s.Connector.CreateContact(ctx, enriched)
	if err != nil {
		return nil, err
	}

	log.Printf("✅ CRM: lead created %s (%s) score=%d category=%s", contact.ID, contact.Email, score.Total, score.Category)

	event := entity.CRMEvent{
		ContactID: contact.ID,
		EventType: entity.EventFormSubmission,
		EventName: "Lead Created",
		Properties: map[string]string{
			"lead_source": lead.LeadSource,
			"lead_score":  fmt.Sprintf("%d", score.Total),
			"category":    score.Category,
		},
		Timestamp: time.Now(),
	}

	if err := s.Connector.TrackEvent(ctx, event); err != nil {
		// Best-effort: the contact is created, losing the event beats
		// losing the lead.
		log.Printf("⚠️ CRM: lead created but event tracking failed for %s: %v", contact.ID, err)
	}

	return contact, nil
}

// UpdateLead pushes a partial update to the CRM. When the update touches a
// scoring field it first fetches the current contact, merges, recomputes and
// injects the fresh score so a stale score never outlives a qualification
// change. A missing contact skips the rescore and the update proceeds as-is.
func (s *CRMService) UpdateLead(ctx context.Context, id string, updates entity.LeadUpdate) (*entity.CRMContact, error) {
	outgoing := updates.Clone()

	if updates.TouchesScoring() {
		existing, err := s.Connector.GetContact(ctx, id)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			merged := updates.ApplyTo(existing.Lead)
			score := CalculateLeadScore(merged)
			outgoing.LeadScore = &score.Total
			log.Printf("🔁 CRM: rescored %s -> %d (%s)", id, score.Total, score.Category)
		}
	}

	return s.Connector.UpdateContact(ctx, id, outgoing)
}

// GetLead is a pass-through. A nil contact means not found.
func (s *CRMService) GetLead(ctx context.Context, id string) (*entity.CRMContact, error) {
	return s.Connector.GetContact(ctx, id)
}

// SearchLeads is a pass-through.
func (s *CRMService) SearchLeads(ctx context.Context, query string) ([]entity.CRMContact, error) {
	return s.Connector.SearchContacts(ctx, query)
}

// TrackEvent forwards one event to the connector. Failures propagate
// unchanged. Never dropped, never retried.
func (s *CRMService) TrackEvent(ctx context.Context, event entity.CRMEvent) error {
	if err := s.Connector.TrackEvent(ctx, event); err != nil {
		return err
	}
	log.Printf("📊 CRM: tracked %s (%s) for %s", event.EventName, event.EventType, event.ContactID)
	return nil
}

// ImportLeads bulk-creates leads in batches of ImportBatchSize. When a batch
// call fails as a whole the batch degrades to serial per-lead creates, each
// failure captured individually, so every input lead ends up in exactly one
// bucket of the result.
func (s *CRMService) ImportLeads(ctx context.Context, leads []entity.Lead) entity.ImportResult {
	result := entity.ImportResult{
		Successful: []entity.CRMContact{},
		Failed:     []entity.FailedImport{},
	}

	for start := 0; start < len(leads); start += ImportBatchSize {
		end := start + ImportBatchSize
		if end > len(leads) {
			end = len(leads)
		}
		batch := leads[start:end]

		enriched := make([]entity.Lead, 0, len(batch))
		for _, lead := range batch {
			e := lead.Clone()
			e.LeadScore = CalculateLeadScore(lead).Total
			enriched = append(enriched, e)
		}

		contacts, err := s.Connector.BatchCreateContacts(ctx, enriched)
		if err == nil {
			result.Successful = append(result.Successful, contacts...)
			continue
		}

		log.Printf("⚠️ CRM: batch create failed (%d leads), falling back to serial: %v", len(batch), err)

		for _, lead := range batch {
			contact, err := s.CreateLead(ctx, lead)
			if err != nil {
				result.Failed = append(result.Failed, entity.FailedImport{Lead: lead, Error: err.Error()})
				continue
			}
			result.Successful = append(result.Successful, *contact)
		}
	}

	log.Printf("📦 CRM: import finished, %d ok / %d failed", len(result.Successful), len(result.Failed))
	return result
}

// TestConnection is the only operation that coerces errors to a boolean.
func (s *CRMService) TestConnection(ctx context.Context) bool {
	if err := s.Connector.TestConnection(ctx); err != nil {
		log.Printf("❌ CRM: connection test failed: %v", err)
		return false
	}
	return true
}
