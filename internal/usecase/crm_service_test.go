package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/businessofone/crm-backend/internal/entity"
)

// MockCRMConnector
type MockCRMConnector struct {
	mock.Mock
}

func (m *MockCRMConnector) CreateContact(ctx context.Context, lead entity.Lead) (*entity.CRMContact, error) {
	args := m.Called(ctx, lead)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.CRMContact), args.Error(1)
}

func (m *MockCRMConnector) UpdateContact(ctx context.Context, id string, updates entity.LeadUpdate) (*entity.CRMContact, error) {
	args := m.Called(ctx, id, updates)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.CRMContact), args.Error(1)
}

func (m *MockCRMConnector) GetContact(ctx context.Context, id string) (*entity.CRMContact, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.CRMContact), args.Error(1)
}

func (m *MockCRMConnector) SearchContacts(ctx context.Context, query string) ([]entity.CRMContact, error) {
	args := m.Called(ctx, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.CRMContact), args.Error(1)
}

func (m *MockCRMConnector) TrackEvent(ctx context.Context, event entity.CRMEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func (m *MockCRMConnector) BatchCreateContacts(ctx context.Context, leads []entity.Lead) ([]entity.CRMContact, error) {
	args := m.Called(ctx, leads)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.CRMContact), args.Error(1)
}

func (m *MockCRMConnector) TestConnection(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockCRMConnector) Provider() string {
	return "mock"
}

func contactFor(email string) *entity.CRMContact {
	return &entity.CRMContact{
		Lead:        entity.Lead{Email: email},
		ID:          "mock_1",
		CRMProvider: "mock",
		CRMID:       "1",
		SyncStatus:  entity.SyncStatusSynced,
	}
}

func strPtr(s string) *string { return &s }

// ============ CreateLead ============

// TestCreateLeadInjectsScoreAndTracksEvent - the connector gets an enriched
// copy with the computed score, and a "Lead Created" event follows.
func TestCreateLeadInjectsScoreAndTracksEvent(t *testing.T) {
	ctx := context.Background()
	connector := new(MockCRMConnector)
	service := NewCRMService(connector)

	lead := entity.Lead{
		Email:          "ana@consultoria.com",
		BusinessType:   entity.BusinessTypeConsultant,
		MonthlyRevenue: entity.Revenue10kTo25k,
		LeadSource:     "landing-page",
	}

	// consultant(30) + 10-25k(25) = 55
	connector.On("CreateContact", ctx, mock.MatchedBy(func(l entity.Lead) bool {
		return l.LeadScore == 55 && l.Email == "ana@consultoria.com"
	})).Return(contactFor("ana@consultoria.com"), nil)

	connector.On("TrackEvent", ctx, mock.MatchedBy(func(e entity.CRMEvent) bool {
		return e.EventType == entity.EventFormSubmission &&
			e.EventName == "Lead Created" &&
			e.ContactID == "mock_1" &&
			e.Properties["lead_score"] == "55" &&
			e.Properties["category"] == entity.CategoryWarm &&
			e.Properties["lead_source"] == "landing-page"
	})).Return(nil)

	contact, err := service.CreateLead(ctx, lead)

	assert.NoError(t, err)
	assert.NotNil(t, contact)
	connector.AssertExpectations(t)
}

// TestCreateLeadDoesNotMutateInput - enrichment happens on a copy; the
// caller's lead stays untouched.
func TestCreateLeadDoesNotMutateInput(t *testing.T) {
	ctx := context.Background()
	connector := new(MockCRMConnector)
	service := NewCRMService(connector)

	lead := entity.Lead{
		Email:             "bo@one.dev",
		BusinessType:      entity.BusinessTypeFreelancer,
		PrimaryChallenges: []string{"pricing", "focus"},
		Tags:              []string{"newsletter"},
	}
	original := lead.Clone()

	connector.On("CreateContact", ctx, mock.Anything).Return(contactFor("bo@one.dev"), nil)
	connector.On("TrackEvent", ctx, mock.Anything).Return(nil)

	_, err := service.CreateLead(ctx, lead)

	assert.NoError(t, err)
	assert.Equal(t, original, lead)
	assert.Equal(t, 0, lead.LeadScore)
}

// TestCreateLeadTrackingFailureIsBestEffort - the contact already exists
// remotely when tracking runs, so a tracking failure never fails the create.
func TestCreateLeadTrackingFailureIsBestEffort(t *testing.T) {
	ctx := context.Background()
	connector := new(MockCRMConnector)
	service := NewCRMService(connector)

	connector.On("CreateContact", ctx, mock.Anything).Return(contactFor("x@y.com"), nil)
	connector.On("TrackEvent", ctx, mock.Anything).Return(errors.New("events api down"))

	contact, err := service.CreateLead(ctx, entity.Lead{Email: "x@y.com"})

	assert.NoError(t, err)
	assert.NotNil(t, contact)
}

// TestCreateLeadConnectorFailurePropagates
func TestCreateLeadConnectorFailurePropagates(t *testing.T) {
	ctx := context.Background()
	connector := new(MockCRMConnector)
	service := NewCRMService(connector)

	connector.On("CreateContact", ctx, mock.Anything).Return(nil, errors.New("HubSpot contact creation failed: 401 - invalid token"))

	contact, err := service.CreateLead(ctx, entity.Lead{Email: "x@y.com"})

	assert.Error(t, err)
	assert.Nil(t, contact)
	assert.Contains(t, err.Error(), "invalid token")
	connector.AssertNotCalled(t, "TrackEvent", mock.Anything, mock.Anything)
}

// ============ UpdateLead ============

// TestUpdateLeadRescoresWhenScoringFieldTouched - a business_type change
// fetches the contact, merges and injects the fresh score.
func TestUpdateLeadRescoresWhenScoringFieldTouched(t *testing.T) {
	ctx := context.Background()
	connector := new(MockCRMConnector)
	service := NewCRMService(connector)

	existing := contactFor("ana@consultoria.com")
	existing.Lead.MonthlyRevenue = entity.Revenue25kPlus

	connector.On("GetContact", ctx, "mock_1").Return(existing, nil)

	// consultant(30) + 25k+(30) = 60
	connector.On("UpdateContact", ctx, "mock_1", mock.MatchedBy(func(u entity.LeadUpdate) bool {
		return u.LeadScore != nil && *u.LeadScore == 60
	})).Return(existing, nil)

	_, err := service.UpdateLead(ctx, "mock_1", entity.LeadUpdate{
		BusinessType: strPtr(entity.BusinessTypeConsultant),
	})

	assert.NoError(t, err)
	connector.AssertExpectations(t)
}

// TestUpdateLeadSkipsRescoreForNonScoringFields - a phone change never
// triggers a contact fetch.
func TestUpdateLeadSkipsRescoreForNonScoringFields(t *testing.T) {
	ctx := context.Background()
	connector := new(MockCRMConnector)
	service := NewCRMService(connector)

	connector.On("UpdateContact", ctx, "mock_1", mock.MatchedBy(func(u entity.LeadUpdate) bool {
		return u.LeadScore == nil
	})).Return(contactFor("x@y.com"), nil)

	_, err := service.UpdateLead(ctx, "mock_1", entity.LeadUpdate{Phone: strPtr("555-1234")})

	assert.NoError(t, err)
	connector.AssertNotCalled(t, "GetContact", mock.Anything, mock.Anything)
}

// TestUpdateLeadMissingContactSkipsRescore - permissive degradation: the
// update still goes out, just without a recomputed score.
func TestUpdateLeadMissingContactSkipsRescore(t *testing.T) {
	ctx := context.Background()
	connector := new(MockCRMConnector)
	service := NewCRMService(connector)

	connector.On("GetContact", ctx, "mock_404").Return(nil, nil)
	connector.On("UpdateContact", ctx, "mock_404", mock.MatchedBy(func(u entity.LeadUpdate) bool {
		return u.LeadScore == nil
	})).Return(contactFor("x@y.com"), nil)

	_, err := service.UpdateLead(ctx, "mock_404", entity.LeadUpdate{
		Urgency: strPtr(entity.UrgencyImmediate),
	})

	assert.NoError(t, err)
	connector.AssertExpectations(t)
}

// TestUpdateLeadDoesNotMutateInput
func TestUpdateLeadDoesNotMutateInput(t *testing.T) {
	ctx := context.Background()
	connector := new(MockCRMConnector)
	service := NewCRMService(connector)

	existing := contactFor("x@y.com")
	connector.On("GetContact", ctx, "mock_1").Return(existing, nil)
	connector.On("UpdateContact", ctx, "mock_1", mock.Anything).Return(existing, nil)

	updates := entity.LeadUpdate{
		BusinessType:      strPtr(entity.BusinessTypeConsultant),
		PrimaryChallenges: []string{"time"},
	}
	original := updates.Clone()

	_, err := service.UpdateLead(ctx, "mock_1", updates)

	assert.NoError(t, err)
	assert.Equal(t, original, updates)
	assert.Nil(t, updates.LeadScore)
}

// ============ GetLead / SearchLeads / TrackEvent / TestConnection ============

// TestGetLeadNotFoundPassthrough - a nil from the connector stays a nil, no
// error invented.
func TestGetLeadNotFoundPassthrough(t *testing.T) {
	ctx := context.Background()
	connector := new(MockCRMConnector)
	service := NewCRMService(connector)

	connector.On("GetContact", ctx, "mock_404").Return(nil, nil)

	contact, err := service.GetLead(ctx, "mock_404")

	assert.NoError(t, err)
	assert.Nil(t, contact)
}

// TestTrackEventFailurePropagates - explicit tracking is never silently
// dropped.
func TestTrackEventFailurePropagates(t *testing.T) {
	ctx := context.Background()
	connector := new(MockCRMConnector)
	service := NewCRMService(connector)

	connector.On("TrackEvent", ctx, mock.Anything).Return(errors.New("HubSpot event tracking failed: 500"))

	err := service.TrackEvent(ctx, entity.CRMEvent{ContactID: "mock_1", EventType: entity.EventPageView, EventName: "Viewed pricing"})

	assert.Error(t, err)
}

// TestTestConnectionSwallowsErrors - the only error-to-boolean coercion in
// the service.
func TestTestConnectionSwallowsErrors(t *testing.T) {
	ctx := context.Background()
	connector := new(MockCRMConnector)
	service := NewCRMService(connector)

	connector.On("TestConnection", ctx).Return(errors.New("network unreachable"))

	assert.False(t, service.TestConnection(ctx))
}

func TestTestConnectionTrueOnSuccess(t *testing.T) {
	ctx := context.Background()
	connector := new(MockCRMConnector)
	service := NewCRMService(connector)

	connector.On("TestConnection", ctx).Return(nil)

	assert.True(t, service.TestConnection(ctx))
}

// ============ ImportLeads ============

func makeLeads(n int) []entity.Lead {
	leads := make([]entity.Lead, 0, n)
	for i := 0; i < n; i++ {
		leads = append(leads, entity.Lead{Email: string(rune('a'+i%26)) + "@import.com"})
	}
	return leads
}

// TestImportLeadsBatching - 25 leads means 3 batch calls, the last with 5.
func TestImportLeadsBatching(t *testing.T) {
	ctx := context.Background()
	connector := new(MockCRMConnector)
	service := NewCRMService(connector)

	var batchSizes []int
	connector.On("BatchCreateContacts", ctx, mock.Anything).Run(func(args mock.Arguments) {
		batchSizes = append(batchSizes, len(args.Get(1).([]entity.Lead)))
	}).Return([]entity.CRMContact{}, nil)

	service.ImportLeads(ctx, makeLeads(25))

	assert.Equal(t, []int{10, 10, 5}, batchSizes)
	connector.AssertNumberOfCalls(t, "BatchCreateContacts", 3)
}

// TestImportLeadsCompleteness - with the batch call always failing and every
// serial create failing too, every lead still lands in exactly one bucket.
func TestImportLeadsCompleteness(t *testing.T) {
	ctx := context.Background()
	connector := new(MockCRMConnector)
	service := NewCRMService(connector)

	connector.On("BatchCreateContacts", ctx, mock.Anything).Return(nil, errors.New("batch endpoint down"))
	connector.On("CreateContact", ctx, mock.Anything).Return(nil, errors.New("still down"))

	n := 23
	result := service.ImportLeads(ctx, makeLeads(n))

	assert.Len(t, result.Successful, 0)
	assert.Len(t, result.Failed, n)
	assert.Equal(t, n, len(result.Successful)+len(result.Failed))
	for _, f := range result.Failed {
		assert.Equal(t, "still down", f.Error)
	}
}

// TestImportLeadsSerialFallbackRecovers - a failed batch degrades to serial
// creates; individual successes are kept.
func TestImportLeadsSerialFallbackRecovers(t *testing.T) {
	ctx := context.Background()
	connector := new(MockCRMConnector)
	service := NewCRMService(connector)

	leads := makeLeads(4)

	connector.On("BatchCreateContacts", ctx, mock.Anything).Return(nil, errors.New("one bad record"))

	// First serial create fails, the rest succeed.
	connector.On("CreateContact", ctx, mock.MatchedBy(func(l entity.Lead) bool {
		return l.Email == leads[0].Email
	})).Return(nil, errors.New("invalid email"))
	connector.On("CreateContact", ctx, mock.Anything).Return(contactFor("ok@import.com"), nil)
	connector.On("TrackEvent", ctx, mock.Anything).Return(nil)

	result := service.ImportLeads(ctx, leads)

	assert.Len(t, result.Failed, 1)
	assert.Len(t, result.Successful, 3)
	assert.Equal(t, leads[0].Email, result.Failed[0].Lead.Email)
}

// TestImportLeadsEnrichesBatchWithScores - batched leads carry their scores.
func TestImportLeadsEnrichesBatchWithScores(t *testing.T) {
	ctx := context.Background()
	connector := new(MockCRMConnector)
	service := NewCRMService(connector)

	connector.On("BatchCreateContacts", ctx, mock.MatchedBy(func(batch []entity.Lead) bool {
		// freelancer(25) + immediate(25) = 50
		return len(batch) == 1 && batch[0].LeadScore == 50
	})).Return([]entity.CRMContact{*contactFor("f@l.com")}, nil)

	result := service.ImportLeads(ctx, []entity.Lead{{
		Email:        "f@l.com",
		BusinessType: entity.BusinessTypeFreelancer,
		Urgency:      entity.UrgencyImmediate,
	}})

	assert.Len(t, result.Successful, 1)
	assert.Empty(t, result.Failed)
	connector.AssertExpectations(t)
}
