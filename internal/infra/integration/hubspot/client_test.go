package hubspot

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/businessofone/crm-backend/internal/entity"
)

func newTestClient(handler http.HandlerFunc) (*Client, *httptest.Server) {
	server := httptest.NewServer(handler)
	client := NewClient("test-token", WithBaseURL(server.URL))
	return client, server
}

func TestCreateContactMapsProperties(t *testing.T) {
	var captured contactRequest

	client, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/crm/v3/objects/contacts", r.URL.Path)
		assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))

		json.NewDecoder(r.Body).Decode(&captured)

		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(contactObject{ID: "123", Properties: captured.Properties})
	})
	defer server.Close()

	lead := entity.Lead{
		Email:             "ana@consultoria.com",
		FirstName:         "Ana",
		BusinessType:      entity.BusinessTypeConsultant,
		PrimaryChallenges: []string{"pricing", "time"},
		LeadScore:         85,
		UTMParameters:     &entity.UTMParameters{Source: "google", Campaign: "q3"},
		CustomProperties:  map[string]string{"referral_code": "BO1"},
	}

	contact, err := client.CreateContact(context.Background(), lead)

	assert.NoError(t, err)
	assert.Equal(t, "hubspot_123", contact.ID)
	assert.Equal(t, "123", contact.CRMID)
	assert.Equal(t, "hubspot", contact.CRMProvider)
	assert.Equal(t, entity.SyncStatusSynced, contact.SyncStatus)
	assert.False(t, contact.LastSyncedAt.IsZero())

	assert.Equal(t, "ana@consultoria.com", captured.Properties["email"])
	assert.Equal(t, "Ana", captured.Properties["firstname"])
	assert.Equal(t, "consultant", captured.Properties["business_type"])
	assert.Equal(t, "pricing;time", captured.Properties["primary_challenges"])
	assert.Equal(t, "85", captured.Properties["lead_score"])
	assert.Equal(t, "google", captured.Properties["utm_source"])
	assert.Equal(t, "BO1", captured.Properties["referral_code"])

	// Absent fields stay out of the payload, no null-overwriting.
	_, hasCompany := captured.Properties["company"]
	assert.False(t, hasCompany)
}

func TestCreateContactDuplicateFallsBackToUpdate(t *testing.T) {
	client, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodPost && r.URL.Path == "/crm/v3/objects/contacts":
			w.WriteHeader(http.StatusConflict)
			json.NewEncoder(w).Encode(apiError{Message: "Contact already exists"})

		case r.Method == http.MethodPost && r.URL.Path == "/crm/v3/objects/contacts/search":
			json.NewEncoder(w).Encode(searchResponse{
				Total:   1,
				Results: []contactObject{{ID: "55", Properties: map[string]string{"email": "dup@x.com"}}},
			})

		case r.Method == http.MethodPatch && r.URL.Path == "/crm/v3/objects/contacts/55":
			json.NewEncoder(w).Encode(contactObject{ID: "55", Properties: map[string]string{"email": "dup@x.com"}})

		default:
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
			w.WriteHeader(http.StatusInternalServerError)
		}
	})
	defer server.Close()

	contact, err := client.CreateContact(context.Background(), entity.Lead{Email: "dup@x.com"})

	assert.NoError(t, err)
	assert.Equal(t, "hubspot_55", contact.ID)
}

func TestCreateContactEmbedsVendorMessage(t *testing.T) {
	client, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(apiError{Message: "The access token is expired"})
	})
	defer server.Close()

	_, err := client.CreateContact(context.Background(), entity.Lead{Email: "x@y.com"})

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "HubSpot contact creation failed")
	assert.Contains(t, err.Error(), "The access token is expired")
}

func TestGetContactNotFoundReturnsNil(t *testing.T) {
	client, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})
	defer server.Close()

	contact, err := client.GetContact(context.Background(), "hubspot_404")

	assert.NoError(t, err)
	assert.Nil(t, contact)
}

func TestGetContactStripsLocalPrefix(t *testing.T) {
	client, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/crm/v3/objects/contacts/777", r.URL.Path)
		json.NewEncoder(w).Encode(contactObject{ID: "777", Properties: map[string]string{
			"email":              "joao@x.com",
			"primary_challenges": "time;focus;sales",
			"lead_score":         "65",
		}})
	})
	defer server.Close()

	contact, err := client.GetContact(context.Background(), "hubspot_777")

	assert.NoError(t, err)
	assert.Equal(t, "hubspot_777", contact.ID)
	assert.Equal(t, []string{"time", "focus", "sales"}, contact.PrimaryChallenges)
	assert.Equal(t, 65, contact.LeadScore)
}

func TestSearchContacts(t *testing.T) {
	client, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/crm/v3/objects/contacts/search", r.URL.Path)

		var req searchRequest
		json.NewDecoder(r.Body).Decode(&req)
		assert.Equal(t, "consultoria", req.Query)

		json.NewEncoder(w).Encode(searchResponse{
			Total: 2,
			Results: []contactObject{
				{ID: "1", Properties: map[string]string{"email": "a@x.com"}},
				{ID: "2", Properties: map[string]string{"email": "b@x.com"}},
			},
		})
	})
	defer server.Close()

	contacts, err := client.SearchContacts(context.Background(), "consultoria")

	assert.NoError(t, err)
	assert.Len(t, contacts, 2)
	assert.Equal(t, "hubspot_1", contacts[0].ID)
	assert.Equal(t, "hubspot_2", contacts[1].ID)
}

func TestTrackEvent(t *testing.T) {
	var captured eventRequest

	client, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/events/v3/send", r.URL.Path)
		json.NewDecoder(r.Body).Decode(&captured)
		w.WriteHeader(http.StatusNoContent)
	})
	defer server.Close()

	input := map[string]string{"page": "/case-studies/solo-dev"}
	err := client.TrackEvent(context.Background(), entity.CRMEvent{
		ContactID:  "hubspot_123",
		EventType:  entity.EventPageView,
		EventName:  "Viewed case study",
		Properties: input,
	})

	assert.NoError(t, err)
	assert.NotContains(t, input, "event_type")
	assert.Equal(t, "Viewed case study", captured.EventName)
	assert.Equal(t, "123", captured.ObjectID)
	assert.Equal(t, "/case-studies/solo-dev", captured.Properties["page"])
	assert.Equal(t, entity.EventPageView, captured.Properties["event_type"])
	assert.NotEmpty(t, captured.OccurredAt)
}

func TestBatchCreateContacts(t *testing.T) {
	client, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/crm/v3/objects/contacts/batch/create", r.URL.Path)

		var req batchCreateRequest
		json.NewDecoder(r.Body).Decode(&req)
		assert.Len(t, req.Inputs, 3)

		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(batchCreateResponse{
			Status: "COMPLETE",
			Results: []contactObject{
				{ID: "1", Properties: map[string]string{"email": "a@x.com"}},
				{ID: "2", Properties: map[string]string{"email": "b@x.com"}},
				{ID: "3", Properties: map[string]string{"email": "c@x.com"}},
			},
		})
	})
	defer server.Close()

	contacts, err := client.BatchCreateContacts(context.Background(), []entity.Lead{
		{Email: "a@x.com"}, {Email: "b@x.com"}, {Email: "c@x.com"},
	})

	assert.NoError(t, err)
	assert.Len(t, contacts, 3)
}

func TestBatchCreateFailureIsOneError(t *testing.T) {
	client, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(apiError{Message: "Invalid email in batch"})
	})
	defer server.Close()

	contacts, err := client.BatchCreateContacts(context.Background(), []entity.Lead{{Email: "bad"}})

	assert.Error(t, err)
	assert.Nil(t, contacts)
	assert.Contains(t, err.Error(), "HubSpot batch creation failed")
}

func TestTestConnection(t *testing.T) {
	ok, okServer := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/crm/v3/objects/contacts", r.URL.Path)
		json.NewEncoder(w).Encode(map[string]interface{}{"results": []interface{}{}})
	})
	defer okServer.Close()

	assert.NoError(t, ok.TestConnection(context.Background()))

	down, downServer := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})
	defer downServer.Close()

	assert.Error(t, down.TestConnection(context.Background()))
}

func TestUpdateContactSendsOnlyTouchedFields(t *testing.T) {
	var captured contactRequest

	client, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPatch, r.Method)
		assert.Equal(t, "/crm/v3/objects/contacts/42", r.URL.Path)
		json.NewDecoder(r.Body).Decode(&captured)
		json.NewEncoder(w).Encode(contactObject{ID: "42", Properties: captured.Properties})
	})
	defer server.Close()

	phone := "+5511999999999"
	score := 70
	_, err := client.UpdateContact(context.Background(), "hubspot_42", entity.LeadUpdate{
		Phone:     &phone,
		LeadScore: &score,
	})

	assert.NoError(t, err)
	assert.Equal(t, map[string]string{"phone": "+5511999999999", "lead_score": "70"}, captured.Properties)
}
