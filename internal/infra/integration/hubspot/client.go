package hubspot

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/businessofone/crm-backend/internal/entity"
)

const providerName = "hubspot"

// Client talks to the HubSpot CRM v3 API. Each method is a stateless
// request/response cycle; the only held state is the bearer token.
type Client struct {
	accessToken string
	baseURL     string
	httpClient  *http.Client
}

func NewClient(accessToken string, opts ...func(*Client)) *Client {
	c := &Client{
		accessToken: accessToken,
		baseURL:     "https://api.hubapi.com",
		httpClient:  &http.Client{Timeout: 15 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func WithBaseURL(baseURL string) func(*Client) {
	return func(c *Client) {
		if strings.TrimSpace(baseURL) != "" {
			c.baseURL = strings.TrimRight(baseURL, "/")
		}
	}
}

func WithHTTPClient(httpClient *http.Client) func(*Client) {
	return func(c *Client) {
		if httpClient != nil {
			c.httpClient = httpClient
		}
	}
}

func (c *Client) Provider() string {
	return providerName
}

// CreateContact creates a contact from the lead. If HubSpot reports the
// contact already exists (duplicate email), the client searches by email and
// updates the existing contact instead; create is idempotent by email.
func (c *Client) CreateContact(ctx context.Context, lead entity.Lead) (*entity.CRMContact, error) {
	body := contactRequest{Properties: leadToProperties(lead)}

	status, respBody, err := c.do(ctx, http.MethodPost, "/crm/v3/objects/contacts", body)
	if err != nil {
		return nil, fmt.Errorf("HubSpot contact creation failed: %w", err)
	}

	if status == http.StatusConflict {
		log.Printf("♻️ HubSpot: contact already exists for %s, updating instead", lead.Email)
		return c.updateByEmail(ctx, lead)
	}

	if status != http.StatusCreated && status != http.StatusOK {
		return nil, fmt.Errorf("HubSpot contact creation failed: %s", vendorMessage(status, respBody))
	}

	var obj contactObject
	if err := json.Unmarshal(respBody, &obj); err != nil {
		return nil, fmt.Errorf("HubSpot contact creation failed: malformed response: %w", err)
	}

	contact := contactFromObject(obj)
	log.Printf("✅ HubSpot: contact created #%s (%s)", obj.ID, lead.Email)
	return &contact, nil
}

func (c *Client) updateByEmail(ctx context.Context, lead entity.Lead) (*entity.CRMContact, error) {
	matches, err := c.SearchContacts(ctx, lead.Email)
	if err != nil {
		return nil, err
	}
	if len(matches) == 0 {
		return nil, fmt.Errorf("HubSpot contact creation failed: duplicate reported but no contact found for %s", lead.Email)
	}

	props := leadToProperties(lead)
	status, respBody, err := c.do(ctx, http.MethodPatch, "/crm/v3/objects/contacts/"+matches[0].CRMID, contactRequest{Properties: props})
	if err != nil {
		return nil, fmt.Errorf("HubSpot contact update failed: %w", err)
	}
	if status != http.StatusOK {
		return nil, fmt.Errorf("HubSpot contact update failed: %s", vendorMessage(status, respBody))
	}

	var obj contactObject
	if err := json.Unmarshal(respBody, &obj); err != nil {
		return nil, fmt.Errorf("HubSpot contact update failed: malformed response: %w", err)
	}

	contact := contactFromObject(obj)
	return &contact, nil
}

// UpdateContact patches only the touched fields of the identified contact.
func (c *Client) UpdateContact(ctx context.Context, id string, updates entity.LeadUpdate) (*entity.CRMContact, error) {
	body := contactRequest{Properties: updateToProperties(updates)}

	status, respBody, err := c.do(ctx, http.MethodPatch, "/crm/v3/objects/contacts/"+nativeID(id), body)
	if err != nil {
		return nil, fmt.Errorf("HubSpot contact update failed: %w", err)
	}
	if status != http.StatusOK {
		return nil, fmt.Errorf("HubSpot contact update failed: %s", vendorMessage(status, respBody))
	}

	var obj contactObject
	if err := json.Unmarshal(respBody, &obj); err != nil {
		return nil, fmt.Errorf("HubSpot contact update failed: malformed response: %w", err)
	}

	contact := contactFromObject(obj)
	log.Printf("✏️ HubSpot: contact updated #%s", obj.ID)
	return &contact, nil
}

// GetContact fetches one contact. A vendor 404 comes back as (nil, nil):
// absence is not an error.
func (c *Client) GetContact(ctx context.Context, id string) (*entity.CRMContact, error) {
	path := fmt.Sprintf("/crm/v3/objects/contacts/%s?properties=%s", nativeID(id), url.QueryEscape(strings.Join(readProperties, ",")))

	status, respBody, err := c.do(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, fmt.Errorf("HubSpot contact fetch failed: %w", err)
	}
	if status == http.StatusNotFound {
		return nil, nil
	}
	if status != http.StatusOK {
		return nil, fmt.Errorf("HubSpot contact fetch failed: %s", vendorMessage(status, respBody))
	}

	var obj contactObject
	if err := json.Unmarshal(respBody, &obj); err != nil {
		return nil, fmt.Errorf("HubSpot contact fetch failed: malformed response: %w", err)
	}

	contact := contactFromObject(obj)
	return &contact, nil
}

// SearchContacts runs a free-text search over the contact index.
func (c *Client) SearchContacts(ctx context.Context, query string) ([]entity.CRMContact, error) {
	body := searchRequest{
		Query:      query,
		Properties: readProperties,
		Limit:      50,
	}

	status, respBody, err := c.do(ctx, http.MethodPost, "/crm/v3/objects/contacts/search", body)
	if err != nil {
		return nil, fmt.Errorf("HubSpot contact search failed: %w", err)
	}
	if status != http.StatusOK {
		return nil, fmt.Errorf("HubSpot contact search failed: %s", vendorMessage(status, respBody))
	}

	var resp searchResponse
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return nil, fmt.Errorf("HubSpot contact search failed: malformed response: %w", err)
	}

	contacts := make([]entity.CRMContact, 0, len(resp.Results))
	for _, obj := range resp.Results {
		contacts = append(contacts, contactFromObject(obj))
	}
	return contacts, nil
}

// TrackEvent sends one behavioral event. No buffering, no retry.
func (c *Client) TrackEvent(ctx context.Context, event entity.CRMEvent) error {
	ts := event.Timestamp
	if ts.IsZero() {
		ts = time.Now()
	}

	// The events API has no field for our event type, so it travels as a
	// property to keep the mapping lossless.
	props := make(map[string]string, len(event.Properties)+1)
	for k, v := range event.Properties {
		props[k] = v
	}
	if event.EventType != "" {
		props["event_type"] = event.EventType
	}

	body := eventRequest{
		EventName:  event.EventName,
		ObjectID:   nativeID(event.ContactID),
		OccurredAt: ts.UTC().Format(time.RFC3339),
		Properties: props,
	}

	status, respBody, err := c.do(ctx, http.MethodPost, "/events/v3/send", body)
	if err != nil {
		return fmt.Errorf("HubSpot event tracking failed: %w", err)
	}
	if status != http.StatusNoContent && status != http.StatusOK && status != http.StatusAccepted {
		return fmt.Errorf("HubSpot event tracking failed: %s", vendorMessage(status, respBody))
	}
	return nil
}

// BatchCreateContacts creates up to 100 contacts in one call. All-or-nothing
// at the vendor: a failed batch returns an error for the whole input.
func (c *Client) BatchCreateContacts(ctx context.Context, leads []entity.Lead) ([]entity.CRMContact, error) {
	inputs := make([]contactRequest, 0, len(leads))
	for _, lead := range leads {
		inputs = append(inputs, contactRequest{Properties: leadToProperties(lead)})
	}

	status, respBody, err := c.do(ctx, http.MethodPost, "/crm/v3/objects/contacts/batch/create", batchCreateRequest{Inputs: inputs})
	if err != nil {
		return nil, fmt.Errorf("HubSpot batch creation failed: %w", err)
	}
	if status != http.StatusCreated && status != http.StatusOK {
		return nil, fmt.Errorf("HubSpot batch creation failed: %s", vendorMessage(status, respBody))
	}

	var resp batchCreateResponse
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return nil, fmt.Errorf("HubSpot batch creation failed: malformed response: %w", err)
	}

	contacts := make([]entity.CRMContact, 0, len(resp.Results))
	for _, obj := range resp.Results {
		contacts = append(contacts, contactFromObject(obj))
	}

	log.Printf("✅ HubSpot: batch created %d contacts", len(contacts))
	return contacts, nil
}

// TestConnection probes the API with a minimal list call.
func (c *Client) TestConnection(ctx context.Context) error {
	status, respBody, err := c.do(ctx, http.MethodGet, "/crm/v3/objects/contacts?limit=1", nil)
	if err != nil {
		return fmt.Errorf("HubSpot connection test failed: %w", err)
	}
	if status != http.StatusOK {
		return fmt.Errorf("HubSpot connection test failed: %s", vendorMessage(status, respBody))
	}
	return nil
}

func (c *Client) do(ctx context.Context, method, path string, body interface{}) (int, []byte, error) {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return 0, nil, err
		}
		reader = bytes.NewBuffer(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return 0, nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.accessToken)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, nil, err
	}

	return resp.StatusCode, respBody, nil
}

// nativeID strips the local "hubspot_" prefix if present. Raw vendor ids are
// accepted too.
func nativeID(id string) string {
	return strings.TrimPrefix(id, providerName+"_")
}

// vendorMessage extracts the vendor's error message so it survives into our
// wrapped error.
func vendorMessage(status int, body []byte) string {
	var apiErr apiError
	if err := json.Unmarshal(body, &apiErr); err == nil && apiErr.Message != "" {
		return fmt.Sprintf("%d - %s", status, apiErr.Message)
	}
	return fmt.Sprintf("%d - %s", status, string(body))
}
