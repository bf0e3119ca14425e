package hubspot

// Wire types for the HubSpot CRM v3 API.

type contactObject struct {
	ID         string            `json:"id"`
	Properties map[string]string `json:"properties"`
	CreatedAt  string            `json:"createdAt,omitempty"`
	UpdatedAt  string            `json:"updatedAt,omitempty"`
}

type contactRequest struct {
	Properties map[string]string `json:"properties"`
}

type searchFilter struct {
	PropertyName string `json:"propertyName"`
	Operator     string `json:"operator"`
	Value        string `json:"value"`
}

type searchFilterGroup struct {
	Filters []searchFilter `json:"filters"`
}

type searchRequest struct {
	Query        string              `json:"query,omitempty"`
	FilterGroups []searchFilterGroup `json:"filterGroups,omitempty"`
	Properties   []string            `json:"properties,omitempty"`
	Limit        int                 `json:"limit,omitempty"`
}

type searchResponse struct {
	Total   int             `json:"total"`
	Results []contactObject `json:"results"`
}

type batchCreateRequest struct {
	Inputs []contactRequest `json:"inputs"`
}

type batchCreateResponse struct {
	Status  string          `json:"status"`
	Results []contactObject `json:"results"`
}

type eventRequest struct {
	EventName  string            `json:"eventName"`
	ObjectID   string            `json:"objectId,omitempty"`
	Email      string            `json:"email,omitempty"`
	OccurredAt string            `json:"occurredAt,omitempty"`
	Properties map[string]string `json:"properties,omitempty"`
}

type apiError struct {
	Status   string `json:"status"`
	Message  string `json:"message"`
	Category string `json:"category"`
}
