package entity

import "time"

// Sync status of a contact against the external CRM.
const (
	SyncStatusPending = "pending"
	SyncStatusSynced  = "synced"
	SyncStatusFailed  = "failed"
)

// CRMContact is a Lead once it lives inside the external CRM. ID is always
// "<provider>_<crmID>"; CRMID is the provider's native identifier and is
// opaque outside the connector.
type CRMContact struct {
	Lead

	ID           string    `json:"id"`
	CRMProvider  string    `json:"crm_provider"`
	CRMID        string    `json:"crm_id"`
	LastSyncedAt time.Time `json:"last_synced_at"`
	SyncStatus   string    `json:"sync_status"`
	SyncError    string    `json:"sync_error,omitempty"`
}

// Event types recognized by the tracking pipeline.
const (
	EventPageView           = "page_view"
	EventFormSubmission     = "form_submission"
	EventResourceDownload   = "resource_download"
	EventConsultationBooked = "consultation_booked"
	EventEmailOpened        = "email_opened"
	EventEmailClicked       = "email_clicked"
	EventCustom             = "custom"
)

// CRMEvent is an immutable activity record against a contact. It is forwarded
// to the connector exactly once; there is no retry queue.
type CRMEvent struct {
	ContactID  string            `json:"contact_id"`
	EventType  string            `json:"event_type"`
	EventName  string            `json:"event_name"`
	Properties map[string]string `json:"properties,omitempty"`
	Timestamp  time.Time         `json:"timestamp"`
}

// Lead score categories.
const (
	CategoryHot  = "hot"
	CategoryWarm = "warm"
	CategoryCold = "cold"
)

// ScoreEntry is one criterion's contribution to a lead score.
type ScoreEntry struct {
	Criterion string `json:"criterion"`
	Points    int    `json:"points"`
}

// LeadScore is the computed priority of a lead. Never persisted, recomputed
// on demand.
type LeadScore struct {
	Total     int          `json:"total"`
	Category  string       `json:"category"`
	Breakdown []ScoreEntry `json:"breakdown"`
}

// FailedImport records one lead that could not be created during a bulk
// import, with the connector's error message.
type FailedImport struct {
	Lead  Lead   `json:"lead"`
	Error string `json:"error"`
}

// ImportResult partitions a bulk import: every input lead lands in exactly
// one of the two buckets.
type ImportResult struct {
	Successful []CRMContact   `json:"successful"`
	Failed     []FailedImport `json:"failed"`
}
