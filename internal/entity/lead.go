package entity

import (
	"context"
	"time"
)

// Business type options captured by the qualification form.
const (
	BusinessTypeSolopreneur = "solopreneur"
	BusinessTypeFreelancer  = "freelancer"
	BusinessTypeConsultant  = "consultant"
	BusinessTypeOther       = "other"
)

// Monthly revenue bands (self-reported).
const (
	RevenueUnder5k  = "<5k"
	Revenue5kTo10k  = "5-10k"
	Revenue10kTo25k = "10-25k"
	Revenue25kPlus  = "25k+"
)

// Urgency options.
const (
	UrgencyImmediate  = "immediate"
	Urgency1To3Months = "1-3months"
	Urgency3To6Months = "3-6months"
	UrgencyExploring  = "exploring"
)

type UTMParameters struct {
	Source   string `json:"source,omitempty"`
	Medium   string `json:"medium,omitempty"`
	Campaign string `json:"campaign,omitempty"`
	Term     string `json:"term,omitempty"`
	Content  string `json:"content,omitempty"`
}

// Lead is a prospective client captured from a marketing form or bulk import.
// Email is the business-side identifier; everything else is optional
// qualification data.
type Lead struct {
	Email             string            `json:"email"`
	FirstName         string            `json:"first_name,omitempty"`
	LastName          string            `json:"last_name,omitempty"`
	Company           string            `json:"company,omitempty"`
	Phone             string            `json:"phone,omitempty"`
	BusinessType      string            `json:"business_type,omitempty"`
	MonthlyRevenue    string            `json:"monthly_revenue,omitempty"`
	PrimaryChallenges []string          `json:"primary_challenges,omitempty"`
	Urgency           string            `json:"urgency,omitempty"`
	LeadSource        string            `json:"lead_source,omitempty"`
	LandingPage       string            `json:"landing_page,omitempty"`
	UTMParameters     *UTMParameters    `json:"utm_parameters,omitempty"`
	LeadScore         int               `json:"lead_score,omitempty"`
	Tags              []string          `json:"tags,omitempty"`
	CustomProperties  map[string]string `json:"custom_properties,omitempty"`
}

// Clone returns a deep copy. The service layer never mutates a caller's lead;
// enrichment (score injection) always happens on a copy.
func (l Lead) Clone() Lead {
	c := l
	if l.PrimaryChallenges != nil {
		c.PrimaryChallenges = append([]string(nil), l.PrimaryChallenges...)
	}
	if l.Tags != nil {
		c.Tags = append([]string(nil), l.Tags...)
	}
	if l.UTMParameters != nil {
		utm := *l.UTMParameters
		c.UTMParameters = &utm
	}
	if l.CustomProperties != nil {
		c.CustomProperties = make(map[string]string, len(l.CustomProperties))
		for k, v := range l.CustomProperties {
			c.CustomProperties[k] = v
		}
	}
	return c
}

// LeadUpdate is a partial lead: nil means "not touched". Only non-nil fields
// are sent to the CRM.
type LeadUpdate struct {
	FirstName         *string           `json:"first_name,omitempty"`
	LastName          *string           `json:"last_name,omitempty"`
	Company           *string           `json:"company,omitempty"`
	Phone             *string           `json:"phone,omitempty"`
	BusinessType      *string           `json:"business_type,omitempty"`
	MonthlyRevenue    *string           `json:"monthly_revenue,omitempty"`
	PrimaryChallenges []string          `json:"primary_challenges,omitempty"`
	Urgency           *string           `json:"urgency,omitempty"`
	LeadSource        *string           `json:"lead_source,omitempty"`
	LandingPage       *string           `json:"landing_page,omitempty"`
	LeadScore         *int              `json:"lead_score,omitempty"`
	Tags              []string          `json:"tags,omitempty"`
	CustomProperties  map[string]string `json:"custom_properties,omitempty"`
}

// TouchesScoring reports whether the update changes any field the lead score
// is derived from.
func (u LeadUpdate) TouchesScoring() bool {
	return u.BusinessType != nil ||
		u.MonthlyRevenue != nil ||
		u.Urgency != nil ||
		u.PrimaryChallenges != nil
}

// Clone returns a deep copy of the update.
func (u LeadUpdate) Clone() LeadUpdate {
	c := u
	c.FirstName = clonePtr(u.FirstName)
	c.LastName = clonePtr(u.LastName)
	c.Company = clonePtr(u.Company)
	c.Phone = clonePtr(u.Phone)
	c.BusinessType = clonePtr(u.BusinessType)
	c.MonthlyRevenue = clonePtr(u.MonthlyRevenue)
	c.Urgency = clonePtr(u.Urgency)
	c.LeadSource = clonePtr(u.LeadSource)
	c.LandingPage = clonePtr(u.LandingPage)
	c.LeadScore = clonePtr(u.LeadScore)
	if u.PrimaryChallenges != nil {
		c.PrimaryChallenges = append([]string(nil), u.PrimaryChallenges...)
	}
	if u.Tags != nil {
		c.Tags = append([]string(nil), u.Tags...)
	}
	if u.CustomProperties != nil {
		c.CustomProperties = make(map[string]string, len(u.CustomProperties))
		for k, v := range u.CustomProperties {
			c.CustomProperties[k] = v
		}
	}
	return c
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

// ApplyTo merges the update over a lead and returns the merged copy.
func (u LeadUpdate) ApplyTo(lead Lead) Lead {
	merged := lead.Clone()
	if u.FirstName != nil {
		merged.FirstName = *u.FirstName
	}
	if u.LastName != nil {
		merged.LastName = *u.LastName
	}
	if u.Company != nil {
		merged.Company = *u.Company
	}
	if u.Phone != nil {
		merged.Phone = *u.Phone
	}
	if u.BusinessType != nil {
		merged.BusinessType = *u.BusinessType
	}
	if u.MonthlyRevenue != nil {
		merged.MonthlyRevenue = *u.MonthlyRevenue
	}
	if u.PrimaryChallenges != nil {
		merged.PrimaryChallenges = append([]string(nil), u.PrimaryChallenges...)
	}
	if u.Urgency != nil {
		merged.Urgency = *u.Urgency
	}
	if u.LeadSource != nil {
		merged.LeadSource = *u.LeadSource
	}
	if u.LandingPage != nil {
		merged.LandingPage = *u.LandingPage
	}
	if u.Tags != nil {
		merged.Tags = append([]string(nil), u.Tags...)
	}
	return merged
}

// CapturedLead is the local mirror row of a marketing-form submission. It
// exists so a CRM outage never loses a lead.
type CapturedLead struct {
	ID         string    `json:"id"`
	Email      string    `json:"email"`
	FirstName  string    `json:"first_name,omitempty"`
	LastName   string    `json:"last_name,omitempty"`
	LeadSource string    `json:"lead_source,omitempty"`
	LeadScore  int       `json:"lead_score"`
	Category   string    `json:"category"`
	CRMID      string    `json:"crm_id,omitempty"`
	SyncStatus string    `json:"sync_status"` // pending, synced, failed
	SyncError  string    `json:"sync_error,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

type CapturedLeadRepositoryInterface interface {
	Upsert(ctx context.Context, lead *CapturedLead) error
	FindByEmail(ctx context.Context, email string) (*CapturedLead, error)
	MarkSynced(ctx context.Context, email, crmID string) error
	MarkFailed(ctx context.Context, email, reason string) error
}
