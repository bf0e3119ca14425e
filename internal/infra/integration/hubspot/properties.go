package hubspot

import (
	"strconv"
	"strings"
	"time"

	"github.com/businessofone/crm-backend/internal/entity"
)

// HubSpot property names for the lead fields we own.
const (
	propEmail             = "email"
	propFirstName         = "firstname"
	propLastName          = "lastname"
	propCompany           = "company"
	propPhone             = "phone"
	propBusinessType      = "business_type"
	propMonthlyRevenue    = "monthly_revenue"
	propPrimaryChallenges = "primary_challenges"
	propUrgency           = "urgency"
	propLeadSource        = "lead_source"
	propLandingPage       = "landing_page"
	propLeadScore         = "lead_score"
	propTags              = "tags"
	propUTMSource         = "utm_source"
	propUTMMedium         = "utm_medium"
	propUTMCampaign       = "utm_campaign"
	propUTMTerm           = "utm_term"
	propUTMContent        = "utm_content"
)

// listSeparator joins list-valued fields on write; they are split back on read.
const listSeparator = ";"

var readProperties = []string{
	propEmail, propFirstName, propLastName, propCompany, propPhone,
	propBusinessType, propMonthlyRevenue, propPrimaryChallenges, propUrgency,
	propLeadSource, propLandingPage, propLeadScore, propTags,
	propUTMSource, propUTMMedium, propUTMCampaign, propUTMTerm, propUTMContent,
}

// leadToProperties maps a lead to the outbound property payload. Only fields
// that are actually set are included, so a partial lead never null-overwrites
// remote data.
func leadToProperties(lead entity.Lead) map[string]string {
	props := map[string]string{propEmail: lead.Email}

	setIfPresent(props, propFirstName, lead.FirstName)
	setIfPresent(props, propLastName, lead.LastName)
	setIfPresent(props, propCompany, lead.Company)
	setIfPresent(props, propPhone, lead.Phone)
	setIfPresent(props, propBusinessType, lead.BusinessType)
	setIfPresent(props, propMonthlyRevenue, lead.MonthlyRevenue)
	setIfPresent(props, propUrgency, lead.Urgency)
	setIfPresent(props, propLeadSource, lead.LeadSource)
	setIfPresent(props, propLandingPage, lead.LandingPage)

	if len(lead.PrimaryChallenges) > 0 {
		props[propPrimaryChallenges] = strings.Join(lead.PrimaryChallenges, listSeparator)
	}
	if len(lead.Tags) > 0 {
		props[propTags] = strings.Join(lead.Tags, listSeparator)
	}
	if lead.LeadScore > 0 {
		props[propLeadScore] = strconv.Itoa(lead.LeadScore)
	}
	if utm := lead.UTMParameters; utm != nil {
		setIfPresent(props, propUTMSource, utm.Source)
		setIfPresent(props, propUTMMedium, utm.Medium)
		setIfPresent(props, propUTMCampaign, utm.Campaign)
		setIfPresent(props, propUTMTerm, utm.Term)
		setIfPresent(props, propUTMContent, utm.Content)
	}
	for k, v := range lead.CustomProperties {
		props[k] = v
	}

	return props
}

// updateToProperties maps only the touched fields of a partial update.
func updateToProperties(updates entity.LeadUpdate) map[string]string {
	props := map[string]string{}

	setIfPtr(props, propFirstName, updates.FirstName)
	setIfPtr(props, propLastName, updates.LastName)
	setIfPtr(props, propCompany, updates.Company)
	setIfPtr(props, propPhone, updates.Phone)
	setIfPtr(props, propBusinessType, updates.BusinessType)
	setIfPtr(props, propMonthlyRevenue, updates.MonthlyRevenue)
	setIfPtr(props, propUrgency, updates.Urgency)
	setIfPtr(props, propLeadSource, updates.LeadSource)
	setIfPtr(props, propLandingPage, updates.LandingPage)

	if updates.PrimaryChallenges != nil {
		props[propPrimaryChallenges] = strings.Join(updates.PrimaryChallenges, listSeparator)
	}
	if updates.Tags != nil {
		props[propTags] = strings.Join(updates.Tags, listSeparator)
	}
	if updates.LeadScore != nil {
		props[propLeadScore] = strconv.Itoa(*updates.LeadScore)
	}
	for k, v := range updates.CustomProperties {
		props[k] = v
	}

	return props
}

// contactFromObject maps an inbound HubSpot contact object back to the
// domain model.
func contactFromObject(obj contactObject) entity.CRMContact {
	p := obj.Properties

	lead := entity.Lead{
		Email:          p[propEmail],
		FirstName:      p[propFirstName],
		LastName:       p[propLastName],
		Company:        p[propCompany],
		Phone:          p[propPhone],
		BusinessType:   p[propBusinessType],
		MonthlyRevenue: p[propMonthlyRevenue],
		Urgency:        p[propUrgency],
		LeadSource:     p[propLeadSource],
		LandingPage:    p[propLandingPage],
	}

	if raw := p[propPrimaryChallenges]; raw != "" {
		lead.PrimaryChallenges = strings.Split(raw, listSeparator)
	}
	if raw := p[propTags]; raw != "" {
		lead.Tags = strings.Split(raw, listSeparator)
	}
	if raw := p[propLeadScore]; raw != "" {
		if score, err := strconv.Atoi(raw); err == nil {
			lead.LeadScore = score
		}
	}

	utm := entity.UTMParameters{
		Source:   p[propUTMSource],
		Medium:   p[propUTMMedium],
		Campaign: p[propUTMCampaign],
		Term:     p[propUTMTerm],
		Content:  p[propUTMContent],
	}
	if utm != (entity.UTMParameters{}) {
		lead.UTMParameters = &utm
	}

	return entity.CRMContact{
		Lead:         lead,
		ID:           providerName + "_" + obj.ID,
		CRMProvider:  providerName,
		CRMID:        obj.ID,
		LastSyncedAt: time.Now(),
		SyncStatus:   entity.SyncStatusSynced,
	}
}

func setIfPresent(props map[string]string, key, value string) {
	if value != "" {
		props[key] = value
	}
}

func setIfPtr(props map[string]string, key string, value *string) {
	if value != nil {
		props[key] = *value
	}
}
