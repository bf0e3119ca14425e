package usecase

import (
	"fmt"
	"net/mail"
	"regexp"
	"strings"

	"github.com/businessofone/crm-backend/internal/entity"
)

type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

var (
	validBusinessTypes = map[string]bool{
		entity.BusinessTypeSolopreneur: true,
		entity.BusinessTypeFreelancer:  true,
		entity.BusinessTypeConsultant:  true,
		entity.BusinessTypeOther:       true,
	}

	validRevenues = map[string]bool{
		entity.RevenueUnder5k:  true,
		entity.Revenue5kTo10k:  true,
		entity.Revenue10kTo25k: true,
		entity.Revenue25kPlus:  true,
	}

	validUrgencies = map[string]bool{
		entity.UrgencyImmediate:  true,
		entity.Urgency1To3Months: true,
		entity.Urgency3To6Months: true,
		entity.UrgencyExploring:  true,
	}

	validEventTypes = map[string]bool{
		entity.EventPageView:           true,
		entity.EventFormSubmission:     true,
		entity.EventResourceDownload:   true,
		entity.EventConsultationBooked: true,
		entity.EventEmailOpened:        true,
		entity.EventEmailClicked:       true,
		entity.EventCustom:             true,
	}
)

// ValidateLeadInput runs the route-boundary checks. The core assumes
// validated input, so everything enum-shaped is checked here.
func ValidateLeadInput(lead entity.Lead) []ValidationError {
	var errors []ValidationError

	if strings.TrimSpace(lead.Email) == "" {
		errors = append(errors, ValidationError{"email", "is required"})
	} else if _, err := mail.ParseAddress(lead.Email); err != nil {
		errors = append(errors, ValidationError{"email", "is invalid"})
	}

	if lead.BusinessType != "" && !validBusinessTypes[lead.BusinessType] {
		errors = append(errors, ValidationError{"business_type", "must be one of solopreneur, freelancer, consultant, other"})
	}

	if lead.MonthlyRevenue != "" && !validRevenues[lead.MonthlyRevenue] {
		errors = append(errors, ValidationError{"monthly_revenue", "must be one of <5k, 5-10k, 10-25k, 25k+"})
	}

	if lead.Urgency != "" && !validUrgencies[lead.Urgency] {
		errors = append(errors, ValidationError{"urgency", "must be one of immediate, 1-3months, 3-6months, exploring"})
	}

	if lead.Phone != "" && !isValidPhoneNumber(lead.Phone) {
		errors = append(errors, ValidationError{"phone", "must be a valid phone number"})
	}

	return errors
}

// ValidateLeadUpdate checks only the fields the update touches.
func ValidateLeadUpdate(updates entity.LeadUpdate) []ValidationError {
	var errors []ValidationError

	if updates.BusinessType != nil && !validBusinessTypes[*updates.BusinessType] {
		errors = append(errors, ValidationError{"business_type", "must be one of solopreneur, freelancer, consultant, other"})
	}
	if updates.MonthlyRevenue != nil && !validRevenues[*updates.MonthlyRevenue] {
		errors = append(errors, ValidationError{"monthly_revenue", "must be one of <5k, 5-10k, 10-25k, 25k+"})
	}
	if updates.Urgency != nil && !validUrgencies[*updates.Urgency] {
		errors = append(errors, ValidationError{"urgency", "must be one of immediate, 1-3months, 3-6months, exploring"})
	}
	if updates.Phone != nil && *updates.Phone != "" && !isValidPhoneNumber(*updates.Phone) {
		errors = append(errors, ValidationError{"phone", "must be a valid phone number"})
	}

	return errors
}

func ValidateEventInput(event entity.CRMEvent) []ValidationError {
	var errors []ValidationError

	if strings.TrimSpace(event.ContactID) == "" {
		errors = append(errors, ValidationError{"contact_id", "is required"})
	}
	if event.EventType == "" {
		errors = append(errors, ValidationError{"event_type", "is required"})
	} else if !validEventTypes[event.EventType] {
		errors = append(errors, ValidationError{"event_type", "is not a recognized event type"})
	}
	if strings.TrimSpace(event.EventName) == "" {
		errors = append(errors, ValidationError{"event_name", "is required"})
	}

	return errors
}

func isValidPhoneNumber(phone string) bool {
	cleaned := regexp.MustCompile(`\D`).ReplaceAllString(phone, "")
	return len(cleaned) >= 10 && len(cleaned) <= 15
}
