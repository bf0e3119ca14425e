package usecase

import "github.com/businessofone/crm-backend/internal/entity"

// Point tables for the qualification criteria. Values the tables don't know
// contribute nothing. Upstream validation owns enum membership; the scorer
// stays a total function.
var (
	businessTypePoints = map[string]int{
		entity.BusinessTypeConsultant:  30,
		entity.BusinessTypeFreelancer:  25,
		entity.BusinessTypeSolopreneur: 20,
		entity.BusinessTypeOther:       10,
	}

	monthlyRevenuePoints = map[string]int{
		entity.Revenue25kPlus:  30,
		entity.Revenue10kTo25k: 25,
		entity.Revenue5kTo10k:  15,
		entity.RevenueUnder5k:  5,
	}

	urgencyPoints = map[string]int{
		entity.UrgencyImmediate:  25,
		entity.Urgency1To3Months: 20,
		entity.Urgency3To6Months: 10,
		entity.UrgencyExploring:  5,
	}
)

const (
	challengePointsEach = 5
	challengePointsCap  = 15

	hotThreshold  = 80
	warmThreshold = 50
)

// CalculateLeadScore maps a lead's qualification fields to a 0-100 score and
// a hot/warm/cold category. Pure: no I/O, never fails, absent fields simply
// don't contribute.
func CalculateLeadScore(lead entity.Lead) entity.LeadScore {
	score := entity.LeadScore{Breakdown: []entity.ScoreEntry{}}

	if pts, ok := businessTypePoints[lead.BusinessType]; ok {
		score.Total += pts
		score.Breakdown = append(score.Breakdown, entity.ScoreEntry{Criterion: "Business Type", Points: pts})
	}

	if pts, ok := monthlyRevenuePoints[lead.MonthlyRevenue]; ok {
		score.Total += pts
		score.Breakdown = append(score.Breakdown, entity.ScoreEntry{Criterion: "Monthly Revenue", Points: pts})
	}

	if pts, ok := urgencyPoints[lead.Urgency]; ok {
		score.Total += pts
		score.Breakdown = append(score.Breakdown, entity.ScoreEntry{Criterion: "Urgency", Points: pts})
	}

	if n := len(lead.PrimaryChallenges); n > 0 {
		pts := n * challengePointsEach
		if pts > challengePointsCap {
			pts = challengePointsCap
		}
		score.Total += pts
		score.Breakdown = append(score.Breakdown, entity.ScoreEntry{Criterion: "Challenges Identified", Points: pts})
	}

	switch {
	case score.Total >= hotThreshold:
		score.Category = entity.CategoryHot
	case score.Total >= warmThreshold:
		score.Category = entity.CategoryWarm
	default:
		score.Category = entity.CategoryCold
	}

	return score
}
