package partners

import (
	"errors"
	"fmt"
	"strings"

	"github.com/acestone/renovation-leads/internal/leads"
	"github.com/acestone/renovation-leads/internal/pricing"
)

// ErrUnmappedCategory is returned when a partner category has no job type
// mapping.
var ErrUnmappedCategory = errors.New("partners: unmapped job category")

var homeAdvisorJobTypes = map[string]pricing.JobType{
	"kitchen-renovation":  pricing.JobKitchen,
	"bathroom-renovation": pricing.JobBathroom,
	"painting-services":   pricing.JobPainting,
	"flooring-services":   pricing.JobFlooring,
	"roofing-services":    pricing.JobRoofing,
}

// HomeAdvisorPayload is the inbound webhook shape HomeAdvisor sends.
type HomeAdvisorPayload struct {
	RequestID string `json:"requestId"`
	Homeowner struct {
		Name        string `json:"name"`
		Email       string `json:"email"`
		PhoneNumber string `json:"phoneNumber"`
		ZipCode     string `json:"zipCode"`
	} `json:"homeowner"`
	Request struct {
		ServiceCategory string   `json:"serviceCategory"`
		Details         string   `json:"details"`
		ProjectSize     string   `json:"projectSize"`
		Timeframe       string   `json:"timeframe"`
		BudgetRange     string   `json:"budgetRange"`
		Attachments     []string `json:"attachments"`
	} `json:"request"`
}

// NormalizeHomeAdvisor converts a HomeAdvisor payload into the common lead
// input.
func NormalizeHomeAdvisor(p *HomeAdvisorPayload) (*leads.CreateLeadRequest, error) {
	jobType, err := mapHomeAdvisorJobType(p.Request.ServiceCategory)
	if err != nil {
		return nil, err
	}

	urgency := pricing.UrgencyNormal
	if strings.EqualFold(p.Request.Timeframe, "ASAP") {
		urgency = pricing.UrgencyRush
	}

	return &leads.CreateLeadRequest{
		FullName:      strings.TrimSpace(p.Homeowner.Name),
		Email:         p.Homeowner.Email,
		Phone:         p.Homeowner.PhoneNumber,
		JobType:       jobType,
		SquareFootage: parseSquareFootage(p.Request.ProjectSize),
		Urgency:       urgency,
		Message:       p.Request.Details,
		Photos:        p.Request.Attachments,
		Source:        leads.SourceHomeAdvisor,
		ExternalID:    p.RequestID,
		Budget:        p.Request.BudgetRange,
		ZipCode:       p.Homeowner.ZipCode,
	}, nil
}

func mapHomeAdvisorJobType(category string) (pricing.JobType, error) {
	jobType, ok := homeAdvisorJobTypes[strings.ToLower(strings.TrimSpace(category))]
	if !ok {
		return "", fmt.Errorf("%w: homeadvisor category %q", ErrUnmappedCategory, category)
	}
	return jobType, nil
}
