package partners

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/acestone/renovation-leads/internal/leads"
	"github.com/acestone/renovation-leads/internal/pricing"
)

// defaultSquareFootage is the estimate used when a partner payload omits the
// project size. Matches the estimate the office uses when qualifying by
// phone.
const defaultSquareFootage = 500

// angiJobTypes maps Angi service categories onto our job types. An unmapped
// category is an error, not a silent default: pricing a roof replacement at
// kitchen rates would be worse than rejecting the lead.
var angiJobTypes = map[string]pricing.JobType{
	"kitchen-remodeling":   pricing.JobKitchen,
	"bathroom-remodeling":  pricing.JobBathroom,
	"interior-painting":    pricing.JobPainting,
	"exterior-painting":    pricing.JobPainting,
	"flooring-installation": pricing.JobFlooring,
	"hardwood-flooring":    pricing.JobFlooring,
	"tile-flooring":        pricing.JobFlooring,
	"roofing-repair":       pricing.JobRoofing,
	"roof-replacement":     pricing.JobRoofing,
}

// AngiPayload is the inbound webhook shape Angi sends for a new lead.
type AngiPayload struct {
	LeadID   string `json:"leadId"`
	Customer struct {
		FirstName string `json:"firstName"`
		LastName  string `json:"lastName"`
		Email     string `json:"email"`
		Phone     string `json:"phone"`
		ZipCode   string `json:"zipCode"`
	} `json:"customer"`
	Project struct {
		Category      string   `json:"category"`
		Description   string   `json:"description"`
		SquareFootage string   `json:"squareFootage"`
		Urgency       string   `json:"urgency"`
		Budget        string   `json:"budget"`
		Photos        []string `json:"photos"`
	} `json:"project"`
}

// NormalizeAngi converts an Angi payload into the common lead input. The
// quote is left unset so intake prices it server-side.
func NormalizeAngi(p *AngiPayload) (*leads.CreateLeadRequest, error) {
	jobType, err := mapAngiJobType(p.Project.Category)
	if err != nil {
		return nil, err
	}

	urgency := pricing.UrgencyNormal
	if strings.EqualFold(p.Project.Urgency, "ASAP") {
		urgency = pricing.UrgencyRush
	}

	return &leads.CreateLeadRequest{
		FullName:      strings.TrimSpace(p.Customer.FirstName + " " + p.Customer.LastName),
		Email:         p.Customer.Email,
		Phone:         p.Customer.Phone,
		JobType:       jobType,
		SquareFootage: parseSquareFootage(p.Project.SquareFootage),
		Urgency:       urgency,
		Message:       p.Project.Description,
		Photos:        p.Project.Photos,
		Source:        leads.SourceAngi,
		ExternalID:    p.LeadID,
		Budget:        p.Project.Budget,
		ZipCode:       p.Customer.ZipCode,
	}, nil
}

func mapAngiJobType(category string) (pricing.JobType, error) {
	jobType, ok := angiJobTypes[strings.ToLower(strings.TrimSpace(category))]
	if !ok {
		return "", fmt.Errorf("%w: angi category %q", ErrUnmappedCategory, category)
	}
	return jobType, nil
}

func parseSquareFootage(raw string) int {
	if n, err := strconv.Atoi(strings.TrimSpace(raw)); err == nil && n >= 1 {
		return n
	}
	return defaultSquareFootage
}
