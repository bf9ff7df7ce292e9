package leads

import (
	"net/mail"
	"strings"
	"time"

	"github.com/acestone/renovation-leads/internal/pricing"
)

// Status tracks where a lead sits in the follow-up pipeline. Transitions are
// free-form: any status may be set from any other.
type Status string

const (
	StatusNew        Status = "new"
	StatusContacted  Status = "contacted"
	StatusInProgress Status = "in-progress"
	StatusCompleted  Status = "completed"
)

// ValidStatus reports whether s is a known lead status.
func ValidStatus(s Status) bool {
	switch s {
	case StatusNew, StatusContacted, StatusInProgress, StatusCompleted:
		return true
	}
	return false
}

// Source identifies the channel a lead arrived through.
type Source string

const (
	SourceWebsite     Source = "website"
	SourceAngi        Source = "angi"
	SourceHomeAdvisor Source = "homeadvisor"
	SourceManual      Source = "manual"
)

// ValidSource reports whether s is a known lead source.
func ValidSource(s Source) bool {
	switch s {
	case SourceWebsite, SourceAngi, SourceHomeAdvisor, SourceManual:
		return true
	}
	return false
}

// Lead is a prospective customer's renovation request. All fields except
// Status and UpdatedAt are immutable after creation.
type Lead struct {
	ID            string          `json:"id"`
	FullName      string          `json:"fullName"`
	Email         string          `json:"email"`
	Phone         string          `json:"phone"`
	JobType       pricing.JobType `json:"jobType"`
	SquareFootage int             `json:"squareFootage"`
	Urgency       pricing.Urgency `json:"urgency"`
	Message       string          `json:"message,omitempty"`
	Photos        []string        `json:"photos"`
	Quote         float64         `json:"quote"`
	Status        Status          `json:"status"`
	Source        Source          `json:"source"`
	ExternalID    string          `json:"externalId,omitempty"`
	Budget        string          `json:"budget,omitempty"`
	ZipCode       string          `json:"zipCode,omitempty"`
	CreatedAt     time.Time       `json:"createdAt"`
	UpdatedAt     time.Time       `json:"updatedAt"`
}

// CreateLeadRequest is the normalized input for creating a lead, whether it
// comes from the public quote form or a partner webhook adapter.
type CreateLeadRequest struct {
	FullName      string          `json:"fullName"`
	Email         string          `json:"email"`
	Phone         string          `json:"phone"`
	JobType       pricing.JobType `json:"jobType"`
	SquareFootage int             `json:"squareFootage"`
	Urgency       pricing.Urgency `json:"urgency"`
	Message       string          `json:"message,omitempty"`
	Photos        []string        `json:"photos,omitempty"`
	Quote         float64         `json:"quote,omitempty"`
	Source        Source          `json:"source,omitempty"`
	ExternalID    string          `json:"externalId,omitempty"`
	Budget        string          `json:"budget,omitempty"`
	ZipCode       string          `json:"zipCode,omitempty"`
}

// Validate checks every field and collects all failures rather than stopping
// at the first, so the form can highlight each bad input at once.
func (r *CreateLeadRequest) Validate() *ValidationError {
	var ve ValidationError

	if strings.TrimSpace(r.FullName) == "" {
		ve.Add("fullName", "Full name is required")
	}
	if _, err := mail.ParseAddress(r.Email); err != nil {
		ve.Add("email", "Invalid email address")
	}
	if len(r.Phone) < 10 {
		ve.Add("phone", "Phone number must be at least 10 digits")
	}
	if !pricing.ValidJobType(r.JobType) {
		ve.Add("jobType", "Job type must be one of: kitchen, bathroom, painting, flooring, roofing")
	}
	if r.SquareFootage < 1 {
		ve.Add("squareFootage", "Square footage must be greater than 0")
	}
	if !pricing.ValidUrgency(r.Urgency) {
		ve.Add("urgency", "Urgency must be normal or rush")
	}
	if r.Source != "" && !ValidSource(r.Source) {
		ve.Add("source", "Source must be one of: website, angi, homeadvisor, manual")
	}

	if len(ve.Details) > 0 {
		return &ve
	}
	return nil
}
