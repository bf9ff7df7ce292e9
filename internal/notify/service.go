package notify

import (
	"context"
	"fmt"

	"github.com/acestone/renovation-leads/internal/leads"
	"github.com/acestone/renovation-leads/internal/pricing"
	"github.com/acestone/renovation-leads/pkg/logging"
)

// Service sends lead notifications: an internal alert to the office and a
// confirmation to the customer. Every send is best-effort; lead creation
// never depends on email succeeding.
type Service struct {
	email      EmailSender
	recipients []string
	logger     *logging.Logger
}

// NewService creates a notification service. recipients are the internal
// addresses alerted about each new lead.
func NewService(email EmailSender, recipients []string, logger *logging.Logger) *Service {
	if logger == nil {
		logger = logging.Default()
	}
	return &Service{email: email, recipients: recipients, logger: logger}
}

var _ leads.Notifier = (*Service)(nil)

// LeadCreated sends the internal alert and the customer confirmation.
// Individual failures are collected so the caller can log them, but partial
// success still sends everything it can.
func (s *Service) LeadCreated(ctx context.Context, lead *leads.Lead) error {
	if s.email == nil {
		return nil
	}

	var errs []error

	subject := fmt.Sprintf("New Lead - %s (%s)", lead.FullName, pricing.JobTypeLabels[lead.JobType])
	body := fmt.Sprintf(`A new lead has come in!

Name: %s
Email: %s
Phone: %s
Job: %s, %d sqft, %s
Quote: %s
Source: %s
Zip: %s
Message: %s
`,
		lead.FullName, lead.Email, lead.Phone,
		pricing.JobTypeLabels[lead.JobType], lead.SquareFootage, pricing.UrgencyLabels[lead.Urgency],
		pricing.FormatCurrency(lead.Quote), lead.Source, lead.ZipCode, lead.Message)

	for _, recipient := range s.recipients {
		msg := EmailMessage{To: recipient, Subject: subject, Body: body}
		if err := s.email.Send(ctx, msg); err != nil {
			s.logger.Error("notify: internal alert failed", "error", err, "to", recipient, "lead_id", lead.ID)
			errs = append(errs, err)
		}
	}

	confirmation := EmailMessage{
		To:      lead.Email,
		ToName:  lead.FullName,
		Subject: "Your renovation quote from AceStone",
		Body: fmt.Sprintf(`Hi %s,

Thanks for requesting a quote! Based on what you told us, your estimated
price for %s (%d sqft, %s) is %s.

We'll be in touch shortly to schedule a walkthrough.

The AceStone Renovations team
`,
			lead.FullName,
			pricing.JobTypeLabels[lead.JobType], lead.SquareFootage, pricing.UrgencyLabels[lead.Urgency],
			pricing.FormatCurrency(lead.Quote)),
	}
	if err := s.email.Send(ctx, confirmation); err != nil {
		s.logger.Error("notify: customer confirmation failed", "error", err, "to", lead.Email, "lead_id", lead.ID)
		errs = append(errs, err)
	}

	if len(errs) > 0 {
		return fmt.Errorf("notify: %d notification(s) failed", len(errs))
	}
	return nil
}
