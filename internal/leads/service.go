package leads

import (
	"context"
	"time"

	"github.com/acestone/renovation-leads/internal/observability/metrics"
	"github.com/acestone/renovation-leads/internal/pricing"
	"github.com/acestone/renovation-leads/pkg/logging"
)

// Notifier receives best-effort notifications about new leads. Implemented by
// the notify package; nil disables notifications.
type Notifier interface {
	LeadCreated(ctx context.Context, lead *Lead) error
}

const notifyTimeout = 15 * time.Second

// Service is the lead intake pipeline: validate, price, persist, notify.
type Service struct {
	repo     Repository
	notifier Notifier
	metrics  *metrics.LeadMetrics
	logger   *logging.Logger
}

// NewService wires the intake service. notifier and m may be nil.
func NewService(repo Repository, notifier Notifier, m *metrics.LeadMetrics, logger *logging.Logger) *Service {
	if repo == nil {
		panic("leads: repository required")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Service{repo: repo, notifier: notifier, metrics: m, logger: logger}
}

// Submit validates the request, computes the quote when the caller did not
// supply a usable one, persists the lead and fires the notification
// side-effect. A notification failure never fails the submission.
func (s *Service) Submit(ctx context.Context, req *CreateLeadRequest) (*Lead, error) {
	if ve := req.Validate(); ve != nil {
		return nil, ve
	}

	if req.Quote <= 0 {
		quote, err := pricing.Quote(req.JobType, req.SquareFootage, req.Urgency)
		if err != nil {
			// Validate already checked these inputs; treat a pricing
			// failure as a validation problem rather than a fault.
			ve := &ValidationError{}
			ve.Add("quote", err.Error())
			return nil, ve
		}
		req.Quote = quote
	}

	lead, err := s.repo.Create(ctx, req)
	if err != nil {
		return nil, err
	}

	s.logger.Info("lead created",
		"id", lead.ID,
		"source", lead.Source,
		"job_type", lead.JobType,
		"quote", lead.Quote,
	)
	s.metrics.ObserveLeadCreated(string(lead.Source), string(lead.JobType), lead.Quote)

	if s.notifier != nil {
		// Fire and forget: the HTTP response must not wait on email, and a
		// send failure must not surface to the caller. A detached context
		// keeps the send alive after the request context is canceled.
		leadCopy := *lead
		go func() {
			nctx, cancel := context.WithTimeout(context.Background(), notifyTimeout)
			defer cancel()
			if err := s.notifier.LeadCreated(nctx, &leadCopy); err != nil {
				s.logger.Error("lead notification failed", "error", err, "lead_id", leadCopy.ID)
			}
		}()
	}

	return lead, nil
}

// List returns all leads newest first.
func (s *Service) List(ctx context.Context) ([]Lead, error) {
	return s.repo.List(ctx)
}

// GetByID returns a single lead or ErrLeadNotFound.
func (s *Service) GetByID(ctx context.Context, id string) (*Lead, error) {
	return s.repo.GetByID(ctx, id)
}

// UpdateStatus validates the status value and applies it. Returns
// ErrInvalidStatus for an unknown status and ErrLeadNotFound for an unknown
// id.
func (s *Service) UpdateStatus(ctx context.Context, id string, status Status) (*Lead, error) {
	if !ValidStatus(status) {
		return nil, ErrInvalidStatus
	}
	lead, err := s.repo.UpdateStatus(ctx, id, status)
	if err != nil {
		return nil, err
	}
	s.metrics.ObserveStatusUpdate(string(status))
	return lead, nil
}

// Stats returns the dashboard aggregates.
func (s *Service) Stats(ctx context.Context) (Stats, error) {
	return s.repo.Stats(ctx)
}
