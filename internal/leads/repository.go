package leads

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Repository defines the storage contract for leads. Both the in-memory and
// DynamoDB implementations satisfy it, so callers never know which backend
// they are talking to.
type Repository interface {
	Create(ctx context.Context, req *CreateLeadRequest) (*Lead, error)
	List(ctx context.Context) ([]Lead, error)
	GetByID(ctx context.Context, id string) (*Lead, error)
	UpdateStatus(ctx context.Context, id string, status Status) (*Lead, error)
	Stats(ctx context.Context) (Stats, error)
}

// InMemoryRepository keeps leads in a process-local map. It is safe for
// concurrent use and is the default backend for development and tests.
type InMemoryRepository struct {
	mu    sync.RWMutex
	leads map[string]*Lead
}

// NewInMemoryRepository creates an empty in-memory repository.
func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{leads: make(map[string]*Lead)}
}

var _ Repository = (*InMemoryRepository)(nil)

// Create stores a new lead with a fresh id, status "new" and equal
// created/updated timestamps. The request is assumed validated.
func (r *InMemoryRepository) Create(ctx context.Context, req *CreateLeadRequest) (*Lead, error) {
	now := time.Now().UTC()
	lead := newLead(req, uuid.NewString(), now)

	r.mu.Lock()
	r.leads[lead.ID] = lead
	r.mu.Unlock()

	copy := *lead
	return &copy, nil
}

// List returns all leads ordered newest first.
func (r *InMemoryRepository) List(ctx context.Context) ([]Lead, error) {
	r.mu.RLock()
	out := make([]Lead, 0, len(r.leads))
	for _, lead := range r.leads {
		out = append(out, *lead)
	}
	r.mu.RUnlock()

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

// GetByID returns the lead or ErrLeadNotFound.
func (r *InMemoryRepository) GetByID(ctx context.Context, id string) (*Lead, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	lead, ok := r.leads[id]
	if !ok {
		return nil, ErrLeadNotFound
	}
	copy := *lead
	return &copy, nil
}

// UpdateStatus sets the status and refreshes UpdatedAt. Returns
// ErrLeadNotFound for an unknown id.
func (r *InMemoryRepository) UpdateStatus(ctx context.Context, id string, status Status) (*Lead, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	lead, ok := r.leads[id]
	if !ok {
		return nil, ErrLeadNotFound
	}

	now := time.Now().UTC()
	// Coarse clocks can hand back the same instant twice; UpdatedAt must
	// advance on every mutation.
	if !now.After(lead.UpdatedAt) {
		now = lead.UpdatedAt.Add(time.Nanosecond)
	}
	lead.Status = status
	lead.UpdatedAt = now

	copy := *lead
	return &copy, nil
}

// Stats computes aggregate dashboard numbers fresh on every call.
func (r *InMemoryRepository) Stats(ctx context.Context) (Stats, error) {
	all, err := r.List(ctx)
	if err != nil {
		return Stats{}, err
	}
	return ComputeStats(all, time.Now().UTC()), nil
}

// newLead builds the stored record from a validated request, applying the
// documented defaults.
func newLead(req *CreateLeadRequest, id string, now time.Time) *Lead {
	photos := req.Photos
	if photos == nil {
		photos = []string{}
	}
	source := req.Source
	if source == "" {
		source = SourceWebsite
	}
	return &Lead{
		ID:            id,
		FullName:      req.FullName,
		Email:         req.Email,
		Phone:         req.Phone,
		JobType:       req.JobType,
		SquareFootage: req.SquareFootage,
		Urgency:       req.Urgency,
		Message:       req.Message,
		Photos:        photos,
		Quote:         req.Quote,
		Status:        StatusNew,
		Source:        source,
		ExternalID:    req.ExternalID,
		Budget:        req.Budget,
		ZipCode:       req.ZipCode,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}
