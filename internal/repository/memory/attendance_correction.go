package memory

import (
	"context"
	"slices"
	"time"

	"github.com/cmlabs-hris/hris-ledger/internal/domain/correction"
)

type correctionRepository struct {
	s *Store
}

func NewCorrectionRepository(s *Store) correction.CorrectionRepository {
	return &correctionRepository{s: s}
}

func (r *correctionRepository) Create(ctx context.Context, request correction.Request) (correction.Request, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	r.s.corrections[request.ID] = request
	record(ctx, func() { delete(r.s.corrections, request.ID) })
	return request, nil
}

func (r *correctionRepository) GetByID(_ context.Context, id string) (correction.Request, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	req, ok := r.s.corrections[id]
	if !ok {
		return correction.Request{}, correction.ErrCorrectionNotFound
	}
	return req, nil
}

// GetByIDForUpdate relies on the store's transaction lock for exclusion.
func (r *correctionRepository) GetByIDForUpdate(ctx context.Context, id string) (correction.Request, error) {
	return r.GetByID(ctx, id)
}

func (r *correctionRepository) UpdateReview(ctx context.Context, request correction.Request) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	prev, ok := r.s.corrections[request.ID]
	if !ok {
		return correction.ErrCorrectionNotFound
	}
	next := prev
	next.Status = request.Status
	next.ReviewedBy = request.ReviewedBy
	next.ReviewedAt = request.ReviewedAt
	next.ReviewNote = request.ReviewNote
	r.s.corrections[request.ID] = next
	record(ctx, func() { r.s.corrections[request.ID] = prev })
	return nil
}

func (r *correctionRepository) GetByEmployeeID(_ context.Context, employeeID string, status *correction.Status) ([]correction.Request, error) {
	return r.filter(func(c correction.Request) bool {
		return c.EmployeeID == employeeID && (status == nil || c.Status == *status)
	}), nil
}

func (r *correctionRepository) GetByStatus(_ context.Context, status correction.Status) ([]correction.Request, error) {
	return r.filter(func(c correction.Request) bool { return c.Status == status }), nil
}

func (r *correctionRepository) HasPending(_ context.Context, employeeID string, workDate time.Time) (bool, error) {
	day := workDate.Format("2006-01-02")
	pending := r.filter(func(c correction.Request) bool {
		return c.EmployeeID == employeeID && c.Status == correction.StatusPending && c.WorkDate.Format("2006-01-02") == day
	})
	return len(pending) > 0, nil
}

func (r *correctionRepository) filter(keep func(correction.Request) bool) []correction.Request {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	requests := make([]correction.Request, 0)
	for _, c := range r.s.corrections {
		if keep(c) {
			requests = append(requests, c)
		}
	}
	slices.SortFunc(requests, func(a, b correction.Request) int {
		if c := b.WorkDate.Compare(a.WorkDate); c != 0 {
			return c
		}
		return b.RequestedAt.Compare(a.RequestedAt)
	})
	return requests
}
