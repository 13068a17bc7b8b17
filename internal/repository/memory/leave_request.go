package memory

import (
	"context"
	"slices"
	"time"

	"github.com/cmlabs-hris/hris-ledger/internal/domain/leave"
)

type leaveRequestRepository struct {
	s *Store
}

func NewLeaveRequestRepository(s *Store) leave.LeaveRequestRepository {
	return &leaveRequestRepository{s: s}
}

func (r *leaveRequestRepository) Create(ctx context.Context, request leave.Request) (leave.Request, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	r.s.requests[request.ID] = request
	record(ctx, func() { delete(r.s.requests, request.ID) })
	return request, nil
}

func (r *leaveRequestRepository) GetByID(_ context.Context, id string) (leave.Request, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	req, ok := r.s.requests[id]
	if !ok {
		return leave.Request{}, leave.ErrLeaveRequestNotFound
	}
	return req, nil
}

// GetByIDForUpdate relies on the store's transaction lock for exclusion.
func (r *leaveRequestRepository) GetByIDForUpdate(ctx context.Context, id string) (leave.Request, error) {
	return r.GetByID(ctx, id)
}

func (r *leaveRequestRepository) UpdateDecision(ctx context.Context, request leave.Request) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	prev, ok := r.s.requests[request.ID]
	if !ok {
		return leave.ErrLeaveRequestNotFound
	}
	next := prev
	next.Status = request.Status
	next.DecidedBy = request.DecidedBy
	next.DecidedAt = request.DecidedAt
	next.DecisionNote = request.DecisionNote
	r.s.requests[request.ID] = next
	record(ctx, func() { r.s.requests[request.ID] = prev })
	return nil
}

func (r *leaveRequestRepository) GetByEmployeeID(_ context.Context, employeeID string, status *leave.Status) ([]leave.Request, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	requests := make([]leave.Request, 0)
	for _, req := range r.s.requests {
		if req.EmployeeID != employeeID {
			continue
		}
		if status != nil && req.Status != *status {
			continue
		}
		requests = append(requests, req)
	}
	slices.SortFunc(requests, func(a, b leave.Request) int {
		if c := b.StartDate.Compare(a.StartDate); c != 0 {
			return c
		}
		return b.RequestedAt.Compare(a.RequestedAt)
	})
	return requests, nil
}

func (r *leaveRequestRepository) GetApprovedCovering(_ context.Context, employeeID string, from, to time.Time) ([]leave.Request, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	lo, hi := from.Format("2006-01-02"), to.Format("2006-01-02")
	requests := make([]leave.Request, 0)
	for _, req := range r.s.requests {
		if req.EmployeeID != employeeID || req.Status != leave.StatusApproved {
			continue
		}
		if req.StartDate.Format("2006-01-02") <= hi && req.EndDate.Format("2006-01-02") >= lo {
			requests = append(requests, req)
		}
	}
	slices.SortFunc(requests, func(a, b leave.Request) int { return a.StartDate.Compare(b.StartDate) })
	return requests, nil
}

// LockEmployee is covered by the store's transaction lock.
func (r *leaveRequestRepository) LockEmployee(context.Context, string) error {
	return nil
}

func (r *leaveRequestRepository) HasOverlapping(_ context.Context, employeeID string, start, end time.Time) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	lo, hi := start.Format("2006-01-02"), end.Format("2006-01-02")
	for _, req := range r.s.requests {
		if req.EmployeeID != employeeID {
			continue
		}
		if req.Status != leave.StatusPending && req.Status != leave.StatusApproved {
			continue
		}
		if req.StartDate.Format("2006-01-02") <= hi && req.EndDate.Format("2006-01-02") >= lo {
			return true, nil
		}
	}
	return false, nil
}
