package memory

import (
	"context"
	"slices"
	"strings"

	"github.com/cmlabs-hris/hris-ledger/internal/domain/leave"
)

type leaveTypeRepository struct {
	s *Store
}

func NewLeaveTypeRepository(s *Store) leave.LeaveTypeRepository {
	return &leaveTypeRepository{s: s}
}

func (r *leaveTypeRepository) GetByID(_ context.Context, id string) (leave.LeaveType, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	lt, ok := r.s.leaveTypes[id]
	if !ok {
		return leave.LeaveType{}, leave.ErrLeaveTypeNotFound
	}
	return lt, nil
}

func (r *leaveTypeRepository) GetAll(_ context.Context) ([]leave.LeaveType, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	types := make([]leave.LeaveType, 0, len(r.s.leaveTypes))
	for _, lt := range r.s.leaveTypes {
		types = append(types, lt)
	}
	slices.SortFunc(types, func(a, b leave.LeaveType) int { return strings.Compare(a.Code, b.Code) })
	return types, nil
}
