package memory

import (
	"context"
	"slices"
	"strings"

	"github.com/cmlabs-hris/hris-ledger/internal/domain/employee"
)

type employeeRepository struct {
	s *Store
}

func NewEmployeeRepository(s *Store) employee.EmployeeRepository {
	return &employeeRepository{s: s}
}

func (r *employeeRepository) GetByID(_ context.Context, id string) (employee.Employee, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	emp, ok := r.s.employees[id]
	if !ok {
		return employee.Employee{}, employee.ErrEmployeeNotFound
	}
	return emp, nil
}

func (r *employeeRepository) GetActive(_ context.Context) ([]employee.Employee, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	active := make([]employee.Employee, 0, len(r.s.employees))
	for _, emp := range r.s.employees {
		if emp.IsActive() {
			active = append(active, emp)
		}
	}
	slices.SortFunc(active, func(a, b employee.Employee) int { return strings.Compare(a.ID, b.ID) })
	return active, nil
}
