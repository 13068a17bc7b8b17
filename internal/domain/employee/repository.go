package employee

import (
	"context"
	"errors"
	"fmt"
)

// EmployeeRepository is the profile collaborator the ledger consults.
type EmployeeRepository interface {
	GetByID(ctx context.Context, id string) (Employee, error)
	GetActive(ctx context.Context) ([]Employee, error)
}

// RequireActive resolves id through repo and maps a missing or inactive
// profile to ErrUnknownEmployee.
func RequireActive(ctx context.Context, repo EmployeeRepository, id string) (Employee, error) {
	emp, err := repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrEmployeeNotFound) {
			return Employee{}, ErrUnknownEmployee
		}
		return Employee{}, fmt.Errorf("failed to get employee: %w", err)
	}
	if !emp.IsActive() {
		return Employee{}, ErrUnknownEmployee
	}
	return emp, nil
}

// RequireKnown is RequireActive without the status check. Read paths use it
// so history stays visible after an employee leaves.
func RequireKnown(ctx context.Context, repo EmployeeRepository, id string) (Employee, error) {
	emp, err := repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrEmployeeNotFound) {
			return Employee{}, ErrUnknownEmployee
		}
		return Employee{}, fmt.Errorf("failed to get employee: %w", err)
	}
	return emp, nil
}
