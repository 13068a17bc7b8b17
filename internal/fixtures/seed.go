// Package fixtures holds reference data for the memory backend, local
// development and integration tests.
package fixtures

import (
	"fmt"
	"os"

	"github.com/cmlabs-hris/hris-ledger/internal/domain/employee"
	"github.com/cmlabs-hris/hris-ledger/internal/domain/leave"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// LeaveTypes returns the rows seeded by the initial SQL migration.
func LeaveTypes() []leave.LeaveType {
	return []leave.LeaveType{
		{
			ID: "annual", Code: "annual", Name: "Annual Leave", IsPaid: true, HasQuota: true,
			Accrual: leave.AccrualPolicy{Units: decimal.RequireFromString("1.25"), Period: leave.AccrualMonthly},
		},
		{
			ID: "sick", Code: "sick", Name: "Sick Leave", IsPaid: true, HasQuota: true,
			Accrual: leave.AccrualPolicy{Units: decimal.NewFromInt(12), Period: leave.AccrualYearly},
		},
		{
			ID: "unpaid", Code: "unpaid", Name: "Unpaid Leave", IsPaid: false, HasQuota: false,
			Accrual: leave.AccrualPolicy{Units: decimal.Zero, Period: leave.AccrualNone},
		},
	}
}

type rosterFile struct {
	Employees []struct {
		ID     string `yaml:"id"`
		Name   string `yaml:"name"`
		Status string `yaml:"status"`
	} `yaml:"employees"`
}

// LoadEmployees reads a roster such as
//
//	employees:
//	  - id: emp-001
//	    name: Ani Wijaya
//	    status: active
//
// A missing status means active.
func LoadEmployees(path string) ([]employee.Employee, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read roster: %w", err)
	}
	return ParseEmployees(raw)
}

func ParseEmployees(raw []byte) ([]employee.Employee, error) {
	var file rosterFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("parse roster: %w", err)
	}

	employees := make([]employee.Employee, 0, len(file.Employees))
	seen := make(map[string]struct{}, len(file.Employees))
	for i, e := range file.Employees {
		if e.ID == "" {
			return nil, fmt.Errorf("roster entry %d: id is required", i)
		}
		if _, dup := seen[e.ID]; dup {
			return nil, fmt.Errorf("roster entry %d: duplicate id %q", i, e.ID)
		}
		seen[e.ID] = struct{}{}

		status := employee.EmploymentStatus(e.Status)
		switch status {
		case "":
			status = employee.EmploymentStatusActive
		case employee.EmploymentStatusActive, employee.EmploymentStatusResigned, employee.EmploymentStatusTerminated:
		default:
			return nil, fmt.Errorf("roster entry %d: unknown status %q", i, e.Status)
		}
		employees = append(employees, employee.Employee{ID: e.ID, FullName: e.Name, EmploymentStatus: status})
	}
	return employees, nil
}
