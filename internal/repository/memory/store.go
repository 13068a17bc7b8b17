// Package memory is a process-local storage backend. It mirrors the
// conditional-update semantics of the postgresql repositories and is used
// by tests and by STORAGE_DRIVER=memory.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/cmlabs-hris/hris-ledger/internal/domain/balance"
	"github.com/cmlabs-hris/hris-ledger/internal/domain/clock"
	"github.com/cmlabs-hris/hris-ledger/internal/domain/correction"
	"github.com/cmlabs-hris/hris-ledger/internal/domain/employee"
	"github.com/cmlabs-hris/hris-ledger/internal/domain/leave"
	"github.com/cmlabs-hris/hris-ledger/internal/fixtures"
	"github.com/cmlabs-hris/hris-ledger/internal/pkg/database"
	"github.com/shopspring/decimal"
)

type balanceKey struct {
	employeeID  string
	leaveTypeID string
}

type periodKey struct {
	balanceKey
	period string
}

type dayKey struct {
	employeeID string
	date       string
}

// Store holds every table. It is a single-writer store: all transactions,
// whatever keys they touch, are serialized by one lock whose wait is bounded
// by lockTimeout.
type Store struct {
	mu sync.Mutex

	employees   map[string]employee.Employee
	events      map[dayKey][]clock.Event
	leaveTypes  map[string]leave.LeaveType
	balances    map[balanceKey]balance.Balance
	periods     map[periodKey]decimal.Decimal
	entries     map[balanceKey][]balance.Entry
	requests    map[string]leave.Request
	corrections map[string]correction.Request

	txLock      chan struct{}
	lockTimeout time.Duration
	now         func() time.Time
}

func NewStore(lockTimeout time.Duration) *Store {
	if lockTimeout <= 0 {
		lockTimeout = database.DefaultLockTimeout
	}
	return &Store{
		employees:   make(map[string]employee.Employee),
		events:      make(map[dayKey][]clock.Event),
		leaveTypes:  make(map[string]leave.LeaveType),
		balances:    make(map[balanceKey]balance.Balance),
		periods:     make(map[periodKey]decimal.Decimal),
		entries:     make(map[balanceKey][]balance.Entry),
		requests:    make(map[string]leave.Request),
		corrections: make(map[string]correction.Request),
		txLock:      make(chan struct{}, 1),
		lockTimeout: lockTimeout,
		now:         time.Now,
	}
}

// SeedLeaveTypes loads the same reference rows as the SQL migration.
func (s *Store) SeedLeaveTypes() {
	for _, lt := range fixtures.LeaveTypes() {
		s.PutLeaveType(lt)
	}
}

func (s *Store) PutLeaveType(lt leave.LeaveType) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if lt.CreatedAt.IsZero() {
		lt.CreatedAt = s.now()
	}
	s.leaveTypes[lt.ID] = lt
}

// PutEmployee stands in for the profile subsystem.
func (s *Store) PutEmployee(emp employee.Employee) {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	if emp.CreatedAt.IsZero() {
		emp.CreatedAt = now
	}
	if emp.EmploymentStatus == "" {
		emp.EmploymentStatus = employee.EmploymentStatusActive
	}
	emp.UpdatedAt = now
	s.employees[emp.ID] = emp
}

type txKey struct{}

type tx struct {
	undo []func()
}

// WithinTransaction implements database.Transactor. Mutations made through
// the repositories are undone when fn returns an error.
func (s *Store) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if _, ok := ctx.Value(txKey{}).(*tx); ok {
		return fn(ctx)
	}

	timer := time.NewTimer(s.lockTimeout)
	defer timer.Stop()

	select {
	case s.txLock <- struct{}{}:
	case <-timer.C:
		return database.ErrBusy
	case <-ctx.Done():
		return ctx.Err()
	}
	defer func() { <-s.txLock }()

	t := &tx{}
	committed := false
	defer func() {
		if !committed {
			s.rollback(t)
		}
	}()

	if err := fn(context.WithValue(ctx, txKey{}, t)); err != nil {
		return err
	}
	committed = true
	return nil
}

func (s *Store) rollback(t *tx) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := len(t.undo) - 1; i >= 0; i-- {
		t.undo[i]()
	}
}

// record registers an undo step for the transaction in ctx. Callers hold s.mu.
func record(ctx context.Context, undo func()) {
	if t, ok := ctx.Value(txKey{}).(*tx); ok {
		t.undo = append(t.undo, undo)
	}
}
