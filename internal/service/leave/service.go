package leave

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/hris-ledger/internal/domain/balance"
	"github.com/cmlabs-hris/hris-ledger/internal/domain/employee"
	"github.com/cmlabs-hris/hris-ledger/internal/domain/leave"
	"github.com/cmlabs-hris/hris-ledger/internal/domain/user"
	"github.com/cmlabs-hris/hris-ledger/internal/pkg/calendar"
	"github.com/cmlabs-hris/hris-ledger/internal/pkg/database"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type LeaveServiceImpl struct {
	tx database.Transactor
	leave.LeaveTypeRepository
	leave.LeaveRequestRepository
	employee.EmployeeRepository
	ledger   balance.LedgerService
	calendar calendar.Calendar
	notifier leave.Notifier

	now func() time.Time
}

func NewLeaveService(
	tx database.Transactor,
	leaveTypeRepo leave.LeaveTypeRepository,
	leaveRequestRepo leave.LeaveRequestRepository,
	employeeRepo employee.EmployeeRepository,
	ledger balance.LedgerService,
	cal calendar.Calendar,
) *LeaveServiceImpl {
	return &LeaveServiceImpl{
		tx:                     tx,
		LeaveTypeRepository:    leaveTypeRepo,
		LeaveRequestRepository: leaveRequestRepo,
		EmployeeRepository:     employeeRepo,
		ledger:                 ledger,
		calendar:               cal,
		now:                    time.Now,
	}
}

// WithNotifier sets who hears about committed submissions and decisions.
func (l *LeaveServiceImpl) WithNotifier(notifier leave.Notifier) *LeaveServiceImpl {
	l.notifier = notifier
	return l
}

func (l *LeaveServiceImpl) notify(req leave.Request) {
	if l.notifier != nil {
		l.notifier.RequestChanged(req)
	}
}

// ListLeaveTypes implements leave.LeaveService.
func (l *LeaveServiceImpl) ListLeaveTypes(ctx context.Context) ([]leave.LeaveTypeResponse, error) {
	types, err := l.LeaveTypeRepository.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list leave types: %w", err)
	}

	resp := make([]leave.LeaveTypeResponse, 0, len(types))
	for _, lt := range types {
		resp = append(resp, leave.NewLeaveTypeResponse(lt))
	}
	return resp, nil
}

// Submit implements leave.LeaveService. The balance is reserved before the
// request row exists; if the reservation fails nothing is written. A range
// that intersects a pending or approved request is refused.
func (l *LeaveServiceImpl) Submit(ctx context.Context, actor user.Identity, req leave.SubmitLeaveRequest) (leave.LeaveRequestResponse, error) {
	if err := req.Validate(); err != nil {
		return leave.LeaveRequestResponse{}, err
	}

	employeeID := actor.EmployeeID
	if req.EmployeeID != "" && req.EmployeeID != actor.EmployeeID {
		if !actor.Can(user.PermissionLeaveApprove) {
			return leave.LeaveRequestResponse{}, leave.ErrForbidden
		}
		employeeID = req.EmployeeID
	}

	if _, err := employee.RequireActive(ctx, l.EmployeeRepository, employeeID); err != nil {
		return leave.LeaveRequestResponse{}, err
	}

	leaveType, err := l.LeaveTypeRepository.GetByID(ctx, req.LeaveTypeID)
	if err != nil {
		return leave.LeaveRequestResponse{}, fmt.Errorf("failed to get leave type by ID: %w", err)
	}

	start, end := req.Range()
	days := calendar.BusinessDays(l.calendar, start, end)
	if days == 0 {
		return leave.LeaveRequestResponse{}, leave.ErrNoBusinessDays
	}

	request := leave.Request{
		ID:            uuid.Must(uuid.NewV7()).String(),
		EmployeeID:    employeeID,
		LeaveTypeID:   leaveType.ID,
		StartDate:     start,
		EndDate:       end,
		DaysRequested: days,
		Reason:        req.Reason,
		Status:        leave.StatusPending,
		RequestedAt:   l.now().UTC(),
	}

	var created leave.Request
	err = l.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := l.LeaveRequestRepository.LockEmployee(ctx, employeeID); err != nil {
			return err
		}
		overlaps, err := l.LeaveRequestRepository.HasOverlapping(ctx, employeeID, start, end)
		if err != nil {
			return err
		}
		if overlaps {
			return leave.ErrOverlappingLeave
		}

		if leaveType.HasQuota {
			if _, err := l.ledger.Reserve(ctx, employeeID, leaveType.ID, decimal.NewFromInt(int64(days)), request.ID); err != nil {
				return fmt.Errorf("failed to reserve leave balance: %w", err)
			}
		}

		created, err = l.LeaveRequestRepository.Create(ctx, request)
		return err
	})
	if err != nil {
		return leave.LeaveRequestResponse{}, err
	}

	slog.Info("Leave request submitted", "request_id", created.ID, "employee_id", employeeID, "leave_type_id", leaveType.ID, "days", days)
	l.notify(created)
	return leave.NewLeaveRequestResponse(created), nil
}

// Approve implements leave.LeaveService.
func (l *LeaveServiceImpl) Approve(ctx context.Context, requestID string, decidedBy user.Identity) (leave.LeaveRequestResponse, error) {
	return l.decide(ctx, requestID, leave.ActionApprove, decidedBy, nil, nil)
}

// Reject implements leave.LeaveService.
func (l *LeaveServiceImpl) Reject(ctx context.Context, req leave.RejectLeaveRequest, decidedBy user.Identity) (leave.LeaveRequestResponse, error) {
	if err := req.Validate(); err != nil {
		return leave.LeaveRequestResponse{}, err
	}
	return l.decide(ctx, req.RequestID, leave.ActionReject, decidedBy, req.Note, nil)
}

// Cancel implements leave.LeaveService. Only the requester, or a role that
// may approve leave, can cancel.
func (l *LeaveServiceImpl) Cancel(ctx context.Context, requestID string, actor user.Identity) (leave.LeaveRequestResponse, error) {
	return l.decide(ctx, requestID, leave.ActionCancel, actor, nil, func(r leave.Request) error {
		if actor.IsSelf(r.EmployeeID) || actor.Can(user.PermissionLeaveApprove) {
			return nil
		}
		return leave.ErrNotRequester
	})
}

// decide locks the request row, applies action through the transition
// table and moves the reserved days in the same transaction. A concurrent
// decision on the same request waits on the row lock and then sees a
// terminal status.
func (l *LeaveServiceImpl) decide(
	ctx context.Context,
	requestID string,
	action leave.Action,
	actor user.Identity,
	note *string,
	authorize func(leave.Request) error,
) (leave.LeaveRequestResponse, error) {
	var decided leave.Request
	err := l.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		request, err := l.LeaveRequestRepository.GetByIDForUpdate(ctx, requestID)
		if err != nil {
			return err
		}
		if authorize != nil {
			if err := authorize(request); err != nil {
				return err
			}
		}

		next, err := leave.Transition(request.Status, action)
		if err != nil {
			return err
		}

		leaveType, err := l.LeaveTypeRepository.GetByID(ctx, request.LeaveTypeID)
		if err != nil {
			return fmt.Errorf("failed to get leave type by ID: %w", err)
		}
		if leaveType.HasQuota {
			days := decimal.NewFromInt(int64(request.DaysRequested))
			if action == leave.ActionApprove {
				_, err = l.ledger.Commit(ctx, request.EmployeeID, request.LeaveTypeID, days, request.ID)
			} else {
				_, err = l.ledger.Release(ctx, request.EmployeeID, request.LeaveTypeID, days, request.ID)
			}
			if err != nil {
				return fmt.Errorf("failed to %s leave balance: %w", action, err)
			}
		}

		now := l.now().UTC()
		request.Status = next
		request.DecidedAt = &now
		if actor.EmployeeID != "" {
			decidedBy := actor.EmployeeID
			request.DecidedBy = &decidedBy
		}
		request.DecisionNote = note

		if err := l.LeaveRequestRepository.UpdateDecision(ctx, request); err != nil {
			return fmt.Errorf("failed to update leave request: %w", err)
		}
		decided = request
		return nil
	})
	if err != nil {
		if !isBusinessOutcome(err) {
			slog.Error("Failed to decide leave request", "request_id", requestID, "action", action, "error", err)
		}
		return leave.LeaveRequestResponse{}, err
	}

	slog.Info("Leave request decided", "request_id", decided.ID, "action", action, "status", decided.Status)
	l.notify(decided)
	return leave.NewLeaveRequestResponse(decided), nil
}

func isBusinessOutcome(err error) bool {
	return errors.Is(err, leave.ErrLeaveRequestNotFound) ||
		errors.Is(err, leave.ErrInvalidTransition) ||
		errors.Is(err, leave.ErrNotRequester) ||
		errors.Is(err, database.ErrBusy)
}

// GetRequest implements leave.LeaveService.
func (l *LeaveServiceImpl) GetRequest(ctx context.Context, requestID string) (leave.LeaveRequestResponse, error) {
	request, err := l.LeaveRequestRepository.GetByID(ctx, requestID)
	if err != nil {
		return leave.LeaveRequestResponse{}, err
	}
	return leave.NewLeaveRequestResponse(request), nil
}

// ListByEmployee implements leave.LeaveService.
func (l *LeaveServiceImpl) ListByEmployee(ctx context.Context, employeeID string, filter leave.RequestFilter) ([]leave.LeaveRequestResponse, error) {
	if err := filter.Validate(); err != nil {
		return nil, err
	}

	requests, err := l.LeaveRequestRepository.GetByEmployeeID(ctx, employeeID, filter.StatusFilter())
	if err != nil {
		return nil, fmt.Errorf("failed to list leave requests: %w", err)
	}

	resp := make([]leave.LeaveRequestResponse, 0, len(requests))
	for _, r := range requests {
		resp = append(resp, leave.NewLeaveRequestResponse(r))
	}
	return resp, nil
}

// ApprovedCovering implements leave.LeaveService.
func (l *LeaveServiceImpl) ApprovedCovering(ctx context.Context, employeeID string, from, to time.Time) ([]leave.Request, error) {
	return l.LeaveRequestRepository.GetApprovedCovering(ctx, employeeID, from, to)
}
