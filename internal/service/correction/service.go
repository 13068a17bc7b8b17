package correction

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/hris-ledger/internal/domain/clock"
	"github.com/cmlabs-hris/hris-ledger/internal/domain/correction"
	"github.com/cmlabs-hris/hris-ledger/internal/domain/employee"
	"github.com/cmlabs-hris/hris-ledger/internal/domain/user"
	"github.com/cmlabs-hris/hris-ledger/internal/pkg/database"
	"github.com/cmlabs-hris/hris-ledger/internal/pkg/validator"
	"github.com/google/uuid"
)

// CorrectionServiceImpl never edits clock events. An approved correction
// appends through the clock service so the usual sequence rules apply.
type CorrectionServiceImpl struct {
	tx database.Transactor
	correction.CorrectionRepository
	employee.EmployeeRepository
	clock clock.ClockService

	loc *time.Location
	now func() time.Time
}

func NewCorrectionService(
	tx database.Transactor,
	correctionRepo correction.CorrectionRepository,
	employeeRepo employee.EmployeeRepository,
	clockService clock.ClockService,
	loc *time.Location,
) *CorrectionServiceImpl {
	if loc == nil {
		loc = time.UTC
	}
	return &CorrectionServiceImpl{
		tx:                   tx,
		CorrectionRepository: correctionRepo,
		EmployeeRepository:   employeeRepo,
		clock:                clockService,
		loc:                  loc,
		now:                  time.Now,
	}
}

// Submit implements correction.CorrectionService.
func (s *CorrectionServiceImpl) Submit(ctx context.Context, req correction.SubmitCorrectionRequest) (correction.CorrectionResponse, error) {
	if err := req.Validate(); err != nil {
		return correction.CorrectionResponse{}, err
	}

	checkIn, checkOut := req.Times()
	first := checkOut
	if checkIn != nil {
		first = checkIn
	}
	workDate := clock.DateOf(*first, s.loc)
	if checkIn != nil && checkOut != nil && !clock.DateOf(*checkOut, s.loc).Equal(workDate) {
		var errs validator.ValidationErrors
		errs.Add("check_out", "check_out must fall on the same work day as check_in")
		return correction.CorrectionResponse{}, errs.Err()
	}

	now := s.now().UTC()
	for _, t := range []*time.Time{checkIn, checkOut} {
		if t != nil && t.After(now) {
			return correction.CorrectionResponse{}, correction.ErrFutureCorrection
		}
	}

	if _, err := employee.RequireActive(ctx, s.EmployeeRepository, req.EmployeeID); err != nil {
		return correction.CorrectionResponse{}, err
	}

	request := correction.Request{
		ID:          uuid.Must(uuid.NewV7()).String(),
		EmployeeID:  req.EmployeeID,
		WorkDate:    workDate,
		CheckIn:     checkIn,
		CheckOut:    checkOut,
		Reason:      req.Reason,
		Status:      correction.StatusPending,
		RequestedAt: now,
	}

	var created correction.Request
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		pending, err := s.CorrectionRepository.HasPending(ctx, req.EmployeeID, workDate)
		if err != nil {
			return fmt.Errorf("failed to check pending corrections: %w", err)
		}
		if pending {
			return correction.ErrPendingCorrection
		}

		created, err = s.CorrectionRepository.Create(ctx, request)
		return err
	})
	if err != nil {
		return correction.CorrectionResponse{}, err
	}

	slog.Info("Attendance correction submitted", "correction_id", created.ID, "employee_id", created.EmployeeID, "work_date", workDate.Format(validator.DateLayout))
	return correction.NewCorrectionResponse(created), nil
}

// Approve implements correction.CorrectionService.
func (s *CorrectionServiceImpl) Approve(ctx context.Context, req correction.ReviewCorrectionRequest, reviewer user.Identity) (correction.CorrectionResponse, error) {
	return s.review(ctx, req, correction.ActionApprove, reviewer)
}

// Reject implements correction.CorrectionService.
func (s *CorrectionServiceImpl) Reject(ctx context.Context, req correction.ReviewCorrectionRequest, reviewer user.Identity) (correction.CorrectionResponse, error) {
	return s.review(ctx, req, correction.ActionReject, reviewer)
}

func (s *CorrectionServiceImpl) review(
	ctx context.Context,
	req correction.ReviewCorrectionRequest,
	action correction.Action,
	reviewer user.Identity,
) (correction.CorrectionResponse, error) {
	if err := req.Validate(); err != nil {
		return correction.CorrectionResponse{}, err
	}

	var reviewed correction.Request
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		request, err := s.CorrectionRepository.GetByIDForUpdate(ctx, req.RequestID)
		if err != nil {
			return err
		}

		next, err := correction.Transition(request.Status, action)
		if err != nil {
			return err
		}

		if action == correction.ActionApprove {
			for _, entry := range request.Entries() {
				_, err := s.clock.RecordEvent(ctx, clock.RecordEventRequest{
					EmployeeID: request.EmployeeID,
					Kind:       string(entry.Kind),
					OccurredAt: entry.OccurredAt.Format(time.RFC3339Nano),
					RecordedBy: reviewer.EmployeeID,
				})
				if err != nil {
					return fmt.Errorf("failed to append corrected %s: %w", entry.Kind, err)
				}
			}
		}

		now := s.now().UTC()
		request.Status = next
		request.ReviewedAt = &now
		if reviewer.EmployeeID != "" {
			reviewedBy := reviewer.EmployeeID
			request.ReviewedBy = &reviewedBy
		}
		request.ReviewNote = req.Note

		if err := s.CorrectionRepository.UpdateReview(ctx, request); err != nil {
			return fmt.Errorf("failed to update attendance correction: %w", err)
		}
		reviewed = request
		return nil
	})
	if err != nil {
		if !errors.Is(err, correction.ErrCorrectionNotFound) &&
			!errors.Is(err, correction.ErrInvalidTransition) &&
			!errors.Is(err, clock.ErrInvalidSequence) &&
			!errors.Is(err, clock.ErrDuplicateEvent) &&
			!errors.Is(err, database.ErrBusy) {
			slog.Error("Failed to review attendance correction", "correction_id", req.RequestID, "action", action, "error", err)
		}
		return correction.CorrectionResponse{}, err
	}

	slog.Info("Attendance correction reviewed", "correction_id", reviewed.ID, "action", action, "status", reviewed.Status)
	return correction.NewCorrectionResponse(reviewed), nil
}

// GetCorrection implements correction.CorrectionService.
func (s *CorrectionServiceImpl) GetCorrection(ctx context.Context, id string) (correction.CorrectionResponse, error) {
	request, err := s.CorrectionRepository.GetByID(ctx, id)
	if err != nil {
		return correction.CorrectionResponse{}, err
	}
	return correction.NewCorrectionResponse(request), nil
}

// ListByEmployee implements correction.CorrectionService.
func (s *CorrectionServiceImpl) ListByEmployee(ctx context.Context, employeeID string, filter correction.CorrectionFilter) ([]correction.CorrectionResponse, error) {
	if err := filter.Validate(); err != nil {
		return nil, err
	}

	requests, err := s.CorrectionRepository.GetByEmployeeID(ctx, employeeID, filter.StatusFilter())
	if err != nil {
		return nil, fmt.Errorf("failed to list attendance corrections: %w", err)
	}
	return toResponses(requests), nil
}

// ListPending implements correction.CorrectionService.
func (s *CorrectionServiceImpl) ListPending(ctx context.Context) ([]correction.CorrectionResponse, error) {
	requests, err := s.CorrectionRepository.GetByStatus(ctx, correction.StatusPending)
	if err != nil {
		return nil, fmt.Errorf("failed to list pending attendance corrections: %w", err)
	}
	return toResponses(requests), nil
}

func toResponses(requests []correction.Request) []correction.CorrectionResponse {
	resp := make([]correction.CorrectionResponse, 0, len(requests))
	for _, r := range requests {
		resp = append(resp, correction.NewCorrectionResponse(r))
	}
	return resp
}
