package correction

import (
	"context"

	"github.com/cmlabs-hris/hris-ledger/internal/domain/user"
)

type CorrectionService interface {
	Submit(ctx context.Context, req SubmitCorrectionRequest) (CorrectionResponse, error)
	// Approve appends the requested events to the clock store in the same
	// transaction as the status change. A sequence violation leaves the
	// correction PENDING.
	Approve(ctx context.Context, req ReviewCorrectionRequest, reviewer user.Identity) (CorrectionResponse, error)
	Reject(ctx context.Context, req ReviewCorrectionRequest, reviewer user.Identity) (CorrectionResponse, error)

	GetCorrection(ctx context.Context, id string) (CorrectionResponse, error)
	ListByEmployee(ctx context.Context, employeeID string, filter CorrectionFilter) ([]CorrectionResponse, error)
	ListPending(ctx context.Context) ([]CorrectionResponse, error)
}
