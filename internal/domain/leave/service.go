package leave

import (
	"context"
	"time"

	"github.com/cmlabs-hris/hris-ledger/internal/domain/user"
)

type LeaveService interface {
	// Types
	ListLeaveTypes(ctx context.Context) ([]LeaveTypeResponse, error)

	// Requests
	Submit(ctx context.Context, actor user.Identity, req SubmitLeaveRequest) (LeaveRequestResponse, error)
	Approve(ctx context.Context, requestID string, decidedBy user.Identity) (LeaveRequestResponse, error)
	Reject(ctx context.Context, req RejectLeaveRequest, decidedBy user.Identity) (LeaveRequestResponse, error)
	Cancel(ctx context.Context, requestID string, actor user.Identity) (LeaveRequestResponse, error)

	GetRequest(ctx context.Context, requestID string) (LeaveRequestResponse, error)
	ListByEmployee(ctx context.Context, employeeID string, filter RequestFilter) ([]LeaveRequestResponse, error)
	ApprovedCovering(ctx context.Context, employeeID string, from, to time.Time) ([]Request, error)
}

// Notifier is told about a request after its change has committed. It must
// not block.
type Notifier interface {
	RequestChanged(req Request)
}
