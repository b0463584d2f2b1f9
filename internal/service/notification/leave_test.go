package notification

import (
	"context"
	"errors"
	"testing"

	"github.com/cmlabs-hris/hrms-core-go/internal/domain/leave"
	"github.com/cmlabs-hris/hrms-core-go/internal/domain/notification"
	"github.com/cmlabs-hris/hrms-core-go/internal/domain/user"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingNotifier struct {
	requests []notification.CreateNotificationRequest
	err      error
}

func (r *recordingNotifier) QueueNotification(ctx context.Context, req notification.CreateNotificationRequest) error {
	r.requests = append(r.requests, req)
	return r.err
}

type stubLeaveService struct {
	leave.LeaveService

	approveErr error
	app        leave.LeaveApplicationResponse
}

func (s *stubLeaveService) Approve(ctx context.Context, actor user.Actor, id string) (leave.ApproveLeaveResponse, error) {
	if s.approveErr != nil {
		return leave.ApproveLeaveResponse{}, s.approveErr
	}
	return leave.ApproveLeaveResponse{
		Application:    s.app,
		UpdatedBalance: leave.LeaveBalanceResponse{AvailableDays: decimal.NewFromInt(7)},
	}, nil
}

func (s *stubLeaveService) Reject(ctx context.Context, actor user.Actor, req leave.RejectLeaveRequest) (leave.LeaveApplicationResponse, error) {
	app := s.app
	app.RejectionReason = &req.Reason
	return app, nil
}

func (s *stubLeaveService) Cancel(ctx context.Context, actor user.Actor, id string) (leave.CancelLeaveResponse, error) {
	return leave.CancelLeaveResponse{Application: s.app}, nil
}

var (
	approver  = user.Actor{UserID: "user-manager", Role: user.RoleManager}
	applicant = user.Actor{UserID: "user-1", EmployeeID: "emp-1", Role: user.RoleEmployee}
)

func pendingApplication() leave.LeaveApplicationResponse {
	return leave.LeaveApplicationResponse{
		ID: "app-1", EmployeeID: "emp-1", LeaveTypeID: "lt-1",
		StartDate: "2025-03-03", EndDate: "2025-03-05", TotalDays: decimal.NewFromInt(3),
		AppliedBy: applicant.UserID,
	}
}

func TestLeaveNotifier_Approve(t *testing.T) {
	notifier := &recordingNotifier{}
	svc := NewLeaveNotifier(&stubLeaveService{app: pendingApplication()}, notifier)

	_, err := svc.Approve(context.Background(), approver, "app-1")
	require.NoError(t, err)

	require.Len(t, notifier.requests, 1)
	req := notifier.requests[0]
	assert.Equal(t, applicant.UserID, req.RecipientID)
	assert.Equal(t, approver.UserID, *req.SenderID)
	assert.Equal(t, notification.TypeLeaveApproved, req.Type)
	assert.Equal(t, "app-1", req.Data["application_id"])
	assert.Equal(t, "7", req.Data["available_days"])
}

func TestLeaveNotifier_FailedDecisionSendsNothing(t *testing.T) {
	notifier := &recordingNotifier{}
	svc := NewLeaveNotifier(&stubLeaveService{approveErr: leave.ErrApplicationAlreadyProcessed}, notifier)

	_, err := svc.Approve(context.Background(), approver, "app-1")

	assert.ErrorIs(t, err, leave.ErrApplicationAlreadyProcessed)
	assert.Empty(t, notifier.requests)
}

func TestLeaveNotifier_QueueFailureDoesNotFailDecision(t *testing.T) {
	notifier := &recordingNotifier{err: errors.New("queue closed")}
	svc := NewLeaveNotifier(&stubLeaveService{app: pendingApplication()}, notifier)

	_, err := svc.Reject(context.Background(), approver, leave.RejectLeaveRequest{ApplicationID: "app-1", Reason: "busy"})

	require.NoError(t, err)
	require.Len(t, notifier.requests, 1)
	assert.Equal(t, "busy", notifier.requests[0].Data["reason"])
}

func TestLeaveNotifier_OwnCancelIsSilent(t *testing.T) {
	notifier := &recordingNotifier{}
	svc := NewLeaveNotifier(&stubLeaveService{app: pendingApplication()}, notifier)

	_, err := svc.Cancel(context.Background(), applicant, "app-1")
	require.NoError(t, err)
	assert.Empty(t, notifier.requests)

	_, err = svc.Cancel(context.Background(), user.Actor{UserID: "user-admin", Role: user.RoleAdmin}, "app-1")
	require.NoError(t, err)
	require.Len(t, notifier.requests, 1)
	assert.Equal(t, notification.TypeLeaveCancelled, notifier.requests[0].Type)
}
