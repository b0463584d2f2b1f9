package notification

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/cmlabs-hris/hrms-core-go/internal/domain/leave"
	"github.com/cmlabs-hris/hrms-core-go/internal/domain/notification"
	"github.com/cmlabs-hris/hrms-core-go/internal/domain/user"
)

// leaveNotifier tells applicants about decisions on their leave. A failed
// notification never fails the decision itself.
type leaveNotifier struct {
	leave.LeaveService
	notifier notification.Notifier
}

func NewLeaveNotifier(leaveService leave.LeaveService, notifier notification.Notifier) leave.LeaveService {
	return &leaveNotifier{LeaveService: leaveService, notifier: notifier}
}

func (l *leaveNotifier) Approve(ctx context.Context, actor user.Actor, applicationID string) (leave.ApproveLeaveResponse, error) {
	resp, err := l.LeaveService.Approve(ctx, actor, applicationID)
	if err != nil {
		return resp, err
	}

	app := resp.Application
	l.notify(ctx, actor, app, notification.TypeLeaveApproved, "Leave approved",
		fmt.Sprintf("Your leave from %s to %s (%s days) was approved", app.StartDate, app.EndDate, app.TotalDays),
		map[string]interface{}{"available_days": resp.UpdatedBalance.AvailableDays.String()},
	)
	return resp, nil
}

func (l *leaveNotifier) Reject(ctx context.Context, actor user.Actor, req leave.RejectLeaveRequest) (leave.LeaveApplicationResponse, error) {
	app, err := l.LeaveService.Reject(ctx, actor, req)
	if err != nil {
		return app, err
	}

	data := map[string]interface{}{}
	if app.RejectionReason != nil {
		data["reason"] = *app.RejectionReason
	}
	l.notify(ctx, actor, app, notification.TypeLeaveRejected, "Leave rejected",
		fmt.Sprintf("Your leave from %s to %s was rejected", app.StartDate, app.EndDate),
		data,
	)
	return app, nil
}

func (l *leaveNotifier) Cancel(ctx context.Context, actor user.Actor, applicationID string) (leave.CancelLeaveResponse, error) {
	resp, err := l.LeaveService.Cancel(ctx, actor, applicationID)
	if err != nil {
		return resp, err
	}

	app := resp.Application
	data := map[string]interface{}{"recredited": resp.UpdatedBalance != nil}
	if resp.UpdatedBalance != nil {
		data["available_days"] = resp.UpdatedBalance.AvailableDays.String()
	}
	l.notify(ctx, actor, app, notification.TypeLeaveCancelled, "Leave cancelled",
		fmt.Sprintf("Your leave from %s to %s was cancelled", app.StartDate, app.EndDate),
		data,
	)
	return resp, nil
}

func (l *leaveNotifier) notify(ctx context.Context, actor user.Actor, app leave.LeaveApplicationResponse, typ notification.NotificationType, title, message string, data map[string]interface{}) {
	// Nobody needs to be told about their own action.
	if app.AppliedBy == "" || app.AppliedBy == actor.UserID {
		return
	}

	data["application_id"] = app.ID
	data["leave_type_id"] = app.LeaveTypeID
	data["status"] = app.Status

	sender := actor.UserID
	err := l.notifier.QueueNotification(ctx, notification.CreateNotificationRequest{
		RecipientID: app.AppliedBy,
		SenderID:    &sender,
		Type:        typ,
		Title:       title,
		Message:     message,
		Data:        data,
	})
	if err != nil {
		slog.Warn("Failed to queue leave notification",
			"application_id", app.ID,
			"type", typ,
			"error", err,
		)
	}
}
