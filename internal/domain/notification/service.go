package notification

import (
	"context"
)

// Notifier accepts notifications for delivery. Delivery is asynchronous.
type Notifier interface {
	QueueNotification(ctx context.Context, req CreateNotificationRequest) error
}

type Service interface {
	Notifier

	GetNotifications(ctx context.Context, userID string, page, pageSize int, unreadOnly bool) (*NotificationListResponse, error)
	GetUnreadCount(ctx context.Context, userID string) (int, error)
	MarkAsRead(ctx context.Context, userID string, req MarkAsReadRequest) error
	MarkAllAsRead(ctx context.Context, userID string) error
	Delete(ctx context.Context, userID string, notificationID string) error

	// Subscribe streams notifications for a user until ctx ends or the
	// returned cleanup runs.
	Subscribe(ctx context.Context, userID string) (<-chan SSEEvent, func())

	// Stop flushes queued notifications and stops the workers.
	Stop()
}
