package notification

import "errors"

var (
	ErrNotificationNotFound = errors.New("notification not found")
	ErrNotifierStopped      = errors.New("notification service stopped")
)
