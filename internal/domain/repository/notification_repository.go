package repository

import "context"

// NotificationRepository delivers a deal alert to subscribers
type NotificationRepository interface {
	Send(ctx context.Context, recipients []string, body string) error
}
