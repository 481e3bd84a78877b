package ports

import "context"

// EventBus defines the contract for publishing order lifecycle events.
type EventBus interface {
	PublishOrderCreated(ctx context.Context, orderID int64) error
	PublishOrderStatusChanged(ctx context.Context, orderID int64, status string) error
	PublishOrderImported(ctx context.Context, orderID int64, messageID string) error
}
