package events

import (
	"context"
	"log/slog"
)

// NoopBus logs order lifecycle events without delivering them anywhere.
// It keeps the publishing seam in place until a real broker is wired.
type NoopBus struct{}

// NewNoopBus returns a new no-op event publisher.
func NewNoopBus() *NoopBus {
	return &NoopBus{}
}

func (n *NoopBus) PublishOrderCreated(_ context.Context, orderID int64) error {
	slog.Debug("event::order_created", "order_id", orderID)
	return nil
}

func (n *NoopBus) PublishOrderStatusChanged(_ context.Context, orderID int64, status string) error {
	slog.Debug("event::order_status_changed", "order_id", orderID, "status", status)
	return nil
}

func (n *NoopBus) PublishOrderImported(_ context.Context, orderID int64, messageID string) error {
	slog.Debug("event::order_imported", "order_id", orderID, "message_id", messageID)
	return nil
}
