package ports

import "context"

// ImportedMessage links a mailbox message to the order it produced. The
// message's RFC 5322 Message-Id acts as a stable idempotency key so re-import
// detection does not depend on mailbox flag state.
type ImportedMessage struct {
	MessageID string
	OrderID   int64
}

// ImportedMessageStore records which mailbox messages have already been
// turned into orders.
type ImportedMessageStore interface {
	Get(ctx context.Context, messageID string) (*ImportedMessage, error)
	Record(ctx context.Context, record ImportedMessage) error
}
