// Package importer converts unseen mailbox messages into orders. It is a
// run-to-completion batch: one pass over the unseen snapshot, one order per
// message, then exit. An external scheduler decides how often it runs.
package importer

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/grafline/tracking/internal/mail"
	"github.com/grafline/tracking/internal/orders/app"
	"github.com/grafline/tracking/internal/orders/ports"
	"github.com/grafline/tracking/internal/telemetry"
	"go.opentelemetry.io/otel/attribute"
)

// Message is a raw mailbox message plus the handle needed to flag it seen.
type Message struct {
	UID uint32
	Raw []byte
}

// Mailbox is the minimal mailbox capability the importer needs. The IMAP
// adapter implements it; tests substitute a fake.
type Mailbox interface {
	// Unseen returns a snapshot of the messages unseen at the moment of
	// listing. It is not a live subscription.
	Unseen(ctx context.Context) ([]Message, error)
	// MarkSeen flags a message on the server so later runs skip it.
	MarkSeen(ctx context.Context, uid uint32) error
	// Close releases the mailbox session. Run calls it when the pass ends.
	Close() error
}

// Parser maps free-form email text to order fields. Single operation, no
// shared state, so a smarter implementation can be dropped in.
type Parser interface {
	Parse(subject, body string) (title string, details *string)
}

// Report summarizes one importer run.
type Report struct {
	Imported int
	Skipped  int
	Failed   int
}

// Importer drives the ingestion pipeline: mailbox -> parser -> order service.
type Importer struct {
	mailbox  Mailbox
	parser   Parser
	service  *app.Service
	imported ports.ImportedMessageStore
	events   ports.EventBus
	logger   *slog.Logger
	metrics  *Metrics
}

// New wires required dependencies.
func New(
	mailbox Mailbox,
	parser Parser,
	service *app.Service,
	imported ports.ImportedMessageStore,
	events ports.EventBus,
	logger *slog.Logger,
	metrics *Metrics,
) *Importer {
	return &Importer{
		mailbox:  mailbox,
		parser:   parser,
		service:  service,
		imported: imported,
		events:   events,
		logger:   logger,
		metrics:  metrics,
	}
}

// Run performs a single ingestion pass. A failure to list the mailbox aborts
// the run; a failure on an individual message is logged and the run moves on,
// leaving that message unmarked. Ingestion is therefore best-effort, not
// exactly-once. The mailbox is released when the pass ends, whether or not
// the run succeeded; a later run needs a fresh connection.
func (i *Importer) Run(ctx context.Context) (Report, error) {
	ctx, span := telemetry.StartSpan(ctx, "Importer.Run")
	defer span.End()

	defer func() {
		if err := i.mailbox.Close(); err != nil {
			i.logger.WarnContext(ctx, "failed to close mailbox", "error", err)
		}
	}()

	start := time.Now()
	defer func() {
		i.metrics.RecordRunDuration(ctx, time.Since(start).Seconds())
	}()

	messages, err := i.mailbox.Unseen(ctx)
	if err != nil {
		telemetry.RecordSpanError(span, err)
		return Report{}, fmt.Errorf("list unseen messages: %w", err)
	}

	i.logger.InfoContext(ctx, "importer run started", "unseen_messages", len(messages))

	var report Report
	for _, msg := range messages {
		if err := ctx.Err(); err != nil {
			telemetry.RecordSpanError(span, err)
			return report, err
		}

		outcome, err := i.processMessage(ctx, msg)
		switch outcome {
		case outcomeImported:
			report.Imported++
		case outcomeSkipped:
			report.Skipped++
		case outcomeFailed:
			report.Failed++
			i.logger.ErrorContext(ctx, "failed to import message",
				"error", err,
				"uid", msg.UID,
			)
		}
		i.metrics.RecordMessage(ctx, outcome)
	}

	telemetry.AddSpanAttributes(span,
		attribute.Int("messages.imported", report.Imported),
		attribute.Int("messages.skipped", report.Skipped),
		attribute.Int("messages.failed", report.Failed),
	)
	telemetry.SetSpanSuccess(span)

	i.logger.InfoContext(ctx, "importer run finished",
		"imported", report.Imported,
		"skipped", report.Skipped,
		"failed", report.Failed,
	)

	return report, nil
}

const (
	outcomeImported = "imported"
	outcomeSkipped  = "skipped"
	outcomeFailed   = "failed"
)

func (i *Importer) processMessage(ctx context.Context, msg Message) (string, error) {
	envelope, err := mail.Decode(msg.Raw)
	if err != nil {
		return outcomeFailed, err
	}

	if envelope.MessageID != "" {
		existing, err := i.imported.Get(ctx, envelope.MessageID)
		if err != nil {
			return outcomeFailed, err
		}
		if existing != nil {
			// Already imported in a previous run; the seen flag was lost or
			// another client reset it. Re-flag and move on.
			if err := i.mailbox.MarkSeen(ctx, msg.UID); err != nil {
				i.logger.WarnContext(ctx, "failed to re-flag duplicate message",
					"error", err,
					"uid", msg.UID,
					"message_id", envelope.MessageID,
				)
			}
			i.logger.InfoContext(ctx, "skipping already imported message",
				"uid", msg.UID,
				"message_id", envelope.MessageID,
				"order_id", existing.OrderID,
			)
			return outcomeSkipped, nil
		}
	}

	title, details := i.parser.Parse(envelope.Subject, envelope.Body)

	order, err := i.service.CreateOrder(ctx, app.CreateOrderInput{
		Title:   title,
		Details: details,
	})
	if err != nil {
		return outcomeFailed, err
	}

	if envelope.MessageID != "" {
		if err := i.imported.Record(ctx, ports.ImportedMessage{
			MessageID: envelope.MessageID,
			OrderID:   order.ID,
		}); err != nil {
			// The order exists; losing the dedup record only risks a
			// duplicate if the seen flag is also lost later.
			i.logger.WarnContext(ctx, "failed to record imported message",
				"error", err,
				"uid", msg.UID,
				"message_id", envelope.MessageID,
			)
		}

		if err := i.events.PublishOrderImported(ctx, order.ID, envelope.MessageID); err != nil {
			i.logger.WarnContext(ctx, "failed to publish import event",
				"error", err,
				"order_id", order.ID,
			)
		}
	}

	if err := i.mailbox.MarkSeen(ctx, msg.UID); err != nil {
		i.logger.WarnContext(ctx, "order created but message left unseen",
			"error", err,
			"uid", msg.UID,
			"order_id", order.ID,
		)
	}

	i.logger.InfoContext(ctx, "imported new order",
		"order_id", order.ID,
		"title", order.Title,
		"uid", msg.UID,
	)

	return outcomeImported, nil
}
