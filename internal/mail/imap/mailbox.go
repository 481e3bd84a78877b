// Package imap adapts an IMAP server to the importer's Mailbox interface.
package imap

import (
	"context"
	"fmt"
	"io"
	"net"
	"time"

	goimap "github.com/emersion/go-imap"
	"github.com/emersion/go-imap/client"
	"github.com/grafline/tracking/internal/importer"
)

// Mailbox is a live IMAP connection scoped to the INBOX folder.
type Mailbox struct {
	client *client.Client
}

// Connect dials the server over TLS, authenticates and selects INBOX. The
// timeout bounds the dial and every subsequent command, so a stalled server
// fails the run instead of hanging it.
func Connect(addr, username, password string, timeout time.Duration) (*Mailbox, error) {
	dialer := &net.Dialer{Timeout: timeout}

	c, err := client.DialWithDialerTLS(dialer, addr, nil)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", addr, err)
	}
	c.Timeout = timeout

	if err := c.Login(username, password); err != nil {
		_ = c.Logout()
		return nil, fmt.Errorf("login as %s: %w", username, err)
	}

	if _, err := c.Select("INBOX", false); err != nil {
		_ = c.Logout()
		return nil, fmt.Errorf("select INBOX: %w", err)
	}

	return &Mailbox{client: c}, nil
}

// Unseen returns the full bodies of all messages unseen at the moment of the
// search. Fetches use BODY.PEEK so listing never flips the seen flag as a
// side effect; only MarkSeen does.
func (m *Mailbox) Unseen(ctx context.Context) ([]importer.Message, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	criteria := goimap.NewSearchCriteria()
	criteria.WithoutFlags = []string{goimap.SeenFlag}

	seqNums, err := m.client.Search(criteria)
	if err != nil {
		return nil, fmt.Errorf("search unseen: %w", err)
	}
	if len(seqNums) == 0 {
		return nil, nil
	}

	seqset := new(goimap.SeqSet)
	seqset.AddNum(seqNums...)

	section := &goimap.BodySectionName{Peek: true}
	items := []goimap.FetchItem{goimap.FetchUid, section.FetchItem()}

	ch := make(chan *goimap.Message, len(seqNums))
	done := make(chan error, 1)
	go func() {
		done <- m.client.Fetch(seqset, items, ch)
	}()

	var messages []importer.Message
	for msg := range ch {
		body := msg.GetBody(section)
		if body == nil {
			continue
		}

		raw, err := io.ReadAll(body)
		if err != nil {
			return nil, fmt.Errorf("read message %d: %w", msg.Uid, err)
		}

		messages = append(messages, importer.Message{
			UID: msg.Uid,
			Raw: raw,
		})
	}

	if err := <-done; err != nil {
		return nil, fmt.Errorf("fetch unseen: %w", err)
	}

	return messages, nil
}

// MarkSeen sets the \Seen flag on the server for a single message.
func (m *Mailbox) MarkSeen(ctx context.Context, uid uint32) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	seqset := new(goimap.SeqSet)
	seqset.AddNum(uid)

	item := goimap.FormatFlagsOp(goimap.AddFlags, true)
	flags := []interface{}{goimap.SeenFlag}

	if err := m.client.UidStore(seqset, item, flags, nil); err != nil {
		return fmt.Errorf("mark message %d seen: %w", uid, err)
	}

	return nil
}

// Close logs out, releasing the server connection. The importer calls it
// when its pass ends.
func (m *Mailbox) Close() error {
	return m.client.Logout()
}
