package mail

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/jhillyerd/enmime"
)

// Envelope is the decoded view of a raw mailbox message: just the fields the
// ingestion pipeline cares about.
type Envelope struct {
	// MessageID is the RFC 5322 Message-Id header, empty if the message
	// carries none.
	MessageID string
	// Subject is the decoded subject header. Encoded words are expanded;
	// undecodable byte sequences are dropped rather than failing the message.
	Subject string
	// Body is the concatenated decoded text of every text/plain part that is
	// not an attachment, or the sole payload for single-part messages.
	Body string
}

// Decode parses raw RFC 822 bytes into an Envelope. Charset problems inside
// individual parts degrade to best-effort text instead of failing the whole
// message; only a structurally unreadable message returns an error.
func Decode(raw []byte) (*Envelope, error) {
	env, err := enmime.ReadEnvelope(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("read mail envelope: %w", err)
	}

	return &Envelope{
		MessageID: strings.TrimSpace(env.GetHeader("Message-Id")),
		Subject:   env.GetHeader("Subject"),
		Body:      env.Text,
	}, nil
}
