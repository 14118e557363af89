// Package email delivers outgoing mailbox messages through a provider.
package email

import (
	"context"
	"time"
)

// Message is one outgoing email as handed to a provider.
type Message struct {
	From    string   // overrides the sender default when set
	To      []string // at least one address
	ReplyTo string
	Subject string
	HTML    string
	Text    string // plain-text alternative, usually the markdown source
}

// Receipt is the provider's acknowledgement of a send.
type Receipt struct {
	MessageID string
	SentAt    time.Time
}

// Sender delivers messages. Implementations must be safe for concurrent use.
type Sender interface {
	Send(ctx context.Context, msg Message) (Receipt, error)
}
