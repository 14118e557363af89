package email

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"
)

// NoopSender logs messages instead of delivering them. Used in development.
type NoopSender struct {
	sent atomic.Int64
}

// NewNoopSender creates a NoopSender.
func NewNoopSender() *NoopSender {
	return &NoopSender{}
}

// Send logs msg and reports success.
func (s *NoopSender) Send(_ context.Context, msg Message) (Receipt, error) {
	n := s.sent.Add(1)
	slog.Info("noop_email_send", "to", msg.To, "subject", msg.Subject)
	return Receipt{MessageID: fmt.Sprintf("noop-%d", n), SentAt: time.Now()}, nil
}

// Sent returns how many messages were "sent".
func (s *NoopSender) Sent() int64 {
	return s.sent.Load()
}
