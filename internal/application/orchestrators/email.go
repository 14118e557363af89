package orchestrators

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	emailAdapter "steward/internal/adapters/email"
	"steward/internal/application/format"
	emailDomain "steward/internal/domain/email"

	"github.com/google/uuid"
)

// EmailStoreForOrchestrator defines the store interface needed by email orchestrators.
type EmailStoreForOrchestrator interface {
	Get(ctx context.Context, id string) (emailDomain.Email, error)
	Save(ctx context.Context, e emailDomain.Email) error
}

// --- Compose Email (Save as Draft) ---

// ComposeEmailInput carries input for composing/saving an email draft.
type ComposeEmailInput struct {
	EmailID string // Empty for new, set for updating an existing draft
	From    string
	To      []string
	Subject string
	Body    string
}

// ComposeEmailDeps holds dependencies for ComposeEmail.
type ComposeEmailDeps struct {
	EmailStore EmailStoreForOrchestrator
	Now        func() time.Time
}

// ExecuteComposeEmail creates or updates a draft.
// PRE: EmailID is empty or names an unsent message
// POST: message saved in drafts with status draft
func ExecuteComposeEmail(ctx context.Context, input ComposeEmailInput, deps ComposeEmailDeps) (emailDomain.Email, error) {
	now := time.Now
	if deps.Now != nil {
		now = deps.Now
	}

	em := emailDomain.Email{
		ID:        uuid.New().String(),
		Folder:    emailDomain.FolderDrafts,
		Status:    emailDomain.StatusDraft,
		Read:      true,
		CreatedAt: now(),
	}
	if input.EmailID != "" {
		existing, err := deps.EmailStore.Get(ctx, input.EmailID)
		if err != nil {
			return emailDomain.Email{}, err
		}
		if err := existing.CanSend(); err != nil {
			return emailDomain.Email{}, err
		}
		em = existing
	}
	em.From = input.From
	em.To = input.To
	em.Subject = input.Subject
	em.Body = input.Body

	if err := em.Validate(); err != nil {
		return emailDomain.Email{}, err
	}
	if err := deps.EmailStore.Save(ctx, em); err != nil {
		return emailDomain.Email{}, fmt.Errorf("save draft: %w", err)
	}

	slog.Info("email_event", "event", "email_draft_saved", "email_id", em.ID, "recipient_count", len(em.To))
	return em, nil
}

// --- Send Email ---

// SendEmailInput carries input for sending an email.
type SendEmailInput struct {
	EmailID string
}

// SendEmailDeps holds dependencies for SendEmail.
type SendEmailDeps struct {
	EmailStore  EmailStoreForOrchestrator
	EmailSender emailAdapter.Sender
	Now         func() time.Time
	FromAddress string // used when the draft has no From
	ReplyTo     string
}

// ErrSendInFlight is returned when the same draft is already being delivered.
var ErrSendInFlight = errors.New("email is already being sent")

// sending holds the IDs of drafts handed to the provider and not yet settled.
var sending = struct {
	sync.Mutex
	ids map[string]bool
}{ids: map[string]bool{}}

func claimSend(id string) bool {
	sending.Lock()
	defer sending.Unlock()
	if sending.ids[id] {
		return false
	}
	sending.ids[id] = true
	return true
}

func releaseSend(id string) {
	sending.Lock()
	delete(sending.ids, id)
	sending.Unlock()
}

// ExecuteSendEmail renders a draft's markdown body and delivers it through the provider.
// PRE: EmailID exists, is in drafts and has not been sent
// POST: on success the message is in sent with status sent;
// on provider failure it stays in drafts with status failed and LastError set
// INVARIANT: at most one delivery of a draft is in flight; a concurrent call gets ErrSendInFlight
func ExecuteSendEmail(ctx context.Context, input SendEmailInput, deps SendEmailDeps) (emailDomain.Email, error) {
	if input.EmailID == "" {
		return emailDomain.Email{}, errors.New("email ID is required")
	}
	if !claimSend(input.EmailID) {
		return emailDomain.Email{}, ErrSendInFlight
	}
	defer releaseSend(input.EmailID)

	em, err := deps.EmailStore.Get(ctx, input.EmailID)
	if err != nil {
		return emailDomain.Email{}, err
	}
	if err := em.CanSend(); err != nil {
		return emailDomain.Email{}, err
	}
	if err := em.Validate(); err != nil {
		return emailDomain.Email{}, err
	}

	html, err := format.Markdown(em.Body)
	if err != nil {
		return emailDomain.Email{}, err
	}
	from := em.From
	if from == "" {
		from = deps.FromAddress
	}

	receipt, err := deps.EmailSender.Send(ctx, emailAdapter.Message{
		From:    from,
		To:      em.To,
		ReplyTo: deps.ReplyTo,
		Subject: em.Subject,
		HTML:    html,
		Text:    em.Body,
	})
	if err != nil {
		slog.Error("mail_send_failed", "email_id", em.ID, "recipient_count", len(em.To), "error", err)
		em.MarkFailed(err.Error())
		if saveErr := deps.EmailStore.Save(ctx, em); saveErr != nil {
			slog.Error("email_event", "event", "save_failed_status", "email_id", em.ID, "error", saveErr)
		}
		return em, fmt.Errorf("%w: send email: %w", ErrRetryable, err)
	}

	now := time.Now
	if deps.Now != nil {
		now = deps.Now
	}
	sentAt := receipt.SentAt
	if sentAt.IsZero() {
		sentAt = now()
	}
	em.From = from
	em.MarkSent(receipt.MessageID, sentAt)
	if err := deps.EmailStore.Save(ctx, em); err != nil {
		return emailDomain.Email{}, fmt.Errorf("save sent email: %w", err)
	}

	slog.Info("email_event", "event", "email_sent", "email_id", em.ID, "recipient_count", len(em.To), "message_id", receipt.MessageID)
	return em, nil
}
