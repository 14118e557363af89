package orchestrators

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"steward/internal/domain/prayer"
)

// PrayerStore defines the store interface needed by AddPrayerUpdate.
type PrayerStore interface {
	Get(ctx context.Context, id string) (prayer.Request, error)
	Save(ctx context.Context, r prayer.Request) error
}

// AddPrayerUpdateInput carries input for the orchestrator.
type AddPrayerUpdateInput struct {
	RequestID string
	Author    string
	Note      string
	Status    string // optional new status
}

// AddPrayerUpdateDeps holds dependencies for AddPrayerUpdate.
type AddPrayerUpdateDeps struct {
	PrayerStore PrayerStore
	Now         func() time.Time
}

// ExecuteAddPrayerUpdate appends a note to a prayer request's log.
// PRE: request exists; note is non-blank
// POST: request has one more update; status changed when one was given
func ExecuteAddPrayerUpdate(ctx context.Context, input AddPrayerUpdateInput, deps AddPrayerUpdateDeps) (prayer.Request, error) {
	r, err := deps.PrayerStore.Get(ctx, input.RequestID)
	if err != nil {
		return prayer.Request{}, err
	}

	now := time.Now
	if deps.Now != nil {
		now = deps.Now
	}
	if err := r.AddUpdate(input.Author, input.Note, input.Status, now()); err != nil {
		return prayer.Request{}, err
	}
	if err := deps.PrayerStore.Save(ctx, r); err != nil {
		return prayer.Request{}, fmt.Errorf("save prayer request: %w", err)
	}

	slog.Info("prayer_event", "event", "update_added", "request_id", r.ID, "status", r.Status, "updates", len(r.Updates))
	return r, nil
}
