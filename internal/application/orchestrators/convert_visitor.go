package orchestrators

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"steward/internal/domain/member"
	"steward/internal/domain/visitor"

	"github.com/google/uuid"
)

// VisitorStoreForConvert defines the visitor store interface needed by ConvertVisitor.
type VisitorStoreForConvert interface {
	Get(ctx context.Context, id string) (visitor.Visitor, error)
	Save(ctx context.Context, v visitor.Visitor) error
}

// MemberStoreForConvert defines the member store interface needed by ConvertVisitor.
type MemberStoreForConvert interface {
	Save(ctx context.Context, m member.Member) error
	Delete(ctx context.Context, id string) error
}

// ConvertVisitorInput carries input for the conversion orchestrator.
type ConvertVisitorInput struct {
	VisitorID string
	Ministry  string // optional
}

// ConvertVisitorDeps holds dependencies for ConvertVisitor.
type ConvertVisitorDeps struct {
	VisitorStore VisitorStoreForConvert
	MemberStore  MemberStoreForConvert
	Now          func() time.Time
}

// ExecuteConvertVisitor registers a visitor as an active member.
// PRE: visitor exists and is not already converted
// POST: a new Active member exists with the visitor's contact details; visitor status is Converted
// INVARIANT: when the visitor cannot be updated the new member is removed again
func ExecuteConvertVisitor(ctx context.Context, input ConvertVisitorInput, deps ConvertVisitorDeps) (member.Member, error) {
	v, err := deps.VisitorStore.Get(ctx, input.VisitorID)
	if err != nil {
		return member.Member{}, err
	}
	if err := v.MarkConverted(); err != nil {
		return member.Member{}, err
	}

	now := time.Now
	if deps.Now != nil {
		now = deps.Now
	}
	ministry := input.Ministry
	if ministry == "" {
		ministry = "None"
	}
	m := member.Member{
		ID:       uuid.New().String(),
		Name:     v.Name,
		Email:    v.Email,
		Phone:    v.Phone,
		Ministry: ministry,
		Status:   member.StatusActive,
		JoinedOn: now().UTC().Truncate(24 * time.Hour),
	}
	if err := m.Validate(); err != nil {
		return member.Member{}, err
	}

	if err := deps.MemberStore.Save(ctx, m); err != nil {
		return member.Member{}, fmt.Errorf("save member: %w", err)
	}
	if err := deps.VisitorStore.Save(ctx, v); err != nil {
		if delErr := deps.MemberStore.Delete(ctx, m.ID); delErr != nil {
			slog.Error("visitor_event", "event", "convert_rollback_failed", "member_id", m.ID, "error", delErr)
		}
		return member.Member{}, fmt.Errorf("save visitor: %w", err)
	}

	slog.Info("visitor_event", "event", "visitor_converted", "visitor_id", v.ID, "member_id", m.ID)
	return m, nil
}
