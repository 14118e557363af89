package orchestrators

import (
	"context"
	"log/slog"

	"steward/internal/domain/member"
	"steward/internal/domain/validation"
)

// MemberStoreForStatus defines the store interface needed by Deactivate/Reactivate.
type MemberStoreForStatus interface {
	Get(ctx context.Context, id string) (member.Member, error)
	Save(ctx context.Context, m member.Member) error
}

// MemberStatusInput carries input for the status orchestrators.
type MemberStatusInput struct {
	MemberID string
	By       string // email of the acting user, for the log
}

// MemberStatusDeps holds dependencies for DeactivateMember and ReactivateMember.
type MemberStatusDeps struct {
	MemberStore MemberStoreForStatus
}

// ExecuteDeactivateMember marks a member inactive.
// PRE: MemberID must be non-empty; member must exist and be active
// POST: Member status is Inactive; other fields are unchanged
func ExecuteDeactivateMember(ctx context.Context, input MemberStatusInput, deps MemberStatusDeps) (member.Member, error) {
	return changeMemberStatus(ctx, input, deps, "member_deactivated", (*member.Member).Deactivate)
}

// ExecuteReactivateMember restores an inactive member to active status.
// PRE: MemberID must be non-empty; member must exist and be inactive
// POST: Member status is Active
func ExecuteReactivateMember(ctx context.Context, input MemberStatusInput, deps MemberStatusDeps) (member.Member, error) {
	return changeMemberStatus(ctx, input, deps, "member_reactivated", (*member.Member).Reactivate)
}

func changeMemberStatus(ctx context.Context, input MemberStatusInput, deps MemberStatusDeps, event string, transition func(*member.Member) error) (member.Member, error) {
	if input.MemberID == "" {
		return member.Member{}, validation.Errors{"member_id": "is required"}
	}

	m, err := deps.MemberStore.Get(ctx, input.MemberID)
	if err != nil {
		return member.Member{}, err
	}
	if err := transition(&m); err != nil {
		return member.Member{}, err
	}
	if err := deps.MemberStore.Save(ctx, m); err != nil {
		return member.Member{}, err
	}

	slog.Info("record_event", "event", event, "member_id", m.ID, "by", input.By)
	return m, nil
}
