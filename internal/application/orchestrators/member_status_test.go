package orchestrators

import (
	"context"
	"errors"
	"testing"

	"steward/internal/adapters/storage/memory"
	"steward/internal/application/records"
	"steward/internal/domain/member"
	"steward/internal/domain/validation"
)

func TestMemberStatus(t *testing.T) {
	ctx := context.Background()
	members := memory.New[member.Member](member.Member{ID: "m1", Name: "Grace Okafor", Ministry: "Choir", Status: member.StatusActive})
	deps := MemberStatusDeps{MemberStore: members}

	m, err := ExecuteDeactivateMember(ctx, MemberStatusInput{MemberID: "m1", By: "admin@church.org"}, deps)
	if err != nil {
		t.Fatalf("deactivate: %v", err)
	}
	if m.Status != member.StatusInactive || m.Ministry != "Choir" {
		t.Errorf("member = %+v", m)
	}
	stored, _ := members.Get(ctx, "m1")
	if stored.Status != member.StatusInactive {
		t.Errorf("stored status = %q", stored.Status)
	}

	if _, err := ExecuteDeactivateMember(ctx, MemberStatusInput{MemberID: "m1"}, deps); !errors.Is(err, member.ErrAlreadyInactive) {
		t.Errorf("second deactivate err = %v", err)
	}

	if _, err := ExecuteReactivateMember(ctx, MemberStatusInput{MemberID: "m1"}, deps); err != nil {
		t.Fatalf("reactivate: %v", err)
	}
	if _, err := ExecuteReactivateMember(ctx, MemberStatusInput{MemberID: "m1"}, deps); !errors.Is(err, member.ErrAlreadyActive) {
		t.Errorf("second reactivate err = %v", err)
	}
}

func TestMemberStatus_Errors(t *testing.T) {
	ctx := context.Background()
	deps := MemberStatusDeps{MemberStore: memory.New[member.Member]()}

	var fields validation.Errors
	if _, err := ExecuteDeactivateMember(ctx, MemberStatusInput{}, deps); !errors.As(err, &fields) || !fields.Has("member_id") {
		t.Errorf("empty id err = %v", err)
	}
	if _, err := ExecuteReactivateMember(ctx, MemberStatusInput{MemberID: "missing"}, deps); !errors.Is(err, records.ErrNotFound) {
		t.Errorf("unknown id err = %v", err)
	}
}
