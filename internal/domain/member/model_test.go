package member

import (
	"errors"
	"testing"

	"steward/internal/domain/validation"
)

// TestMember_Validate verifies presence-only validation of required fields.
func TestMember_Validate(t *testing.T) {
	tests := []struct {
		name    string
		member  Member
		wantErr []string
	}{
		{"valid", Member{Name: "Grace Okafor", Status: StatusActive}, nil},
		{"missing name", Member{Status: StatusActive}, []string{"name"}},
		{"missing both", Member{}, []string{"name", "status"}},
		{"email format not checked", Member{Name: "Ade", Status: StatusActive, Email: "not-an-email"}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.member.Validate()
			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			var errs validation.Errors
			if !errors.As(err, &errs) {
				t.Fatalf("expected validation.Errors, got %v", err)
			}
			for _, f := range tt.wantErr {
				if !errs.Has(f) {
					t.Errorf("expected error for %s", f)
				}
			}
		})
	}
}

// TestMember_DeactivateReactivate verifies status transitions and their guards.
func TestMember_DeactivateReactivate(t *testing.T) {
	m := Member{Name: "Ruth", Status: StatusActive}
	if err := m.Deactivate(); err != nil {
		t.Fatalf("deactivate: %v", err)
	}
	if err := m.Deactivate(); !errors.Is(err, ErrAlreadyInactive) {
		t.Errorf("expected ErrAlreadyInactive, got %v", err)
	}
	if err := m.Reactivate(); err != nil {
		t.Fatalf("reactivate: %v", err)
	}
	if !m.IsActive() {
		t.Error("expected member to be active")
	}
}
