package orchestrators

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"steward/internal/domain/attendance"
	"steward/internal/domain/member"
	"steward/internal/domain/validation"
	"steward/internal/domain/visitor"

	"github.com/google/uuid"
)

// AttendanceStore defines the interface for attendance persistence.
type AttendanceStore interface {
	List(ctx context.Context) ([]attendance.Attendance, error)
	Save(ctx context.Context, a attendance.Attendance) error
}

// serviceLister is implemented by stores that can narrow the duplicate check to one service.
type serviceLister interface {
	ListForService(ctx context.Context, serviceType string, day time.Time) ([]attendance.Attendance, error)
}

// MemberLookup finds members by ID.
type MemberLookup interface {
	Get(ctx context.Context, id string) (member.Member, error)
}

// VisitorLookup finds visitors by ID.
type VisitorLookup interface {
	Get(ctx context.Context, id string) (visitor.Visitor, error)
}

// CheckInInput carries input for the check-in orchestrator.
// PersonID refers to a member or visitor depending on Kind; guests have none.
type CheckInInput struct {
	ServiceType string
	ServiceDate time.Time
	Kind        string
	PersonID    string
	PersonName  string
}

// CheckInDeps holds dependencies for CheckIn.
type CheckInDeps struct {
	AttendanceStore AttendanceStore
	MemberStore     MemberLookup  // optional: resolves member names
	VisitorStore    VisitorLookup // optional: resolves visitor names
	Now             func() time.Time
}

// checkInMu serialises the duplicate check and the save.
var checkInMu sync.Mutex

// ExecuteCheckIn records one person's attendance at a service.
// PRE: ServiceType and ServiceDate are set; PersonID or PersonName identifies the person
// POST: Attendance record created with CheckedInAt=now
// INVARIANT: a person is checked in at most once per service and day
func ExecuteCheckIn(ctx context.Context, input CheckInInput, deps CheckInDeps) (attendance.Attendance, error) {
	now := time.Now
	if deps.Now != nil {
		now = deps.Now
	}
	kind := input.Kind
	if kind == "" {
		kind = attendance.KindGuest
	}

	name := strings.TrimSpace(input.PersonName)
	if input.PersonID != "" {
		resolved, err := resolvePerson(ctx, kind, input.PersonID, deps)
		if err != nil {
			return attendance.Attendance{}, err
		}
		if resolved != "" {
			name = resolved
		}
	}

	y, m, d := input.ServiceDate.Date()
	a := attendance.Attendance{
		ID:          uuid.New().String(),
		ServiceDate: time.Date(y, m, d, 0, 0, 0, 0, time.UTC),
		ServiceType: input.ServiceType,
		PersonID:    input.PersonID,
		PersonName:  name,
		Kind:        kind,
		CheckedInAt: now(),
	}
	if err := a.Validate(); err != nil {
		return attendance.Attendance{}, err
	}

	checkInMu.Lock()
	defer checkInMu.Unlock()

	existing, err := serviceAttendance(ctx, deps.AttendanceStore, a.ServiceType, a.ServiceDate)
	if err != nil {
		return attendance.Attendance{}, fmt.Errorf("load attendance: %w", err)
	}
	for _, prev := range existing {
		if a.SameService(prev) {
			slog.Info("checkin_event", "event", "duplicate_check_in", "person", a.PersonName, "service", a.ServiceType)
			return attendance.Attendance{}, attendance.ErrAlreadyCheckedIn
		}
	}

	if err := deps.AttendanceStore.Save(ctx, a); err != nil {
		return attendance.Attendance{}, fmt.Errorf("save attendance: %w", err)
	}

	slog.Info("checkin_event", "event", "checked_in", "person", a.PersonName, "kind", a.Kind, "service", a.ServiceType, "date", a.ServiceDate.Format(time.DateOnly))
	return a, nil
}

func resolvePerson(ctx context.Context, kind, id string, deps CheckInDeps) (string, error) {
	switch {
	case kind == attendance.KindMember && deps.MemberStore != nil:
		m, err := deps.MemberStore.Get(ctx, id)
		if err != nil {
			return "", personNotFound(err)
		}
		return m.Name, nil
	case kind == attendance.KindVisitor && deps.VisitorStore != nil:
		v, err := deps.VisitorStore.Get(ctx, id)
		if err != nil {
			return "", personNotFound(err)
		}
		return v.Name, nil
	}
	return "", nil
}

func personNotFound(err error) error {
	errs := validation.Errors{}
	errs.Add("person_id", "was not found")
	return errors.Join(errs, err)
}

func serviceAttendance(ctx context.Context, store AttendanceStore, serviceType string, day time.Time) ([]attendance.Attendance, error) {
	if l, ok := store.(serviceLister); ok {
		return l.ListForService(ctx, serviceType, day)
	}
	all, err := store.List(ctx)
	if err != nil {
		return nil, err
	}
	var out []attendance.Attendance
	for _, a := range all {
		if a.ServiceType == serviceType {
			out = append(out, a)
		}
	}
	return out, nil
}
