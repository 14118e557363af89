package orchestrators

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"

	"steward/internal/application/format"
	"steward/internal/domain/member"
	"steward/internal/domain/validation"
)

// MemberStoreForImport defines the store interface needed by ImportMembers.
type MemberStoreForImport interface {
	List(ctx context.Context) ([]member.Member, error)
	Save(ctx context.Context, m member.Member) error
}

// ImportMembersInput carries the CSV stream and import options.
// PRE: Reader is a CSV stream with a header row
// POST: Returns aggregate counts and per-row errors; writes are skipped when DryRun=true
// INVARIANT: Existing members are never deleted; IDs are preserved on update
type ImportMembersInput struct {
	Reader     io.Reader
	By         string // email of the acting user, for the log
	DryRun     bool
	UpdateMode bool
}

// ImportMembersResult holds aggregate counts and per-row errors from an import run.
type ImportMembersResult struct {
	Total   int                     `json:"total"`
	Created int                     `json:"created"`
	Updated int                     `json:"updated"`
	Skipped int                     `json:"skipped"`
	Errors  []ImportMembersRowError `json:"errors"`
	DryRun  bool                    `json:"dry_run"`
	Unknown []string                `json:"unknown_columns"`
}

// ImportMembersRowError describes a problem with a single CSV row.
// Row counts the header as row 1.
type ImportMembersRowError struct {
	Row     int    `json:"row"`
	Message string `json:"message"`
}

// ImportMembersDeps holds external dependencies for the import orchestrator.
type ImportMembersDeps struct {
	MemberStore MemberStoreForImport
	GenerateID  func() string
	Now         func() time.Time
}

var importColumns = map[string]bool{
	"NAME": true, "EMAIL": true, "PHONE": true, "GENDER": true,
	"MINISTRY": true, "STATUS": true, "JOINED_ON": true, "ADDRESS": true,
}

// ExecuteImportMembers parses a CSV stream and creates or updates member records.
// Rows are matched to existing members by email, case-insensitively; rows
// without an email always create a new member.
// PRE: Input.Reader contains a CSV with at least a NAME column
// POST: Members are created, updated or skipped according to DryRun and UpdateMode;
// aggregate counts and per-row errors are returned
// INVARIANT: When DryRun=true no writes occur
func ExecuteImportMembers(ctx context.Context, input ImportMembersInput, deps ImportMembersDeps) (ImportMembersResult, error) {
	newID := deps.GenerateID
	if newID == nil {
		newID = func() string { return uuid.New().String() }
	}
	now := time.Now
	if deps.Now != nil {
		now = deps.Now
	}

	cr := csv.NewReader(input.Reader)
	cr.TrimLeadingSpace = true
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		return ImportMembersResult{}, validation.Errors{"file": "must be a CSV file with a header row"}
	}
	colIdx := make(map[string]int, len(header))
	result := ImportMembersResult{DryRun: input.DryRun}
	for i, h := range header {
		key := strings.ToUpper(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))
		colIdx[key] = i
		if !importColumns[key] {
			result.Unknown = append(result.Unknown, h)
		}
	}
	if _, ok := colIdx["NAME"]; !ok {
		return ImportMembersResult{}, validation.Errors{"file": "CSV missing required column: NAME"}
	}

	getCol := func(row []string, col string) string {
		i, ok := colIdx[col]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	existing, err := deps.MemberStore.List(ctx)
	if err != nil {
		return ImportMembersResult{}, err
	}
	byEmail := make(map[string]member.Member, len(existing))
	for _, m := range existing {
		if m.Email != "" {
			byEmail[strings.ToLower(m.Email)] = m
		}
	}

	rowNum := 1
	for {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		rowNum++
		if err != nil {
			var parseErr *csv.ParseError
			if errors.As(err, &parseErr) {
				result.Total++
				result.Errors = append(result.Errors, ImportMembersRowError{Row: rowNum, Message: "malformed CSV row"})
				continue
			}
			return result, err
		}
		result.Total++

		m, msg := memberFromRow(getCol, row)
		if msg != "" {
			result.Errors = append(result.Errors, ImportMembersRowError{Row: rowNum, Message: msg})
			continue
		}

		// byEmail never holds "", so rows without an email always create.
		found, exists := byEmail[strings.ToLower(m.Email)]
		if exists && !input.UpdateMode {
			result.Skipped++
			continue
		}

		if exists {
			m.ID = found.ID
			if m.JoinedOn.IsZero() {
				m.JoinedOn = found.JoinedOn
			}
		} else {
			m.ID = newID()
			if m.JoinedOn.IsZero() {
				m.JoinedOn = now()
			}
		}

		if !input.DryRun {
			if err := deps.MemberStore.Save(ctx, m); err != nil {
				slog.Error("members_import_save_failed", "row", rowNum, "error", err)
				result.Errors = append(result.Errors, ImportMembersRowError{Row: rowNum, Message: "save failed (see server log)"})
				continue
			}
		}
		// Later rows in the same file match this one in both modes.
		if m.Email != "" {
			byEmail[strings.ToLower(m.Email)] = m
		}
		if exists {
			result.Updated++
		} else {
			result.Created++
		}
	}

	slog.Info("record_event",
		"event", "members_imported",
		"by", input.By,
		"dry_run", input.DryRun,
		"update_mode", input.UpdateMode,
		"total", result.Total,
		"created", result.Created,
		"updated", result.Updated,
		"skipped", result.Skipped,
		"errors", len(result.Errors),
	)
	return result, nil
}

// memberFromRow builds a member from one CSV row, or returns a message describing why it cannot.
func memberFromRow(getCol func([]string, string) string, row []string) (member.Member, string) {
	m := member.Member{
		Name:     getCol(row, "NAME"),
		Phone:    getCol(row, "PHONE"),
		Gender:   getCol(row, "GENDER"),
		Address:  getCol(row, "ADDRESS"),
		Ministry: pick(member.Ministries, getCol(row, "MINISTRY"), "None"),
		Status:   pick(member.Statuses, getCol(row, "STATUS"), member.StatusActive),
	}
	if raw := getCol(row, "EMAIL"); raw != "" {
		addr, err := mail.ParseAddress(raw)
		if err != nil {
			return member.Member{}, "invalid email: " + raw
		}
		m.Email = strings.ToLower(addr.Address)
	}
	if raw := getCol(row, "JOINED_ON"); raw != "" {
		joined, err := format.ParseDate(raw)
		if err != nil {
			return member.Member{}, fmt.Sprintf("invalid joined_on %q (want YYYY-MM-DD)", raw)
		}
		m.JoinedOn = joined
	}
	if err := m.Validate(); err != nil {
		return member.Member{}, err.Error()
	}
	return m, ""
}

// pick returns the option equal to v ignoring case, or fallback.
func pick(options []string, v, fallback string) string {
	for _, o := range options {
		if strings.EqualFold(o, v) {
			return o
		}
	}
	return fallback
}
