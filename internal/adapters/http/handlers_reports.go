package web

import (
	"encoding/csv"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"steward/internal/application/format"
	"steward/internal/application/projections"
	"steward/internal/domain/validation"
)

// --- Dashboard ---

// handleDashboard handles GET /dashboard and GET /api/dashboard
func (s *server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	st := s.deps.Stores
	result, err := projections.GetDashboard(r.Context(), projections.GetDashboardDeps{
		Members:    st.Members,
		Visitors:   st.Visitors,
		Attendance: st.Attendance,
		Tithes:     st.Tithes,
		Offerings:  st.Offerings,
		Donations:  st.Donations,
		Sermons:    st.Sermons,
		Prayers:    st.Prayers,
		Emails:     st.Emails,
		Now:        s.now,
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if !isHTMLRequest(r) {
		writeJSON(w, http.StatusOK, result)
		return
	}
	s.renderTemplate(w, r, "dashboard.html", http.StatusOK, map[string]any{
		"Dashboard":  result,
		"GivingPeak": givingPeak(result),
	})
}

// givingPeak is the largest month of the giving series, for scaling the bar chart.
func givingPeak(d projections.DashboardResult) int64 {
	var peak int64
	for _, p := range d.GivingSeries {
		peak = max(peak, p.Total)
	}
	return peak
}

// --- Reports ---

// DefaultReportMonths is the report window when the request names none.
const DefaultReportMonths = 6

// reportPeriod reads from/to (YYYY-MM-DD) or months from the query.
func (s *server) reportPeriod(r *http.Request) (projections.Period, error) {
	q := r.URL.Query()
	if q.Get("from") != "" || q.Get("to") != "" {
		errs := validation.Errors{}
		from, err := format.ParseDate(q.Get("from"))
		if err != nil {
			errs.Add("from", "must be a date (YYYY-MM-DD)")
		}
		to, err := format.ParseDate(q.Get("to"))
		if err != nil {
			errs.Add("to", "must be a date (YYYY-MM-DD)")
		}
		if len(errs) == 0 && to.Before(from) {
			errs.Add("to", "must not be before from")
		}
		if err := errs.Err(); err != nil {
			return projections.Period{}, err
		}
		return projections.Period{From: from, To: to}, nil
	}

	months := DefaultReportMonths
	if raw := q.Get("months"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > 36 {
			return projections.Period{}, validation.Errors{"months": "must be between 1 and 36"}
		}
		months = n
	}
	return projections.LastMonths(s.now(), months), nil
}

func wantsCSV(r *http.Request) bool {
	return r.URL.Query().Get("format") == "csv"
}

// writeCSV streams rows as an attachment named after the report and period.
func writeCSV(w http.ResponseWriter, name string, p projections.Period, rows [][]string) {
	filename := fmt.Sprintf("%s-%s-to-%s.csv", name, p.From.Format(time.DateOnly), p.To.Format(time.DateOnly))
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	cw := csv.NewWriter(w)
	if err := cw.WriteAll(rows); err != nil {
		slog.Error("csv_export_failed", "report", name, "error", err)
	}
}

// handleFinanceReport handles GET /reports/finance and GET /api/reports/finance
func (s *server) handleFinanceReport(w http.ResponseWriter, r *http.Request) {
	period, err := s.reportPeriod(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	st := s.deps.Stores
	report, err := projections.GetFinanceReport(r.Context(), projections.GetFinanceReportQuery{Period: period}, projections.GetFinanceReportDeps{
		Tithes:    st.Tithes,
		Offerings: st.Offerings,
		Donations: st.Donations,
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	switch {
	case wantsCSV(r):
		rows := [][]string{{"Date", "Source", "Name", "Method", "Settlement", "Fund", "Amount"}}
		for _, g := range report.Gifts {
			rows = append(rows, []string{
				g.Date.Format(time.DateOnly), g.Source, g.Name, g.Method, g.Settlement, g.Fund, format.Decimal(g.Amount),
			})
		}
		writeCSV(w, "finance", period, rows)
	case !isHTMLRequest(r):
		writeJSON(w, http.StatusOK, report)
	default:
		s.renderTemplate(w, r, "finance_report.html", http.StatusOK, map[string]any{
			"Report": report,
			"From":   format.DateInput(period.From),
			"To":     format.DateInput(period.To),
		})
	}
}

// handleAttendanceReport handles GET /reports/attendance and GET /api/reports/attendance
func (s *server) handleAttendanceReport(w http.ResponseWriter, r *http.Request) {
	period, err := s.reportPeriod(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	report, err := projections.GetAttendanceReport(r.Context(), projections.GetAttendanceReportQuery{Period: period}, projections.GetAttendanceReportDeps{
		Attendance: s.deps.Stores.Attendance,
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	switch {
	case wantsCSV(r):
		rows := [][]string{{"Date", "Service", "Members", "Visitors", "Guests", "Total"}}
		for _, row := range report.Rows {
			rows = append(rows, []string{
				row.Date.Format(time.DateOnly), row.ServiceType,
				strconv.Itoa(row.Members), strconv.Itoa(row.Visitors), strconv.Itoa(row.Guests), strconv.Itoa(row.Total),
			})
		}
		writeCSV(w, "attendance", period, rows)
	case !isHTMLRequest(r):
		writeJSON(w, http.StatusOK, report)
	default:
		s.renderTemplate(w, r, "attendance_report.html", http.StatusOK, map[string]any{
			"Report": report,
			"From":   format.DateInput(period.From),
			"To":     format.DateInput(period.To),
		})
	}
}
