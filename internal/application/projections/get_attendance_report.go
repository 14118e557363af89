package projections

import (
	"context"
	"sort"
	"time"

	"steward/internal/application/stats"
	"steward/internal/domain/attendance"
)

// GetAttendanceReportQuery carries input for the attendance report.
type GetAttendanceReportQuery struct {
	Period Period
}

// GetAttendanceReportDeps holds dependencies for the attendance report.
type GetAttendanceReportDeps struct {
	Attendance Lister[attendance.Attendance]
}

// ServiceRow is the head count of one service.
type ServiceRow struct {
	Date        time.Time
	ServiceType string
	Members     int
	Visitors    int
	Guests      int
	Total       int
}

// AttendanceReport is attendance over a period.
type AttendanceReport struct {
	Period            Period
	CheckIns          int
	Services          int
	AveragePerService float64
	ByService         []stats.Share[int]
	ByKind            []stats.Share[int]
	Monthly           []stats.Point[int]
	Rows              []ServiceRow // newest service first
}

// GetAttendanceReport aggregates check-ins per service over the period.
// PRE: query.Period has both bounds set
// POST: Rows hold one entry per distinct service date and type
func GetAttendanceReport(ctx context.Context, query GetAttendanceReportQuery, deps GetAttendanceReportDeps) (AttendanceReport, error) {
	all, err := deps.Attendance.List(ctx)
	if err != nil {
		return AttendanceReport{}, wrapLoad("attendance", err)
	}
	records := within(all, query.Period, serviceDate)

	rows := ServiceRows(records)
	report := AttendanceReport{
		Period:    query.Period,
		CheckIns:  len(records),
		Services:  len(rows),
		ByService: stats.Counts(records, func(a attendance.Attendance) string { return a.ServiceType }),
		ByKind:    stats.Counts(records, attendanceKind),
		Monthly:   stats.Fill(stats.Monthly(records, serviceDate, one), query.Period.To, query.Period.Months()),
		Rows:      rows,
	}
	if len(rows) > 0 {
		report.AveragePerService = float64(len(records)) / float64(len(rows))
	}
	return report, nil
}

// ServiceRows groups check-ins by service date and type, newest first.
func ServiceRows(records []attendance.Attendance) []ServiceRow {
	type key struct {
		date time.Time
		kind string
	}
	index := make(map[key]int)
	var rows []ServiceRow
	for _, a := range records {
		k := key{day(a.ServiceDate), a.ServiceType}
		i, ok := index[k]
		if !ok {
			i = len(rows)
			index[k] = i
			rows = append(rows, ServiceRow{Date: k.date, ServiceType: k.kind})
		}
		switch attendanceKind(a) {
		case attendance.KindMember:
			rows[i].Members++
		case attendance.KindVisitor:
			rows[i].Visitors++
		default:
			rows[i].Guests++
		}
		rows[i].Total++
	}
	sort.SliceStable(rows, func(i, j int) bool {
		if !rows[i].Date.Equal(rows[j].Date) {
			return rows[i].Date.After(rows[j].Date)
		}
		return rows[i].ServiceType < rows[j].ServiceType
	})
	return rows
}

func serviceDate(a attendance.Attendance) time.Time { return a.ServiceDate }

func one(attendance.Attendance) int { return 1 }

func attendanceKind(a attendance.Attendance) string {
	if a.Kind == "" {
		return attendance.KindGuest
	}
	return a.Kind
}
