package timesheet

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/pontoagent/ponto-backend-go/internal/domain/punch"
	"github.com/pontoagent/ponto-backend-go/internal/domain/timesheet"
)

const (
	feedDateLayout = "02012006"
	feedTimeLayout = "1504"
)

// ParseRow converts one terminal record into a PunchEvent at minute
// resolution in loc. EmployeeID is left as the feed's registration.
func ParseRow(row punch.RawPunch, loc *time.Location) (punch.PunchEvent, error) {
	if loc == nil {
		loc = time.UTC
	}

	employeeID := strings.TrimSpace(row.EmployeeID)
	if employeeID == "" {
		return punch.PunchEvent{}, punch.ErrMissingEmployee
	}

	dateStr := strings.TrimSpace(row.Date)
	if len(dateStr) != len(feedDateLayout) {
		return punch.PunchEvent{}, fmt.Errorf("%w: %q", punch.ErrMalformedDate, row.Date)
	}
	day, err := time.ParseInLocation(feedDateLayout, dateStr, loc)
	if err != nil {
		return punch.PunchEvent{}, fmt.Errorf("%w: %q", punch.ErrMalformedDate, row.Date)
	}

	timeStr := strings.TrimSpace(row.Time)
	if len(timeStr) != len(feedTimeLayout) {
		return punch.PunchEvent{}, fmt.Errorf("%w: %q", punch.ErrMalformedTime, row.Time)
	}
	clock, err := time.Parse(feedTimeLayout, timeStr)
	if err != nil {
		return punch.PunchEvent{}, fmt.Errorf("%w: %q", punch.ErrMalformedTime, row.Time)
	}

	direction, err := punch.ParseDirection(row.DirectionCode)
	if err != nil {
		return punch.PunchEvent{}, fmt.Errorf("%w: %q", err, row.DirectionCode)
	}

	return punch.PunchEvent{
		EmployeeID: employeeID,
		Timestamp:  time.Date(day.Year(), day.Month(), day.Day(), clock.Hour(), clock.Minute(), 0, 0, loc),
		Direction:  direction,
		TerminalID: strings.TrimSpace(row.TerminalID),
		LocationID: strings.TrimSpace(row.LocationID),
		CompanyID:  strings.TrimSpace(row.CompanyID),
	}, nil
}

// Normalize parses the raw rows of one employee and groups the valid ones by
// date. Rows that fail to parse are reported and skipped.
func Normalize(employeeID string, period timesheet.Period, rows []punch.RawPunch, loc *time.Location) (map[string][]punch.PunchEvent, []timesheet.Diagnostic) {
	var diags []timesheet.Diagnostic
	events := make([]punch.PunchEvent, 0, len(rows))

	for _, row := range rows {
		event, err := ParseRow(row, loc)
		if err != nil {
			diags = append(diags, timesheet.Diagnostic{
				Kind:       timesheet.DiagnosticMalformedRecord,
				EmployeeID: employeeID,
				Line:       row.Line,
				Message:    err.Error(),
			})
			continue
		}
		events = append(events, event)
	}

	byDate, groupDiags := GroupByDate(employeeID, period, events, loc)
	return byDate, append(diags, groupDiags...)
}

// GroupByDate validates parsed events of one employee and returns them keyed
// by calendar date (timesheet.DateKey in loc), each day ordered by time.
// The input slice is not modified.
func GroupByDate(employeeID string, period timesheet.Period, events []punch.PunchEvent, loc *time.Location) (map[string][]punch.PunchEvent, []timesheet.Diagnostic) {
	if loc == nil {
		loc = time.UTC
	}

	var diags []timesheet.Diagnostic
	byDate := make(map[string][]punch.PunchEvent)

	for _, e := range events {
		switch {
		case e.EmployeeID != employeeID:
			diags = append(diags, timesheet.Diagnostic{
				Kind:       timesheet.DiagnosticUnknownEmployee,
				EmployeeID: employeeID,
				Message:    fmt.Sprintf("punch of employee %q ignored", e.EmployeeID),
			})
			continue
		case e.Timestamp.IsZero():
			diags = append(diags, timesheet.Diagnostic{
				Kind:       timesheet.DiagnosticMalformedRecord,
				EmployeeID: employeeID,
				Message:    "punch without timestamp ignored",
			})
			continue
		case !e.Direction.IsValid():
			diags = append(diags, timesheet.Diagnostic{
				Kind:       timesheet.DiagnosticMalformedRecord,
				EmployeeID: employeeID,
				Date:       timesheet.DateOf(e.Timestamp, loc),
				Message:    fmt.Sprintf("unknown direction %q", e.Direction),
			})
			continue
		}

		ts := e.Timestamp.In(loc).Truncate(time.Minute)
		if !period.Contains(ts) {
			diags = append(diags, timesheet.Diagnostic{
				Kind:       timesheet.DiagnosticOutOfPeriod,
				EmployeeID: employeeID,
				Date:       timesheet.DateOf(ts, loc),
				Message:    fmt.Sprintf("punch at %s is outside the period", ts.Format("2006-01-02 15:04")),
			})
			continue
		}

		e.Timestamp = ts
		key := timesheet.DateKey(ts)
		byDate[key] = append(byDate[key], e)
	}

	for key, dayEvents := range byDate {
		sort.SliceStable(dayEvents, func(i, j int) bool {
			return dayEvents[i].Timestamp.Before(dayEvents[j].Timestamp)
		})

		deduped := dayEvents[:0]
		for i, e := range dayEvents {
			if i > 0 {
				prev := deduped[len(deduped)-1]
				if prev.Timestamp.Equal(e.Timestamp) && prev.Direction == e.Direction {
					diags = append(diags, timesheet.Diagnostic{
						Kind:       timesheet.DiagnosticDuplicatePunch,
						EmployeeID: employeeID,
						Date:       timesheet.DateOf(e.Timestamp, loc),
						Message:    fmt.Sprintf("duplicate %s at %s ignored", e.Direction, e.Timestamp.Format("15:04")),
					})
					continue
				}
			}
			deduped = append(deduped, e)
		}
		byDate[key] = deduped
	}

	sortDiagnostics(diags)
	return byDate, diags
}

// sortDiagnostics orders diagnostics by date keeping the relative order of
// findings on the same date.
func sortDiagnostics(diags []timesheet.Diagnostic) {
	sort.SliceStable(diags, func(i, j int) bool {
		return diags[i].Date.Before(diags[j].Date)
	})
}
