package timesheet

import (
	"fmt"
	"sort"
	"time"

	"github.com/pontoagent/ponto-backend-go/internal/domain/holiday"
	"github.com/pontoagent/ponto-backend-go/internal/domain/justification"
	"github.com/pontoagent/ponto-backend-go/internal/domain/punch"
	"github.com/pontoagent/ponto-backend-go/internal/domain/timesheet"
)

// Rules are the reconciliation settings shared by every employee.
type Rules struct {
	DailyTargetMinutes int
	MinBreakMinutes    int
	Location           *time.Location
}

func DefaultRules() Rules {
	return Rules{DailyTargetMinutes: 480, Location: time.UTC}
}

func (r Rules) location() *time.Location {
	if r.Location == nil {
		return time.UTC
	}
	return r.Location
}

// Input is one employee's data for one period.
type Input struct {
	EmployeeID     string
	Period         timesheet.Period
	Punches        []punch.PunchEvent
	Justifications []justification.Justification
	Holidays       []holiday.Holiday

	// TargetMinutes overrides Rules.DailyTargetMinutes when set
	TargetMinutes *int
}

type Result struct {
	EmployeeID  string
	Period      timesheet.Period
	Days        []timesheet.DayRecord
	Summary     timesheet.PeriodSummary
	Diagnostics []timesheet.Diagnostic
}

// Reconcile runs the whole pipeline for one employee: grouping, pairing,
// per-day reconciliation and aggregation. It is pure: inputs are not
// modified and equal inputs give equal results.
func Reconcile(in Input, rules Rules) Result {
	loc := rules.location()
	period := timesheet.NewPeriod(in.Period.Start, in.Period.End, loc)

	target := rules.DailyTargetMinutes
	if in.TargetMinutes != nil && *in.TargetMinutes >= 0 {
		target = *in.TargetMinutes
	}

	byDate, diags := GroupByDate(in.EmployeeID, period, in.Punches, loc)
	justByDate, justDiags := indexJustifications(in.EmployeeID, period, in.Justifications)
	diags = append(diags, justDiags...)
	holidays := indexHolidays(period, in.Holidays)

	days := make([]timesheet.DayRecord, 0, period.Len())
	for _, day := range period.Days() {
		key := timesheet.DateKey(day)
		sessions, anomalies := BuildSessions(in.EmployeeID, day, byDate[key])
		diags = append(diags, anomalies...)

		days = append(days, ReconcileDay(DayInput{
			EmployeeID:      in.EmployeeID,
			Date:            day,
			Sessions:        sessions,
			TargetMinutes:   target,
			MinBreakMinutes: rules.MinBreakMinutes,
			Justifications:  justByDate[key],
			Holiday:         holidays[key],
			Anomalies:       anomalies,
		}))
	}

	return Result{
		EmployeeID:  in.EmployeeID,
		Period:      period,
		Days:        days,
		Summary:     Aggregate(days),
		Diagnostics: diags,
	}
}

// ReconcileRaw is Reconcile for rows straight from the terminal feed.
func ReconcileRaw(employeeID string, period timesheet.Period, rows []punch.RawPunch, justifications []justification.Justification, holidays []holiday.Holiday, rules Rules) Result {
	loc := rules.location()
	var punches []punch.PunchEvent
	var diags []timesheet.Diagnostic

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
		punches = append(punches, event)
	}

	res := Reconcile(Input{
		EmployeeID:     employeeID,
		Period:         period,
		Punches:        punches,
		Justifications: justifications,
		Holidays:       holidays,
	}, rules)
	res.Diagnostics = append(diags, res.Diagnostics...)
	return res
}

// indexJustifications keys well-formed justifications of the employee by
// covered date. Covered dates are calendar dates and are not converted
// between time zones.
func indexJustifications(employeeID string, period timesheet.Period, items []justification.Justification) (map[string][]justification.Justification, []timesheet.Diagnostic) {
	var diags []timesheet.Diagnostic
	malformed := func(j justification.Justification, msg string) {
		diags = append(diags, timesheet.Diagnostic{
			Kind:       timesheet.DiagnosticMalformedJustification,
			EmployeeID: employeeID,
			Date:       j.CoveredDate,
			Message:    fmt.Sprintf("justification %q: %s", j.ID, msg),
		})
	}

	start, end := timesheet.DateKey(period.Start), timesheet.DateKey(period.End)
	valid := make([]justification.Justification, 0, len(items))
	for _, j := range items {
		switch {
		case j.EmployeeID != employeeID:
			malformed(j, "belongs to another employee")
			continue
		case j.CoveredDate.IsZero():
			malformed(j, "covered date is missing")
			continue
		case !j.Status.IsValid():
			malformed(j, fmt.Sprintf("unknown status %q", j.Status))
			continue
		case j.HoursCovered != nil && (*j.HoursCovered <= 0 || *j.HoursCovered > 24):
			malformed(j, "hours covered must be in (0, 24]")
			continue
		}
		key := timesheet.DateKey(j.CoveredDate)
		if key < start || key > end {
			continue
		}
		valid = append(valid, j)
	}

	sort.SliceStable(valid, func(a, b int) bool {
		if !valid[a].CreatedAt.Equal(valid[b].CreatedAt) {
			return valid[a].CreatedAt.Before(valid[b].CreatedAt)
		}
		return valid[a].ID < valid[b].ID
	})

	byDate := make(map[string][]justification.Justification)
	for _, j := range valid {
		key := timesheet.DateKey(j.CoveredDate)
		byDate[key] = append(byDate[key], j)
	}
	return byDate, diags
}

func indexHolidays(period timesheet.Period, items []holiday.Holiday) map[string]*holiday.Holiday {
	byDate := make(map[string]*holiday.Holiday, len(items))
	for i := range items {
		h := items[i]
		if !h.Active || h.Date.IsZero() {
			continue
		}
		key := timesheet.DateKey(h.Date)
		if key < timesheet.DateKey(period.Start) || key > timesheet.DateKey(period.End) {
			continue
		}
		if _, exists := byDate[key]; !exists {
			byDate[key] = &h
		}
	}
	return byDate
}
