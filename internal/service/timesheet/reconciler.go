package timesheet

import (
	"fmt"
	"strings"
	"time"

	"github.com/pontoagent/ponto-backend-go/internal/domain/holiday"
	"github.com/pontoagent/ponto-backend-go/internal/domain/justification"
	"github.com/pontoagent/ponto-backend-go/internal/domain/timesheet"
)

// DayInput is everything needed to reconcile one employee-day.
type DayInput struct {
	EmployeeID string
	Date       time.Time
	Sessions   []timesheet.WorkSession

	TargetMinutes   int
	MinBreakMinutes int

	// Justifications covering Date, any status
	Justifications []justification.Justification

	// Holiday is nil on ordinary dates
	Holiday *holiday.Holiday

	// Anomalies found while building Sessions, summarized in the note
	Anomalies []timesheet.Diagnostic
}

// ReconcileDay turns one day's sessions into a DayRecord. It never fails.
func ReconcileDay(in DayInput) timesheet.DayRecord {
	rec := timesheet.DayRecord{
		EmployeeID: in.EmployeeID,
		Date:       in.Date,
		Weekday:    in.Date.Weekday(),
		Sessions:   in.Sessions,
	}

	var notes []string

	if timesheet.IsWeekend(in.Date) {
		rec.Status = timesheet.StatusWeekend
		notes = append(notes, "weekend")
		if n := len(in.Sessions); n > 0 {
			notes = append(notes, fmt.Sprintf("%d session(s) ignored", n))
		}
		rec.Note = strings.Join(notes, "; ")
		return rec
	}

	if in.Holiday != nil {
		rec.Status = timesheet.StatusHoliday
		notes = append(notes, "holiday: "+in.Holiday.Description)
		if n := len(in.Sessions); n > 0 {
			notes = append(notes, fmt.Sprintf("%d session(s) ignored", n))
		}
		rec.Note = strings.Join(notes, "; ")
		return rec
	}

	target := in.TargetMinutes
	if target < 0 {
		target = 0
	}

	worked := 0
	for _, s := range in.Sessions {
		if !s.Open && s.DurationMinutes > 0 {
			worked += s.DurationMinutes
		}
	}
	if deduction := breakDeduction(in.Sessions, in.MinBreakMinutes); deduction > 0 {
		worked -= deduction
		if worked < 0 {
			worked = 0
		}
		notes = append(notes, fmt.Sprintf("%s deducted for short break", timesheet.FormatMinutes(deduction)))
	}
	rec.WorkedMinutes = worked

	switch {
	case worked > target:
		rec.OvertimeMinutes = worked - target
		rec.Status = timesheet.StatusRegular
		notes = append(notes, "overtime of "+timesheet.FormatMinutes(rec.OvertimeMinutes))

	case worked == target:
		rec.Status = timesheet.StatusRegular

	default:
		rec.ShortfallMinutes = target - worked
		applied, note := coverShortfall(in.Date, in.Justifications, rec.ShortfallMinutes, len(in.Sessions) == 0)
		if applied != nil {
			rec.Status = timesheet.StatusJustified
			id := applied.ID
			rec.JustificationID = &id
		} else {
			rec.Status = timesheet.StatusIrregular
		}
		notes = append(notes, note)
	}

	notes = append(notes, anomalyNotes(in.Anomalies)...)
	rec.Note = strings.Join(notes, "; ")
	return rec
}

// coverShortfall picks the approved justification that excuses the day.
// A full-day approval always covers; otherwise the approved partial hours are
// summed and must reach the shortfall.
func coverShortfall(date time.Time, justifications []justification.Justification, shortfall int, absent bool) (*justification.Justification, string) {
	key := timesheet.DateKey(date)

	var approved []justification.Justification
	pending := 0
	for _, j := range justifications {
		if timesheet.DateKey(j.CoveredDate) != key {
			continue
		}
		switch j.Status {
		case justification.StatusApproved:
			approved = append(approved, j)
		case justification.StatusPending:
			pending++
		}
	}

	for i := range approved {
		if approved[i].CoversFullDay() {
			if absent {
				return &approved[i], fmt.Sprintf("absence justified (%s)", approved[i].Type)
			}
			return &approved[i], fmt.Sprintf("shortfall of %s justified (%s)", timesheet.FormatMinutes(shortfall), approved[i].Type)
		}
	}

	covered := 0
	for _, j := range approved {
		covered += j.CoveredMinutes()
	}
	if len(approved) > 0 && covered >= shortfall {
		return &approved[0], fmt.Sprintf("shortfall of %s justified (%s)", timesheet.FormatMinutes(shortfall), approved[0].Type)
	}

	var note string
	switch {
	case len(approved) > 0:
		note = fmt.Sprintf("justification covers %s of %s shortfall", timesheet.FormatMinutes(covered), timesheet.FormatMinutes(shortfall))
	case absent:
		note = "absence without justification"
	default:
		note = "unjustified shortfall of " + timesheet.FormatMinutes(shortfall)
	}
	if pending > 0 {
		note += fmt.Sprintf("; %d justification(s) pending review", pending)
	}
	return nil, note
}

// breakDeduction returns the minutes missing from breaks shorter than
// minBreak between consecutive closed sessions.
func breakDeduction(sessions []timesheet.WorkSession, minBreak int) int {
	if minBreak <= 0 {
		return 0
	}

	total := 0
	var prev *timesheet.WorkSession
	for i := range sessions {
		s := &sessions[i]
		if s.Open {
			continue
		}
		if prev != nil {
			gap := int(s.Start.Sub(prev.End) / time.Minute)
			if gap < minBreak {
				total += minBreak - gap
			}
		}
		prev = s
	}
	return total
}

func anomalyNotes(anomalies []timesheet.Diagnostic) []string {
	var pairing int
	var notes []string
	for _, d := range anomalies {
		switch d.Kind {
		case timesheet.DiagnosticPairingAnomaly:
			pairing++
		case timesheet.DiagnosticOpenSession:
			notes = append(notes, "open session: "+d.Message)
		}
	}
	if pairing > 0 {
		notes = append([]string{fmt.Sprintf("%d pairing anomaly(ies) resolved", pairing)}, notes...)
	}
	return notes
}
