package timesheet

import (
	"testing"
	"time"

	"github.com/pontoagent/ponto-backend-go/internal/domain/holiday"
	"github.com/pontoagent/ponto-backend-go/internal/domain/justification"
	"github.com/pontoagent/ponto-backend-go/internal/domain/punch"
	"github.com/pontoagent/ponto-backend-go/internal/domain/timesheet"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const empID = "emp-1"

// March 2024: the 4th is a Monday, the 9th a Saturday.
func day(d int) time.Time {
	return time.Date(2024, time.March, d, 0, 0, 0, 0, time.UTC)
}

func at(d, hour, minute int, dir punch.Direction) punch.PunchEvent {
	return punch.PunchEvent{
		EmployeeID: empID,
		Timestamp:  time.Date(2024, time.March, d, hour, minute, 0, 0, time.UTC),
		Direction:  dir,
	}
}

func singleDay(d int) timesheet.Period {
	return timesheet.Period{Start: day(d), End: day(d)}
}

func approved(d int, id string) justification.Justification {
	return justification.Justification{
		ID:          id,
		EmployeeID:  empID,
		CoveredDate: day(d),
		Type:        justification.TypeMedicalCertificate,
		Status:      justification.StatusApproved,
	}
}

func reconcileOne(t *testing.T, d int, punches []punch.PunchEvent, justs []justification.Justification) (timesheet.DayRecord, []timesheet.Diagnostic) {
	t.Helper()
	res := Reconcile(Input{
		EmployeeID:     empID,
		Period:         singleDay(d),
		Punches:        punches,
		Justifications: justs,
	}, DefaultRules())
	require.Len(t, res.Days, 1)
	return res.Days[0], res.Diagnostics
}

func TestExactTargetIsRegular(t *testing.T) {
	rec, _ := reconcileOne(t, 5, []punch.PunchEvent{
		at(5, 8, 0, punch.DirectionIn), at(5, 12, 0, punch.DirectionOut),
		at(5, 13, 0, punch.DirectionIn), at(5, 17, 0, punch.DirectionOut),
	}, nil)

	assert.Equal(t, time.Tuesday, rec.Weekday)
	assert.Equal(t, timesheet.StatusRegular, rec.Status)
	assert.Equal(t, 480, rec.WorkedMinutes)
	assert.Zero(t, rec.OvertimeMinutes)
	assert.Zero(t, rec.ShortfallMinutes)
	assert.Len(t, rec.Sessions, 2)
}

func TestShortfallWithoutJustificationIsIrregular(t *testing.T) {
	rec, _ := reconcileOne(t, 6, []punch.PunchEvent{
		at(6, 8, 0, punch.DirectionIn), at(6, 12, 0, punch.DirectionOut),
		at(6, 13, 0, punch.DirectionIn), at(6, 16, 0, punch.DirectionOut),
	}, nil)

	assert.Equal(t, time.Wednesday, rec.Weekday)
	assert.Equal(t, timesheet.StatusIrregular, rec.Status)
	assert.Equal(t, 420, rec.WorkedMinutes)
	assert.Equal(t, 60, rec.ShortfallMinutes)
	assert.Zero(t, rec.OvertimeMinutes)
	assert.Nil(t, rec.JustificationID)
	assert.Contains(t, rec.Note, "unjustified shortfall of 01:00")
}

func TestApprovedJustificationMakesShortfallJustified(t *testing.T) {
	rec, _ := reconcileOne(t, 6, []punch.PunchEvent{
		at(6, 8, 0, punch.DirectionIn), at(6, 12, 0, punch.DirectionOut),
		at(6, 13, 0, punch.DirectionIn), at(6, 16, 0, punch.DirectionOut),
	}, []justification.Justification{approved(6, "j-1")})

	assert.Equal(t, timesheet.StatusJustified, rec.Status)
	assert.Equal(t, 60, rec.ShortfallMinutes)
	require.NotNil(t, rec.JustificationID)
	assert.Equal(t, "j-1", *rec.JustificationID)
}

func TestSaturdayIgnoresSessions(t *testing.T) {
	rec, _ := reconcileOne(t, 9, []punch.PunchEvent{
		at(9, 8, 0, punch.DirectionIn), at(9, 13, 0, punch.DirectionOut),
	}, nil)

	assert.Equal(t, time.Saturday, rec.Weekday)
	assert.Equal(t, timesheet.StatusWeekend, rec.Status)
	assert.Zero(t, rec.WorkedMinutes)
	assert.Zero(t, rec.OvertimeMinutes)
	assert.Zero(t, rec.ShortfallMinutes)
	assert.Contains(t, rec.Note, "1 session(s) ignored")
}

func TestNoSessionsNoJustificationIsIrregular(t *testing.T) {
	rec, _ := reconcileOne(t, 7, nil, nil)

	assert.Equal(t, timesheet.StatusIrregular, rec.Status)
	assert.Equal(t, 480, rec.ShortfallMinutes)
	assert.Equal(t, "absence without justification", rec.Note)
}

func TestConsecutiveInDiscardsEarlier(t *testing.T) {
	rec, diags := reconcileOne(t, 5, []punch.PunchEvent{
		at(5, 8, 0, punch.DirectionIn),
		at(5, 8, 5, punch.DirectionIn),
		at(5, 12, 0, punch.DirectionOut),
	}, nil)

	require.Len(t, rec.Sessions, 1)
	s := rec.Sessions[0]
	assert.Equal(t, "08:05", s.Start.Format("15:04"))
	assert.Equal(t, "12:00", s.End.Format("15:04"))
	assert.Equal(t, 235, s.DurationMinutes)
	assert.Equal(t, 235, rec.WorkedMinutes)

	require.Len(t, diags, 1)
	assert.Equal(t, timesheet.DiagnosticPairingAnomaly, diags[0].Kind)
	assert.Contains(t, diags[0].Message, "08:00")
	assert.Contains(t, rec.Note, "1 pairing anomaly(ies) resolved")
}

func TestConsecutiveOutDiscardsEarlier(t *testing.T) {
	rec, diags := reconcileOne(t, 5, []punch.PunchEvent{
		at(5, 8, 0, punch.DirectionIn),
		at(5, 12, 0, punch.DirectionOut),
		at(5, 12, 10, punch.DirectionOut),
	}, nil)

	require.Len(t, rec.Sessions, 1)
	s := rec.Sessions[0]
	assert.Equal(t, "08:00", s.Start.Format("15:04"))
	assert.Equal(t, "12:10", s.End.Format("15:04"))
	assert.False(t, s.Open)
	assert.Equal(t, 250, s.DurationMinutes)
	assert.Equal(t, 250, rec.WorkedMinutes)

	require.Len(t, diags, 1)
	assert.Equal(t, timesheet.DiagnosticPairingAnomaly, diags[0].Kind)
	assert.Contains(t, diags[0].Message, "12:00")
}

func TestAbsenceWithApprovedJustification(t *testing.T) {
	rec, _ := reconcileOne(t, 7, nil, []justification.Justification{approved(7, "j-2")})

	assert.Equal(t, timesheet.StatusJustified, rec.Status)
	assert.Equal(t, 480, rec.ShortfallMinutes)
	assert.Contains(t, rec.Note, "absence justified (atestado)")
}

func TestOvertimeIsRegular(t *testing.T) {
	rec, _ := reconcileOne(t, 5, []punch.PunchEvent{
		at(5, 7, 0, punch.DirectionIn), at(5, 12, 0, punch.DirectionOut),
		at(5, 13, 0, punch.DirectionIn), at(5, 18, 30, punch.DirectionOut),
	}, nil)

	assert.Equal(t, timesheet.StatusRegular, rec.Status)
	assert.Equal(t, 630, rec.WorkedMinutes)
	assert.Equal(t, 150, rec.OvertimeMinutes)
	assert.Zero(t, rec.ShortfallMinutes)
}

func TestPendingAndRejectedJustificationsDoNotExcuse(t *testing.T) {
	pending := approved(7, "j-p")
	pending.Status = justification.StatusPending
	rejected := approved(7, "j-r")
	rejected.Status = justification.StatusRejected

	rec, _ := reconcileOne(t, 7, nil, []justification.Justification{pending, rejected})

	assert.Equal(t, timesheet.StatusIrregular, rec.Status)
	assert.Contains(t, rec.Note, "1 justification(s) pending review")
}

func TestPartialCoverage(t *testing.T) {
	punches := []punch.PunchEvent{
		at(6, 8, 0, punch.DirectionIn), at(6, 12, 0, punch.DirectionOut),
		at(6, 13, 0, punch.DirectionIn), at(6, 16, 0, punch.DirectionOut),
	}

	half := 0.5
	partial := approved(6, "j-half")
	partial.HoursCovered = &half
	rec, _ := reconcileOne(t, 6, punches, []justification.Justification{partial})
	assert.Equal(t, timesheet.StatusIrregular, rec.Status)
	assert.Contains(t, rec.Note, "justification covers 00:30 of 01:00 shortfall")

	second := approved(6, "j-half-2")
	second.HoursCovered = &half
	rec, _ = reconcileOne(t, 6, punches, []justification.Justification{partial, second})
	assert.Equal(t, timesheet.StatusJustified, rec.Status)
	assert.Equal(t, 60, rec.ShortfallMinutes)
}

func TestOpenSessionContributesZero(t *testing.T) {
	rec, diags := reconcileOne(t, 5, []punch.PunchEvent{
		at(5, 8, 0, punch.DirectionIn), at(5, 12, 0, punch.DirectionOut),
		at(5, 13, 0, punch.DirectionIn),
	}, nil)

	require.Len(t, rec.Sessions, 2)
	assert.True(t, rec.Sessions[1].Open)
	assert.Equal(t, 240, rec.WorkedMinutes)
	assert.Equal(t, 240, rec.ShortfallMinutes)
	require.Len(t, diags, 1)
	assert.Equal(t, timesheet.DiagnosticOpenSession, diags[0].Kind)
	assert.Contains(t, rec.Note, "open session")
}

func TestLeadingOutIsDiscarded(t *testing.T) {
	sessions, diags := BuildSessions(empID, day(5), []punch.PunchEvent{
		at(5, 7, 0, punch.DirectionOut),
		at(5, 8, 0, punch.DirectionIn),
		at(5, 12, 0, punch.DirectionOut),
		at(5, 12, 5, punch.DirectionOut),
	})

	require.Len(t, sessions, 1)
	assert.Equal(t, 245, sessions[0].DurationMinutes)
	require.Len(t, diags, 2)
	assert.Equal(t, timesheet.DiagnosticPairingAnomaly, diags[0].Kind)
	assert.Equal(t, timesheet.DiagnosticPairingAnomaly, diags[1].Kind)
}

func TestMinimumBreakDeduction(t *testing.T) {
	rules := DefaultRules()
	rules.MinBreakMinutes = 60

	res := Reconcile(Input{
		EmployeeID: empID,
		Period:     singleDay(5),
		Punches: []punch.PunchEvent{
			at(5, 8, 0, punch.DirectionIn), at(5, 12, 0, punch.DirectionOut),
			at(5, 12, 30, punch.DirectionIn), at(5, 16, 30, punch.DirectionOut),
		},
	}, rules)

	rec := res.Days[0]
	assert.Equal(t, 450, rec.WorkedMinutes)
	assert.Equal(t, 30, rec.ShortfallMinutes)
	assert.Contains(t, rec.Note, "00:30 deducted for short break")
}

func TestHolidayIsExcludedFromExpectedDays(t *testing.T) {
	res := Reconcile(Input{
		EmployeeID: empID,
		Period:     timesheet.Period{Start: day(4), End: day(10)},
		Holidays: []holiday.Holiday{
			{ID: "h-1", Date: day(6), Description: "Aniversário da cidade", Active: true},
		},
	}, DefaultRules())

	require.Len(t, res.Days, 7)
	assert.Equal(t, timesheet.StatusHoliday, res.Days[2].Status)
	assert.Zero(t, res.Days[2].ShortfallMinutes)

	s := res.Summary
	assert.Equal(t, 7, s.TotalCalendarDays)
	assert.Equal(t, 2, s.WeekendDays)
	assert.Equal(t, 1, s.HolidayDays)
	assert.Equal(t, 4, s.WorkingDaysExpected)
	assert.Equal(t, 4, s.IrregularDays)
	assert.Equal(t, 4*480, s.TotalShortfallMinutes)
}

func TestEmployeeTargetOverride(t *testing.T) {
	six := 360
	res := Reconcile(Input{
		EmployeeID: empID,
		Period:     singleDay(5),
		Punches: []punch.PunchEvent{
			at(5, 8, 0, punch.DirectionIn), at(5, 14, 0, punch.DirectionOut),
		},
		TargetMinutes: &six,
	}, DefaultRules())

	assert.Equal(t, timesheet.StatusRegular, res.Days[0].Status)
	assert.Zero(t, res.Days[0].ShortfallMinutes)
}

func TestPeriodSummary(t *testing.T) {
	res := Reconcile(Input{
		EmployeeID: empID,
		Period:     timesheet.Period{Start: day(4), End: day(10)},
		Punches: []punch.PunchEvent{
			at(4, 8, 0, punch.DirectionIn), at(4, 17, 0, punch.DirectionOut), // 540
			at(5, 8, 0, punch.DirectionIn), at(5, 16, 0, punch.DirectionOut), // 480
			at(6, 8, 0, punch.DirectionIn), at(6, 15, 0, punch.DirectionOut), // 420
			at(9, 8, 0, punch.DirectionIn), at(9, 12, 0, punch.DirectionOut), // weekend
		},
		Justifications: []justification.Justification{approved(7, "j-7")},
	}, DefaultRules())

	s := res.Summary
	assert.Equal(t, 7, s.TotalCalendarDays)
	assert.Equal(t, 5, s.WorkingDaysExpected)
	assert.Equal(t, 3, s.DaysWorked)
	assert.Equal(t, 1440, s.TotalWorkedMinutes)
	assert.Equal(t, 60, s.TotalOvertimeMinutes)
	assert.Equal(t, 60+480+480, s.TotalShortfallMinutes)
	assert.Equal(t, 2, s.RegularDays)
	assert.Equal(t, 2, s.IrregularDays)
	assert.Equal(t, 1, s.JustifiedDays)
	assert.Equal(t, 2, s.WeekendDays)
}

func TestPunchesOutsidePeriodAndOtherEmployeesAreReported(t *testing.T) {
	other := at(5, 8, 0, punch.DirectionIn)
	other.EmployeeID = "emp-2"

	res := Reconcile(Input{
		EmployeeID: empID,
		Period:     singleDay(5),
		Punches: []punch.PunchEvent{
			other,
			at(6, 8, 0, punch.DirectionIn),
			{EmployeeID: empID, Timestamp: day(5).Add(9 * time.Hour), Direction: "X"},
		},
	}, DefaultRules())

	kinds := make([]timesheet.DiagnosticKind, 0, len(res.Diagnostics))
	for _, d := range res.Diagnostics {
		kinds = append(kinds, d.Kind)
	}
	assert.ElementsMatch(t, []timesheet.DiagnosticKind{
		timesheet.DiagnosticUnknownEmployee,
		timesheet.DiagnosticOutOfPeriod,
		timesheet.DiagnosticMalformedRecord,
	}, kinds)
	assert.Empty(t, res.Days[0].Sessions)
}

func TestDuplicatePunchesAreCollapsed(t *testing.T) {
	rec, diags := reconcileOne(t, 5, []punch.PunchEvent{
		at(5, 8, 0, punch.DirectionIn),
		at(5, 8, 0, punch.DirectionIn),
		at(5, 16, 0, punch.DirectionOut),
	}, nil)

	assert.Equal(t, timesheet.StatusRegular, rec.Status)
	require.Len(t, diags, 1)
	assert.Equal(t, timesheet.DiagnosticDuplicatePunch, diags[0].Kind)
}

func TestMalformedJustificationIsSkipped(t *testing.T) {
	bad := approved(7, "j-bad")
	bad.Status = "MAYBE"
	zero := 0.0
	noHours := approved(7, "j-zero")
	noHours.HoursCovered = &zero

	rec, diags := reconcileOne(t, 7, nil, []justification.Justification{bad, noHours})

	assert.Equal(t, timesheet.StatusIrregular, rec.Status)
	require.Len(t, diags, 2)
	for _, d := range diags {
		assert.Equal(t, timesheet.DiagnosticMalformedJustification, d.Kind)
	}
}

func TestPunchesAreGroupedInRulesLocation(t *testing.T) {
	loc := time.FixedZone("BRT", -3*60*60)
	rules := DefaultRules()
	rules.Location = loc

	// 02:30 UTC on the 6th is 23:30 on the 5th in BRT.
	res := Reconcile(Input{
		EmployeeID: empID,
		Period:     timesheet.Period{Start: day(5), End: day(5)},
		Punches: []punch.PunchEvent{
			{EmployeeID: empID, Timestamp: time.Date(2024, 3, 5, 18, 0, 0, 0, time.UTC), Direction: punch.DirectionIn},
			{EmployeeID: empID, Timestamp: time.Date(2024, 3, 6, 2, 30, 0, 0, time.UTC), Direction: punch.DirectionOut},
		},
	}, rules)

	require.Len(t, res.Days, 1)
	assert.Equal(t, "2024-03-05", timesheet.DateKey(res.Days[0].Date))
	assert.Equal(t, 510, res.Days[0].WorkedMinutes)
	assert.Empty(t, res.Diagnostics)
}

func TestReconcileDoesNotMutateInput(t *testing.T) {
	punches := []punch.PunchEvent{
		at(5, 12, 0, punch.DirectionOut),
		at(5, 8, 0, punch.DirectionIn),
	}
	before := append([]punch.PunchEvent(nil), punches...)

	Reconcile(Input{EmployeeID: empID, Period: singleDay(5), Punches: punches}, DefaultRules())

	assert.Equal(t, before, punches)
}

func TestReconcileRawReportsMalformedRows(t *testing.T) {
	rows := []punch.RawPunch{
		{Line: 1, EmployeeID: empID, Date: "05032024", Time: "0800", DirectionCode: "1"},
		{Line: 2, EmployeeID: empID, Date: "32032024", Time: "1200", DirectionCode: "2"},
		{Line: 3, EmployeeID: empID, Date: "05032024", Time: "1600", DirectionCode: "S"},
		{Line: 4, EmployeeID: empID, Date: "05032024", Time: "1700", DirectionCode: "9"},
	}

	res := ReconcileRaw(empID, singleDay(5), rows, nil, nil, DefaultRules())

	assert.Equal(t, 480, res.Days[0].WorkedMinutes)
	require.Len(t, res.Diagnostics, 2)
	assert.Equal(t, 2, res.Diagnostics[0].Line)
	assert.Contains(t, res.Diagnostics[0].Message, punch.ErrMalformedDate.Error())
	assert.Equal(t, 4, res.Diagnostics[1].Line)
	assert.Contains(t, res.Diagnostics[1].Message, punch.ErrUnknownDirection.Error())
}

func TestParseRow(t *testing.T) {
	loc := time.FixedZone("BRT", -3*60*60)
	event, err := ParseRow(punch.RawPunch{
		CompanyID: "01", EmployeeID: " 12345 ", LocationID: "007",
		Date: "15032024", Time: "0745", DirectionCode: "e", TerminalID: "T9",
	}, loc)
	require.NoError(t, err)
	assert.Equal(t, "12345", event.EmployeeID)
	assert.Equal(t, punch.DirectionIn, event.Direction)
	assert.Equal(t, time.Date(2024, 3, 15, 7, 45, 0, 0, loc), event.Timestamp)
	assert.Equal(t, "T9", event.TerminalID)

	cases := []struct {
		name string
		row  punch.RawPunch
		want error
	}{
		{"missing employee", punch.RawPunch{Date: "15032024", Time: "0745", DirectionCode: "1"}, punch.ErrMissingEmployee},
		{"short date", punch.RawPunch{EmployeeID: "1", Date: "1503024", Time: "0745", DirectionCode: "1"}, punch.ErrMalformedDate},
		{"bad month", punch.RawPunch{EmployeeID: "1", Date: "15132024", Time: "0745", DirectionCode: "1"}, punch.ErrMalformedDate},
		{"bad hour", punch.RawPunch{EmployeeID: "1", Date: "15032024", Time: "2460", DirectionCode: "1"}, punch.ErrMalformedTime},
		{"bad direction", punch.RawPunch{EmployeeID: "1", Date: "15032024", Time: "0745", DirectionCode: "3"}, punch.ErrUnknownDirection},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ParseRow(tc.row, loc)
			assert.ErrorIs(t, err, tc.want)
		})
	}
}

func TestFormatMinutes(t *testing.T) {
	assert.Equal(t, "00:00", timesheet.FormatMinutes(0))
	assert.Equal(t, "08:00", timesheet.FormatMinutes(480))
	assert.Equal(t, "03:55", timesheet.FormatMinutes(235))
	assert.Equal(t, "25:01", timesheet.FormatMinutes(1501))
}
