package timesheet

import "time"

// DateLayout is the calendar-date layout used for keys and API fields.
const DateLayout = "2006-01-02"

type DayStatus string

const (
	StatusWeekend   DayStatus = "WEEKEND"
	StatusHoliday   DayStatus = "HOLIDAY"
	StatusRegular   DayStatus = "REGULAR"
	StatusIrregular DayStatus = "IRREGULAR"
	StatusJustified DayStatus = "JUSTIFIED"
)

// Period is an inclusive range of calendar dates.
type Period struct {
	Start time.Time
	End   time.Time
}

// NewPeriod keeps the calendar dates of start and end and anchors them at
// midnight in loc.
func NewPeriod(start, end time.Time, loc *time.Location) Period {
	return Period{Start: CalendarDate(start, loc), End: CalendarDate(end, loc)}
}

// Days enumerates every date of the period in order.
func (p Period) Days() []time.Time {
	if p.End.Before(p.Start) {
		return nil
	}
	days := make([]time.Time, 0, p.Len())
	for d := p.Start; !d.After(p.End); d = d.AddDate(0, 0, 1) {
		days = append(days, d)
	}
	return days
}

// Len returns the number of calendar days in the period.
func (p Period) Len() int {
	if p.End.Before(p.Start) {
		return 0
	}
	y1, m1, d1 := p.Start.Date()
	y2, m2, d2 := p.End.Date()
	start := time.Date(y1, m1, d1, 0, 0, 0, 0, time.UTC)
	end := time.Date(y2, m2, d2, 0, 0, 0, 0, time.UTC)
	return int(end.Sub(start).Hours()/24) + 1
}

// Contains reports whether the calendar date of t falls inside the period.
func (p Period) Contains(t time.Time) bool {
	key := DateKey(t)
	return key >= DateKey(p.Start) && key <= DateKey(p.End)
}

// DateOf returns midnight of t's calendar date in loc.
func DateOf(t time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	y, m, d := t.In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc)
}

// CalendarDate reads t's calendar date in t's own location and returns it at
// midnight in loc. Use it for values that are dates, not instants.
func CalendarDate(t time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc)
}

// DateKey formats t's calendar date (in its own location) as YYYY-MM-DD.
func DateKey(t time.Time) string {
	return t.Format(DateLayout)
}

// IsWeekend reports whether t falls on Saturday or Sunday.
func IsWeekend(t time.Time) bool {
	wd := t.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}

// WorkSession is an IN/OUT pair within one day. Open sessions have no OUT
// and contribute zero minutes.
type WorkSession struct {
	Start           time.Time
	End             time.Time
	DurationMinutes int
	Open            bool
}

// DayRecord is the reconciled attendance of one employee on one date.
type DayRecord struct {
	EmployeeID       string
	Date             time.Time
	Weekday          time.Weekday
	Sessions         []WorkSession
	WorkedMinutes    int
	OvertimeMinutes  int
	ShortfallMinutes int
	Status           DayStatus
	Note             string
	JustificationID  *string
}

// PeriodSummary aggregates the DayRecords of one employee over a period.
type PeriodSummary struct {
	TotalCalendarDays     int
	WorkingDaysExpected   int
	DaysWorked            int
	TotalWorkedMinutes    int
	TotalOvertimeMinutes  int
	TotalShortfallMinutes int
	JustifiedDays         int
	RegularDays           int
	IrregularDays         int
	WeekendDays           int
	HolidayDays           int
}

type DiagnosticKind string

const (
	DiagnosticMalformedRecord        DiagnosticKind = "malformed_record"
	DiagnosticPairingAnomaly         DiagnosticKind = "pairing_anomaly"
	DiagnosticOpenSession            DiagnosticKind = "open_session"
	DiagnosticOutOfPeriod            DiagnosticKind = "out_of_period"
	DiagnosticUnknownEmployee        DiagnosticKind = "unknown_employee"
	DiagnosticDuplicatePunch         DiagnosticKind = "duplicate_punch"
	DiagnosticMalformedJustification DiagnosticKind = "malformed_justification"
)

// Diagnostic is a data-quality finding. Diagnostics never abort a run.
type Diagnostic struct {
	Kind       DiagnosticKind
	EmployeeID string
	Date       time.Time // zero when the record had no parseable date
	Line       int       // source line for imported records, 0 otherwise
	Message    string
}
