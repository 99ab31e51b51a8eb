package timesheet

import "github.com/pontoagent/ponto-backend-go/internal/domain/timesheet"

// Aggregate folds day records into a period summary.
func Aggregate(days []timesheet.DayRecord) timesheet.PeriodSummary {
	s := timesheet.PeriodSummary{TotalCalendarDays: len(days)}

	for _, d := range days {
		s.TotalWorkedMinutes += d.WorkedMinutes
		s.TotalOvertimeMinutes += d.OvertimeMinutes
		s.TotalShortfallMinutes += d.ShortfallMinutes
		if d.WorkedMinutes > 0 {
			s.DaysWorked++
		}

		switch d.Status {
		case timesheet.StatusWeekend:
			s.WeekendDays++
		case timesheet.StatusHoliday:
			s.HolidayDays++
		case timesheet.StatusRegular:
			s.RegularDays++
		case timesheet.StatusIrregular:
			s.IrregularDays++
		case timesheet.StatusJustified:
			s.JustifiedDays++
		}
	}

	s.WorkingDaysExpected = s.TotalCalendarDays - s.WeekendDays - s.HolidayDays
	return s
}
