package timesheet

import "errors"

var (
	ErrInvalidPeriod   = errors.New("end_date must not be before start_date")
	ErrPeriodTooLong   = errors.New("period exceeds the maximum number of days")
	ErrForbiddenMirror = errors.New("not allowed to view this timesheet")
)
