package employee

import "time"

// Employee is a public servant ("servidor") whose punches are reconciled.
type Employee struct {
	ID           string
	Registration string // matrícula, as exported by the time clocks
	Name         string
	CPF          string
	Email        *string
	SecretariaID *string
	Active       bool

	// DailyTargetMinutes overrides the configured daily target when set.
	DailyTargetMinutes *int

	CreatedAt time.Time
	UpdatedAt time.Time

	// DTO / Join
	SecretariaName *string
}

// TargetMinutes returns the employee's expected working minutes per day.
func (e Employee) TargetMinutes(fallback int) int {
	if e.DailyTargetMinutes != nil && *e.DailyTargetMinutes >= 0 {
		return *e.DailyTargetMinutes
	}
	return fallback
}
