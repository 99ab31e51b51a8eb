package punch

import (
	"strings"
	"time"
)

type Direction string

const (
	DirectionIn  Direction = "IN"  // Entrada
	DirectionOut Direction = "OUT" // Saída
)

func (d Direction) IsValid() bool {
	return d == DirectionIn || d == DirectionOut
}

// ParseDirection maps a terminal direction code to a Direction.
func ParseDirection(code string) (Direction, error) {
	switch strings.ToUpper(strings.TrimSpace(code)) {
	case "1", "E", "IN", "ENTRADA":
		return DirectionIn, nil
	case "2", "S", "OUT", "SAIDA", "SAÍDA":
		return DirectionOut, nil
	default:
		return "", ErrUnknownDirection
	}
}

// PunchEvent is a single clock event ("batida").
type PunchEvent struct {
	ID         string
	EmployeeID string
	Timestamp  time.Time
	Direction  Direction

	// Provenance, kept for audit only
	TerminalID string
	LocationID string
	CompanyID  string
	BatchID    *string

	CreatedAt time.Time
}

// RawPunch is one record of the terminal export before validation:
// company|employeeId|location|date(DDMMYYYY)|time(HHMM)|directionCode|sense|terminal
type RawPunch struct {
	Line          int
	CompanyID     string
	EmployeeID    string
	LocationID    string
	Date          string
	Time          string
	DirectionCode string
	Sense         string
	TerminalID    string
}

// ImportBatch records one uploaded terminal file.
type ImportBatch struct {
	ID         string
	Filename   string
	TotalLines int
	Imported   int
	Duplicates int
	Rejected   int
	ImportedBy *string
	CreatedAt  time.Time
}
