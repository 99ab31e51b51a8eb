// Package punchfile reads the pipe-delimited export of the time clocks:
//
//	company|employeeId|location|DDMMYYYY|HHMM|directionCode|sense|terminal
//
// One record per line. Blank lines are skipped; short lines are reported
// with their line number and do not stop the scan.
package punchfile

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/pontoagent/ponto-backend-go/internal/domain/punch"
)

const (
	fieldCount = 8
	maxLineLen = 64 * 1024
)

// LineError is a record that could not be split into fields.
type LineError struct {
	Line int
	Err  error
}

func (e LineError) Error() string {
	return fmt.Sprintf("line %d: %v", e.Line, e.Err)
}

func (e LineError) Unwrap() error {
	return e.Err
}

// Parse splits r into raw records. The returned error is only set when r
// itself fails.
func Parse(r io.Reader) ([]punch.RawPunch, []LineError, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 4096), maxLineLen)

	var rows []punch.RawPunch
	var lineErrs []LineError

	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if line == 1 {
			text = strings.TrimPrefix(text, "\ufeff")
		}
		if text == "" {
			continue
		}

		fields := strings.Split(text, "|")
		if len(fields) < fieldCount {
			lineErrs = append(lineErrs, LineError{
				Line: line,
				Err:  fmt.Errorf("%w: got %d", punch.ErrTooFewFields, len(fields)),
			})
			continue
		}
		for i := range fields {
			fields[i] = strings.TrimSpace(fields[i])
		}

		rows = append(rows, punch.RawPunch{
			Line:          line,
			CompanyID:     fields[0],
			EmployeeID:    fields[1],
			LocationID:    fields[2],
			Date:          fields[3],
			Time:          fields[4],
			DirectionCode: fields[5],
			Sense:         fields[6],
			TerminalID:    fields[7],
		})
	}
	if err := scanner.Err(); err != nil {
		return rows, lineErrs, fmt.Errorf("failed to read punch file: %w", err)
	}

	return rows, lineErrs, nil
}
