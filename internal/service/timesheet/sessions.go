package timesheet

import (
	"fmt"
	"time"

	"github.com/pontoagent/ponto-backend-go/internal/domain/punch"
	"github.com/pontoagent/ponto-backend-go/internal/domain/timesheet"
)

// BuildSessions pairs one day's time-ordered events into sessions.
//
// Two consecutive events with the same direction are a pairing anomaly: the
// earlier one is discarded. An OUT with no IN before it is discarded. A
// trailing IN becomes an open session worth zero minutes.
func BuildSessions(employeeID string, date time.Time, events []punch.PunchEvent) ([]timesheet.WorkSession, []timesheet.Diagnostic) {
	var diags []timesheet.Diagnostic
	anomaly := func(kind timesheet.DiagnosticKind, format string, args ...any) {
		diags = append(diags, timesheet.Diagnostic{
			Kind:       kind,
			EmployeeID: employeeID,
			Date:       date,
			Message:    fmt.Sprintf(format, args...),
		})
	}

	kept := make([]punch.PunchEvent, 0, len(events))
	for _, e := range events {
		if len(kept) == 0 {
			if e.Direction == punch.DirectionOut {
				anomaly(timesheet.DiagnosticPairingAnomaly, "OUT at %s without a preceding IN discarded", clock(e.Timestamp))
				continue
			}
			kept = append(kept, e)
			continue
		}

		last := kept[len(kept)-1]
		if last.Direction == e.Direction {
			anomaly(timesheet.DiagnosticPairingAnomaly, "consecutive %s at %s and %s, earlier discarded",
				e.Direction, clock(last.Timestamp), clock(e.Timestamp))
			kept[len(kept)-1] = e
			continue
		}
		kept = append(kept, e)
	}

	sessions := make([]timesheet.WorkSession, 0, (len(kept)+1)/2)
	for i := 0; i < len(kept); i += 2 {
		in := kept[i]
		if i+1 == len(kept) {
			sessions = append(sessions, timesheet.WorkSession{Start: in.Timestamp, Open: true})
			anomaly(timesheet.DiagnosticOpenSession, "IN at %s has no matching OUT", clock(in.Timestamp))
			break
		}

		out := kept[i+1]
		minutes := int(out.Timestamp.Sub(in.Timestamp) / time.Minute)
		if minutes < 0 {
			minutes = 0
		}
		sessions = append(sessions, timesheet.WorkSession{
			Start:           in.Timestamp,
			End:             out.Timestamp,
			DurationMinutes: minutes,
		})
	}

	return sessions, diags
}

func clock(t time.Time) string {
	return t.Format("15:04")
}
