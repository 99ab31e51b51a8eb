package postgresql

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/pontoagent/ponto-backend-go/internal/domain/timesheet"
	"github.com/pontoagent/ponto-backend-go/internal/pkg/database"
)

type dayRecordRepositoryImpl struct {
	db *database.DB
}

func NewDayRecordRepository(db *database.DB) timesheet.DayRecordRepository {
	return &dayRecordRepositoryImpl{db: db}
}

type storedSession struct {
	Start           time.Time `json:"start"`
	End             time.Time `json:"end"`
	DurationMinutes int       `json:"duration_minutes"`
	Open            bool      `json:"open"`
}

// Upsert implements timesheet.DayRecordRepository.
func (r *dayRecordRepositoryImpl) Upsert(ctx context.Context, records []timesheet.DayRecord) error {
	if len(records) == 0 {
		return nil
	}

	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO day_records (
			employee_id, date, status, worked_minutes, overtime_minutes, shortfall_minutes,
			sessions, note, justification_id
		) VALUES ($1, $2, $3, $4, $5, $6, $7::jsonb, $8, $9)
		ON CONFLICT (employee_id, date) DO UPDATE SET
			status = EXCLUDED.status,
			worked_minutes = EXCLUDED.worked_minutes,
			overtime_minutes = EXCLUDED.overtime_minutes,
			shortfall_minutes = EXCLUDED.shortfall_minutes,
			sessions = EXCLUDED.sessions,
			note = EXCLUDED.note,
			justification_id = EXCLUDED.justification_id,
			updated_at = NOW()
	`

	batch := &pgx.Batch{}
	for _, rec := range records {
		sessions := make([]storedSession, 0, len(rec.Sessions))
		for _, s := range rec.Sessions {
			sessions = append(sessions, storedSession(s))
		}
		payload, err := json.Marshal(sessions)
		if err != nil {
			return fmt.Errorf("failed to encode sessions of %s on %s: %w", rec.EmployeeID, timesheet.DateKey(rec.Date), err)
		}

		batch.Queue(query,
			rec.EmployeeID, rec.Date, string(rec.Status), rec.WorkedMinutes, rec.OvertimeMinutes, rec.ShortfallMinutes,
			string(payload), rec.Note, rec.JustificationID,
		)
	}

	results := q.SendBatch(ctx, batch)
	defer results.Close()

	for _, rec := range records {
		if _, err := results.Exec(); err != nil {
			return fmt.Errorf("failed to store day record of %s on %s: %w", rec.EmployeeID, timesheet.DateKey(rec.Date), err)
		}
	}
	return nil
}

// Exists implements timesheet.DayRecordRepository.
func (r *dayRecordRepositoryImpl) Exists(ctx context.Context, employeeID string, date time.Time) (bool, error) {
	q := GetQuerier(ctx, r.db)

	var exists bool
	err := q.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM day_records WHERE employee_id = $1 AND date = $2)`,
		employeeID, date,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check day record: %w", err)
	}
	return exists, nil
}

// CountByStatus implements timesheet.DayRecordRepository.
func (r *dayRecordRepositoryImpl) CountByStatus(ctx context.Context, status timesheet.DayStatus, from, to time.Time) (int64, error) {
	q := GetQuerier(ctx, r.db)

	var total int64
	err := q.QueryRow(ctx,
		`SELECT COUNT(*) FROM day_records WHERE status = $1 AND date BETWEEN $2 AND $3`,
		string(status), from, to,
	).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("failed to count day records: %w", err)
	}
	return total, nil
}
