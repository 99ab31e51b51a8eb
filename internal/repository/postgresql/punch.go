package postgresql

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/pontoagent/ponto-backend-go/internal/domain/punch"
	"github.com/pontoagent/ponto-backend-go/internal/pkg/database"
)

type punchRepositoryImpl struct {
	db *database.DB
}

func NewPunchRepository(db *database.DB) punch.PunchRepository {
	return &punchRepositoryImpl{db: db}
}

// CreateBatch implements punch.PunchRepository.
func (r *punchRepositoryImpl) CreateBatch(ctx context.Context, batch punch.ImportBatch) (punch.ImportBatch, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO import_batches (id, filename, total_lines, imported, duplicates, rejected, imported_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at
	`

	err := q.QueryRow(ctx, query,
		batch.ID, batch.Filename, batch.TotalLines, batch.Imported, batch.Duplicates, batch.Rejected, batch.ImportedBy,
	).Scan(&batch.CreatedAt)
	if err != nil {
		return punch.ImportBatch{}, fmt.Errorf("failed to create import batch: %w", err)
	}
	return batch, nil
}

// UpdateBatchCounters implements punch.PunchRepository.
func (r *punchRepositoryImpl) UpdateBatchCounters(ctx context.Context, batch punch.ImportBatch) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE import_batches
		SET imported = $1, duplicates = $2, rejected = $3
		WHERE id = $4
	`

	tag, err := q.Exec(ctx, query, batch.Imported, batch.Duplicates, batch.Rejected, batch.ID)
	if err != nil {
		return fmt.Errorf("failed to update import batch %s: %w", batch.ID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("import batch %s not found", batch.ID)
	}
	return nil
}

// BulkCreate implements punch.PunchRepository. Events are queued in a single
// pgx batch; conflicts on (employee_id, punched_at, direction) are skipped.
func (r *punchRepositoryImpl) BulkCreate(ctx context.Context, events []punch.PunchEvent) (int, error) {
	if len(events) == 0 {
		return 0, nil
	}

	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO punches (employee_id, punched_at, direction, terminal_id, location_id, company_id, batch_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (employee_id, punched_at, direction) DO NOTHING
	`

	batch := &pgx.Batch{}
	for _, e := range events {
		batch.Queue(query, e.EmployeeID, e.Timestamp, string(e.Direction), e.TerminalID, e.LocationID, e.CompanyID, e.BatchID)
	}

	results := q.SendBatch(ctx, batch)
	defer results.Close()

	inserted := 0
	for i := range events {
		tag, err := results.Exec()
		if err != nil {
			return inserted, fmt.Errorf("failed to insert punch %d: %w", i, err)
		}
		inserted += int(tag.RowsAffected())
	}

	return inserted, nil
}

const punchColumns = `id, employee_id, punched_at, direction, terminal_id, location_id, company_id, batch_id, created_at`

func scanPunch(row pgx.Row) (punch.PunchEvent, error) {
	var e punch.PunchEvent
	var direction string
	err := row.Scan(&e.ID, &e.EmployeeID, &e.Timestamp, &direction, &e.TerminalID, &e.LocationID, &e.CompanyID, &e.BatchID, &e.CreatedAt)
	e.Direction = punch.Direction(direction)
	return e, err
}

// ListByEmployeeAndRange implements punch.PunchRepository.
func (r *punchRepositoryImpl) ListByEmployeeAndRange(ctx context.Context, employeeID string, from, to time.Time) ([]punch.PunchEvent, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + punchColumns + `
		FROM punches
		WHERE employee_id = $1 AND punched_at >= $2 AND punched_at < $3
		ORDER BY punched_at, id
	`

	rows, err := q.Query(ctx, query, employeeID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to list punches of employee %s: %w", employeeID, err)
	}
	defer rows.Close()

	var events []punch.PunchEvent
	for rows.Next() {
		e, err := scanPunch(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, e)
	}

	return events, rows.Err()
}

// List implements punch.PunchRepository.
func (r *punchRepositoryImpl) List(ctx context.Context, filter punch.PunchFilter) ([]punch.PunchEvent, int64, error) {
	q := GetQuerier(ctx, r.db)

	whereClauses := []string{"1=1"}
	args := []interface{}{}
	paramCount := 0

	if filter.EmployeeID != nil && *filter.EmployeeID != "" {
		paramCount++
		whereClauses = append(whereClauses, fmt.Sprintf("employee_id = $%d", paramCount))
		args = append(args, *filter.EmployeeID)
	}

	if filter.Direction != nil && *filter.Direction != "" {
		paramCount++
		whereClauses = append(whereClauses, fmt.Sprintf("direction = $%d", paramCount))
		args = append(args, *filter.Direction)
	}

	if filter.BatchID != nil && *filter.BatchID != "" {
		paramCount++
		whereClauses = append(whereClauses, fmt.Sprintf("batch_id = $%d", paramCount))
		args = append(args, *filter.BatchID)
	}

	if filter.StartDate != nil && *filter.StartDate != "" {
		paramCount++
		whereClauses = append(whereClauses, fmt.Sprintf("punched_at >= $%d::date", paramCount))
		args = append(args, *filter.StartDate)
	}

	if filter.EndDate != nil && *filter.EndDate != "" {
		paramCount++
		whereClauses = append(whereClauses, fmt.Sprintf("punched_at < ($%d::date + 1)", paramCount))
		args = append(args, *filter.EndDate)
	}

	whereClause := strings.Join(whereClauses, " AND ")

	var total int64
	countQuery := fmt.Sprintf(`SELECT COUNT(*) FROM punches WHERE %s`, whereClause)
	if err := q.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count punches: %w", err)
	}

	offset := (filter.Page - 1) * filter.Limit
	query := fmt.Sprintf(`
		SELECT %s
		FROM punches
		WHERE %s
		ORDER BY punched_at DESC, id
		LIMIT $%d OFFSET $%d
	`, punchColumns, whereClause, paramCount+1, paramCount+2)
	args = append(args, filter.Limit, offset)

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list punches: %w", err)
	}
	defer rows.Close()

	var events []punch.PunchEvent
	for rows.Next() {
		e, err := scanPunch(rows)
		if err != nil {
			return nil, 0, err
		}
		events = append(events, e)
	}

	if err = rows.Err(); err != nil {
		return nil, 0, err
	}

	return events, total, nil
}

// CountInRange implements punch.PunchRepository.
func (r *punchRepositoryImpl) CountInRange(ctx context.Context, from, to time.Time) (int64, error) {
	q := GetQuerier(ctx, r.db)

	var total int64
	err := q.QueryRow(ctx, `SELECT COUNT(*) FROM punches WHERE punched_at >= $1 AND punched_at < $2`, from, to).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("failed to count punches: %w", err)
	}
	return total, nil
}
