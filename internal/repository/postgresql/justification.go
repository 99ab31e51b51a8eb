package postgresql

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/pontoagent/ponto-backend-go/internal/domain/justification"
	"github.com/pontoagent/ponto-backend-go/internal/pkg/database"
)

type justificationRepositoryImpl struct {
	db *database.DB
}

func NewJustificationRepository(db *database.DB) justification.JustificationRepository {
	return &justificationRepositoryImpl{db: db}
}

const justificationColumns = `
	j.id, j.employee_id, j.covered_date, j.type, j.description, j.status, j.hours_covered,
	j.attachment_url, j.channel, j.reviewed_by, j.reviewed_at, j.review_note, j.created_at, j.updated_at,
	e.name, e.secretaria_id
`

func scanJustification(row pgx.Row) (justification.Justification, error) {
	var j justification.Justification
	var jType, status, channel string
	err := row.Scan(
		&j.ID, &j.EmployeeID, &j.CoveredDate, &jType, &j.Description, &status, &j.HoursCovered,
		&j.AttachmentURL, &channel, &j.ReviewedBy, &j.ReviewedAt, &j.ReviewNote, &j.CreatedAt, &j.UpdatedAt,
		&j.EmployeeName, &j.EmployeeSecretariaID,
	)
	j.Type = justification.Type(jType)
	j.Status = justification.Status(status)
	j.Channel = justification.Channel(channel)
	return j, err
}

func collectJustifications(rows pgx.Rows) ([]justification.Justification, error) {
	defer rows.Close()

	var items []justification.Justification
	for rows.Next() {
		j, err := scanJustification(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, j)
	}
	return items, rows.Err()
}

// Create implements justification.JustificationRepository.
func (r *justificationRepositoryImpl) Create(ctx context.Context, j justification.Justification) (justification.Justification, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO justifications (
			id, employee_id, covered_date, type, description, status, hours_covered,
			attachment_url, channel, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		j.ID, j.EmployeeID, j.CoveredDate, string(j.Type), j.Description, string(j.Status), j.HoursCovered,
		j.AttachmentURL, string(j.Channel), j.CreatedAt, j.UpdatedAt,
	).Scan(&j.CreatedAt, &j.UpdatedAt)
	if err != nil {
		return justification.Justification{}, fmt.Errorf("failed to insert justification: %w", err)
	}
	return j, nil
}

// GetByID implements justification.JustificationRepository.
func (r *justificationRepositoryImpl) GetByID(ctx context.Context, id string) (justification.Justification, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + justificationColumns + `
		FROM justifications j
		INNER JOIN employees e ON e.id = j.employee_id
		WHERE j.id = $1
	`

	j, err := scanJustification(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return justification.Justification{}, justification.ErrJustificationNotFound
		}
		return justification.Justification{}, fmt.Errorf("failed to get justification with id %s: %w", id, err)
	}
	return j, nil
}

// List implements justification.JustificationRepository.
func (r *justificationRepositoryImpl) List(ctx context.Context, filter justification.JustificationFilter) ([]justification.Justification, int64, error) {
	q := GetQuerier(ctx, r.db)

	whereClauses := []string{"1=1"}
	args := []interface{}{}
	paramCount := 0

	addClause := func(format string, value interface{}) {
		paramCount++
		whereClauses = append(whereClauses, fmt.Sprintf(format, paramCount))
		args = append(args, value)
	}

	if filter.EmployeeID != nil && *filter.EmployeeID != "" {
		addClause("j.employee_id = $%d", *filter.EmployeeID)
	}
	if filter.SecretariaID != nil && *filter.SecretariaID != "" {
		addClause("e.secretaria_id = $%d", *filter.SecretariaID)
	}
	if filter.Status != nil && *filter.Status != "" {
		addClause("j.status = $%d", *filter.Status)
	}
	if filter.Type != nil && *filter.Type != "" {
		addClause("j.type = $%d", *filter.Type)
	}
	if filter.Channel != nil && *filter.Channel != "" {
		addClause("j.channel = $%d", *filter.Channel)
	}
	if filter.StartDate != nil && *filter.StartDate != "" {
		addClause("j.covered_date >= $%d::date", *filter.StartDate)
	}
	if filter.EndDate != nil && *filter.EndDate != "" {
		addClause("j.covered_date <= $%d::date", *filter.EndDate)
	}

	whereClause := strings.Join(whereClauses, " AND ")

	countQuery := fmt.Sprintf(`
		SELECT COUNT(*)
		FROM justifications j
		INNER JOIN employees e ON e.id = j.employee_id
		WHERE %s
	`, whereClause)

	var total int64
	if err := q.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count justifications: %w", err)
	}

	offset := (filter.Page - 1) * filter.Limit
	query := fmt.Sprintf(`
		SELECT %s
		FROM justifications j
		INNER JOIN employees e ON e.id = j.employee_id
		WHERE %s
		ORDER BY j.created_at DESC, j.id
		LIMIT $%d OFFSET $%d
	`, justificationColumns, whereClause, paramCount+1, paramCount+2)
	args = append(args, filter.Limit, offset)

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list justifications: %w", err)
	}

	items, err := collectJustifications(rows)
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

// ListByEmployeeAndRange implements justification.JustificationRepository.
func (r *justificationRepositoryImpl) ListByEmployeeAndRange(ctx context.Context, employeeID string, from, to time.Time) ([]justification.Justification, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + justificationColumns + `
		FROM justifications j
		INNER JOIN employees e ON e.id = j.employee_id
		WHERE j.employee_id = $1 AND j.covered_date BETWEEN $2 AND $3
		ORDER BY j.covered_date, j.created_at, j.id
	`

	rows, err := q.Query(ctx, query, employeeID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to list justifications of employee %s: %w", employeeID, err)
	}
	return collectJustifications(rows)
}

// ListByRange implements justification.JustificationRepository.
func (r *justificationRepositoryImpl) ListByRange(ctx context.Context, from, to time.Time) ([]justification.Justification, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + justificationColumns + `
		FROM justifications j
		INNER JOIN employees e ON e.id = j.employee_id
		WHERE j.covered_date BETWEEN $1 AND $2
		ORDER BY j.employee_id, j.covered_date, j.created_at, j.id
	`

	rows, err := q.Query(ctx, query, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to list justifications: %w", err)
	}
	return collectJustifications(rows)
}

// UpdateReview implements justification.JustificationRepository. The status
// guard in the WHERE clause makes concurrent reviews lose cleanly.
func (r *justificationRepositoryImpl) UpdateReview(ctx context.Context, id string, status justification.Status, reviewedBy string, note *string, reviewedAt time.Time) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE justifications
		SET status = $1, reviewed_by = $2, review_note = $3, reviewed_at = $4, updated_at = NOW()
		WHERE id = $5 AND status = $6
	`

	tag, err := q.Exec(ctx, query, string(status), reviewedBy, note, reviewedAt, id, string(justification.StatusPending))
	if err != nil {
		return fmt.Errorf("failed to review justification %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		if _, err := r.GetByID(ctx, id); err != nil {
			return err
		}
		return justification.ErrJustificationAlreadyReviewed
	}
	return nil
}

// Delete implements justification.JustificationRepository.
func (r *justificationRepositoryImpl) Delete(ctx context.Context, id string) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `DELETE FROM justifications WHERE id = $1 AND status = $2`, id, string(justification.StatusPending))
	if err != nil {
		return fmt.Errorf("failed to delete justification %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		if _, err := r.GetByID(ctx, id); err != nil {
			return err
		}
		return justification.ErrJustificationNotPending
	}
	return nil
}

// CountPending implements justification.JustificationRepository.
func (r *justificationRepositoryImpl) CountPending(ctx context.Context) (int64, error) {
	q := GetQuerier(ctx, r.db)

	var total int64
	err := q.QueryRow(ctx, `SELECT COUNT(*) FROM justifications WHERE status = $1`, string(justification.StatusPending)).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("failed to count pending justifications: %w", err)
	}
	return total, nil
}
