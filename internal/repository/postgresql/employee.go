package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/pontoagent/ponto-backend-go/internal/domain/employee"
	"github.com/pontoagent/ponto-backend-go/internal/pkg/database"
)

type employeeRepositoryImpl struct {
	db *database.DB
}

func NewEmployeeRepository(db *database.DB) employee.EmployeeRepository {
	return &employeeRepositoryImpl{db: db}
}

const employeeColumns = `
	e.id, e.registration, e.name, e.cpf, e.email, e.secretaria_id, e.active,
	e.daily_target_minutes, e.created_at, e.updated_at, s.name
`

func scanEmployee(row pgx.Row) (employee.Employee, error) {
	var emp employee.Employee
	err := row.Scan(
		&emp.ID, &emp.Registration, &emp.Name, &emp.CPF, &emp.Email, &emp.SecretariaID, &emp.Active,
		&emp.DailyTargetMinutes, &emp.CreatedAt, &emp.UpdatedAt, &emp.SecretariaName,
	)
	return emp, err
}

// GetByID implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) GetByID(ctx context.Context, id string) (employee.Employee, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + employeeColumns + `
		FROM employees e
		LEFT JOIN secretarias s ON s.id = e.secretaria_id
		WHERE e.id = $1
	`

	emp, err := scanEmployee(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return employee.Employee{}, employee.ErrEmployeeNotFound
		}
		return employee.Employee{}, fmt.Errorf("failed to get employee with id %s: %w", id, err)
	}
	return emp, nil
}

// GetByRegistration implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) GetByRegistration(ctx context.Context, registration string) (employee.Employee, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + employeeColumns + `
		FROM employees e
		LEFT JOIN secretarias s ON s.id = e.secretaria_id
		WHERE e.registration = $1
	`

	emp, err := scanEmployee(q.QueryRow(ctx, query, registration))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return employee.Employee{}, employee.ErrEmployeeNotFound
		}
		return employee.Employee{}, fmt.Errorf("failed to get employee with registration %s: %w", registration, err)
	}
	return emp, nil
}

// ListByRegistrations implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) ListByRegistrations(ctx context.Context, registrations []string) (map[string]employee.Employee, error) {
	result := make(map[string]employee.Employee, len(registrations))
	if len(registrations) == 0 {
		return result, nil
	}

	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + employeeColumns + `
		FROM employees e
		LEFT JOIN secretarias s ON s.id = e.secretaria_id
		WHERE e.registration = ANY($1)
	`

	rows, err := q.Query(ctx, query, registrations)
	if err != nil {
		return nil, fmt.Errorf("failed to list employees by registration: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		emp, err := scanEmployee(rows)
		if err != nil {
			return nil, err
		}
		result[emp.Registration] = emp
	}

	return result, rows.Err()
}

// ListActive implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) ListActive(ctx context.Context, secretariaID *string) ([]employee.Employee, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + employeeColumns + `
		FROM employees e
		LEFT JOIN secretarias s ON s.id = e.secretaria_id
		WHERE e.active = TRUE AND ($1::uuid IS NULL OR e.secretaria_id = $1)
		ORDER BY e.name
	`

	rows, err := q.Query(ctx, query, secretariaID)
	if err != nil {
		return nil, fmt.Errorf("failed to list active employees: %w", err)
	}
	defer rows.Close()

	var employees []employee.Employee
	for rows.Next() {
		emp, err := scanEmployee(rows)
		if err != nil {
			return nil, err
		}
		employees = append(employees, emp)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return employees, nil
}

// CountActive implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) CountActive(ctx context.Context) (int64, error) {
	q := GetQuerier(ctx, r.db)

	var total int64
	if err := q.QueryRow(ctx, `SELECT COUNT(*) FROM employees WHERE active = TRUE`).Scan(&total); err != nil {
		return 0, fmt.Errorf("failed to count active employees: %w", err)
	}
	return total, nil
}
