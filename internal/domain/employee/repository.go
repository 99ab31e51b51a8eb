package employee

import "context"

type EmployeeRepository interface {
	// GetByID retrieves an employee with its secretaria name
	GetByID(ctx context.Context, id string) (Employee, error)

	// GetByRegistration retrieves an employee by matrícula
	GetByRegistration(ctx context.Context, registration string) (Employee, error)

	// ListByRegistrations resolves many matrículas at once, keyed by matrícula.
	// Unknown registrations are absent from the map.
	ListByRegistrations(ctx context.Context, registrations []string) (map[string]Employee, error)

	// ListActive lists active employees, optionally limited to one secretaria
	ListActive(ctx context.Context, secretariaID *string) ([]Employee, error)

	// CountActive counts active employees
	CountActive(ctx context.Context) (int64, error)
}
