package user

type Role string

const (
	RoleAdmin    Role = "admin"    // Full access across secretarias
	RoleManager  Role = "gestor"   // Reviews justifications of their own secretaria
	RoleEmployee Role = "servidor" // Sees their own timesheet
)

// Principal is the authenticated caller, built from the claims of a token
// issued by the identity provider.
type Principal struct {
	UserID       string
	Email        string
	Name         string
	Role         Role
	EmployeeID   *string
	SecretariaID *string
}

// IsAdmin checks if principal has unrestricted access
func (p Principal) IsAdmin() bool {
	return p.Role == RoleAdmin
}

// IsManager checks if principal is gestor or admin
func (p Principal) IsManager() bool {
	return p.Role == RoleManager || p.Role == RoleAdmin
}

// CanAccessEmployee reports whether the principal may read data of the
// employee identified by employeeID working at secretariaID.
func (p Principal) CanAccessEmployee(employeeID string, secretariaID *string) bool {
	switch p.Role {
	case RoleAdmin:
		return true
	case RoleManager:
		if p.EmployeeID != nil && *p.EmployeeID == employeeID {
			return true
		}
		return p.SecretariaID != nil && secretariaID != nil && *p.SecretariaID == *secretariaID
	case RoleEmployee:
		return p.EmployeeID != nil && *p.EmployeeID == employeeID
	default:
		return false
	}
}

// CanReview reports whether the principal may approve or reject requests of
// employees working at secretariaID.
func (p Principal) CanReview(secretariaID *string) bool {
	switch p.Role {
	case RoleAdmin:
		return true
	case RoleManager:
		return p.SecretariaID != nil && secretariaID != nil && *p.SecretariaID == *secretariaID
	default:
		return false
	}
}

// DisplayName returns the name recorded as reviewer.
func (p Principal) DisplayName() string {
	if p.Name != "" {
		return p.Name
	}
	if p.Email != "" {
		return p.Email
	}
	return p.UserID
}
