package user

import "errors"

var (
	ErrInvalidToken            = errors.New("invalid or expired token")
	ErrInvalidRole             = errors.New("invalid role claim")
	ErrAdminPrivilegeRequired  = errors.New("admin privilege required")
	ErrManagerAccessRequired   = errors.New("manager access required")
	ErrEmployeeClaimRequired   = errors.New("employee_id claim is required")
	ErrInsufficientPermissions = errors.New("insufficient permissions")
)
