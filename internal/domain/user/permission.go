package user

type Permission string

const (
	// Timesheet
	PermissionTimesheetViewOwn  Permission = "timesheet.view_own"
	PermissionTimesheetViewAll  Permission = "timesheet.view_all"
	PermissionTimesheetSnapshot Permission = "timesheet.snapshot"

	// Punches
	PermissionPunchImport  Permission = "punch.import"
	PermissionPunchViewAll Permission = "punch.view_all"

	// Justifications
	PermissionJustificationCreate  Permission = "justification.create"
	PermissionJustificationViewAll Permission = "justification.view_all"
	PermissionJustificationReview  Permission = "justification.review"

	// Calendar
	PermissionHolidayManage Permission = "holiday.manage"

	// Dashboard
	PermissionDashboardView Permission = "dashboard.view"
)

// RolePermissions maps roles to their permissions
var RolePermissions = map[Role][]Permission{
	RoleAdmin: {
		PermissionTimesheetViewOwn,
		PermissionTimesheetViewAll,
		PermissionTimesheetSnapshot,
		PermissionPunchImport,
		PermissionPunchViewAll,
		PermissionJustificationCreate,
		PermissionJustificationViewAll,
		PermissionJustificationReview,
		PermissionHolidayManage,
		PermissionDashboardView,
	},
	RoleManager: {
		PermissionTimesheetViewOwn,
		PermissionTimesheetViewAll,
		PermissionPunchImport,
		PermissionPunchViewAll,
		PermissionJustificationCreate,
		PermissionJustificationViewAll,
		PermissionJustificationReview,
		PermissionDashboardView,
	},
	RoleEmployee: {
		PermissionTimesheetViewOwn,
		PermissionJustificationCreate,
	},
}

// HasPermission checks if a role has a specific permission
func HasPermission(role Role, permission Permission) bool {
	permissions, exists := RolePermissions[role]
	if !exists {
		return false
	}

	for _, p := range permissions {
		if p == permission {
			return true
		}
	}

	return false
}
