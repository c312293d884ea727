package user

type Permission string

const (
	// Self Management
	PermissionViewOwnProfile    Permission = "profile.view_own"
	PermissionChangeOwnPassword Permission = "profile.change_password"

	// Attendance
	PermissionAttendanceManageOwn    Permission = "attendance.manage_own"
	PermissionAttendanceManageOthers Permission = "attendance.manage_others"
	PermissionAttendanceExport       Permission = "attendance.export"

	// Leave balances
	PermissionLeaveViewOwn Permission = "leave.view_own"
	PermissionLeaveViewAll Permission = "leave.view_all"
	PermissionLeaveManage  Permission = "leave.manage"

	// Users
	PermissionUserView   Permission = "user.view"
	PermissionUserManage Permission = "user.manage"

	// Holidays
	PermissionHolidayManage Permission = "holiday.manage"
)

// RolePermissions maps roles to their permissions
var RolePermissions = map[Role][]Permission{
	RoleAdmin: {
		PermissionViewOwnProfile,
		PermissionChangeOwnPassword,
		PermissionAttendanceManageOwn,
		PermissionAttendanceManageOthers,
		PermissionAttendanceExport,
		PermissionLeaveViewOwn,
		PermissionLeaveViewAll,
		PermissionLeaveManage,
		PermissionUserView,
		PermissionUserManage,
		PermissionHolidayManage,
	},
	RoleManager: {
		// Department-scoped; the scope itself is enforced by Actor.CanAccess
		PermissionViewOwnProfile,
		PermissionChangeOwnPassword,
		PermissionAttendanceManageOwn,
		PermissionAttendanceManageOthers,
		PermissionAttendanceExport,
		PermissionLeaveViewOwn,
		PermissionLeaveViewAll,
		PermissionUserView,
	},
	RoleUser: {
		PermissionViewOwnProfile,
		PermissionChangeOwnPassword,
		PermissionAttendanceManageOwn,
		PermissionLeaveViewOwn,
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
