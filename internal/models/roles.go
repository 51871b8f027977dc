package models

import "strings"

// AdminRole is the distinguished role that bypasses the ownership filter and
// may manage the user grid. Business roles (INSPECTOR, SUPERVISOR, ...) are
// not a closed set: they come from the ownership grid's header row.
const AdminRole = "ADMIN"

// IsAdmin reports whether role is the admin role, ignoring case.
func IsAdmin(role string) bool {
	return strings.EqualFold(role, AdminRole)
}
