// Package access decides which inventory rows a caller may see. The live
// listing and the backup export both go through this package so the two
// paths cannot drift apart.
package access

import (
	"strings"

	"github.com/jmvaldez/inventario-be/internal/models"
)

// Visible reports whether a caller with the given role and username may see
// the row. Admins see everything. Anyone else needs the row to carry a field
// labeled exactly their role whose value, trimmed of surrounding whitespace,
// equals their username. The match is case-sensitive; usernames are seeded
// verbatim from the ownership grid, so casing is authoritative.
func Visible(role, username string, row models.Row) bool {
	if models.IsAdmin(role) {
		return true
	}
	owner, ok := row.Fields[role]
	if !ok {
		return false
	}
	return strings.TrimSpace(owner) == username
}

// Filter returns the rows visible to the caller, preserving order.
func Filter(role, username string, rows []models.Row) []models.Row {
	if models.IsAdmin(role) {
		return rows
	}
	out := make([]models.Row, 0, len(rows))
	for _, row := range rows {
		if Visible(role, username, row) {
			out = append(out, row)
		}
	}
	return out
}
