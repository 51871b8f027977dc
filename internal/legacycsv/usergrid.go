package legacycsv

import (
	"strings"

	"github.com/jmvaldez/inventario-be/internal/models"
)

// The ownership grid file, unlike the inventory files, has always been
// UTF-8; keep that split rather than normalizing it away.

// DecodeUserGrid parses the ownership grid: line 1 lists role names, each
// later non-blank line lists one username per role column. Cells are
// trimmed; short rows are padded so the grid stays rectangular.
func DecodeUserGrid(data []byte) (models.UserGrid, error) {
	lines := splitLines(strings.TrimSpace(string(data)))
	if len(lines) == 0 || strings.TrimSpace(lines[0]) == "" {
		return models.UserGrid{}, nil
	}

	roles := strings.Split(lines[0], fieldSep)
	for i := range roles {
		roles[i] = strings.TrimSpace(roles[i])
	}

	grid := models.UserGrid{Roles: roles}
	for _, line := range lines[1:] {
		if strings.TrimSpace(line) == "" {
			continue
		}
		cells := strings.Split(line, fieldSep)
		row := make([]string, len(roles))
		for i := range roles {
			row[i] = strings.TrimSpace(field(cells, i))
		}
		grid.Users = append(grid.Users, row)
	}
	return grid, nil
}

// EncodeUserGrid writes the grid back out, UTF-8, LF-joined.
func EncodeUserGrid(grid models.UserGrid) []byte {
	lines := make([]string, 0, len(grid.Users)+1)
	lines = append(lines, strings.Join(grid.Roles, fieldSep))
	for _, row := range grid.Users {
		lines = append(lines, strings.Join(row, fieldSep))
	}
	return []byte(strings.Join(lines, "\n"))
}
