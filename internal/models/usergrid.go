package models

import "strings"

// UserGrid is the ownership matrix: one column per role, one username per
// cell. A row groups related users across the hierarchy; blank cells are
// allowed. The grid drives both the access filter's notion of valid owners
// and credential seeding.
type UserGrid struct {
	Roles []string   `json:"roles"`
	Users [][]string `json:"users"`
}

// Usernames returns every non-blank cell paired with the role of its column.
func (g UserGrid) Usernames() []GridEntry {
	var out []GridEntry
	for _, row := range g.Users {
		for col, name := range row {
			if col >= len(g.Roles) {
				break
			}
			name = strings.TrimSpace(name)
			if name == "" {
				continue
			}
			out = append(out, GridEntry{Username: name, Role: g.Roles[col]})
		}
	}
	return out
}

// GridEntry is one provisioned username with the role of its grid column.
type GridEntry struct {
	Username string
	Role     string
}
