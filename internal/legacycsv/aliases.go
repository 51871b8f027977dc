package legacycsv

// Some historical exports carry a header whose accented bytes were decoded
// under the wrong code page before being written back, so the same column
// exists in the wild under several spellings. Each entry maps one spelling
// to the other members of its family; a lookup that misses verbatim tries
// the family before giving up.
var labelAliases = map[string][]string{
	"alícuota": {"al¡cuota", "alicuota"},
	"al¡cuota": {"alícuota", "alicuota"},
	"alicuota": {"alícuota", "al¡cuota"},
}

// ResolveValue returns the value stored under label, falling back to the
// label's known aliases. Returns the empty string when no spelling matches.
func ResolveValue(fields map[string]string, label string) string {
	if v, ok := fields[label]; ok {
		return v
	}
	for _, alias := range labelAliases[label] {
		if v, ok := fields[alias]; ok {
			return v
		}
	}
	return ""
}
