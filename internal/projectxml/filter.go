package projectxml

import "strings"

// junkMarkers flag backup copies and scratch material that editors keep in
// the project but never license.
var junkMarkers = []string{"junk", "backup", "_old", ".old.", "scratch", " copy"}

// isJunkName drops obvious directory artifacts from the harvest: bin names,
// junk/backup markers, and the leading-asterisk / leading-z prefixes editors
// use to sink items to the bottom of a bin. Deliberately aggressive; it only
// guards the loose-name harvest and resolved display names, and anything it
// drops was never a licensable cue.
func isJunkName(name string) bool {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return true
	}
	if trimmed[0] == '*' || trimmed[0] == 'z' || trimmed[0] == 'Z' {
		return true
	}
	lowered := strings.ToLower(trimmed)
	if strings.HasSuffix(lowered, " bin") || strings.HasSuffix(lowered, "_bin") {
		return true
	}
	for _, marker := range junkMarkers {
		if strings.Contains(lowered, marker) {
			return true
		}
	}
	return false
}
