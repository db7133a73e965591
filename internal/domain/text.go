package domain

import "strings"

// ClipText shortens s to at most max runes, appending "..." when it had to
// cut. Used to derive titles and previews from raw capture text.
func ClipText(s string, max int) string {
	s = strings.TrimSpace(s)
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return strings.TrimRight(string(r[:max-3]), " ") + "..."
}
