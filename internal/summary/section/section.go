// Package section formats document keys into display labels.
package section

import (
	"strings"
	"unicode/utf8"
)

// Format turns a key such as "local_food_spots" into "Local Food Spots":
// the key is split on underscores, each piece gets its first character
// upper-cased with the rest left alone, and the pieces are joined by a space.
func Format(label string) string {
	if label == "" {
		return ""
	}
	parts := strings.Split(label, "_")
	for i, p := range parts {
		r, size := utf8.DecodeRuneInString(p)
		if size == 0 || r == utf8.RuneError {
			continue
		}
		parts[i] = strings.ToUpper(string(r)) + p[size:]
	}
	return strings.Join(parts, " ")
}
