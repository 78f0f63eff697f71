package extract

import (
	"strings"

	"travelease/internal/summary/document"
	"travelease/internal/summary/section"
)

// FallbackTitle is shown when no key can serve as a title.
const FallbackTitle = "Travel Summary"

// TitleHints are matched case-insensitively as substrings of the document's
// keys, one hint at a time in this order.
var TitleHints = []string{"title", "name", "destination", "location", "city", "place"}

// Title picks a display title for a summary: the first key matching the
// earliest hint, else the first key, formatted as a label.
func Title(c document.Content) string {
	obj, ok := c.Object()
	if !ok {
		return FallbackTitle
	}
	keys := obj.Keys()
	if len(keys) == 0 {
		return FallbackTitle
	}

	key := keys[0]
	if hinted, found := findHintedKey(keys); found {
		key = hinted
	}
	if title := section.Format(key); title != "" {
		return title
	}
	return FallbackTitle
}

func findHintedKey(keys []string) (string, bool) {
	lowered := make([]string, len(keys))
	for i, k := range keys {
		lowered[i] = strings.ToLower(k)
	}
	for _, hint := range TitleHints {
		for i, k := range lowered {
			if strings.Contains(k, hint) {
				return keys[i], true
			}
		}
	}
	return "", false
}
