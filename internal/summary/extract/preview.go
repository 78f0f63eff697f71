package extract

import (
	"strings"

	"travelease/internal/summary/document"
	"travelease/internal/summary/section"
)

const (
	// PreviewUnavailable is returned when the content is not a JSON object.
	PreviewUnavailable = "Click to view travel details"
	// PreviewEmpty is returned when no strategy produced any line.
	PreviewEmpty = "Tap to view travel details"

	bullet = "• "
)

// previewMatcher recognises one document shape and returns its preview lines,
// or nothing when the shape does not apply.
type previewMatcher struct {
	name    string
	extract func(obj document.Value, l Limits) []string
}

// Tried top to bottom; the first one producing lines wins.
var previewMatchers = []previewMatcher{
	{name: "details", extract: detailsPreview},
	{name: "topics", extract: topicPreview},
	{name: "sections", extract: sectionsPreview},
}

// Extractor derives titles and previews under a fixed set of Limits. It holds
// no mutable state and is safe for concurrent use.
type Extractor struct {
	limits Limits
}

func NewExtractor(l Limits) *Extractor {
	return &Extractor{limits: l.WithDefaults()}
}

var defaultExtractor = NewExtractor(DefaultLimits())

// Preview derives a preview with the default limits.
func Preview(c document.Content) string {
	return defaultExtractor.Preview(c)
}

func (e *Extractor) Limits() Limits { return e.limits }

func (e *Extractor) Title(c document.Content) string { return Title(c) }

// Preview returns a short digest of the content for a collapsed tile.
func (e *Extractor) Preview(c document.Content) string {
	obj, ok := c.Object()
	if !ok {
		return PreviewUnavailable
	}
	for _, m := range previewMatchers {
		if lines := m.extract(obj, e.limits); len(lines) > 0 {
			return strings.Join(lines, "\n")
		}
	}
	return PreviewEmpty
}

// detailsPreview handles a top-level "details" list.
func detailsPreview(obj document.Value, l Limits) []string {
	details, ok := obj.Get("details")
	if !ok || !details.IsArray() || details.Len() == 0 {
		return nil
	}
	return bulletList("Details:", details.Items(), l.MaxDetailItems)
}

// topicPreview handles the first known topic whose value carries a
// non-empty "details" list.
func topicPreview(obj document.Value, l Limits) []string {
	for _, key := range l.TopicKeys {
		topic, ok := obj.Get(key)
		if !ok || !topic.IsObject() {
			continue
		}
		details, ok := topic.Get("details")
		if !ok || !details.IsArray() || details.Len() == 0 {
			continue
		}
		return bulletList(section.Format(key)+":", details.Items(), l.MaxDetailItems)
	}
	return nil
}

// sectionsPreview walks every structured top-level section and collects a
// few lines from each until MaxPreviewLines is reached.
func sectionsPreview(obj document.Value, l Limits) []string {
	var lines []string
	for _, m := range obj.Members() {
		if len(lines) >= l.MaxPreviewLines {
			break
		}
		if !m.Value.IsObject() && !m.Value.IsArray() {
			continue
		}
		extracted := sectionLines(m.Value, l)
		if len(extracted) == 0 {
			continue
		}
		lines = append(lines, section.Format(m.Key)+":")
		lines = append(lines, extracted...)
		lines = append(lines, "")
	}
	return lines
}

func sectionLines(v document.Value, l Limits) []string {
	if v.IsArray() {
		return stringBullets(v, l.MaxSectionItems)
	}

	var lines []string
	for _, m := range v.Members() {
		switch {
		case m.Value.IsArray():
			lines = append(lines, stringBullets(m.Value, l.MaxSectionItems)...)
		case m.Value.IsObject():
			details, ok := m.Value.Get("details")
			if !ok || !details.IsArray() {
				continue
			}
			items := stringBullets(details, l.MaxSectionItems)
			if len(items) == 0 {
				continue
			}
			lines = append(lines, section.Format(m.Key)+":")
			lines = append(lines, items...)
		}
	}
	return lines
}

// stringBullets takes up to max string items of an array.
func stringBullets(arr document.Value, max int) []string {
	var out []string
	for _, item := range arr.Items() {
		if len(out) == max {
			break
		}
		if s, ok := item.Str(); ok {
			out = append(out, bullet+s)
		}
	}
	return out
}

func bulletList(header string, items []document.Value, max int) []string {
	if len(items) > max {
		items = items[:max]
	}
	lines := make([]string, 0, len(items)+1)
	lines = append(lines, header)
	for _, item := range items {
		text := item.Text()
		if item.IsNull() {
			text = "null"
		}
		lines = append(lines, bullet+text)
	}
	return lines
}
