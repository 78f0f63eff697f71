// Package extract derives a display title and a bounded preview from summary
// documents whose shape is not known in advance.
package extract

// Limits are the preview heuristics. They are tunable through the heuristics
// file and default to the values the summary tiles shipped with.
type Limits struct {
	// MaxDetailItems caps the bullets taken from a details list.
	MaxDetailItems int `yaml:"max_detail_items"`
	// MaxSectionItems caps the strings taken from each list inside a section
	// by the generic fallback.
	MaxSectionItems int `yaml:"max_section_items"`
	// MaxPreviewLines stops the generic fallback once this many lines exist.
	MaxPreviewLines int `yaml:"max_preview_lines"`
	// TopicKeys are the known travel topics, tried in order.
	TopicKeys []string `yaml:"topic_keys"`
}

// DefaultTopicKeys is the fixed topic scan order.
var DefaultTopicKeys = []string{
	"transportation_to_destination",
	"local_transportation",
	"attractions",
	"food_and_dining",
	"safety_tips",
	"shows_and_entertainment",
}

// DefaultLimits returns the stock heuristics.
func DefaultLimits() Limits {
	return Limits{
		MaxDetailItems:  4,
		MaxSectionItems: 3,
		MaxPreviewLines: 10,
		TopicKeys:       append([]string(nil), DefaultTopicKeys...),
	}
}

// WithDefaults fills unset (non-positive or empty) fields from DefaultLimits.
func (l Limits) WithDefaults() Limits {
	d := DefaultLimits()
	if l.MaxDetailItems <= 0 {
		l.MaxDetailItems = d.MaxDetailItems
	}
	if l.MaxSectionItems <= 0 {
		l.MaxSectionItems = d.MaxSectionItems
	}
	if l.MaxPreviewLines <= 0 {
		l.MaxPreviewLines = d.MaxPreviewLines
	}
	if len(l.TopicKeys) == 0 {
		l.TopicKeys = d.TopicKeys
	}
	return l
}
