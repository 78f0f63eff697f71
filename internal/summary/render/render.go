package render

import (
	"travelease/internal/summary/document"
	"travelease/internal/summary/section"
)

// Keys an item renders in a fixed order ahead of its remaining members.
var itemLeadKeys = map[string]bool{
	"name":           true,
	"description":    true,
	"recommendation": true,
	"note":           true,
}

// ShapeMatcher renders objects of one recognised shape. Matchers are tried
// in registration order before the generic labeled-subsection rendering.
type ShapeMatcher struct {
	Name   string
	Match  func(obj document.Value) bool
	Render func(r *Renderer, obj document.Value) *Node
}

// InformationList renders {"information": [...]} as a flat list of the
// array's elements.
var InformationList = ShapeMatcher{
	Name: "information",
	Match: func(obj document.Value) bool {
		info, ok := obj.Get("information")
		return ok && info.IsArray()
	},
	Render: func(_ *Renderer, obj document.Value) *Node {
		info, _ := obj.Get("information")
		var items []*Node
		for _, el := range info.Items() {
			items = append(items, Item(literal(el)))
		}
		return List(items...)
	},
}

// Renderer builds render trees. The zero value is not usable; call New.
type Renderer struct {
	matchers []ShapeMatcher
}

type Option func(*Renderer)

// WithMatcher registers an extra shape matcher after the built-in ones.
func WithMatcher(m ShapeMatcher) Option {
	return func(r *Renderer) {
		r.matchers = append(r.matchers, m)
	}
}

func New(opts ...Option) *Renderer {
	r := &Renderer{matchers: []ShapeMatcher{InformationList}}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

var defaultRenderer = New()

// Summary renders content with the default renderer.
func Summary(c document.Content) *Node {
	return defaultRenderer.Summary(c)
}

// Summary renders a summary document as a stack of top-level sections.
// Arrays are treated as objects keyed by index; any other content is shown
// preformatted. Summary
// never panics; a failure while rendering yields a preformatted dump of c.
func (r *Renderer) Summary(c document.Content) (tree *Node) {
	defer func() {
		if rec := recover(); rec != nil {
			tree = Pre(c.Dump())
		}
	}()

	v, ok := c.Value()
	if !ok {
		return Pre(c.RawText())
	}
	obj, ok := v.AsObject()
	if !ok {
		if v.IsNull() {
			return Pre("null")
		}
		return Pre(v.Text())
	}
	return r.sections(obj, SectionLevel)
}

// Value renders a single value of a document.
func (r *Renderer) Value(v document.Value) *Node {
	switch v.Kind() {
	case document.Null:
		return nil
	case document.String:
		s, _ := v.Str()
		return Text(s)
	case document.Array:
		var items []*Node
		for _, el := range v.Items() {
			if el.IsObject() || el.IsArray() {
				items = append(items, Item(r.objectItem(el)))
				continue
			}
			items = append(items, Item(literal(el)))
		}
		return List(items...)
	case document.Object:
		for _, m := range r.matchers {
			if m.Match(v) {
				return m.Render(r, v)
			}
		}
		return r.sections(v, NestedLevel)
	}
	return Text(v.Text())
}

func (r *Renderer) sections(obj document.Value, level int) *Node {
	var children []*Node
	for _, m := range obj.Members() {
		children = append(children, Section(level, section.Format(m.Key), r.Value(m.Value)))
	}
	return Stack(children...)
}

// objectItem renders a structured list element. A truthy name leads, followed
// by description, recommendation and note when present; every other member
// is written as a labeled field in document order.
func (r *Renderer) objectItem(item document.Value) *Node {
	var children []*Node
	skip := map[string]bool{}

	if name, ok := item.Get("name"); ok && name.Truthy() {
		children = append(children, Paragraph(Bold(name.Text())))
		if d, ok := item.Get("description"); ok && d.Truthy() {
			children = append(children, Paragraph(Text(d.Text())))
		}
		if rec, ok := item.Get("recommendation"); ok && rec.Truthy() {
			children = append(children, Paragraph(Italic("Recommendation: "), Text(rec.Text())))
		}
		if note, ok := item.Get("note"); ok && note.Truthy() {
			children = append(children, Paragraph(Italic("Note: "), Text(note.Text())))
		}
		skip = itemLeadKeys
	}

	for _, m := range item.Entries() {
		if skip[m.Key] {
			continue
		}
		children = append(children, r.field(m))
	}
	return Stack(children...)
}

func (r *Renderer) field(m document.Member) *Node {
	label := section.Format(m.Key)
	switch m.Value.Kind() {
	case document.Object, document.Array, document.Null:
		return Field(label, r.Value(m.Value))
	}
	return Field(label, Text(m.Value.Text()))
}

// literal is the inline form of a list element; null leaves the item empty.
func literal(v document.Value) *Node {
	if v.IsNull() {
		return nil
	}
	return Text(v.Text())
}
