// Package render turns summary documents into a presentation tree and writes
// that tree out as Markdown, HTML or styled terminal text.
package render

import "strings"

// Kind identifies a node of the render tree.
type Kind string

const (
	// KindStack is a vertical sequence of blocks.
	KindStack Kind = "stack"
	// KindSection is a heading followed by the rendering of its value.
	KindSection Kind = "section"
	KindHeading Kind = "heading"
	// KindParagraph is one line made of styled text runs.
	KindParagraph Kind = "paragraph"
	KindText      Kind = "text"
	// KindList is an ordered list of KindItem children.
	KindList Kind = "list"
	KindItem Kind = "item"
	// KindField is a bold "Label: " followed by at most one value child.
	KindField Kind = "field"
	// KindPre is preformatted text shown as-is.
	KindPre Kind = "pre"
)

// Style applies to text runs.
type Style string

const (
	StylePlain  Style = ""
	StyleBold   Style = "bold"
	StyleItalic Style = "italic"
)

// Heading levels used for top-level and nested sections.
const (
	SectionLevel = 3
	NestedLevel  = 4
)

// Node is one element of the render tree.
type Node struct {
	Kind     Kind    `json:"kind"`
	Text     string  `json:"text,omitempty"`
	Style    Style   `json:"style,omitempty"`
	Level    int     `json:"level,omitempty"`
	Children []*Node `json:"children,omitempty"`
}

func Stack(children ...*Node) *Node {
	return &Node{Kind: KindStack, Children: children}
}

// Section pairs a heading with its body. A nil body renders nothing.
func Section(level int, title string, body *Node) *Node {
	n := &Node{Kind: KindSection, Children: []*Node{Heading(level, title)}}
	if body != nil {
		n.Children = append(n.Children, body)
	}
	return n
}

func Heading(level int, text string) *Node {
	return &Node{Kind: KindHeading, Level: level, Text: text}
}

func Paragraph(runs ...*Node) *Node {
	return &Node{Kind: KindParagraph, Children: runs}
}

func Text(s string) *Node { return &Node{Kind: KindText, Text: s} }

func Bold(s string) *Node { return &Node{Kind: KindText, Text: s, Style: StyleBold} }

func Italic(s string) *Node { return &Node{Kind: KindText, Text: s, Style: StyleItalic} }

func List(items ...*Node) *Node {
	return &Node{Kind: KindList, Children: items}
}

// Item wraps the content of one list entry. An item without content is
// kept so list positions stay stable.
func Item(content *Node) *Node {
	n := &Node{Kind: KindItem}
	if content != nil {
		n.Children = []*Node{content}
	}
	return n
}

func Field(label string, value *Node) *Node {
	n := &Node{Kind: KindField, Text: label}
	if value != nil {
		n.Children = []*Node{value}
	}
	return n
}

func Pre(s string) *Node { return &Node{Kind: KindPre, Text: s} }

// inline reports whether n can be written on the same line as a label.
func (n *Node) inline() bool {
	return n.Kind == KindText || n.Kind == KindParagraph
}

// plain concatenates the text of n and its runs, ignoring style.
func (n *Node) plain() string {
	if n.Kind != KindParagraph {
		return n.Text
	}
	var b strings.Builder
	for _, r := range n.Children {
		b.WriteString(r.Text)
	}
	return b.String()
}

// Flatten lists the visible lines of the tree in reading order, without any
// styling. A field with an inline value yields a single "Label: value" line.
func Flatten(n *Node) []string {
	if n == nil {
		return nil
	}
	switch n.Kind {
	case KindText, KindParagraph:
		return []string{n.plain()}
	case KindHeading, KindPre:
		return []string{n.Text}
	case KindField:
		if len(n.Children) == 1 && n.Children[0].inline() {
			return []string{n.Text + ": " + n.Children[0].plain()}
		}
		lines := []string{n.Text + ":"}
		for _, c := range n.Children {
			lines = append(lines, Flatten(c)...)
		}
		return lines
	}
	var lines []string
	for _, c := range n.Children {
		lines = append(lines, Flatten(c)...)
	}
	return lines
}
