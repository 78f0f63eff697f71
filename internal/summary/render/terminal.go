package render

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Palette for terminal output.
var (
	accent = lipgloss.AdaptiveColor{Light: "#0B6E99", Dark: "#4FC1E9"}
	muted  = lipgloss.AdaptiveColor{Light: "#6B6B6B", Dark: "#9A9A9A"}
)

// TerminalStyles are the lipgloss styles used by Terminal.
type TerminalStyles struct {
	Section lipgloss.Style
	Nested  lipgloss.Style
	Bold    lipgloss.Style
	Italic  lipgloss.Style
	Body    lipgloss.Style
	Pre     lipgloss.Style
	Bullet  lipgloss.Style
}

func DefaultTerminalStyles() TerminalStyles {
	return TerminalStyles{
		Section: lipgloss.NewStyle().
			Foreground(accent).
			Bold(true).
			Underline(true),
		Nested: lipgloss.NewStyle().
			Foreground(accent).
			Bold(true),
		Bold:   lipgloss.NewStyle().Bold(true),
		Italic: lipgloss.NewStyle().Italic(true),
		Body:   lipgloss.NewStyle(),
		Pre: lipgloss.NewStyle().
			Padding(0, 1).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(muted),
		Bullet: lipgloss.NewStyle().Foreground(muted),
	}
}

// Terminal writes the tree as styled text wrapped to width columns. A width
// of zero or less disables wrapping.
func Terminal(n *Node, width int) string {
	return TerminalWith(n, width, DefaultTerminalStyles())
}

func TerminalWith(n *Node, width int, s TerminalStyles) string {
	if n == nil {
		return ""
	}
	t := termWriter{styles: s}
	return strings.Join(t.blocks(n, width), "\n")
}

type termWriter struct {
	styles TerminalStyles
}

func (t termWriter) blocks(n *Node, width int) []string {
	switch n.Kind {
	case KindStack, KindSection:
		var out []string
		for _, c := range n.Children {
			out = append(out, t.blocks(c, width)...)
		}
		return out
	case KindHeading:
		style := t.styles.Nested
		if n.Level <= SectionLevel {
			style = t.styles.Section
		}
		return []string{t.wrap(style, width).Render(n.Text)}
	case KindText, KindParagraph:
		return []string{t.wrap(t.styles.Body, width).Render(t.inline(n))}
	case KindList:
		var out []string
		for _, item := range n.Children {
			out = append(out, t.item(item, width))
		}
		return out
	case KindField:
		label := t.styles.Bold.Render(n.Text + ": ")
		if len(n.Children) == 0 {
			return []string{label}
		}
		if v := n.Children[0]; v.inline() {
			return []string{t.wrap(t.styles.Body, width).Render(label + t.inline(v))}
		}
		return append([]string{label}, t.indent(t.blocks(n.Children[0], width-2))...)
	case KindPre:
		return []string{t.styles.Pre.Render(n.Text)}
	}
	return nil
}

func (t termWriter) item(item *Node, width int) string {
	var lines []string
	for _, c := range item.Children {
		lines = append(lines, t.blocks(c, width-2)...)
	}
	body := strings.Join(lines, "\n")
	return lipgloss.JoinHorizontal(lipgloss.Top, t.styles.Bullet.Render("• "), body)
}

func (t termWriter) inline(n *Node) string {
	if n.Kind == KindText {
		return t.run(n)
	}
	var b strings.Builder
	for _, r := range n.Children {
		b.WriteString(t.run(r))
	}
	return b.String()
}

func (t termWriter) run(r *Node) string {
	switch r.Style {
	case StyleBold:
		return t.styles.Bold.Render(r.Text)
	case StyleItalic:
		return t.styles.Italic.Render(r.Text)
	}
	return r.Text
}

func (t termWriter) wrap(style lipgloss.Style, width int) lipgloss.Style {
	if width > 0 {
		return style.Width(width)
	}
	return style
}

func (t termWriter) indent(lines []string) []string {
	out := make([]string, len(lines))
	for i, l := range lines {
		out[i] = lipgloss.NewStyle().PaddingLeft(2).Render(l)
	}
	return out
}
