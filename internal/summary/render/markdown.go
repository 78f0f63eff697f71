package render

import (
	"strings"
	"unicode"
)

var mdEscaper = strings.NewReplacer(
	`\`, `\\`,
	"`", "\\`",
	`*`, `\*`,
	`_`, `\_`,
	`[`, `\[`,
	`]`, `\]`,
	`<`, `\<`,
	`>`, `\>`,
	`#`, `\#`,
	`|`, `\|`,
	`~`, `\~`,
	`&`, `\&`,
)

// Markdown writes the tree as CommonMark. Text is escaped so document content
// can never introduce markup of its own.
func Markdown(n *Node) string {
	if n == nil {
		return ""
	}
	return strings.Join(mdBlocks(n), "\n\n") + "\n"
}

// mdBlocks returns the blocks of n; callers separate them by blank lines.
func mdBlocks(n *Node) []string {
	switch n.Kind {
	case KindStack, KindSection:
		var blocks []string
		for _, c := range n.Children {
			blocks = append(blocks, mdBlocks(c)...)
		}
		return blocks
	case KindHeading:
		level := n.Level
		if level < 1 || level > 6 {
			level = NestedLevel
		}
		return []string{strings.Repeat("#", level) + " " + escapeLine(n.Text)}
	case KindText, KindParagraph:
		if s := mdInline(n); s != "" {
			return []string{s}
		}
		return nil
	case KindList:
		if len(n.Children) == 0 {
			return nil
		}
		items := make([]string, 0, len(n.Children))
		for _, item := range n.Children {
			items = append(items, mdItem(item))
		}
		return []string{strings.Join(items, "\n")}
	case KindField:
		label := "**" + escapeInline(n.Text) + ":**"
		if len(n.Children) == 0 {
			return []string{label}
		}
		if v := n.Children[0]; v.inline() {
			return []string{label + " " + mdInline(v)}
		}
		return append([]string{label}, mdBlocks(n.Children[0])...)
	case KindPre:
		return []string{fence(n.Text)}
	}
	return nil
}

// mdItem writes one list entry, indenting continuation lines under the
// marker.
func mdItem(item *Node) string {
	var blocks []string
	for _, c := range item.Children {
		blocks = append(blocks, mdBlocks(c)...)
	}
	if len(blocks) == 0 {
		return "-"
	}
	lines := strings.Split(strings.Join(blocks, "\n\n"), "\n")
	for i := 1; i < len(lines); i++ {
		if lines[i] != "" {
			lines[i] = "  " + lines[i]
		}
	}
	return "- " + strings.Join(lines, "\n")
}

func mdInline(n *Node) string {
	if n.Kind == KindText {
		return styled(n)
	}
	var b strings.Builder
	for _, r := range n.Children {
		b.WriteString(styled(r))
	}
	return b.String()
}

// styled wraps a run in emphasis markers. Surrounding whitespace is moved
// outside the markers, otherwise CommonMark does not treat them as emphasis.
func styled(run *Node) string {
	text := escapeLine(run.Text)
	var marker string
	switch run.Style {
	case StyleBold:
		marker = "**"
	case StyleItalic:
		marker = "*"
	default:
		return text
	}
	core := strings.TrimSpace(text)
	if core == "" {
		return text
	}
	start := strings.Index(text, core)
	return text[:start] + marker + core + marker + text[start+len(core):]
}

func escapeInline(s string) string {
	return mdEscaper.Replace(s)
}

// escapeLine escapes inline markup and anything at the start of a line that
// would open a block, keeping line breaks as hard breaks.
func escapeLine(s string) string {
	lines := strings.Split(escapeInline(s), "\n")
	for i, line := range lines {
		lines[i] = escapeBlockStart(line)
	}
	return strings.Join(lines, "\\\n")
}

func escapeBlockStart(line string) string {
	trimmed := strings.TrimLeft(line, " ")
	indent := line[:len(line)-len(trimmed)]
	if trimmed == "" {
		return ""
	}
	switch trimmed[0] {
	case '-', '+', '=':
		return indent + `\` + trimmed
	}
	digits := 0
	for digits < len(trimmed) && unicode.IsDigit(rune(trimmed[digits])) {
		digits++
	}
	if digits > 0 && digits < len(trimmed) && (trimmed[digits] == '.' || trimmed[digits] == ')') {
		return indent + trimmed[:digits] + `\` + trimmed[digits:]
	}
	return indent + trimmed
}

// fence wraps s in a code fence longer than any backtick run inside it.
func fence(s string) string {
	longest, run := 0, 0
	for _, r := range s {
		if r == '`' {
			run++
			if run > longest {
				longest = run
			}
			continue
		}
		run = 0
	}
	marker := strings.Repeat("`", max(3, longest+1))
	return marker + "\n" + strings.TrimSuffix(s, "\n") + "\n" + marker
}
