package render

import (
	"bytes"
	"fmt"

	"github.com/yuin/goldmark"
)

// goldmark's default renderer omits raw HTML, so only markup produced by
// Markdown reaches the output.
var md = goldmark.New()

// HTML converts the tree to an HTML fragment by way of its Markdown form.
func HTML(n *Node) (string, error) {
	var buf bytes.Buffer
	if err := md.Convert([]byte(Markdown(n)), &buf); err != nil {
		return "", fmt.Errorf("convert markdown: %w", err)
	}
	return buf.String(), nil
}
