package render

import (
	"strings"

	"github.com/charmbracelet/glamour"
)

const minMarkdownWidth = 20

// Markdown renders a model response for the terminal. On any renderer failure the
// input is returned unchanged, so results are never lost to styling.
func Markdown(markdown, style string, width int) string {
	if style == "" {
		style = "auto"
	}
	if width < minMarkdownWidth {
		width = minMarkdownWidth
	}
	opts := []glamour.TermRendererOption{glamour.WithWordWrap(width)}
	if style == "auto" {
		opts = append(opts, glamour.WithAutoStyle())
	} else {
		opts = append(opts, glamour.WithStandardStyle(style))
	}
	r, err := glamour.NewTermRenderer(opts...)
	if err != nil {
		return markdown
	}
	rendered, err := r.Render(markdown)
	if err != nil {
		return markdown
	}
	return strings.TrimRight(rendered, "\n") + "\n"
}
