package render

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

// TruncateWidth cuts s to at most width terminal cells without adding a tail
func TruncateWidth(s string, width int) string {
	if width <= 0 {
		return ""
	}
	return runewidth.Truncate(s, width, "")
}

// FitWidth truncates with an ellipsis and pads on the right to exactly width cells
func FitWidth(s string, width int) string {
	if width <= 0 {
		return ""
	}
	s = runewidth.Truncate(s, width, "...")
	if pad := width - runewidth.StringWidth(s); pad > 0 {
		s += strings.Repeat(" ", pad)
	}
	return s
}

// Wrap soft-wraps plain text to width cells. Quote prefixes are repeated on
// continuation lines and fenced code blocks are left alone.
func Wrap(input string, width int) string {
	if width <= 0 {
		return input
	}
	lines := strings.Split(normalizeNewlines(input), "\n")
	out := make([]string, 0, len(lines))
	inCode := false
	for _, line := range lines {
		if strings.HasPrefix(strings.TrimSpace(line), "```") {
			inCode = !inCode
			out = append(out, line)
			continue
		}
		if inCode || runewidth.StringWidth(line) <= width {
			out = append(out, line)
			continue
		}

		prefix := ""
		rest := line
		for strings.HasPrefix(rest, "> ") {
			prefix += "> "
			rest = strings.TrimPrefix(rest, "> ")
		}

		cur := prefix
		for _, tok := range strings.Fields(rest) {
			switch {
			case cur == prefix:
				cur += tok
			case runewidth.StringWidth(cur)+1+runewidth.StringWidth(tok) <= width:
				cur += " " + tok
			default:
				out = append(out, cur)
				cur = prefix + tok
			}
		}
		out = append(out, cur)
	}
	return strings.Join(out, "\n")
}
