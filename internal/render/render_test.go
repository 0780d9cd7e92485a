package render

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLooksLikeHTML(t *testing.T) {
	assert.True(t, LooksLikeHTML(`<div dir="ltr">Hi</div>`))
	assert.True(t, LooksLikeHTML("<P>para</P>"))
	assert.False(t, LooksLikeHTML("a < b and c > d"))
	assert.False(t, LooksLikeHTML("plain text"))
}

func TestPlainText_HTML(t *testing.T) {
	in := `<html><head><style>p{}</style></head><body>
<p>Hello team,</p>
<p>See the <a href="https://example.com/report">report</a>.</p>
<blockquote>old message</blockquote>
<ul><li>one</li><li>two</li></ul>
</body></html>`

	out := PlainText(in)

	assert.NotContains(t, out, "<p>")
	assert.NotContains(t, out, "p{}")
	assert.Contains(t, out, "Hello team,")
	assert.Contains(t, out, "report (https://example.com/report)")
	assert.Contains(t, out, "> old message")
	assert.Contains(t, out, "- one")
	assert.NotContains(t, out, "\n\n\n")
}

func TestPlainText_PlainPassesThrough(t *testing.T) {
	assert.Equal(t, "just text", PlainText("just text"))
	assert.Equal(t, "", PlainText(""))
	assert.Equal(t, "a\nb", PlainText("a\r\nb"))
}

func TestSanitizePreservingCode(t *testing.T) {
	in := "Line \u2026 with \u2013 dash\n```\nkeep \u2022 inside\n```\nBack \u2022 outside\u200B"
	out := sanitizePreservingCode(in)

	assert.Contains(t, out, "Line ... with - dash")
	assert.Contains(t, out, "keep \u2022 inside")
	assert.Contains(t, out, "Back -  outside")
	assert.NotContains(t, out, "\u200B")
}

func TestDedupeConsecutiveLines(t *testing.T) {
	assert.Equal(t, "a\nb\n\nc", dedupeConsecutiveLines("a\na\nb\n\n\n\nc"))
}

func TestTruncateAndFitWidth(t *testing.T) {
	assert.Equal(t, "hello", TruncateWidth("hello world", 5))
	assert.Equal(t, "short", TruncateWidth("short", 40))
	assert.Equal(t, "", TruncateWidth("x", 0))

	// wide runes take two cells each
	assert.Equal(t, "日本", TruncateWidth("日本語", 5))

	assert.Equal(t, "ab   ", FitWidth("ab", 5))
	assert.Equal(t, "ab...", FitWidth("abcdefgh", 5))
}

func TestWrap(t *testing.T) {
	out := Wrap("> one two three four five", 12)
	for _, ln := range strings.Split(out, "\n") {
		assert.True(t, strings.HasPrefix(ln, "> "), "line %q lost quote prefix", ln)
		assert.LessOrEqual(t, len(ln), 12)
	}

	code := "```\n" + strings.Repeat("x ", 30) + "\n```"
	assert.Equal(t, code, Wrap(code, 10))
	assert.Equal(t, "unchanged", Wrap("unchanged", 0))
}

func TestMarkdown(t *testing.T) {
	out := Markdown("# Title\n\nSome **bold** text.", "notty", 60)
	require.NotEmpty(t, out)
	assert.Contains(t, out, "Title")
	assert.Contains(t, out, "bold")
}
