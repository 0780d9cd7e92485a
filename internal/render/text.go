package render

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/net/html"
)

var htmlTagRe = regexp.MustCompile(`(?i)<\s*(html|body|div|p|br|span|table|a|blockquote|ul|ol|li|h[1-6])\b[^>]*>`)

// LooksLikeHTML reports whether s appears to be HTML markup rather than plain text
func LooksLikeHTML(s string) bool {
	return htmlTagRe.MatchString(s)
}

// PlainText normalises text captured from mail or the clipboard. HTML is rendered to
// text; glyphs that do not survive a terminal or a prompt are replaced.
func PlainText(s string) string {
	if strings.TrimSpace(s) == "" {
		return s
	}
	if LooksLikeHTML(s) {
		if txt, err := htmlToText(s); err == nil && strings.TrimSpace(txt) != "" {
			s = txt
		}
	}
	s = normalizeNewlines(s)
	s = sanitizePreservingCode(s)
	return dedupeConsecutiveLines(s)
}

// htmlToText walks the DOM and emits readable text. Links keep their target in parentheses.
func htmlToText(htmlStr string) (string, error) {
	doc, err := html.Parse(strings.NewReader(htmlStr))
	if err != nil {
		return "", err
	}
	var b strings.Builder
	quoteDepth := 0

	var visit func(n *html.Node)
	visitChildren := func(n *html.Node) {
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			visit(c)
		}
	}
	visit = func(n *html.Node) {
		switch n.Type {
		case html.TextNode:
			text := sanitizeForTerminal(n.Data)
			if strings.TrimSpace(text) == "" {
				return
			}
			if quoteDepth > 0 {
				prefix := strings.Repeat("> ", quoteDepth)
				for i, ln := range strings.Split(text, "\n") {
					if i > 0 {
						b.WriteByte('\n')
					}
					b.WriteString(prefix + strings.TrimRightFunc(ln, unicode.IsSpace))
				}
				return
			}
			b.WriteString(text)
			return
		case html.ElementNode:
			switch strings.ToLower(n.Data) {
			case "head", "style", "script", "title", "meta", "link":
				return
			case "br":
				b.WriteByte('\n')
				return
			case "hr":
				b.WriteString("\n-----\n")
				return
			case "div", "section", "tr":
				visitChildren(n)
				b.WriteByte('\n')
				return
			case "p", "h1", "h2", "h3", "h4", "h5", "h6":
				visitChildren(n)
				b.WriteString("\n\n")
				return
			case "td", "th":
				visitChildren(n)
				b.WriteByte(' ')
				return
			case "li":
				b.WriteString("- ")
				visitChildren(n)
				b.WriteByte('\n')
				return
			case "blockquote":
				quoteDepth++
				visitChildren(n)
				quoteDepth--
				b.WriteByte('\n')
				return
			case "a":
				var inner strings.Builder
				collectText(&inner, n)
				label := strings.TrimSpace(inner.String())
				href := ""
				for _, a := range n.Attr {
					if strings.EqualFold(a.Key, "href") {
						href = strings.TrimSpace(a.Val)
					}
				}
				switch {
				case label == "":
					b.WriteString(href)
				case href == "" || href == label || strings.HasPrefix(href, "mailto:"):
					b.WriteString(label)
				default:
					b.WriteString(label + " (" + href + ")")
				}
				return
			}
		}
		visitChildren(n)
	}
	visit(doc)
	return strings.TrimSpace(b.String()), nil
}

func collectText(b *strings.Builder, n *html.Node) {
	if n.Type == html.TextNode {
		b.WriteString(sanitizeForTerminal(n.Data))
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		collectText(b, c)
	}
}

// sanitizePreservingCode leaves fenced code blocks untouched
func sanitizePreservingCode(s string) string {
	lines := strings.Split(s, "\n")
	inCode := false
	for i, ln := range lines {
		if strings.HasPrefix(strings.TrimSpace(ln), "```") {
			inCode = !inCode
			continue
		}
		if !inCode {
			lines[i] = sanitizeForTerminal(ln)
		}
	}
	return collapseBlankRuns(strings.Join(lines, "\n"))
}

// sanitizeForTerminal replaces rich-text glyphs with ASCII equivalents and drops invisible runes
func sanitizeForTerminal(s string) string {
	if s == "" {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch r {
		case '\u00A0', '\u202F', '\u2000', '\u2001', '\u2002', '\u2003', '\u2004', '\u2005',
			'\u2006', '\u2007', '\u2008', '\u2009', '\u200A':
			b.WriteRune(' ')
		case '\u200B', '\u200C', '\u200D', '\uFEFF', '\u034F', '\u2060', '\u00AD':
		case '\u2013', '\u2014':
			b.WriteRune('-')
		case '\u2022', '\u2043', '\u25AA', '\u25CF', '\u25E6':
			b.WriteString("- ")
		case '\u2018', '\u2019':
			b.WriteRune('\'')
		case '\u201C', '\u201D':
			b.WriteRune('"')
		case '\u2026':
			b.WriteString("...")
		default:
			if unicode.IsControl(r) && r != '\n' && r != '\t' {
				continue
			}
			b.WriteRune(r)
		}
	}
	return b.String()
}

// dedupeConsecutiveLines drops repeated non-blank lines (quoted footers, signatures)
func dedupeConsecutiveLines(s string) string {
	lines := strings.Split(s, "\n")
	out := make([]string, 0, len(lines))
	prev := ""
	for _, ln := range lines {
		cur := strings.TrimRight(ln, " \t")
		trimmed := strings.TrimSpace(cur)
		if trimmed != "" && trimmed == prev {
			continue
		}
		out = append(out, cur)
		prev = trimmed
	}
	return collapseBlankRuns(strings.Join(out, "\n"))
}

func normalizeNewlines(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")
	return collapseBlankRuns(s)
}

func collapseBlankRuns(s string) string {
	for strings.Contains(s, "\n\n\n") {
		s = strings.ReplaceAll(s, "\n\n\n", "\n\n")
	}
	return s
}
