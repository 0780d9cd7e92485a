package privacy

import (
	"regexp"
	"strings"
)

// BlockThreshold is the number of matches a text may contain before it is blocked
const BlockThreshold = 3

// Category identifies a family of sensitive content
type Category string

const (
	APIKeys     Category = "apiKeys"
	Credentials Category = "credentials"
	Financial   Category = "financial"
	Emails      Category = "emails"
	Phones      Category = "phones"
)

// Placeholder returns the token that replaces content of this category
func (c Category) Placeholder() string {
	return "[" + strings.ToUpper(string(c)) + "_FILTERED]"
}

type pattern struct {
	category Category
	re       *regexp.Regexp
}

// patterns are scanned in this order; matches and redactions follow it.
var patterns = []pattern{
	{APIKeys, regexp.MustCompile(`(?i)(?:sk-|pk_|AIza|ya29\.|glpat-|ghp_|xoxb-|xoxp-)[a-zA-Z0-9\-_]{20,}`)},
	{Credentials, regexp.MustCompile(`(?i)(?:password|login|username|passwd|pwd)[:=\s]+\S{3,}`)},
	{Financial, regexp.MustCompile(`(?i)(?:\d{4}[-\s]?\d{4}[-\s]?\d{4}[-\s]?\d{4}|\d{3}-\d{2}-\d{4}|routing.{0,10}\d{9})`)},
	{Emails, regexp.MustCompile(`(?i)[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}`)},
	{Phones, regexp.MustCompile(`(?i)(?:\+?1[-.\s]?)?\(?[0-9]{3}\)?[-.\s]?[0-9]{3}[-.\s]?[0-9]{4}`)},
}

// AllCategories lists every category in scan order
func AllCategories() []Category {
	out := make([]Category, 0, len(patterns))
	for _, p := range patterns {
		out = append(out, p.category)
	}
	return out
}

// Match is a single detected sensitive substring
type Match struct {
	Category Category `json:"category"`
	Text     string   `json:"text"`
}

// Verdict is the outcome of filtering one text
type Verdict struct {
	Safe          bool    `json:"safe"`
	SafeText      string  `json:"safeText"`
	FilteredCount int     `json:"filteredCount"`
	Matches       []Match `json:"matches"`
	Blocked       bool    `json:"blocked"`
}

// Filter scans text against every enabled category and returns the redacted text
// together with the matches. Each category is matched against the original text;
// every occurrence of a matched literal is replaced in the working copy.
func Filter(text string, enabled Set) Verdict {
	matches := make([]Match, 0)
	safeText := text

	for _, p := range patterns {
		if !enabled.Has(p.category) {
			continue
		}
		found := p.re.FindAllString(text, -1)
		if len(found) == 0 {
			continue
		}
		placeholder := p.category.Placeholder()
		for _, m := range found {
			matches = append(matches, Match{Category: p.category, Text: m})
			safeText = strings.ReplaceAll(safeText, m, placeholder)
		}
	}

	return Verdict{
		Safe:          len(matches) == 0,
		SafeText:      safeText,
		FilteredCount: len(matches),
		Matches:       matches,
		Blocked:       len(matches) > BlockThreshold,
	}
}

// CountByCategory groups the verdict matches by category
func (v Verdict) CountByCategory() map[Category]int {
	out := make(map[Category]int, len(v.Matches))
	for _, m := range v.Matches {
		out[m.Category]++
	}
	return out
}
