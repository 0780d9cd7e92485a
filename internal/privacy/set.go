package privacy

import (
	"fmt"
	"strings"
)

// Set is a collection of enabled categories
type Set map[Category]bool

// NewSet builds a set from the given categories
func NewSet(categories ...Category) Set {
	s := make(Set, len(categories))
	for _, c := range categories {
		s[c] = true
	}
	return s
}

// AllEnabled returns a set with every category turned on
func AllEnabled() Set {
	return NewSet(AllCategories()...)
}

// Has reports whether the category is enabled
func (s Set) Has(c Category) bool {
	return s[c]
}

// Without returns a copy of the set with the given categories removed
func (s Set) Without(categories ...Category) Set {
	out := make(Set, len(s))
	for c, on := range s {
		out[c] = on
	}
	for _, c := range categories {
		delete(out, c)
	}
	return out
}

// String lists the enabled categories in scan order
func (s Set) String() string {
	var names []string
	for _, c := range AllCategories() {
		if s.Has(c) {
			names = append(names, string(c))
		}
	}
	if len(names) == 0 {
		return "none"
	}
	return strings.Join(names, ",")
}

// ParseCategory accepts a category name case-insensitively
func ParseCategory(name string) (Category, error) {
	for _, c := range AllCategories() {
		if strings.EqualFold(string(c), strings.TrimSpace(name)) {
			return c, nil
		}
	}
	return "", fmt.Errorf("unknown privacy category %q", name)
}
