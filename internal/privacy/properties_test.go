package privacy

import (
	"strings"
	"testing"

	"pgregory.net/rapid"
)

// plainText draws text that cannot trigger any category: lowercase letters a-h
// never spell a key prefix or credential keyword, and there are no digits or '@'.
func plainText(t *rapid.T, label string) string {
	return rapid.StringMatching(`[a-h ]{0,80}`).Draw(t, label)
}

// TestCleanTextIsUntouched verifies that text without matches passes through unchanged.
func TestCleanTextIsUntouched(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		text := plainText(t, "text")
		v := Filter(text, AllEnabled())

		if !v.Safe || v.SafeText != text || v.FilteredCount != 0 || v.Blocked {
			t.Fatalf("clean text was altered: %+v", v)
		}
	})
}

// TestCountAndBlockInvariant verifies that N keys produce N matches and the block flag
// flips strictly above the threshold.
func TestCountAndBlockInvariant(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		n := rapid.IntRange(0, 8).Draw(t, "numKeys")

		parts := make([]string, 0, 2*n+1)
		expected := make([]string, 0, 2*n+1)
		for i := 0; i < n; i++ {
			filler := rapid.StringMatching(`[a-h]{1,8}`).Draw(t, "filler")
			key := "sk-" + rapid.StringMatching(`[a-zA-Z0-9]{24}`).Draw(t, "key")
			parts = append(parts, filler, key)
			expected = append(expected, filler, APIKeys.Placeholder())
		}
		tail := rapid.StringMatching(`[a-h]{0,8}`).Draw(t, "tail")
		parts = append(parts, tail)
		expected = append(expected, tail)

		text := strings.Join(parts, " ")
		v := Filter(text, NewSet(APIKeys))

		// PROPERTY: count equals the number of planted keys.
		if v.FilteredCount != n {
			t.Fatalf("expected %d matches, got %d in %q", n, v.FilteredCount, text)
		}
		// PROPERTY: blocked exactly when above the threshold.
		if v.Blocked != (n > BlockThreshold) {
			t.Fatalf("blocked=%v with %d matches", v.Blocked, n)
		}
		// PROPERTY: every flagged literal is gone and nothing else changed.
		for _, m := range v.Matches {
			if strings.Contains(v.SafeText, m.Text) {
				t.Fatalf("match %q survived redaction", m.Text)
			}
		}
		if want := strings.Join(expected, " "); v.SafeText != want {
			t.Fatalf("redaction altered other content:\n got %q\nwant %q", v.SafeText, want)
		}
	})
}

// TestDisabledCategoryNeverMatches verifies that removing a category removes both its
// detection and its redaction.
func TestDisabledCategoryNeverMatches(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		disabled := rapid.SampledFrom(AllCategories()).Draw(t, "disabled")
		text := strings.Join([]string{
			plainText(t, "a"),
			"sk-abcdefghijklmnopqrstuvwx",
			"password: hunter2",
			"123-45-6789",
			"jane@example.com",
			"(555) 123-4567",
			plainText(t, "b"),
		}, " ")

		v := Filter(text, AllEnabled().Without(disabled))
		for _, m := range v.Matches {
			if m.Category == disabled {
				t.Fatalf("disabled category %s produced match %q", disabled, m.Text)
			}
		}
		if strings.Contains(v.SafeText, disabled.Placeholder()) {
			t.Fatalf("disabled category %s was redacted: %q", disabled, v.SafeText)
		}
	})
}
