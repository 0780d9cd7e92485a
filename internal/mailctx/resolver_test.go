package mailctx

import (
	"context"
	"errors"
	"testing"

	"github.com/ajramos/mailassist/internal/osascript"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type reply struct {
	out string
	err error
}

// scriptedRunner answers each known script with a canned reply and records the order of calls
type scriptedRunner struct {
	replies map[string]reply
	calls   []string
}

func (s *scriptedRunner) Run(_ context.Context, script string) (string, error) {
	s.calls = append(s.calls, script)
	r, ok := s.replies[script]
	if !ok {
		return "", errors.New("unexpected script")
	}
	return r.out, r.err
}

func fields(parts ...string) string {
	out := parts[0]
	for _, p := range parts[1:] {
		out += unitSep + p
	}
	return out
}

func TestResolve_MailNotFrontmost(t *testing.T) {
	r := &scriptedRunner{replies: map[string]reply{
		frontmostScript: {out: "Safari"},
	}}

	got := NewResolver(r, nil).Resolve(context.Background())

	assert.Equal(t, None(ReasonNotActive), got)
	assert.Equal(t, []string{frontmostScript}, r.calls, "no Mail queries may follow")
}

func TestResolve_FrontmostQueryFails(t *testing.T) {
	r := &scriptedRunner{replies: map[string]reply{
		frontmostScript: {err: osascript.Errorf("System Events got an error")},
	}}

	got := NewResolver(r, nil).Resolve(context.Background())

	assert.Equal(t, KindNone, got.Kind)
	assert.Equal(t, ReasonNotActive, got.Reason)
	assert.Len(t, r.calls, 1)
}

func TestResolve_ViewerUsesFirstSelectedMessage(t *testing.T) {
	r := &scriptedRunner{replies: map[string]reply{
		frontmostScript: {out: "Mail"},
		selectionScript: {out: fields("3", "Ana <ana@example.com>", "Budget", "Numbers attached\nThanks")},
	}}

	got := NewResolver(r, nil).Resolve(context.Background())

	assert.Equal(t, Viewer("Numbers attached\nThanks", "Budget", "Ana <ana@example.com>"), got)
	assert.NotContains(t, r.calls, composeScript)
}

func TestResolve_ComposeWhenNothingSelected(t *testing.T) {
	r := &scriptedRunner{replies: map[string]reply{
		frontmostScript: {out: "Mail"},
		selectionScript: {out: "0"},
		composeScript:   {out: fields("Draft", "Hi team,")},
	}}

	got := NewResolver(r, nil).Resolve(context.Background())

	assert.Equal(t, Compose("Hi team,", "Draft"), got)
	assert.Equal(t, []string{frontmostScript, selectionScript, composeScript}, r.calls)
}

func TestResolve_NoSelectionNoCompose(t *testing.T) {
	r := &scriptedRunner{replies: map[string]reply{
		frontmostScript: {out: "Mail"},
		selectionScript: {out: "0"},
		composeScript:   {err: osascript.Errorf("Can't get item 1 of {}")},
	}}

	got := NewResolver(r, nil).Resolve(context.Background())

	assert.Equal(t, Failed(ReasonNoMessage), got)
}

func TestResolve_SelectionQueryError(t *testing.T) {
	r := &scriptedRunner{replies: map[string]reply{
		frontmostScript: {out: "Mail"},
		selectionScript: {err: osascript.Errorf("Mail got an error: not authorized")},
	}}

	got := NewResolver(r, nil).Resolve(context.Background())

	assert.Equal(t, KindError, got.Kind)
	assert.Contains(t, got.Reason, "not authorized")
	assert.NotContains(t, r.calls, composeScript)
}

func TestResolveMailbox(t *testing.T) {
	out := fields("a@example.com", "One", "first") + recordSep + fields("b@example.com", "Two", "second")
	r := &scriptedRunner{replies: map[string]reply{
		frontmostScript: {out: "Mail"},
		mailboxScript:   {out: out},
	}}

	got := NewResolver(r, nil).ResolveMailbox(context.Background())

	require.Equal(t, KindMailbox, got.Kind)
	assert.Equal(t, 2, got.MessageCount)
	assert.Equal(t, "One", got.Messages[0].Subject)
	assert.Equal(t, "second", got.Messages[1].Content)
}

func TestResolveMailbox_EmptyAndInactive(t *testing.T) {
	r := &scriptedRunner{replies: map[string]reply{
		frontmostScript: {out: "Mail"},
		mailboxScript:   {out: ""},
	}}
	assert.Equal(t, None(ReasonNoMessage), NewResolver(r, nil).ResolveMailbox(context.Background()))

	inactive := &scriptedRunner{replies: map[string]reply{frontmostScript: {out: "Finder"}}}
	assert.Equal(t, None(ReasonNotActive), NewResolver(inactive, nil).ResolveMailbox(context.Background()))
	assert.Len(t, inactive.calls, 1)
}
