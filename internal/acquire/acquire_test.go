package acquire

import (
	"context"
	"errors"
	"testing"

	"github.com/ajramos/mailassist/internal/capability"
	"github.com/ajramos/mailassist/internal/mailctx"
	"github.com/stretchr/testify/assert"
)

type fakeCaps struct {
	selection    string
	selectionErr error
	clipboard    string
	clipboardErr error
	calls        []string
}

func (f *fakeCaps) Name() string                            { return "fake" }
func (f *fakeCaps) Status(context.Context) capability.Status { return capability.Status{} }

func (f *fakeCaps) SelectedText(context.Context) (string, error) {
	f.calls = append(f.calls, "selection")
	return f.selection, f.selectionErr
}

func (f *fakeCaps) ReadClipboard(context.Context) (string, error) {
	f.calls = append(f.calls, "clipboard")
	return f.clipboard, f.clipboardErr
}

func (f *fakeCaps) WriteClipboard(context.Context, string) error { return nil }
func (f *fakeCaps) InsertText(context.Context, string) error     { return nil }

func (f *fakeCaps) FrontmostApp(context.Context) (capability.App, error) {
	return capability.App{}, nil
}

func TestAcquire_StagedWinsAndIsVerbatim(t *testing.T) {
	caps := &fakeCaps{selection: "sel", clipboard: "clip"}
	a := New(caps, nil)
	a.Stage("<p>staged</p>")
	mc := mailctx.Viewer("mail body", "s", "x")

	got := a.Acquire(context.Background(), &mc)

	assert.Equal(t, Result{Text: "<p>staged</p>", Source: SourceStaged}, got)
	assert.Empty(t, caps.calls)
}

func TestAcquire_StagedConsumedOnce(t *testing.T) {
	caps := &fakeCaps{clipboard: "clip"}
	a := New(caps, nil)
	a.Stage("X")

	first := a.Acquire(context.Background(), nil)
	a.ClearStage()
	second := a.Acquire(context.Background(), nil)

	assert.Equal(t, "X", first.Text)
	assert.Equal(t, SourceClipboard, second.Source)
	assert.Equal(t, "clip", second.Text)
}

func TestAcquire_MailContent(t *testing.T) {
	caps := &fakeCaps{selection: "sel"}
	a := New(caps, nil)

	compose := mailctx.Compose("draft text", "subj")
	assert.Equal(t, Result{Text: "draft text", Source: SourceMail}, a.Acquire(context.Background(), &compose))

	html := mailctx.Viewer(`<div>Hello <b>there</b></div>`, "s", "x")
	got := a.Acquire(context.Background(), &html)
	assert.Equal(t, SourceMail, got.Source)
	assert.Equal(t, "Hello there", got.Text)
	assert.Empty(t, caps.calls)
}

func TestAcquire_MailboxThread(t *testing.T) {
	mc := mailctx.Mailbox([]mailctx.MessageSummary{{Sender: "a", Subject: "b", Content: "c"}})
	got := New(&fakeCaps{}, nil).Acquire(context.Background(), &mc)

	assert.Equal(t, SourceThread, got.Source)
	assert.Equal(t, "Email 1:\nFrom: a\nSubject: b\nContent: c\n\n---", got.Text)
}

func TestAcquire_FallsThroughFailures(t *testing.T) {
	caps := &fakeCaps{selectionErr: errors.New("no accessibility"), clipboard: "clip"}
	mc := mailctx.None(mailctx.ReasonNotActive)

	got := New(caps, nil).Acquire(context.Background(), &mc)

	assert.Equal(t, Result{Text: "clip", Source: SourceClipboard}, got)
	assert.Equal(t, []string{"selection", "clipboard"}, caps.calls)
}

func TestAcquire_EmptyMailContentFallsThrough(t *testing.T) {
	caps := &fakeCaps{selection: "selected words"}
	mc := mailctx.Compose("   ", "subj")

	got := New(caps, nil).Acquire(context.Background(), &mc)
	assert.Equal(t, Result{Text: "selected words", Source: SourceSelection}, got)
}

func TestAcquire_NothingAvailable(t *testing.T) {
	caps := &fakeCaps{selection: " ", clipboardErr: errors.New("unsupported")}
	got := New(caps, nil).Acquire(context.Background(), nil)

	assert.True(t, got.Empty())
	assert.Equal(t, SourceNone, got.Source)

	assert.True(t, New(nil, nil).Acquire(context.Background(), nil).Empty())
}
