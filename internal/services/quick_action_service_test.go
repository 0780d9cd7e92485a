package services

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ajramos/mailassist/internal/acquire"
	"github.com/ajramos/mailassist/internal/config"
	"github.com/ajramos/mailassist/internal/db"
	"github.com/ajramos/mailassist/internal/llm"
	"github.com/ajramos/mailassist/internal/mailctx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestParseAction(t *testing.T) {
	a, err := ParseAction(" Summarize ")
	require.NoError(t, err)
	assert.Equal(t, ActionSummarize, a)

	_, err = ParseAction("explain")
	assert.ErrorIs(t, err, ErrUnknownAction)
}

func TestAction_Enabled(t *testing.T) {
	tests := []struct {
		kind  mailctx.Kind
		reply bool
	}{
		{mailctx.KindViewer, true},
		{mailctx.KindMailbox, true},
		{mailctx.KindCompose, false},
		{mailctx.KindNone, false},
		{mailctx.KindError, false},
	}
	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			assert.Equal(t, tt.reply, ActionReply.Enabled(tt.kind))
			assert.True(t, ActionSummarize.Enabled(tt.kind))
			assert.True(t, ActionTranslate.Enabled(tt.kind))
			assert.True(t, ActionImprove.Enabled(tt.kind))
		})
	}
}

func TestQuickAction_PrepareSummarizeViewer(t *testing.T) {
	f := newFixture(t, mailctx.Viewer("Quarterly numbers attached.", "Q3", "Ana <ana@example.com>"))

	p, err := f.quick.Prepare(context.Background(), ActionSummarize)
	require.NoError(t, err)
	assert.Equal(t, "Please summarize this email from Ana <ana@example.com>:", p.Prompt)
	assert.Equal(t, "Quarterly numbers attached.", p.Text)
	assert.Equal(t, "Quarterly numbers attached.", f.text.Staged())
}

func TestQuickAction_PrepareSummarizeViewerWithoutSender(t *testing.T) {
	f := newFixture(t, mailctx.Viewer("body", "s", ""))

	p, err := f.quick.Prepare(context.Background(), ActionSummarize)
	require.NoError(t, err)
	assert.Equal(t, "Please summarize this email from sender:", p.Prompt)
}

func TestQuickAction_ConfiguredPromptWins(t *testing.T) {
	f := newFixture(t, mailctx.Viewer("body", "s", "Ana"))
	f.cfg.PromptSummarize = "TL;DR please:"

	p, err := f.quick.Prepare(context.Background(), ActionSummarize)
	require.NoError(t, err)
	assert.Equal(t, "TL;DR please:", p.Prompt)
}

func TestQuickAction_ReplyOnThreadUsesFormattedThread(t *testing.T) {
	f := newFixture(t, mailctx.Mailbox([]mailctx.MessageSummary{
		{Sender: "a@x.io", Subject: "Plan", Content: "Ship Monday?"},
		{Sender: "b@x.io", Subject: "Re: Plan", Content: "Tuesday."},
	}))

	p, err := f.quick.Prepare(context.Background(), ActionReply)
	require.NoError(t, err)
	assert.Equal(t, "Based on this email, help me draft a professional reply:", p.Prompt)
	assert.Equal(t, mailctx.FormatThread(p.Context.Messages), p.Text)
}

func TestQuickAction_ReplyDisabledWhileComposing(t *testing.T) {
	f := newFixture(t, mailctx.Compose("draft", "s"))

	_, err := f.quick.Run(context.Background(), ActionReply)
	assert.ErrorIs(t, err, ErrActionDisabled)
	f.provider.AssertNotCalled(t, "Complete", mock.Anything, mock.Anything)

	_, _, errs := f.view.snapshot()
	assert.Equal(t, []string{ErrActionDisabled.Error()}, errs)
}

func TestQuickAction_NoTextAvailable(t *testing.T) {
	f := newFixture(t, mailctx.None(mailctx.ReasonNotActive))

	_, err := f.quick.Run(context.Background(), ActionImprove)
	assert.ErrorIs(t, err, ErrNoText)
	f.provider.AssertNotCalled(t, "Complete", mock.Anything, mock.Anything)
}

func TestQuickAction_RunUsesMailContent(t *testing.T) {
	f := newFixture(t, mailctx.Compose("teh draft", "s"))
	f.provider.On("Complete", mock.Anything, mock.MatchedBy(func(req llm.Request) bool {
		return req.UserMessage == "Text to process:\nteh draft\n\nTask: Please improve this text for clarity, tone, and professionalism:"
	})).Return("The draft.", nil).Once()

	out, err := f.quick.Run(context.Background(), ActionImprove)
	require.NoError(t, err)
	assert.Equal(t, "The draft.", out)
	assert.Empty(t, f.text.Staged())

	require.Len(t, f.history.entries, 1)
	assert.Equal(t, "improve", f.history.entries[0].Action)
	assert.Equal(t, "mail", f.history.entries[0].Source)
	f.provider.AssertExpectations(t)
}

func TestQuickAction_RunUsesStagedSelection(t *testing.T) {
	tests := []struct {
		name string
		mc   mailctx.Context
	}{
		{"no_mail", mailctx.None(mailctx.ReasonNotActive)},
		{"composing", mailctx.Compose("draft in Mail", "s")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, tt.mc)
			f.provider.On("Complete", mock.Anything, mock.MatchedBy(func(req llm.Request) bool {
				return strings.HasPrefix(req.UserMessage, "Text to process:\npicked from Notes\n\nTask: ")
			})).Return("Short version.", nil).Once()

			f.text.Stage("picked from Notes")
			out, err := f.quick.Run(context.Background(), ActionSummarize)
			require.NoError(t, err)
			assert.Equal(t, "Short version.", out)
			assert.Empty(t, f.text.Staged(), "staged text is consumed")

			require.Len(t, f.history.entries, 1)
			assert.Equal(t, "staged", f.history.entries[0].Source)
			f.provider.AssertExpectations(t)
		})
	}
}

func TestQuickAction_BusyRunLeavesStageAlone(t *testing.T) {
	defer goleak.VerifyNone(t)

	view := &recordingView{}
	provider := &blockingProvider{started: make(chan struct{}, 1), release: make(chan struct{})}
	cfg := config.DefaultConfig()
	cfg.OpenAIAPIKey = "sk-test"
	factory := func(context.Context, *config.Config) (llm.Provider, error) { return provider, nil }
	text := acquire.New(nil, nil)
	contexts := NewContextService(stubResolver{single: mailctx.Compose("draft in Mail", "s")}, nil)
	svc := NewAssistantService(view, contexts, text, StaticConfig{Config: cfg}, factory, nil, nil)
	quick := NewQuickActionService(svc, nil)

	done := make(chan error, 1)
	go func() {
		_, err := quick.RunWithText(context.Background(), ActionTranslate, "first")
		done <- err
	}()
	<-provider.started

	text.Stage("selected while busy")
	_, err := quick.Run(context.Background(), ActionImprove)
	assert.ErrorIs(t, err, ErrBusy)
	assert.Equal(t, "selected while busy", text.Staged(), "a dropped action does not touch the stage")

	_, _, errs := view.snapshot()
	assert.Empty(t, errs)

	close(provider.release)
	require.NoError(t, <-done)
	assert.Equal(t, int32(1), provider.calls.Load())
}

func TestQuickAction_RunWithTextAllowsReplyAnywhere(t *testing.T) {
	f := newFixture(t, mailctx.None(mailctx.ReasonNotActive))
	f.provider.On("Complete", mock.Anything, mock.MatchedBy(func(req llm.Request) bool {
		return req.UserMessage == "Text to process:\nCan we meet?\n\nTask: Help me draft a professional email reply to this:"
	})).Return("Sure.", nil).Once()

	out, err := f.quick.RunWithText(context.Background(), ActionReply, "Can we meet?")
	require.NoError(t, err)
	assert.Equal(t, "Sure.", out)

	_, err = f.quick.RunWithText(context.Background(), ActionReply, "  ")
	assert.ErrorIs(t, err, ErrNoText)

	_, err = f.quick.RunWithText(context.Background(), Action("explain"), "text")
	assert.ErrorIs(t, err, ErrUnknownAction)
	f.provider.AssertExpectations(t)
}

type countingResolver struct {
	single, thread mailctx.Context
	singleCalls    int
	threadCalls    int
}

func (r *countingResolver) Resolve(context.Context) mailctx.Context {
	r.singleCalls++
	return r.single
}

func (r *countingResolver) ResolveMailbox(context.Context) mailctx.Context {
	r.threadCalls++
	return r.thread
}

func TestContextService_ThreadMode(t *testing.T) {
	thread := mailctx.Mailbox([]mailctx.MessageSummary{{Sender: "a", Subject: "b", Content: "c"}})
	r := &countingResolver{single: mailctx.Viewer("c", "b", "a"), thread: thread}
	s := NewContextService(r, nil)

	assert.Equal(t, mailctx.KindViewer, s.Current(context.Background()).Kind)

	s.SetThreadMode(true)
	assert.Equal(t, mailctx.KindMailbox, s.Current(context.Background()).Kind)
	assert.Equal(t, 1, r.threadCalls)

	r.thread = mailctx.None(mailctx.ReasonNoMessage)
	r.single = mailctx.Compose("draft", "s")
	assert.Equal(t, mailctx.KindCompose, s.Current(context.Background()).Kind, "falls back to the single-message probe")

	r.thread = mailctx.None(mailctx.ReasonNotActive)
	before := r.singleCalls
	assert.Equal(t, mailctx.KindNone, s.Current(context.Background()).Kind)
	assert.Equal(t, before, r.singleCalls, "Mail in the background is not probed twice")
}

func TestContextService_Describe(t *testing.T) {
	s := NewContextService(stubResolver{single: mailctx.Viewer("c", "Budget", "a")}, nil)

	snap := s.Describe(context.Background())
	assert.Equal(t, "Viewing email: Budget...", snap.Label)
	assert.True(t, snap.ReplyEnabled)

	var nilService *ContextService
	assert.Equal(t, mailctx.KindNone, nilService.Current(context.Background()).Kind)
}

func TestHistoryService(t *testing.T) {
	ctx := context.Background()
	store, err := db.Open(ctx, filepath.Join(t.TempDir(), "history.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	s := NewHistoryService(db.NewHistoryStore(store), nil)
	s.keep = 2
	require.True(t, s.Enabled())

	for _, p := range []string{"one", "two", "three"} {
		require.NoError(t, s.Record(ctx, db.HistoryEntry{Action: "ask", Prompt: p}))
	}

	n, err := s.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	entries, err := s.Recent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "three", entries[0].Prompt)

	require.NoError(t, s.Clear(ctx))
	n, err = s.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestHistoryService_Disabled(t *testing.T) {
	s := NewHistoryService(nil, nil)
	assert.False(t, s.Enabled())
	assert.NoError(t, s.Record(context.Background(), db.HistoryEntry{Prompt: "x"}))

	entries, err := s.Recent(context.Background(), 5)
	assert.NoError(t, err)
	assert.Empty(t, entries)
}
