package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/ajramos/mailassist/internal/capability"
	"github.com/ajramos/mailassist/internal/config"
	"github.com/ajramos/mailassist/internal/services"
	"github.com/spf13/cobra"
)

const eventBuffer = 16

func newDaemonCmd(g *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "daemon",
		Short: "Serve context-menu and quick-action events from the native helper",
		Long: `Runs until interrupted. Events from the native helper run quick actions on the
text they carry and the result is copied to the clipboard. Configuration changes
are picked up without a restart.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			a, err := newApp(ctx, g, cmd.OutOrStdout(), cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer a.Close()

			helper, ok := a.caps.(*capability.Helper)
			if !ok {
				return errors.New("the daemon needs the native helper; set helper-path and run `mailassist doctor`")
			}
			return a.runDaemon(ctx, helper)
		},
	}
}

func (a *app) runDaemon(ctx context.Context, helper *capability.Helper) error {
	logger := a.logger.With("component", "daemon")

	// results go to the log instead of the terminal
	view := logView{logger: logger}
	var recorder services.HistoryRecorder
	if a.history.Enabled() {
		recorder = a.history
	}
	assistant := services.NewAssistantService(view, a.contexts, a.text, a.config, nil, recorder, logger)
	quick := services.NewQuickActionService(assistant, logger)

	a.config.AddWatcher(func(cfg *config.Config) {
		logger.Info("configuration changed", "provider", cfg.AIProvider, "model", cfg.AIModel,
			"filters", cfg.PrivacyCategories().String())
	})
	if err := a.config.Watch(ctx); err != nil {
		logger.Warn("configuration changes will need a restart", "error", err)
	} else {
		defer a.config.StopWatching()
	}

	bus := capability.NewBus()
	events, cancel := bus.Subscribe(eventBuffer)
	defer cancel()

	monitorDone := make(chan error, 1)
	go func() {
		monitorDone <- helper.Monitor(ctx, bus)
		bus.Close()
	}()

	d := &daemon{actions: quick, stage: a.text.Stage, clipboard: a.caps, logger: logger}
	logger.Info("daemon started", "helper", helper.Name())
	d.serve(ctx, events)

	err := <-monitorDone
	if err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("helper monitor stopped: %w", err)
	}
	logger.Info("daemon stopped")
	return nil
}

// actionRunner runs quick actions
type actionRunner interface {
	Run(ctx context.Context, action services.Action) (string, error)
	RunWithText(ctx context.Context, action services.Action, text string) (string, error)
}

type clipboardWriter interface {
	WriteClipboard(ctx context.Context, text string) error
}

// daemon turns helper events into quick actions. Each event runs in its own
// goroutine so the orchestrator drops events that arrive while one is in flight.
type daemon struct {
	actions   actionRunner
	stage     func(string)
	clipboard clipboardWriter
	logger    *slog.Logger

	wg sync.WaitGroup
}

// serve handles events until ctx is done or the channel closes, then waits for
// running actions to finish
func (d *daemon) serve(ctx context.Context, events <-chan capability.Event) {
	defer d.wg.Wait()
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-events:
			if !ok {
				return
			}
			d.handle(ctx, ev)
		}
	}
}

func (d *daemon) handle(ctx context.Context, ev capability.Event) {
	switch ev.Type {
	case capability.EventTextSelected:
		d.logger.Debug("text selected", "app", ev.AppName, "chars", len(ev.Text))
		d.stage(ev.Text)
	case capability.EventContextMenuAction, capability.EventQuickAction:
		action, err := services.ParseAction(ev.Action)
		if err != nil {
			d.logger.Warn("ignoring event", "type", ev.Type, "error", err)
			return
		}
		// hiding the panel does not cancel the request
		reqCtx := context.WithoutCancel(ctx)
		d.wg.Add(1)
		go func() {
			defer d.wg.Done()
			d.run(reqCtx, action, ev.Text)
		}()
	}
}

func (d *daemon) run(ctx context.Context, action services.Action, text string) {
	var (
		result string
		err    error
	)
	if text != "" {
		result, err = d.actions.RunWithText(ctx, action, text)
	} else {
		result, err = d.actions.Run(ctx, action)
	}
	if err != nil {
		if errors.Is(err, services.ErrBusy) {
			d.logger.Info("event dropped, a request is in flight", "action", action)
		}
		return
	}
	if err := d.clipboard.WriteClipboard(ctx, result); err != nil {
		d.logger.Warn("could not copy result", "error", err)
		return
	}
	d.logger.Info("result copied to clipboard", "action", action, "chars", len(result))
}
