package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/ajramos/mailassist/internal/acquire"
	"github.com/ajramos/mailassist/internal/capability"
	"github.com/ajramos/mailassist/internal/config"
	"github.com/ajramos/mailassist/internal/db"
	"github.com/ajramos/mailassist/internal/logging"
	"github.com/ajramos/mailassist/internal/mailctx"
	"github.com/ajramos/mailassist/internal/osascript"
	"github.com/ajramos/mailassist/internal/services"
)

// app wires the services for one command invocation
type app struct {
	config   *config.Manager
	logger   *slog.Logger
	closeLog func() error

	runner    *osascript.ExecRunner
	script    *capability.Script
	caps      capability.Provider
	resolver  *mailctx.Resolver
	contexts  *services.ContextService
	text      *acquire.Acquirer
	store     *db.Store
	history   *services.HistoryService
	view      *cliView
	assistant *services.AssistantService
	quick     *services.QuickActionService
}

// loadManager reads the configuration (after .env) into a manager
func loadManager(opts *globalOptions, logger *slog.Logger) (*config.Manager, error) {
	config.LoadEnv()
	mgr := config.NewManager(logger)
	if err := mgr.LoadFromFile(getConfigPath(opts.configPath)); err != nil {
		return nil, err
	}
	return mgr, nil
}

// setupLogger opens the configured log file, falling back to discarding records
func setupLogger(opts *globalOptions, errOut io.Writer) (*slog.Logger, func() error) {
	config.LoadEnv()
	cfg, err := config.LoadConfig(getConfigPath(opts.configPath))
	if err != nil {
		cfg = config.DefaultConfig()
	}
	logger, closeFn, err := logging.Setup(cfg.GetLogPath(), opts.verbose)
	if err != nil {
		fmt.Fprintln(errOut, warnStyle.Render("Warning: could not open log file: "+err.Error()))
		return logging.Discard(), func() error { return nil }
	}
	return logger, closeFn
}

func newApp(ctx context.Context, opts *globalOptions, out, errOut io.Writer) (*app, error) {
	logger, closeLog := setupLogger(opts, errOut)

	mgr, err := loadManager(opts, logger)
	if err != nil {
		_ = closeLog()
		return nil, err
	}
	cfg := mgr.GetConfig()

	a := &app{config: mgr, logger: logger, closeLog: closeLog}
	a.runner = osascript.NewExecRunner("")
	a.script = capability.NewScript(a.runner, capability.SystemClipboard(), logger)
	a.caps = capability.Detect(ctx, config.ExpandPath(cfg.HelperPath), a.script, logger)
	a.resolver = mailctx.NewResolver(a.runner, logger)
	a.contexts = services.NewContextService(a.resolver, logger)
	a.text = acquire.New(a.caps, logger)

	var historyStore *db.HistoryStore
	if cfg.HistoryEnabled {
		if st, err := db.Open(ctx, cfg.GetHistoryPath()); err == nil {
			a.store = st
			historyStore = db.NewHistoryStore(st)
		} else {
			logger.Warn("could not open history store", "error", err)
		}
	}
	a.history = services.NewHistoryService(historyStore, logger)

	a.view = newCLIView(out, errOut, cfg.MarkdownStyle)
	var recorder services.HistoryRecorder
	if a.history.Enabled() {
		recorder = a.history
	}
	a.assistant = services.NewAssistantService(a.view, a.contexts, a.text, mgr, nil, recorder, logger)
	a.quick = services.NewQuickActionService(a.assistant, logger)
	return a, nil
}

// Close releases the store and the log file
func (a *app) Close() {
	if a.store != nil {
		if err := a.store.Close(); err != nil {
			a.logger.Warn("closing history store", "error", err)
		}
	}
	if a.closeLog != nil {
		_ = a.closeLog()
	}
}

// deliver copies the result to the clipboard or types it into the active application
func (a *app) deliver(ctx context.Context, result string, copyResult, apply bool, errOut io.Writer) error {
	if copyResult {
		if err := a.caps.WriteClipboard(ctx, result); err != nil {
			return fmt.Errorf("copy result: %w", err)
		}
		fmt.Fprintln(errOut, okStyle.Render("Copied to clipboard."))
	}
	if apply {
		if err := a.caps.InsertText(ctx, result); err != nil {
			return fmt.Errorf("apply result: %w", err)
		}
		fmt.Fprintln(errOut, okStyle.Render("Inserted into the active application."))
	}
	return nil
}
