package main

import (
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/ajramos/mailassist/internal/render"
	"github.com/charmbracelet/lipgloss"
)

var (
	errorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	okStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	warnStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	dimStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	titleStyle = lipgloss.NewStyle().Bold(true).Underline(true)
)

const defaultWidth = 80

// shownError marks an error the view already printed
type shownError struct {
	err error
}

func (e *shownError) Error() string { return e.err.Error() }
func (e *shownError) Unwrap() error { return e.err }

func shown(err error) error {
	if err == nil {
		return nil
	}
	return &shownError{err: err}
}

// cliView prints results on out and status and errors on errOut
type cliView struct {
	mu       sync.Mutex
	out      io.Writer
	errOut   io.Writer
	markdown bool
	style    string
	width    int
	wrap     int
}

func newCLIView(out, errOut io.Writer, style string) *cliView {
	return &cliView{out: out, errOut: errOut, style: style, width: defaultWidth}
}

func (v *cliView) SetProcessing(processing bool) {
	if !processing {
		return
	}
	v.mu.Lock()
	defer v.mu.Unlock()
	fmt.Fprintln(v.errOut, dimStyle.Render("Processing..."))
}

func (v *cliView) ShowResult(text string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.markdown {
		fmt.Fprint(v.out, render.Markdown(text, v.style, v.width))
		return
	}
	fmt.Fprintln(v.out, render.Wrap(text, v.wrap))
}

func (v *cliView) ShowError(message string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	fmt.Fprintln(v.errOut, errorStyle.Render("Error: "+message))
}

// logView reports daemon results to the log
type logView struct {
	logger *slog.Logger
}

func (v logView) SetProcessing(processing bool) {
	v.logger.Debug("processing", "active", processing)
}

func (v logView) ShowResult(text string) {
	v.logger.Info("result ready", "chars", len(text))
}

func (v logView) ShowError(message string) {
	v.logger.Warn("request failed", "error", message)
}
