// Package capability abstracts the platform features the assistant needs: reading the
// current selection, the clipboard, typing text into the active application and
// receiving events from the native helper.
package capability

import (
	"context"
	"errors"
)

// ErrUnsupported is returned by providers that cannot perform an operation
var ErrUnsupported = errors.New("operation not supported by this provider")

// Status reports which native features are usable
type Status struct {
	TextSelection bool `json:"textSelection"`
	ContextMenu   bool `json:"contextMenu"`
	Accessibility bool `json:"accessibility"`
	Permissions   bool `json:"permissions"`
}

// Ready reports whether selection capture can work at all
func (s Status) Ready() bool {
	return s.TextSelection && s.Permissions
}

// App identifies the frontmost application
type App struct {
	Name     string `json:"name"`
	BundleID string `json:"bundleId"`
}

// Provider is implemented by the helper-backed and the AppleScript-backed capability sets
type Provider interface {
	Name() string
	Status(ctx context.Context) Status
	SelectedText(ctx context.Context) (string, error)
	ReadClipboard(ctx context.Context) (string, error)
	WriteClipboard(ctx context.Context, text string) error
	InsertText(ctx context.Context, text string) error
	FrontmostApp(ctx context.Context) (App, error)
}

// Clipboard is the system pasteboard
type Clipboard interface {
	ReadAll() (string, error)
	WriteAll(text string) error
}
