package capability

import "github.com/atotto/clipboard"

type systemClipboard struct{}

// SystemClipboard returns the pasteboard of the running OS
func SystemClipboard() Clipboard { return systemClipboard{} }

func (systemClipboard) ReadAll() (string, error) { return clipboard.ReadAll() }

func (systemClipboard) WriteAll(text string) error { return clipboard.WriteAll(text) }

// Unsupported reports whether no clipboard utility is present on this system
func Unsupported() bool { return clipboard.Unsupported }
