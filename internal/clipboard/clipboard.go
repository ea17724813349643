// Package clipboard adapts the OS clipboard for one-shot copies.
package clipboard

import (
	"fmt"

	"github.com/atotto/clipboard"
)

// Bridge wraps the platform clipboard.
//
// Copy failures (missing platform tool, denied access) are reported as
// errors for the caller to log; they are never fatal.
type Bridge struct{}

// NewBridge creates a Bridge.
func NewBridge() *Bridge {
	return &Bridge{}
}

// Available reports whether a clipboard backend exists on this system.
// On Linux this means xclip/xsel (or a Wayland equivalent) is installed.
func (b *Bridge) Available() bool {
	return !clipboard.Unsupported
}

// Copy places text on the OS clipboard.
func (b *Bridge) Copy(text string) error {
	if clipboard.Unsupported {
		return fmt.Errorf("no clipboard tool available on this platform")
	}
	if err := clipboard.WriteAll(text); err != nil {
		return fmt.Errorf("clipboard write: %w", err)
	}
	return nil
}
