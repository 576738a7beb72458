// Package clipboard copies console text to the system clipboard, degrading
// to an error on headless hosts instead of failing startup.
package clipboard

import (
	"fmt"
	"sync"

	"golang.design/x/clipboard"
)

// Board wraps the system clipboard. Initialization is deferred to first use
// because it requires a display connection that servers may not have.
type Board struct {
	once    sync.Once
	initErr error
}

// New creates an uninitialized clipboard wrapper.
func New() *Board {
	return &Board{}
}

// Copy places text on the system clipboard. Empty text is a no-op.
func (b *Board) Copy(text string) error {
	if text == "" {
		return nil
	}

	b.once.Do(func() {
		b.initErr = clipboard.Init()
	})
	if b.initErr != nil {
		return fmt.Errorf("clipboard unavailable: %w", b.initErr)
	}

	clipboard.Write(clipboard.FmtText, []byte(text))
	return nil
}
