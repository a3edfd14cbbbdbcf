// Package clipboard abstracts the OS clipboard behind a small interface.
//
// The copy use-case only depends on Gateway; tests inject a fake, the
// server injects System. Same split as the storage ports — the core never
// knows which implementation it got.
package clipboard

import (
	"context"
	"fmt"

	"github.com/atotto/clipboard"
)

// Gateway writes text to the clipboard. CopyText may fail — headless
// environments have no clipboard at all — and callers must treat a failure
// as "nothing happened".
type Gateway interface {
	CopyText(ctx context.Context, text string) error
}

// System is the real OS clipboard.
type System struct{}

var _ Gateway = System{}

// CopyText places text on the system clipboard.
func (System) CopyText(_ context.Context, text string) error {
	if err := clipboard.WriteAll(text); err != nil {
		return fmt.Errorf("writing to system clipboard: %w", err)
	}
	return nil
}
