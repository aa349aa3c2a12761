// Package clipboard copies result text to the system clipboard.
package clipboard

import (
	"context"
	"fmt"

	"github.com/atotto/clipboard"
)

// Writer copies text somewhere the user can paste it from.
type Writer interface {
	WriteText(ctx context.Context, text string) error
}

// System writes to the desktop clipboard via xclip/xsel, pbcopy or the
// Windows API.
type System struct{}

func (System) WriteText(ctx context.Context, text string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if clipboard.Unsupported {
		return fmt.Errorf("copy to clipboard: no clipboard utility available")
	}
	if err := clipboard.WriteAll(text); err != nil {
		return fmt.Errorf("copy to clipboard: %w", err)
	}
	return nil
}

// Copy writes text through w. Empty text is not copied and reports false.
func Copy(ctx context.Context, w Writer, text string) (bool, error) {
	if text == "" {
		return false, nil
	}
	if err := w.WriteText(ctx, text); err != nil {
		return false, err
	}
	return true, nil
}
