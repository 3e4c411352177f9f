package cleanup

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"cleansweep/internal/safety"
)

// ErrNotImplemented is returned by RemoveFiles once its arguments pass the checks.
var ErrNotImplemented = errors.New("not implemented")

// RemoveFiles is the extension point for deleting files matching pattern
// under dir. It checks its arguments against the base directory and the
// protected system paths, then fails with ErrNotImplemented.
func (c *Cleaner) RemoveFiles(ctx context.Context, dir, pattern string) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	v := safety.NewValidator([]string{c.settings.BaseDir}, nil)
	if err := v.ValidateTarget(dir); err != nil {
		return 0, fmt.Errorf("remove files in %s: %w", dir, err)
	}

	if _, err := filepath.Match(pattern, ""); err != nil {
		return 0, fmt.Errorf("remove files matching %q: %w", pattern, err)
	}

	return 0, fmt.Errorf("remove files matching %q in %s: %w", pattern, dir, ErrNotImplemented)
}
