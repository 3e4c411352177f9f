package cleanup

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"

	"cleansweep/internal/safety"
)

func TestRemoveFiles(t *testing.T) {
	root := t.TempDir()
	c, _, _ := newTestCleaner(t, root, false)

	cancelled, cancel := context.WithCancel(context.Background())
	cancel()

	tests := []struct {
		name    string
		ctx     context.Context
		dir     string
		pattern string
		err     error
	}{
		{"inside base dir", context.Background(), root, "*.log", ErrNotImplemented},
		{"nested dir", context.Background(), filepath.Join(root, "sub"), "*", ErrNotImplemented},
		{"outside base dir", context.Background(), t.TempDir(), "*.log", safety.ErrOutsideAllowed},
		{"protected dir", context.Background(), "/etc", "*", safety.ErrProtectedPath},
		{"traversal", context.Background(), root + "/../x", "*", safety.ErrTraversal},
		{"bad pattern", context.Background(), root, "[", filepath.ErrBadPattern},
		{"cancelled", cancelled, root, "*", context.Canceled},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n, err := c.RemoveFiles(tt.ctx, tt.dir, tt.pattern)

			assert.Zero(t, n)
			assert.ErrorIs(t, err, tt.err)
		})
	}
}
