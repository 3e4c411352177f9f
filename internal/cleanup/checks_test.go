package cleanup

import (
	"fmt"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunChecks(t *testing.T) {
	tests := []struct {
		name      string
		baseDir   func(t *testing.T) string
		verbose   any
		field     string
		message   string
		cause     error
		validated bool
	}{
		{
			name:      "valid settings",
			baseDir:   func(t *testing.T) string { return t.TempDir() },
			verbose:   true,
			validated: true,
			message:   checksPassed,
		},
		{
			name:    "missing base dir",
			baseDir: func(t *testing.T) string { return filepath.Join(t.TempDir(), "nope") },
			verbose: true,
			field:   FieldBaseDir,
			cause:   ErrNotFound,
		},
		{
			name:    "string verbose",
			baseDir: func(t *testing.T) string { return t.TempDir() },
			verbose: "true",
			field:   FieldVerbose,
			message: "verbose argument must be of type bool not type string",
			cause:   ErrTypeMismatch,
		},
		{
			name:    "int verbose",
			baseDir: func(t *testing.T) string { return t.TempDir() },
			verbose: 1,
			field:   FieldVerbose,
			message: "verbose argument must be of type bool not type int",
			cause:   ErrTypeMismatch,
		},
		{
			name:    "missing base dir wins over verbose",
			baseDir: func(t *testing.T) string { return filepath.Join(t.TempDir(), "nope") },
			verbose: "loud",
			field:   FieldBaseDir,
			cause:   ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _, _ := newTestCleaner(t, t.TempDir(), false)
			dir := tt.baseDir(t)
			_, err := c.SetBaseDir(dir, false)
			require.NoError(t, err)
			c.SetVerbose(tt.verbose)

			silent, err := c.RunChecks(true)
			require.NoError(t, err)
			assert.Equal(t, tt.validated, silent.IsValidated)
			assert.Equal(t, tt.field, silent.FieldName)
			if tt.message != "" {
				assert.Equal(t, tt.message, silent.Message)
			}
			if tt.cause == ErrNotFound {
				assert.Equal(t, fmt.Sprintf(notFoundFormat, dir), silent.Message)
			}

			strict, err := c.RunChecks(false)
			assert.Equal(t, silent, strict)
			if tt.cause == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.cause)
		})
	}
}

func TestValidationResultErr(t *testing.T) {
	assert.NoError(t, ValidationResult{IsValidated: true, Message: checksPassed}.Err())
	assert.NoError(t, ValidationResult{}.Err())

	err := ValidationResult{FieldName: FieldVerbose, Message: "bad", cause: ErrTypeMismatch}.Err()
	assert.ErrorIs(t, err, ErrTypeMismatch)
	assert.Contains(t, err.Error(), "bad")
}
