package cleanup

import (
	"bytes"
	"errors"
	"io"
	"log"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cleansweep/internal/database"
	"cleansweep/internal/prompt"
	"cleansweep/internal/safety"
)

type fakeRecorder struct {
	events []database.Event
	err    error
}

func (f *fakeRecorder) Record(e database.Event) error {
	f.events = append(f.events, e)
	return f.err
}

func (f *fakeRecorder) kinds() []string {
	var kinds []string
	for _, e := range f.events {
		kinds = append(kinds, e.Kind)
	}
	return kinds
}

func quietLogger() *log.Logger {
	return log.New(io.Discard, "", 0)
}

func newTestCleaner(t *testing.T, baseDir string, verbose any) (*Cleaner, *bytes.Buffer, *fakeRecorder) {
	t.Helper()
	out := &bytes.Buffer{}
	store := &fakeRecorder{}
	c, err := NewCleaner(Options{
		BaseDir: baseDir,
		Verbose: verbose,
		Out:     out,
		Logger:  quietLogger(),
		Store:   store,
	})
	require.NoError(t, err)
	return c, out, store
}

func TestNewCleanerWithBaseDir(t *testing.T) {
	dir := t.TempDir()

	c, _, store := newTestCleaner(t, dir, nil)

	assert.Equal(t, dir, c.BaseDir())
	assert.Equal(t, true, c.Verbose())
	assert.Equal(t, prompt.DefaultMaxTrials, c.MaxTrials())
	assert.Equal(t, []string{database.KindBaseDirSet, database.KindValidation}, store.kinds())
}

func TestNewCleanerResolvesRelativeBaseDir(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub"), 0o755))
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })

	c, _, _ := newTestCleaner(t, "sub", false)

	assert.True(t, filepath.IsAbs(c.BaseDir()))
	assert.Equal(t, "sub", filepath.Base(c.BaseDir()))
}

func TestNewCleanerMissingBaseDir(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "missing")

	_, err := NewCleaner(Options{BaseDir: missing, Out: io.Discard, Logger: quietLogger()})

	require.ErrorIs(t, err, ErrNotFound)
	assert.Contains(t, err.Error(), missing+" is not a valid file path on your machine")
}

func TestNewCleanerInvalidVerbose(t *testing.T) {
	_, err := NewCleaner(Options{BaseDir: t.TempDir(), Verbose: "yes", Out: io.Discard, Logger: quietLogger()})

	require.ErrorIs(t, err, ErrTypeMismatch)
	assert.Contains(t, err.Error(), "verbose argument must be of type bool not type string")
}

func TestNewCleanerDefaultBaseDirConfirmed(t *testing.T) {
	defaultDir := t.TempDir()
	out := &bytes.Buffer{}
	store := &fakeRecorder{}

	c, err := NewCleaner(Options{
		DefaultBaseDir: defaultDir,
		Verbose:        false,
		Input:          &prompt.ScriptedReader{Answers: []string{"1"}},
		Out:            out,
		Logger:         quietLogger(),
		Store:          store,
	})

	require.NoError(t, err)
	assert.Equal(t, defaultDir, c.BaseDir())
	assert.Contains(t, out.String(), noBaseDirInfo)
	assert.Contains(t, out.String(), "Defaulting to "+defaultDir+" as base directory")
	require.NotEmpty(t, store.events)
	assert.Equal(t, database.KindConfirmation, store.events[0].Kind)
	assert.Equal(t, "confirmed", store.events[0].Outcome)
}

func TestNewCleanerDefaultBaseDirDeclined(t *testing.T) {
	var exits []int
	store := &fakeRecorder{}

	_, err := NewCleaner(Options{
		DefaultBaseDir: t.TempDir(),
		Input:          &prompt.ScriptedReader{Answers: []string{"2", "2", "2"}},
		Exit:           func(code int) { exits = append(exits, code) },
		Out:            io.Discard,
		Logger:         quietLogger(),
		Store:          store,
	})

	require.ErrorIs(t, err, ErrDeclined)
	// Each "2" exits and the exhausted dialogue exits once more.
	assert.Equal(t, []int{0, 0, 0, 0}, exits)
	require.Len(t, store.events, 1)
	assert.Equal(t, "declined", store.events[0].Outcome)
}

func TestNewCleanerDefaultBaseDirInputClosed(t *testing.T) {
	_, err := NewCleaner(Options{
		DefaultBaseDir: t.TempDir(),
		Input:          &prompt.ScriptedReader{},
		Out:            io.Discard,
		Logger:         quietLogger(),
	})

	require.ErrorIs(t, err, prompt.ErrInputClosed)
}

func TestNewCleanerWithoutInput(t *testing.T) {
	_, err := NewCleaner(Options{DefaultBaseDir: t.TempDir(), Out: io.Discard, Logger: quietLogger()})

	require.ErrorIs(t, err, errNoInput)
}

func TestSetBaseDirValid(t *testing.T) {
	first := t.TempDir()
	second := t.TempDir()
	c, out, store := newTestCleaner(t, first, true)
	out.Reset()
	store.events = nil

	result, err := c.SetBaseDir(second, true)

	require.NoError(t, err)
	assert.True(t, result.IsValidated)
	assert.Equal(t, checksPassed, result.Message)
	assert.Equal(t, second, c.BaseDir())
	assert.Contains(t, out.String(), "Validation of new base directory was successful")
	assert.Contains(t, out.String(), "Base directory is now set to:\n"+second)
	assert.Equal(t, []string{database.KindValidation, database.KindBaseDirSet}, store.kinds())
}

func TestSetBaseDirRevertsOnFailure(t *testing.T) {
	first := t.TempDir()
	missing := filepath.Join(t.TempDir(), "missing")
	c, out, store := newTestCleaner(t, first, true)
	out.Reset()
	store.events = nil

	result, err := c.SetBaseDir(missing, true)

	require.NoError(t, err)
	assert.False(t, result.IsValidated)
	assert.Equal(t, FieldBaseDir, result.FieldName)
	assert.ErrorIs(t, result.Err(), ErrNotFound)
	assert.Equal(t, first, c.BaseDir())
	assert.Contains(t, out.String(), "Validation of BASE_DIR failed...")
	assert.Contains(t, out.String(), "Reverting to previously valid base directory\n"+first)
	assert.Equal(t, []string{database.KindValidation, database.KindBaseDirReverted}, store.kinds())
	assert.Equal(t, first, store.events[1].Path)
}

func TestSetBaseDirRevertsQuietly(t *testing.T) {
	first := t.TempDir()
	c, out, _ := newTestCleaner(t, first, false)
	out.Reset()

	result, err := c.SetBaseDir(filepath.Join(first, "missing"), true)

	require.NoError(t, err)
	assert.False(t, result.IsValidated)
	assert.Equal(t, first, c.BaseDir())
	assert.Empty(t, out.String())
}

func TestSetBaseDirWithoutChecks(t *testing.T) {
	c, _, _ := newTestCleaner(t, t.TempDir(), false)
	missing := filepath.Join(t.TempDir(), "missing")

	result, err := c.SetBaseDir(missing, false)

	require.NoError(t, err)
	assert.Equal(t, ValidationResult{}, result)
	assert.Equal(t, missing, c.BaseDir())
}

func TestSetBaseDirEmpty(t *testing.T) {
	dir := t.TempDir()
	c, _, _ := newTestCleaner(t, dir, false)

	_, err := c.SetBaseDir("  ", true)

	require.ErrorIs(t, err, safety.ErrInvalidPath)
	assert.Equal(t, dir, c.BaseDir())
}

func TestRecordFailureDoesNotFailOperation(t *testing.T) {
	c, _, store := newTestCleaner(t, t.TempDir(), false)
	store.err = errors.New("disk full")

	result, err := c.SetBaseDir(t.TempDir(), true)

	require.NoError(t, err)
	assert.True(t, result.IsValidated)
}
