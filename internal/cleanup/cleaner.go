package cleanup

import (
	"errors"
	"fmt"
	"io"
	"log"
	"time"

	"cleansweep/internal/console"
	"cleansweep/internal/database"
	"cleansweep/internal/logging"
	"cleansweep/internal/metrics"
	"cleansweep/internal/prompt"
	"cleansweep/internal/safety"
)

const noBaseDirInfo = "No base directory was provided, do you want to proceed with the default base directory?"

var (
	ErrDeclined = errors.New("operator declined the default base directory")
	errNoInput  = errors.New("no operator input available to confirm the default base directory")
)

// Logger is the leveled logger used by the cleaner
type Logger interface {
	Info(msg string, args ...interface{})
	Warn(msg string, args ...interface{})
	Error(msg string, args ...interface{})
}

// Recorder persists cleaner events; *database.HistoryDB implements it
type Recorder interface {
	Record(e database.Event) error
}

// Settings is the state every operation works on
type Settings struct {
	BaseDir string
	Verbose any // Must hold a bool to pass validation
}

// IsVerbose reports whether Verbose holds true
func (s *Settings) IsVerbose() bool {
	v, ok := s.Verbose.(bool)
	return ok && v
}

// Options configure NewCleaner
type Options struct {
	BaseDir        string
	DefaultBaseDir string
	Verbose        any // nil means true
	MaxTrials      int // defaults to prompt.DefaultMaxTrials

	Input  prompt.LineReader // Operator answers, needed when BaseDir is empty
	Exit   func(int)         // Replaces os.Exit for the default decline
	Out    io.Writer         // Console output, stdout when nil
	Pause  time.Duration     // Pause after each console block
	Logger *log.Logger
	Store  Recorder // Optional event history
}

// Cleaner holds validated settings and the operations working on them
type Cleaner struct {
	settings  *Settings
	maxTrials int

	console  *console.Console
	prompter *prompt.Prompter
	logger   Logger
	store    Recorder
}

// NewCleaner builds a Cleaner and validates it strictly.
//
// Without a base directory the operator is asked whether to use the default
// one. Declining runs opts.Exit (os.Exit by default); if that returns,
// NewCleaner fails with ErrDeclined.
func NewCleaner(opts Options) (*Cleaner, error) {
	c := &Cleaner{
		settings:  &Settings{Verbose: true},
		maxTrials: opts.MaxTrials,
		logger:    logging.Wrap(opts.Logger),
		store:     opts.Store,
	}
	if c.maxTrials <= 0 {
		c.maxTrials = prompt.DefaultMaxTrials
	}
	c.console = console.New(opts.Out, c.settings.IsVerbose, opts.Pause)
	c.prompter = prompt.New(opts.Input, c.console)
	if opts.Exit != nil {
		c.prompter.SetExit(opts.Exit)
	}

	if opts.BaseDir == "" {
		if err := c.confirmDefaultBaseDir(opts); err != nil {
			return nil, err
		}
	} else if _, err := c.SetBaseDir(opts.BaseDir, false); err != nil {
		return nil, err
	}

	c.settings.Verbose = opts.Verbose
	if c.settings.Verbose == nil {
		c.settings.Verbose = true
	}

	if _, err := c.RunChecks(false); err != nil {
		metrics.RecordError()
		return nil, err
	}
	return c, nil
}

func (c *Cleaner) confirmDefaultBaseDir(opts Options) error {
	if opts.Input == nil {
		return errNoInput
	}
	defaultDir, err := safety.NormalizePath(opts.DefaultBaseDir)
	if err != nil {
		return fmt.Errorf("default base directory: %w", err)
	}

	useDefault := func() {
		c.console.Loud().Separate(fmt.Sprintf("Defaulting to %s as base directory", defaultDir))
		c.settings.BaseDir = defaultDir
	}
	if err := c.prompter.Confirm(noBaseDirInfo, useDefault, nil, c.maxTrials); err != nil {
		return err
	}

	outcome := prompt.Confirmed.String()
	if c.settings.BaseDir == "" {
		outcome = prompt.Declined.String()
	}
	c.record(database.Event{Kind: database.KindConfirmation, Path: defaultDir, Outcome: outcome, Message: noBaseDirInfo})

	if c.settings.BaseDir == "" {
		return ErrDeclined
	}
	return nil
}

// BaseDir returns the current base directory
func (c *Cleaner) BaseDir() string {
	return c.settings.BaseDir
}

// Verbose returns the raw verbosity value
func (c *Cleaner) Verbose() any {
	return c.settings.Verbose
}

// SetVerbose replaces the verbosity value without validating it
func (c *Cleaner) SetVerbose(v any) {
	c.settings.Verbose = v
}

// MaxTrials returns the number of answers read per confirmation
func (c *Cleaner) MaxTrials() int {
	return c.maxTrials
}

// SetBaseDir resolves candidate to an absolute path and makes it the base
// directory. With runChecks the settings are validated; on failure the
// previous base directory is restored and the failing result returned.
func (c *Cleaner) SetBaseDir(candidate string, runChecks bool) (ValidationResult, error) {
	resolved, err := safety.NormalizePath(candidate)
	if err != nil {
		return ValidationResult{}, fmt.Errorf("set base directory %q: %w", candidate, err)
	}

	previous := c.settings.BaseDir
	c.settings.BaseDir = resolved

	if !runChecks {
		c.logger.Info("Base directory set", "path", resolved, "checked", false)
		c.record(database.Event{Kind: database.KindBaseDirSet, Path: resolved})
		return ValidationResult{}, nil
	}

	result, _ := c.RunChecks(true)
	if result.IsValidated {
		c.console.Separate(
			"Validation of new base directory was successful",
			"",
			result.Message,
			"",
			"Base directory is now set to:\n"+resolved,
		)
		c.logger.Info("Base directory set", "path", resolved, "checked", true)
		c.record(database.Event{Kind: database.KindBaseDirSet, Path: resolved, Validated: true, Message: result.Message})
		return result, nil
	}

	c.console.Separate(
		fmt.Sprintf("Validation of %s failed...", result.FieldName),
		"",
		result.Message,
		"",
		"Reverting to previously valid base directory\n"+previous,
	)
	c.settings.BaseDir = previous
	metrics.RecordRevert()
	c.logger.Warn("Base directory reverted", "rejected", resolved, "restored", previous)
	c.record(database.Event{Kind: database.KindBaseDirReverted, Path: previous, FieldName: result.FieldName, Message: result.Message})

	return result, nil
}

func (c *Cleaner) record(e database.Event) {
	if c.store == nil {
		return
	}
	if err := c.store.Record(e); err != nil {
		c.logger.Error("Failed to record event", "kind", e.Kind, "error", err)
		metrics.RecordError()
	}
}
