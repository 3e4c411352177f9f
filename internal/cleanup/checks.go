package cleanup

import (
	"errors"
	"fmt"
	"os"

	"cleansweep/internal/database"
	"cleansweep/internal/metrics"
)

// Fields reported by a failed validation pass
const (
	FieldBaseDir = "BASE_DIR"
	FieldVerbose = "VERBOSE"
)

const (
	checksPassed       = "Internal checks ran successfully"
	notFoundFormat     = "%s is not a valid file path on your machine,\nKindly review path provided and ensure there is no typo"
	typeMismatchFormat = "verbose argument must be of type %T not type %T"
)

var (
	ErrNotFound     = errors.New("base directory not found")
	ErrTypeMismatch = errors.New("verbose type mismatch")
)

// ValidationResult describes the outcome of one validation pass.
// FieldName is empty when every check passed.
type ValidationResult struct {
	FieldName   string
	IsValidated bool
	Message     string

	cause error
}

// Err converts a failed result into an error wrapping ErrNotFound or
// ErrTypeMismatch. It returns nil for a successful result.
func (r ValidationResult) Err() error {
	if r.IsValidated || r.cause == nil {
		return nil
	}
	return fmt.Errorf("%w: %s", r.cause, r.Message)
}

// Validate runs the ordered checks against the current settings: the base
// directory must exist, then verbosity must be a bool. The first failing
// check wins.
func (c *Cleaner) Validate() ValidationResult {
	result := c.check()

	metrics.RecordValidation(result.FieldName, result.IsValidated)
	c.record(database.Event{
		Kind:      database.KindValidation,
		Path:      c.settings.BaseDir,
		FieldName: result.FieldName,
		Validated: result.IsValidated,
		Message:   result.Message,
	})
	if !result.IsValidated {
		c.logger.Warn("Validation failed", "field", result.FieldName, "base_dir", c.settings.BaseDir)
	}

	return result
}

func (c *Cleaner) check() ValidationResult {
	if _, err := os.Stat(c.settings.BaseDir); err != nil {
		return ValidationResult{
			FieldName: FieldBaseDir,
			Message:   fmt.Sprintf(notFoundFormat, c.settings.BaseDir),
			cause:     ErrNotFound,
		}
	}

	if _, ok := c.settings.Verbose.(bool); !ok {
		return ValidationResult{
			FieldName: FieldVerbose,
			Message:   fmt.Sprintf(typeMismatchFormat, true, c.settings.Verbose),
			cause:     ErrTypeMismatch,
		}
	}

	return ValidationResult{IsValidated: true, Message: checksPassed}
}

// RunChecks validates the settings. Unless failSilently is set, a failed
// pass is also returned as an error.
func (c *Cleaner) RunChecks(failSilently bool) (ValidationResult, error) {
	result := c.Validate()
	if failSilently {
		return result, nil
	}
	return result, result.Err()
}
