package prompt

import (
	"errors"
	"fmt"
	"strings"
)

// Answer tokens recognised by the prompt.
const (
	Yes = "1"
	No  = "2"
)

// ErrNoOptions is returned when an option set would end up empty.
var ErrNoOptions = errors.New("valid options must be declared or left to the default, it can not be empty")

// Options is the ordered set of answers accepted by the prompt.
type Options []string

// DefaultOptions accepts the yes and no tokens.
var DefaultOptions = Options{Yes, No}

// NewOptions stringifies values into an option set.
func NewOptions(values ...any) (Options, error) {
	if len(values) == 0 {
		return nil, ErrNoOptions
	}
	opts := make(Options, 0, len(values))
	for _, v := range values {
		opts = append(opts, fmt.Sprint(v))
	}
	return opts, nil
}

// Contains reports whether answer is one of the options.
func (o Options) Contains(answer string) bool {
	for _, opt := range o {
		if opt == answer {
			return true
		}
	}
	return false
}

// FormatOptions renders the set for humans: "1 or 2", "1, 2, or 3".
func FormatOptions(opts Options) (string, error) {
	switch len(opts) {
	case 0:
		return "", ErrNoOptions
	case 1:
		return opts[0], nil
	case 2:
		return fmt.Sprintf("%s or %s", opts[0], opts[1]), nil
	}
	return strings.Join(opts[:len(opts)-1], ", ") + ", or " + opts[len(opts)-1], nil
}
