// Package prompt asks the operator bounded-retry yes/no questions.
package prompt

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"cleansweep/internal/console"
	"cleansweep/internal/exitcodes"
	"cleansweep/internal/metrics"
)

// DefaultMaxTrials bounds the number of answers read per question.
const DefaultMaxTrials = 3

const (
	menu          = "\n1) Yes\n2) No\n"
	lastTrialNote = "This is your last trial"
	inputPrompt   = ">>> "
)

var (
	// ErrInvalidTrials is returned when fewer than one trial is requested.
	ErrInvalidTrials = errors.New("max trials must be at least 1")

	// ErrInputClosed wraps the reader error that ended a dialogue early.
	ErrInputClosed = errors.New("operator input closed")
)

// Outcome is the result of Ask.
type Outcome int

const (
	Confirmed Outcome = iota + 1
	Declined
	Exhausted
)

func (o Outcome) String() string {
	switch o {
	case Confirmed:
		return "confirmed"
	case Declined:
		return "declined"
	case Exhausted:
		return "exhausted"
	}
	return "unknown"
}

// Prompter runs confirmation dialogues against a LineReader.
type Prompter struct {
	in      LineReader
	console *console.Console
	options Options
	exit    func(int)
}

// New returns a Prompter reading from in. Its messages are always shown,
// whatever the verbosity of c.
func New(in LineReader, c *console.Console) *Prompter {
	if c == nil {
		c = console.New(nil, nil, 0)
	}
	return &Prompter{
		in:      in,
		console: c.Loud(),
		options: DefaultOptions,
		exit:    os.Exit,
	}
}

// SetExit replaces the function used by the default decline callback.
func (p *Prompter) SetExit(fn func(int)) {
	p.exit = fn
}

// SetOptions replaces the accepted answers.
func (p *Prompter) SetOptions(opts Options) error {
	if len(opts) == 0 {
		return ErrNoOptions
	}
	p.options = opts
	return nil
}

// Exit is the default decline callback: it terminates the process with status 0.
func (p *Prompter) Exit() {
	p.exit(exitcodes.Success)
}

// Confirm shows info and asks for an answer up to maxTrials times.
//
// On "1" it calls onYes and returns. On "2" it calls onNo and keeps asking
// if onNo returns. Once the trials are used up it calls onNo one last time.
// A nil onNo exits the process.
func (p *Prompter) Confirm(info string, onYes, onNo func(), maxTrials int) error {
	if onNo == nil {
		onNo = p.Exit
	}

	confirmed, err := p.dialogue(info, maxTrials, func(answer string) bool {
		if answer == Yes {
			p.console.Separate("Option 1 selected, proceeding...")
			metrics.RecordConfirmation(Confirmed.String())
			if onYes != nil {
				onYes()
			}
			return true
		}
		p.console.Separate("Exiting application...")
		metrics.RecordConfirmation(Declined.String())
		onNo()
		return false
	})
	if err != nil || confirmed {
		return err
	}

	p.console.Separate("Too many invalid attempts", "Exiting application...")
	metrics.RecordConfirmation(Exhausted.String())
	onNo()
	return nil
}

// Ask runs the same dialogue as Confirm but returns the outcome instead of
// branching. A "2" ends the dialogue immediately.
func (p *Prompter) Ask(info string, maxTrials int) (Outcome, error) {
	outcome := Exhausted
	_, err := p.dialogue(info, maxTrials, func(answer string) bool {
		if answer == Yes {
			p.console.Separate("Option 1 selected, proceeding...")
			outcome = Confirmed
		} else {
			p.console.Separate("Exiting application...")
			outcome = Declined
		}
		return true
	})
	if err != nil {
		return 0, err
	}
	if outcome == Exhausted {
		p.console.Separate("Too many invalid attempts")
	}
	metrics.RecordConfirmation(outcome.String())
	return outcome, nil
}

// dialogue reads answers until onAnswer returns true or trials run out.
// onAnswer only sees the yes and no tokens.
func (p *Prompter) dialogue(info string, maxTrials int, onAnswer func(answer string) bool) (bool, error) {
	if maxTrials < 1 {
		return false, fmt.Errorf("%w: got %d", ErrInvalidTrials, maxTrials)
	}
	optionsString, err := FormatOptions(p.options)
	if err != nil {
		return false, err
	}

	p.console.Println(info)
	for num := 0; num < maxTrials; num++ {
		finalTrial := num == maxTrials-1

		question := menu
		if finalTrial {
			question = lastTrialNote + menu
		}
		p.console.Print(question)

		line, err := p.in.ReadLine(inputPrompt)
		if err != nil {
			return false, fmt.Errorf("%w: %w", ErrInputClosed, err)
		}
		answer := strings.TrimSpace(line)

		if !p.options.Contains(answer) {
			metrics.RecordTrial(false)
			if !finalTrial {
				p.console.Separate(fmt.Sprintf("Provided option %q is invalid, Kindly input one of the following %s", answer, optionsString))
				p.console.Println("Choose an option, " + optionsString)
			}
			continue
		}
		metrics.RecordTrial(true)

		if answer != Yes && answer != No {
			continue
		}
		if onAnswer(answer) {
			return true, nil
		}
	}
	return false, nil
}
