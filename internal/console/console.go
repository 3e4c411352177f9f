// Package console writes operator-facing message blocks.
package console

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"
)

// SeparatorWidth is the length of the rule printed under every block.
const SeparatorWidth = 100

// Always reports verbose output regardless of settings.
func Always() bool { return true }

// Console prints message blocks followed by a separator line and a pause.
type Console struct {
	out     io.Writer
	verbose func() bool
	pause   time.Duration
	sleep   func(time.Duration)
}

// New returns a Console writing to out. verbose is consulted on every call;
// nil behaves like Always.
func New(out io.Writer, verbose func() bool, pause time.Duration) *Console {
	if out == nil {
		out = os.Stdout
	}
	if verbose == nil {
		verbose = Always
	}
	return &Console{
		out:     out,
		verbose: verbose,
		pause:   pause,
		sleep:   time.Sleep,
	}
}

// Verbose reports whether blocks are currently shown.
func (c *Console) Verbose() bool {
	return c.verbose()
}

// Loud returns a copy of c that ignores the verbosity setting.
func (c *Console) Loud() *Console {
	cp := *c
	cp.verbose = Always
	return &cp
}

// Separate prints each message on its own line, then the separator, then
// pauses. Nothing happens when verbosity is off.
func (c *Console) Separate(msgs ...string) {
	if !c.verbose() {
		return
	}
	for _, m := range msgs {
		fmt.Fprintln(c.out, m)
	}
	fmt.Fprintln(c.out, strings.Repeat("-", SeparatorWidth))
	if c.pause > 0 {
		c.sleep(c.pause)
	}
}

// Println writes a plain line without separator or pause.
func (c *Console) Println(msg string) {
	fmt.Fprintln(c.out, msg)
}

// Print writes msg as is.
func (c *Console) Print(msg string) {
	fmt.Fprint(c.out, msg)
}
