package prompt

import (
	"io"
	"strings"

	"github.com/chzyer/readline"
)

// LineReader supplies one line of operator input per call.
type LineReader interface {
	ReadLine(prompt string) (string, error)
}

// ReadlineReader reads operator answers from the terminal.
type ReadlineReader struct {
	rl *readline.Instance
}

// NewReadlineReader opens a readline instance on stdin/stdout.
func NewReadlineReader() (*ReadlineReader, error) {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          ">>> ",
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		return nil, err
	}
	return &ReadlineReader{rl: rl}, nil
}

func (r *ReadlineReader) ReadLine(prompt string) (string, error) {
	r.rl.SetPrompt(prompt)
	line, err := r.rl.Readline()
	if err != nil {
		// readline.ErrInterrupt and io.EOF both end the dialogue
		return "", err
	}
	return line, nil
}

func (r *ReadlineReader) Close() error {
	return r.rl.Close()
}

// ScriptedReader replays canned answers, then reports io.EOF.
type ScriptedReader struct {
	Answers []string
	Prompts []string
}

func (s *ScriptedReader) ReadLine(prompt string) (string, error) {
	s.Prompts = append(s.Prompts, prompt)
	if len(s.Answers) == 0 {
		return "", io.EOF
	}
	line := s.Answers[0]
	s.Answers = s.Answers[1:]
	return strings.TrimRight(line, "\r\n"), nil
}
