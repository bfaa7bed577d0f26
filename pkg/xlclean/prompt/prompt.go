// Package prompt reads validated answers from an operator.
package prompt

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
)

// ErrAttemptsExhausted is returned when a question received too many
// invalid answers.
var ErrAttemptsExhausted = errors.New("too many invalid answers")

// ErrInputClosed is returned when operator input ends.
var ErrInputClosed = errors.New("operator input closed")

// Answer is a yes/no/skip reply.
type Answer int

const (
	// Yes accepts.
	Yes Answer = iota
	// No declines.
	No
	// SkipAnswer abandons the current item.
	SkipAnswer
)

func (a Answer) String() string {
	switch a {
	case Yes:
		return "yes"
	case No:
		return "no"
	default:
		return "skip"
	}
}

// Prompter asks questions on out and reads answers from in, one per line.
type Prompter struct {
	in  *bufio.Reader
	out io.Writer
	// MaxAttempts bounds the answers read per question. Zero means unbounded.
	MaxAttempts int
}

// New returns a prompter with unbounded attempts.
func New(in io.Reader, out io.Writer) *Prompter {
	return &Prompter{in: bufio.NewReader(in), out: out}
}

// Printf writes operator-facing text.
func (p *Prompter) Printf(format string, args ...any) {
	fmt.Fprintf(p.out, format, args...)
}

// ReadLine reads one trimmed line.
func (p *Prompter) ReadLine() (string, error) {
	line, err := p.in.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && line != "" {
			return strings.TrimSpace(line), nil
		}
		if errors.Is(err, io.EOF) {
			return "", ErrInputClosed
		}
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// Ask writes the context produced by show (if any) and label, then reads
// answers until accept returns nil. Each rejected answer prints a notice
// and repeats the context and label.
func (p *Prompter) Ask(show func(io.Writer) error, label string, accept func(string) error) error {
	for attempt := 1; ; attempt++ {
		if show != nil {
			if err := show(p.out); err != nil {
				return err
			}
		}
		fmt.Fprint(p.out, label)

		line, err := p.ReadLine()
		if err != nil {
			return err
		}
		reason := accept(line)
		if reason == nil {
			return nil
		}
		fmt.Fprintf(p.out, "Invalid input: %v\n", reason)

		if p.MaxAttempts > 0 && attempt >= p.MaxAttempts {
			return fmt.Errorf("%w: %s", ErrAttemptsExhausted, strings.TrimSpace(label))
		}
	}
}

// Confirm asks a yes/no/skip question.
func (p *Prompter) Confirm(label string) (Answer, error) {
	var answer Answer
	err := p.Ask(nil, label+" (y/n/s): ", func(s string) error {
		a, err := ParseAnswer(s)
		if err != nil {
			return err
		}
		answer = a
		return nil
	})
	return answer, err
}

// ParseAnswer parses y/n/s and their long forms, ignoring case.
func ParseAnswer(s string) (Answer, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "y", "yes":
		return Yes, nil
	case "n", "no":
		return No, nil
	case "s", "skip":
		return SkipAnswer, nil
	}
	return 0, fmt.Errorf("expected y, n or s, got %q", s)
}
