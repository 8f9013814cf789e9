// Package prompt asks the operator for confirmations and values.
//
// On a terminal the questions are huh forms. Without one (piped input,
// tests) they fall back to plain line prompts that read from the same
// stream the menu engine reads from.
package prompt

import (
	"errors"
	"io"
	"strings"
)

// ErrCancelled is returned when the operator aborts a prompt.
var ErrCancelled = errors.New("prompt: cancelled")

// Prompter asks the operator questions.
type Prompter interface {
	// Confirm asks a yes/no question.
	Confirm(title string) (bool, error)
	// Input asks for a line of text. validate may be nil; when it returns an
	// error the question is asked again.
	Input(title, placeholder string, validate func(string) error) (string, error)
	// Password asks for a secret without echoing it where possible.
	Password(title string) (string, error)
}

// LineReader supplies one line of operator input at a time.
type LineReader interface {
	ReadLine() (string, error)
}

// New returns a huh-based prompter when interactive is true and a line
// prompter reading from r otherwise.
func New(r LineReader, out io.Writer, interactive bool) Prompter {
	if interactive {
		return NewHuh()
	}
	return NewLine(r, out)
}

// Required rejects blank answers.
func Required(field string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return errors.New(field + " is required")
		}
		return nil
	}
}

// ParseYesNo interprets a yes/no answer. English and Spanish short forms
// are accepted. ok is false for anything else.
func ParseYesNo(answer string) (yes bool, ok bool) {
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes", "s", "si", "sí":
		return true, true
	case "n", "no":
		return false, true
	default:
		return false, false
	}
}
