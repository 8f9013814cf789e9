package prompt

import (
	"fmt"
	"io"
	"strings"

	"github.com/zipdatape/menu-scripts/internal/ui"
)

// Line asks questions as plain text lines.
type Line struct {
	in  LineReader
	out io.Writer
}

// NewLine creates a line prompter.
func NewLine(in LineReader, out io.Writer) *Line {
	return &Line{in: in, out: out}
}

// Confirm implements Prompter. Unrecognized answers ask again.
func (l *Line) Confirm(title string) (bool, error) {
	for {
		fmt.Fprintf(l.out, "%s (y/n): ", title)
		answer, err := l.in.ReadLine()
		if err != nil {
			return false, err
		}
		if yes, ok := ParseYesNo(answer); ok {
			return yes, nil
		}
		fmt.Fprintln(l.out, ui.Invalid("Please answer yes or no."))
	}
}

// Input implements Prompter.
func (l *Line) Input(title, placeholder string, validate func(string) error) (string, error) {
	for {
		if placeholder != "" {
			fmt.Fprintf(l.out, "%s %s: ", title, ui.MutedStyle().Render("("+placeholder+")"))
		} else {
			fmt.Fprintf(l.out, "%s: ", title)
		}
		answer, err := l.in.ReadLine()
		if err != nil {
			return "", err
		}
		answer = strings.TrimSpace(answer)
		if validate != nil {
			if verr := validate(answer); verr != nil {
				fmt.Fprintln(l.out, ui.Invalid(verr.Error()))
				continue
			}
		}
		return answer, nil
	}
}

// Password implements Prompter. Without a terminal the answer cannot be
// hidden; it is read like any other line and must not be blank.
func (l *Line) Password(title string) (string, error) {
	for {
		fmt.Fprintf(l.out, "%s: ", title)
		answer, err := l.in.ReadLine()
		if err != nil {
			return "", err
		}
		if answer != "" {
			return answer, nil
		}
		fmt.Fprintln(l.out, ui.Invalid("Password is required"))
	}
}
