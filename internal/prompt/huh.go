package prompt

import (
	"errors"

	"github.com/charmbracelet/huh"
)

// Huh asks questions with huh forms.
type Huh struct{}

// NewHuh creates a terminal prompter.
func NewHuh() *Huh {
	return &Huh{}
}

// Confirm implements Prompter.
func (h *Huh) Confirm(title string) (bool, error) {
	var confirm bool
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(title).
				Affirmative("Yes").
				Negative("No").
				Value(&confirm),
		),
	)
	if err := form.Run(); err != nil {
		return false, mapAbort(err)
	}
	return confirm, nil
}

// Input implements Prompter.
func (h *Huh) Input(title, placeholder string, validate func(string) error) (string, error) {
	var value string
	field := huh.NewInput().
		Title(title).
		Placeholder(placeholder).
		Value(&value)
	if validate != nil {
		field = field.Validate(validate)
	}

	if err := huh.NewForm(huh.NewGroup(field)).Run(); err != nil {
		return "", mapAbort(err)
	}
	return value, nil
}

// Password implements Prompter.
func (h *Huh) Password(title string) (string, error) {
	var value string
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title(title).
				EchoMode(huh.EchoModePassword).
				Validate(Required("Password")).
				Value(&value),
		),
	)
	if err := form.Run(); err != nil {
		return "", mapAbort(err)
	}
	return value, nil
}

func mapAbort(err error) error {
	if errors.Is(err, huh.ErrUserAborted) {
		return ErrCancelled
	}
	return err
}
