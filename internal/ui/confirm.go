package ui

import (
	"errors"

	"github.com/charmbracelet/huh"
)

// ErrAborted is returned when the user declines a confirmation prompt.
var ErrAborted = errors.New("aborted by user")

// Confirm asks a yes/no question on the terminal. Callers must check
// IsInteractive first; the prompt blocks on stdin.
func Confirm(title, description string) error {
	var ok bool
	err := huh.NewConfirm().
		Title(title).
		Description(description).
		Affirmative("Create").
		Negative("Cancel").
		Value(&ok).
		Run()
	if err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return ErrAborted
		}
		return err
	}
	if !ok {
		return ErrAborted
	}
	return nil
}
