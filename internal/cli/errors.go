package cli

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/hatch-cli/hatch/internal/commands"
)

var (
	errorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	hintStyle  = lipgloss.NewStyle().Faint(true)
)

// ExitError carries a plugin's exit status back to main.
type ExitError struct {
	Code int
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("exit status %d", e.Code)
}

// unknownCommandError decorates cobra's unknown-command error with the list
// of commands that do exist.
type unknownCommandError struct {
	err       error
	available []string
}

func (e *unknownCommandError) Error() string { return e.err.Error() }

func (e *unknownCommandError) Unwrap() []error {
	return []error{e.err, commands.ErrUnknownCommand}
}

// PrintError writes err as a single red line, followed by a hint listing
// the available commands when the command was not recognised.
func PrintError(w io.Writer, err error) {
	fmt.Fprintln(w, errorStyle.Render("Error: "+err.Error()))

	var unknown *unknownCommandError
	if errors.As(err, &unknown) && len(unknown.available) > 0 {
		fmt.Fprintln(w, hintStyle.Render("Available commands: "+strings.Join(unknown.available, ", ")))
	}
}
