package runner

import (
	"errors"
	"fmt"
	"os/exec"
	"regexp"

	menuerrors "github.com/zipdatape/menu-scripts/internal/errors"
)

// commandNotFoundPatterns detect a missing program reported by a shell
// script started through Shell. These require exit code 127.
var commandNotFoundPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)sh: \d+: (\S+): not found`),
	regexp.MustCompile(`(?i)bash: (\S+): command not found`),
	regexp.MustCompile(`(?i)(\S+): command not found`),
	regexp.MustCompile(`(?i)(\S+): not found`),
}

// IsCommandNotFound checks if shell output indicates a missing command.
// Returns the command name (if extractable) and whether it's a command-not-found error.
func IsCommandNotFound(output string, exitCode int) (string, bool) {
	if exitCode != 127 {
		return "", false
	}
	for _, pattern := range commandNotFoundPatterns {
		if matches := pattern.FindStringSubmatch(output); len(matches) > 1 {
			return matches[1], true
		}
	}
	return "", true
}

// HandleExecError turns a missing program into a structured error with an
// install hint. Other failures return nil; their exit status is the answer.
func HandleExecError(cmd Command, err error, output string, exitCode int) *menuerrors.Error {
	name := ""
	switch {
	case errors.Is(err, exec.ErrNotFound):
		name = cmd.Name
	default:
		var found bool
		name, found = IsCommandNotFound(output, exitCode)
		if !found {
			return nil
		}
		if name == "" {
			name = cmd.Name
		}
	}

	return menuerrors.New(menuerrors.ErrExec,
		fmt.Sprintf("'%s' not found in PATH", name),
		fmt.Sprintf("Install the package that provides '%s', for example: apt-get install -y %s", name, name))
}
