// Package recipes is the provisioning catalog: every operation and
// submenu the root menu offers.
//
// Recipes prompt for their parameters, run commands through the runner and
// turn every outcome into a menu.Result. Nothing here returns an error to
// the menu engine.
package recipes

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/zipdatape/menu-scripts/internal/config"
	"github.com/zipdatape/menu-scripts/internal/logger"
	"github.com/zipdatape/menu-scripts/internal/menu"
	"github.com/zipdatape/menu-scripts/internal/prompt"
	"github.com/zipdatape/menu-scripts/internal/runner"
	"github.com/zipdatape/menu-scripts/internal/services"
	"github.com/zipdatape/menu-scripts/internal/sysinfo"
	"github.com/zipdatape/menu-scripts/internal/ui"
	"github.com/zipdatape/menu-scripts/internal/util"
)

// Chooser shows a numbered list of data-driven options with a Back entry.
type Chooser interface {
	Choose(ctx context.Context, title string, options []string) (int, bool, error)
	ChooseOr(ctx context.Context, title, empty string, options []string) (int, bool, error)
}

// Deps is everything a recipe may touch. It is built once per session.
type Deps struct {
	Menu     Chooser
	Runner   runner.Runner
	Services services.Manager
	Prompt   prompt.Prompter
	Env      *sysinfo.Environment
	Config   *config.Config
	Log      logger.Logger
	HTTP     *http.Client
	Out      io.Writer

	// DryRun skips file writes the same way the runner skips commands.
	DryRun bool
	// Spin animates long-running steps. Leave it off when Out isn't a terminal.
	Spin bool
	// Executable returns the path of the running binary.
	Executable func() (string, error)
	// Now defaults to time.Now.
	Now func() time.Time
}

func (d *Deps) now() time.Time {
	if d.Now == nil {
		return time.Now()
	}
	return d.Now()
}

func (d *Deps) logf() logger.Logger {
	if d.Log == nil {
		return logger.Noop()
	}
	return d.Log
}

// say prints one line to the operator.
func (d *Deps) say(format string, args ...interface{}) {
	fmt.Fprintf(d.Out, format+"\n", args...)
}

func (d *Deps) steps(total int) *ui.StepDisplay {
	return ui.NewStepDisplay(d.Out, total)
}

// long runs cmds in sequence, animating a spinner labelled label when
// spinning is enabled.
func (d *Deps) long(ctx context.Context, label string, cmds ...runner.Command) bool {
	if !d.Spin {
		return d.Runner.RunSequence(ctx, cmds...)
	}
	s := ui.NewSpinner(label)
	s.SetOutput(d.Out)
	s.Start()
	ok := d.Runner.RunSequence(ctx, cmds...)
	s.Stop()
	fmt.Fprint(d.Out, "\r\033[K")
	return ok
}

// writeFile writes content to path, creating parent directories.
func (d *Deps) writeFile(path, content string, perm os.FileMode) error {
	if d.DryRun {
		d.logf().Info("[DRY-RUN] would write %s (%d bytes)", path, len(content))
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create %s: %w", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, []byte(content), perm); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// appendFile appends content to path, creating it when missing.
func (d *Deps) appendFile(path, content string, perm os.FileMode) error {
	if d.DryRun {
		d.logf().Info("[DRY-RUN] would append to %s (%d bytes)", path, len(content))
		return nil
	}
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, perm)
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	if _, err := f.WriteString(content); err != nil {
		f.Close()
		return fmt.Errorf("append to %s: %w", path, err)
	}
	return f.Close()
}

// inputDefault asks for a value, returning def when the answer is blank.
func (d *Deps) inputDefault(title, def string, validate func(string) error) (string, error) {
	check := func(s string) error {
		if strings.TrimSpace(s) == "" && def != "" {
			return nil
		}
		if validate == nil {
			return nil
		}
		return validate(s)
	}
	if def != "" {
		title += " [" + def + "]"
	}
	answer, err := d.Prompt.Input(title, "", check)
	if err != nil {
		return "", err
	}
	if answer = strings.TrimSpace(answer); answer == "" {
		return def, nil
	}
	return answer, nil
}

// interrupted converts a prompt or selection error into a Result.
func interrupted(err error) menu.Result {
	switch {
	case errors.Is(err, prompt.ErrCancelled):
		return menu.Cancelled()
	case errors.Is(err, menu.ErrInputClosed):
		return menu.Result{Message: "Input closed", Quit: true}
	default:
		return menu.Failure(err.Error())
	}
}

func statusLine(ok bool, message string) string {
	return ui.StatusLine(ok, message, 0, 0)
}

// tally summarises a loop that created zero or more things.
func tally(created, failed int, noun string) menu.Result {
	switch {
	case failed > 0:
		return menu.Failure(fmt.Sprintf("%d of %d %s failed", failed, created+failed,
			util.Pluralize(created+failed, noun, noun+"s")))
	case created == 0:
		return menu.Success("No " + noun + "s created")
	default:
		return menu.Success(fmt.Sprintf("Created %d %s", created, util.Pluralize(created, noun, noun+"s")))
	}
}

// outcome maps a boolean to a success or failure Result.
func outcome(ok bool, success, failure string) menu.Result {
	if ok {
		return menu.Success(success)
	}
	return menu.Failure(failure)
}
