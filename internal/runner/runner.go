// Package runner executes external programs on behalf of menu operations.
//
// Operations only ever learn whether a program succeeded (Run) or what it
// printed (Capture). Output of Run is discarded; errors never escape.
package runner

import (
	"bytes"
	"context"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/zipdatape/menu-scripts/internal/logger"
)

// Runner executes commands and reports success as a boolean.
type Runner interface {
	// Run executes cmd with its output suppressed and reports whether it
	// exited with status zero.
	Run(ctx context.Context, cmd Command) bool
	// Capture executes cmd and returns its combined stdout and stderr with
	// trailing newlines removed. It never fails; a failing program yields
	// whatever it printed, possibly "".
	Capture(ctx context.Context, cmd Command) string
	// RunSequence runs cmds in order and stops at the first failure.
	RunSequence(ctx context.Context, cmds ...Command) bool
}

// Exec runs commands on the local machine.
type Exec struct {
	log logger.Logger
	// DryRun makes Run log the command and report success without executing
	// it. Capture still executes, since captures only list system state.
	DryRun bool
}

// New creates an Exec runner. A nil logger discards messages.
func New(log logger.Logger, dryRun bool) *Exec {
	if log == nil {
		log = logger.Noop()
	}
	return &Exec{log: log, DryRun: dryRun}
}

// Run implements Runner.
func (e *Exec) Run(ctx context.Context, cmd Command) bool {
	if e.DryRun {
		e.log.Info("[DRY-RUN] would run: %s", cmd)
		return true
	}

	c := e.command(ctx, cmd)
	var stderr bytes.Buffer
	c.Stderr = &stderr

	start := time.Now()
	err := c.Run()
	code := ExitCode(err)
	e.log.Debug("run %s: exit %d in %s", cmd, code, time.Since(start).Round(time.Millisecond))

	if err != nil {
		e.reportFailure(cmd, err, stderr.String(), code)
		return false
	}
	return true
}

// Capture implements Runner.
func (e *Exec) Capture(ctx context.Context, cmd Command) string {
	c := e.command(ctx, cmd)

	start := time.Now()
	out, err := c.CombinedOutput()
	code := ExitCode(err)
	e.log.Debug("capture %s: exit %d in %s (%d bytes)", cmd, code, time.Since(start).Round(time.Millisecond), len(out))

	if err != nil {
		e.reportFailure(cmd, err, string(out), code)
	}
	return TrimOutput(string(out))
}

// RunSequence implements Runner.
func (e *Exec) RunSequence(ctx context.Context, cmds ...Command) bool {
	return Sequence(ctx, e, cmds...)
}

func (e *Exec) command(ctx context.Context, cmd Command) *exec.Cmd {
	c := exec.CommandContext(ctx, cmd.Name, cmd.Args...)
	if cmd.Dir != "" {
		c.Dir = cmd.Dir
	}
	if len(cmd.Env) > 0 {
		c.Env = append(os.Environ(), cmd.Env...)
	}
	if cmd.Stdin != "" {
		c.Stdin = strings.NewReader(cmd.Stdin)
	}
	return c
}

func (e *Exec) reportFailure(cmd Command, err error, output string, code int) {
	if nf := HandleExecError(cmd, err, output, code); nf != nil {
		e.log.Warn("%s", nf.Message)
	}
}

// Sequence runs cmds through r in order and stops at the first failure.
// An empty sequence succeeds.
func Sequence(ctx context.Context, r Runner, cmds ...Command) bool {
	for _, cmd := range cmds {
		if !r.Run(ctx, cmd) {
			return false
		}
	}
	return true
}

// TrimOutput removes trailing newlines from captured output.
func TrimOutput(s string) string {
	return strings.TrimRight(s, "\r\n")
}

// ExitCode extracts a process exit code from an exec error: 0 for nil,
// the status for an *exec.ExitError, and -1 when the program never ran.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	if exitErr, ok := err.(*exec.ExitError); ok {
		return exitErr.ExitCode()
	}
	return -1
}
