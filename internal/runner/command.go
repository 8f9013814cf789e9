package runner

import (
	"github.com/zipdatape/menu-scripts/internal/util"
)

// Command is one external program invocation. Arguments are passed to the
// program as-is; nothing is interpreted by a shell unless the command was
// built with Shell.
type Command struct {
	Name  string
	Args  []string
	Env   []string // KEY=VALUE pairs added to the inherited environment
	Stdin string
	Dir   string
}

// Cmd builds a Command from a program name and its arguments.
func Cmd(name string, args ...string) Command {
	return Command{Name: name, Args: args}
}

// Shell builds a Command that runs a fixed script under /bin/sh. Only use it
// for literal scripts; operator input belongs in Args, Env or Stdin.
func Shell(script string) Command {
	return Command{Name: "/bin/sh", Args: []string{"-c", script}}
}

// WithStdin returns a copy of c that feeds s to the program's standard input.
func (c Command) WithStdin(s string) Command {
	c.Stdin = s
	return c
}

// WithEnv returns a copy of c with extra KEY=VALUE environment entries.
func (c Command) WithEnv(kv ...string) Command {
	c.Env = append(append([]string(nil), c.Env...), kv...)
	return c
}

// InDir returns a copy of c that runs in dir.
func (c Command) InDir(dir string) Command {
	c.Dir = dir
	return c
}

// Argv returns the program name followed by its arguments.
func (c Command) Argv() []string {
	return append([]string{c.Name}, c.Args...)
}

// String renders the argument vector for logs. Environment and stdin are
// left out so secrets passed through them never reach a log line.
func (c Command) String() string {
	return util.ShellJoin(c.Argv())
}
