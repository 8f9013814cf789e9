// Package testing provides test doubles for the runner package.
package testing

import (
	"context"
	"strings"
	"sync"

	"github.com/zipdatape/menu-scripts/internal/runner"
)

// Call records one command seen by the fake.
type Call struct {
	Command  runner.Command
	Captured bool
	Success  bool
}

type rule struct {
	prefix string
	fail   bool
	output string
}

// FakeRunner records commands instead of executing them. Every Run succeeds
// and every Capture returns "" unless a rule says otherwise. Rules match on
// the prefix of Command.String(); the most recently added match wins.
type FakeRunner struct {
	mu    sync.Mutex
	rules []rule
	Calls []Call
}

// NewFakeRunner creates a fake runner that succeeds by default.
func NewFakeRunner() *FakeRunner {
	return &FakeRunner{}
}

// Fail makes Run report failure for commands starting with prefix.
func (f *FakeRunner) Fail(prefix string) *FakeRunner {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.rules = append(f.rules, rule{prefix: prefix, fail: true})
	return f
}

// Output makes Capture return out for commands starting with prefix.
func (f *FakeRunner) Output(prefix, out string) *FakeRunner {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.rules = append(f.rules, rule{prefix: prefix, output: out})
	return f
}

func (f *FakeRunner) match(cmd runner.Command) (rule, bool) {
	s := cmd.String()
	for i := len(f.rules) - 1; i >= 0; i-- {
		if strings.HasPrefix(s, f.rules[i].prefix) {
			return f.rules[i], true
		}
	}
	return rule{}, false
}

// Run implements runner.Runner.
func (f *FakeRunner) Run(_ context.Context, cmd runner.Command) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.match(cmd)
	success := !(ok && r.fail)
	f.Calls = append(f.Calls, Call{Command: cmd, Success: success})
	return success
}

// Capture implements runner.Runner.
func (f *FakeRunner) Capture(_ context.Context, cmd runner.Command) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, _ := f.match(cmd)
	f.Calls = append(f.Calls, Call{Command: cmd, Captured: true, Success: !r.fail})
	return runner.TrimOutput(r.output)
}

// RunSequence implements runner.Runner.
func (f *FakeRunner) RunSequence(ctx context.Context, cmds ...runner.Command) bool {
	return runner.Sequence(ctx, f, cmds...)
}

// Commands returns the rendered command lines in call order.
func (f *FakeRunner) Commands() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.Calls))
	for i, c := range f.Calls {
		out[i] = c.Command.String()
	}
	return out
}

// Ran reports whether any command starting with prefix was executed.
func (f *FakeRunner) Ran(prefix string) bool {
	return f.Find(prefix) != nil
}

// Find returns the first recorded command starting with prefix.
func (f *FakeRunner) Find(prefix string) *runner.Command {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, c := range f.Calls {
		if strings.HasPrefix(c.Command.String(), prefix) {
			cmd := c.Command
			return &cmd
		}
	}
	return nil
}

// Reset clears recorded calls but keeps rules.
func (f *FakeRunner) Reset() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Calls = nil
}
