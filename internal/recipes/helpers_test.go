package recipes

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/zipdatape/menu-scripts/internal/config"
	"github.com/zipdatape/menu-scripts/internal/logger"
	"github.com/zipdatape/menu-scripts/internal/prompt"
	runnertest "github.com/zipdatape/menu-scripts/internal/runner/testing"
	"github.com/zipdatape/menu-scripts/internal/services"
	"github.com/zipdatape/menu-scripts/internal/sysinfo"
)

// scriptedPrompter answers prompts from a queue. Confirm consumes bools,
// Input and Password consume strings. An exhausted queue cancels.
type scriptedPrompter struct {
	answers []interface{}
	titles  []string
}

func answers(a ...interface{}) *scriptedPrompter {
	return &scriptedPrompter{answers: a}
}

func (p *scriptedPrompter) next(title string) (interface{}, error) {
	p.titles = append(p.titles, title)
	if len(p.answers) == 0 {
		return nil, prompt.ErrCancelled
	}
	a := p.answers[0]
	p.answers = p.answers[1:]
	if err, ok := a.(error); ok {
		return nil, err
	}
	return a, nil
}

func (p *scriptedPrompter) Confirm(title string) (bool, error) {
	a, err := p.next(title)
	if err != nil {
		return false, err
	}
	b, ok := a.(bool)
	if !ok {
		return false, fmt.Errorf("confirm %q got %v", title, a)
	}
	return b, nil
}

// Input skips answers that fail validation, like a re-prompt would.
func (p *scriptedPrompter) Input(title, _ string, validate func(string) error) (string, error) {
	for {
		a, err := p.next(title)
		if err != nil {
			return "", err
		}
		s, ok := a.(string)
		if !ok {
			return "", fmt.Errorf("input %q got %v", title, a)
		}
		if validate != nil && validate(s) != nil {
			continue
		}
		return s, nil
	}
}

func (p *scriptedPrompter) Password(title string) (string, error) {
	return p.Input(title, "", nil)
}

// back is the fakeChooser pick for the Back entry.
const back = -1

// fakeChooser picks options from a queue of indexes.
type fakeChooser struct {
	picks   []int
	titles  []string
	options [][]string
}

func (c *fakeChooser) Choose(ctx context.Context, title string, options []string) (int, bool, error) {
	return c.ChooseOr(ctx, title, "", options)
}

func (c *fakeChooser) ChooseOr(_ context.Context, title, _ string, options []string) (int, bool, error) {
	c.titles = append(c.titles, title)
	c.options = append(c.options, options)
	if len(c.picks) == 0 || len(options) == 0 {
		return 0, false, nil
	}
	pick := c.picks[0]
	c.picks = c.picks[1:]
	if pick == back {
		return 0, false, nil
	}
	return pick, true, nil
}

type testDeps struct {
	*Deps
	fake    *runnertest.FakeRunner
	out     *bytes.Buffer
	log     *logger.BufferLogger
	chooser *fakeChooser
	root    string
}

// newTestDeps points every configured path into a temp dir.
func newTestDeps(t *testing.T, p *scriptedPrompter, picks ...int) *testDeps {
	t.Helper()
	root := t.TempDir()

	cfg := config.DefaultConfig()
	cfg.Docker.InstallPath = filepath.Join(root, "bin", "docker-compose")
	cfg.SSHLogging.LogDir = filepath.Join(root, "log", "ssh_commands")
	cfg.Network.NetplanDir = filepath.Join(root, "netplan")
	cfg.Network.InterfacesFile = filepath.Join(root, "network", "interfaces")
	cfg.Network.InterfacesDir = filepath.Join(root, "network", "interfaces.d")
	cfg.Disk.Fstab = filepath.Join(root, "fstab")
	cfg.Cron.File = filepath.Join(root, "cron.d", "optimize_system")
	cfg.Update.Dir = filepath.Join(root, "src")
	cfg.Paths = config.PathsConfig{
		Passwd:      filepath.Join(root, "passwd"),
		SysClassNet: filepath.Join(root, "net"),
		HomeRoot:    filepath.Join(root, "home"),
	}

	fake := runnertest.NewFakeRunner()
	env := sysinfo.New(fake, cfg.Paths)
	env.LookPath = func(file string) (string, error) { return "/usr/bin/" + file, nil }

	out := &bytes.Buffer{}
	log := logger.NewBufferLogger()
	chooser := &fakeChooser{picks: picks}
	if p == nil {
		p = answers()
	}

	d := &Deps{
		Menu:     chooser,
		Runner:   fake,
		Services: services.NewSystemctl(fake),
		Prompt:   p,
		Env:      env,
		Config:   cfg,
		Log:      log,
		Out:      out,
		Now:      func() time.Time { return time.Date(2024, 3, 9, 10, 0, 0, 0, time.UTC) },
	}
	return &testDeps{Deps: d, fake: fake, out: out, log: log, chooser: chooser, root: root}
}

func writeTestFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func readTestFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}
