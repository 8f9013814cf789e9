package doctor

import (
	"context"
	stderrors "errors"
	"fmt"
	"os"
	"strings"

	"github.com/zipdatape/menu-scripts/internal/config"
	"github.com/zipdatape/menu-scripts/internal/errors"
	"github.com/zipdatape/menu-scripts/internal/logger"
	"github.com/zipdatape/menu-scripts/internal/services"
	"github.com/zipdatape/menu-scripts/internal/sysinfo"
)

// RequiredCommands are the tools most recipes run.
var RequiredCommands = []string{"apt-get", "systemctl", "lsblk", "ip", "mount", "timedatectl"}

// OptionalCommands map a tool to the menu entry that needs it.
var OptionalCommands = map[string]string{
	"docker": "Deploy Selenium hub with a Firefox node",
	"git":    "Update menu",
	"go":     "Update menu",
}

// PrivilegeCheck verifies the effective user is root.
type PrivilegeCheck struct {
	Env *sysinfo.Environment
}

func (c *PrivilegeCheck) Name() string     { return "privileges" }
func (c *PrivilegeCheck) Category() string { return "SYSTEM" }

func (c *PrivilegeCheck) Run(context.Context) CheckResult {
	if !c.Env.IsRoot() {
		return CheckResult{
			Name:       c.Name(),
			Status:     StatusFail,
			Message:    fmt.Sprintf("Running as uid %d", c.Env.Euid()),
			Suggestion: "Run menu as root or with sudo",
		}
	}
	return CheckResult{Name: c.Name(), Status: StatusPass, Message: "Running as root"}
}

// CommandCheck verifies a tool resolves on PATH. Missing required tools
// fail, missing optional ones warn.
type CommandCheck struct {
	Env      *sysinfo.Environment
	Command  string
	Required bool
	// UsedBy names the entry that needs an optional tool.
	UsedBy string
}

func (c *CommandCheck) Name() string     { return "command_" + c.Command }
func (c *CommandCheck) Category() string { return "COMMANDS" }

func (c *CommandCheck) Run(context.Context) CheckResult {
	path, err := c.Env.LookPath(c.Command)
	if err == nil {
		return CheckResult{
			Name:    c.Name(),
			Status:  StatusPass,
			Message: fmt.Sprintf("%s (%s)", c.Command, path),
		}
	}
	if c.Required {
		return CheckResult{
			Name:       c.Name(),
			Status:     StatusFail,
			Message:    fmt.Sprintf("%s not found", c.Command),
			Suggestion: "Most entries need it. Install the package that provides " + c.Command,
		}
	}
	return CheckResult{
		Name:       c.Name(),
		Status:     StatusWarn,
		Message:    fmt.Sprintf("%s not found", c.Command),
		Suggestion: fmt.Sprintf("Needed by %q", c.UsedBy),
	}
}

// ConfigCheck verifies the config file loads and validates.
type ConfigCheck struct {
	Path string
}

func (c *ConfigCheck) Name() string     { return "config" }
func (c *ConfigCheck) Category() string { return "CONFIG" }

func (c *ConfigCheck) Run(context.Context) CheckResult {
	cfg, path, err := config.LoadOrDefault(c.Path)
	if err == nil {
		err = config.Validate(cfg)
	}
	if err != nil {
		message, suggestion := describe(err)
		return CheckResult{
			Name:       c.Name(),
			Status:     StatusFail,
			Message:    message,
			Suggestion: suggestion,
		}
	}
	if path == "" {
		return CheckResult{Name: c.Name(), Status: StatusPass, Message: "No config file, using defaults"}
	}
	return CheckResult{Name: c.Name(), Status: StatusPass, Message: "Config file: " + path}
}

// describe splits a structured error into one-line message and suggestion.
func describe(err error) (string, string) {
	var e *errors.Error
	if stderrors.As(err, &e) {
		return e.Message, e.Suggestion
	}
	return err.Error(), ""
}

// PathsCheck verifies the system files recipes read exist.
type PathsCheck struct {
	Paths config.PathsConfig
}

func (c *PathsCheck) Name() string     { return "paths" }
func (c *PathsCheck) Category() string { return "CONFIG" }

func (c *PathsCheck) Run(context.Context) CheckResult {
	var missing []string
	for _, p := range []string{c.Paths.Passwd, c.Paths.SysClassNet, c.Paths.HomeRoot} {
		if p == "" {
			continue
		}
		if _, err := os.Stat(p); err != nil {
			missing = append(missing, p)
		}
	}
	if len(missing) > 0 {
		return CheckResult{
			Name:       c.Name(),
			Status:     StatusWarn,
			Message:    "Missing: " + strings.Join(missing, ", "),
			Suggestion: "Set paths in the config file if this system keeps them elsewhere",
		}
	}
	return CheckResult{Name: c.Name(), Status: StatusPass, Message: "System paths present"}
}

// ServiceManagerCheck verifies the systemd bus is reachable. Without it
// services are managed through systemctl.
type ServiceManagerCheck struct {
	// Dial replaces the bus connection in tests.
	Dial func(ctx context.Context) (services.Manager, error)
}

func (c *ServiceManagerCheck) Name() string     { return "systemd_bus" }
func (c *ServiceManagerCheck) Category() string { return "SYSTEM" }

func (c *ServiceManagerCheck) Run(ctx context.Context) CheckResult {
	dial := c.Dial
	if dial == nil {
		dial = func(ctx context.Context) (services.Manager, error) {
			return services.NewSystemd(ctx, logger.Noop())
		}
	}
	m, err := dial(ctx)
	if err != nil {
		return CheckResult{
			Name:       c.Name(),
			Status:     StatusWarn,
			Message:    "systemd bus unreachable, falling back to systemctl",
			Suggestion: fmt.Sprintf("Error: %v", err),
		}
	}
	m.Close()
	return CheckResult{Name: c.Name(), Status: StatusPass, Message: "systemd bus reachable"}
}

// NewChecks builds the full set of local checks.
func NewChecks(env *sysinfo.Environment, configPath string, paths config.PathsConfig) []Check {
	checks := []Check{
		&PrivilegeCheck{Env: env},
		&ServiceManagerCheck{},
		&ConfigCheck{Path: configPath},
		&PathsCheck{Paths: paths},
	}
	for _, name := range RequiredCommands {
		checks = append(checks, &CommandCheck{Env: env, Command: name, Required: true})
	}
	for _, name := range []string{"docker", "git", "go"} {
		checks = append(checks, &CommandCheck{Env: env, Command: name, UsedBy: OptionalCommands[name]})
	}
	return checks
}
