// Package services starts, restarts and enables init-system units.
//
// Recipes only care whether the action worked, so every method reports a
// bool the same way the command runner does.
package services

import (
	"context"
	"strings"

	"github.com/zipdatape/menu-scripts/internal/logger"
	"github.com/zipdatape/menu-scripts/internal/runner"
)

// Manager controls system services.
type Manager interface {
	Start(ctx context.Context, unit string) bool
	Restart(ctx context.Context, unit string) bool
	Enable(ctx context.Context, unit string) bool
	IsActive(ctx context.Context, unit string) bool
	Close()
}

// New connects to systemd over D-Bus and falls back to systemctl through
// r when the bus is unreachable. Dry runs always use systemctl so the
// runner can report what would happen.
func New(ctx context.Context, r runner.Runner, log logger.Logger, dryRun bool) Manager {
	if log == nil {
		log = logger.Noop()
	}
	if !dryRun {
		m, err := NewSystemd(ctx, log)
		if err == nil {
			return m
		}
		log.Debug("systemd bus unavailable, using systemctl: %v", err)
	}
	return NewSystemctl(r)
}

// StartAndEnable starts unit and enables it at boot. It stops at the first
// failure.
func StartAndEnable(ctx context.Context, m Manager, unit string) bool {
	return m.Start(ctx, unit) && m.Enable(ctx, unit)
}

// unitName appends ".service" to bare names.
func unitName(unit string) string {
	if strings.Contains(unit, ".") {
		return unit
	}
	return unit + ".service"
}

// Systemctl manages units by running systemctl.
type Systemctl struct {
	runner runner.Runner
}

// NewSystemctl creates a Manager that shells out to systemctl.
func NewSystemctl(r runner.Runner) *Systemctl {
	return &Systemctl{runner: r}
}

// Start runs systemctl start for unit.
func (s *Systemctl) Start(ctx context.Context, unit string) bool {
	return s.runner.Run(ctx, runner.Cmd("systemctl", "start", unit))
}

// Restart runs systemctl restart for unit.
func (s *Systemctl) Restart(ctx context.Context, unit string) bool {
	return s.runner.Run(ctx, runner.Cmd("systemctl", "restart", unit))
}

// Enable runs systemctl enable for unit.
func (s *Systemctl) Enable(ctx context.Context, unit string) bool {
	return s.runner.Run(ctx, runner.Cmd("systemctl", "enable", unit))
}

// IsActive reports whether systemctl considers unit active.
func (s *Systemctl) IsActive(ctx context.Context, unit string) bool {
	return s.runner.Run(ctx, runner.Cmd("systemctl", "is-active", "--quiet", unit))
}

// Close is a no-op; systemctl holds no connection.
func (s *Systemctl) Close() {}
