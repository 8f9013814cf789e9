package services

import (
	"context"
	"fmt"
	"time"

	"github.com/coreos/go-systemd/v22/dbus"
	"github.com/zipdatape/menu-scripts/internal/logger"
)

// jobTimeout bounds how long a start or restart job may take.
const jobTimeout = 90 * time.Second

// Systemd manages units through the systemd D-Bus API.
type Systemd struct {
	conn *dbus.Conn
	log  logger.Logger
}

// NewSystemd opens a connection to the system bus.
func NewSystemd(ctx context.Context, log logger.Logger) (*Systemd, error) {
	conn, err := dbus.NewWithContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("connect to systemd: %w", err)
	}
	return &Systemd{conn: conn, log: log}, nil
}

// Start queues a start job for unit and waits for it to finish.
func (s *Systemd) Start(ctx context.Context, unit string) bool {
	return s.job(ctx, "start", unit, s.conn.StartUnitContext)
}

// Restart queues a restart job for unit and waits for it to finish.
func (s *Systemd) Restart(ctx context.Context, unit string) bool {
	return s.job(ctx, "restart", unit, s.conn.RestartUnitContext)
}

type jobFunc func(ctx context.Context, name, mode string, ch chan<- string) (int, error)

// job queues a unit job and waits for systemd to report its result.
func (s *Systemd) job(ctx context.Context, verb, unit string, queue jobFunc) bool {
	name := unitName(unit)
	ctx, cancel := context.WithTimeout(ctx, jobTimeout)
	defer cancel()

	ch := make(chan string, 1)
	if _, err := queue(ctx, name, "replace", ch); err != nil {
		s.log.Warn("%s %s: %v", verb, name, err)
		return false
	}

	select {
	case result := <-ch:
		s.log.Debug("%s %s: %s", verb, name, result)
		return result == "done"
	case <-ctx.Done():
		s.log.Warn("%s %s: %v", verb, name, ctx.Err())
		return false
	}
}

// Enable links unit into its install targets and reloads the daemon.
func (s *Systemd) Enable(ctx context.Context, unit string) bool {
	name := unitName(unit)
	if _, _, err := s.conn.EnableUnitFilesContext(ctx, []string{name}, false, true); err != nil {
		s.log.Warn("enable %s: %v", name, err)
		return false
	}
	if err := s.conn.ReloadContext(ctx); err != nil {
		s.log.Warn("daemon reload after enabling %s: %v", name, err)
		return false
	}
	return true
}

// IsActive reports whether unit is loaded and active.
func (s *Systemd) IsActive(ctx context.Context, unit string) bool {
	name := unitName(unit)
	units, err := s.conn.ListUnitsByNamesContext(ctx, []string{name})
	if err != nil {
		s.log.Debug("status %s: %v", name, err)
		return false
	}
	for _, u := range units {
		if u.Name == name {
			return u.ActiveState == "active"
		}
	}
	return false
}

// Close releases the bus connection.
func (s *Systemd) Close() {
	s.conn.Close()
}
