// Package sysinfo answers questions about the machine the menu runs on:
// who is running it, which login users, network interfaces and disks exist.
//
// An Environment is built once at startup and handed to every recipe, so
// tests can point it at temporary files instead of the live system.
package sysinfo

import (
	"bufio"
	"context"
	"fmt"
	"net/netip"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"

	"github.com/zipdatape/menu-scripts/internal/config"
	"github.com/zipdatape/menu-scripts/internal/runner"
)

// User is a login account with a home directory under the home root.
type User struct {
	Name string
	Home string
}

// Disk is a whole block device as listed by lsblk.
type Disk struct {
	Name string
	Size string
}

// Label renders the disk the way pickers show it.
func (d Disk) Label() string {
	if d.Size == "" {
		return d.Name
	}
	return d.Name + " (" + d.Size + ")"
}

// Environment probes the local system.
type Environment struct {
	Runner      runner.Runner
	PasswdFile  string
	SysClassNet string
	HomeRoot    string

	// Euid returns the effective user id.
	Euid func() int
	// LookPath resolves a program name against PATH.
	LookPath func(file string) (string, error)
}

// New creates an Environment reading the paths from cfg.
func New(r runner.Runner, paths config.PathsConfig) *Environment {
	return &Environment{
		Runner:      r,
		PasswdFile:  paths.Passwd,
		SysClassNet: paths.SysClassNet,
		HomeRoot:    paths.HomeRoot,
		Euid:        os.Geteuid,
		LookPath:    exec.LookPath,
	}
}

// IsRoot reports whether the process runs with an effective uid of 0.
func (e *Environment) IsRoot() bool {
	return e.Euid() == 0
}

// HasCommand reports whether name resolves on PATH.
func (e *Environment) HasCommand(name string) bool {
	_, err := e.LookPath(name)
	return err == nil
}

// HomeUsers lists passwd entries whose home directory sits directly under
// the home root, in file order.
func (e *Environment) HomeUsers() ([]User, error) {
	f, err := os.Open(e.PasswdFile)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", e.PasswdFile, err)
	}
	defer f.Close()

	root := strings.TrimSuffix(e.HomeRoot, "/") + "/"
	var users []User
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Split(line, ":")
		if len(fields) < 6 || fields[0] == "" {
			continue
		}
		home := fields[5]
		if !strings.HasPrefix(home, root) || strings.Contains(strings.TrimPrefix(home, root), "/") {
			continue
		}
		users = append(users, User{Name: fields[0], Home: home})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read %s: %w", e.PasswdFile, err)
	}
	return users, nil
}

// Interfaces lists network interface names except loopback, sorted.
func (e *Environment) Interfaces() ([]string, error) {
	entries, err := os.ReadDir(e.SysClassNet)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", e.SysClassNet, err)
	}
	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.Name() == "lo" {
			continue
		}
		names = append(names, entry.Name())
	}
	sort.Strings(names)
	return names, nil
}

// HasInterface reports whether name is a known interface.
func (e *Environment) HasInterface(name string) bool {
	_, err := os.Stat(filepath.Join(e.SysClassNet, name))
	return err == nil
}

// Disks lists whole disks, skipping loop devices.
func (e *Environment) Disks(ctx context.Context) []Disk {
	out := e.Runner.Capture(ctx, runner.Cmd("lsblk", "-dn", "-o", "NAME,SIZE"))
	return ParseDisks(out)
}

// ParseDisks parses `lsblk -dn -o NAME,SIZE` output.
func ParseDisks(out string) []Disk {
	var disks []Disk
	for _, line := range strings.Split(out, "\n") {
		fields := strings.Fields(line)
		if len(fields) == 0 || strings.HasPrefix(fields[0], "loop") {
			continue
		}
		d := Disk{Name: fields[0]}
		if len(fields) > 1 {
			d.Size = fields[1]
		}
		disks = append(disks, d)
	}
	return disks
}

// DefaultGateway returns the IPv4 default gateway, or "" when there is none.
func (e *Environment) DefaultGateway(ctx context.Context) string {
	out := e.Runner.Capture(ctx, runner.Cmd("ip", "-4", "route", "show", "default"))
	return ParseGateway(out)
}

// ParseGateway extracts the address after "via" from `ip route` output.
func ParseGateway(out string) string {
	for _, line := range strings.Split(out, "\n") {
		fields := strings.Fields(line)
		if len(fields) < 3 || fields[0] != "default" {
			continue
		}
		for i := 1; i < len(fields)-1; i++ {
			if fields[i] != "via" {
				continue
			}
			if addr, err := netip.ParseAddr(fields[i+1]); err == nil {
				return addr.String()
			}
		}
	}
	return ""
}

// Address returns the first IPv4 address of iface in CIDR form, or "".
func (e *Environment) Address(ctx context.Context, iface string) string {
	out := e.Runner.Capture(ctx, runner.Cmd("ip", "-o", "-4", "addr", "show", "dev", iface))
	return ParseAddress(out)
}

// ParseAddress extracts the prefix after "inet" from `ip addr` output.
func ParseAddress(out string) string {
	fields := strings.Fields(out)
	for i := 0; i < len(fields)-1; i++ {
		if fields[i] != "inet" {
			continue
		}
		if prefix, err := netip.ParsePrefix(fields[i+1]); err == nil {
			return prefix.String()
		}
	}
	return ""
}
