package recipes

import (
	"context"
	"fmt"
	"strings"

	"github.com/zipdatape/menu-scripts/internal/menu"
	"github.com/zipdatape/menu-scripts/internal/runner"
	"github.com/zipdatape/menu-scripts/internal/services"
)

// aptGet runs apt-get without interactive debconf questions.
func aptGet(args ...string) runner.Command {
	return runner.Cmd("apt-get", args...).WithEnv("DEBIAN_FRONTEND=noninteractive")
}

func aptUpdate() runner.Command {
	return aptGet("update")
}

func aptInstall(pkgs ...string) runner.Command {
	return aptGet(append([]string{"install", "-y"}, pkgs...)...)
}

// install refreshes the package index and installs pkgs.
func (d *Deps) install(ctx context.Context, pkgs ...string) bool {
	return d.long(ctx, "Installing "+strings.Join(pkgs, " "), aptUpdate(), aptInstall(pkgs...))
}

// ParseMadison extracts the version column from `apt-cache madison` output,
// keeping the first occurrence of each version.
func ParseMadison(out string) []string {
	var versions []string
	seen := make(map[string]bool)
	for _, line := range strings.Split(out, "\n") {
		parts := strings.Split(line, "|")
		if len(parts) < 2 {
			continue
		}
		v := strings.TrimSpace(parts[1])
		if v == "" || seen[v] {
			continue
		}
		seen[v] = true
		versions = append(versions, v)
	}
	return versions
}

// pickVersion lists the versions apt knows for pkg and lets the operator
// choose one. ok is false when the operator went back.
func (d *Deps) pickVersion(ctx context.Context, pkg string) (version string, ok bool, err error) {
	versions := ParseMadison(d.Runner.Capture(ctx, runner.Cmd("apt-cache", "madison", pkg)))
	idx, ok, err := d.Menu.ChooseOr(ctx,
		fmt.Sprintf("Available versions of %s", pkg),
		fmt.Sprintf("No versions available for %s.", pkg),
		versions)
	if err != nil || !ok {
		return "", false, err
	}
	return versions[idx], true, nil
}

// installPackage returns an operation that installs a single package.
func (d *Deps) installPackage(name, pkg string) menu.Operation {
	return menu.Operation{Name: name, Run: func(ctx context.Context) menu.Result {
		return outcome(d.install(ctx, pkg), pkg+" installed", "Failed to install "+pkg)
	}}
}

// versionedInstall installs pkg at an operator-picked version plus extras,
// then starts and enables unit when it is set.
func (d *Deps) versionedInstall(ctx context.Context, pkg string, extras []string, unit, label string) menu.Result {
	version, ok, err := d.pickVersion(ctx, pkg)
	if err != nil {
		return interrupted(err)
	}
	if !ok {
		return menu.Cancelled()
	}

	pkgs := append([]string{pkg + "=" + version}, extras...)
	if !d.install(ctx, pkgs...) {
		return menu.Failure("Failed to install " + label)
	}
	if unit != "" && !services.StartAndEnable(ctx, d.Services, unit) {
		return menu.Failure(label + " installed but the " + unit + " service failed to start")
	}
	return menu.Success(label + " " + version + " installed")
}
