package recipes

import (
	"context"
	"os"
	"path/filepath"

	"github.com/zipdatape/menu-scripts/internal/menu"
	"github.com/zipdatape/menu-scripts/internal/runner"
)

// syncCommand clones repo into dir, or pulls when dir is already a checkout.
func syncCommand(repo, dir string) runner.Command {
	if _, err := os.Stat(filepath.Join(dir, ".git")); err == nil {
		return runner.Cmd("git", "-C", dir, "pull", "--ff-only")
	}
	return runner.Cmd("git", "clone", repo, dir)
}

// selfUpdate rebuilds the running binary from the latest sources and ends
// the session so the operator starts the new version.
func (d *Deps) selfUpdate(ctx context.Context) menu.Result {
	cfg := d.Config.Update
	if !d.Env.HasCommand("git") {
		return menu.Failure("git is not installed. Install it from the main menu first")
	}
	if !d.Env.HasCommand("go") {
		return menu.Failure("The Go toolchain is required to rebuild the menu")
	}

	executable := os.Executable
	if d.Executable != nil {
		executable = d.Executable
	}
	target, err := executable()
	if err != nil {
		d.logf().Error("locate executable: %v", err)
		return menu.Failure("Couldn't find the running executable")
	}
	if resolved, err := filepath.EvalSymlinks(target); err == nil {
		target = resolved
	}

	steps := d.steps(2)
	synced := d.long(ctx, "Fetching "+cfg.Repo, syncCommand(cfg.Repo, cfg.Dir))
	if !steps.Report(synced, "Sources updated in "+cfg.Dir) {
		return menu.Failure("Failed to fetch " + cfg.Repo)
	}

	// The running binary can't be overwritten in place, so build beside it
	// and rename over it.
	staged := target + ".new"
	built := d.long(ctx, "Building the menu",
		runner.Cmd("go", "build", "-o", staged, "./cmd/menu").InDir(cfg.Dir))
	if built && !d.DryRun {
		if err := os.Rename(staged, target); err != nil {
			d.logf().Error("replace %s: %v", target, err)
			if err := os.Remove(staged); err != nil {
				d.logf().Warn("remove %s: %v", staged, err)
			}
			built = false
		}
	}
	if !steps.Report(built, "Installed "+target) {
		return menu.Failure("Failed to build the updated menu")
	}
	return menu.Quit("Menu updated. Run it again to use the new version")
}
