package recipes

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/zipdatape/menu-scripts/internal/menu"
	"github.com/zipdatape/menu-scripts/internal/runner"
)

func validateMountPoint(s string) error {
	s = strings.TrimSpace(s)
	switch {
	case !filepath.IsAbs(s):
		return fmt.Errorf("enter an absolute path, e.g. /mnt/data")
	case filepath.Clean(s) == "/":
		return fmt.Errorf("the root directory can't be a mount point")
	case strings.ContainsAny(s, " \t"):
		return fmt.Errorf("mount points with spaces aren't supported in fstab")
	}
	return nil
}

// FstabEntry is the line that mounts part at mountPoint on boot.
func FstabEntry(part, mountPoint string) string {
	return fmt.Sprintf("%s %s ext4 defaults 0 0\n", part, mountPoint)
}

// newDiskCommands partitions dev with one ext4 partition spanning the
// disk, formats it and mounts it.
func newDiskCommands(dev, part, mountPoint string) []runner.Command {
	return []runner.Command{
		runner.Cmd("parted", "-s", dev, "mklabel", "gpt"),
		runner.Cmd("parted", "-s", dev, "mkpart", "primary", "ext4", "0%", "100%"),
		runner.Cmd("mkfs.ext4", "-F", part),
		runner.Cmd("mkdir", "-p", mountPoint),
		runner.Cmd("mount", part, mountPoint),
	}
}

func (d *Deps) configureNewDisk(ctx context.Context) menu.Result {
	disks := d.Env.Disks(ctx)
	labels := make([]string, len(disks))
	for i, disk := range disks {
		labels[i] = disk.Label()
	}

	idx, ok, err := d.Menu.ChooseOr(ctx, "Available disks", "No disks found.", labels)
	if err != nil {
		return interrupted(err)
	}
	if !ok {
		return menu.Cancelled()
	}

	mountPoint, err := d.Prompt.Input("Mount point", "/mnt/data", validateMountPoint)
	if err != nil {
		return interrupted(err)
	}
	mountPoint = filepath.Clean(strings.TrimSpace(mountPoint))

	dev := "/dev/" + disks[idx].Name
	part := partitionDevice(dev, "1")
	sure, err := d.Prompt.Confirm(fmt.Sprintf("All data on %s will be erased. Continue?", dev))
	if err != nil {
		return interrupted(err)
	}
	if !sure {
		return menu.Cancelled()
	}

	steps := d.steps(2)
	formatted := d.long(ctx, "Partitioning and formatting "+dev, newDiskCommands(dev, part, mountPoint)...)
	if !steps.Report(formatted, fmt.Sprintf("%s formatted and mounted on %s", part, mountPoint)) {
		return menu.Failure("Failed to configure " + dev)
	}

	if err := d.appendFile(d.Config.Disk.Fstab, FstabEntry(part, mountPoint), 0644); err != nil {
		d.logf().Error("%v", err)
		steps.Report(false, "fstab entry for "+part)
		return menu.Failure(dev + " is mounted but " + d.Config.Disk.Fstab + " couldn't be updated")
	}
	steps.Report(true, "fstab entry added for "+part)
	return menu.Success(fmt.Sprintf("Disk %s configured and mounted on %s", dev, mountPoint))
}
