package recipes

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/zipdatape/menu-scripts/internal/menu"
	"github.com/zipdatape/menu-scripts/internal/runner"
)

const multipathConfPath = "/etc/multipath.conf"

const multipathConf = `defaults {
    user_friendly_names yes
    find_multipaths yes
}

blacklist {
    devnode "^sda$"
}

devices {
    device {
        vendor ".*"
        product ".*"
        path_grouping_policy "multibus"
        getuid_callout "/lib/udev/scsi_id --whitelisted --device=/dev/%n"
        path_selector "round-robin 0"
        path_checker "readsector0"
        features "1 queue_if_no_path"
        hardware_handler "0"
        prio "const"
        failback "immediate"
    }
}
`

func (d *Deps) configureMultipath(ctx context.Context) menu.Result {
	const failed = "Failed to configure multipathd"

	ok := d.install(ctx, "multipath-tools") &&
		d.Services.Restart(ctx, "multipathd") &&
		d.Runner.RunSequence(ctx,
			runner.Cmd("multipath", "-F"),
			runner.Cmd("multipath", "-v2"),
		)
	if !ok {
		return menu.Failure(failed)
	}

	if err := d.writeFile(multipathConfPath, multipathConf, 0644); err != nil {
		d.logf().Error("%v", err)
		return menu.Failure(failed)
	}

	return outcome(d.Services.Restart(ctx, "multipathd"), "multipathd configured", failed)
}

func (d *Deps) configureTimezone(ctx context.Context) menu.Result {
	tz := d.Config.Timezone
	ok := d.Runner.Run(ctx, runner.Cmd("timedatectl", "set-timezone", tz))
	return outcome(ok, "Timezone set to "+tz, "Failed to set timezone to "+tz)
}

// expandDisk grows the configured partition and then its filesystem,
// reporting each half separately.
func (d *Deps) expandDisk(ctx context.Context) menu.Result {
	dev := d.Config.Disk.ExpandDevice
	part := strconv.Itoa(d.Config.Disk.ExpandPartition)

	steps := d.steps(2)
	grown := d.install(ctx, "cloud-guest-utils") &&
		d.Runner.Run(ctx, runner.Cmd("growpart", dev, part))
	if !steps.Report(grown, "Disk partition expanded") {
		return menu.Failure("Failed to expand the disk partition")
	}

	resized := d.Runner.Run(ctx, runner.Cmd("resize2fs", partitionDevice(dev, part)))
	steps.Report(resized, "Filesystem expanded")
	return outcome(resized, "Disk expanded", "Failed to expand the filesystem")
}

// partitionDevice names partition n of dev, adding the "p" separator that
// nvme and mmc devices use.
func partitionDevice(dev, n string) string {
	if len(dev) > 0 && dev[len(dev)-1] >= '0' && dev[len(dev)-1] <= '9' {
		return dev + "p" + n
	}
	return dev + n
}

// cronSuggestions are offered when configuring the optimization job.
var cronSuggestions = []string{
	"echo 3 > /proc/sys/vm/drop_caches",
	"sync; echo 3 > /proc/sys/vm/drop_caches",
	"sysctl -w vm.drop_caches=3",
	"/sbin/sysctl -w vm.drop_caches=3",
}

// validateSchedule accepts the five time fields of a crontab line or an
// @-shortcut such as @daily.
func validateSchedule(s string) error {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "@") {
		switch s {
		case "@reboot", "@yearly", "@annually", "@monthly", "@weekly", "@daily", "@midnight", "@hourly":
			return nil
		}
		return fmt.Errorf("unknown schedule shortcut %s", s)
	}
	fields := strings.Fields(s)
	if len(fields) != 5 {
		return fmt.Errorf("a schedule has 5 fields (minute hour day month weekday), got %d", len(fields))
	}
	for _, f := range fields {
		if !validScheduleField(f) {
			return fmt.Errorf("invalid schedule field %q", f)
		}
	}
	return nil
}

// validScheduleField accepts numbers, '*' and month or weekday names
// combined with lists, ranges and steps.
func validScheduleField(f string) bool {
	parts := strings.FieldsFunc(f, func(r rune) bool { return r == ',' || r == '-' || r == '/' })
	if len(parts) == 0 {
		return false
	}
	for _, p := range parts {
		if p == "*" || isNamedField(p) {
			continue
		}
		if _, err := strconv.Atoi(p); err != nil {
			return false
		}
	}
	return true
}

func isNamedField(f string) bool {
	f = strings.ToLower(f)
	names := []string{"jan", "feb", "mar", "apr", "may", "jun", "jul", "aug", "sep", "oct", "nov", "dec",
		"sun", "mon", "tue", "wed", "thu", "fri", "sat"}
	for _, n := range names {
		if f == n {
			return true
		}
	}
	return false
}

func validateCronCommand(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return fmt.Errorf("command is required")
	}
	if strings.ContainsAny(s, "\n\r") {
		return fmt.Errorf("command must fit on one line")
	}
	return nil
}

// CronLine renders an /etc/cron.d entry. Percent signs are escaped since
// cron treats them as newlines.
func CronLine(schedule, user, command string) string {
	command = strings.ReplaceAll(strings.TrimSpace(command), "%", `\%`)
	return fmt.Sprintf("%s %s %s\n", strings.Join(strings.Fields(schedule), " "), user, command)
}

func (d *Deps) configureCron(ctx context.Context) menu.Result {
	d.say("Suggested commands to optimize the system:")
	for i, s := range cronSuggestions {
		d.say("  %d. %s", i+1, s)
	}
	d.say("")

	command, err := d.Prompt.Input("Command for the cron job", cronSuggestions[1], validateCronCommand)
	if err != nil {
		return interrupted(err)
	}
	schedule, err := d.Prompt.Input("Schedule, e.g. '0 3 * * *' for every day at 3am", "0 3 * * *", validateSchedule)
	if err != nil {
		return interrupted(err)
	}

	path := d.Config.Cron.File
	if err := d.writeFile(path, CronLine(schedule, d.Config.Cron.User, command), 0644); err != nil {
		d.logf().Error("%v", err)
		return menu.Failure("Failed to write " + path)
	}

	return outcome(d.Services.Restart(ctx, "cron"), "Cron job configured", "Cron job written but cron failed to restart")
}
