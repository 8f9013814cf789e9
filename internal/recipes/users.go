package recipes

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"golang.org/x/crypto/ssh"

	"github.com/zipdatape/menu-scripts/internal/menu"
	"github.com/zipdatape/menu-scripts/internal/runner"
	"github.com/zipdatape/menu-scripts/internal/util"
)

var usernamePattern = regexp.MustCompile(`^[a-z_][a-z0-9_-]{0,31}$`)

func validateUsername(s string) error {
	if !usernamePattern.MatchString(strings.TrimSpace(s)) {
		return fmt.Errorf("use lowercase letters, digits, '-' or '_', starting with a letter, at most 32 characters")
	}
	return nil
}

// validateAuthorizedKey accepts an empty answer or one OpenSSH public key.
func validateAuthorizedKey(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	if _, _, _, _, err := ssh.ParseAuthorizedKey([]byte(s)); err != nil {
		return fmt.Errorf("not a valid public key: %w", err)
	}
	return nil
}

// createSSHUsers loops asking whether to add another user.
func (d *Deps) createSSHUsers(ctx context.Context) menu.Result {
	created, failed := 0, 0
	for {
		more, err := d.Prompt.Confirm("Create another SSH user?")
		if err != nil {
			return interrupted(err)
		}
		if !more {
			break
		}

		name, err := d.Prompt.Input("User name", "deploy", validateUsername)
		if err != nil {
			return interrupted(err)
		}
		name = strings.TrimSpace(name)
		password, err := d.Prompt.Password("Password for " + name)
		if err != nil {
			return interrupted(err)
		}
		key, err := d.Prompt.Input("Public key for "+name+" (optional)", "ssh-ed25519 AAAA...", validateAuthorizedKey)
		if err != nil {
			return interrupted(err)
		}

		ok := d.Runner.RunSequence(ctx,
			runner.Cmd("adduser", "--gecos", "", "--disabled-password", name),
			runner.Cmd("chpasswd").WithStdin(name+":"+password+"\n"),
		)
		if ok && strings.TrimSpace(key) != "" {
			ok = d.installAuthorizedKey(ctx, name, strings.TrimSpace(key))
		}

		if ok {
			created++
			d.say("%s", statusLine(true, "SSH user "+name+" created"))
		} else {
			failed++
			d.say("%s", statusLine(false, "Failed to create SSH user "+name))
		}
	}
	return tally(created, failed, "SSH user")
}

// installAuthorizedKey adds key to the user's authorized_keys with the
// permissions sshd insists on.
func (d *Deps) installAuthorizedKey(ctx context.Context, name, key string) bool {
	sshDir := filepath.Join(d.Config.Paths.HomeRoot, name, ".ssh")
	keys := filepath.Join(sshDir, "authorized_keys")

	if !d.DryRun {
		if err := os.MkdirAll(sshDir, 0700); err != nil {
			d.logf().Error("create %s: %v", sshDir, err)
			return false
		}
	}
	if err := d.appendFile(keys, key+"\n", 0600); err != nil {
		d.logf().Error("%v", err)
		return false
	}
	return d.Runner.Run(ctx, runner.Cmd("chown", "-R", name+":"+name, sshDir))
}

const profileMarker = "# SSH command logging for "

// LoggingProfile is the .profile snippet that records every command a
// user runs into their daily log file.
func LoggingProfile(user, logDir string) string {
	logFile := fmt.Sprintf("%s/ssh_commands_%s_$(date +%%Y%%m%%d).log", logDir, user)
	return fmt.Sprintf(`
%[1]s%[2]s
LOG_DIR=%[3]s
LOG_FILE="%[4]s"

touch "${LOG_FILE}" 2>/dev/null
chmod 666 "${LOG_FILE}" 2>/dev/null

echo "Session started by $(whoami) on $(date)" >> "${LOG_FILE}"
echo "------------------------------------------------------------" >> "${LOG_FILE}"

PROMPT_COMMAND='echo "$(date "+%%Y-%%m-%%d %%T") $(whoami) $(history 1)" >> "${LOG_FILE}"'
`, profileMarker, user, logDir, logFile)
}

// configureSSHLogging lets the operator pick users one at a time until
// they choose Back.
func (d *Deps) configureSSHLogging(ctx context.Context) menu.Result {
	configured := 0
	for {
		users, err := d.Env.HomeUsers()
		if err != nil {
			d.logf().Error("%v", err)
			return menu.Failure("Couldn't read the user list")
		}
		names := make([]string, len(users))
		for i, u := range users {
			names[i] = u.Name
		}

		idx, ok, err := d.Menu.ChooseOr(ctx, "System users", "No users with a home directory found.", names)
		if err != nil {
			return interrupted(err)
		}
		if !ok {
			break
		}

		user := users[idx]
		if err := d.enableSSHLogging(user.Name, user.Home); err != nil {
			d.logf().Error("%v", err)
			d.say("%s", statusLine(false, "Failed to configure SSH logging for "+user.Name))
			continue
		}
		configured++
		d.say("%s", statusLine(true, "SSH logging configured for "+user.Name))
	}

	if configured == 0 {
		return menu.Cancelled()
	}
	return menu.Success(fmt.Sprintf("SSH logging configured for %d %s", configured, util.Pluralize(configured, "user", "users")))
}

// enableSSHLogging creates the per-user log directory, adds the profile
// snippet once and links the current day's log from ~/monitoring.
func (d *Deps) enableSSHLogging(user, home string) error {
	logDir := filepath.Join(d.Config.SSHLogging.LogDir, user)
	profile := filepath.Join(home, ".profile")
	monitorDir := filepath.Join(home, "monitoring")
	link := filepath.Join(monitorDir, "ssh_commands.log")
	today := d.now().Format("20060102")
	target := filepath.Join(logDir, fmt.Sprintf("ssh_commands_%s_%s.log", user, today))

	if d.DryRun {
		d.logf().Info("[DRY-RUN] would configure SSH logging for %s in %s", user, logDir)
		return nil
	}

	if err := os.MkdirAll(logDir, 0777); err != nil {
		return fmt.Errorf("create %s: %w", logDir, err)
	}
	if err := os.Chmod(logDir, 0777); err != nil {
		return fmt.Errorf("chmod %s: %w", logDir, err)
	}
	f, err := os.OpenFile(target, os.O_CREATE|os.O_WRONLY, 0666)
	if err != nil {
		return fmt.Errorf("create %s: %w", target, err)
	}
	f.Close()
	if err := os.Chmod(target, 0666); err != nil {
		return fmt.Errorf("chmod %s: %w", target, err)
	}

	existing, err := os.ReadFile(profile)
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("read %s: %w", profile, err)
	}
	if !strings.Contains(string(existing), profileMarker+user+"\n") {
		if err := d.appendFile(profile, LoggingProfile(user, logDir), 0644); err != nil {
			return err
		}
	}

	if err := os.MkdirAll(monitorDir, 0755); err != nil {
		return fmt.Errorf("create %s: %w", monitorDir, err)
	}
	if err := os.Remove(link); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("replace %s: %w", link, err)
	}
	if err := os.Symlink(target, link); err != nil {
		return fmt.Errorf("link %s: %w", link, err)
	}
	return nil
}
