package cli

import (
	"os"

	"github.com/spf13/cobra"
)

// NoUpdateCheckEnv disables the startup release check when set to "1".
const NoUpdateCheckEnv = "MENU_NO_UPDATE_CHECK"

// GlobalFlags holds the persistent flags shared by every command.
type GlobalFlags struct {
	ConfigPath    string
	DryRun        bool
	NoColor       bool
	Verbose       bool
	NoUpdateCheck bool
}

// AddGlobalFlags registers --config, --dry-run, --no-color, --verbose and
// --no-update-check on cmd and its subcommands.
func AddGlobalFlags(cmd *cobra.Command, flags *GlobalFlags) {
	pf := cmd.PersistentFlags()
	pf.StringVar(&flags.ConfigPath, "config", "", "config file (default /etc/menu/config.yaml or ~/.config/menu/config.yaml)")
	pf.BoolVar(&flags.DryRun, "dry-run", false, "log commands and file writes instead of performing them")
	pf.BoolVar(&flags.NoColor, "no-color", false, "disable colored output")
	pf.BoolVarP(&flags.Verbose, "verbose", "v", false, "enable debug logging")
	pf.BoolVar(&flags.NoUpdateCheck, "no-update-check", false, "skip the startup release check")
}

// updateCheckDisabled reports whether the flag or the environment turned
// the release check off.
func (f GlobalFlags) updateCheckDisabled() bool {
	return f.NoUpdateCheck || os.Getenv(NoUpdateCheckEnv) == "1"
}
