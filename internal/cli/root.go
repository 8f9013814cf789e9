package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/zipdatape/menu-scripts/internal/errors"
	"github.com/zipdatape/menu-scripts/internal/util"
	"golang.org/x/term"
)

var globalFlags GlobalFlags

// rootCmd runs the interactive session
var rootCmd = &cobra.Command{
	Use:   "menu",
	Short: "Interactive provisioning menu for Ubuntu servers",
	Long: `Menu walks an operator through common server provisioning tasks:
databases, web stack, firewall, users, network and disks.

It must run as root. Every step prompts for its parameters, runs the
underlying commands and reports a ✓ or ✗ status line.

Examples:
  sudo menu
  sudo menu --dry-run
  sudo menu --config ./menu.yaml`,
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSession(cmd.Context(), &session{
			flags: globalFlags,
			io: sessionIO{
				In:          cmd.InOrStdin(),
				Out:         cmd.OutOrStdout(),
				Err:         cmd.ErrOrStderr(),
				Interactive: isTerminal(os.Stdin) && isTerminal(os.Stdout),
			},
		})
	},
}

func init() {
	AddGlobalFlags(rootCmd, &globalFlags)
}

// Execute runs the root command. The returned error has already been
// printed; callers only map it to an exit code.
func Execute() error {
	err := rootCmd.Execute()
	if err == nil {
		return nil
	}
	if _, ok := errors.GetExitCode(err); ok {
		return err
	}

	if isUnknownCommandError(err) {
		fmt.Fprintln(os.Stderr, unknownCommandMessage(err))
		return err
	}
	fmt.Fprintln(os.Stderr, err.Error())
	return err
}

func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// isUnknownCommandError reports cobra's unknown command and flag errors.
func isUnknownCommandError(err error) bool {
	msg := err.Error()
	return strings.HasPrefix(msg, "unknown command") || strings.HasPrefix(msg, "unknown flag") ||
		strings.HasPrefix(msg, "unknown shorthand flag")
}

// extractUnknownCommand pulls the command name out of
// `unknown command "foo" for "menu"`.
func extractUnknownCommand(err error) string {
	msg := err.Error()
	start := strings.IndexByte(msg, '"')
	if start < 0 {
		return ""
	}
	end := strings.IndexByte(msg[start+1:], '"')
	if end < 0 {
		return ""
	}
	return msg[start+1 : start+1+end]
}

func unknownCommandMessage(err error) string {
	name := extractUnknownCommand(err)
	if name == "" || !strings.HasPrefix(err.Error(), "unknown command") {
		return "✗ " + err.Error() + "\n\n  Run 'menu --help' for usage."
	}

	var known []string
	for _, c := range rootCmd.Commands() {
		if !c.Hidden {
			known = append(known, c.Name())
		}
	}
	msg := fmt.Sprintf("✗ Unknown command %q", name)
	if similar := util.SuggestSimilar(name, known, 2); len(similar) > 0 {
		msg += "\n\n  Did you mean: " + strings.Join(similar, ", ") + "?"
	}
	return msg + "\n\n  Available commands: " + util.JoinOrNone(known)
}
