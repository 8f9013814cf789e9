package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"github.com/zipdatape/menu-scripts/internal/config"
	"github.com/zipdatape/menu-scripts/internal/doctor"
	"github.com/zipdatape/menu-scripts/internal/errors"
	"github.com/zipdatape/menu-scripts/internal/logger"
	"github.com/zipdatape/menu-scripts/internal/runner"
	"github.com/zipdatape/menu-scripts/internal/sysinfo"
	"github.com/zipdatape/menu-scripts/internal/ui"
)

var doctorJSON bool

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check this machine can run the menu recipes",
	Long: `Check privileges, the system tools recipes run, the config file and the
systemd bus. Runs nothing that changes the system.

Exits with status 1 when a required check fails.

Examples:
  sudo menu doctor
  menu doctor --json`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if globalFlags.NoColor {
			ui.DisableColors()
		}

		// A broken config is reported by its own check; paths fall back to
		// the defaults so the other checks still run.
		cfg, _, err := config.LoadOrDefault(globalFlags.ConfigPath)
		if err != nil {
			cfg = config.DefaultConfig()
		}
		env := sysinfo.New(runner.New(logger.Noop(), true), cfg.Paths)
		checks := doctor.NewChecks(env, globalFlags.ConfigPath, cfg.Paths)
		results := doctor.RunAll(cmd.Context(), checks)

		if doctorJSON {
			if err := writeDoctorJSON(cmd.OutOrStdout(), checks, results); err != nil {
				return err
			}
		} else {
			writeDoctorText(cmd.OutOrStdout(), checks, results)
		}

		if doctor.HasFailures(results) {
			return errors.NewExitError(1)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(doctorCmd)
	doctorCmd.Flags().BoolVar(&doctorJSON, "json", false, "output in JSON format")
}

// DoctorOutput is the JSON form of a doctor run.
type DoctorOutput struct {
	Categories []CategoryOutput `json:"categories"`
	Summary    SummaryOutput    `json:"summary"`
}

// CategoryOutput is one category of check results.
type CategoryOutput struct {
	Name    string               `json:"name"`
	Results []doctor.CheckResult `json:"results"`
}

// SummaryOutput counts the check results.
type SummaryOutput struct {
	Pass     int  `json:"pass"`
	Warn     int  `json:"warn"`
	Fail     int  `json:"fail"`
	AllClear bool `json:"all_clear"`
}

// groupResults pairs each category with its results, in check order.
func groupResults(checks []doctor.Check, results []doctor.CheckResult) []CategoryOutput {
	grouped := make(map[string][]doctor.CheckResult)
	for i, check := range checks {
		grouped[check.Category()] = append(grouped[check.Category()], results[i])
	}
	var out []CategoryOutput
	for _, cat := range doctor.Categories(checks) {
		out = append(out, CategoryOutput{Name: cat, Results: grouped[cat]})
	}
	return out
}

func writeDoctorJSON(w io.Writer, checks []doctor.Check, results []doctor.CheckResult) error {
	counts := doctor.CountByStatus(results)
	output := DoctorOutput{
		Categories: groupResults(checks, results),
		Summary: SummaryOutput{
			Pass:     counts[doctor.StatusPass],
			Warn:     counts[doctor.StatusWarn],
			Fail:     counts[doctor.StatusFail],
			AllClear: !doctor.HasIssues(results),
		},
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(output)
}

func writeDoctorText(w io.Writer, checks []doctor.Check, results []doctor.CheckResult) {
	headerStyle := lipgloss.NewStyle().Bold(true)

	fmt.Fprintln(w, ui.TitleStyle().Render("Menu Diagnostic Report"))
	fmt.Fprintln(w)

	for _, group := range groupResults(checks, results) {
		fmt.Fprintln(w, headerStyle.Render(group.Name))
		for _, result := range group.Results {
			writeCheckResult(w, result)
		}
		fmt.Fprintln(w)
	}

	fmt.Fprintln(w, strings.Repeat("━", 60))
	symbol := ui.SuccessStyle().Render(ui.SymbolSuccess)
	if doctor.HasIssues(results) {
		symbol = ui.ErrorStyle().Render(ui.SymbolFail)
	}
	fmt.Fprintf(w, "%s %s\n", symbol, doctor.Summary(results))
}

func writeCheckResult(w io.Writer, result doctor.CheckResult) {
	var symbol string
	switch result.Status {
	case doctor.StatusPass:
		symbol = ui.SuccessStyle().Render(ui.SymbolComplete)
	case doctor.StatusWarn:
		symbol = ui.WarningStyle().Render(ui.SymbolWarning)
	default:
		symbol = ui.ErrorStyle().Render(ui.SymbolFail)
	}

	fmt.Fprintf(w, "  %s %s\n", symbol, result.Message)
	if result.Suggestion != "" && result.Status != doctor.StatusPass {
		for _, line := range strings.Split(result.Suggestion, "\n") {
			fmt.Fprintf(w, "    %s\n", ui.MutedStyle().Render(line))
		}
	}
}
