package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"github.com/zipdatape/menu-scripts/internal/config"
	"github.com/zipdatape/menu-scripts/internal/logger"
	"github.com/zipdatape/menu-scripts/internal/menu"
	"github.com/zipdatape/menu-scripts/internal/recipes"
	"github.com/zipdatape/menu-scripts/internal/runner"
	"github.com/zipdatape/menu-scripts/internal/ui"
)

var catalogPrintConfig bool

// catalogCmd prints the menu tree without running anything
var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Print the configured menu tree",
	Long: `Print the root menu and its submenus in the configured order, with the
catalog ID of every root entry. IDs are what catalog.order and
catalog.hidden in the config file refer to.

Does not require root and runs no commands.

Examples:
  menu catalog
  menu catalog --print-config > /etc/menu/config.yaml`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, _, err := loadConfig(globalFlags.ConfigPath)
		if err != nil {
			return err
		}
		if globalFlags.NoColor {
			ui.DisableColors()
		}

		if catalogPrintConfig {
			out, err := config.Dump(cfg)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), out)
			return nil
		}
		printCatalog(cmd.OutOrStdout(), cfg)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(catalogCmd)
	catalogCmd.Flags().BoolVar(&catalogPrintConfig, "print-config", false, "print the effective config as YAML instead")
}

// printCatalog renders the root menu the way the engine numbers it, with
// submenus indented below their entry.
func printCatalog(w io.Writer, cfg *config.Config) {
	d := &recipes.Deps{
		Config: cfg,
		Runner: runner.New(logger.Noop(), true),
		Log:    logger.Noop(),
		Out:    io.Discard,
		DryRun: true,
	}

	byID := make(map[string]recipes.Entry)
	for _, e := range recipes.Catalog(d) {
		byID[e.ID] = e
	}
	order := cfg.Catalog.ResolveOrder()

	fmt.Fprintln(w, ui.TitleStyle().Render(recipes.RootTitle))
	width := len(fmt.Sprint(len(order) + 1))
	for i, id := range order {
		e := byID[id]
		fmt.Fprintf(w, "%*d. %s  %s\n", width, i+1, e.Label, ui.MutedStyle().Render("("+id+")"))
		if sub, ok := e.Action.(menu.Submenu); ok {
			printSubmenu(w, sub.Build(), strings.Repeat(" ", width+2))
		}
	}
	fmt.Fprintf(w, "%*d. %s\n", width, len(order)+1, "Exit")

	if len(cfg.Catalog.Hidden) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, ui.MutedStyle().Render("Hidden: "+strings.Join(cfg.Catalog.Hidden, ", ")))
	}
}

func printSubmenu(w io.Writer, m *menu.Menu, indent string) {
	for i, item := range m.Items {
		fmt.Fprintf(w, "%s%d. %s\n", indent, i+1, item.Label)
		if sub, ok := item.Action.(menu.Submenu); ok {
			printSubmenu(w, sub.Build(), indent+"   ")
		}
	}
	fmt.Fprintf(w, "%s%d. %s\n", indent, len(m.Items)+1, m.BackLabel)
}
