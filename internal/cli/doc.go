// Package cli implements the menu command-line interface.
//
// The root command runs an interactive provisioning session. A session
// goes through these phases before the first menu render:
//
//  1. Load and validate config
//  2. Probe the environment and check for root privileges
//  3. Check for a newer release (optional, cached for a day)
//  4. Build the recipe catalog and hand it to the menu engine
//
// # Command Structure
//
//	menu                - Run the interactive menu (requires root)
//	menu catalog        - Print the configured menu tree
//	menu doctor         - Check privileges, tools and config
//	menu version        - Print version information
//	menu completion     - Generate shell completion scripts
//
// # Flag Handling
//
// Global flags (--config, --dry-run, --no-color, --verbose,
// --no-update-check) are defined on the root command and available to all
// subcommands.
package cli
