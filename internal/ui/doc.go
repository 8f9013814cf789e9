// Package ui provides the terminal rendering used by the menu: styled menu
// entries, status lines, spinners, and simple tables, all built on Lip Gloss.
//
// # Color Scheme
//
// Colors are ANSI codes for broad terminal compatibility:
//
//	ColorSuccess   (green)  - Successful operations
//	ColorError     (red)    - Failures and invalid input
//	ColorWarning   (yellow) - Warnings and skipped steps
//	ColorInfo      (cyan)   - Menu titles and informational messages
//	ColorMuted     (gray)   - Secondary text, timing info
//	ColorSecondary (blue)   - In-progress indicators
//
// Use DisableColors() to switch to monochrome output (for --no-color).
//
// # Status Lines
//
// Operations report each step with a status line:
//
//	ui.StatusLine(true, "Nginx installed", 1, 2)   // ✓ [1/2] Nginx installed
//	ui.StatusLine(false, "Couldn't start nginx", 0, 0)
//
// # Spinners
//
// Spinner animates on a goroutine while a long command runs:
//
//	s := ui.NewSpinner("Installing MySQL")
//	s.Start()
//	ok := run()
//	s.Finish(ok)
//
// RunWithSpinner does the same inside a Bubble Tea program and is used for
// the startup update check.
package ui
