package ui

import (
	"fmt"
	"io"
	"strings"
	"time"
)

// DividerWidth is the default width for divider lines.
const DividerWidth = 50

// StatusLine renders a one-line outcome: a colored ✓ or ✗, an optional
// [step/total] counter, and the message. The counter is omitted when total
// is zero.
func StatusLine(ok bool, message string, step, total int) string {
	symbol := SuccessStyle().Render(SymbolSuccess)
	if !ok {
		symbol = ErrorStyle().Render(SymbolFail)
	}
	if total > 0 {
		return fmt.Sprintf("%s [%d/%d] %s", symbol, step, total, message)
	}
	return fmt.Sprintf("%s %s", symbol, message)
}

// StepDisplay prints numbered progress for a multi-step operation.
type StepDisplay struct {
	w     io.Writer
	total int
	step  int
}

// NewStepDisplay creates a display for an operation with total steps.
// A total of zero prints steps without a counter.
func NewStepDisplay(w io.Writer, total int) *StepDisplay {
	return &StepDisplay{w: w, total: total}
}

// Report prints the next step's outcome and returns ok unchanged, so
// callers can write `if !steps.Report(ok, "...") { return }`.
func (sd *StepDisplay) Report(ok bool, message string) bool {
	sd.step++
	fmt.Fprintln(sd.w, StatusLine(ok, message, sd.step, sd.total))
	return ok
}

// Skip prints a skipped step.
func (sd *StepDisplay) Skip(message, reason string) {
	sd.step++
	line := fmt.Sprintf("%s %s", WarningStyle().Render(SymbolSkipped), message)
	if reason != "" {
		line += " " + MutedStyle().Render("("+reason+")")
	}
	fmt.Fprintln(sd.w, line)
}

// Info prints an informational line without advancing the counter.
func (sd *StepDisplay) Info(message string) {
	fmt.Fprintf(sd.w, "%s %s\n", MutedStyle().Render(SymbolPending), message)
}

// Warn prints a warning line without advancing the counter.
func (sd *StepDisplay) Warn(message string) {
	fmt.Fprintf(sd.w, "%s %s\n", WarningStyle().Render(SymbolWarning), message)
}

// Steps returns how many steps were reported.
func (sd *StepDisplay) Steps() int {
	return sd.step
}

// FormatDivider returns a divider line as a string.
func FormatDivider(width int) string {
	return MutedStyle().Render(strings.Repeat("━", width))
}

// formatDuration formats a duration for display (e.g., "0.3s", "1.2s").
func formatDuration(d time.Duration) string {
	secs := d.Seconds()
	if secs < 0.1 {
		return fmt.Sprintf("%.2fs", secs)
	}
	return fmt.Sprintf("%.1fs", secs)
}
