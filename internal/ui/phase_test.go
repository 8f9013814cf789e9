package ui

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestStatusLine(t *testing.T) {
	DisableColors()

	tests := []struct {
		name    string
		ok      bool
		message string
		step    int
		total   int
		want    string
	}{
		{name: "success without counter", ok: true, message: "Git installed", want: "✓ Git installed"},
		{name: "failure without counter", ok: false, message: "Couldn't install Git", want: "✗ Couldn't install Git"},
		{name: "counter", ok: true, message: "Partition grown", step: 1, total: 2, want: "✓ [1/2] Partition grown"},
		{name: "failed step with counter", ok: false, message: "resize2fs failed", step: 2, total: 2, want: "✗ [2/2] resize2fs failed"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StatusLine(tt.ok, tt.message, tt.step, tt.total))
		})
	}
}

func TestStepDisplay(t *testing.T) {
	DisableColors()

	var buf bytes.Buffer
	sd := NewStepDisplay(&buf, 3)

	assert.True(t, sd.Report(true, "Packages updated"))
	sd.Skip("Test database", "already removed")
	assert.False(t, sd.Report(false, "Service restart failed"))
	sd.Info("see journalctl -u mysql")
	sd.Warn("root password unchanged")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	assert.Equal(t, []string{
		"✓ [1/3] Packages updated",
		"⊘ Test database (already removed)",
		"✗ [3/3] Service restart failed",
		"○ see journalctl -u mysql",
		"⚠ root password unchanged",
	}, lines)
	assert.Equal(t, 3, sd.Steps())
}

func TestStepDisplay_NoTotal(t *testing.T) {
	DisableColors()

	var buf bytes.Buffer
	sd := NewStepDisplay(&buf, 0)
	sd.Report(true, "done")

	assert.Equal(t, "✓ done\n", buf.String())
}

func TestFormatDivider(t *testing.T) {
	DisableColors()
	assert.Equal(t, strings.Repeat("━", 10), FormatDivider(10))
}

func TestFormatDuration(t *testing.T) {
	assert.Equal(t, "0.05s", formatDuration(50*time.Millisecond))
	assert.Equal(t, "0.3s", formatDuration(300*time.Millisecond))
	assert.Equal(t, "2.3s", formatDuration(2300*time.Millisecond))
}
