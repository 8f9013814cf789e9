package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zipdatape/menu-scripts/internal/doctor"
	"github.com/zipdatape/menu-scripts/internal/ui"
)

type stubCheck struct {
	category string
	result   doctor.CheckResult
}

func (s stubCheck) Name() string                           { return s.result.Name }
func (s stubCheck) Category() string                       { return s.category }
func (s stubCheck) Run(context.Context) doctor.CheckResult { return s.result }

func doctorFixture() ([]doctor.Check, []doctor.CheckResult) {
	checks := []doctor.Check{
		stubCheck{"SYSTEM", doctor.CheckResult{Name: "privileges", Status: doctor.StatusPass, Message: "Running as root"}},
		stubCheck{"COMMANDS", doctor.CheckResult{Name: "command_apt-get", Status: doctor.StatusPass, Message: "apt-get (/usr/bin/apt-get)"}},
		stubCheck{"COMMANDS", doctor.CheckResult{Name: "command_docker", Status: doctor.StatusWarn, Message: "docker not found", Suggestion: "Needed by \"Deploy Selenium hub with a Firefox node\""}},
	}
	return checks, doctor.RunAll(context.Background(), checks)
}

func TestWriteDoctorText(t *testing.T) {
	ui.DisableColors()
	checks, results := doctorFixture()

	var buf bytes.Buffer
	writeDoctorText(&buf, checks, results)
	out := buf.String()

	assert.Contains(t, out, "Menu Diagnostic Report")
	assert.Contains(t, out, "SYSTEM\n  ● Running as root\n")
	assert.Contains(t, out, "COMMANDS\n  ● apt-get (/usr/bin/apt-get)\n  ⚠ docker not found\n")
	assert.Contains(t, out, "    Needed by \"Deploy Selenium hub with a Firefox node\"")
	assert.Contains(t, out, "✗ 1 issue found")
}

func TestWriteDoctorJSON(t *testing.T) {
	checks, results := doctorFixture()

	var buf bytes.Buffer
	require.NoError(t, writeDoctorJSON(&buf, checks, results))

	var got DoctorOutput
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	require.Len(t, got.Categories, 2)
	assert.Equal(t, "SYSTEM", got.Categories[0].Name)
	assert.Len(t, got.Categories[1].Results, 2)
	assert.Equal(t, SummaryOutput{Pass: 2, Warn: 1}, got.Summary)
}

func TestDoctorCommandRegistered(t *testing.T) {
	cmd, _, err := rootCmd.Find([]string{"doctor"})
	require.NoError(t, err)
	assert.Equal(t, "doctor", cmd.Name())
	assert.NotNil(t, cmd.Flags().Lookup("json"))
}
