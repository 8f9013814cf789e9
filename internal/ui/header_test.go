package ui

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRenderHeader(t *testing.T) {
	DisableColors()

	out := RenderHeader(HeaderInfo{Name: "menu", Version: "v1.2.0", Tagline: "Server provisioning"})
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")

	assert.Equal(t, "menu v1.2.0", lines[0])
	assert.Equal(t, "Server provisioning", lines[1])
	assert.Equal(t, strings.Repeat("━", HeaderWidth), lines[2])
}

func TestRenderHeader_Minimal(t *testing.T) {
	DisableColors()

	out := RenderHeader(HeaderInfo{Name: "menu"})
	assert.True(t, strings.HasPrefix(out, "menu\n"))
}

func TestMenuEntry(t *testing.T) {
	DisableColors()

	assert.Equal(t, " 1. Configure multipathd", MenuEntry(1, "Configure multipathd"))
	assert.Equal(t, "22. Exit", MenuEntry(22, "Exit"))
}
