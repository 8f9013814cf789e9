package ui

import (
	"fmt"
	"strings"
)

// HeaderInfo contains information to display in the header.
type HeaderInfo struct {
	Name    string
	Version string
	Tagline string
}

// HeaderWidth is the default width of the header divider
const HeaderWidth = 50

// RenderHeader renders the banner shown above the root menu.
func RenderHeader(info HeaderInfo) string {
	var b strings.Builder

	b.WriteString(TitleStyle().Render(info.Name))
	if info.Version != "" {
		b.WriteString(" ")
		b.WriteString(MutedStyle().Render(info.Version))
	}
	b.WriteString("\n")

	if info.Tagline != "" {
		b.WriteString(info.Tagline)
		b.WriteString("\n")
	}

	b.WriteString(FormatDivider(HeaderWidth))
	b.WriteString("\n")
	return b.String()
}

// MenuTitle renders a menu's title line.
func MenuTitle(title string) string {
	return TitleStyle().Render(title)
}

// MenuEntry renders one numbered menu entry.
func MenuEntry(n int, label string) string {
	return fmt.Sprintf("%s %s", MutedStyle().Render(fmt.Sprintf("%2d.", n)), label)
}

// Invalid renders an input rejection notice.
func Invalid(message string) string {
	return ErrorStyle().Render(message)
}
