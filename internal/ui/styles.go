// Package ui provides terminal styling and console narration for the jiractl tools.
// Uses the Ayu color theme with adaptive light/dark mode support.
package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Ayu theme color palette
var (
	ColorPass = lipgloss.AdaptiveColor{
		Light: "#86b300",
		Dark:  "#c2d94c",
	}
	ColorWarn = lipgloss.AdaptiveColor{
		Light: "#f2ae49",
		Dark:  "#ffb454",
	}
	ColorFail = lipgloss.AdaptiveColor{
		Light: "#f07171",
		Dark:  "#f07178",
	}
	ColorMuted = lipgloss.AdaptiveColor{
		Light: "#828c99",
		Dark:  "#6c7680",
	}
	ColorAccent = lipgloss.AdaptiveColor{
		Light: "#399ee6",
		Dark:  "#59c2ff",
	}
)

var (
	PassStyle    = lipgloss.NewStyle().Foreground(ColorPass)
	WarnStyle    = lipgloss.NewStyle().Foreground(ColorWarn)
	FailStyle    = lipgloss.NewStyle().Foreground(ColorFail)
	MutedStyle   = lipgloss.NewStyle().Foreground(ColorMuted)
	AccentStyle  = lipgloss.NewStyle().Foreground(ColorAccent)
	SectionStyle = lipgloss.NewStyle().Bold(true).Foreground(ColorAccent)
)

// Status icons
const (
	IconPass = "✓"
	IconWarn = "⚠"
	IconFail = "✗"
	IconSkip = "-"

	// DryRunTag prefixes every line describing a suppressed mutation.
	DryRunTag = "[DRY RUN]"
	// SectionMarker prefixes section headers.
	SectionMarker = "==="
)

func RenderPass(s string) string   { return PassStyle.Render(s) }
func RenderWarn(s string) string   { return WarnStyle.Render(s) }
func RenderFail(s string) string   { return FailStyle.Render(s) }
func RenderMuted(s string) string  { return MutedStyle.Render(s) }
func RenderAccent(s string) string { return AccentStyle.Render(s) }

// RenderSection renders a "=== Title" header line.
func RenderSection(s string) string {
	return SectionStyle.Render(SectionMarker + " " + s)
}

// RenderStatus renders a Jira status name. Done-like statuses are green,
// in-progress ones are blue, everything else is muted.
func RenderStatus(status string) string {
	switch strings.ToLower(status) {
	case "done", "closed", "resolved":
		return RenderPass(status)
	case "in progress", "in review":
		return RenderAccent(status)
	case "not needed", "cancelled":
		return RenderWarn(status)
	default:
		return RenderMuted(status)
	}
}
