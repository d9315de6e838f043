package ui

import (
	"bytes"
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"

	"github.com/aura-dev/jiractl/internal/debug"
)

func TestPrinterLines(t *testing.T) {
	lipgloss.SetColorProfile(termenv.Ascii)

	var buf bytes.Buffer
	p := NewPrinter(&buf)
	p.Section("Creating Epics...")
	item := p.Indent(3)
	item.Passf("Created %s: %s", "AURA-1", "STAGE-001: Foundation")
	item.Failf("Failed to create: %s", "STAGE-002: Auth")
	item.DryRunf("Would create: %s", "STAGE-003: API")
	item.Detailf("Dates: %s to %s", "2025-01-06", "2025-01-12")
	item.Skipf("%s already in '%s'", "TC-1", "Done")
	p.Blank()

	want := strings.Join([]string{
		"=== Creating Epics...",
		"   ✓ Created AURA-1: STAGE-001: Foundation",
		"   ✗ Failed to create: STAGE-002: Auth",
		"   [DRY RUN] Would create: STAGE-003: API",
		"             Dates: 2025-01-06 to 2025-01-12",
		"   - TC-1 already in 'Done'",
		"",
		"",
	}, "\n")
	assert.Equal(t, want, buf.String())
}

func TestRenderStatusKeepsText(t *testing.T) {
	lipgloss.SetColorProfile(termenv.Ascii)
	for _, s := range []string{"Done", "In Progress", "Not Needed", "To Do"} {
		assert.Equal(t, s, RenderStatus(s))
	}
}

func TestPrinterQuiet(t *testing.T) {
	lipgloss.SetColorProfile(termenv.Ascii)
	debug.SetQuiet(true)
	t.Cleanup(func() { debug.SetQuiet(false) })

	var buf bytes.Buffer
	p := NewPrinter(&buf)
	p.Section("Creating Epics...")
	item := p.Indent(3)
	item.Passf("Created %s", "AURA-1")
	item.Detailf("Dates: %s to %s", "2025-01-06", "2025-01-12")
	item.Failf("Failed to create: %s", "STAGE-002: Auth")
	item.Detailf("jira API POST returned 400")
	item.Warnf("No API key, falling back to spec parsing")
	item.DryRunf("Would create: %s", "STAGE-003: API")
	item.Detailf("Dates: %s to %s", "2025-01-13", "2025-01-19")
	item.Skipf("TC-1 already in 'Done'")
	p.Infof("Total Stages: 3")
	p.Blank()

	want := strings.Join([]string{
		"   ✗ Failed to create: STAGE-002: Auth",
		"             jira API POST returned 400",
		"   ⚠ No API key, falling back to spec parsing",
		"",
	}, "\n")
	assert.Equal(t, want, buf.String())
}

func TestPrinterDetailWithoutItem(t *testing.T) {
	lipgloss.SetColorProfile(termenv.Ascii)
	var buf bytes.Buffer
	NewPrinter(&buf).Detailf("continued")
	assert.Equal(t, "          continued\n", buf.String())
}
