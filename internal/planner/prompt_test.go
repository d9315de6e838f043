package planner

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderPrompt(t *testing.T) {
	prompt, err := RenderPrompt("Build a wellness app.")
	require.NoError(t, err)
	assert.Contains(t, prompt, "Specification:\nBuild a wellness app.\n")
	assert.Contains(t, prompt, "Create exactly 12-15 stages")
	assert.Contains(t, prompt, `"number": 1,`)
}

func TestRenderPromptTruncates(t *testing.T) {
	spec := strings.Repeat("a", MaxSpecChars) + "TAIL"
	prompt, err := RenderPrompt(spec)
	require.NoError(t, err)
	assert.NotContains(t, prompt, "TAIL")
	assert.Contains(t, prompt, strings.Repeat("a", MaxSpecChars))
}
