package ui

import (
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
)

func TestRenderHeader(t *testing.T) {
	lipgloss.SetColorProfile(termenv.Ascii)

	out := RenderHeader(HeaderInfo{Version: "v1.2.0", Tagline: "Power-quality dashboard", Detail: "/tmp/powerdash.yaml"})
	assert.Contains(t, out, "powerdash")
	assert.Contains(t, out, "v1.2.0")
	assert.Contains(t, out, "Power-quality dashboard")
	assert.Contains(t, out, "/tmp/powerdash.yaml")
	assert.Contains(t, out, "━━━━")

	bare := RenderHeader(HeaderInfo{})
	assert.Contains(t, bare, "powerdash")
	assert.NotContains(t, bare, " v")
}
