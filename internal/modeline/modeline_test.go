package modeline_test

import (
	"strings"
	"testing"

	"github.com/gcode-lsp/gcode-ls/internal/modeline"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetectSemicolonStyle(t *testing.T) {
	r := modeline.Detect("; gcode_flavor=marlin\nG28\nM104 S200\n")
	require.True(t, r.Found)
	assert.Equal(t, "marlin", r.Name)
	assert.Equal(t, uint32(0), r.Line)
}

func TestDetectSlashStyle(t *testing.T) {
	r := modeline.Detect("// gcode_flavor=reprap\nG28\n")
	require.True(t, r.Found)
	assert.Equal(t, "reprap", r.Name)
}

func TestDetectCaseInsensitiveKeyWhitespaceTolerant(t *testing.T) {
	r := modeline.Detect(";   GCODE_FLAVOR  =   prusa  \nG28\n")
	require.True(t, r.Found)
	assert.Equal(t, "prusa", r.Name)
}

func TestDetectNoneFound(t *testing.T) {
	r := modeline.Detect("G28\nM104 S200\n")
	assert.False(t, r.Found)
}

func TestDetectShortDocumentScansLine3(t *testing.T) {
	doc := "G28\nM104 S200\n; gcode_flavor=marlin\nM105\n"
	r := modeline.Detect(doc)
	require.True(t, r.Found)
	assert.Equal(t, "marlin", r.Name)
	assert.Equal(t, uint32(2), r.Line)
}

func TestDetectLongDocumentMiddleLineIgnored(t *testing.T) {
	lines := make([]string, 50)
	for i := range lines {
		lines[i] = "G28"
	}
	lines[24] = "; gcode_flavor=marlin" // line 25 (1-based) / index 24, not in first/last 5
	doc := strings.Join(lines, "\n") + "\n"

	r := modeline.Detect(doc)
	assert.False(t, r.Found)
}

func TestDetectLongDocumentHeadLineFound(t *testing.T) {
	lines := make([]string, 50)
	for i := range lines {
		lines[i] = "G28"
	}
	lines[2] = "; gcode_flavor=marlin"
	doc := strings.Join(lines, "\n") + "\n"

	r := modeline.Detect(doc)
	require.True(t, r.Found)
	assert.Equal(t, "marlin", r.Name)
}

func TestDetectLongDocumentTailLineFound(t *testing.T) {
	lines := make([]string, 50)
	for i := range lines {
		lines[i] = "G28"
	}
	lines[47] = "; gcode_flavor=reprap"
	doc := strings.Join(lines, "\n") + "\n"

	r := modeline.Detect(doc)
	require.True(t, r.Found)
	assert.Equal(t, "reprap", r.Name)
}

func TestDetectFirstMatchWins(t *testing.T) {
	doc := "; gcode_flavor=marlin\n; gcode_flavor=reprap\nG28\n"
	r := modeline.Detect(doc)
	require.True(t, r.Found)
	assert.Equal(t, "marlin", r.Name)
}
