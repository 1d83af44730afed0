// Scenario test for spec.md §8 scenario 2: a G1 move with no axis letter
// present trips its require_any_of constraint; one with an axis present
// does not.
package integration

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gcode-lsp/gcode-ls/internal/validate"
	"github.com/gcode-lsp/gcode-ls/lsp/methods/textDocument/diagnostic"
	"github.com/gcode-lsp/gcode-ls/test/integration/testutil"
)

func TestScenarioMovementConstraint(t *testing.T) {
	server := testutil.NewTestServer(t, testFlavor(), "test")

	violating := "file:///violating.gcode"
	testutil.OpenDocument(t, server, violating, "G1 F1500\n")
	diags, err := diagnostic.GetDiagnostics(server, violating)
	require.NoError(t, err)
	require.Len(t, diags, 1)
	assert.Equal(t, string(validate.ConstraintError), diags[0].Code.Value)

	satisfied := "file:///satisfied.gcode"
	testutil.OpenDocument(t, server, satisfied, "G1 X10\n")
	diags, err = diagnostic.GetDiagnostics(server, satisfied)
	require.NoError(t, err)
	assert.Empty(t, diags)
}
