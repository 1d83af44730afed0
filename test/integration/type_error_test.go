// Scenario test for spec.md §8 scenario 3: a non-integer value given to an
// Int-typed parameter produces one InvalidType diagnostic.
package integration

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gcode-lsp/gcode-ls/internal/validate"
	"github.com/gcode-lsp/gcode-ls/lsp/methods/textDocument/diagnostic"
	"github.com/gcode-lsp/gcode-ls/test/integration/testutil"
)

func TestScenarioTypeError(t *testing.T) {
	server := testutil.NewTestServer(t, testFlavor(), "test")

	uri := "file:///type-error.gcode"
	testutil.OpenDocument(t, server, uri, "M104 S20.5\n")

	diags, err := diagnostic.GetDiagnostics(server, uri)
	require.NoError(t, err)
	require.Len(t, diags, 1)
	assert.Equal(t, string(validate.InvalidType), diags[0].Code.Value)
}
