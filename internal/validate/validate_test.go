package validate_test

import (
	"testing"

	"github.com/gcode-lsp/gcode-ls/internal/flavor"
	"github.com/gcode-lsp/gcode-ls/internal/gcommand"
	"github.com/gcode-lsp/gcode-ls/internal/gtoken"
	"github.com/gcode-lsp/gcode-ls/internal/validate"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustParse(t *testing.T, line string) gcommand.Command {
	t.Helper()
	cmd, ok := gcommand.ParseLine(gtoken.TokenizeLine(line, 0, 0))
	require.True(t, ok)
	return cmd
}

func movementFlavor() flavor.Flavor {
	minVal := 0.0
	return flavor.Flavor{
		Name: "test",
		Commands: map[string]flavor.CommandDef{
			"G1": {
				Name: "G1",
				Parameters: []flavor.ParameterDef{
					{Name: "X", Type: flavor.TypeFloat},
					{Name: "Y", Type: flavor.TypeFloat},
					{Name: "Z", Type: flavor.TypeFloat},
					{Name: "E", Type: flavor.TypeFloat},
					{Name: "F", Type: flavor.TypeFloat},
				},
				Constraints: []flavor.ParameterConstraint{
					{Kind: flavor.RequireAnyOf, Parameters: []string{"X", "Y", "Z", "E"}},
				},
			},
			"M104": {
				Name: "M104",
				Parameters: []flavor.ParameterDef{
					{Name: "S", Type: flavor.TypeInt, Required: true, Constraints: &flavor.Constraints{Min: &minVal}},
				},
			},
		},
	}
}

func TestValidateUnknownCommand(t *testing.T) {
	fl := movementFlavor()
	cmd := mustParse(t, "G99 X1")
	diags := validate.Command(cmd, fl)
	require.Len(t, diags, 1)
	assert.Equal(t, validate.UnknownCommand, diags[0].Kind)
}

func TestValidateMovementConstraintViolated(t *testing.T) {
	fl := movementFlavor()
	cmd := mustParse(t, "G1 F1500")
	diags := validate.Command(cmd, fl)
	require.Len(t, diags, 1)
	assert.Equal(t, validate.ConstraintError, diags[0].Kind)
}

func TestValidateMovementConstraintSatisfied(t *testing.T) {
	fl := movementFlavor()
	cmd := mustParse(t, "G1 X10")
	diags := validate.Command(cmd, fl)
	assert.Empty(t, diags)
}

func TestValidateTypeError(t *testing.T) {
	fl := movementFlavor()
	cmd := mustParse(t, "M104 S20.5")
	diags := validate.Command(cmd, fl)
	require.Len(t, diags, 1)
	assert.Equal(t, validate.InvalidType, diags[0].Kind)
}

func TestValidateMissingRequired(t *testing.T) {
	fl := movementFlavor()
	cmd := mustParse(t, "M104")
	diags := validate.Command(cmd, fl)
	require.Len(t, diags, 1)
	assert.Equal(t, validate.MissingRequired, diags[0].Kind)
}

func TestValidateConstraintViolationMin(t *testing.T) {
	fl := movementFlavor()
	cmd := mustParse(t, "M104 S-5")
	diags := validate.Command(cmd, fl)
	require.Len(t, diags, 1)
	assert.Equal(t, validate.ConstraintViolation, diags[0].Kind)
}

func TestValidateUnknownParameter(t *testing.T) {
	fl := movementFlavor()
	cmd := mustParse(t, "G1 X10 Q5")
	diags := validate.Command(cmd, fl)
	require.Len(t, diags, 1)
	assert.Equal(t, validate.UnknownParameter, diags[0].Kind)
}

func TestValidateMutuallyExclusive(t *testing.T) {
	fl := flavor.Flavor{
		Name: "test",
		Commands: map[string]flavor.CommandDef{
			"M109": {
				Name: "M109",
				Parameters: []flavor.ParameterDef{
					{Name: "S", Type: flavor.TypeInt},
					{Name: "R", Type: flavor.TypeInt},
				},
				Constraints: []flavor.ParameterConstraint{
					{Kind: flavor.MutuallyExclusive, Parameters: []string{"S", "R"}},
				},
			},
		},
	}
	cmd := mustParse(t, "M109 S200 R180")
	diags := validate.Command(cmd, fl)
	require.Len(t, diags, 1)
	assert.Equal(t, validate.ConstraintError, diags[0].Kind)
}

func TestValidateConditionalRequire(t *testing.T) {
	fl := flavor.Flavor{
		Name: "test",
		Commands: map[string]flavor.CommandDef{
			"M585": {
				Name: "M585",
				Parameters: []flavor.ParameterDef{
					{Name: "E", Type: flavor.TypeInt},
					{Name: "C", Type: flavor.TypeString},
					{Name: "R", Type: flavor.TypeFloat},
				},
				Constraints: []flavor.ParameterConstraint{
					{Kind: flavor.ConditionalRequire, IfParameter: "E", ThenRequireAnyOf: []string{"C"}},
				},
			},
		},
	}
	missing := mustParse(t, "M585 E0")
	diags := validate.Command(missing, fl)
	require.Len(t, diags, 1)
	assert.Equal(t, validate.ConstraintError, diags[0].Kind)

	satisfied := mustParse(t, `M585 E0 C"io0.in"`)
	diags = validate.Command(satisfied, fl)
	assert.Empty(t, diags)
}

func TestValidateMonotonicityUnderIdentity(t *testing.T) {
	fl := movementFlavor()
	cmd := mustParse(t, "G1 F1500")
	first := validate.Command(cmd, fl)
	second := validate.Command(cmd, fl)
	assert.Equal(t, first, second)
}

func TestValidateCustomMessage(t *testing.T) {
	fl := flavor.Flavor{
		Name: "test",
		Commands: map[string]flavor.CommandDef{
			"G1": {
				Name:       "G1",
				Parameters: []flavor.ParameterDef{{Name: "F", Type: flavor.TypeFloat}},
				Constraints: []flavor.ParameterConstraint{
					{Kind: flavor.RequireAnyOf, Parameters: []string{"X"}, Message: "custom message"},
				},
			},
		},
	}
	cmd := mustParse(t, "G1 F1500")
	diags := validate.Command(cmd, fl)
	require.Len(t, diags, 1)
	assert.Equal(t, "custom message", diags[0].Message)
}

func TestValidateAliasCollisionRejected(t *testing.T) {
	fl := flavor.Flavor{
		Name: "test",
		Commands: map[string]flavor.CommandDef{
			"M203": {
				Name: "M203",
				Parameters: []flavor.ParameterDef{
					{Name: "X", Type: flavor.TypeFloat, Aliases: []string{"A"}},
				},
			},
		},
	}

	collision := mustParse(t, "M203 X100 A200")
	diags := validate.Command(collision, fl)
	require.Len(t, diags, 1)
	assert.Equal(t, validate.ConstraintError, diags[0].Kind)

	aliasOnly := mustParse(t, "M203 A200")
	diags = validate.Command(aliasOnly, fl)
	assert.Empty(t, diags)

	canonicalOnly := mustParse(t, "M203 X100")
	diags = validate.Command(canonicalOnly, fl)
	assert.Empty(t, diags)
}
