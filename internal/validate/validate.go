package validate

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/gcode-lsp/gcode-ls/internal/flavor"
	"github.com/gcode-lsp/gcode-ls/internal/gcommand"
)

// Command runs the full ordered check list from SPEC_FULL.md §6 against
// one parsed command occurrence. An UnknownCommand finding short-circuits
// every later check, matching the spec's "no further parameter checks are
// performed" rule.
func Command(cmd gcommand.Command, fl flavor.Flavor) []Diagnostic {
	def, ok := fl.Get(cmd.Code)
	if !ok {
		return []Diagnostic{{
			Kind:     UnknownCommand,
			Severity: SeverityError,
			Range:    cmd.Range,
			Message:  fmt.Sprintf("unknown command %q for flavor %q", cmd.Code, fl.Name),
		}}
	}

	var diags []Diagnostic
	diags = append(diags, checkUnknownParameters(cmd, def)...)
	diags = append(diags, checkAliasCollisions(cmd, def)...)
	diags = append(diags, checkMissingRequired(cmd, def)...)
	diags = append(diags, checkTypesAndConstraints(cmd, def)...)
	diags = append(diags, checkCommandConstraints(cmd, def)...)

	sort.SliceStable(diags, func(i, j int) bool {
		a, b := diags[i].Range.Start, diags[j].Range.Start
		if a.Line != b.Line {
			return a.Line < b.Line
		}
		return a.Character < b.Character
	})
	return diags
}

func checkUnknownParameters(cmd gcommand.Command, def flavor.CommandDef) []Diagnostic {
	var diags []Diagnostic
	for _, p := range cmd.Parameters {
		if _, ok := def.ParamDef(p.Letter); !ok {
			diags = append(diags, Diagnostic{
				Kind:     UnknownParameter,
				Severity: SeverityWarning,
				Range:    p.Range,
				Message:  fmt.Sprintf("unknown parameter %q for command %q", p.Letter, cmd.Code),
			})
		}
	}
	return diags
}

// checkAliasCollisions implements SPEC_FULL.md §14's resolution of the
// aliases Open Question: a command occurrence that supplies a parameter
// under both its canonical letter and one of its declared aliases
// simultaneously is rejected, rather than silently preferring one spelling.
func checkAliasCollisions(cmd gcommand.Command, def flavor.CommandDef) []Diagnostic {
	seen := cmd.LetterSet()
	var diags []Diagnostic
	for _, pd := range def.Parameters {
		if len(pd.Aliases) == 0 || !seen.Has(pd.Name) {
			continue
		}
		for _, alias := range pd.Aliases {
			if seen.Has(alias) {
				diags = append(diags, Diagnostic{
					Kind:     ConstraintError,
					Severity: SeverityError,
					Range:    cmd.Range,
					Message:  fmt.Sprintf("command %q: parameter %q given under both its name and alias %q", cmd.Code, pd.Name, alias),
				})
				break
			}
		}
	}
	return diags
}

func checkMissingRequired(cmd gcommand.Command, def flavor.CommandDef) []Diagnostic {
	var diags []Diagnostic
	for _, pd := range def.Parameters {
		if !pd.Required {
			continue
		}
		if cmd.Has(pd.Name) {
			continue
		}
		diags = append(diags, Diagnostic{
			Kind:     MissingRequired,
			Severity: SeverityError,
			Range:    cmd.Range,
			Message:  fmt.Sprintf("command %q is missing required parameter %q", cmd.Code, pd.Name),
		})
	}
	return diags
}

func checkTypesAndConstraints(cmd gcommand.Command, def flavor.CommandDef) []Diagnostic {
	var diags []Diagnostic
	for _, p := range cmd.Parameters {
		pd, ok := def.ParamDef(p.Letter)
		if !ok {
			continue // already reported as UnknownParameter
		}
		if p.ValueText == "" {
			continue // bare letter parameter; nothing to type-check
		}

		if !matchesType(p.ValueText, pd.Type) {
			diags = append(diags, Diagnostic{
				Kind:     InvalidType,
				Severity: SeverityError,
				Range:    p.Range,
				Message:  fmt.Sprintf("parameter %q: expected %s, got %q", p.Letter, pd.Type, p.ValueText),
			})
			continue
		}

		if pd.Constraints != nil {
			if msg, ok := violatesConstraints(p.ValueText, *pd.Constraints); ok {
				diags = append(diags, Diagnostic{
					Kind:     ConstraintViolation,
					Severity: SeverityError,
					Range:    p.Range,
					Message:  fmt.Sprintf("parameter %q: %s", p.Letter, msg),
				})
			}
		}
	}
	return diags
}

func matchesType(valueText string, t flavor.ParamType) bool {
	switch t {
	case flavor.TypeInt:
		_, err := strconv.ParseInt(valueText, 10, 64)
		return err == nil
	case flavor.TypeFloat:
		_, err := strconv.ParseFloat(valueText, 64)
		return err == nil
	case flavor.TypeBool:
		switch strings.ToLower(valueText) {
		case "true", "false":
			return true
		default:
			return false
		}
	case flavor.TypeString:
		return true
	default:
		return false
	}
}

func violatesConstraints(valueText string, c flavor.Constraints) (string, bool) {
	if c.Min != nil || c.Max != nil {
		if f, err := strconv.ParseFloat(valueText, 64); err == nil {
			if c.Min != nil && f < *c.Min {
				return fmt.Sprintf("value %g is below minimum %g", f, *c.Min), true
			}
			if c.Max != nil && f > *c.Max {
				return fmt.Sprintf("value %g is above maximum %g", f, *c.Max), true
			}
		}
	}
	if len(c.Enum) > 0 {
		found := false
		for _, e := range c.Enum {
			if e == valueText {
				found = true
				break
			}
		}
		if !found {
			return fmt.Sprintf("value %q is not one of %v", valueText, c.Enum), true
		}
	}
	if c.Pattern != "" {
		re, err := regexp.Compile(c.Pattern)
		if err == nil && !re.MatchString(valueText) {
			return fmt.Sprintf("value %q does not match pattern %q", valueText, c.Pattern), true
		}
	}
	return "", false
}

// checkCommandConstraints applies the command's declarative
// ParameterConstraint list in the order the flavor defines them.
func checkCommandConstraints(cmd gcommand.Command, def flavor.CommandDef) []Diagnostic {
	var diags []Diagnostic
	for _, c := range def.Constraints {
		switch c.Kind {
		case flavor.RequireAnyOf:
			if !anyPresent(cmd, c.Parameters) {
				diags = append(diags, Diagnostic{
					Kind: ConstraintError, Severity: SeverityError, Range: cmd.Range,
					Message: constraintMessage(c, fmt.Sprintf("command %q requires at least one of %v", cmd.Code, c.Parameters)),
				})
			}

		case flavor.RequireAllOf:
			if missing := missingOf(cmd, c.Parameters); len(missing) > 0 {
				diags = append(diags, Diagnostic{
					Kind: ConstraintError, Severity: SeverityError, Range: cmd.Range,
					Message: constraintMessage(c, fmt.Sprintf("command %q requires all of %v; missing %v", cmd.Code, c.Parameters, missing)),
				})
			}

		case flavor.MutuallyExclusive:
			if present := presentOf(cmd, c.Parameters); len(present) >= 2 {
				diags = append(diags, Diagnostic{
					Kind: ConstraintError, Severity: SeverityError, Range: cmd.Range,
					Message: constraintMessage(c, fmt.Sprintf("command %q: parameters %v are mutually exclusive", cmd.Code, present)),
				})
			}

		case flavor.ConditionalRequire:
			if cmd.Has(c.IfParameter) && !anyPresent(cmd, c.ThenRequireAnyOf) {
				diags = append(diags, Diagnostic{
					Kind: ConstraintError, Severity: SeverityError, Range: cmd.Range,
					Message: constraintMessage(c, fmt.Sprintf("command %q: %q requires at least one of %v", cmd.Code, c.IfParameter, c.ThenRequireAnyOf)),
				})
			}
		}
	}
	return diags
}

func constraintMessage(c flavor.ParameterConstraint, fallback string) string {
	if c.Message != "" {
		return c.Message
	}
	return fallback
}

func anyPresent(cmd gcommand.Command, letters []string) bool {
	seen := cmd.LetterSet()
	for _, l := range letters {
		if seen.Has(l) {
			return true
		}
	}
	return false
}

func missingOf(cmd gcommand.Command, letters []string) []string {
	seen := cmd.LetterSet()
	var missing []string
	for _, l := range letters {
		if !seen.Has(l) {
			missing = append(missing, l)
		}
	}
	return missing
}

func presentOf(cmd gcommand.Command, letters []string) []string {
	seen := cmd.LetterSet()
	var present []string
	for _, l := range letters {
		if seen.Has(l) {
			present = append(present, l)
		}
	}
	return present
}
