// Package flavor holds the in-memory representation of a G-code flavor — a
// named schema bundle of commands, parameters, and constraints — along with
// the TOML loader and registry that resolves the active flavor for a
// document from layered sources.
package flavor

import "strings"

// ParamType is the declared type of a ParameterDef's value.
type ParamType uint8

const (
	TypeInt ParamType = iota
	TypeFloat
	TypeString
	TypeBool
)

// ParseParamType maps a schema's type name (matched case-insensitively,
// e.g. "Float" or "float") to a ParamType.
func ParseParamType(s string) (ParamType, bool) {
	switch strings.ToLower(s) {
	case "int":
		return TypeInt, true
	case "float":
		return TypeFloat, true
	case "string":
		return TypeString, true
	case "bool":
		return TypeBool, true
	default:
		return 0, false
	}
}

func (t ParamType) String() string {
	switch t {
	case TypeInt:
		return "Int"
	case TypeFloat:
		return "Float"
	case TypeString:
		return "String"
	case TypeBool:
		return "Bool"
	default:
		return "Unknown"
	}
}

// Constraints bounds a parameter's accepted values.
type Constraints struct {
	Min     *float64
	Max     *float64
	Enum    []string
	Pattern string
}

// ParameterDef declares one parameter a command accepts.
type ParameterDef struct {
	Name        string
	Type        ParamType
	Required    bool
	Description string
	Constraints *Constraints
	Default     string
	Aliases     []string
}

// ConstraintKind is the closed set of command-level declarative constraints.
type ConstraintKind uint8

const (
	RequireAnyOf ConstraintKind = iota
	RequireAllOf
	MutuallyExclusive
	ConditionalRequire
)

// ParseConstraintKind maps a schema's constraint type string to a ConstraintKind.
func ParseConstraintKind(s string) (ConstraintKind, bool) {
	switch strings.ToLower(s) {
	case "require_any_of":
		return RequireAnyOf, true
	case "require_all_of":
		return RequireAllOf, true
	case "mutually_exclusive":
		return MutuallyExclusive, true
	case "conditional_require":
		return ConditionalRequire, true
	default:
		return 0, false
	}
}

// ParameterConstraint is one declarative, command-level rule evaluated
// against the full set of parameters present on an occurrence.
type ParameterConstraint struct {
	Kind       ConstraintKind
	Parameters []string
	Message    string
	// IfParameter and ThenRequireAnyOf are only meaningful when Kind is
	// ConditionalRequire.
	IfParameter     string
	ThenRequireAnyOf []string
}

// CommandDef is the full schema entry for one command code.
type CommandDef struct {
	Name             string
	DescriptionShort string
	DescriptionLong  string
	Parameters       []ParameterDef
	Constraints      []ParameterConstraint
}

// ParamDef looks up a parameter definition by letter or alias, uppercased.
func (c CommandDef) ParamDef(letter string) (ParameterDef, bool) {
	letter = strings.ToUpper(letter)
	for _, p := range c.Parameters {
		if strings.EqualFold(p.Name, letter) {
			return p, true
		}
		for _, alias := range p.Aliases {
			if strings.EqualFold(alias, letter) {
				return p, true
			}
		}
	}
	return ParameterDef{}, false
}

// Flavor is a named, versioned bundle of command definitions. Commands is
// keyed by uppercase command code.
type Flavor struct {
	Name        string
	Version     string
	Description string
	Commands    map[string]CommandDef
}

// Get looks up a command definition by code, case-insensitively.
func (f Flavor) Get(code string) (CommandDef, bool) {
	def, ok := f.Commands[strings.ToUpper(code)]
	return def, ok
}

// clone returns a deep-enough copy of f suitable for a fragment merge step
// to mutate without aliasing the original's Commands map.
func (f Flavor) clone() Flavor {
	cp := f
	cp.Commands = make(map[string]CommandDef, len(f.Commands))
	for k, v := range f.Commands {
		cp.Commands[k] = v
	}
	return cp
}
