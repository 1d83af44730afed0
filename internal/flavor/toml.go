package flavor

import (
	"fmt"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

// tomlDocument mirrors the on-disk schema shape described in SPEC_FULL.md:
// a top-level [flavor] table plus an array of [[commands]], each carrying
// its own nested parameters and constraints arrays.
type tomlDocument struct {
	Flavor   *tomlFlavorHeader `toml:"flavor"`
	Commands []tomlCommand     `toml:"commands"`
}

type tomlFlavorHeader struct {
	Name        string `toml:"name"`
	Version     string `toml:"version"`
	Description string `toml:"description"`
}

type tomlCommand struct {
	Name             string            `toml:"name"`
	DescriptionShort string            `toml:"description_short"`
	DescriptionLong  string            `toml:"description_long"`
	Parameters       []tomlParameter   `toml:"parameters"`
	Constraints      []tomlConstraint  `toml:"constraints"`
}

type tomlParameter struct {
	Name        string            `toml:"name"`
	Type        string            `toml:"type"`
	Required    bool              `toml:"required"`
	Description string            `toml:"description"`
	Default     string            `toml:"default"`
	Aliases     []string          `toml:"aliases"`
	Constraints *tomlConstraints  `toml:"constraints"`
}

type tomlConstraints struct {
	Min     *float64 `toml:"min"`
	Max     *float64 `toml:"max"`
	Enum    []string `toml:"enum"`
	Pattern string   `toml:"pattern"`
}

type tomlConstraint struct {
	Type             string   `toml:"type"`
	Parameters       []string `toml:"parameters"`
	Message          string   `toml:"message"`
	IfParameter      string   `toml:"if_parameter"`
	ThenRequireAnyOf []string `toml:"then_require_any_of"`
}

// Fragment is one parsed TOML file's contribution to a flavor: an optional
// flavor header (exactly one fragment per named flavor per layer must
// supply it) plus zero or more command definitions.
type Fragment struct {
	Header   *tomlFlavorHeader
	Commands []CommandDef
}

// ParseFragment parses one flavor TOML document (a whole flavor file, or
// one fragment of a fragment directory) into a Fragment. Unknown top-level
// keys are ignored by go-toml/v2's default decode behavior; an unknown
// parameter type is rejected with an error naming the offending command.
func ParseFragment(data []byte) (Fragment, error) {
	var doc tomlDocument
	if err := toml.Unmarshal(data, &doc); err != nil {
		return Fragment{}, fmt.Errorf("parse flavor toml: %w", err)
	}

	frag := Fragment{Header: doc.Flavor}
	for _, tc := range doc.Commands {
		cmd, err := convertCommand(tc)
		if err != nil {
			return Fragment{}, err
		}
		frag.Commands = append(frag.Commands, cmd)
	}
	return frag, nil
}

func convertCommand(tc tomlCommand) (CommandDef, error) {
	cmd := CommandDef{
		Name:             tc.Name,
		DescriptionShort: tc.DescriptionShort,
		DescriptionLong:  tc.DescriptionLong,
	}

	for _, tp := range tc.Parameters {
		pt, ok := ParseParamType(tp.Type)
		if !ok {
			return CommandDef{}, fmt.Errorf("command %s: unknown parameter type %q for parameter %q", tc.Name, tp.Type, tp.Name)
		}
		def := ParameterDef{
			Name:        strings.ToUpper(tp.Name),
			Type:        pt,
			Required:    tp.Required,
			Description: tp.Description,
			Default:     tp.Default,
			Aliases:     upperAll(tp.Aliases),
		}
		if tp.Constraints != nil {
			def.Constraints = &Constraints{
				Min:     tp.Constraints.Min,
				Max:     tp.Constraints.Max,
				Enum:    tp.Constraints.Enum,
				Pattern: tp.Constraints.Pattern,
			}
		}
		cmd.Parameters = append(cmd.Parameters, def)
	}

	for _, tcn := range tc.Constraints {
		kind, ok := ParseConstraintKind(tcn.Type)
		if !ok {
			return CommandDef{}, fmt.Errorf("command %s: unknown constraint type %q", tc.Name, tcn.Type)
		}
		cmd.Constraints = append(cmd.Constraints, ParameterConstraint{
			Kind:             kind,
			Parameters:       upperAll(tcn.Parameters),
			Message:          tcn.Message,
			IfParameter:      strings.ToUpper(tcn.IfParameter),
			ThenRequireAnyOf: upperAll(tcn.ThenRequireAnyOf),
		})
	}

	return cmd, nil
}

// upperAll uppercases a slice of parameter letters/names in place so that
// a flavor TOML declaring them in lowercase still matches the uppercased
// occurrence letters gcommand.Command produces.
func upperAll(ss []string) []string {
	for i, s := range ss {
		ss[i] = strings.ToUpper(s)
	}
	return ss
}
