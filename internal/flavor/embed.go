package flavor

import (
	"embed"
	"fmt"
)

// embeddedFS holds the flavor fragment directories compiled into the
// binary — the lowest-precedence layer, always present even with no
// user-global or workspace configuration on disk.
//
//go:embed embedded
var embeddedFS embed.FS

// embeddedNames lists the flavor names shipped in the embedded layer, in
// the order LoadEmbeddedSet attempts to load them.
var embeddedNames = []string{"prusa", "marlin", "reprap"}

// LoadEmbeddedSet parses every compiled-in flavor into a name->Flavor map
// suitable as the embedded argument to NewRegistry. A malformed embedded
// fragment is a build-time defect, not a runtime condition to recover
// from, so this returns an error rather than silently dropping the flavor.
func LoadEmbeddedSet() (map[string]Flavor, error) {
	sub, err := embedFS()
	if err != nil {
		return nil, err
	}

	out := make(map[string]Flavor, len(embeddedNames))
	for _, name := range embeddedNames {
		fl, err := LoadEmbedded(sub, "embedded/"+name)
		if err != nil {
			return nil, fmt.Errorf("embedded flavor %s: %w", name, err)
		}
		out[fl.Name] = fl
	}
	return out, nil
}

// embedFS adapts embed.FS to the DirFS interface LoadEmbedded expects.
func embedFS() (DirFS, error) {
	return embeddedFS, nil
}
