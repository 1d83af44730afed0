// Package config discovers the project configuration file (.gcode.toml)
// that supplies the third tier of per-document flavor resolution, and
// holds the server-wide settings the CLI surface populates.
package config

import (
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"

	"github.com/gcode-lsp/gcode-ls/internal/log"
)

// ProjectFileName is the name of the per-project configuration file,
// discovered by walking parent directories from a document's location.
const ProjectFileName = ".gcode.toml"

// ProjectConfig is the decoded shape of a .gcode.toml file.
type ProjectConfig struct {
	Project struct {
		DefaultFlavor string `toml:"default_flavor"`
	} `toml:"project"`
}

// FindProjectConfig walks upward from startDir (inclusive) looking for
// ProjectFileName, stopping at the filesystem root. It returns ok=false,
// not an error, when no project config exists anywhere in the ancestry —
// that is the normal case for most documents.
func FindProjectConfig(startDir string) (ProjectConfig, bool) {
	dir := startDir
	for {
		candidate := filepath.Join(dir, ProjectFileName)
		if data, err := os.ReadFile(candidate); err == nil {
			var cfg ProjectConfig
			if err := toml.Unmarshal(data, &cfg); err != nil {
				log.Warn("config: ignoring malformed %s: %v", candidate, err)
				return ProjectConfig{}, false
			}
			return cfg, true
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return ProjectConfig{}, false
		}
		dir = parent
	}
}

// ServerConfig is the set of settings established at server startup,
// either from CLI flags or from an editor's workspace/didChangeConfiguration
// notification (see lsp/methods/workspace for the latter).
type ServerConfig struct {
	// DefaultFlavor is the server-startup default flavor name, tier 2 of
	// the resolution precedence in SPEC_FULL.md §5 (below a modeline,
	// above project configuration).
	DefaultFlavor string `json:"defaultFlavor"`
	// FlavorDir is an optional extra directory the caller supplied,
	// loaded as the highest-precedence registry layer.
	FlavorDir string `json:"flavorDir"`
	// LongDescriptions selects hover's description length: the spec's
	// resolved Open Question adopts a single boolean rather than the
	// legacy --description (short|long) flag.
	LongDescriptions bool `json:"longDescriptions"`
	// LogLevel is the initial logger verbosity, e.g. "debug", "info".
	LogLevel string `json:"logLevel"`
}

// DefaultServerConfig is the zero-configuration baseline: DefaultFlavor is
// left empty so tier 2 of SPEC_FULL.md §5's resolution precedence is
// unset by default, letting tier 3 (project config) and tier 4 (the
// hard-coded "prusa" fallback in internal/gdoc.Manager.resolveFlavor) take
// over. Setting DefaultFlavor here would make it win unconditionally over
// project configuration, which is one tier lower.
func DefaultServerConfig() ServerConfig {
	return ServerConfig{
		DefaultFlavor:    "",
		LongDescriptions: false,
		LogLevel:         "info",
	}
}
