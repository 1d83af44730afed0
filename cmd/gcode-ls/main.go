// Command gcode-ls is the entry point for the G-code language server,
// grounded on cmd/design-tokens-language-server/main.go from the teacher
// for the stdio transport wiring and on teranos-QNTX's cmd/qntx for the
// cobra root-command shape, since the teacher itself takes no flags.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/gcode-lsp/gcode-ls/internal/config"
	"github.com/gcode-lsp/gcode-ls/internal/flavor"
	"github.com/gcode-lsp/gcode-ls/internal/log"
	"github.com/gcode-lsp/gcode-ls/internal/version"
	"github.com/gcode-lsp/gcode-ls/lsp"
)

// exit codes per SPEC_FULL.md §1's CLI surface.
const (
	exitOK          = 0
	exitInitFailure = 1
	exitUsageError  = 2
)

var (
	flagFlavor           string
	flagFlavorDir        string
	flagLongDescriptions bool
	flagLogLevel         string
)

func main() {
	root := &cobra.Command{
		Use:           "gcode-ls",
		Short:         "Language server for G-code",
		Long:          "gcode-ls speaks LSP over stdio to answer hover, diagnostic, completion, and document-symbol requests against G-code documents.",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          run,
	}

	root.Flags().StringVar(&flagFlavor, "flavor", "", "server-startup default flavor name; leave unset to let a workspace's .gcode.toml or the hard fallback (prusa) decide")
	root.Flags().StringVar(&flagFlavorDir, "flavor-dir", "", "additional flavor directory, highest registry precedence")
	root.Flags().BoolVar(&flagLongDescriptions, "long-descriptions", false, "use long command descriptions in hover responses")
	root.Flags().StringVar(&flagLogLevel, "log-level", "info", "log level: debug, info, warn, error")

	root.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the server version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println(version.GetFullVersion())
		},
	})

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(exitUsageError)
	}
}

func run(cmd *cobra.Command, args []string) error {
	level, ok := parseLogLevel(flagLogLevel)
	if !ok {
		return fmt.Errorf("invalid --log-level %q", flagLogLevel)
	}
	log.SetLevel(level)

	embedded, err := flavor.LoadEmbeddedSet()
	if err != nil {
		fmt.Fprintf(os.Stderr, "gcode-ls: failed to load embedded flavors: %v\n", err)
		os.Exit(exitInitFailure)
	}

	userGlobalDir := userGlobalFlavorDir()
	registry := flavor.NewRegistry(embedded, userGlobalDir, workspaceFlavorDir(), flagFlavorDir)
	if err := registry.WatchLayers(); err != nil {
		log.Warn("live reload disabled: %v", err)
	}
	defer registry.Close()

	cfg := config.DefaultServerConfig()
	cfg.DefaultFlavor = flagFlavor
	cfg.FlavorDir = flagFlavorDir
	cfg.LongDescriptions = flagLongDescriptions
	cfg.LogLevel = flagLogLevel

	server := lsp.NewServer(registry, cfg)
	defer server.Close()

	log.Info("gcode-ls %s starting (flavor=%s)", version.GetVersion(), flagFlavor)
	if err := server.RunStdio(); err != nil {
		fmt.Fprintf(os.Stderr, "gcode-ls: server error: %v\n", err)
		os.Exit(exitInitFailure)
	}
	return nil
}

func parseLogLevel(s string) (log.Level, bool) {
	switch s {
	case "debug":
		return log.LevelDebug, true
	case "info":
		return log.LevelInfo, true
	case "warn":
		return log.LevelWarn, true
	case "error":
		return log.LevelError, true
	default:
		return 0, false
	}
}

// userGlobalFlavorDir resolves the user-global flavor directory from
// $XDG_CONFIG_HOME/gcode-ls/flavors, or ~/.config/gcode-ls/flavors when
// $XDG_CONFIG_HOME is unset.
func userGlobalFlavorDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return xdg + "/gcode-ls/flavors"
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return home + "/.config/gcode-ls/flavors"
}

// workspaceFlavorDir resolves the workspace flavor directory relative to
// the process's current directory (<cwd>/.gcode-ls/flavors). The registry
// keeps this directory for the whole session: the root URI the client
// sends in initialize is recorded on the server but does not change the
// registry's workspace layer.
func workspaceFlavorDir() string {
	cwd, err := os.Getwd()
	if err != nil {
		return ""
	}
	return cwd + "/.gcode-ls/flavors"
}
