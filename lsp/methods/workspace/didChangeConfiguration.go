package workspace

import (
	"encoding/json"
	"fmt"

	"github.com/gcode-lsp/gcode-ls/internal/config"
	"github.com/gcode-lsp/gcode-ls/internal/log"
	"github.com/gcode-lsp/gcode-ls/lsp/types"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

// DidChangeConfiguration handles the workspace/didChangeConfiguration
// notification, replacing the server's runtime configuration with the
// client's settings (fields it omits reset to their defaults) and
// republishing every open document's cached diagnostics. Only readers of
// Server.Config, such as hover's long-descriptions switch, see the new
// values: the document manager keeps the default flavor it was built with,
// the registry keeps its flavor directories, the log level is unchanged,
// and documents are not re-validated here.
func DidChangeConfiguration(req *types.RequestContext, params *protocol.DidChangeConfigurationParams) error {
	cfg, err := parseConfiguration(params.Settings)
	if err != nil {
		log.Warn("workspace/didChangeConfiguration: %v, keeping previous configuration", err)
		return nil
	}

	req.Server.SetConfig(cfg)
	log.Info("configuration updated: flavor=%s long-descriptions=%t log-level=%s",
		cfg.DefaultFlavor, cfg.LongDescriptions, cfg.LogLevel)

	if glspCtx := req.Server.GLSPContext(); glspCtx != nil {
		for _, doc := range req.Server.AllDocuments() {
			if err := req.Server.PublishDiagnostics(glspCtx, doc.URI); err != nil {
				log.Warn("failed to publish diagnostics for %s: %v", doc.URI, err)
			}
		}
	}

	return nil
}

func parseConfiguration(settings any) (config.ServerConfig, error) {
	cfg := config.DefaultServerConfig()
	if settings == nil {
		return cfg, nil
	}

	settingsMap, ok := settings.(map[string]any)
	if !ok {
		return cfg, fmt.Errorf("settings is not an object")
	}

	ours, exists := settingsMap["gcodeLanguageServer"]
	if !exists {
		return cfg, nil
	}

	jsonBytes, err := json.Marshal(ours)
	if err != nil {
		return cfg, fmt.Errorf("marshal settings: %w", err)
	}
	if err := json.Unmarshal(jsonBytes, &cfg); err != nil {
		return cfg, fmt.Errorf("unmarshal settings: %w", err)
	}
	return cfg, nil
}
