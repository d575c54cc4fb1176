package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mark3labs/msgdoc/internal/document"
)

// InitConfig captures the options for the init command.
type InitConfig struct {
	OutputPath string
	Force      bool
	Stdout     io.Writer
}

var initRunner = runInit

func newInitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Scaffold a sample msgdoc configuration file",
		Long:  "Scaffold a commented msgdoc configuration file that documents available options.",
		RunE: func(cmd *cobra.Command, args []string) error {
			out, err := cmd.Flags().GetString("out")
			if err != nil {
				return err
			}
			force, err := cmd.Flags().GetBool("force")
			if err != nil {
				return err
			}
			return initRunner(cmd.Context(), &InitConfig{
				OutputPath: out,
				Force:      force,
				Stdout:     cmd.OutOrStdout(),
			})
		},
	}

	cmd.Flags().String("out", "msgdoc.yaml", "Where to write the sample config file")
	cmd.Flags().Bool("force", false, "Overwrite the target file if it already exists")

	return cmd
}

func runInit(_ context.Context, cfg *InitConfig) error {
	out := strings.TrimSpace(cfg.OutputPath)
	if out == "" {
		out = "msgdoc.yaml"
	}
	absPath, err := filepath.Abs(out)
	if err != nil {
		return fmt.Errorf("init: resolve output path: %w", err)
	}

	if st, err := os.Stat(absPath); err == nil && !cfg.Force {
		if st.Mode().IsRegular() {
			return newUsageError(fmt.Sprintf("init: %q already exists (use --force to overwrite)", absPath))
		}
	}

	content := strings.TrimSpace(sampleConfigYAML) + "\n"
	if err := document.WriteFile(absPath, []byte(content)); err != nil {
		return newUsageError(fmt.Sprintf("init: cannot write %s: %v\nHint: choose a different --out or check directory permissions.", absPath, err))
	}
	fmt.Fprintf(cfg.Stdout, "Wrote sample config to %s\n", absPath)
	return nil
}

// sampleConfigYAML is a commented example config documenting available options.
const sampleConfigYAML = `# msgdoc configuration (YAML)
# All fields are optional. Environment variables (MSGDOC_CATALOG, MSGDOC_LEGACY, ...)
# override config values, and command-line flags override both.

# Message catalog describing types, enums and controllers.
# catalog: ./catalog.yaml

# Raw OpenAPI/Swagger document (file or http/https URL). Generated from the
# catalog when omitted.
# document: ./raw.yaml

# Output file for generate. Written to stdout when omitted.
# out: ./swagger.json

# Output format (json|yaml). Inferred from out when omitted.
# format: json

# Swagger 2.0 compatible output: no allOf composition, no oneOf unions.
# legacy: false

# Namespace marker of client-visible message types.
# clientNamespace: .Client.

# Namespaces whose schemas are removed from the output (comma-separated or list).
# excludeNamespaces: [Unisys.Common.EISConnectors]

# Prefix of the vendor extensions added to properties.
# vendorPrefix: x-unisys

# Validate the transformed document and log problems.
# validate: false

# Listen address for serve.
# addr: :8080

# Enable verbose logging, optionally as JSON.
# verbose: false
# logJson: false
`
