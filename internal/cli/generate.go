package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mark3labs/msgdoc/internal/diag"
	"github.com/mark3labs/msgdoc/internal/document"
)

var generateRunner = runGenerate

func newGenerateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate a transformed OpenAPI description",
		Long: "Generate an OpenAPI description from a message catalog, or post-process an existing one. " +
			"Options can be provided via flags, environment variables, config files, or defaults.",
		Example: strings.TrimSpace(`  msgdoc generate --catalog catalog.yaml --out swagger.json
  msgdoc generate --catalog catalog.yaml --document raw.yaml --legacy --format yaml
  msgdoc --config msgdoc.yaml generate --validate`),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolveGenerateConfig(cmd)
			if err != nil {
				return err
			}
			return generateRunner(cmd.Context(), cfg)
		},
	}

	flags := cmd.Flags()
	addDocumentFlags(flags)
	flags.String("out", "", "Output file; the document is written to stdout when omitted")
	flags.String("format", "", "Output format (json|yaml); inferred from --out, defaults to json")

	return cmd
}

func runGenerate(ctx context.Context, cfg *GenerateConfig) error {
	doc, res, err := buildDocument(ctx, cfg, cfg.Legacy)
	if err != nil {
		return err
	}

	data, err := document.Marshal(doc, cfg.format(), cfg.Legacy)
	if err != nil {
		return fmt.Errorf("serialize document: %w", err)
	}

	if cfg.Out == "" {
		_, err := cfg.Stdout.Write(data)
		return err
	}

	absOut := cfg.Out
	if ap, err := filepath.Abs(cfg.Out); err == nil {
		absOut = ap
	}
	if err := document.WriteFile(absOut, data); err != nil {
		return wrapOutputError(err, absOut)
	}
	fmt.Fprintf(cfg.Stdout, "Wrote %s (%s mode, %d operations, %d schemas, %d errors, %d warnings)\n",
		absOut, res.Mode, res.OperationsTransformed, res.SchemasTransformed,
		len(res.Diagnostics.Filter(diag.SeverityError)), len(res.Diagnostics.Filter(diag.SeverityWarning)))
	return nil
}
