package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mark3labs/msgdoc/internal/document"
)

var inspectRunner = runInspect

func newInspectCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "Summarize the transformed description",
		Long: "Run the transformation and print, per operation, the kept parameters, body media types and " +
			"response union sizes, followed by every schema's composition.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolveGenerateConfig(cmd)
			if err != nil {
				return err
			}
			return inspectRunner(cmd.Context(), cfg)
		},
	}
	addDocumentFlags(cmd.Flags())
	return cmd
}

func runInspect(ctx context.Context, cfg *GenerateConfig) error {
	doc, res, err := buildDocument(ctx, cfg, cfg.Legacy)
	if err != nil {
		return err
	}
	document.Summarize(doc).Print(cfg.Stdout)
	if res.Diagnostics.Len() > 0 {
		fmt.Fprintf(cfg.Stdout, "Diagnostics (run %s):\n", res.RunID)
		for _, d := range res.Diagnostics.Items {
			fmt.Fprintf(cfg.Stdout, "- %s\n", d)
		}
	}
	return nil
}
