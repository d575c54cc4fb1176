package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/spf13/cobra"

	"github.com/mark3labs/msgdoc/internal/server"
)

var serveRunner = runServe

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the transformed description over HTTP",
		Long: "Serve /swagger/v1/swagger.json and /swagger/v1/swagger.yaml. The document is rebuilt for " +
			"every request; ?legacy=true selects the Swagger 2.0 compatible output.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolveGenerateConfig(cmd)
			if err != nil {
				return err
			}
			return serveRunner(cmd.Context(), cfg)
		},
	}
	addDocumentFlags(cmd.Flags())
	cmd.Flags().String("addr", "", "Listen address (default :8080)")
	return cmd
}

func runServe(ctx context.Context, cfg *GenerateConfig) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	router := server.NewRouter(server.Config{
		Legacy: cfg.Legacy,
		Build: func(ctx context.Context, legacy bool) (*openapi3.T, error) {
			doc, _, err := buildDocument(ctx, cfg, legacy)
			return doc, err
		},
	})
	return server.Serve(ctx, cfg.Addr, router)
}
