package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mark3labs/msgdoc/internal/logger"
)

// Execute runs the msgdoc CLI.
func Execute() error {
	return NewRootCmd().Execute()
}

// NewRootCmd constructs the root command so tests can exercise the CLI easily.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "msgdoc",
		Short: "Generate OpenAPI descriptions for message-based services",
		Long: "msgdoc builds an OpenAPI description from a message catalog, exposing only exported " +
			"fields and modelling the message hierarchy as composition, discriminators and response unions.",
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			verbose, err := cmd.Flags().GetBool("verbose")
			if err != nil {
				return err
			}
			jsonLogs, err := cmd.Flags().GetBool("log-json")
			if err != nil {
				return err
			}
			logger.Configure(verbose, jsonLogs)
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	cmd.SetFlagErrorFunc(flagError)

	cmd.PersistentFlags().StringP("config", "c", "", "Config file path (YAML, JSON or TOML)")
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging output")
	cmd.PersistentFlags().Bool("log-json", false, "Emit logs as JSON")

	for _, sub := range []*cobra.Command{
		newGenerateCmd(),
		newInspectCmd(),
		newServeCmd(),
		newInitCmd(),
	} {
		sub.SetFlagErrorFunc(flagError)
		cmd.AddCommand(sub)
	}

	return cmd
}

// flagError turns cobra flag errors (like unknown flags) into usage errors
// that also show the command's help text.
func flagError(c *cobra.Command, err error) error {
	return newUsageError(fmt.Sprintf("%v\n\n%s", err, c.UsageString()))
}
