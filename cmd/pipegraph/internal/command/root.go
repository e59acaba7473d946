// Package command implements the pipegraph CLI.
package command

import (
	"github.com/spf13/cobra"

	"github.com/askiada/go-pipegraph/internal/logging"
)

type rootOptions struct {
	logLevel  string
	logFormat string
}

// NewRootCommand builds the pipegraph command tree.
func NewRootCommand() *cobra.Command {
	var opts rootOptions

	cmd := &cobra.Command{
		Use:   "pipegraph",
		Short: "Build, inspect and submit pipeline graphs described in HCL",
		Long: "pipegraph loads module, datasource and graph definitions from HCL files and\n" +
			"translates graphs to the backend wire format. Registration and submission run\n" +
			"against an in-memory registry.\n",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			logger, err := logging.New(cmd.ErrOrStderr(), opts.logLevel, opts.logFormat)
			if err != nil {
				return err
			}

			cmd.SetContext(logging.WithLogger(cmd.Context(), logger))

			return nil
		},
	}

	cmd.CompletionOptions.DisableDefaultCmd = true
	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "warn", "Log level: debug, info, warn or error")
	cmd.PersistentFlags().StringVar(&opts.logFormat, "log-format", logging.FormatText, "Log format: text or json")

	cmd.AddCommand(
		newSerializeCommand(),
		newRenderCommand(),
		newInspectCommand(),
		newSubmitCommand(),
		newPublishCommand(),
	)

	return cmd
}
