// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"github.com/spf13/cobra"

	"github.com/pdiddy/paper-ingest/internal/app"
	"github.com/pdiddy/paper-ingest/internal/backend"
)

var interactiveCmd = &cobra.Command{
	Use:   "interactive",
	Short: "Run the upload and results screens on the terminal",
	Long: `Interactive runs the two-screen client. The upload screen takes a local
PDF or a URL and sends it for processing; on success the results screen shows
the extracted text, images, and structured data. Type help on either screen
for its commands.`,
	RunE: runInteractive,
}

func init() {
	interactiveCmd.Flags().Bool("color", false, "colourize structured data")

	rootCmd.AddCommand(interactiveCmd)
}

func runInteractive(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		return err
	}
	color, _ := cmd.Flags().GetBool("color")

	client := backend.New(cfg, nil, logger)
	a := app.New(client, cmd.InOrStdin(), cmd.OutOrStdout(), logger, app.Options{Color: color})
	logger.Debug("interactive session", "api_base", cfg.APIBase)
	return a.Run(cmd.Context())
}
