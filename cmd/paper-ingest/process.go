// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/paper-ingest/internal/backend"
	"github.com/pdiddy/paper-ingest/internal/pdfinfo"
	"github.com/pdiddy/paper-ingest/internal/results"
	"github.com/pdiddy/paper-ingest/internal/session"
	"github.com/pdiddy/paper-ingest/internal/submit"
	"github.com/pdiddy/paper-ingest/pkg/types"
)

var processCmd = &cobra.Command{
	Use:   "process",
	Short: "Send one PDF for processing and print the results",
	Long: `Process submits a single PDF, given as a local file (--file) or a URL
(--url), to the processing service. On success it prints the results screen
for the chosen tab, or the whole result as JSON or YAML.`,
	Args: cobra.NoArgs,
	RunE: runProcess,
}

func init() {
	processCmd.Flags().String("file", "", "local PDF to upload")
	processCmd.Flags().String("url", "", "PDF URL for the service to fetch")
	processCmd.Flags().String("tab", "text", "results tab to print: text, images, data")
	processCmd.Flags().Bool("full", false, "load the full extracted text instead of the preview")
	processCmd.Flags().String("format", "text", "output format: text, json, yaml")
	processCmd.Flags().String("content-type", "", "declared content type of --file (default: detected)")
	processCmd.Flags().Bool("color", false, "colourize structured data")

	processCmd.MarkFlagsMutuallyExclusive("file", "url")
	processCmd.MarkFlagsOneRequired("file", "url")

	rootCmd.AddCommand(processCmd)
}

// processOptions carries the process flags.
type processOptions struct {
	File        string
	URL         string
	ContentType string
	Tab         results.Tab
	Full        bool
	Format      string
	Color       bool
}

func runProcess(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		return err
	}

	var opts processOptions
	opts.File, _ = cmd.Flags().GetString("file")
	opts.URL, _ = cmd.Flags().GetString("url")
	opts.ContentType, _ = cmd.Flags().GetString("content-type")
	opts.Full, _ = cmd.Flags().GetBool("full")
	opts.Format, _ = cmd.Flags().GetString("format")
	opts.Color, _ = cmd.Flags().GetBool("color")
	tab, _ := cmd.Flags().GetString("tab")
	if opts.Tab, err = results.ParseTab(tab); err != nil {
		return err
	}

	return process(cmd.Context(), cfg, nil, opts, cmd.OutOrStdout(), cmd.ErrOrStderr(), logger)
}

// process runs one submission and writes the outcome to out. Notices and
// progress go to errOut.
func process(ctx context.Context, cfg types.ClientConfig, httpClient *http.Client, opts processOptions, out, errOut io.Writer, logger *slog.Logger) error {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	switch opts.Format {
	case "text", "json", "yaml":
	default:
		return fmt.Errorf("unknown format %q (want text, json, or yaml)", opts.Format)
	}

	client := backend.New(cfg, httpClient, logger)
	handoff := session.NewHandoff(logger)
	notify := submit.NotifierFunc(func(n submit.Notice) {
		tag := "ok"
		if n.Destructive {
			tag = "error"
		}
		fmt.Fprintf(errOut, "[%s] %s: %s\n", tag, n.Title, n.Description)
	})

	ctrl := submit.New(client, handoff, notify, logger)
	defer ctrl.Close()

	if opts.File != "" {
		in, err := pdfinfo.Inspect(opts.File, opts.ContentType)
		if err != nil {
			return fmt.Errorf("reading %s: %w", opts.File, err)
		}
		if err := ctrl.AcceptFile(in); err != nil {
			return err
		}
		fmt.Fprintf(errOut, "Processing %s (%s)...\n", in.Name, humanize.Bytes(uint64(in.Size)))
	} else {
		if err := ctrl.SetMode(submit.ModeURL); err != nil {
			return err
		}
		if err := ctrl.SetURL(opts.URL); err != nil {
			return err
		}
		if !ctrl.CanSubmit() {
			return fmt.Errorf("--url is empty: %w", submit.ErrNotReady)
		}
		fmt.Fprintf(errOut, "Processing %s...\n", opts.URL)
	}

	if err := ctrl.Process(ctx); err != nil {
		return err
	}

	t, ok := handoff.Take()
	if !ok {
		return errors.New("processing succeeded but no result was handed over")
	}
	logger.Debug("result received", "transfer", t.ID)

	switch opts.Format {
	case "json":
		enc := json.NewEncoder(out)
		enc.SetEscapeHTML(false)
		enc.SetIndent("", "  ")
		if err := enc.Encode(t.Result); err != nil {
			return fmt.Errorf("encoding result: %w", err)
		}
		return nil
	case "yaml":
		enc := yaml.NewEncoder(out)
		enc.SetIndent(2)
		if err := enc.Encode(t.Result); err != nil {
			return fmt.Errorf("encoding result: %w", err)
		}
		return enc.Close()
	}

	v := results.New(t.Result, client, client.BaseURL(), logger)
	defer v.Close()
	if opts.Full && v.OffersFullText() {
		if !v.LoadFullText(ctx) {
			fmt.Fprintln(errOut, "Full text could not be loaded; showing the preview.")
		}
	}
	v.SetTab(opts.Tab)
	results.Render(out, v, results.RenderOptions{Color: opts.Color})
	return nil
}
