// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package app runs the two-screen terminal client: a submission screen that
// sends one document to the processing service, and a results screen that
// shows what came back. Screens read one command per line from the input.
package app

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/pdiddy/paper-ingest/internal/backend"
	"github.com/pdiddy/paper-ingest/internal/pdfinfo"
	"github.com/pdiddy/paper-ingest/internal/results"
	"github.com/pdiddy/paper-ingest/internal/session"
	"github.com/pdiddy/paper-ingest/internal/submit"
	"github.com/pdiddy/paper-ingest/pkg/types"
)

// Options adjusts the app.
type Options struct {
	// Color enables terminal colours for structured data.
	Color bool

	// Inspect describes a local file; defaults to pdfinfo.Inspect.
	Inspect func(path, declared string) (types.FileInput, error)
}

// App is the terminal client.
type App struct {
	client  *backend.Client
	handoff *session.Handoff
	in      *bufio.Scanner
	out     io.Writer
	log     *slog.Logger
	opts    Options
}

// New returns an app reading commands from in and drawing to out.
func New(client *backend.Client, in io.Reader, out io.Writer, logger *slog.Logger, opts Options) *App {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	if opts.Inspect == nil {
		opts.Inspect = pdfinfo.Inspect
	}
	return &App{
		client:  client,
		handoff: session.NewHandoff(logger),
		in:      bufio.NewScanner(in),
		out:     out,
		log:     logger,
		opts:    opts,
	}
}

type screen int

const (
	screenSubmit screen = iota
	screenResults
	screenQuit
)

// Run drives the screens until "quit" or end of input.
func (a *App) Run(ctx context.Context) error {
	next := screenSubmit
	for next != screenQuit {
		if err := ctx.Err(); err != nil {
			return err
		}
		var err error
		switch next {
		case screenSubmit:
			next, err = a.runSubmit(ctx)
		case screenResults:
			next, err = a.runResults(ctx)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// readLine returns the next non-blank command and its argument text.
func (a *App) readLine() (cmd, arg string, ok bool) {
	for a.in.Scan() {
		line := strings.TrimSpace(a.in.Text())
		if line == "" {
			continue
		}
		cmd, arg, _ = strings.Cut(line, " ")
		return strings.ToLower(cmd), strings.TrimSpace(arg), true
	}
	return "", "", false
}

func (a *App) notifier() submit.Notifier {
	return submit.NotifierFunc(func(n submit.Notice) {
		tag := "ok"
		if n.Destructive {
			tag = "error"
		}
		fmt.Fprintf(a.out, "[%s] %s: %s\n", tag, n.Title, n.Description)
	})
}

func (a *App) runSubmit(ctx context.Context) (screen, error) {
	ctrl := submit.New(a.client, a.handoff, a.notifier(), a.log)
	defer ctrl.Close()

	a.drawSubmit(ctrl)
	for {
		cmd, arg, ok := a.readLine()
		if !ok {
			return screenQuit, a.in.Err()
		}

		switch cmd {
		case "mode":
			m, err := submit.ParseMode(arg)
			if err != nil {
				fmt.Fprintln(a.out, err)
				continue
			}
			a.report(ctrl.SetMode(m))
			a.drawSubmit(ctrl)
		case "file":
			if arg == "" {
				fmt.Fprintln(a.out, "usage: file <path>")
				continue
			}
			in, err := a.opts.Inspect(arg, "")
			if err != nil {
				fmt.Fprintf(a.out, "[error] Could not read file: %v\n", err)
				continue
			}
			if err := ctrl.AcceptFile(in); err != nil && !errors.Is(err, submit.ErrInvalidFileType) {
				a.report(err)
			}
			a.drawSubmit(ctrl)
		case "url":
			a.report(ctrl.SetURL(arg))
			a.drawSubmit(ctrl)
		case "remove":
			a.report(ctrl.RemoveFile())
			a.drawSubmit(ctrl)
		case "process":
			if !ctrl.CanSubmit() {
				fmt.Fprintln(a.out, "Nothing to process yet (disabled).")
				continue
			}
			fmt.Fprintln(a.out, "Processing...")
			if err := ctrl.Process(ctx); err != nil {
				a.drawSubmit(ctrl)
				continue
			}
			return screenResults, nil
		case "results":
			return screenResults, nil
		case "status":
			a.drawSubmit(ctrl)
		case "help":
			fmt.Fprint(a.out, submitHelp)
		case "quit", "exit":
			return screenQuit, nil
		default:
			fmt.Fprintf(a.out, "unknown command %q; try help\n", cmd)
		}
	}
}

func (a *App) runResults(ctx context.Context) (screen, error) {
	var result *types.ProcessingResult
	if t, ok := a.handoff.Take(); ok {
		a.log.Debug("results screen opened", "transfer", t.ID)
		result = t.Result
	}
	v := results.New(result, a.client, a.client.BaseURL(), a.log)
	defer v.Close()

	render := func() { results.Render(a.out, v, results.RenderOptions{Color: a.opts.Color}) }
	render()

	for {
		cmd, _, ok := a.readLine()
		if !ok {
			return screenQuit, a.in.Err()
		}

		if v.Empty() && cmd != "back" && cmd != "quit" && cmd != "exit" && cmd != "help" {
			fmt.Fprintln(a.out, "No results loaded. Use back to return to upload.")
			continue
		}

		switch cmd {
		case "text", "images", "data":
			tab, _ := results.ParseTab(cmd)
			v.SetTab(tab)
			render()
		case "full":
			if !v.CanLoadFullText() {
				fmt.Fprintln(a.out, "Load full text is not available (disabled).")
				continue
			}
			v.SetTab(results.TabText)
			fmt.Fprintln(a.out, "Loading...")
			v.LoadFullText(ctx)
			render()
		case "preview":
			if !v.HasFullText() {
				fmt.Fprintln(a.out, "Already showing the preview.")
				continue
			}
			v.ShowPreview()
			render()
		case "export":
			if u, ok := v.ExportURL(); ok {
				fmt.Fprintln(a.out, u)
			} else {
				fmt.Fprintln(a.out, "No JSON export available.")
			}
		case "pdf":
			if u, ok := v.PDFURL(); ok {
				fmt.Fprintln(a.out, u)
			} else {
				fmt.Fprintln(a.out, "No PDF link available.")
			}
		case "back":
			a.handoff.Clear()
			return screenSubmit, nil
		case "help":
			fmt.Fprint(a.out, resultsHelp)
		case "quit", "exit":
			return screenQuit, nil
		default:
			fmt.Fprintf(a.out, "unknown command %q; try help\n", cmd)
		}
	}
}

// report prints controller errors that are not shown as notices.
func (a *App) report(err error) {
	if err != nil {
		fmt.Fprintf(a.out, "%v\n", err)
	}
}

func (a *App) drawSubmit(ctrl *submit.Controller) {
	s := ctrl.Snapshot()

	fileTab, urlTab := "[Upload File]", " Paste URL "
	if s.Mode == submit.ModeURL {
		fileTab, urlTab = " Upload File ", "[Paste URL]"
	}
	fmt.Fprintln(a.out, "Choose Your Method")
	fmt.Fprintf(a.out, "%s %s\n", fileTab, urlTab)

	disabled := ""
	if !s.CanSubmit {
		disabled = " (disabled)"
	}

	switch s.Mode {
	case submit.ModeFile:
		if s.File == nil {
			fmt.Fprintln(a.out, "Drop your PDF here: file <path>")
			break
		}
		line := fmt.Sprintf("%s  %s", s.File.Name, humanize.Bytes(uint64(s.File.Size)))
		if s.File.Pages > 0 {
			line += fmt.Sprintf(", %d pages", s.File.Pages)
		}
		fmt.Fprintln(a.out, line)
		fmt.Fprintf(a.out, "  process  Process PDF%s\n", disabled)
		fmt.Fprintln(a.out, "  remove   Remove")
	case submit.ModeURL:
		if s.URL == "" {
			fmt.Fprintln(a.out, "Paste PDF URL: url https://example.com/document.pdf")
		} else {
			fmt.Fprintf(a.out, "URL: %s\n", s.URL)
		}
		fmt.Fprintf(a.out, "  process  Process PDF from URL%s\n", disabled)
	}
	if s.LastError != "" {
		fmt.Fprintf(a.out, "Last attempt failed: %s\n", s.LastError)
	}
}

const submitHelp = `Commands:
  mode file|url   switch input method (discards the other input)
  file <path>     choose a local PDF
  url <address>   enter a PDF URL
  remove          remove the chosen file
  process         send the input for processing
  results         open the results screen
  status          redraw this screen
  quit            exit
`

const resultsHelp = `Commands:
  text | images | data   switch tab
  full                   load the full extracted text
  preview                go back to the preview text
  export                 print the JSON export link
  pdf                    print the stored PDF link
  back                   return to upload
  quit                   exit
`
