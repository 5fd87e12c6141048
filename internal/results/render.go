// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package results

import (
	"fmt"
	"io"
	"strings"
)

// RenderOptions adjusts screen output.
type RenderOptions struct {
	// Color enables terminal colours in the structured data tab.
	Color bool
}

var tabLabels = []struct {
	tab   Tab
	label string
}{
	{TabText, "Extracted Text"},
	{TabImages, "Images"},
	{TabData, "Structured Data"},
}

// Render writes the screen for the active tab.
func Render(w io.Writer, v *Viewer, opts RenderOptions) {
	if v.Empty() {
		fmt.Fprintln(w, EmptyMessage)
		fmt.Fprintln(w, "  back  Back to Upload")
		return
	}

	renderHeader(w, v)

	switch v.ActiveTab() {
	case TabText:
		renderText(w, v)
	case TabImages:
		renderImages(w, v)
	case TabData:
		renderData(w, v, opts)
	}
}

func renderHeader(w io.Writer, v *Viewer) {
	fmt.Fprintln(w, "PDF Extraction Results")
	fmt.Fprintf(w, "Extracted content from %s\n", v.Title())
	if authors := v.Authors(); len(authors) > 0 {
		fmt.Fprintf(w, "Authors: %s\n", strings.Join(authors, ", "))
	}
	if doi := v.DOI(); doi != "" {
		fmt.Fprintf(w, "DOI: %s\n", doi)
	}
	if u, ok := v.ExportURL(); ok {
		fmt.Fprintf(w, "Export JSON: %s\n", u)
	}
	if u, ok := v.PDFURL(); ok {
		fmt.Fprintf(w, "PDF: %s\n", u)
	}
	fmt.Fprintln(w)

	active := v.ActiveTab()
	labels := make([]string, 0, len(tabLabels))
	for _, tl := range tabLabels {
		if tl.tab == active {
			labels = append(labels, "["+tl.label+"]")
		} else {
			labels = append(labels, " "+tl.label+" ")
		}
	}
	fmt.Fprintln(w, strings.Join(labels, " "))
	fmt.Fprintln(w)
}

func renderText(w io.Writer, v *Viewer) {
	fmt.Fprintln(w, "Extracted Text Content")
	switch {
	case v.Loading():
		fmt.Fprintln(w, "  full     Loading... (disabled)")
	case v.OffersFullText():
		fmt.Fprintln(w, "  full     Load full text")
	}
	if v.HasFullText() {
		fmt.Fprintln(w, "  preview  Show preview")
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, v.Text())
}

func renderImages(w io.Writer, v *Viewer) {
	cards := v.Images()
	if len(cards) == 0 {
		fmt.Fprintln(w, NoImagesPlaceholder)
		return
	}
	for _, c := range cards {
		fmt.Fprintln(w, c.Label)
		if c.Placeholder {
			fmt.Fprintln(w, "  [no image]")
		} else {
			fmt.Fprintf(w, "  %s\n", c.URL)
		}
	}
}

func renderData(w io.Writer, v *Viewer, opts RenderOptions) {
	if v.Result().PaperData == nil {
		fmt.Fprintln(w, NoDataPlaceholder)
		return
	}
	fmt.Fprintln(w, "Structured Data (from backend)")
	fmt.Fprintln(w, "Parsed document structure and metadata")
	fmt.Fprintln(w)

	if opts.Color {
		if s, err := v.Result().PaperData.Colorized(); err == nil {
			fmt.Fprintln(w, s)
			return
		}
	}
	s, ok := v.Data()
	if !ok {
		fmt.Fprintln(w, NoDataPlaceholder)
		return
	}
	fmt.Fprintln(w, s)
}
