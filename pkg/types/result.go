// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"github.com/pdiddy/paper-ingest/internal/doctree"
)

// Author is one entry of the author list the processing service extracts.
type Author struct {
	Name string `json:"name" yaml:"name"`
}

// ProcessingResult is the response of POST /process. It is created once per
// successful submission and read, never modified, by the results screen.
type ProcessingResult struct {
	// ID is an optional numeric run identifier some service versions return.
	ID *int64 `json:"id,omitempty" yaml:"id,omitempty"`

	// RunDir is the server-side directory holding this run's artifacts.
	RunDir string `json:"run_dir" yaml:"run_dir"`

	// PDFPath is the PDF path as recorded by the service.
	PDFPath string `json:"pdf_path" yaml:"pdf_path"`

	MarkdownFile string `json:"markdown_file" yaml:"markdown_file"`
	JSONFile     string `json:"json_file" yaml:"json_file"`
	ImagesDir    string `json:"images_dir" yaml:"images_dir"`

	// Authors lists extracted authors in service order.
	Authors []Author `json:"authors" yaml:"authors"`

	// DOI is nil when the service found none.
	DOI *string `json:"doi,omitempty" yaml:"doi,omitempty"`

	// PaperData is the structured document tree; nil when absent.
	PaperData *doctree.Node `json:"paper_data,omitempty" yaml:"paper_data,omitempty"`

	// MarkdownPreview is a truncated excerpt of the extracted text.
	MarkdownPreview *string `json:"markdown_preview,omitempty" yaml:"markdown_preview,omitempty"`

	// Resource locators, relative to the service base address.
	PDFURL      string `json:"pdf_url,omitempty" yaml:"pdf_url,omitempty"`
	MarkdownURL string `json:"markdown_url,omitempty" yaml:"markdown_url,omitempty"`
	JSONURL     string `json:"json_url,omitempty" yaml:"json_url,omitempty"`
}

// ImageRef is one entry of paper_data.images.
type ImageRef struct {
	// Page is the page number as received, "" when the entry has none.
	Page string `json:"page,omitempty" yaml:"page,omitempty"`
	Path string `json:"path,omitempty" yaml:"path,omitempty"`
	URL  string `json:"url,omitempty" yaml:"url,omitempty"`
}

// Preview returns the markdown preview, or "" when absent.
func (r *ProcessingResult) Preview() string {
	if r == nil || r.MarkdownPreview == nil {
		return ""
	}
	return *r.MarkdownPreview
}

// Images returns the entries of paper_data.images in order. Entries that are
// not objects yield empty refs; a missing or non-list images value yields an
// empty slice.
func (r *ProcessingResult) Images() []ImageRef {
	if r == nil {
		return []ImageRef{}
	}
	items := r.PaperData.Get("images").Items()
	refs := make([]ImageRef, 0, len(items))
	for _, item := range items {
		var ref ImageRef
		switch page := item.Get("page"); page.Kind() {
		case doctree.Number:
			ref.Page = page.Literal()
		case doctree.String:
			ref.Page, _ = page.Str()
		}
		ref.Path, _ = item.Get("path").Str()
		ref.URL, _ = item.Get("url").Str()
		refs = append(refs, ref)
	}
	return refs
}
