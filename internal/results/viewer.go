// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package results implements the results screen: it presents a
// ProcessingResult handed over by the submission screen across three tabs
// and loads the full extracted text on request.
package results

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/pdiddy/paper-ingest/internal/httputil"
	"github.com/pdiddy/paper-ingest/pkg/types"
)

// Literal texts shown by the screen.
const (
	DefaultTitle        = "Processed PDF"
	EmptyMessage        = "No results loaded."
	NoTextPlaceholder   = "No text available."
	NoImagesPlaceholder = "No images detected."
	NoDataPlaceholder   = "No structured data."
	UnknownPage         = "?"
)

// Tab is one of the three content views.
type Tab int

const (
	TabText Tab = iota
	TabImages
	TabData
)

func (t Tab) String() string {
	switch t {
	case TabImages:
		return "images"
	case TabData:
		return "data"
	default:
		return "text"
	}
}

// ParseTab accepts "text", "images" and "data".
func ParseTab(s string) (Tab, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "text":
		return TabText, nil
	case "images":
		return TabImages, nil
	case "data":
		return TabData, nil
	default:
		return TabText, fmt.Errorf("unknown tab %q (want text, images or data)", s)
	}
}

// TextFetcher retrieves a text artifact by its service-relative locator.
type TextFetcher interface {
	FetchText(ctx context.Context, locator string) (string, error)
}

// ImageCard is one entry of the images tab.
type ImageCard struct {
	// Label is "Page N", or "Page ?" when the entry has no page.
	Label string
	// URL is the resolved image address; empty when the entry has none.
	URL string
	// Path is the server-side path, informational only.
	Path string
	// Placeholder is set when there is no URL to show.
	Placeholder bool
}

// Viewer holds the results screen state. The result it was given is never
// modified.
type Viewer struct {
	result *types.ProcessingResult
	fetch  TextFetcher
	base   string
	log    *slog.Logger

	mu       sync.Mutex
	tab      Tab
	fullText string
	loading  bool
	closed   bool
}

// New returns a viewer for result. A nil result gives an empty viewer that
// only offers the way back to submission.
func New(result *types.ProcessingResult, fetch TextFetcher, apiBase string, logger *slog.Logger) *Viewer {
	if apiBase == "" {
		apiBase = types.DefaultAPIBase
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Viewer{result: result, fetch: fetch, base: apiBase, log: logger}
}

// Empty reports whether the screen was reached without a result.
func (v *Viewer) Empty() bool { return v.result == nil }

// Result returns the result being shown, or nil.
func (v *Viewer) Result() *types.ProcessingResult { return v.result }

// Title is the file name of the processed PDF.
func (v *Viewer) Title() string {
	if v.result == nil {
		return DefaultTitle
	}
	return DeriveTitle(v.result.PDFPath)
}

// DeriveTitle returns the last segment of pdfPath, splitting on both slash
// forms, or DefaultTitle when that segment is empty.
func DeriveTitle(pdfPath string) string {
	name := pdfPath
	if i := strings.LastIndexAny(pdfPath, `/\`); i >= 0 {
		name = pdfPath[i+1:]
	}
	if name == "" {
		return DefaultTitle
	}
	return name
}

// Authors returns author names in service order.
func (v *Viewer) Authors() []string {
	if v.result == nil {
		return nil
	}
	names := make([]string, 0, len(v.result.Authors))
	for _, a := range v.result.Authors {
		if a.Name != "" {
			names = append(names, a.Name)
		}
	}
	return names
}

// DOI returns the DOI, or "".
func (v *Viewer) DOI() string {
	if v.result == nil || v.result.DOI == nil {
		return ""
	}
	return *v.result.DOI
}

// ActiveTab returns the selected tab.
func (v *Viewer) ActiveTab() Tab {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.tab
}

// SetTab selects a tab. No state is lost by switching.
func (v *Viewer) SetTab(t Tab) {
	v.mu.Lock()
	v.tab = t
	v.mu.Unlock()
}

// Text is what the text tab displays: the full text once loaded, else the
// preview, else NoTextPlaceholder.
func (v *Viewer) Text() string {
	v.mu.Lock()
	full := v.fullText
	v.mu.Unlock()

	if full != "" {
		return full
	}
	if p := v.result.Preview(); p != "" {
		return p
	}
	return NoTextPlaceholder
}

// HasFullText reports whether the full text is loaded.
func (v *Viewer) HasFullText() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.fullText != ""
}

// Loading reports whether a full-text fetch is outstanding.
func (v *Viewer) Loading() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.loading
}

// OffersFullText reports whether the "load full text" action is shown:
// there is a markdown locator and no full text yet.
func (v *Viewer) OffersFullText() bool {
	if v.result == nil || v.result.MarkdownURL == "" {
		return false
	}
	return !v.HasFullText()
}

// CanLoadFullText reports whether LoadFullText would issue a request.
func (v *Viewer) CanLoadFullText() bool {
	if !v.OffersFullText() {
		return false
	}
	v.mu.Lock()
	defer v.mu.Unlock()
	return !v.loading && !v.closed
}

// LoadFullText fetches the full text once. It returns false without a
// request while a fetch is outstanding, when the text is already loaded, or
// when the result has no markdown locator. A failed fetch changes nothing
// and is not reported; the action may be tried again.
func (v *Viewer) LoadFullText(ctx context.Context) bool {
	if v.result == nil || v.result.MarkdownURL == "" || v.fetch == nil {
		return false
	}
	locator := v.result.MarkdownURL

	v.mu.Lock()
	if v.closed || v.loading || v.fullText != "" {
		v.mu.Unlock()
		return false
	}
	v.loading = true
	v.mu.Unlock()

	text, err := v.fetch.FetchText(ctx, locator)

	v.mu.Lock()
	defer v.mu.Unlock()
	v.loading = false
	if v.closed {
		return false
	}
	if err != nil {
		v.log.Debug("full text fetch failed", "locator", locator, "error", err)
		return false
	}
	v.fullText = text
	return text != ""
}

// ShowPreview discards the loaded full text so the preview shows again.
// It reports whether there was full text to discard.
func (v *Viewer) ShowPreview() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	had := v.fullText != ""
	v.fullText = ""
	return had
}

// Images returns one card per paper_data.images entry.
func (v *Viewer) Images() []ImageCard {
	refs := v.result.Images()
	cards := make([]ImageCard, 0, len(refs))
	for _, ref := range refs {
		card := ImageCard{Label: "Page " + UnknownPage, Path: ref.Path}
		if ref.Page != "" {
			card.Label = "Page " + ref.Page
		}
		if ref.URL != "" {
			card.URL = httputil.ResolveURL(v.base, ref.URL)
		} else {
			card.Placeholder = true
		}
		cards = append(cards, card)
	}
	return cards
}

// Data returns paper_data pretty-printed in received key order. It reports
// false when the result has no paper_data.
func (v *Viewer) Data() (string, bool) {
	if v.result == nil || v.result.PaperData == nil {
		return "", false
	}
	s, err := v.result.PaperData.Pretty()
	if err != nil {
		v.log.Warn("rendering structured data", "error", err)
		return "", false
	}
	return s, true
}

// ExportURL is the resolved JSON artifact address, when the service
// provided one.
func (v *Viewer) ExportURL() (string, bool) {
	if v.result == nil || v.result.JSONURL == "" {
		return "", false
	}
	return httputil.ResolveURL(v.base, v.result.JSONURL), true
}

// PDFURL is the resolved address of the stored PDF, when provided.
func (v *Viewer) PDFURL() (string, bool) {
	if v.result == nil || v.result.PDFURL == "" {
		return "", false
	}
	return httputil.ResolveURL(v.base, v.result.PDFURL), true
}

// Close tears the viewer down; an outstanding fetch's outcome is dropped.
func (v *Viewer) Close() {
	v.mu.Lock()
	v.closed = true
	v.mu.Unlock()
}
