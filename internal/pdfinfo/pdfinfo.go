// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pdfinfo describes a local file chosen for submission: its name,
// size, declared type and, for readable PDFs, its page count.
package pdfinfo

import (
	"fmt"
	"io"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/pdiddy/paper-ingest/pkg/types"
)

// sniffLen is how many bytes content sniffing looks at.
const sniffLen = 512

// Inspect stats path and builds a FileInput. When declared is empty the type
// comes from the file extension, then from content sniffing. The page count
// is best effort: a PDF that cannot be parsed still yields a FileInput with
// Pages set to 0.
func Inspect(path, declared string) (types.FileInput, error) {
	info, err := os.Stat(path)
	if err != nil {
		return types.FileInput{}, fmt.Errorf("reading %s: %w", path, err)
	}
	if info.IsDir() {
		return types.FileInput{}, fmt.Errorf("%s is a directory", path)
	}

	contentType := declared
	if contentType == "" {
		contentType, err = DetectType(path)
		if err != nil {
			return types.FileInput{}, err
		}
	}

	in := types.FileInput{
		Name:        filepath.Base(path),
		Size:        info.Size(),
		ContentType: contentType,
		Path:        path,
	}
	if in.IsPDF() {
		in.Pages = PageCount(path)
	}
	return in, nil
}

// DetectType returns the MIME type for path by extension, falling back to
// sniffing its first bytes.
func DetectType(path string) (string, error) {
	if t := mime.TypeByExtension(strings.ToLower(filepath.Ext(path))); t != "" {
		return t, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	buf := make([]byte, sniffLen)
	n, err := io.ReadFull(f, buf)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return "", fmt.Errorf("reading %s: %w", path, err)
	}
	return http.DetectContentType(buf[:n]), nil
}

// PageCount returns the number of pages in the PDF at path, or 0 when the
// file cannot be parsed.
func PageCount(path string) (pages int) {
	defer func() {
		// The parser panics on some malformed cross-reference tables.
		if recover() != nil {
			pages = 0
		}
	}()

	f, r, err := pdf.Open(path)
	if err != nil {
		return 0
	}
	defer f.Close()
	return r.NumPage()
}
