// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "mime"

// PDFContentType is the only declared type the client submits.
const PDFContentType = "application/pdf"

// FileInput is a local file chosen for submission.
type FileInput struct {
	// Name is the file name sent to the service.
	Name string `json:"name" yaml:"name"`

	// Size is the file size in bytes.
	Size int64 `json:"size" yaml:"size"`

	// ContentType is the declared MIME type.
	ContentType string `json:"content_type" yaml:"content_type"`

	// Path is where the bytes are read from at submission time.
	Path string `json:"path" yaml:"path"`

	// Pages is the page count when it could be read, 0 otherwise.
	Pages int `json:"pages,omitempty" yaml:"pages,omitempty"`
}

// IsPDF reports whether the declared type is PDF. Parameters such as
// "; charset=binary" are ignored.
func (f FileInput) IsPDF() bool {
	mediaType, _, err := mime.ParseMediaType(f.ContentType)
	if err != nil {
		return false
	}
	return mediaType == PDFContentType
}
