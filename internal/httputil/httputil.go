// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package httputil provides HTTP helpers shared by the submission and
// results screens.
package httputil

import (
	"io"
	"net/http"
	"strings"

	"github.com/tidwall/gjson"
)

// ResolveURL joins a resource locator returned by the processing service to
// the service base address. Absolute http(s) locators are returned as-is.
func ResolveURL(base, locator string) string {
	if strings.HasPrefix(locator, "http://") || strings.HasPrefix(locator, "https://") {
		return locator
	}
	if strings.HasPrefix(locator, "/") {
		base = strings.TrimRight(base, "/")
	}
	return base + locator
}

// ErrorDetail extracts the "detail" message from an error response body.
// It reports false when the body is not JSON or detail is not a non-empty
// string (validation errors carry a list there, for instance).
func ErrorDetail(body []byte) (string, bool) {
	if !gjson.ValidBytes(body) {
		return "", false
	}
	d := gjson.GetBytes(body, "detail")
	if d.Type != gjson.String || d.Str == "" {
		return "", false
	}
	return d.Str, true
}

// IsSuccess reports whether status is 2xx.
func IsSuccess(status int) bool {
	return status >= http.StatusOK && status < http.StatusMultipleChoices
}

// DrainClose discards what remains of the body and closes it so the
// connection can be reused.
func DrainClose(resp *http.Response) {
	if resp == nil || resp.Body == nil {
		return
	}
	io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
}
