// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package backend talks to the document processing service: one multipart
// POST /process per submission, and plain GETs for text artifacts.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"os"
	"strings"

	"golang.org/x/sync/singleflight"

	"github.com/pdiddy/paper-ingest/internal/httputil"
	"github.com/pdiddy/paper-ingest/pkg/types"
)

const (
	processPath = "/process"

	fieldFile = "file"
	fieldURL  = "pdf_url"
)

// ErrInvalidSubmission is returned when a Submission carries both or
// neither of a file and a URL. No request is made.
var ErrInvalidSubmission = errors.New("submission must carry exactly one of file or URL")

// ErrorKind classifies a failed call.
type ErrorKind int

const (
	// KindTransport means the request never completed.
	KindTransport ErrorKind = iota + 1
	// KindStatus means the service answered with a non-2xx status.
	KindStatus
	// KindDecode means a 2xx body could not be parsed.
	KindDecode
)

func (k ErrorKind) String() string {
	switch k {
	case KindTransport:
		return "transport"
	case KindStatus:
		return "status"
	case KindDecode:
		return "decode"
	default:
		return fmt.Sprintf("ErrorKind(%d)", int(k))
	}
}

// Error is a failed call to the processing service. Message is the text
// shown to the user.
type Error struct {
	Kind    ErrorKind
	Status  int
	Message string
	Err     error
}

func (e *Error) Error() string { return e.Message }

func (e *Error) Unwrap() error { return e.Err }

// Submission is the payload of one POST /process. Exactly one of File and
// URL is set.
type Submission struct {
	File *types.FileInput
	URL  string
}

// Client calls the processing service.
type Client struct {
	http      *http.Client
	base      string
	userAgent string
	log       *slog.Logger
	texts     singleflight.Group
}

// New returns a client for cfg.APIBase. A nil httpClient uses a client with
// no timeout; a nil logger discards.
func New(cfg types.ClientConfig, httpClient *http.Client, logger *slog.Logger) *Client {
	cfg = cfg.WithDefaults()
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Client{
		http:      httpClient,
		base:      cfg.APIBase,
		userAgent: cfg.UserAgent,
		log:       logger,
	}
}

// BaseURL returns the service base address.
func (c *Client) BaseURL() string { return c.base }

// Process sends one submission and decodes the result. The body is read in
// full before it is parsed. Failures to read the local file happen before
// any request and are returned as plain wrapped errors, not *Error.
func (c *Client) Process(ctx context.Context, sub Submission) (*types.ProcessingResult, error) {
	if (sub.File == nil) == (strings.TrimSpace(sub.URL) == "") {
		return nil, ErrInvalidSubmission
	}

	body, contentType, err := encodeSubmission(sub)
	if err != nil {
		return nil, fmt.Errorf("preparing upload: %w", err)
	}

	endpoint := httputil.ResolveURL(c.base, processPath)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, body)
	if err != nil {
		return nil, &Error{Kind: KindTransport, Message: "Network error: " + err.Error(), Err: err}
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)

	c.log.Debug("submitting", "endpoint", endpoint, "mode", sub.mode())

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &Error{Kind: KindTransport, Message: "Network error: " + err.Error(), Err: err}
	}
	defer httputil.DrainClose(resp)

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &Error{Kind: KindTransport, Status: resp.StatusCode, Message: "Network error: " + err.Error(), Err: err}
	}

	if !httputil.IsSuccess(resp.StatusCode) {
		msg, ok := httputil.ErrorDetail(data)
		if !ok {
			msg = fmt.Sprintf("Request failed with %d", resp.StatusCode)
		}
		c.log.Debug("process rejected", "status", resp.StatusCode, "detail", msg)
		return nil, &Error{Kind: KindStatus, Status: resp.StatusCode, Message: msg}
	}

	var result types.ProcessingResult
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, &Error{
			Kind:    KindDecode,
			Status:  resp.StatusCode,
			Message: "Invalid response from processing service",
			Err:     fmt.Errorf("parsing process response: %w", err),
		}
	}
	return &result, nil
}

// FetchText GETs a text artifact by its locator and returns the raw body.
// Concurrent calls for the same locator share one request.
func (c *Client) FetchText(ctx context.Context, locator string) (string, error) {
	target := httputil.ResolveURL(c.base, locator)
	v, err, shared := c.texts.Do(target, func() (interface{}, error) {
		return c.fetchText(ctx, target)
	})
	if shared {
		c.log.Debug("joined in-flight text fetch", "url", target)
	}
	if err != nil {
		return "", err
	}
	return v.(string), nil
}

func (c *Client) fetchText(ctx context.Context, target string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return "", &Error{Kind: KindTransport, Message: "Network error: " + err.Error(), Err: err}
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return "", &Error{Kind: KindTransport, Message: "Network error: " + err.Error(), Err: err}
	}
	defer httputil.DrainClose(resp)

	if !httputil.IsSuccess(resp.StatusCode) {
		return "", &Error{Kind: KindStatus, Status: resp.StatusCode, Message: fmt.Sprintf("Request failed with %d", resp.StatusCode)}
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &Error{Kind: KindTransport, Status: resp.StatusCode, Message: "Network error: " + err.Error(), Err: err}
	}
	return string(data), nil
}

func (s Submission) mode() string {
	if s.File != nil {
		return "file"
	}
	return "url"
}

// encodeSubmission builds the multipart body. The URL is trimmed; a file
// part always declares application/pdf.
func encodeSubmission(sub Submission) (io.Reader, string, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	if sub.File != nil {
		f, err := os.Open(sub.File.Path)
		if err != nil {
			return nil, "", fmt.Errorf("opening %s: %w", sub.File.Path, err)
		}
		defer f.Close()

		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, fieldFile, sub.File.Name))
		h.Set("Content-Type", types.PDFContentType)
		part, err := mw.CreatePart(h)
		if err != nil {
			return nil, "", fmt.Errorf("creating file part: %w", err)
		}
		if _, err := io.Copy(part, f); err != nil {
			return nil, "", fmt.Errorf("reading %s: %w", sub.File.Path, err)
		}
	} else {
		if err := mw.WriteField(fieldURL, strings.TrimSpace(sub.URL)); err != nil {
			return nil, "", fmt.Errorf("writing %s field: %w", fieldURL, err)
		}
	}

	if err := mw.Close(); err != nil {
		return nil, "", fmt.Errorf("closing multipart body: %w", err)
	}
	return &buf, mw.FormDataContentType(), nil
}
