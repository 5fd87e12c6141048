// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package submit implements the submission screen's controller: it holds
// exactly one armed input (a local PDF or a remote URL), sends it to the
// processing service once per trigger, and hands a successful result to the
// results screen.
package submit

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/pdiddy/paper-ingest/internal/backend"
	"github.com/pdiddy/paper-ingest/pkg/types"
)

var (
	// ErrBusy is returned while a submission is in flight. Nothing changes.
	ErrBusy = errors.New("a submission is already in progress")

	// ErrNotReady is returned by Process when the active mode has no value,
	// including a URL that is blank after trimming. No request is made.
	ErrNotReady = errors.New("nothing to submit")

	// ErrInvalidFileType is returned by AcceptFile for non-PDF files.
	ErrInvalidFileType = errors.New("invalid file type")

	// ErrFinished is returned once a submission has succeeded.
	ErrFinished = errors.New("submission already completed")

	// ErrClosed is returned after Close.
	ErrClosed = errors.New("controller closed")
)

// Mode selects which input is active.
type Mode int

const (
	ModeFile Mode = iota
	ModeURL
)

func (m Mode) String() string {
	if m == ModeURL {
		return "url"
	}
	return "file"
}

// ParseMode accepts "file"/"upload" and "url".
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "file", "upload":
		return ModeFile, nil
	case "url":
		return ModeURL, nil
	default:
		return ModeFile, fmt.Errorf("unknown mode %q (want file or url)", s)
	}
}

// State is the controller's position in the submission lifecycle.
type State int

const (
	StateIdle State = iota
	StateFileReady
	StateURLReady
	StateSubmitting
	StateSucceeded
	StateFailed
)

var stateNames = [...]string{"idle", "file-ready", "url-ready", "submitting", "succeeded", "failed"}

func (s State) String() string {
	if int(s) < len(stateNames) {
		return stateNames[s]
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// Notice is a user-visible notification.
type Notice struct {
	Title       string
	Description string
	Destructive bool
}

// Notifier shows notices to the user.
type Notifier interface {
	Notify(Notice)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(Notice)

func (f NotifierFunc) Notify(n Notice) { f(n) }

// Navigator receives the result of a successful submission.
type Navigator interface {
	ShowResults(*types.ProcessingResult)
}

// Processor sends one submission to the processing service.
type Processor interface {
	Process(ctx context.Context, sub backend.Submission) (*types.ProcessingResult, error)
}

// Snapshot is a read-only view of the controller for rendering.
type Snapshot struct {
	Mode      Mode
	State     State
	File      *types.FileInput
	URL       string
	CanSubmit bool
	LastError string
}

// Controller owns the submission input. It is safe for concurrent use; at
// most one Process call talks to the service at a time.
type Controller struct {
	proc   Processor
	nav    Navigator
	notify Notifier
	log    *slog.Logger

	mu         sync.Mutex
	mode       Mode
	file       *types.FileInput
	url        string
	submitting bool
	succeeded  bool
	failed     bool
	lastErr    error
	closed     bool
}

// New returns an idle controller in file mode. notify and logger may be nil.
func New(proc Processor, nav Navigator, notify Notifier, logger *slog.Logger) *Controller {
	if notify == nil {
		notify = NotifierFunc(func(Notice) {})
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Controller{proc: proc, nav: nav, notify: notify, log: logger}
}

// State reports the current state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stateLocked()
}

func (c *Controller) stateLocked() State {
	switch {
	case c.succeeded:
		return StateSucceeded
	case c.submitting:
		return StateSubmitting
	case c.failed:
		return StateFailed
	}
	return c.readyLocked()
}

// readyLocked is the state implied by the armed input alone.
func (c *Controller) readyLocked() State {
	switch {
	case c.mode == ModeFile && c.file != nil:
		return StateFileReady
	case c.mode == ModeURL && strings.TrimSpace(c.url) != "":
		return StateURLReady
	default:
		return StateIdle
	}
}

// Snapshot returns the current view.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	s := Snapshot{
		Mode:      c.mode,
		State:     c.stateLocked(),
		URL:       c.url,
		CanSubmit: c.canSubmitLocked(),
	}
	if c.file != nil {
		f := *c.file
		s.File = &f
	}
	if c.failed && c.lastErr != nil {
		s.LastError = errorMessage(c.lastErr)
	}
	return s
}

// CanSubmit reports whether Process would issue a request now.
func (c *Controller) CanSubmit() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.canSubmitLocked()
}

func (c *Controller) canSubmitLocked() bool {
	if c.closed || c.succeeded || c.submitting {
		return false
	}
	return c.readyLocked() != StateIdle
}

// guardLocked reports why input may not change right now.
func (c *Controller) guardLocked() error {
	switch {
	case c.closed:
		return ErrClosed
	case c.succeeded:
		return ErrFinished
	case c.submitting:
		return ErrBusy
	}
	return nil
}

// editableLocked is guardLocked for edits that go ahead; an edit moves a
// failed controller back to the state its input implies.
func (c *Controller) editableLocked() error {
	if err := c.guardLocked(); err != nil {
		return err
	}
	c.failed = false
	return nil
}

// SetMode switches the active input. The other mode's value is discarded.
func (c *Controller) SetMode(m Mode) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.editableLocked(); err != nil {
		return err
	}
	c.switchModeLocked(m)
	return nil
}

func (c *Controller) switchModeLocked(m Mode) {
	if m == c.mode {
		return
	}
	if m == ModeFile {
		c.url = ""
	} else {
		c.file = nil
	}
	c.mode = m
}

// AcceptFile arms a local file. A file whose declared type is not PDF is
// rejected with a notice and leaves everything unchanged.
func (c *Controller) AcceptFile(in types.FileInput) error {
	c.mu.Lock()
	if err := c.guardLocked(); err != nil {
		c.mu.Unlock()
		return err
	}
	if !in.IsPDF() {
		c.mu.Unlock()
		c.log.Info("file rejected", "name", in.Name, "content_type", in.ContentType)
		c.notify.Notify(Notice{
			Title:       "Invalid file type",
			Description: "Please upload a PDF file.",
			Destructive: true,
		})
		return fmt.Errorf("%w: %s is %q", ErrInvalidFileType, in.Name, in.ContentType)
	}
	c.failed = false
	c.switchModeLocked(ModeFile)
	f := in
	c.file = &f
	c.mu.Unlock()

	c.log.Info("file accepted", "name", in.Name, "size", in.Size, "pages", in.Pages)
	c.notify.Notify(Notice{
		Title:       "PDF uploaded successfully!",
		Description: fmt.Sprintf("%s is ready to process.", in.Name),
	})
	return nil
}

// RemoveFile disarms the accepted file.
func (c *Controller) RemoveFile() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.editableLocked(); err != nil {
		return err
	}
	c.file = nil
	return nil
}

// SetURL switches to URL mode and stores text as entered. Blank text keeps
// the controller idle without being an error.
func (c *Controller) SetURL(text string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.editableLocked(); err != nil {
		return err
	}
	c.switchModeLocked(ModeURL)
	c.url = text
	return nil
}

// Process sends the armed input. It returns ErrBusy without a request while
// another Process call is outstanding and ErrNotReady when nothing is armed.
// On success the result is handed to the Navigator; on failure a notice is
// shown and the input is kept for another attempt. An outcome that arrives
// after Close is dropped.
func (c *Controller) Process(ctx context.Context) error {
	c.mu.Lock()
	switch {
	case c.closed:
		c.mu.Unlock()
		return ErrClosed
	case c.succeeded:
		c.mu.Unlock()
		return ErrFinished
	case c.submitting:
		c.mu.Unlock()
		return ErrBusy
	}

	var sub backend.Submission
	switch c.readyLocked() {
	case StateFileReady:
		f := *c.file
		sub.File = &f
	case StateURLReady:
		sub.URL = strings.TrimSpace(c.url)
	default:
		c.mu.Unlock()
		return ErrNotReady
	}
	mode := c.mode
	c.submitting = true
	c.failed = false
	c.lastErr = nil
	c.mu.Unlock()

	c.log.Info("submitting", "mode", mode)
	result, err := c.proc.Process(ctx, sub)

	c.mu.Lock()
	c.submitting = false
	live := !c.closed
	if err != nil {
		c.failed = true
		c.lastErr = err
	} else {
		c.succeeded = true
	}
	c.mu.Unlock()

	if !live {
		c.log.Debug("submission finished after close; outcome dropped")
		return ErrClosed
	}

	if err != nil {
		c.log.Warn("submission failed", "mode", mode, "error", err)
		c.notify.Notify(Notice{
			Title:       failureTitle(mode),
			Description: errorMessage(err),
			Destructive: true,
		})
		return err
	}

	c.log.Info("submission succeeded", "run_dir", result.RunDir)
	c.nav.ShowResults(result)
	return nil
}

// Close tears the controller down. Later calls return ErrClosed and an
// outstanding submission's outcome is not applied.
func (c *Controller) Close() {
	c.mu.Lock()
	c.closed = true
	c.mu.Unlock()
}

func failureTitle(m Mode) string {
	if m == ModeURL {
		return "Failed to process URL"
	}
	return "Failed to process PDF"
}

func errorMessage(err error) string {
	var be *backend.Error
	if errors.As(err, &be) && be.Message != "" {
		return be.Message
	}
	if msg := err.Error(); msg != "" {
		return msg
	}
	return "Unexpected error"
}
