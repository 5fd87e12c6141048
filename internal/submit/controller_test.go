// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package submit

import (
	"context"
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/paper-ingest/internal/backend"
	"github.com/pdiddy/paper-ingest/internal/backend/backendtest"
	"github.com/pdiddy/paper-ingest/pkg/types"
)

// recorder collects notices and navigations.
type recorder struct {
	mu      sync.Mutex
	notices []Notice
	results []*types.ProcessingResult
}

func (r *recorder) Notify(n Notice) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notices = append(r.notices, n)
}

func (r *recorder) ShowResults(res *types.ProcessingResult) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.results = append(r.results, res)
}

func (r *recorder) lastNotice() Notice {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.notices) == 0 {
		return Notice{}
	}
	return r.notices[len(r.notices)-1]
}

func newTestController(t *testing.T) (*Controller, *backendtest.Server, *recorder) {
	t.Helper()
	srv := backendtest.New(t)
	client := backend.New(types.ClientConfig{APIBase: srv.URL}, srv.Client(), nil)
	rec := &recorder{}
	return New(client, rec, rec, nil), srv, rec
}

func pdfInput(t *testing.T) types.FileInput {
	t.Helper()
	path := filepath.Join(t.TempDir(), "paper.pdf")
	require.NoError(t, os.WriteFile(path, []byte("%PDF-1.4 fake"), 0o644))
	return types.FileInput{Name: "paper.pdf", Size: 13, ContentType: types.PDFContentType, Path: path}
}

func TestInitialState(t *testing.T) {
	c, _, _ := newTestController(t)
	assert.Equal(t, StateIdle, c.State())
	assert.Equal(t, ModeFile, c.Snapshot().Mode)
	assert.False(t, c.CanSubmit())
}

func TestAcceptFileRejectsNonPDF(t *testing.T) {
	c, srv, rec := newTestController(t)

	err := c.AcceptFile(types.FileInput{Name: "notes.txt", ContentType: "text/plain"})
	assert.ErrorIs(t, err, ErrInvalidFileType)
	assert.Equal(t, StateIdle, c.State())
	assert.Nil(t, c.Snapshot().File)
	assert.Equal(t, Notice{Title: "Invalid file type", Description: "Please upload a PDF file.", Destructive: true}, rec.lastNotice())
	assert.Empty(t, srv.Processes())
}

func TestAcceptFileRejectionKeepsPreviousFile(t *testing.T) {
	c, _, _ := newTestController(t)
	require.NoError(t, c.AcceptFile(pdfInput(t)))

	err := c.AcceptFile(types.FileInput{Name: "img.png", ContentType: "image/png"})
	assert.ErrorIs(t, err, ErrInvalidFileType)
	assert.Equal(t, StateFileReady, c.State())
	assert.Equal(t, "paper.pdf", c.Snapshot().File.Name)
}

func TestAcceptFileArms(t *testing.T) {
	c, _, rec := newTestController(t)

	require.NoError(t, c.AcceptFile(pdfInput(t)))
	assert.Equal(t, StateFileReady, c.State())
	assert.True(t, c.CanSubmit())
	assert.Equal(t, "PDF uploaded successfully!", rec.lastNotice().Title)
	assert.Equal(t, "paper.pdf is ready to process.", rec.lastNotice().Description)
	assert.False(t, rec.lastNotice().Destructive)

	require.NoError(t, c.RemoveFile())
	assert.Equal(t, StateIdle, c.State())
}

func TestModeSwitchDiscardsOtherValue(t *testing.T) {
	c, _, _ := newTestController(t)

	require.NoError(t, c.AcceptFile(pdfInput(t)))
	require.NoError(t, c.SetURL("https://example.com/a.pdf"))
	snap := c.Snapshot()
	assert.Equal(t, StateURLReady, snap.State)
	assert.Nil(t, snap.File)

	require.NoError(t, c.SetMode(ModeFile))
	snap = c.Snapshot()
	assert.Equal(t, StateIdle, snap.State)
	assert.Empty(t, snap.URL)

	require.NoError(t, c.SetURL("https://example.com/a.pdf"))
	require.NoError(t, c.AcceptFile(pdfInput(t)))
	assert.Empty(t, c.Snapshot().URL)
	assert.Equal(t, StateFileReady, c.State())
}

func TestBlankURLIsNotSubmittable(t *testing.T) {
	c, srv, rec := newTestController(t)

	for _, text := range []string{"", "   ", "\t\n"} {
		require.NoError(t, c.SetURL(text))
		assert.Equal(t, StateIdle, c.State())
		assert.False(t, c.CanSubmit())
		assert.ErrorIs(t, c.Process(context.Background()), ErrNotReady)
	}
	assert.Empty(t, srv.Processes())
	assert.Empty(t, rec.notices)
}

func TestProcessFileSuccess(t *testing.T) {
	c, srv, rec := newTestController(t)
	require.NoError(t, c.AcceptFile(pdfInput(t)))

	require.NoError(t, c.Process(context.Background()))
	assert.Equal(t, StateSucceeded, c.State())

	reqs := srv.Processes()
	require.Len(t, reqs, 1)
	assert.True(t, reqs[0].HasFile)
	assert.NotContains(t, reqs[0].Fields, "pdf_url")

	require.Len(t, rec.results, 1)
	assert.Equal(t, "/tmp/run42/paper.pdf", rec.results[0].PDFPath)

	assert.ErrorIs(t, c.Process(context.Background()), ErrFinished)
	assert.ErrorIs(t, c.SetURL("x"), ErrFinished)
	assert.Len(t, srv.Processes(), 1)
}

func TestProcessURLSuccess(t *testing.T) {
	c, srv, rec := newTestController(t)
	require.NoError(t, c.SetURL("  https://example.com/paper.pdf  "))

	require.NoError(t, c.Process(context.Background()))

	reqs := srv.Processes()
	require.Len(t, reqs, 1)
	assert.False(t, reqs[0].HasFile)
	assert.Equal(t, []string{"https://example.com/paper.pdf"}, reqs[0].Fields["pdf_url"])
	assert.Len(t, rec.results, 1)
}

func TestProcessFailureKeepsInputForRetry(t *testing.T) {
	tests := []struct {
		name      string
		status    int
		body      string
		wantMsg   string
		wantTitle string
		useFile   bool
	}{
		{"detail", http.StatusUnprocessableEntity, `{"detail":"unsupported encoding"}`, "unsupported encoding", "Failed to process URL", false},
		{"status fallback", http.StatusInternalServerError, `oops`, "Request failed with 500", "Failed to process PDF", true},
		{"unparseable success", http.StatusOK, `not json`, "Invalid response from processing service", "Failed to process URL", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, srv, rec := newTestController(t)
			srv.RespondProcess(tt.status, tt.body)
			if tt.useFile {
				require.NoError(t, c.AcceptFile(pdfInput(t)))
			} else {
				require.NoError(t, c.SetURL("https://example.com/a.pdf"))
			}

			err := c.Process(context.Background())
			require.Error(t, err)
			assert.Equal(t, StateFailed, c.State())
			assert.Equal(t, tt.wantMsg, c.Snapshot().LastError)
			assert.Equal(t, Notice{Title: tt.wantTitle, Description: tt.wantMsg, Destructive: true}, rec.lastNotice())
			assert.Empty(t, rec.results)
			assert.True(t, c.CanSubmit())

			srv.RespondProcess(http.StatusOK, backendtest.SampleResult)
			require.NoError(t, c.Process(context.Background()))
			assert.Equal(t, StateSucceeded, c.State())
			assert.Len(t, srv.Processes(), 2)
		})
	}
}

func TestEditAfterFailureReturnsToReady(t *testing.T) {
	c, srv, _ := newTestController(t)
	srv.RespondProcess(http.StatusInternalServerError, "")
	require.NoError(t, c.SetURL("https://example.com/a.pdf"))
	require.Error(t, c.Process(context.Background()))
	require.Equal(t, StateFailed, c.State())

	require.NoError(t, c.SetURL("https://example.com/b.pdf"))
	assert.Equal(t, StateURLReady, c.State())
	assert.Empty(t, c.Snapshot().LastError)
}

func TestTransportFailure(t *testing.T) {
	srv := backendtest.New(t)
	base := srv.URL
	srv.Close()

	rec := &recorder{}
	c := New(backend.New(types.ClientConfig{APIBase: base}, nil, nil), rec, rec, nil)
	require.NoError(t, c.SetURL("https://example.com/a.pdf"))

	err := c.Process(context.Background())
	var be *backend.Error
	require.True(t, errors.As(err, &be))
	assert.Equal(t, backend.KindTransport, be.Kind)
	assert.Equal(t, StateFailed, c.State())
	assert.Contains(t, rec.lastNotice().Description, "Network error")
}

func TestVanishedFileFailsWithoutRequest(t *testing.T) {
	c, srv, rec := newTestController(t)
	in := pdfInput(t)
	require.NoError(t, c.AcceptFile(in))
	require.NoError(t, os.Remove(in.Path))

	err := c.Process(context.Background())
	require.ErrorIs(t, err, os.ErrNotExist)
	var be *backend.Error
	assert.False(t, errors.As(err, &be))
	assert.Equal(t, StateFailed, c.State())
	assert.Equal(t, "Failed to process PDF", rec.lastNotice().Title)
	assert.NotContains(t, rec.lastNotice().Description, "Network error")
	assert.Empty(t, srv.Processes())
}

// blockingProcessor holds Process until release is closed.
type blockingProcessor struct {
	mu      sync.Mutex
	calls   int
	started chan struct{}
	release chan struct{}
}

func (b *blockingProcessor) Process(ctx context.Context, sub backend.Submission) (*types.ProcessingResult, error) {
	b.mu.Lock()
	b.calls++
	b.mu.Unlock()
	b.started <- struct{}{}
	<-b.release
	return &types.ProcessingResult{PDFPath: "a.pdf"}, nil
}

func TestSingleSubmissionInFlight(t *testing.T) {
	proc := &blockingProcessor{started: make(chan struct{}, 1), release: make(chan struct{})}
	rec := &recorder{}
	c := New(proc, rec, rec, nil)
	require.NoError(t, c.SetURL("https://example.com/a.pdf"))

	done := make(chan error, 1)
	go func() { done <- c.Process(context.Background()) }()
	<-proc.started

	assert.Equal(t, StateSubmitting, c.State())
	assert.False(t, c.CanSubmit())
	assert.ErrorIs(t, c.Process(context.Background()), ErrBusy)
	assert.ErrorIs(t, c.SetURL("https://example.com/b.pdf"), ErrBusy)
	assert.ErrorIs(t, c.AcceptFile(pdfInput(t)), ErrBusy)

	close(proc.release)
	require.NoError(t, <-done)
	assert.Equal(t, 1, proc.calls)
	assert.Len(t, rec.results, 1)
}

func TestOutcomeAfterCloseIsDropped(t *testing.T) {
	proc := &blockingProcessor{started: make(chan struct{}, 1), release: make(chan struct{})}
	rec := &recorder{}
	c := New(proc, rec, rec, nil)
	require.NoError(t, c.SetURL("https://example.com/a.pdf"))

	done := make(chan error, 1)
	go func() { done <- c.Process(context.Background()) }()
	<-proc.started

	c.Close()
	close(proc.release)

	assert.ErrorIs(t, <-done, ErrClosed)
	assert.Empty(t, rec.results)
	assert.Empty(t, rec.notices)
	assert.ErrorIs(t, c.Process(context.Background()), ErrClosed)
}

func TestParseMode(t *testing.T) {
	tests := []struct {
		in      string
		want    Mode
		wantErr bool
	}{
		{"file", ModeFile, false},
		{"upload", ModeFile, false},
		{" URL ", ModeURL, false},
		{"ftp", ModeFile, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseMode(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "url-ready", StateURLReady.String())
	assert.Equal(t, "State(42)", State(42).String())
	assert.Equal(t, "url", ModeURL.String())
}

func TestRejectedFileLeavesFailedState(t *testing.T) {
	c, srv, _ := newTestController(t)
	srv.RespondProcess(http.StatusBadGateway, "")
	require.NoError(t, c.SetURL("https://example.com/a.pdf"))
	require.Error(t, c.Process(context.Background()))

	assert.ErrorIs(t, c.AcceptFile(types.FileInput{Name: "a.doc", ContentType: "application/msword"}), ErrInvalidFileType)
	assert.Equal(t, StateFailed, c.State())
	assert.Equal(t, "Request failed with 502", c.Snapshot().LastError)
}
