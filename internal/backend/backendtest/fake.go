// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package backendtest provides an in-process fake of the processing service
// for tests.
package backendtest

import (
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/gorilla/mux"
)

// SampleResult is a complete successful /process response body.
const SampleResult = `{
  "run_dir": "/tmp/run42",
  "pdf_path": "/tmp/run42/paper.pdf",
  "markdown_file": "/tmp/run42/paper-processed.md",
  "json_file": "/tmp/run42/paper-converted.json",
  "images_dir": "/tmp/run42/paper-images",
  "authors": [{"name": "Ada Lovelace"}],
  "doi": "10.1000/xyz123",
  "paper_data": {
    "title": "Analytical Engines",
    "sections": [{"heading": "Notes", "text": "Note G."}],
    "images": [
      {"page": 2, "path": "/tmp/run42/paper-images/page_2_img_1.jpg", "url": "/files/run42/page_2_img_1.jpg"},
      {"path": "/tmp/run42/paper-images/unknown.jpg"}
    ]
  },
  "markdown_preview": "# Analytical Engines\n\nNote G.",
  "pdf_url": "/files/run42/paper.pdf",
  "markdown_url": "/files/run42/paper-processed.md",
  "json_url": "/files/run42/paper-converted.json"
}`

type response struct {
	status int
	body   string
}

// ProcessRequest is what the fake recorded for one POST /process.
type ProcessRequest struct {
	// Fields holds the plain form fields.
	Fields map[string][]string

	// FileName, FileContentType and FileBody describe the "file" part, if any.
	FileName        string
	FileContentType string
	FileBody        []byte
	HasFile         bool
}

// Server is a fake processing service.
type Server struct {
	*httptest.Server

	mu            sync.Mutex
	processStatus int
	processBody   string
	queued        []response
	processes     []ProcessRequest
	texts         map[string]string
	textStatus    int
	textCalls     int
	textGate      chan struct{}
	textStarted   chan struct{}
}

// New starts a fake that answers /process with SampleResult and serves no
// text artifacts. It is closed when the test ends.
func New(t *testing.T) *Server {
	t.Helper()
	s := &Server{
		processStatus: http.StatusOK,
		processBody:   SampleResult,
		texts:         make(map[string]string),
		textStatus:    http.StatusOK,
	}

	r := mux.NewRouter()
	r.HandleFunc("/process", s.handleProcess).Methods(http.MethodPost)
	r.PathPrefix("/files/").HandlerFunc(s.handleText).Methods(http.MethodGet)

	s.Server = httptest.NewServer(r)
	t.Cleanup(s.Close)
	return s
}

// RespondProcess sets the status and body returned by /process.
func (s *Server) RespondProcess(status int, body string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.processStatus = status
	s.processBody = body
}

// QueueProcess makes the next /process call answer with status and body.
// Queued answers are used in order before the RespondProcess default.
func (s *Server) QueueProcess(status int, body string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.queued = append(s.queued, response{status: status, body: body})
}

// SetText serves body at path with the current text status.
func (s *Server) SetText(path, body string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.texts[path] = body
}

// SetTextStatus makes every text GET answer with status.
func (s *Server) SetTextStatus(status int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.textStatus = status
}

// HoldText makes text GETs block until the returned release func is called.
// The started channel receives once per GET that has begun.
func (s *Server) HoldText() (started <-chan struct{}, release func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.textGate = make(chan struct{})
	s.textStarted = make(chan struct{}, 16)
	gate := s.textGate
	var once sync.Once
	return s.textStarted, func() { once.Do(func() { close(gate) }) }
}

// Processes returns the recorded /process requests.
func (s *Server) Processes() []ProcessRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]ProcessRequest(nil), s.processes...)
}

// TextCalls returns how many text GETs were received.
func (s *Server) TextCalls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.textCalls
}

func (s *Server) handleProcess(w http.ResponseWriter, r *http.Request) {
	rec := ProcessRequest{Fields: map[string][]string{}}
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		http.Error(w, fmt.Sprintf(`{"detail":%q}`, err.Error()), http.StatusBadRequest)
		return
	}
	for k, v := range r.MultipartForm.Value {
		rec.Fields[k] = v
	}
	if headers := r.MultipartForm.File["file"]; len(headers) > 0 {
		fh := headers[0]
		rec.HasFile = true
		rec.FileName = fh.Filename
		rec.FileContentType = fh.Header.Get("Content-Type")
		if f, err := fh.Open(); err == nil {
			rec.FileBody, _ = io.ReadAll(f)
			f.Close()
		}
	}

	s.mu.Lock()
	s.processes = append(s.processes, rec)
	status, body := s.processStatus, s.processBody
	if len(s.queued) > 0 {
		status, body = s.queued[0].status, s.queued[0].body
		s.queued = s.queued[1:]
	}
	s.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	io.WriteString(w, body)
}

func (s *Server) handleText(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	s.textCalls++
	gate, started := s.textGate, s.textStarted
	body, ok := s.texts[r.URL.Path]
	status := s.textStatus
	s.mu.Unlock()

	if started != nil {
		started <- struct{}{}
	}
	if gate != nil {
		<-gate
	}

	if !ok {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
	w.WriteHeader(status)
	io.WriteString(w, body)
}
