// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package session carries a ProcessingResult from the submission screen to
// the results screen. The hand-off lives in memory only and is read once.
package session

import (
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/pdiddy/paper-ingest/pkg/types"
)

// Transfer is one result in transit between screens.
type Transfer struct {
	// ID correlates log lines of the submitting and receiving screens.
	ID     string
	Result *types.ProcessingResult
}

// Handoff is a single-slot, single-use transfer. The zero value is ready.
type Handoff struct {
	mu   sync.Mutex
	slot *Transfer
	log  *slog.Logger
}

// NewHandoff returns a hand-off that logs transfers to logger.
func NewHandoff(logger *slog.Logger) *Handoff {
	return &Handoff{log: logger}
}

// ShowResults stores result for the next screen, replacing any transfer that
// was never taken.
func (h *Handoff) ShowResults(result *types.ProcessingResult) {
	t := &Transfer{ID: uuid.NewString(), Result: result}
	h.mu.Lock()
	h.slot = t
	h.mu.Unlock()
	if h.log != nil {
		h.log.Debug("result handed off", "transfer", t.ID, "pdf_path", result.PDFPath)
	}
}

// Take returns the pending transfer and empties the slot. The second call
// without a new ShowResults reports false.
func (h *Handoff) Take() (Transfer, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.slot == nil {
		return Transfer{}, false
	}
	t := *h.slot
	h.slot = nil
	return t, true
}

// Clear drops any pending transfer.
func (h *Handoff) Clear() {
	h.mu.Lock()
	h.slot = nil
	h.mu.Unlock()
}
