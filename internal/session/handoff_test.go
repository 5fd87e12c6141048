// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package session

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/paper-ingest/pkg/types"
)

func TestHandoffIsReadOnce(t *testing.T) {
	var h Handoff
	result := &types.ProcessingResult{PDFPath: "/tmp/run42/paper.pdf"}

	h.ShowResults(result)

	got, ok := h.Take()
	require.True(t, ok)
	assert.Same(t, result, got.Result)
	assert.NotEmpty(t, got.ID)

	_, ok = h.Take()
	assert.False(t, ok)
}

func TestHandoffEmpty(t *testing.T) {
	h := NewHandoff(nil)
	_, ok := h.Take()
	assert.False(t, ok)
}

func TestHandoffReplacesAndClears(t *testing.T) {
	var h Handoff
	first := &types.ProcessingResult{PDFPath: "a.pdf"}
	second := &types.ProcessingResult{PDFPath: "b.pdf"}

	h.ShowResults(first)
	h.ShowResults(second)
	got, ok := h.Take()
	require.True(t, ok)
	assert.Same(t, second, got.Result)

	h.ShowResults(first)
	h.Clear()
	_, ok = h.Take()
	assert.False(t, ok)
}

func TestHandoffIDsDiffer(t *testing.T) {
	var h Handoff
	h.ShowResults(&types.ProcessingResult{})
	a, _ := h.Take()
	h.ShowResults(&types.ProcessingResult{})
	b, _ := h.Take()
	assert.NotEqual(t, a.ID, b.ID)
}
