// ============================================================================
// VibeScript (vbs) - Interpreter & Playground
// ============================================================================
//
// Package:     playground
// Description: Bounded run transcript of the terminal playground
// Author:      Mike Stoffels
// Created:     2026-09-26
// License:     MIT
// ============================================================================

package playground

import (
	"time"

	"github.com/edwingeng/deque"
)

// EntryKind classifies transcript entries
type EntryKind int

const (
	EntryOutput EntryKind = iota
	EntryInput
	EntryError
	EntryInfo
)

// Entry is one block of the output pane
type Entry struct {
	Kind      EntryKind
	Text      string
	Timestamp time.Time
	Duration  time.Duration
}

// Transcript keeps the most recent entries, dropping the oldest first
type Transcript struct {
	entries deque.Deque
	max     int
}

// NewTranscript creates a transcript holding at most max entries
func NewTranscript(max int) *Transcript {
	if max <= 0 {
		max = 200
	}
	return &Transcript{entries: deque.NewDeque(), max: max}
}

// Add appends an entry
func (t *Transcript) Add(e Entry) {
	if e.Timestamp.IsZero() {
		e.Timestamp = time.Now()
	}
	t.entries.PushBack(e)
	for t.entries.Len() > t.max {
		t.entries.PopFront()
	}
}

// Len returns the number of entries
func (t *Transcript) Len() int {
	return t.entries.Len()
}

// Clear drops all entries
func (t *Transcript) Clear() {
	for t.entries.Len() > 0 {
		t.entries.PopFront()
	}
}

// Entries returns the entries oldest first
func (t *Transcript) Entries() []Entry {
	n := t.entries.Len()
	out := make([]Entry, 0, n)
	// Rotate once through the queue; order is unchanged afterwards
	for i := 0; i < n; i++ {
		e := t.entries.Front().(Entry)
		t.entries.PopFront()
		t.entries.PushBack(e)
		out = append(out, e)
	}
	return out
}
