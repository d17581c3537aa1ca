// Package model provides a deliberately simple, in-memory state model of
// aarray's publicly observable behavior.
//
// The model is intentionally easy to audit: it keeps live entries in a Go map
// and knows nothing about slot positions or probe sequences. The one piece of
// slot accounting it does track is how many slots have ever been filled,
// because tombstones are never reclaimed and that count alone decides when a
// full-coverage probe strategy runs out of room.
package model

import (
	"slices"
	"strings"

	"github.com/calvinalkan/probekit/pkg/aarray"
)

// Entry is one live key/value pair.
type Entry[V any] struct {
	Key   string
	Value V
}

// Table models an aarray.Table.
type Table[V any] struct {
	Capacity int

	// FullCoverage is true when the modeled probe strategy is guaranteed to
	// visit every slot (linear probing). Only then can the model predict
	// ErrProbeExhausted.
	FullCoverage bool

	// Consumed counts slots that have ever held an entry (live or tombstone).
	Consumed int

	Live map[string]V
}

// New returns an empty model of a table with the given (already sized)
// capacity.
func New[V any](capacity int, fullCoverage bool) *Table[V] {
	return &Table[V]{
		Capacity:     capacity,
		FullCoverage: fullCoverage,
		Live:         make(map[string]V),
	}
}

// Clone makes a deep copy so tests can fork the exact same state.
func (m *Table[V]) Clone() *Table[V] {
	live := make(map[string]V, len(m.Live))
	for k, v := range m.Live {
		live[k] = v
	}

	return &Table[V]{
		Capacity:     m.Capacity,
		FullCoverage: m.FullCoverage,
		Consumed:     m.Consumed,
		Live:         live,
	}
}

// Insert applies an insert and returns the error the real table must report.
//
// Without full coverage the model cannot know whether the probe walk finds
// room; callers handle aarray.ErrProbeExhausted from the real table before
// consulting the model.
func (m *Table[V]) Insert(key []byte, value V) error {
	if len(m.Live) >= m.Capacity {
		return aarray.ErrTableFull
	}

	k := string(key)
	if _, ok := m.Live[k]; ok {
		return aarray.ErrDuplicateKey
	}

	if m.FullCoverage && m.Consumed >= m.Capacity {
		return aarray.ErrProbeExhausted
	}

	m.Live[k] = value
	m.Consumed++

	return nil
}

// Lookup returns the live value for key.
func (m *Table[V]) Lookup(key []byte) (V, error) {
	v, ok := m.Live[string(key)]
	if !ok {
		var zero V

		return zero, aarray.ErrNotFound
	}

	return v, nil
}

// Delete removes key and returns its value.
func (m *Table[V]) Delete(key []byte) (V, error) {
	k := string(key)

	v, ok := m.Live[k]
	if !ok {
		var zero V

		return zero, aarray.ErrNotFound
	}

	delete(m.Live, k)

	return v, nil
}

// Contains reports whether key is live.
func (m *Table[V]) Contains(key []byte) bool {
	_, ok := m.Live[string(key)]

	return ok
}

// Len returns the number of live entries.
func (m *Table[V]) Len() int {
	return len(m.Live)
}

// Entries returns live entries sorted by key.
func (m *Table[V]) Entries() []Entry[V] {
	out := make([]Entry[V], 0, len(m.Live))
	for k, v := range m.Live {
		out = append(out, Entry[V]{Key: k, Value: v})
	}

	slices.SortFunc(out, func(a, b Entry[V]) int {
		return strings.Compare(a.Key, b.Key)
	})

	return out
}
