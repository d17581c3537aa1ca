package aarray

import (
	"bytes"
	"fmt"
	"iter"
	"log/slog"

	"github.com/calvinalkan/probekit/pkg/primes"
)

// slot is one position of the table.
//
// key is the engine's own copy. It is kept while the slot is Used and also
// after the slot becomes Deleted, so dumps can show which key a tombstone
// replaced; every copy is released by Destroy. value is the caller's and is
// never copied.
type slot[V any] struct {
	key      []byte
	value    V
	validity Validity
}

// Table is a fixed-capacity open-addressing associative array from byte-slice
// keys to caller-owned values of type V.
//
// A Table is not safe for concurrent use. Lookup and Delete update cost
// counters, so every method, including read-like ones, needs exclusive
// access.
type Table[V any] struct {
	slots   []slot[V]
	entries int

	probe     ProbeStrategy
	primary   HashStrategy
	secondary HashStrategy

	insertCost int
	searchCost int
	deleteCost int

	closed bool
}

// New creates a table whose capacity is opts.Capacity rounded up by
// opts.Sizer.
//
// Out-of-range strategy values fall back to the defaults with a logged
// warning. If the sizer fails, New returns [ErrConstruction] and no table.
func New[V any](opts Options) (*Table[V], error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	sizer := opts.Sizer
	if sizer == nil {
		sizer = primes.Table{}
	}

	if opts.Probe >= numProbeStrategies {
		logger.Warn("invalid probe strategy, using default",
			"kind", "probe", "name", opts.Probe.String(), "fallback", ProbeLinear.String())
		opts.Probe = ProbeLinear
	}

	if opts.Primary >= numHashStrategies {
		logger.Warn("invalid hash strategy, using default",
			"kind", "primary", "name", opts.Primary.String(), "fallback", HashSum.String())
		opts.Primary = HashSum
	}

	if opts.Secondary >= numHashStrategies {
		logger.Warn("invalid hash strategy, using default",
			"kind", "secondary", "name", opts.Secondary.String(), "fallback", HashSum.String())
		opts.Secondary = HashSum
	}

	capacity, err := sizer.LargerPrime(opts.Capacity)
	if err != nil {
		return nil, fmt.Errorf("%w: capacity %d: %w", ErrConstruction, opts.Capacity, err)
	}

	if capacity < 1 {
		return nil, fmt.Errorf("%w: sizer returned capacity %d", ErrConstruction, capacity)
	}

	return &Table[V]{
		slots:     make([]slot[V], capacity),
		probe:     opts.Probe,
		primary:   opts.Primary,
		secondary: opts.Secondary,
	}, nil
}

// NewNamed creates a table from strategy names (see [ParseProbeStrategy] and
// [ParseHashStrategy]). Unknown names are not an error: the default is used
// and a warning is logged to logger (nil means slog.Default()).
func NewNamed[V any](capacity int, probe, primary, secondary string, logger *slog.Logger) (*Table[V], error) {
	if logger == nil {
		logger = slog.Default()
	}

	return New[V](Options{
		Capacity:  capacity,
		Probe:     resolveProbe(probe, logger),
		Primary:   resolveHash("primary", primary, logger),
		Secondary: resolveHash("secondary", secondary, logger),
		Logger:    logger,
	})
}

// Insert stores value under a copy of key and returns the slot index used.
//
// Errors: [ErrTableFull] when every slot holds an entry, [ErrProbeExhausted]
// when the probe walk finds no empty slot, [ErrDuplicateKey] when key is
// already present. On error the index is -1 and the table is unchanged apart
// from the insert cost counter.
func (t *Table[V]) Insert(key []byte, value V) (int, error) {
	if t.closed {
		return -1, ErrClosed
	}

	if t.entries >= len(t.slots) {
		return -1, ErrTableFull
	}

	idx, found, ok := t.walk(key, &t.insertCost)
	if found {
		return -1, ErrDuplicateKey
	}

	if !ok {
		return -1, ErrProbeExhausted
	}

	s := &t.slots[idx]
	s.key = bytes.Clone(key)
	if s.key == nil {
		s.key = []byte{}
	}

	s.value = value
	s.validity = Used
	t.entries++

	return idx, nil
}

// Lookup returns the value stored under key, or [ErrNotFound].
func (t *Table[V]) Lookup(key []byte) (V, error) {
	var zero V

	if t.closed {
		return zero, ErrClosed
	}

	idx, found, _ := t.walk(key, &t.searchCost)
	if !found {
		return zero, ErrNotFound
	}

	return t.slots[idx].value, nil
}

// Delete removes key, leaving a tombstone, and hands the stored value back
// to the caller. A miss returns [ErrNotFound] and changes nothing but the
// delete cost counter.
//
// The slot keeps its key copy as the tombstone's label until Destroy; only
// the value reference is cleared.
func (t *Table[V]) Delete(key []byte) (V, error) {
	var zero V

	if t.closed {
		return zero, ErrClosed
	}

	idx, found, _ := t.walk(key, &t.deleteCost)
	if !found {
		return zero, ErrNotFound
	}

	s := &t.slots[idx]
	value := s.value
	s.value = zero
	s.validity = Deleted
	t.entries--

	return value, nil
}

// walk follows key's probe sequence from its home slot.
//
// It returns the slot where the walk stopped and whether that slot holds
// key. ok is false when the sequence was exhausted or came back to the home
// slot without reaching an Empty slot. Tombstones never stop the walk.
func (t *Table[V]) walk(key []byte, cost *int) (idx int, found bool, ok bool) {
	start := t.primary.Index(key, len(t.slots))
	idx = start

	for t.slots[idx].validity != Empty {
		if t.SlotMatches(idx, key) {
			return idx, true, true
		}

		next, probed := t.probe.Probe(t, key, start, false, cost)
		if !probed || next == start {
			return -1, false, false
		}

		idx = next
	}

	return idx, false, true
}

// Traverse calls visit for every entry in slot index order.
//
// If visit returns an error, traversal stops and that error is returned.
// key aliases the table's copy and must not be modified or retained.
// Mutating the table from visit is undefined.
func (t *Table[V]) Traverse(visit func(key []byte, value V) error) error {
	if t.closed {
		return ErrClosed
	}

	for i := range t.slots {
		s := &t.slots[i]
		if s.validity != Used {
			continue
		}

		if err := visit(s.key, s.value); err != nil {
			return err
		}
	}

	return nil
}

// All returns an iterator over entries in slot index order.
// The same aliasing rules as [Table.Traverse] apply.
func (t *Table[V]) All() iter.Seq2[[]byte, V] {
	return func(yield func([]byte, V) bool) {
		if t.closed {
			return
		}

		for i := range t.slots {
			s := &t.slots[i]
			if s.validity != Used {
				continue
			}

			if !yield(s.key, s.value) {
				return
			}
		}
	}
}

// Destroy releases the slot array and every key copy the table owns.
// Stored values are left alone. Further calls return [ErrClosed].
func (t *Table[V]) Destroy() {
	for i := range t.slots {
		t.slots[i].key = nil
	}

	t.slots = nil
	t.entries = 0
	t.closed = true
}

// Len returns the number of live entries.
func (t *Table[V]) Len() int {
	return t.entries
}

// Cap returns the number of slots.
func (t *Table[V]) Cap() int {
	return len(t.slots)
}

// SlotState returns the validity of slot i.
func (t *Table[V]) SlotState(i int) Validity {
	return t.slots[i].validity
}

// SlotMatches reports whether slot i is Used and holds key.
func (t *Table[V]) SlotMatches(i int, key []byte) bool {
	s := &t.slots[i]

	return s.validity == Used && KeysMatch(s.key, key)
}

// SecondaryHash returns the step function used by ProbeDouble.
func (t *Table[V]) SecondaryHash() HashStrategy {
	return t.secondary
}

// Stats returns a snapshot of entry count, capacity, strategy names and
// cumulative costs.
func (t *Table[V]) Stats() Stats {
	return Stats{
		Entries:    t.entries,
		Capacity:   len(t.slots),
		Probe:      t.probe.String(),
		Primary:    t.primary.String(),
		Secondary:  t.secondary.String(),
		InsertCost: t.insertCost,
		SearchCost: t.searchCost,
		DeleteCost: t.deleteCost,
	}
}
