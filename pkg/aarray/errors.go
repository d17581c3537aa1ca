package aarray

import (
	"errors"
	"fmt"
)

// Sentinel errors returned by aarray operations.
//
// Callers should use [errors.Is] to check error types:
//
//	if _, err := t.Insert(key, v); errors.Is(err, aarray.ErrTableFull) {
//	    // table (or the probe sequence) has no room for key
//	}
var (
	// ErrConstruction indicates no usable capacity could be obtained from the
	// prime sizer. No table is produced.
	ErrConstruction = errors.New("aarray: cannot construct table")

	// ErrTableFull indicates an insert was attempted with every slot in use.
	//
	// Deleted entries do not free capacity (tombstones are never reclaimed).
	ErrTableFull = errors.New("aarray: table full")

	// ErrProbeExhausted indicates the probe walk ran out of candidates or
	// cycled back to its start without reaching an empty slot. It can occur
	// while entries < capacity for strategies without full coverage.
	//
	// ErrProbeExhausted matches [ErrTableFull] under [errors.Is].
	ErrProbeExhausted = fmt.Errorf("%w: probe sequence exhausted", ErrTableFull)

	// ErrDuplicateKey indicates the key is already present. The existing
	// entry is left untouched.
	ErrDuplicateKey = errors.New("aarray: duplicate key")

	// ErrNotFound indicates a lookup or delete miss.
	ErrNotFound = errors.New("aarray: not found")

	// ErrUnknownStrategy indicates an unrecognized strategy name.
	//
	// Table construction recovers from this by substituting the default and
	// logging a warning; only the Parse functions return it.
	ErrUnknownStrategy = errors.New("aarray: unknown strategy name")

	// ErrClosed indicates the table has been destroyed.
	//
	// This is a programming error.
	ErrClosed = errors.New("aarray: closed")
)
