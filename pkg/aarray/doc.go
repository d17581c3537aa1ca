// Package aarray provides a fixed-capacity open-addressing hash table with
// pluggable hash and probe strategies.
//
// aarray exists to measure strategy trade-offs (clustering, probe cost), not
// to replace Go maps. Capacity is fixed at construction and rounded up to a
// prime; there is no resizing.
//
// # Basic Usage
//
//	t, err := aarray.New[*Record](aarray.Options{
//	    Capacity:  1000,
//	    Probe:     aarray.ProbeDouble,
//	    Primary:   aarray.HashWeighted,
//	    Secondary: aarray.HashSum,
//	})
//	if err != nil {
//	    // errors.Is(err, aarray.ErrConstruction)
//	}
//	defer t.Destroy()
//
//	idx, err := t.Insert([]byte("alpha"), rec)
//	rec, err = t.Lookup([]byte("alpha"))
//	rec, err = t.Delete([]byte("alpha"))
//
//	fmt.Println(t.Stats().SearchCost)
//
// Strategies may also be chosen by name with [NewNamed]; names are matched
// on their first three characters and unknown names fall back to the
// defaults with a logged warning.
//
// # Keys and Values
//
// Keys are byte slices compared by exact length and content. The table
// copies each key on insert and owns that copy. Values are the caller's:
// the table stores them as given and never copies or inspects them, and a
// value returned by Delete belongs to the caller again.
//
// # Tombstones
//
// Delete marks a slot Deleted. Lookups and deletes walk through tombstones,
// so a deleted key never hides keys inserted after it. Tombstones are never
// reused, which means delete-heavy workloads fill the table: an insert can
// fail with [ErrProbeExhausted] while Len() < Cap().
//
// # Probe Bounds
//
// Every probe strategy gives up after Cap() candidates. Quadratic probing
// covers only part of a prime-sized table and double hashing covers all of
// it only when the step is coprime to the capacity, so both can report
// [ErrProbeExhausted] with free slots remaining.
//
// # Concurrency
//
// A Table is not safe for concurrent use. Lookup and Delete update the cost
// counters, so callers sharing a table must hold an exclusive lock for the
// duration of every call, reads included.
package aarray
