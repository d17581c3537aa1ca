package aarray

import (
	"bufio"
	"fmt"
	"io"
)

// keyRenderLimit bounds each rendered key in contents dumps.
const keyRenderLimit = 128

// WriteContents writes one line per slot to w, each prefixed with tag.
//
// Used and Deleted slots show their key via [PrintableKey]. A slot with an
// unexpected validity is reported as an anomaly line instead of failing.
func (t *Table[V]) WriteContents(w io.Writer, tag string) error {
	if t.closed {
		return ErrClosed
	}

	bw := bufio.NewWriter(w)

	fmt.Fprintf(bw, "%sDumping aarray of %d slots:\n", tag, len(t.slots))

	for i := range t.slots {
		s := &t.slots[i]

		switch s.validity {
		case Used:
			fmt.Fprintf(bw, "%s  %d : in use : '%s'\n", tag, i, PrintableKey(s.key, keyRenderLimit))
		case Empty:
			fmt.Fprintf(bw, "%s  %d : empty\n", tag, i)
		case Deleted:
			fmt.Fprintf(bw, "%s  %d : deleted (was '%s')\n", tag, i, PrintableKey(s.key, keyRenderLimit))
		default:
			fmt.Fprintf(bw, "%s  %d : invalid validity state %d\n", tag, i, uint8(s.validity))
		}
	}

	return bw.Flush()
}

// WriteSummary writes entry count, capacity, strategy names and the
// cumulative probe costs to w.
func (t *Table[V]) WriteSummary(w io.Writer) error {
	st := t.Stats()

	_, err := fmt.Fprintf(w,
		"Associative array contains %d entries in a table of %d size\n"+
			"Strategies used: '%s' hash, '%s' secondary hash and '%s' probing\n"+
			"Costs accrued due to probing:\n"+
			"  Insertion : %d\n"+
			"  Search    : %d\n"+
			"  Deletion  : %d\n",
		st.Entries, st.Capacity,
		st.Primary, st.Secondary, st.Probe,
		st.InsertCost, st.SearchCost, st.DeleteCost)

	return err
}
