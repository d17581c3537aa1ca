package aarray

import "log/slog"

// Validity is the occupancy state of a slot.
type Validity uint8

const (
	// Empty slots have never held an entry. The zero value.
	Empty Validity = iota
	// Used slots hold a live entry.
	Used
	// Deleted slots are tombstones: they held an entry that was deleted.
	Deleted
)

func (v Validity) String() string {
	switch v {
	case Empty:
		return "empty"
	case Used:
		return "used"
	case Deleted:
		return "deleted"
	default:
		return "invalid"
	}
}

// Sizer maps a requested capacity to an actual (prime) table capacity.
//
// The default is [primes.Table].
type Sizer interface {
	LargerPrime(n int) (int, error)
}

// Options configure [New].
//
// Zero-valued strategies select the defaults: [ProbeLinear] and [HashSum].
type Options struct {
	// Capacity is the requested minimum number of slots. It is rounded up
	// by Sizer.
	Capacity int

	Probe     ProbeStrategy
	Primary   HashStrategy
	Secondary HashStrategy // step function for ProbeDouble

	// Sizer defaults to primes.Table{}.
	Sizer Sizer

	// Logger receives construction warnings. Defaults to slog.Default().
	Logger *slog.Logger
}

// Stats is a read-only snapshot of a table's diagnostic state.
type Stats struct {
	Entries   int    `json:"entries"`
	Capacity  int    `json:"capacity"`
	Probe     string `json:"probe"`
	Primary   string `json:"primary"`
	Secondary string `json:"secondary"`

	// Cumulative probe candidates examined, by operation kind. The home
	// slot is not a candidate: an operation resolved there costs 0.
	InsertCost int `json:"insert_cost"`
	SearchCost int `json:"search_cost"`
	DeleteCost int `json:"delete_cost"`
}

// SlotView is the read-only slot access a [ProbeStrategy] needs.
//
// [Table] implements it; tests may supply their own.
type SlotView interface {
	// Cap is the number of slots.
	Cap() int
	// SlotState returns the validity of slot i.
	SlotState(i int) Validity
	// SlotMatches reports whether slot i holds key (exact byte+length match).
	SlotMatches(i int, key []byte) bool
	// SecondaryHash is the step function used by ProbeDouble.
	SecondaryHash() HashStrategy
}
