package aarray

// Test-only hooks into table internals.

// SetSlotValidityForTest overwrites a slot's validity, bypassing every
// invariant. Used to exercise anomaly reporting.
func SetSlotValidityForTest[V any](t *Table[V], i int, v Validity) {
	t.slots[i].validity = v
}

// SlotKeyForTest returns the key copy held by slot i (nil if none).
func SlotKeyForTest[V any](t *Table[V], i int) []byte {
	return t.slots[i].key
}
