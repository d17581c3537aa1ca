// Package workload drives aarray tables through configurable insert, lookup
// and delete mixes and records what each strategy combination cost.
//
// A workload is described by a [Config], loaded from a JSONC file and CLI
// overrides with [Load]. [Matrix] expands it into strategy combinations and
// [Run] executes one combination, returning a [Result].
package workload
