package aarray

import (
	"fmt"
	"log/slog"
)

// Strategy names are matched on their first three characters, case-sensitive:
// "linear", "lin" and "lineage" all select ProbeLinear.
const namePrefixLen = 3

var probePrefixes = [numProbeStrategies]string{
	ProbeLinear:    "lin",
	ProbeQuadratic: "qua",
	ProbeDouble:    "dou",
}

var hashPrefixes = [numHashStrategies]string{
	HashSum:      "sum",
	HashLength:   "len",
	HashWeighted: "wei",
	HashFNV:      "fnv",
	HashXX:       "xxh",
	HashSHA3:     "sha",
}

func hasNamePrefix(name, prefix string) bool {
	return len(name) >= namePrefixLen && name[:namePrefixLen] == prefix
}

// ParseProbeStrategy resolves a probe strategy name.
// Unrecognized names return [ErrUnknownStrategy].
func ParseProbeStrategy(name string) (ProbeStrategy, error) {
	for p, prefix := range probePrefixes {
		if hasNamePrefix(name, prefix) {
			return ProbeStrategy(p), nil
		}
	}

	return ProbeLinear, fmt.Errorf("%w: probe %q", ErrUnknownStrategy, name)
}

// ParseHashStrategy resolves a hash strategy name.
// Unrecognized names return [ErrUnknownStrategy].
func ParseHashStrategy(name string) (HashStrategy, error) {
	for h, prefix := range hashPrefixes {
		if hasNamePrefix(name, prefix) {
			return HashStrategy(h), nil
		}
	}

	return HashSum, fmt.Errorf("%w: hash %q", ErrUnknownStrategy, name)
}

// resolveProbe is ParseProbeStrategy with the default substituted and a
// warning logged for unknown names.
func resolveProbe(name string, logger *slog.Logger) ProbeStrategy {
	p, err := ParseProbeStrategy(name)
	if err != nil {
		logger.Warn("invalid probe strategy, using default",
			"kind", "probe", "name", name, "fallback", ProbeLinear.String())
	}

	return p
}

func resolveHash(kind, name string, logger *slog.Logger) HashStrategy {
	h, err := ParseHashStrategy(name)
	if err != nil {
		logger.Warn("invalid hash strategy, using default",
			"kind", kind, "name", name, "fallback", HashSum.String())
	}

	return h
}
