package cli

import (
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
)

// ErrKeyRequired reports a missing key argument.
var ErrKeyRequired = errors.New("key required")

// parseKey reads a key argument. A "0x" prefix means hex bytes; anything
// else is taken literally.
func parseKey(s string) ([]byte, error) {
	if rest, ok := strings.CutPrefix(s, "0x"); ok && rest != "" {
		key, err := hex.DecodeString(rest)
		if err != nil {
			return nil, fmt.Errorf("invalid hex key %q: %w", s, err)
		}

		return key, nil
	}

	return []byte(s), nil
}
