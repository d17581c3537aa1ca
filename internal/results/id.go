package results

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

const (
	shortIDLength = 12
	crockfordBase = "0123456789ABCDEFGHJKMNPQRSTVWXYZ"
)

// newRunID returns a time-ordered run ID and its short form.
func newRunID() (uuid.UUID, string, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.UUID{}, "", fmt.Errorf("generate uuidv7: %w", err)
	}

	return id, shortID(id), nil
}

// shortID encodes the high 60 random bits of a UUIDv7 as 12 Crockford
// base32 characters. Runs created in the same millisecond still differ.
func shortID(id uuid.UUID) string {
	// RFC 9562: 48-bit time, 4-bit version, 12-bit rand_a, 2-bit variant,
	// 62-bit rand_b.
	randA := (uint16(id[6]&0x0f) << 8) | uint16(id[7])
	randB := (uint64(id[8]&0x3f) << 56) |
		(uint64(id[9]) << 48) |
		(uint64(id[10]) << 40) |
		(uint64(id[11]) << 32) |
		(uint64(id[12]) << 24) |
		(uint64(id[13]) << 16) |
		(uint64(id[14]) << 8) |
		uint64(id[15])

	value := (uint64(randA) << 48) | (randB >> 14)

	var buf [shortIDLength]byte
	for i := shortIDLength - 1; i >= 0; i-- {
		buf[i] = crockfordBase[value&0x1f]
		value >>= 5
	}

	return string(buf[:])
}

func runTime(id uuid.UUID) time.Time {
	sec, nsec := id.Time().UnixTime()

	return time.Unix(sec, nsec).UTC()
}
