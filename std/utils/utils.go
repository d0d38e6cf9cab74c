// Package utils holds small helpers shared across the forwarder that do not
// belong to any single subsystem.
package utils

import (
	"encoding/binary"
	"time"
	"unsafe"

	"github.com/nfdgo/ndnd/std/types/optional"
)

// NDNdVersion is the version string reported by the daemon and its CLI.
const NDNdVersion = "0.1.0"

// IdPtr returns a pointer to a copy of v, useful for populating optional
// struct fields from literals.
func IdPtr[T any](v T) *T {
	return &v
}

// MakeTimestamp returns the number of milliseconds since the Unix epoch for t.
func MakeTimestamp(t time.Time) uint64 {
	return uint64(t.UnixMilli())
}

// ConvertNonce interprets nonce as a big-endian uint32. It returns an unset
// Optional if nonce is not exactly 4 bytes.
func ConvertNonce(nonce []byte) optional.Optional[uint32] {
	if len(nonce) != 4 {
		return optional.None[uint32]()
	}
	return optional.Some(binary.BigEndian.Uint32(nonce))
}

// HeaderEqual reports whether a and b share the same underlying array and
// length (i.e. one is a reslice of the other with no reallocation) and the
// same capacity.
func HeaderEqual[T any](a, b []T) bool {
	if len(a) != len(b) || cap(a) != cap(b) {
		return false
	}
	if len(a) == 0 {
		return true
	}
	return unsafe.Pointer(&a[0:1][0]) == unsafe.Pointer(&b[0:1][0])
}
