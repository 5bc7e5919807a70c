// Package identity generates anonymous user identifiers for visitors that
// have not supplied one of their own.
package identity

import (
	"crypto/rand"
	"encoding/binary"
	"strconv"
	"time"
)

// NewUserID returns a pseudo-identity of the form user_<time><random>, both
// parts base36 encoded. It is not a credential, only a stable-looking handle
// for grouping ratings, favorites, and downloads from the same visitor.
func NewUserID() string {
	var buf [8]byte
	if _, err := rand.Read(buf[:]); err != nil {
		// crypto/rand only fails when the platform entropy source is
		// broken; fall back to the clock rather than panic.
		binary.BigEndian.PutUint64(buf[:], uint64(time.Now().UnixNano()))
	}
	random := binary.BigEndian.Uint64(buf[:]) % (36 * 36 * 36 * 36 * 36 * 36)
	return "user_" + strconv.FormatInt(time.Now().UnixMilli(), 36) + strconv.FormatUint(random, 36)
}
