// Package id generates the object names used for uploaded images.
//
// Names are lowercase ULIDs: 10 characters of millisecond timestamp and 16
// of randomness in Crockford base32. They sort by upload time within a
// dog's prefix and carry their creation time, which the orphan sweeper
// falls back to when a store reports no modification time.
package id

import (
	"crypto/rand"
	"strings"
	"time"
)

const (
	alphabet = "0123456789abcdefghjkmnpqrstvwxyz"

	timeLen = 10
	Len     = 26
)

// New returns a fresh object name for the current time.
func New() string {
	return newAt(time.Now())
}

func newAt(t time.Time) string {
	var out [Len]byte

	ms := uint64(t.UnixMilli())
	for i := timeLen - 1; i >= 0; i-- {
		out[i] = alphabet[ms&0x1f]
		ms >>= 5
	}

	// 80 random bits, consumed five at a time.
	var entropy [10]byte
	_, _ = rand.Read(entropy[:])
	var acc uint64
	bits := 0
	pos := timeLen
	for _, b := range entropy {
		acc = acc<<8 | uint64(b)
		bits += 8
		for bits >= 5 {
			bits -= 5
			out[pos] = alphabet[(acc>>bits)&0x1f]
			pos++
		}
	}
	return string(out[:])
}

// Time extracts the creation time from an object name or a key ending in
// one, e.g. "{dog}/01j9z3k5b8c4m2n7p0q6r1s3t5.jpg". It reports false for
// anything else.
func Time(key string) (time.Time, bool) {
	name := key[strings.LastIndexByte(key, '/')+1:]
	if dot := strings.IndexByte(name, '.'); dot >= 0 {
		name = name[:dot]
	}
	if len(name) != Len {
		return time.Time{}, false
	}

	var ms uint64
	for i := range Len {
		v := strings.IndexByte(alphabet, name[i])
		if v < 0 {
			return time.Time{}, false
		}
		if i < timeLen {
			ms = ms<<5 | uint64(v)
		}
	}
	// 48-bit timestamp; the top character only carries three bits.
	if ms >= 1<<48 {
		return time.Time{}, false
	}
	return time.UnixMilli(int64(ms)).UTC(), true
}
