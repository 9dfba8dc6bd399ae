package service

import (
	"crypto/sha256"
	"encoding/binary"
	"math/rand/v2"
	"time"
)

// rng is a seeded source shared by every random choice of one generation run.
// Distinct streams are derived from the same seed so that, say, adding a
// column to users does not shift the signing key.
type rng struct {
	*rand.Rand
	src *rand.ChaCha8
}

func newRNG(seed uint64, stream string) *rng {
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], seed)
	key := sha256.Sum256(append(buf[:], stream...))

	src := rand.NewChaCha8(key)
	return &rng{Rand: rand.New(src), src: src}
}

// Read makes rng an io.Reader for salts, tokens and keys.
func (r *rng) Read(p []byte) (int, error) { return r.src.Read(p) }

// chance reports true with probability p.
func (r *rng) chance(p float64) bool { return r.Float64() < p }

// between returns a uniformly random instant in [from, to), truncated to
// whole seconds since that is all a timestamp column keeps.
func (r *rng) between(from, to time.Time) time.Time {
	span := to.Sub(from)
	if span <= time.Second {
		return from.Truncate(time.Second)
	}
	return from.Add(time.Duration(r.Int64N(int64(span)))).Truncate(time.Second)
}

// jitter returns a random duration in [lo, hi).
func (r *rng) jitter(lo, hi time.Duration) time.Duration {
	if hi <= lo {
		return lo
	}
	return lo + time.Duration(r.Int64N(int64(hi-lo)))
}

func pick[T any](r *rng, items []T) T {
	return items[r.IntN(len(items))]
}
