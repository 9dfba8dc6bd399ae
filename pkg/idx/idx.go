// Package idx mints the ULID identifiers used as primary keys.
package idx

import (
	"crypto/rand"
	"errors"
	"io"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

// ID is a canonical 26 character ULID.
type ID string

func (id ID) String() string { return string(id) }

// Time is the millisecond timestamp embedded in id, or the zero time when
// id is not a ULID.
func (id ID) Time() time.Time {
	u, err := ulid.ParseStrict(string(id))
	if err != nil {
		return time.Time{}
	}
	return ulid.Time(u.Time()).UTC()
}

var ErrInvalid = errors.New("idx: invalid ulid")

// Parse validates s as a strict ULID.
func Parse(s string) (ID, error) {
	if _, err := ulid.ParseStrict(s); err != nil {
		return "", ErrInvalid
	}
	return ID(s), nil
}

// Generator mints IDs from one monotonic entropy source. Over a seeded
// reader it mints the same sequence every run.
type Generator struct {
	mu      sync.Mutex
	entropy *ulid.MonotonicEntropy
}

func NewGenerator(r io.Reader) *Generator {
	return &Generator{entropy: ulid.Monotonic(r, 0)}
}

// NewAt mints an ID stamped with t, so IDs sort by row creation time.
func (g *Generator) NewAt(t time.Time) ID {
	g.mu.Lock()
	defer g.mu.Unlock()
	return ID(ulid.MustNew(ulid.Timestamp(t), g.entropy).String())
}

var defaultGen = sync.OnceValue(func() *Generator { return NewGenerator(rand.Reader) })

// New mints an ID for the current time from crypto/rand.
func New() ID { return defaultGen().NewAt(time.Now()) }

// NewAt mints an ID for t from crypto/rand.
func NewAt(t time.Time) ID { return defaultGen().NewAt(t) }
