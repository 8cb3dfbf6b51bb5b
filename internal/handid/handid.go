// Package handid generates sortable identifiers for hands and tournaments:
// a UUIDv7 written as 26 characters of Crockford base32.
package handid

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

const alphabet = "0123456789abcdefghjkmnpqrstvwxyz"

// maxSeq is the largest counter that fits the 12 bits after the version.
const maxSeq = 0xfff

// Generator makes IDs from a caller supplied random stream and clock. The
// same stream and clock readings always give the same IDs.
type Generator struct {
	mu  sync.Mutex
	r   io.Reader
	now func() time.Time

	lastMS int64
	seq    int
}

// NewGenerator returns a Generator reading randomness from r and the
// timestamp from now. A nil r uses the uuid package's default source and
// wall clock; a nil now uses time.Now.
func NewGenerator(r io.Reader, now func() time.Time) *Generator {
	if now == nil {
		now = time.Now
	}
	return &Generator{r: r, now: now}
}

// New returns a fresh ID. IDs from one Generator sort in creation order.
func (g *Generator) New() (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.r == nil {
		u, err := uuid.NewV7()
		if err != nil {
			return "", fmt.Errorf("generate id: %w", err)
		}
		return Encode(u), nil
	}

	u, err := uuid.NewRandomFromReader(g.r)
	if err != nil {
		return "", fmt.Errorf("generate id: %w", err)
	}

	ms := g.now().UnixMilli()
	if ms <= g.lastMS {
		ms = g.lastMS
		g.seq++
		if g.seq > maxSeq {
			ms++
			g.seq = 0
		}
	} else {
		g.seq = 0
	}
	g.lastMS = ms

	u[0] = byte(ms >> 40)
	u[1] = byte(ms >> 32)
	u[2] = byte(ms >> 24)
	u[3] = byte(ms >> 16)
	u[4] = byte(ms >> 8)
	u[5] = byte(ms)
	u[6] = 0x70 | byte(g.seq>>8)
	u[7] = byte(g.seq)
	return Encode(u), nil
}

// New returns an ID from the default source.
func New() string {
	return Encode(uuid.Must(uuid.NewV7()))
}

// Encode writes u as 26 base32 characters. The value is treated as 130
// bits with two leading zeros, so the first character is always 0-7.
func Encode(u uuid.UUID) string {
	var hi, lo uint64
	for i := range 8 {
		hi = hi<<8 | uint64(u[i])
		lo = lo<<8 | uint64(u[i+8])
	}

	out := make([]byte, 26)
	for i := range out {
		shift := uint(125 - 5*i)
		var v uint64
		switch {
		case shift >= 64:
			v = hi >> (shift - 64)
		case shift+5 <= 64:
			v = lo >> shift
		default:
			v = lo>>shift | hi<<(64-shift)
		}
		out[i] = alphabet[v&0x1f]
	}
	return string(out)
}

// Validate checks the length and alphabet of id.
func Validate(id string) error {
	if len(id) != 26 {
		return fmt.Errorf("id must be exactly 26 characters, got %d", len(id))
	}
	if id[0] > '7' {
		return fmt.Errorf("id first character must be 0-7, got %c", id[0])
	}
	for i, c := range id {
		if !strings.ContainsRune(alphabet, c) {
			return fmt.Errorf("invalid character %c at position %d", c, i)
		}
	}
	return nil
}
