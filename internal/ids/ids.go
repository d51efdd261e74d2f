// Package ids generates the identifiers used for players, matches, legs,
// visits and practice sessions.
//
// IDs are UUIDv7 values encoded as 26-character lowercase Crockford base32,
// so they sort by creation time.
package ids

import (
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"
)

// Base32 alphabet (Crockford's, lowercase)
const alphabet = "0123456789abcdefghjkmnpqrstvwxyz"

// Length is the length of every encoded ID.
const Length = 26

// Generator produces IDs. The zero value uses crypto/rand.
type Generator struct {
	rand io.Reader
}

// NewGenerator creates a generator reading random bits from r. A nil reader
// uses crypto/rand.
func NewGenerator(r io.Reader) *Generator {
	return &Generator{rand: r}
}

// New returns a fresh ID from the default generator.
func New() string {
	return (&Generator{}).New()
}

// New returns a fresh ID.
func (g *Generator) New() string {
	var (
		u   uuid.UUID
		err error
	)
	if g.rand != nil {
		u, err = uuid.NewV7FromReader(g.rand)
	} else {
		u, err = uuid.NewV7()
	}
	if err != nil {
		panic("ids: failed to generate UUIDv7: " + err.Error())
	}
	return Encode(u)
}

// Encode encodes a UUID as a 26-character base32 string. The 128 bits are
// padded on the right with two zero bits.
func Encode(u uuid.UUID) string {
	out := make([]byte, Length)
	for i := range out {
		bitOffset := i * 5
		byteIndex := bitOffset / 8
		bitIndex := bitOffset % 8

		var value byte
		if bitIndex <= 3 {
			value = (u[byteIndex] >> (3 - bitIndex)) & 0x1f
		} else {
			value = (u[byteIndex] << (bitIndex - 3)) & 0x1f
			if byteIndex+1 < len(u) {
				value |= u[byteIndex+1] >> (11 - bitIndex)
			}
		}
		out[i] = alphabet[value]
	}
	return string(out)
}

// Validate checks that id looks like an ID produced by this package.
func Validate(id string) error {
	if len(id) != Length {
		return fmt.Errorf("id must be exactly %d characters, got %d", Length, len(id))
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
