package treblo

import (
	"crypto/sha1"
	"crypto/sha256"
	"encoding/binary"
	"fmt"
	"hash"
	"io"
	"strings"

	"github.com/cespare/xxhash/v2"
)

// Hasher consumes an object's encoded bytes and produces its digest.
// Finish ends the hasher; it must not be written to afterwards.
type Hasher interface {
	io.Writer
	Finish() []byte
}

// HasherFactory returns a fresh Hasher for every object.
type HasherFactory func() Hasher

// DefaultHasherName names the algorithm used when none is configured.
const DefaultHasherName = "sha1"

type cryptoHasher struct {
	h hash.Hash
}

func (c *cryptoHasher) Write(p []byte) (int, error) { return c.h.Write(p) }

func (c *cryptoHasher) Finish() []byte {
	sum := c.h.Sum(nil)
	c.h = nil
	return sum
}

// SHA1 hashes with SHA-1, Git's default object id (20 bytes).
func SHA1() Hasher { return &cryptoHasher{h: sha1.New()} }

// SHA256 hashes with SHA-256, Git's sha256 object format (32 bytes).
func SHA256() Hasher { return &cryptoHasher{h: sha256.New()} }

type xxh64Hasher struct {
	d     *xxhash.Digest
	order binary.ByteOrder
}

func (x *xxh64Hasher) Write(p []byte) (int, error) { return x.d.Write(p) }

func (x *xxh64Hasher) Finish() []byte {
	out := make([]byte, 8)
	x.order.PutUint64(out, x.d.Sum64())
	x.d = nil
	return out
}

// XXH64 returns a factory for 8-byte XXH64 digests laid out in the given byte order.
func XXH64(order binary.ByteOrder) HasherFactory {
	return func() Hasher {
		return &xxh64Hasher{d: xxhash.New(), order: order}
	}
}

// HasherByName resolves an algorithm name as accepted by the command line.
func HasherByName(name string) (HasherFactory, error) {
	switch strings.ToLower(name) {
	case "", "sha1":
		return SHA1, nil
	case "sha256":
		return SHA256, nil
	case "xxhash64", "xxh64":
		return XXH64(binary.BigEndian), nil
	case "xxhash64le", "xxh64le":
		return XXH64(binary.LittleEndian), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownHasher, name)
	}
}
