package project

import (
	"crypto/sha256"
	"encoding/binary"
	"strings"
)

// Digest - фиксированный 256 битный хеш (совместим с source.File.Hash)
type Digest [32]byte

// Combine builds a derived key: H( content || dep1 || dep2 ... ).
// The order of deps must be deterministic.
func Combine(content Digest, deps ...Digest) Digest {
	h := sha256.New()
	_, _ = h.Write(content[:])
	for _, d := range deps {
		_, _ = h.Write(d[:])
	}
	var out Digest
	copy(out[:], h.Sum(nil))
	return out
}

// Fingerprint hashes the settings that change the produced tree or its
// diagnostics. Cached parse results are keyed by Combine(content, fingerprint).
func (c ParseConfig) Fingerprint() Digest {
	h := sha256.New()
	var buf [8]byte
	for _, v := range []int{c.MaxDepth, c.MaxErrors} {
		binary.LittleEndian.PutUint64(buf[:], uint64(int64(v)))
		_, _ = h.Write(buf[:])
	}
	if c.SkipNFCCheck {
		_, _ = h.Write([]byte{1})
	} else {
		_, _ = h.Write([]byte{0})
	}
	_, _ = h.Write([]byte(strings.Join(c.Extensions, ",")))
	var out Digest
	copy(out[:], h.Sum(nil))
	return out
}
