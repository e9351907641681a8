// Package idhash turns caller-supplied household and member ids into the
// salted digests the graph store keys people and households by.
package idhash

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

const DefaultSalt = "default-dev-salt-change-in-production"

type Hasher struct {
	salt string
}

func New(salt string) Hasher {
	if strings.TrimSpace(salt) == "" {
		salt = DefaultSalt
	}
	return Hasher{salt: salt}
}

// Hash returns hex(sha256(salt + id)). Empty input stays empty.
func (h Hasher) Hash(id string) string {
	if id == "" {
		return ""
	}
	sum := sha256.Sum256([]byte(h.salt + id))
	return hex.EncodeToString(sum[:])
}

// Ensure hashes id unless it already looks like a digest.
func (h Hasher) Ensure(id string) string {
	if IsHashed(id) {
		return id
	}
	return h.Hash(id)
}

// IsHashed reports whether id is 64 hex characters.
func IsHashed(id string) bool {
	if len(id) != sha256.Size*2 {
		return false
	}
	for i := 0; i < len(id); i++ {
		c := id[i]
		if !(c >= '0' && c <= '9' || c >= 'a' && c <= 'f' || c >= 'A' && c <= 'F') {
			return false
		}
	}
	return true
}
