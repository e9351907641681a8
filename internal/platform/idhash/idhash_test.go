package idhash

import (
	"crypto/sha256"
	"encoding/hex"
	"testing"
)

func TestHash(t *testing.T) {
	h := New("pepper")
	sum := sha256.Sum256([]byte("pepperhh-1"))
	want := hex.EncodeToString(sum[:])
	if got := h.Hash("hh-1"); got != want {
		t.Fatalf("Hash: want=%q got=%q", want, got)
	}
	if got := h.Hash(""); got != "" {
		t.Fatalf("Hash empty: want=%q got=%q", "", got)
	}
	if New("").salt != DefaultSalt {
		t.Fatalf("default salt not applied")
	}
}

func TestEnsure(t *testing.T) {
	h := New("pepper")
	hashed := h.Hash("m-1")
	if !IsHashed(hashed) {
		t.Fatalf("IsHashed(%q) = false", hashed)
	}
	if got := h.Ensure(hashed); got != hashed {
		t.Fatalf("Ensure re-hashed digest: got=%q", got)
	}
	if got := h.Ensure("m-1"); got != hashed {
		t.Fatalf("Ensure raw: want=%q got=%q", hashed, got)
	}
	if IsHashed("zz" + hashed[2:]) {
		t.Fatalf("non-hex accepted")
	}
}
