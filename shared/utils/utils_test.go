package utils

import (
	"strings"
	"testing"

	"golang.org/x/crypto/bcrypt"
)

func TestGenerateUserID(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		id := GenerateUserID()
		if !strings.HasPrefix(id, "usr-") {
			t.Fatalf("GenerateUserID() = %q, want usr- prefix", id)
		}
		if got, want := len(id), len("usr-")+10; got != want {
			t.Fatalf("len(%q) = %d, want %d", id, got, want)
		}
		if seen[id] {
			t.Fatalf("GenerateUserID() returned duplicate %q", id)
		}
		seen[id] = true
	}
}

func TestBcryptHasher(t *testing.T) {
	h := NewBcryptHasher(bcrypt.MinCost)

	hash, err := h.Hash("secret1")
	if err != nil {
		t.Fatalf("Hash: %v", err)
	}
	if hash == "secret1" {
		t.Fatal("hash equals plaintext")
	}
	if !strings.HasPrefix(hash, "$2a$") {
		t.Errorf("hash %q is not a bcrypt hash", hash)
	}
	if !h.Verify("secret1", hash) {
		t.Error("Verify(correct) = false, want true")
	}
	if h.Verify("secret2", hash) {
		t.Error("Verify(wrong) = true, want false")
	}

	again, err := h.Hash("secret1")
	if err != nil {
		t.Fatalf("Hash: %v", err)
	}
	if again == hash {
		t.Error("two hashes of the same password are equal, want distinct salts")
	}
}

func TestNewBcryptHasher_OutOfRangeCost(t *testing.T) {
	for _, cost := range []int{0, 2, 40} {
		if got := NewBcryptHasher(cost).Cost; got != bcrypt.DefaultCost {
			t.Errorf("NewBcryptHasher(%d).Cost = %d, want %d", cost, got, bcrypt.DefaultCost)
		}
	}
}
