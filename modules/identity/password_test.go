package identity

import (
	"testing"
)

func TestPasswordHasher_HashAndVerify(t *testing.T) {
	hasher := NewPasswordHasher()

	hash, err := hasher.Hash("correct horse battery")
	if err != nil {
		t.Fatalf("Hash() error = %v", err)
	}
	if hash == "correct horse battery" {
		t.Fatal("Hash() returned the plaintext")
	}

	if !hasher.Verify("correct horse battery", hash) {
		t.Error("Verify() should accept the original password")
	}
	if hasher.Verify("wrong password", hash) {
		t.Error("Verify() should reject a wrong password")
	}
	if hasher.Verify("correct horse battery", "not-a-hash") {
		t.Error("Verify() should reject a malformed hash")
	}
}

func TestPasswordHasher_UniqueSalts(t *testing.T) {
	hasher := NewPasswordHasher()

	first, err := hasher.Hash("same password")
	if err != nil {
		t.Fatalf("Hash() error = %v", err)
	}
	second, err := hasher.Hash("same password")
	if err != nil {
		t.Fatalf("Hash() error = %v", err)
	}
	if first == second {
		t.Error("two hashes of the same password should differ")
	}
}
