package util

import "testing"

func TestHashAndVerifyPassword(t *testing.T) {
	plain := "entry-portal-pass-2026"

	hashed, err := HashPassword(plain)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	if hashed == "" || hashed == plain {
		t.Fatalf("expected a bcrypt hash distinct from the plaintext, got %q", hashed)
	}

	if err := VerifyPassword(plain, hashed); err != nil {
		t.Fatalf("verify with correct password: %v", err)
	}
	if err := VerifyPassword("wrong-password", hashed); err == nil {
		t.Fatalf("expected mismatch error for wrong password")
	}
}

func TestVerifyPasswordRejectsMalformedHash(t *testing.T) {
	if err := VerifyPassword("anything", "not-a-bcrypt-hash"); err == nil {
		t.Fatalf("expected error for malformed hash")
	}
}
