package auth

import "testing"

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := HashPassword("password1")
	if err != nil {
		t.Fatalf("HashPassword failed: %v", err)
	}

	if hash == "password1" {
		t.Error("Hash should not equal the plaintext password")
	}

	if !CheckPassword(hash, "password1") {
		t.Error("CheckPassword should accept the original password")
	}

	if CheckPassword(hash, "password2") {
		t.Error("CheckPassword should reject a wrong password")
	}
}
