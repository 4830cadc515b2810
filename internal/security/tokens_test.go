package security

import (
	"strings"
	"testing"
)

func TestHashToken_Deterministic(t *testing.T) {
	secret := "kd2xg5zemvsxg2lom5pxg33om5pxg33o"
	hash1 := HashToken(secret)
	hash2 := HashToken(secret)

	if hash1 != hash2 {
		t.Errorf("HashToken not deterministic: hash1 = %q, hash2 = %q", hash1, hash2)
	}
	if len(hash1) != 64 {
		t.Errorf("hash length = %d, want 64 (SHA-256 hex)", len(hash1))
	}
	if hash1 != strings.ToLower(hash1) {
		t.Errorf("hash %q not lowercase hex", hash1)
	}
}

func TestHashToken_KnownVector(t *testing.T) {
	// sha256("abc") is a fixed vector; guards against codec drift.
	want := "ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad"
	if got := HashToken("abc"); got != want {
		t.Errorf("HashToken(\"abc\") = %q, want %q", got, want)
	}
}

func TestHashToken_NoCollisionsInSample(t *testing.T) {
	seen := make(map[string]string, 10000)
	for i := 0; i < 10000; i++ {
		secret := GenerateSessionToken()
		hash := HashToken(secret)
		if prev, ok := seen[hash]; ok && prev != secret {
			t.Fatalf("hash collision: %q and %q both hash to %q", prev, secret, hash)
		}
		seen[hash] = secret
	}
}

func TestGenerateSessionToken_Format(t *testing.T) {
	token := GenerateSessionToken()
	// 20 bytes -> ceil(160/5) = 32 base32 characters, no padding.
	if len(token) != 32 {
		t.Errorf("token length = %d, want 32", len(token))
	}
	for _, c := range token {
		if !strings.ContainsRune("abcdefghijklmnopqrstuvwxyz234567", c) {
			t.Errorf("token %q contains %q outside lowercase base32 alphabet", token, c)
		}
	}
}

func TestGenerateSessionToken_Distinct(t *testing.T) {
	if GenerateSessionToken() == GenerateSessionToken() {
		t.Error("two generated session tokens are equal")
	}
}

func TestTokenHashEqual_Match(t *testing.T) {
	secret := GenerateSessionToken()
	stored := HashToken(secret)
	if !TokenHashEqual(secret, stored) {
		t.Error("TokenHashEqual should match the correct secret")
	}
}

func TestTokenHashEqual_Reject(t *testing.T) {
	stored := HashToken("correct-secret")
	if TokenHashEqual("wrong-secret", stored) {
		t.Error("TokenHashEqual should reject an incorrect secret")
	}
	if TokenHashEqual("correct-secret", "a"+stored) {
		t.Error("TokenHashEqual should reject a stored hash of different length")
	}
	if TokenHashEqual("correct-secret", "a"+stored[1:]) {
		t.Error("TokenHashEqual should reject a stored hash of different content")
	}
}

func TestGenerateID(t *testing.T) {
	id := GenerateID(15)
	if len(id) != 15 {
		t.Errorf("id length = %d, want 15", len(id))
	}
	for _, c := range id {
		if !strings.ContainsRune(idAlphabet, c) {
			t.Errorf("id %q contains %q outside alphabet", id, c)
		}
	}
	if GenerateID(0) != "" {
		t.Error("GenerateID(0) should be empty")
	}
	if GenerateID(15) == GenerateID(15) {
		t.Error("two generated ids are equal")
	}
}

func TestGenerateIDFromEntropySize(t *testing.T) {
	id := GenerateIDFromEntropySize(25)
	// 25 bytes -> 40 base32 characters.
	if len(id) != 40 {
		t.Errorf("id length = %d, want 40", len(id))
	}
	if id == GenerateIDFromEntropySize(25) {
		t.Error("two generated ids are equal")
	}
}
