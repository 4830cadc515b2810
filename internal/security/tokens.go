package security

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base32"
	"encoding/hex"
)

// idAlphabet is the character set for non-credential identifiers such as
// access token ids. Lowercase so identifiers survive case-folding proxies.
const idAlphabet = "abcdefghijklmnopqrstuvwxyz0123456789"

// base32Lower encodes with the standard base32 alphabet lowered and without
// padding, matching the wire form of session and reset tokens.
var base32Lower = base32.NewEncoding("abcdefghijklmnopqrstuvwxyz234567").WithPadding(base32.NoPadding)

// sessionTokenBytes is the entropy of a session token secret. 20 bytes gives
// 160 bits, well above the 96-bit floor needed to make collisions negligible.
const sessionTokenBytes = 20

// GenerateSessionToken returns a new opaque session secret: 20 bytes of
// cryptographically secure randomness encoded as lowercase unpadded base32.
// The raw secret is only ever held in transit; persist HashToken of it.
func GenerateSessionToken() string {
	b := make([]byte, sessionTokenBytes)
	if _, err := rand.Read(b); err != nil {
		// crypto/rand never fails on supported platforms; a broken entropy
		// source is not something we can continue past.
		panic("security: read random: " + err.Error())
	}
	return base32Lower.EncodeToString(b)
}

// HashToken returns the SHA-256 digest of the secret's UTF-8 bytes as
// lowercase hex. Deterministic; used as the sole storage and lookup key so
// the raw secret is never stored or compared.
func HashToken(secret string) string {
	h := sha256.Sum256([]byte(secret))
	return hex.EncodeToString(h[:])
}

// TokenHashEqual compares the provided secret's hash against a stored hash in
// constant time. Returns true only on an exact match.
func TokenHashEqual(secret, storedHash string) bool {
	providedHash := HashToken(secret)
	return subtle.ConstantTimeCompare([]byte(providedHash), []byte(storedHash)) == 1
}

// GenerateID returns a random identifier of the given length over a lowercase
// alphanumeric alphabet. For non-credential identifiers; when an id is used
// as a credential the caller must still persist only HashToken of it.
func GenerateID(length int) string {
	if length <= 0 {
		return ""
	}
	out := make([]byte, length)
	b := make([]byte, length)
	if _, err := rand.Read(b); err != nil {
		panic("security: read random: " + err.Error())
	}
	for i := range out {
		// 36 does not divide 256 evenly; the bias (<0.2%) is irrelevant for
		// identifiers that are not secrets on their own.
		out[i] = idAlphabet[int(b[i])%len(idAlphabet)]
	}
	return string(out)
}

// GenerateIDFromEntropySize returns size random bytes encoded as lowercase
// unpadded base32. Password-reset tokens use size 25.
func GenerateIDFromEntropySize(size int) string {
	b := make([]byte, size)
	if _, err := rand.Read(b); err != nil {
		panic("security: read random: " + err.Error())
	}
	return base32Lower.EncodeToString(b)
}
