// Package otpx generates and checks one-time sign-in codes.
package otpx

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"math/big"
)

// Code length bounds. Shorter codes are guessable within a handful of
// attempts; longer ones stop fitting in an SMS comfortably.
const (
	MinDigits = 4
	MaxDigits = 10

	// DefaultDigits matches what users expect from verification codes.
	DefaultDigits = 6
)

// GenerateCode creates a cryptographically unpredictable numeric code of
// exactly the requested number of digits, zero-padded on the left.
// Returns an error if the random number generator fails.
func GenerateCode(digits int) (string, error) {
	if digits < MinDigits || digits > MaxDigits {
		return "", fmt.Errorf("otpx: code length must be between %d and %d digits, got %d", MinDigits, MaxDigits, digits)
	}

	max := big.NewInt(10)
	max.Exp(max, big.NewInt(int64(digits)), nil)

	n, err := rand.Int(rand.Reader, max)
	if err != nil {
		return "", fmt.Errorf("otpx: failed to generate random code: %w", err)
	}

	return fmt.Sprintf("%0*d", digits, n), nil
}

// Fingerprint returns a deterministic SHA-256 fingerprint of a code.
// Challenge state only ever carries fingerprints, never raw codes, so a
// leaked challenge parameter cannot be replayed as an answer.
//
// The fingerprint is returned as a base64url-encoded string (43 chars).
func Fingerprint(code string) string {
	sum := sha256.Sum256([]byte(code))
	return base64.RawURLEncoding.EncodeToString(sum[:])
}

// FingerprintEqual compares two fingerprints in constant time.
func FingerprintEqual(a, b string) bool {
	if a == "" || b == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}

// Match reports whether the submitted answer matches the expected
// fingerprint. The comparison runs over fixed-length digests in constant
// time, so neither the length nor the content of the expected code leaks
// through timing.
func Match(answer, fingerprint string) bool {
	if answer == "" || fingerprint == "" {
		return false
	}
	got := Fingerprint(answer)
	return subtle.ConstantTimeCompare([]byte(got), []byte(fingerprint)) == 1
}
