package auth

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"math/big"
	"strings"
)

const (
	// VerificationCodeDigits is the length of an email verification code.
	VerificationCodeDigits = 6
	// ResetTokenBytes is the entropy of a password reset token.
	ResetTokenBytes = 20
)

// GenerateNumericCode returns a uniformly random decimal code of the given length.
func GenerateNumericCode(digits int) (string, error) {
	if digits <= 0 {
		return "", fmt.Errorf("invalid code length %d", digits)
	}
	var b strings.Builder
	b.Grow(digits)
	for range digits {
		n, err := rand.Int(rand.Reader, big.NewInt(10))
		if err != nil {
			return "", err
		}
		b.WriteByte(byte('0' + n.Int64()))
	}
	return b.String(), nil
}

// GenerateOpaqueToken returns n random bytes, hex encoded.
func GenerateOpaqueToken(n int) (string, error) {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}

// HashSecret is the at-rest form of a one-time code or token.
func HashSecret(secret string) string {
	sum := sha256.Sum256([]byte(secret))
	return hex.EncodeToString(sum[:])
}

// NormalizeCode strips all whitespace so "123 456" and " 123456\n" match.
func NormalizeCode(code string) string {
	return strings.Join(strings.Fields(code), "")
}
