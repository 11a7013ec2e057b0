// Package hashing holds the one-way transforms applied to secrets before they
// reach the store: bcrypt for passwords and keyed HMAC-SHA256 for one-time codes.
package hashing

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"strconv"

	"github.com/ErlanBelekov/blog-api/internal/domain"
	"golang.org/x/crypto/bcrypt"
)

// DefaultCost is the bcrypt work factor used for passwords.
const DefaultCost = 12

// HashSecret returns a salted bcrypt hash of plaintext at the given cost.
// Plaintext of any length is accepted.
func HashSecret(plaintext string, cost int) (string, error) {
	hash, err := bcrypt.GenerateFromPassword(prehash(plaintext), cost)
	if err != nil {
		return "", fmt.Errorf("%w: %w", domain.ErrHashing, err)
	}
	return string(hash), nil
}

// VerifySecret reports whether plaintext matches hash. Mismatches and
// malformed hashes both return false.
func VerifySecret(plaintext, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), prehash(plaintext)) == nil
}

// prehash folds plaintext into 44 bytes of base64 SHA-256, under bcrypt's
// 72-byte input limit, so long passwords are neither rejected nor truncated.
func prehash(plaintext string) []byte {
	sum := sha256.Sum256([]byte(plaintext))
	out := make([]byte, base64.StdEncoding.EncodedLen(len(sum)))
	base64.StdEncoding.Encode(out, sum[:])
	return out
}

// HMACCode returns the hex HMAC-SHA256 of the decimal form of code.
func HMACCode(code int, key []byte) string {
	mac := hmac.New(sha256.New, key)
	mac.Write([]byte(strconv.Itoa(code)))
	return hex.EncodeToString(mac.Sum(nil))
}

// VerifyCode recomputes the HMAC of code and compares it with codeHash in
// constant time.
func VerifyCode(code int, key []byte, codeHash string) bool {
	want, err := hex.DecodeString(codeHash)
	if err != nil {
		return false
	}
	mac := hmac.New(sha256.New, key)
	mac.Write([]byte(strconv.Itoa(code)))
	return hmac.Equal(mac.Sum(nil), want)
}

// Hasher binds the package functions to a work factor and code key so the
// use-case layer can depend on a small interface.
type Hasher struct {
	cost    int
	codeKey []byte
}

func NewHasher(cost int, codeKey []byte) *Hasher {
	return &Hasher{cost: cost, codeKey: codeKey}
}

func (h *Hasher) HashPassword(plaintext string) (string, error) {
	return HashSecret(plaintext, h.cost)
}

func (h *Hasher) VerifyPassword(plaintext, hash string) bool {
	return VerifySecret(plaintext, hash)
}

func (h *Hasher) HashCode(code int) string {
	return HMACCode(code, h.codeKey)
}

func (h *Hasher) VerifyCode(code int, codeHash string) bool {
	return VerifyCode(code, h.codeKey, codeHash)
}
