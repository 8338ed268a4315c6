package auth

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"errors"

	"golang.org/x/crypto/pbkdf2"
)

const (
	hashIterations = 1000
	hashKeyLen     = sha256.Size
)

// Interface to create or compare user password hashes
type PasswordHasher interface {
	// Generate Hash from password
	Hash(password string) (string, error)

	// Compare known hashedPassword and user provided password
	// Must be protected against timing attacks
	Compare(hashedPassword string, password string) error
}

// PBKDF2Hasher derives a deterministic hash keyed with the server secret.
// No per-call salt: the same password always hashes to the same string,
// so verification is recompute-and-compare. Rotating the secret
// invalidates every stored password at once.
type PBKDF2Hasher struct {
	secret []byte
}

func NewPBKDF2Hasher(secret string) PBKDF2Hasher {
	return PBKDF2Hasher{secret: []byte(secret)}
}

func (h PBKDF2Hasher) Hash(password string) (string, error) {
	if len(h.secret) == 0 {
		return "", errors.New("hasher secret must not be empty")
	}

	dk := pbkdf2.Key([]byte(password), h.secret, hashIterations, hashKeyLen, sha256.New)
	return base64.StdEncoding.EncodeToString(dk), nil
}

func (h PBKDF2Hasher) Compare(hashedPassword string, password string) error {
	computed, err := h.Hash(password)
	if err != nil {
		return err
	}

	if subtle.ConstantTimeCompare([]byte(hashedPassword), []byte(computed)) != 1 {
		return errors.New("password hash mismatch")
	}

	return nil
}
