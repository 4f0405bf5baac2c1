// Package auth hashes and verifies the admin bearer token.
//
// Hashes are stored in the PHC string format used by other argon2 tools:
//
//	$argon2id$v=19$m=65536,t=1,p=4$<salt>$<key>
//
// with unpadded standard base64 for salt and key.
package auth

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/argon2"
)

const (
	// Argon2 parameters (RFC 9106 second recommended option).
	defaultTime    = 1
	defaultMemory  = 64 * 1024 // KiB
	defaultThreads = 4
	defaultKeyLen  = 32

	saltLength  = 16
	tokenLength = 32
)

// ErrMalformedHash is returned for a stored hash that cannot be parsed.
var ErrMalformedHash = errors.New("malformed token hash")

// Params controls the cost of argon2id.
type Params struct {
	Time    uint32
	Memory  uint32 // KiB
	Threads uint8
	KeyLen  uint32
}

// DefaultParams returns the parameters used by HashToken when none are given.
func DefaultParams() *Params {
	return &Params{
		Time:    defaultTime,
		Memory:  defaultMemory,
		Threads: defaultThreads,
		KeyLen:  defaultKeyLen,
	}
}

// GenerateToken returns a random URL-safe token.
func GenerateToken() (string, error) {
	b := make([]byte, tokenLength)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

// HashToken derives an encoded argon2id hash of token with a fresh salt.
func HashToken(token string, p *Params) (string, error) {
	if token == "" {
		return "", errors.New("token cannot be empty")
	}
	if p == nil {
		p = DefaultParams()
	}

	salt := make([]byte, saltLength)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("failed to generate salt: %w", err)
	}

	key := argon2.IDKey([]byte(token), salt, p.Time, p.Memory, p.Threads, p.KeyLen)

	return fmt.Sprintf("$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version, p.Memory, p.Time, p.Threads,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(key),
	), nil
}

// VerifyToken reports whether token matches the encoded hash.
func VerifyToken(token, encoded string) (bool, error) {
	p, salt, key, err := decodeHash(encoded)
	if err != nil {
		return false, err
	}

	other := argon2.IDKey([]byte(token), salt, p.Time, p.Memory, p.Threads, p.KeyLen)
	return subtle.ConstantTimeCompare(key, other) == 1, nil
}

func decodeHash(encoded string) (*Params, []byte, []byte, error) {
	parts := strings.Split(encoded, "$")
	if len(parts) != 6 || parts[1] != "argon2id" {
		return nil, nil, nil, ErrMalformedHash
	}

	var version int
	if _, err := fmt.Sscanf(parts[2], "v=%d", &version); err != nil {
		return nil, nil, nil, fmt.Errorf("%w: %v", ErrMalformedHash, err)
	}
	if version != argon2.Version {
		return nil, nil, nil, fmt.Errorf("%w: unsupported version %d", ErrMalformedHash, version)
	}

	p := &Params{}
	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &p.Memory, &p.Time, &p.Threads); err != nil {
		return nil, nil, nil, fmt.Errorf("%w: %v", ErrMalformedHash, err)
	}

	salt, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil {
		return nil, nil, nil, fmt.Errorf("%w: salt: %v", ErrMalformedHash, err)
	}
	key, err := base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil || len(key) == 0 {
		return nil, nil, nil, fmt.Errorf("%w: key", ErrMalformedHash)
	}
	p.KeyLen = uint32(len(key))

	return p, salt, key, nil
}
