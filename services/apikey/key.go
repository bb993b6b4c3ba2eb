// Package apikey issues and verifies tenant API keys of the form
// ak_<uuid>_<base64url token>.
package apikey

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/argon2"
)

const (
	Prefix     = "ak_"
	tokenBytes = 32
)

var keyPattern = regexp.MustCompile(`^ak_([0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12})_([A-Za-z0-9\-_]+)$`)

var (
	ErrInvalidFormat        = errors.New("api key has an invalid format")
	ErrKeyNotFound          = errors.New("api key not found")
	ErrInvalidKey           = errors.New("api key is invalid")
	ErrHashVerify           = errors.New("api key hash could not be verified")
	ErrOrganisationNotFound = errors.New("organisation not found for api key")
)

// Params are the Argon2id cost settings.
type Params struct {
	Memory  uint32 // KiB
	Time    uint32
	Threads uint8
	SaltLen uint32
	KeyLen  uint32
}

// maxHashMemory caps the memory cost (KiB) accepted from a stored hash.
const maxHashMemory = 1 << 20

var DefaultParams = Params{
	Memory:  64 * 1024,
	Time:    3,
	Threads: 1,
	SaltLen: 16,
	KeyLen:  32,
}

// Parse splits a credential into its key id and token.
func Parse(raw string) (keyID, token string, err error) {
	m := keyPattern.FindStringSubmatch(raw)
	if m == nil {
		return "", "", ErrInvalidFormat
	}
	return m[1], m[2], nil
}

// Generate returns a fresh credential together with its parts.
func Generate() (full, keyID, token string, err error) {
	buf := make([]byte, tokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", "", "", fmt.Errorf("failed to read random token: %w", err)
	}
	keyID = uuid.NewString()
	token = base64.RawURLEncoding.EncodeToString(buf)
	return Prefix + keyID + "_" + token, keyID, token, nil
}

// Hash returns the PHC-encoded Argon2id hash of the full credential.
func Hash(key string, p Params) (string, error) {
	salt := make([]byte, p.SaltLen)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("failed to read salt: %w", err)
	}
	sum := argon2.IDKey([]byte(key), salt, p.Time, p.Memory, p.Threads, p.KeyLen)
	return fmt.Sprintf("$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version, p.Memory, p.Time, p.Threads,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(sum),
	), nil
}

// Verify checks key against an encoded hash. An error means the hash
// itself is unusable, not that the key is wrong.
func Verify(key, encoded string) (bool, error) {
	p, salt, sum, err := decodeHash(encoded)
	if err != nil {
		return false, err
	}
	other := argon2.IDKey([]byte(key), salt, p.Time, p.Memory, p.Threads, uint32(len(sum)))
	return subtle.ConstantTimeCompare(sum, other) == 1, nil
}

func decodeHash(encoded string) (Params, []byte, []byte, error) {
	var p Params
	parts := strings.Split(encoded, "$")
	if len(parts) != 6 || parts[1] != "argon2id" {
		return p, nil, nil, fmt.Errorf("%w: unsupported hash encoding", ErrHashVerify)
	}

	var version int
	if _, err := fmt.Sscanf(parts[2], "v=%d", &version); err != nil {
		return p, nil, nil, fmt.Errorf("%w: %v", ErrHashVerify, err)
	}
	if version != argon2.Version {
		return p, nil, nil, fmt.Errorf("%w: argon2 version %d", ErrHashVerify, version)
	}
	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &p.Memory, &p.Time, &p.Threads); err != nil {
		return p, nil, nil, fmt.Errorf("%w: %v", ErrHashVerify, err)
	}
	if p.Time < 1 || p.Threads < 1 || p.Memory < 8*uint32(p.Threads) || p.Memory > maxHashMemory {
		return p, nil, nil, fmt.Errorf("%w: cost m=%d,t=%d,p=%d out of range", ErrHashVerify, p.Memory, p.Time, p.Threads)
	}

	salt, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil {
		return p, nil, nil, fmt.Errorf("%w: salt: %v", ErrHashVerify, err)
	}
	sum, err := base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil || len(sum) == 0 {
		return p, nil, nil, fmt.Errorf("%w: hash: %v", ErrHashVerify, err)
	}
	p.SaltLen = uint32(len(salt))
	p.KeyLen = uint32(len(sum))
	return p, salt, sum, nil
}
