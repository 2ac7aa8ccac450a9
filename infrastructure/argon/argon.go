package argon

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/argon2"
)

// Params controls argon2id hashing behavior.
type Params struct {
	Memory      uint32
	Iterations  uint32
	Parallelism uint8
	SaltLength  uint32
	KeyLength   uint32
}

var DefaultParams = &Params{
	Memory:      64 * 1024,
	Iterations:  2,
	Parallelism: 1,
	SaltLength:  16,
	KeyLength:   32,
}

var ErrInvalidHash = errors.New("invalid argon2id hash")

// CreateHash encodes secret in the PHC string form "$argon2id$v=19$m=..,t=..,p=..$salt$hash".
func CreateHash(secret string, p *Params) (string, error) {
	if strings.TrimSpace(secret) == "" {
		return "", errors.New("secret is required")
	}
	if p == nil {
		p = DefaultParams
	}

	salt := make([]byte, p.SaltLength)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("read salt: %w", err)
	}
	hash := argon2.IDKey([]byte(secret), salt, p.Iterations, p.Memory, p.Parallelism, p.KeyLength)
	return fmt.Sprintf("$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version, p.Memory, p.Iterations, p.Parallelism,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(hash)), nil
}

// Compare reports whether secret matches encodedHash.
func Compare(secret, encodedHash string) (bool, error) {
	p, salt, hash, err := decodeHash(encodedHash)
	if err != nil {
		return false, err
	}
	other := argon2.IDKey([]byte(secret), salt, p.Iterations, p.Memory, p.Parallelism, uint32(len(hash)))
	return subtle.ConstantTimeCompare(hash, other) == 1, nil
}

// KeyCheck guards an endpoint with a shared key. A zero KeyCheck is disabled.
type KeyCheck struct {
	hash string
}

// NewKeyCheck validates encodedHash up front so a bad config fails at startup.
func NewKeyCheck(encodedHash string) (KeyCheck, error) {
	encodedHash = strings.TrimSpace(encodedHash)
	if encodedHash == "" {
		return KeyCheck{}, nil
	}
	if _, _, _, err := decodeHash(encodedHash); err != nil {
		return KeyCheck{}, err
	}
	return KeyCheck{hash: encodedHash}, nil
}

func (k KeyCheck) Enabled() bool { return k.hash != "" }

// Allow reports whether key is accepted. A disabled check accepts nothing,
// so callers decide whether a missing key means open or closed.
func (k KeyCheck) Allow(key string) bool {
	if !k.Enabled() || key == "" {
		return false
	}
	ok, err := Compare(key, k.hash)
	return err == nil && ok
}

func decodeHash(encodedHash string) (*Params, []byte, []byte, error) {
	parts := strings.Split(encodedHash, "$")
	if len(parts) != 6 || parts[1] != "argon2id" {
		return nil, nil, nil, ErrInvalidHash
	}

	var version int
	if _, err := fmt.Sscanf(parts[2], "v=%d", &version); err != nil || version != argon2.Version {
		return nil, nil, nil, fmt.Errorf("%w: unsupported version", ErrInvalidHash)
	}

	p := &Params{}
	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &p.Memory, &p.Iterations, &p.Parallelism); err != nil {
		return nil, nil, nil, fmt.Errorf("%w: parameters", ErrInvalidHash)
	}
	salt, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil {
		return nil, nil, nil, fmt.Errorf("%w: salt", ErrInvalidHash)
	}
	hash, err := base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil || len(hash) == 0 {
		return nil, nil, nil, fmt.Errorf("%w: hash", ErrInvalidHash)
	}
	p.SaltLength = uint32(len(salt))
	p.KeyLength = uint32(len(hash))
	return p, salt, hash, nil
}
