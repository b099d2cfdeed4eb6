package crypto

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"strings"

	"golang.org/x/crypto/argon2"
	"golang.org/x/sync/semaphore"

	"wego/internal/domain"
)

const (
	saltLen = 32
	keyLen  = 32
)

// Params are the argon2id cost knobs. The defaults are deliberately slow;
// do not lower them to speed up login.
type Params struct {
	TimeCost  uint32
	MemoryKiB uint32
	Lanes     uint8
}

func DefaultParams() Params {
	return Params{TimeCost: 4, MemoryKiB: 4096, Lanes: 1}
}

// Hasher derives and verifies argon2id password hashes. Each encoded hash is
// self-describing, so stored hashes stay verifiable after a params change.
// Derivations are gated through a weighted semaphore: the KDF is the most
// expensive computation in the process and must not occupy every worker.
type Hasher struct {
	params Params
	sem    *semaphore.Weighted
}

func NewHasher(p Params, maxConcurrent int64) *Hasher {
	if p.TimeCost == 0 || p.MemoryKiB == 0 || p.Lanes == 0 {
		p = DefaultParams()
	}
	if maxConcurrent <= 0 {
		maxConcurrent = 4
	}
	return &Hasher{params: p, sem: semaphore.NewWeighted(maxConcurrent)}
}

// Hash generates a fresh random salt and returns the PHC-encoded digest,
// e.g. $argon2id$v=19$m=4096,t=4,p=1$<salt>$<digest>.
func (h *Hasher) Hash(ctx context.Context, plaintext string) (string, error) {
	salt := make([]byte, saltLen)
	if _, err := rand.Read(salt); err != nil {
		return "", domain.Wrap(domain.KindInternal, "salt generation failed", err)
	}
	digest, err := h.derive(ctx, h.params, salt, plaintext, keyLen)
	if err != nil {
		return "", err
	}
	return encode(h.params, salt, digest), nil
}

// Verify recomputes the digest of candidate with the exact parameters parsed
// out of encoded and compares in constant time. A mismatch is (false, nil);
// only a malformed encoding or a computation fault is an error.
func (h *Hasher) Verify(ctx context.Context, encoded, candidate string) (bool, error) {
	p, salt, digest, err := decode(encoded)
	if err != nil {
		return false, err
	}
	got, err := h.derive(ctx, p, salt, candidate, uint32(len(digest)))
	if err != nil {
		return false, err
	}
	return subtle.ConstantTimeCompare(got, digest) == 1, nil
}

func (h *Hasher) derive(ctx context.Context, p Params, salt []byte, plaintext string, n uint32) ([]byte, error) {
	if err := h.sem.Acquire(ctx, 1); err != nil {
		return nil, domain.Wrap(domain.KindInternal, "hash computation aborted", err)
	}
	defer h.sem.Release(1)
	return argon2.IDKey([]byte(plaintext), salt, p.TimeCost, p.MemoryKiB, p.Lanes, n), nil
}

func encode(p Params, salt, digest []byte) string {
	return fmt.Sprintf("$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version, p.MemoryKiB, p.TimeCost, p.Lanes,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(digest))
}

func decode(encoded string) (Params, []byte, []byte, error) {
	malformed := func(err error) (Params, []byte, []byte, error) {
		return Params{}, nil, nil, domain.Wrap(domain.KindInternal, "malformed password hash", err)
	}

	parts := strings.Split(encoded, "$")
	if len(parts) != 6 || parts[0] != "" || parts[1] != "argon2id" {
		return malformed(nil)
	}

	var version int
	if _, err := fmt.Sscanf(parts[2], "v=%d", &version); err != nil {
		return malformed(err)
	}
	if version != argon2.Version {
		return malformed(fmt.Errorf("unsupported argon2 version %d", version))
	}

	var p Params
	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &p.MemoryKiB, &p.TimeCost, &p.Lanes); err != nil {
		return malformed(err)
	}
	if p.TimeCost == 0 || p.MemoryKiB == 0 || p.Lanes == 0 {
		return malformed(nil)
	}

	salt, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil {
		return malformed(err)
	}
	digest, err := base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil {
		return malformed(err)
	}
	if len(salt) == 0 || len(digest) == 0 {
		return malformed(nil)
	}
	return p, salt, digest, nil
}
