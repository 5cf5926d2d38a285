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
	argon2Threads uint8  = 2
	argon2KeyLen  uint32 = 32
	argon2SaltLen        = 16
)

// ErrMalformedHash は保存済みハッシュの形式が不正な場合のエラー。
var ErrMalformedHash = errors.New("malformed password hash")

// PasswordHasher はパスワードの一方向ハッシュ化と照合のインターフェース。
type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(password, encoded string) (bool, error)
}

// Argon2Hasher はargon2idによるPasswordHasher実装。
// ハッシュは "$argon2id$v=19$m=<KiB>,t=<回数>,p=<並列度>$<salt>$<hash>" 形式で保存し、
// 照合時は保存されたパラメータを使用するため、コスト変更後も既存ハッシュを検証できる。
type Argon2Hasher struct {
	memoryKiB uint32
	time      uint32
}

// NewArgon2Hasher はArgon2Hasherを生成する。0が渡された場合は既定値を使用する。
func NewArgon2Hasher(memoryKiB, time uint32) *Argon2Hasher {
	if memoryKiB == 0 {
		memoryKiB = 64 * 1024
	}
	if time == 0 {
		time = 1
	}
	return &Argon2Hasher{memoryKiB: memoryKiB, time: time}
}

// Hash はランダムなソルトを生成してパスワードをハッシュ化する。
func (h *Argon2Hasher) Hash(password string) (string, error) {
	salt := make([]byte, argon2SaltLen)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("failed to generate salt: %w", err)
	}

	key := argon2.IDKey([]byte(password), salt, h.time, h.memoryKiB, argon2Threads, argon2KeyLen)

	return fmt.Sprintf("$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version, h.memoryKiB, h.time, argon2Threads,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(key),
	), nil
}

// Verify はパスワードが保存済みハッシュと一致するかを定数時間で比較する。
func (h *Argon2Hasher) Verify(password, encoded string) (bool, error) {
	parts := strings.Split(encoded, "$")
	if len(parts) != 6 || parts[1] != "argon2id" {
		return false, ErrMalformedHash
	}

	var version int
	if _, err := fmt.Sscanf(parts[2], "v=%d", &version); err != nil || version != argon2.Version {
		return false, ErrMalformedHash
	}

	var memory, iterations uint32
	var threads uint8
	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &memory, &iterations, &threads); err != nil {
		return false, ErrMalformedHash
	}

	salt, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil {
		return false, ErrMalformedHash
	}
	want, err := base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil || len(want) == 0 {
		return false, ErrMalformedHash
	}

	got := argon2.IDKey([]byte(password), salt, iterations, memory, threads, uint32(len(want)))
	return subtle.ConstantTimeCompare(got, want) == 1, nil
}

// compile-time interface check
var _ PasswordHasher = (*Argon2Hasher)(nil)
