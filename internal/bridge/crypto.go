package bridge

import (
	"context"
	"crypto/aes"
	"crypto/cipher"
	"crypto/md5"
	"crypto/rand"
	"crypto/sha256"
	"crypto/sha512"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"hash"
	"strings"

	"github.com/google/uuid"
	"github.com/zeebo/blake3"
	"golang.org/x/crypto/scrypt"

	"github.com/ilikebug/oTools/internal/plugin"
)

// scrypt parameters for text encryption
const (
	scryptN      = 1 << 15
	scryptR      = 8
	scryptP      = 1
	scryptKeyLen = 32
	saltLen      = 16
)

var errDecrypt = errors.New("decryption failed")

func (b *Bridge) generateUUID(_ context.Context, _ *Call) plugin.Result {
	return plugin.OK("", map[string]interface{}{"uuid": uuid.NewString()})
}

func newHash(algorithm string) (hash.Hash, error) {
	switch strings.ToLower(algorithm) {
	case "sha256":
		return sha256.New(), nil
	case "sha512":
		return sha512.New(), nil
	case "md5":
		return md5.New(), nil
	case "blake3":
		return blake3.New(), nil
	default:
		return nil, fmt.Errorf("%w: unsupported hash algorithm %s", plugin.ErrInvalidArgument, algorithm)
	}
}

// hashString(algorithm, data)
func (b *Bridge) hashString(_ context.Context, call *Call) plugin.Result {
	algorithm, err := call.String(0)
	if err != nil {
		return fail(err)
	}
	data, err := call.String(1)
	if err != nil {
		return fail(err)
	}
	h, err := newHash(algorithm)
	if err != nil {
		return fail(err)
	}
	h.Write([]byte(data))
	return plugin.OK("", map[string]interface{}{"hash": hex.EncodeToString(h.Sum(nil))})
}

func deriveKey(password string, salt []byte) ([]byte, error) {
	return scrypt.Key([]byte(password), salt, scryptN, scryptR, scryptP, scryptKeyLen)
}

// Encrypt seals text with a key derived from password. The output is
// base64(salt | nonce | ciphertext).
func Encrypt(text, password string) (string, error) {
	salt := make([]byte, saltLen)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("failed to generate salt: %w", err)
	}
	key, err := deriveKey(password, salt)
	if err != nil {
		return "", fmt.Errorf("failed to derive key: %w", err)
	}
	block, err := aes.NewCipher(key)
	if err != nil {
		return "", err
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return "", err
	}
	nonce := make([]byte, gcm.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return "", fmt.Errorf("failed to generate nonce: %w", err)
	}

	out := append(salt, nonce...)
	out = gcm.Seal(out, nonce, []byte(text), nil)
	return base64.StdEncoding.EncodeToString(out), nil
}

// Decrypt opens the output of Encrypt
func Decrypt(encrypted, password string) (string, error) {
	raw, err := base64.StdEncoding.DecodeString(encrypted)
	if err != nil {
		return "", fmt.Errorf("%w: %v", errDecrypt, err)
	}
	if len(raw) < saltLen {
		return "", fmt.Errorf("%w: input too short", errDecrypt)
	}
	key, err := deriveKey(password, raw[:saltLen])
	if err != nil {
		return "", fmt.Errorf("failed to derive key: %w", err)
	}
	block, err := aes.NewCipher(key)
	if err != nil {
		return "", err
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return "", err
	}
	rest := raw[saltLen:]
	if len(rest) < gcm.NonceSize() {
		return "", fmt.Errorf("%w: input too short", errDecrypt)
	}
	plain, err := gcm.Open(nil, rest[:gcm.NonceSize()], rest[gcm.NonceSize():], nil)
	if err != nil {
		return "", fmt.Errorf("%w: wrong password or corrupted data", errDecrypt)
	}
	return string(plain), nil
}

// encryptText(text, password)
func (b *Bridge) encryptText(_ context.Context, call *Call) plugin.Result {
	text, err := call.String(0)
	if err != nil {
		return fail(err)
	}
	password, err := call.String(1)
	if err != nil {
		return fail(err)
	}
	encrypted, err := Encrypt(text, password)
	if err != nil {
		return fail(err)
	}
	return plugin.OK("", map[string]interface{}{"encrypted": encrypted})
}

// decryptText(encrypted, password)
func (b *Bridge) decryptText(_ context.Context, call *Call) plugin.Result {
	encrypted, err := call.String(0)
	if err != nil {
		return fail(err)
	}
	password, err := call.String(1)
	if err != nil {
		return fail(err)
	}
	decrypted, err := Decrypt(encrypted, password)
	if errors.Is(err, errDecrypt) {
		return plugin.Failf(plugin.CodeInvalidArgument, "%v", err)
	}
	if err != nil {
		return fail(err)
	}
	return plugin.OK("", map[string]interface{}{"decrypted": decrypted})
}
