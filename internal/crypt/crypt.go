// Package crypt encrypts the workbook file with a password-derived Fernet key.
// Tokens are compatible with the Python cryptography package.
package crypt

import (
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/fernet/fernet-go"
	"golang.org/x/crypto/pbkdf2"
)

// Key derivation parameters. The salt is empty: one user, one password.
const (
	Iterations = 100000
	KeyLength  = 32
)

// ErrInvalidPassword is returned when a token does not verify under the key.
var ErrInvalidPassword = errors.New("invalid password or corrupt file")

// DeriveKey returns the URL-safe base64 PBKDF2-HMAC-SHA256 key for password.
func DeriveKey(password string) string {
	raw := pbkdf2.Key([]byte(password), nil, Iterations, KeyLength, sha256.New)
	return base64.URLEncoding.EncodeToString(raw)
}

func fernetKey(password string) (*fernet.Key, error) {
	k, err := fernet.DecodeKey(DeriveKey(password))
	if err != nil {
		return nil, fmt.Errorf("decoding key: %w", err)
	}
	return k, nil
}

// Encrypt returns a Fernet token for plaintext.
func Encrypt(plaintext []byte, password string) ([]byte, error) {
	k, err := fernetKey(password)
	if err != nil {
		return nil, err
	}
	tok, err := fernet.EncryptAndSign(plaintext, k)
	if err != nil {
		return nil, fmt.Errorf("encrypting: %w", err)
	}
	return tok, nil
}

// Decrypt verifies and decrypts token. Tokens never expire.
func Decrypt(token []byte, password string) ([]byte, error) {
	k, err := fernetKey(password)
	if err != nil {
		return nil, err
	}
	msg := fernet.VerifyAndDecrypt(token, -1, []*fernet.Key{k})
	if msg == nil {
		return nil, ErrInvalidPassword
	}
	return msg, nil
}

// EncryptFile encrypts src into dst.
func EncryptFile(src, dst, password string) error {
	data, err := os.ReadFile(src)
	if err != nil {
		return fmt.Errorf("reading %s: %w", src, err)
	}
	tok, err := Encrypt(data, password)
	if err != nil {
		return err
	}
	return writeAtomic(dst, tok)
}

// DecryptFile decrypts src into dst. dst is untouched when the password is wrong.
func DecryptFile(src, dst, password string) error {
	tok, err := os.ReadFile(src)
	if err != nil {
		return fmt.Errorf("reading %s: %w", src, err)
	}
	data, err := Decrypt(tok, password)
	if err != nil {
		return fmt.Errorf("decrypting %s: %w", src, err)
	}
	return writeAtomic(dst, data)
}

func writeAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".tmp*")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("writing %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("replacing %s: %w", path, err)
	}
	return nil
}
