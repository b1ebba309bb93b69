// Package cryptox implements the reversible field-level encryption applied to
// personally identifiable data (addresses, recipients, bank accounts, customs
// codes) before it reaches the database.
//
// Each value is sealed with AES-GCM under the process-wide key using a fresh
// random nonce, and stored as base64(nonce || ciphertext || tag) in the same
// column that would otherwise hold the plaintext. Encrypting the same value
// twice therefore yields different ciphertexts, while decryption always
// recovers the exact original string.
package cryptox

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"fmt"

	"github.com/oullim/market/internal/common"
)

// Per-entity sets of field names that are routed through the cipher.
// Names not listed here pass through EncryptFields/DecryptFields unchanged.
var (
	DeliveryFields = []string{"address", "detail_address", "recipient", "postal_code"}
	SellerFields   = []string{"bank_name", "account_number", "account_holder"}
	UserFields     = []string{"customs_code"}

	// A bill carries a snapshot of the delivery data, so the same set applies.
	BillFields = DeliveryFields
)

// FieldCipher seals and opens individual string fields. It is safe for
// concurrent use; the AEAD is constructed once at startup from the
// configured key.
type FieldCipher struct {
	aead cipher.AEAD
}

// NewFieldCipher builds a FieldCipher from an AES key. The key must be
// 16, 24, or 32 bytes (AES-128/192/256).
func NewFieldCipher(key []byte) (*FieldCipher, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("field cipher init: %w", err)
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("field cipher init: %w", err)
	}
	return &FieldCipher{aead: aead}, nil
}

// EncryptField seals a single plaintext value. The empty string is a valid
// input and round-trips like any other value.
func (c *FieldCipher) EncryptField(plaintext string) (string, error) {
	nonce := make([]byte, c.aead.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return "", fmt.Errorf("nonce generation: %w", err)
	}
	sealed := c.aead.Seal(nonce, nonce, []byte(plaintext), nil)
	return base64.StdEncoding.EncodeToString(sealed), nil
}

// DecryptField opens a stored value produced by EncryptField. Malformed
// encoding, truncation, or an integrity failure yields an error wrapping
// common.ErrCrypto; corrupted plaintext is never returned.
func (c *FieldCipher) DecryptField(stored string) (string, error) {
	data, err := base64.StdEncoding.DecodeString(stored)
	if err != nil {
		return "", fmt.Errorf("%w: invalid encoding: %v", common.ErrCrypto, err)
	}
	ns := c.aead.NonceSize()
	if len(data) < ns+c.aead.Overhead() {
		return "", fmt.Errorf("%w: ciphertext too short", common.ErrCrypto)
	}
	plaintext, err := c.aead.Open(nil, data[:ns], data[ns:], nil)
	if err != nil {
		return "", fmt.Errorf("%w: %v", common.ErrCrypto, err)
	}
	return string(plaintext), nil
}

// EncryptFields returns a copy of fields in which every name listed in names
// has been encrypted. Fields absent from names are copied through untouched;
// names missing from the map are ignored.
func (c *FieldCipher) EncryptFields(fields map[string]string, names []string) (map[string]string, error) {
	return c.transform(fields, names, c.EncryptField)
}

// DecryptFields is the inverse of EncryptFields. Any failing field aborts the
// whole call: partial plaintext is worse than an error.
func (c *FieldCipher) DecryptFields(fields map[string]string, names []string) (map[string]string, error) {
	return c.transform(fields, names, c.DecryptField)
}

func (c *FieldCipher) transform(fields map[string]string, names []string, fn func(string) (string, error)) (map[string]string, error) {
	out := make(map[string]string, len(fields))
	for k, v := range fields {
		out[k] = v
	}
	for _, name := range names {
		v, ok := fields[name]
		if !ok {
			continue
		}
		t, err := fn(v)
		if err != nil {
			return nil, fmt.Errorf("field %q: %w", name, err)
		}
		out[name] = t
	}
	return out, nil
}
