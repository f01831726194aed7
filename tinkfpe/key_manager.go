// Package tinkfpe provides Tink integration for Format-Preserving
// Encryption. This file contains the KeyManager implementation that
// registers the FPE primitives with Tink's registry.
package tinkfpe

import (
	"crypto/rand"
	"encoding/binary"
	"fmt"

	"github.com/google/tink/go/core/registry"
	"github.com/google/tink/go/insecurecleartextkeyset"
	"github.com/google/tink/go/keyset"
	"github.com/google/tink/go/proto/tink_go_proto"
	"google.golang.org/protobuf/proto"
)

const (
	// FPEKeyTypeURL is the type URL for FPE keys in Tink's registry.
	FPEKeyTypeURL = "type.googleapis.com/google.crypto.tink.FpeKey"

	symmetricKeyMaterial = tink_go_proto.KeyData_SYMMETRIC
)

// KeyManager implements registry.KeyManager for FPE keys. The managed key
// material is the raw AES key; mode, alphabet and tweak are operation
// parameters supplied to New, not key material.
type KeyManager struct {
	typeURL string
}

// NewKeyManager creates a new FPE key manager.
func NewKeyManager() *KeyManager {
	return &KeyManager{typeURL: FPEKeyTypeURL}
}

// Primitive creates an FPE primitive from the given serialized key, using
// the default parameters (FF1 over the alphanumeric alphabet). Use New for
// parameterized primitives.
func (km *KeyManager) Primitive(serializedKey []byte) (interface{}, error) {
	keyLen := len(serializedKey)
	if keyLen != 16 && keyLen != 24 && keyLen != 32 {
		return nil, fmt.Errorf("invalid key size: %d bytes (must be 16, 24, or 32)", keyLen)
	}
	return newPrimitive(serializedKey, Params{})
}

// DoesSupport returns true if this KeyManager supports the given key type URL.
func (km *KeyManager) DoesSupport(typeURL string) bool {
	return typeURL == km.typeURL
}

// TypeURL returns the type URL of the keys managed by this KeyManager.
func (km *KeyManager) TypeURL() string {
	return km.typeURL
}

// NewKey is unused for FPE keys; key generation goes through NewKeyData so
// the raw key bytes live in a KeyData message rather than a bespoke proto.
func (km *KeyManager) NewKey(serializedKeyTemplate []byte) (proto.Message, error) {
	return nil, fmt.Errorf("fpe key manager: use NewKeyData")
}

// NewKeyData creates a new KeyData from the given key template. The
// template value carries the key size as a single byte.
func (km *KeyManager) NewKeyData(serializedKeyTemplate []byte) (*tink_go_proto.KeyData, error) {
	keySize := 32
	if len(serializedKeyTemplate) > 0 {
		keySize = int(serializedKeyTemplate[0])
		if keySize != 16 && keySize != 24 && keySize != 32 {
			return nil, fmt.Errorf("invalid key size in template: %d bytes (must be 16, 24, or 32)", keySize)
		}
	}

	key := make([]byte, keySize)
	if _, err := rand.Read(key); err != nil {
		return nil, fmt.Errorf("failed to generate random key: %w", err)
	}

	return &tink_go_proto.KeyData{
		TypeUrl:         km.typeURL,
		Value:           key,
		KeyMaterialType: symmetricKeyMaterial,
	}, nil
}

// Verify that KeyManager implements registry.KeyManager
var _ registry.KeyManager = (*KeyManager)(nil)

// KeyTemplate creates a key template for FPE keys. The template generates
// AES-256 keys (32 bytes) by default. For different key sizes, use
// KeyTemplateAES128() or KeyTemplateAES192().
func KeyTemplate() *tink_go_proto.KeyTemplate {
	return KeyTemplateAES256()
}

// KeyTemplateAES128 creates a key template for FPE with AES-128 (16 bytes).
func KeyTemplateAES128() *tink_go_proto.KeyTemplate {
	return &tink_go_proto.KeyTemplate{
		TypeUrl:          FPEKeyTypeURL,
		Value:            []byte{16},
		OutputPrefixType: tink_go_proto.OutputPrefixType_RAW,
	}
}

// KeyTemplateAES192 creates a key template for FPE with AES-192 (24 bytes).
func KeyTemplateAES192() *tink_go_proto.KeyTemplate {
	return &tink_go_proto.KeyTemplate{
		TypeUrl:          FPEKeyTypeURL,
		Value:            []byte{24},
		OutputPrefixType: tink_go_proto.OutputPrefixType_RAW,
	}
}

// KeyTemplateAES256 creates a key template for FPE with AES-256 (32 bytes).
func KeyTemplateAES256() *tink_go_proto.KeyTemplate {
	return &tink_go_proto.KeyTemplate{
		TypeUrl:          FPEKeyTypeURL,
		Value:            []byte{32},
		OutputPrefixType: tink_go_proto.OutputPrefixType_RAW,
	}
}

// NewKeysetHandleFromKey creates a keyset handle from a raw key (e.g. from
// an HSM). The key must be 16, 24, or 32 bytes.
//
// Note: this creates an unencrypted keyset. In production, consider
// encrypting the keyset before storing it using keyset.Write() with an AEAD.
func NewKeysetHandleFromKey(key []byte) (*keyset.Handle, error) {
	keyLen := len(key)
	if keyLen != 16 && keyLen != 24 && keyLen != 32 {
		return nil, fmt.Errorf("invalid key size: %d bytes (must be 16, 24, or 32)", keyLen)
	}

	keyIDBytes := make([]byte, 4)
	if _, err := rand.Read(keyIDBytes); err != nil {
		return nil, fmt.Errorf("failed to generate key ID: %w", err)
	}
	keyID := binary.BigEndian.Uint32(keyIDBytes)

	ks := &tink_go_proto.Keyset{
		PrimaryKeyId: keyID,
		Key: []*tink_go_proto.Keyset_Key{{
			KeyData: &tink_go_proto.KeyData{
				TypeUrl:         FPEKeyTypeURL,
				Value:           key,
				KeyMaterialType: symmetricKeyMaterial,
			},
			KeyId:            keyID,
			Status:           tink_go_proto.KeyStatusType_ENABLED,
			OutputPrefixType: tink_go_proto.OutputPrefixType_RAW,
		}},
	}

	buf := &keyset.MemReaderWriter{Keyset: ks}
	return insecurecleartextkeyset.Read(buf)
}
