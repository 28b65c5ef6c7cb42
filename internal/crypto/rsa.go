// Copyright 2025 Certen Protocol
//
// RSA-2048/SHA-256 signing for identities: key generation, PEM encoding
// and parsing, and signing and verification of canonical payloads.

package crypto

import (
	"crypto"
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha256"
	"crypto/x509"
	"encoding/base64"
	"encoding/pem"
	"errors"
	"fmt"
)

// PrivateKey wraps an RSA-2048 private key used to sign canonical payloads.
type PrivateKey struct {
	key *rsa.PrivateKey
}

// PublicKey wraps an RSA-2048 public key used to verify signatures.
type PublicKey struct {
	key *rsa.PublicKey
}

// Signature is a base64-armored RSA-SHA256 signature.
type Signature string

// GenerateKey creates a new RSA-2048 private key, the fixed key size this
// module mandates for every identity (spec §1).
func GenerateKey() (*PrivateKey, error) {
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		return nil, fmt.Errorf("generate RSA-2048 key: %w", err)
	}
	return &PrivateKey{key: key}, nil
}

// PrivateKeyPEM renders the private key as a PKCS#1 PEM block, for
// writing an identity's key material to disk.
func (sk *PrivateKey) PrivateKeyPEM() []byte {
	der := x509.MarshalPKCS1PrivateKey(sk.key)
	return pem.EncodeToMemory(&pem.Block{Type: "RSA PRIVATE KEY", Bytes: der})
}

// PrivateKeyFromPEM parses a PKCS#1 or PKCS#8 RSA private key from PEM bytes.
func PrivateKeyFromPEM(data []byte) (*PrivateKey, error) {
	block, _ := pem.Decode(data)
	if block == nil {
		return nil, errors.New("no PEM block found in private key data")
	}
	if key, err := x509.ParsePKCS1PrivateKey(block.Bytes); err == nil {
		return &PrivateKey{key: key}, nil
	}
	parsed, err := x509.ParsePKCS8PrivateKey(block.Bytes)
	if err != nil {
		return nil, fmt.Errorf("parse private key: %w", err)
	}
	rsaKey, ok := parsed.(*rsa.PrivateKey)
	if !ok {
		return nil, errors.New("PEM block does not contain an RSA private key")
	}
	return &PrivateKey{key: rsaKey}, nil
}

// PublicKeyFromPEM parses a PKIX RSA public key from PEM bytes.
func PublicKeyFromPEM(data []byte) (*PublicKey, error) {
	block, _ := pem.Decode(data)
	if block == nil {
		return nil, errors.New("no PEM block found in public key data")
	}
	parsed, err := x509.ParsePKIXPublicKey(block.Bytes)
	if err != nil {
		return nil, fmt.Errorf("parse public key: %w", err)
	}
	rsaKey, ok := parsed.(*rsa.PublicKey)
	if !ok {
		return nil, errors.New("PEM block does not contain an RSA public key")
	}
	return &PublicKey{key: rsaKey}, nil
}

// PublicKey derives the public half of this private key.
func (sk *PrivateKey) PublicKey() *PublicKey {
	return &PublicKey{key: &sk.key.PublicKey}
}

// PublicKeyPEM renders the public key as a PKIX PEM block, the form
// identities carry in MSP network configuration.
func (pk *PublicKey) PublicKeyPEM() ([]byte, error) {
	der, err := x509.MarshalPKIXPublicKey(pk.key)
	if err != nil {
		return nil, fmt.Errorf("marshal public key: %w", err)
	}
	return pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: der}), nil
}

// Sign signs the SHA-256 digest of data and returns a base64-armored
// signature, per spec: RSA-2048 signatures with SHA-256, base64-armored.
func (sk *PrivateKey) Sign(data []byte) (Signature, error) {
	digest := sha256.Sum256(data)
	raw, err := rsa.SignPKCS1v15(rand.Reader, sk.key, crypto.SHA256, digest[:])
	if err != nil {
		return "", fmt.Errorf("sign: %w", err)
	}
	return Signature(base64.StdEncoding.EncodeToString(raw)), nil
}

// Verify checks sig against the SHA-256 digest of data.
func (pk *PublicKey) Verify(data []byte, sig Signature) bool {
	raw, err := base64.StdEncoding.DecodeString(string(sig))
	if err != nil {
		return false
	}
	digest := sha256.Sum256(data)
	return rsa.VerifyPKCS1v15(pk.key, crypto.SHA256, digest[:], raw) == nil
}

// Equal reports whether two public keys represent the same RSA key.
func (pk *PublicKey) Equal(other *PublicKey) bool {
	if pk == nil || other == nil {
		return pk == other
	}
	return pk.key.Equal(other.key)
}
