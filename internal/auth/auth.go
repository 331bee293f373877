// Package auth provides Kalshi API authentication using RSA-PSS signatures.
package auth

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
	"os"
	"strings"
	"time"
)

// ErrKeyLoad indicates the signing key material could not be loaded or
// parsed. It is raised at construction time, never on first request.
var ErrKeyLoad = errors.New("load signing key")

// Required auth headers on every API request.
const (
	HeaderKey       = "KALSHI-ACCESS-KEY"
	HeaderTimestamp = "KALSHI-ACCESS-TIMESTAMP"
	HeaderSignature = "KALSHI-ACCESS-SIGNATURE"
)

// Signer produces request signatures for a single API key. Stateless once
// constructed; safe to reuse for the life of the process.
type Signer struct {
	keyID      string
	privateKey *rsa.PrivateKey
}

// New creates a Signer from an API key ID and private key material. The
// material may be a path to a PEM file or the PEM text itself (single-line
// keys with literal \n sequences are accepted). The key is parsed eagerly so
// a bad key fails here rather than on the first signed request.
func New(keyID, keyMaterial string) (*Signer, error) {
	if keyID == "" {
		return nil, fmt.Errorf("%w: API key ID is required", ErrKeyLoad)
	}
	if keyMaterial == "" {
		return nil, fmt.Errorf("%w: private key material is required", ErrKeyLoad)
	}

	privateKey, err := loadPrivateKey(keyMaterial)
	if err != nil {
		return nil, err
	}

	return &Signer{keyID: keyID, privateKey: privateKey}, nil
}

// KeyID returns the API key identifier this signer authenticates as.
func (s *Signer) KeyID() string { return s.keyID }

// Sign produces the base64 RSA-PSS signature over timestampMs + method + path.
// Deterministic inputs; the PSS salt makes the output differ between calls,
// which the upstream verifier accepts.
func (s *Signer) Sign(method, path string, timestampMs int64) (string, error) {
	message := fmt.Sprintf("%d%s%s", timestampMs, method, path)
	hashed := sha256.Sum256([]byte(message))

	sig, err := rsa.SignPSS(rand.Reader, s.privateKey, crypto.SHA256, hashed[:], &rsa.PSSOptions{
		SaltLength: rsa.PSSSaltLengthEqualsHash,
		Hash:       crypto.SHA256,
	})
	if err != nil {
		return "", fmt.Errorf("sign request: %w", err)
	}

	return base64.StdEncoding.EncodeToString(sig), nil
}

// RequestHeaders generates the three auth headers for one request attempt,
// stamped with the current time in epoch milliseconds.
func (s *Signer) RequestHeaders(method, path string) (map[string]string, error) {
	timestampMs := time.Now().UnixMilli()

	signature, err := s.Sign(method, path, timestampMs)
	if err != nil {
		return nil, err
	}

	return map[string]string{
		HeaderKey:       s.keyID,
		HeaderTimestamp: fmt.Sprintf("%d", timestampMs),
		HeaderSignature: signature,
	}, nil
}

// loadPrivateKey parses RSA key material supplied inline or as a file path.
func loadPrivateKey(material string) (*rsa.PrivateKey, error) {
	var data []byte
	if strings.Contains(material, "-----BEGIN") {
		// Inline PEM. Keys pasted into env vars often carry literal \n.
		data = []byte(strings.ReplaceAll(material, `\n`, "\n"))
	} else {
		var err error
		data, err = os.ReadFile(material)
		if err != nil {
			return nil, fmt.Errorf("%w: read key file: %v", ErrKeyLoad, err)
		}
	}

	block, _ := pem.Decode(data)
	if block == nil {
		return nil, fmt.Errorf("%w: no PEM block found", ErrKeyLoad)
	}

	// Try PKCS#8 first (newer format)
	if key, err := x509.ParsePKCS8PrivateKey(block.Bytes); err == nil {
		rsaKey, ok := key.(*rsa.PrivateKey)
		if !ok {
			return nil, fmt.Errorf("%w: key is not an RSA private key", ErrKeyLoad)
		}
		return rsaKey, nil
	}

	// Fall back to PKCS#1 (older format)
	rsaKey, err := x509.ParsePKCS1PrivateKey(block.Bytes)
	if err != nil {
		return nil, fmt.Errorf("%w: parse private key: %v", ErrKeyLoad, err)
	}

	return rsaKey, nil
}
