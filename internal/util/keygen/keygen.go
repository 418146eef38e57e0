package keygen

import (
	"bytes"
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"fmt"

	"golang.org/x/crypto/ssh"
)

// DefaultBits is the RSA key size used for generated admin keys.
const DefaultBits = 3072

// KeyPair holds an RSA key pair in ready-to-use formats.
type KeyPair struct {
	// PrivateKey is the RSA private key in PEM-encoded PKCS#1 format.
	PrivateKey []byte
	// PublicKey is the public key in OpenSSH authorized_keys format,
	// newline-terminated.
	PublicKey []byte
	// Fingerprint is the SHA256 fingerprint of the public key.
	Fingerprint string
}

// AuthorizedKey returns the public key as a single authorized_keys line with
// the comment appended, without a trailing newline.
func (k *KeyPair) AuthorizedKey(comment string) string {
	line := string(bytes.TrimSpace(k.PublicKey))
	if comment == "" {
		return line
	}
	return line + " " + comment
}

// GenerateRSAKeyPair generates a new RSA key pair with the specified bit size.
func GenerateRSAKeyPair(bits int) (*KeyPair, error) {
	if bits < 2048 {
		return nil, fmt.Errorf("rsa key size %d is below the 2048 bit minimum", bits)
	}

	privateKey, err := rsa.GenerateKey(rand.Reader, bits)
	if err != nil {
		return nil, fmt.Errorf("failed to generate RSA private key: %w", err)
	}

	privateKeyPEM := pem.EncodeToMemory(&pem.Block{
		Type:  "RSA PRIVATE KEY",
		Bytes: x509.MarshalPKCS1PrivateKey(privateKey),
	})

	publicKey, err := ssh.NewPublicKey(&privateKey.PublicKey)
	if err != nil {
		return nil, fmt.Errorf("failed to create SSH public key: %w", err)
	}

	return &KeyPair{
		PrivateKey:  privateKeyPEM,
		PublicKey:   ssh.MarshalAuthorizedKey(publicKey),
		Fingerprint: ssh.FingerprintSHA256(publicKey),
	}, nil
}

// ValidateAuthorizedKey parses a single authorized_keys line and returns the
// key's SHA256 fingerprint.
func ValidateAuthorizedKey(line string) (string, error) {
	publicKey, _, _, rest, err := ssh.ParseAuthorizedKey([]byte(line))
	if err != nil {
		return "", fmt.Errorf("invalid authorized key: %w", err)
	}
	if len(bytes.TrimSpace(rest)) > 0 {
		return "", fmt.Errorf("invalid authorized key: expected a single key")
	}
	return ssh.FingerprintSHA256(publicKey), nil
}
