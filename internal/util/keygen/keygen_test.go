package keygen

import (
	"bytes"
	"crypto/x509"
	"encoding/pem"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/ssh"
)

func TestGenerateRSAKeyPair(t *testing.T) {
	t.Parallel()
	keyPair, err := GenerateRSAKeyPair(2048)
	require.NoError(t, err)

	block, rest := pem.Decode(keyPair.PrivateKey)
	require.NotNil(t, block)
	assert.Empty(t, bytes.TrimSpace(rest))
	assert.Equal(t, "RSA PRIVATE KEY", block.Type)

	privateKey, err := x509.ParsePKCS1PrivateKey(block.Bytes)
	require.NoError(t, err)

	pubStr := string(keyPair.PublicKey)
	assert.True(t, strings.HasPrefix(pubStr, "ssh-rsa "))
	assert.True(t, strings.HasSuffix(pubStr, "\n"))

	parsed, _, _, _, err := ssh.ParseAuthorizedKey(keyPair.PublicKey)
	require.NoError(t, err)
	expected, err := ssh.NewPublicKey(&privateKey.PublicKey)
	require.NoError(t, err)
	assert.Equal(t, expected.Marshal(), parsed.Marshal(), "public key must match private key")

	assert.True(t, strings.HasPrefix(keyPair.Fingerprint, "SHA256:"))
}

func TestGenerateRSAKeyPair_TooSmall(t *testing.T) {
	t.Parallel()
	for _, bits := range []int{-1, 0, 1024} {
		_, err := GenerateRSAKeyPair(bits)
		require.Error(t, err, "bits=%d", bits)
		assert.Contains(t, err.Error(), "below the 2048 bit minimum")
	}
}

func TestGenerateRSAKeyPair_Uniqueness(t *testing.T) {
	t.Parallel()
	a, err := GenerateRSAKeyPair(2048)
	require.NoError(t, err)
	b, err := GenerateRSAKeyPair(2048)
	require.NoError(t, err)

	assert.NotEqual(t, a.PrivateKey, b.PrivateKey)
	assert.NotEqual(t, a.Fingerprint, b.Fingerprint)
}

func TestKeyPair_AuthorizedKey(t *testing.T) {
	t.Parallel()
	keyPair, err := GenerateRSAKeyPair(2048)
	require.NoError(t, err)

	line := keyPair.AuthorizedKey("adminUser@testVM")
	assert.NotContains(t, line, "\n")
	assert.True(t, strings.HasSuffix(line, " adminUser@testVM"))

	fingerprint, err := ValidateAuthorizedKey(line)
	require.NoError(t, err)
	assert.Equal(t, keyPair.Fingerprint, fingerprint)

	assert.Equal(t, strings.TrimSpace(string(keyPair.PublicKey)), keyPair.AuthorizedKey(""))
}

func TestValidateAuthorizedKey_Invalid(t *testing.T) {
	t.Parallel()
	keyPair, err := GenerateRSAKeyPair(2048)
	require.NoError(t, err)

	tests := []struct {
		name string
		line string
	}{
		{"empty", ""},
		{"garbage", "not a key"},
		{"truncated", "ssh-rsa AAAAB3NzaC1yc2EAAAADAQAB"},
		{"two keys", keyPair.AuthorizedKey("") + "\n" + keyPair.AuthorizedKey("")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := ValidateAuthorizedKey(tt.line)
			require.Error(t, err)
			assert.Contains(t, err.Error(), "invalid authorized key")
		})
	}
}
