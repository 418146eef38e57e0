package hcloud

import (
	"context"
	"fmt"

	"github.com/hetznercloud/hcloud-go/v2/hcloud"
	"golang.org/x/crypto/ssh"
)

// ensureSSHKey returns the project key with the same fingerprint, or uploads
// publicKey under name. Hetzner rejects duplicate keys, so an existing key is
// reused even when it belongs to no group; only keys created here carry the
// group labels and are removed with the group.
func (p *Provider) ensureSSHKey(ctx context.Context, name, publicKey string, keyLabels map[string]string) (*hcloud.SSHKey, error) {
	pub, _, _, _, err := ssh.ParseAuthorizedKey([]byte(publicKey))
	if err != nil {
		return nil, fmt.Errorf("invalid ssh public key: %w", err)
	}

	existing, _, err := p.client.SSHKey.GetByFingerprint(ctx, ssh.FingerprintLegacyMD5(pub))
	if err != nil {
		return nil, fmt.Errorf("failed to look up ssh key: %w", err)
	}
	if existing != nil {
		return existing, nil
	}

	key, _, err := p.client.SSHKey.Create(ctx, hcloud.SSHKeyCreateOpts{
		Name:      name,
		PublicKey: publicKey,
		Labels:    keyLabels,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create ssh key: %w", err)
	}
	return key, nil
}
