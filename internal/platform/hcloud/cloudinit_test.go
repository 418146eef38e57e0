package hcloud

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/imamik/vmprovision/internal/cloud"
)

func TestUserData(t *testing.T) {
	t.Parallel()

	out, err := userData(cloud.AdminCredential{Username: "adminUser", SSHPublicKey: "ssh-rsa AAAA adminUser@testVM"})
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(out, "#cloud-config\n"))

	var parsed struct {
		Users           []any `yaml:"users"`
		SSHPasswordAuth bool  `yaml:"ssh_pwauth"`
		DisableRoot     bool  `yaml:"disable_root"`
	}
	require.NoError(t, yaml.Unmarshal([]byte(out), &parsed))

	assert.False(t, parsed.SSHPasswordAuth)
	assert.True(t, parsed.DisableRoot)
	require.Len(t, parsed.Users, 2)
	assert.Equal(t, "default", parsed.Users[0])

	user, ok := parsed.Users[1].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "adminUser", user["name"])
	assert.Equal(t, true, user["lock_passwd"])
	assert.Equal(t, []any{"ssh-rsa AAAA adminUser@testVM"}, user["ssh_authorized_keys"])
}

func TestUserData_Root(t *testing.T) {
	t.Parallel()

	out, err := userData(cloud.AdminCredential{Username: "root", SSHPublicKey: "ssh-rsa AAAA"})
	require.NoError(t, err)
	assert.Contains(t, out, "disable_root: false")
	assert.NotContains(t, out, "ssh_authorized_keys")
}
