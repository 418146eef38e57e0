package hcloud

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/imamik/vmprovision/internal/cloud"
)

type cloudConfig struct {
	Users           []any `yaml:"users"`
	SSHPasswordAuth bool  `yaml:"ssh_pwauth"`
	DisableRoot     bool  `yaml:"disable_root"`
}

type cloudUser struct {
	Name              string   `yaml:"name"`
	Groups            string   `yaml:"groups,omitempty"`
	Shell             string   `yaml:"shell"`
	Sudo              string   `yaml:"sudo"`
	LockPasswd        bool     `yaml:"lock_passwd"`
	SSHAuthorizedKeys []string `yaml:"ssh_authorized_keys"`
}

// userData renders the cloud-config that creates the admin user with key-only
// login. Hetzner images only know root, so root login is disabled once the
// admin user exists.
func userData(admin cloud.AdminCredential) (string, error) {
	cfg := cloudConfig{
		Users:           []any{"default"},
		SSHPasswordAuth: false,
		DisableRoot:     admin.Username != "root",
	}
	if admin.Username != "root" {
		cfg.Users = append(cfg.Users, cloudUser{
			Name:              admin.Username,
			Groups:            "sudo",
			Shell:             "/bin/bash",
			Sudo:              "ALL=(ALL) NOPASSWD:ALL",
			LockPasswd:        true,
			SSHAuthorizedKeys: []string{admin.SSHPublicKey},
		})
	}

	out, err := yaml.Marshal(cfg)
	if err != nil {
		return "", fmt.Errorf("failed to render cloud-config: %w", err)
	}
	return "#cloud-config\n" + string(out), nil
}
