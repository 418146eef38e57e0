package config

import (
	"fmt"
	"regexp"
	"sort"

	"github.com/imamik/vmprovision/internal/cloud"
	"github.com/imamik/vmprovision/internal/util/keygen"
	"github.com/imamik/vmprovision/internal/util/labels"
)

// validCachingTypes are the accepted OS disk caching modes.
var validCachingTypes = map[string]bool{
	string(cloud.CachingNone):      true,
	string(cloud.CachingReadOnly):  true,
	string(cloud.CachingReadWrite): true,
}

// adminUserPattern matches a POSIX login name.
var adminUserPattern = regexp.MustCompile(`^[a-z_][a-zA-Z0-9_-]{0,31}$`)

// Validate checks the configuration for common errors and returns a detailed error if validation fails.
func (c *Config) Validate() error {
	if _, ok := defaultsByProvider[c.Provider]; !ok {
		return fmt.Errorf("unknown provider %q: must be one of %v", c.Provider, providerNames())
	}
	if c.ResourceGroup == "" {
		return fmt.Errorf("resource group name is required")
	}
	if c.Location == "" {
		return fmt.Errorf("location is required")
	}

	if err := c.validateCredentials(); err != nil {
		return err
	}

	// Network validation
	if err := c.validateNetwork(); err != nil {
		return fmt.Errorf("network validation failed: %w", err)
	}

	// Machine validation
	if err := c.validateMachine(); err != nil {
		return fmt.Errorf("machine validation failed: %w", err)
	}

	if c.Report.Enabled() && (c.Report.AccessKey == "") != (c.Report.SecretKey == "") {
		return fmt.Errorf("report upload needs both %s and %s, or neither", EnvS3AccessKey, EnvS3SecretKey)
	}

	return nil
}

func (c *Config) validateCredentials() error {
	switch c.Provider {
	case ProviderAzure:
		if c.Azure.SubscriptionID == "" {
			return fmt.Errorf("%s is required for provider %s", EnvAzureSubscriptionID, c.Provider)
		}
	case ProviderHCloud:
		if c.HCloud.Token == "" {
			return fmt.Errorf("%s is required for provider %s", EnvHCloudToken, c.Provider)
		}
		// The group name doubles as a label value on hcloud.
		if !labels.IsValidValue(c.ResourceGroup) {
			return fmt.Errorf("resource group name %q is not a valid label value for provider %s", c.ResourceGroup, c.Provider)
		}
	}
	return nil
}

// validateNetwork checks the CIDRs and that the subnet lies inside the
// address space.
func (c *Config) validateNetwork() error {
	if c.Network.Name == "" {
		return fmt.Errorf("virtual network name is required")
	}
	if c.Interface.Name == "" {
		return fmt.Errorf("network interface name is required")
	}
	return c.VirtualNetworkSpec().Validate()
}

func (c *Config) validateMachine() error {
	m := c.Machine
	if m.Name == "" {
		return fmt.Errorf("virtual machine name is required")
	}
	if m.Size == "" {
		return fmt.Errorf("virtual machine size is required")
	}
	if _, err := cloud.ParseImageReference(m.Image); err != nil {
		return err
	}
	if !adminUserPattern.MatchString(m.AdminUser) {
		return fmt.Errorf("invalid admin user %q", m.AdminUser)
	}
	if !validCachingTypes[m.OSDiskCaching] {
		return fmt.Errorf("invalid os disk caching %q: must be one of None, ReadOnly, ReadWrite", m.OSDiskCaching)
	}
	if m.SSHPublicKey != "" {
		if _, err := keygen.ValidateAuthorizedKey(m.SSHPublicKey); err != nil {
			return fmt.Errorf("invalid %s: %w", EnvSSHPublicKey, err)
		}
	}
	return nil
}

func providerNames() []string {
	names := make([]string, 0, len(defaultsByProvider))
	for p := range defaultsByProvider {
		names = append(names, string(p))
	}
	sort.Strings(names)
	return names
}
