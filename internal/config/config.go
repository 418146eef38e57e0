package config

import (
	"os"
	"strings"
)

// Config is the complete description of one provisioning run.
type Config struct {
	Provider      Provider
	ResourceGroup string
	Location      string

	Network   NetworkConfig
	Interface InterfaceConfig
	Machine   MachineConfig

	Azure  AzureConfig
	HCloud HCloudConfig
	Report ReportConfig

	// MetricsFile receives run metrics in the Prometheus text format when set.
	MetricsFile string

	Timeouts *Timeouts
}

// NetworkConfig describes the virtual network and its single subnet.
type NetworkConfig struct {
	Name         string
	AddressSpace string
	SubnetName   string
	SubnetPrefix string
}

// InterfaceConfig describes the network interface.
type InterfaceConfig struct {
	Name         string
	IPConfigName string
}

// MachineConfig describes the virtual machine.
type MachineConfig struct {
	Name      string
	Size      string
	Image     string
	AdminUser string

	// SSHPublicKey is an authorized_keys line. When empty a key pair is
	// generated for the run.
	SSHPublicKey string

	OSDiskCaching     string
	OSDiskStorageType string
}

// AzureConfig holds Azure account settings. Credentials come from the
// default Azure credential chain.
type AzureConfig struct {
	SubscriptionID string
}

// HCloudConfig holds Hetzner Cloud settings.
type HCloudConfig struct {
	Token string
}

// ReportConfig controls the upload of the run report to S3-compatible
// storage. Upload is disabled when Bucket is empty.
type ReportConfig struct {
	Bucket    string
	Endpoint  string
	Region    string
	AccessKey string
	SecretKey string
}

// Enabled reports whether the report should be uploaded.
func (r ReportConfig) Enabled() bool {
	return r.Bucket != ""
}

// FromEnv builds a Config from the environment and applies defaults. It does
// not validate; use Load for that.
func FromEnv() *Config {
	cfg := &Config{
		Provider:      Provider(strings.ToLower(os.Getenv(EnvProvider))),
		ResourceGroup: os.Getenv(EnvResourceGroup),
		Location:      os.Getenv(EnvLocation),
		Network: NetworkConfig{
			Name:         os.Getenv(EnvVNetName),
			AddressSpace: os.Getenv(EnvVNetCIDR),
			SubnetName:   os.Getenv(EnvSubnetName),
			SubnetPrefix: os.Getenv(EnvSubnetCIDR),
		},
		Interface: InterfaceConfig{
			Name: os.Getenv(EnvNICName),
		},
		Machine: MachineConfig{
			Name:         os.Getenv(EnvVMName),
			Size:         os.Getenv(EnvVMSize),
			Image:        os.Getenv(EnvImage),
			AdminUser:    os.Getenv(EnvAdminUser),
			SSHPublicKey: strings.TrimSpace(os.Getenv(EnvSSHPublicKey)),
		},
		Azure: AzureConfig{
			SubscriptionID: os.Getenv(EnvAzureSubscriptionID),
		},
		HCloud: HCloudConfig{
			Token: os.Getenv(EnvHCloudToken),
		},
		Report: ReportConfig{
			Bucket:    os.Getenv(EnvReportBucket),
			Endpoint:  os.Getenv(EnvS3Endpoint),
			Region:    os.Getenv(EnvS3Region),
			AccessKey: os.Getenv(EnvS3AccessKey),
			SecretKey: os.Getenv(EnvS3SecretKey),
		},
		MetricsFile: os.Getenv(EnvMetricsFile),
		Timeouts:    LoadTimeouts(),
	}
	cfg.ApplyDefaults()
	return cfg
}

// Load reads the configuration from the environment and validates it.
func Load() (*Config, error) {
	cfg := FromEnv()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ApplyDefaults fills every empty field with its default.
func (c *Config) ApplyDefaults() {
	if c.Provider == "" {
		c.Provider = ProviderAzure
	}
	pd := defaultsByProvider[c.Provider]

	setDefault(&c.ResourceGroup, DefaultResourceGroup)
	setDefault(&c.Location, pd.Location)

	setDefault(&c.Network.Name, DefaultVNetName)
	setDefault(&c.Network.AddressSpace, DefaultVNetCIDR)
	setDefault(&c.Network.SubnetName, DefaultSubnetName)
	setDefault(&c.Network.SubnetPrefix, DefaultSubnetCIDR)

	setDefault(&c.Interface.Name, DefaultNICName)
	setDefault(&c.Interface.IPConfigName, DefaultIPConfigName)

	setDefault(&c.Machine.Name, DefaultVMName)
	setDefault(&c.Machine.Size, pd.VMSize)
	setDefault(&c.Machine.Image, pd.Image)
	setDefault(&c.Machine.AdminUser, DefaultAdminUser)
	setDefault(&c.Machine.OSDiskCaching, DefaultDiskCaching)
	setDefault(&c.Machine.OSDiskStorageType, DefaultStorageType)

	if c.Report.Enabled() {
		setDefault(&c.Report.Region, DefaultS3Region)
	}
	if c.Timeouts == nil {
		c.Timeouts = LoadTimeouts()
	}
}

func setDefault(field *string, value string) {
	if *field == "" {
		*field = value
	}
}
