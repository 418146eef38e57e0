package config

// Provider selects the cloud backend.
type Provider string

// Supported providers.
const (
	ProviderAzure  Provider = "azure"
	ProviderHCloud Provider = "hcloud"
)

// Environment variables read by Load.
const (
	EnvProvider      = "VMPROVISION_PROVIDER"
	EnvResourceGroup = "VMPROVISION_RESOURCE_GROUP"
	EnvLocation      = "VMPROVISION_LOCATION"
	EnvVNetName      = "VMPROVISION_VNET_NAME"
	EnvVNetCIDR      = "VMPROVISION_VNET_CIDR"
	EnvSubnetName    = "VMPROVISION_SUBNET_NAME"
	EnvSubnetCIDR    = "VMPROVISION_SUBNET_CIDR"
	EnvNICName       = "VMPROVISION_NIC_NAME"
	EnvVMName        = "VMPROVISION_VM_NAME"
	EnvVMSize        = "VMPROVISION_VM_SIZE"
	EnvImage         = "VMPROVISION_IMAGE"
	EnvAdminUser     = "VMPROVISION_ADMIN_USER"
	EnvSSHPublicKey  = "VMPROVISION_SSH_PUBLIC_KEY"
	EnvMetricsFile   = "VMPROVISION_METRICS_FILE"

	EnvReportBucket = "VMPROVISION_REPORT_BUCKET"
	EnvS3Endpoint   = "VMPROVISION_S3_ENDPOINT"
	EnvS3Region     = "VMPROVISION_S3_REGION"
	EnvS3AccessKey  = "VMPROVISION_S3_ACCESS_KEY"
	EnvS3SecretKey  = "VMPROVISION_S3_SECRET_KEY"

	EnvAzureSubscriptionID = "AZURE_SUBSCRIPTION_ID"
	EnvHCloudToken         = "HCLOUD_TOKEN"
)

// Defaults shared by every provider.
const (
	DefaultResourceGroup = "testRG"
	DefaultVNetName      = "testVnet"
	DefaultVNetCIDR      = "10.0.0.0/16"
	DefaultSubnetName    = "testSubnet"
	DefaultSubnetCIDR    = "10.0.2.0/24"
	DefaultNICName       = "testNIC"
	DefaultIPConfigName  = "internal"
	DefaultVMName        = "testVM"
	DefaultAdminUser     = "adminUser"
	DefaultDiskCaching   = "ReadWrite"
	DefaultStorageType   = "Standard_LRS"
	DefaultS3Region      = "us-east-1"
)

// providerDefaults holds the values that differ per backend.
type providerDefaults struct {
	Location string
	VMSize   string
	Image    string
}

var defaultsByProvider = map[Provider]providerDefaults{
	ProviderAzure: {
		Location: "westus2",
		VMSize:   "Standard_F2",
		Image:    "Canonical:UbuntuServer:16.04-LTS:latest",
	},
	ProviderHCloud: {
		Location: "fsn1",
		VMSize:   "cx22",
		Image:    "ubuntu-24.04",
	},
}
