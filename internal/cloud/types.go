package cloud

import (
	"fmt"
	"strings"
)

// Kind identifies a resource type.
type Kind string

// Resource kinds in creation order.
const (
	KindResourceGroup    Kind = "ResourceGroup"
	KindVirtualNetwork   Kind = "VirtualNetwork"
	KindSubnet           Kind = "Subnet"
	KindNetworkInterface Kind = "NetworkInterface"
	KindVirtualMachine   Kind = "VirtualMachine"
)

// Tag keys applied to every resource created by a workflow run.
const (
	TagManagedBy     = "managed-by"
	TagResourceGroup = "resource-group"
	TagRunID         = "run-id"

	ManagedByValue = "vmprovision"
)

// Handle is a provider-assigned reference to a created resource.
type Handle struct {
	Kind     Kind
	Name     string
	ID       string
	Location string

	// Children holds nested resources created together with the parent,
	// such as the subnets of a virtual network.
	Children []Handle
}

// IsZero reports whether the handle carries no provider identifier.
func (h Handle) IsZero() bool {
	return h.ID == ""
}

// Child returns the nested handle with the given kind and name.
func (h Handle) Child(kind Kind, name string) (Handle, bool) {
	for _, c := range h.Children {
		if c.Kind == kind && c.Name == name {
			return c, true
		}
	}
	return Handle{}, false
}

func (h Handle) String() string {
	return fmt.Sprintf("%s %s", h.Kind, h.ID)
}

// Tags builds the standard tag set for a resource created in group by run.
func Tags(group, runID string) map[string]string {
	tags := map[string]string{
		TagManagedBy:     ManagedByValue,
		TagResourceGroup: group,
	}
	if runID != "" {
		tags[TagRunID] = runID
	}
	return tags
}

// MergeTags combines tag sets; later sets win on conflicting keys.
func MergeTags(sets ...map[string]string) map[string]string {
	out := make(map[string]string)
	for _, set := range sets {
		for k, v := range set {
			out[k] = v
		}
	}
	return out
}

// ResourceGroupSpec describes the root container.
type ResourceGroupSpec struct {
	Name     string
	Location string
	Tags     map[string]string
}

// SubnetSpec describes one subnet of a virtual network.
type SubnetSpec struct {
	Name          string
	AddressPrefix string
}

// VirtualNetworkSpec describes a virtual network and its subnets.
type VirtualNetworkSpec struct {
	Name         string
	Location     string
	AddressSpace []string
	Subnets      []SubnetSpec
	Tags         map[string]string
}

// IPConfiguration attaches a network interface to a subnet.
// SubnetName is the logical reference resolved by the workflow; SubnetID is
// the provider identifier the provider receives.
type IPConfiguration struct {
	Name       string
	SubnetName string
	SubnetID   string
	Primary    bool
}

// NetworkInterfaceSpec describes a network interface.
type NetworkInterfaceSpec struct {
	Name             string
	Location         string
	IPConfigurations []IPConfiguration
	Tags             map[string]string
}

// PrimaryIPConfiguration returns the configuration marked primary.
func (s NetworkInterfaceSpec) PrimaryIPConfiguration() (IPConfiguration, bool) {
	for _, c := range s.IPConfigurations {
		if c.Primary {
			return c, true
		}
	}
	return IPConfiguration{}, false
}

// ImageReference identifies an OS image.
type ImageReference struct {
	Publisher string
	Offer     string
	SKU       string
	Version   string
}

// ParseImageReference parses a "publisher:offer:sku:version" URN. A value
// without colons is taken as a bare image name and stored in SKU, which is
// how providers without a marketplace (Hetzner) name their images.
func ParseImageReference(s string) (ImageReference, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return ImageReference{}, fmt.Errorf("image reference is empty")
	}
	if !strings.Contains(s, ":") {
		return ImageReference{SKU: s}, nil
	}
	parts := strings.Split(s, ":")
	if len(parts) != 4 {
		return ImageReference{}, fmt.Errorf("image reference %q must have the form publisher:offer:sku:version", s)
	}
	for _, p := range parts {
		if p == "" {
			return ImageReference{}, fmt.Errorf("image reference %q has an empty component", s)
		}
	}
	return ImageReference{Publisher: parts[0], Offer: parts[1], SKU: parts[2], Version: parts[3]}, nil
}

// IsMarketplace reports whether all four URN components are set.
func (r ImageReference) IsMarketplace() bool {
	return r.Publisher != "" && r.Offer != "" && r.SKU != "" && r.Version != ""
}

func (r ImageReference) String() string {
	if !r.IsMarketplace() {
		return r.SKU
	}
	return strings.Join([]string{r.Publisher, r.Offer, r.SKU, r.Version}, ":")
}

// CachingType is the host caching mode of a disk.
type CachingType string

// Caching modes.
const (
	CachingNone      CachingType = "None"
	CachingReadOnly  CachingType = "ReadOnly"
	CachingReadWrite CachingType = "ReadWrite"
)

// OSDisk describes the operating system disk, always created from the image.
type OSDisk struct {
	Caching            CachingType
	StorageAccountType string
}

// AdminCredential is the administrator login of a virtual machine.
// Password authentication is always disabled.
type AdminCredential struct {
	Username     string
	SSHPublicKey string
}

// AuthorizedKeysPath is where the public key is installed on the machine.
func (a AdminCredential) AuthorizedKeysPath() string {
	return fmt.Sprintf("/home/%s/.ssh/authorized_keys", a.Username)
}

// VirtualMachineSpec describes a Linux virtual machine.
type VirtualMachineSpec struct {
	Name               string
	Location           string
	Size               string
	NetworkInterfaceID string
	Image              ImageReference
	OSDisk             OSDisk
	Admin              AdminCredential
	Tags               map[string]string
}
