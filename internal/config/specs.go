package config

import "github.com/imamik/vmprovision/internal/cloud"

// ResourceGroupSpec returns the resource group to create.
func (c *Config) ResourceGroupSpec() cloud.ResourceGroupSpec {
	return cloud.ResourceGroupSpec{
		Name:     c.ResourceGroup,
		Location: c.Location,
	}
}

// VirtualNetworkSpec returns the virtual network with its single subnet.
func (c *Config) VirtualNetworkSpec() cloud.VirtualNetworkSpec {
	return cloud.VirtualNetworkSpec{
		Name:         c.Network.Name,
		Location:     c.Location,
		AddressSpace: []string{c.Network.AddressSpace},
		Subnets: []cloud.SubnetSpec{
			{Name: c.Network.SubnetName, AddressPrefix: c.Network.SubnetPrefix},
		},
	}
}

// NetworkInterfaceSpec returns the network interface with one primary ip
// configuration on the subnet. The subnet id is resolved during the run.
func (c *Config) NetworkInterfaceSpec() cloud.NetworkInterfaceSpec {
	return cloud.NetworkInterfaceSpec{
		Name:     c.Interface.Name,
		Location: c.Location,
		IPConfigurations: []cloud.IPConfiguration{
			{
				Name:       c.Interface.IPConfigName,
				SubnetName: c.Network.SubnetName,
				Primary:    true,
			},
		},
	}
}

// VirtualMachineSpec returns the virtual machine. The network interface id is
// resolved during the run; sshPublicKey overrides the configured key when
// set.
func (c *Config) VirtualMachineSpec(sshPublicKey string) (cloud.VirtualMachineSpec, error) {
	image, err := cloud.ParseImageReference(c.Machine.Image)
	if err != nil {
		return cloud.VirtualMachineSpec{}, err
	}
	if sshPublicKey == "" {
		sshPublicKey = c.Machine.SSHPublicKey
	}
	return cloud.VirtualMachineSpec{
		Name:     c.Machine.Name,
		Location: c.Location,
		Size:     c.Machine.Size,
		Image:    image,
		OSDisk: cloud.OSDisk{
			Caching:            cloud.CachingType(c.Machine.OSDiskCaching),
			StorageAccountType: c.Machine.OSDiskStorageType,
		},
		Admin: cloud.AdminCredential{
			Username:     c.Machine.AdminUser,
			SSHPublicKey: sshPublicKey,
		},
	}, nil
}
