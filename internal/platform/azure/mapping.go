package azure

import (
	"fmt"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore/to"
	"github.com/Azure/azure-sdk-for-go/sdk/resourcemanager/compute/armcompute/v4"
	"github.com/Azure/azure-sdk-for-go/sdk/resourcemanager/network/armnetwork/v6"
	"github.com/Azure/azure-sdk-for-go/sdk/resourcemanager/resources/armresources"

	"github.com/imamik/vmprovision/internal/cloud"
)

func toTags(tags map[string]string) map[string]*string {
	if len(tags) == 0 {
		return nil
	}
	out := make(map[string]*string, len(tags))
	for k, v := range tags {
		out[k] = to.Ptr(v)
	}
	return out
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func toResourceGroup(spec cloud.ResourceGroupSpec) armresources.ResourceGroup {
	return armresources.ResourceGroup{
		Location: to.Ptr(spec.Location),
		Tags:     toTags(spec.Tags),
	}
}

func resourceGroupHandle(group armresources.ResourceGroup) cloud.Handle {
	return cloud.Handle{
		Kind:     cloud.KindResourceGroup,
		Name:     deref(group.Name),
		ID:       deref(group.ID),
		Location: deref(group.Location),
	}
}

func toVirtualNetwork(spec cloud.VirtualNetworkSpec) armnetwork.VirtualNetwork {
	subnets := make([]*armnetwork.Subnet, 0, len(spec.Subnets))
	for _, s := range spec.Subnets {
		subnets = append(subnets, &armnetwork.Subnet{
			Name: to.Ptr(s.Name),
			Properties: &armnetwork.SubnetPropertiesFormat{
				AddressPrefix: to.Ptr(s.AddressPrefix),
			},
		})
	}
	return armnetwork.VirtualNetwork{
		Location: to.Ptr(spec.Location),
		Tags:     toTags(spec.Tags),
		Properties: &armnetwork.VirtualNetworkPropertiesFormat{
			AddressSpace: &armnetwork.AddressSpace{
				AddressPrefixes: to.SliceOfPtrs(spec.AddressSpace...),
			},
			Subnets: subnets,
		},
	}
}

func virtualNetworkHandle(vnet armnetwork.VirtualNetwork) cloud.Handle {
	h := cloud.Handle{
		Kind:     cloud.KindVirtualNetwork,
		Name:     deref(vnet.Name),
		ID:       deref(vnet.ID),
		Location: deref(vnet.Location),
	}
	if vnet.Properties == nil {
		return h
	}
	for _, s := range vnet.Properties.Subnets {
		if s == nil {
			continue
		}
		h.Children = append(h.Children, cloud.Handle{
			Kind:     cloud.KindSubnet,
			Name:     deref(s.Name),
			ID:       deref(s.ID),
			Location: h.Location,
		})
	}
	return h
}

func toInterface(spec cloud.NetworkInterfaceSpec) armnetwork.Interface {
	configs := make([]*armnetwork.InterfaceIPConfiguration, 0, len(spec.IPConfigurations))
	for _, c := range spec.IPConfigurations {
		configs = append(configs, &armnetwork.InterfaceIPConfiguration{
			Name: to.Ptr(c.Name),
			Properties: &armnetwork.InterfaceIPConfigurationPropertiesFormat{
				Subnet:                    &armnetwork.Subnet{ID: to.Ptr(c.SubnetID)},
				Primary:                   to.Ptr(c.Primary),
				PrivateIPAllocationMethod: to.Ptr(armnetwork.IPAllocationMethodDynamic),
			},
		})
	}
	return armnetwork.Interface{
		Location: to.Ptr(spec.Location),
		Tags:     toTags(spec.Tags),
		Properties: &armnetwork.InterfacePropertiesFormat{
			IPConfigurations: configs,
		},
	}
}

func interfaceHandle(nic armnetwork.Interface) cloud.Handle {
	return cloud.Handle{
		Kind:     cloud.KindNetworkInterface,
		Name:     deref(nic.Name),
		ID:       deref(nic.ID),
		Location: deref(nic.Location),
	}
}

var cachingTypes = map[cloud.CachingType]armcompute.CachingTypes{
	cloud.CachingNone:      armcompute.CachingTypesNone,
	cloud.CachingReadOnly:  armcompute.CachingTypesReadOnly,
	cloud.CachingReadWrite: armcompute.CachingTypesReadWrite,
}

func toVirtualMachine(spec cloud.VirtualMachineSpec) (armcompute.VirtualMachine, error) {
	if !spec.Image.IsMarketplace() {
		return armcompute.VirtualMachine{}, fmt.Errorf("virtual machine %s: image %q is not a publisher:offer:sku:version reference", spec.Name, spec.Image)
	}
	caching, ok := cachingTypes[spec.OSDisk.Caching]
	if !ok {
		caching = armcompute.CachingTypesReadWrite
	}
	storageType := armcompute.StorageAccountTypesStandardLRS
	if spec.OSDisk.StorageAccountType != "" {
		storageType = armcompute.StorageAccountTypes(spec.OSDisk.StorageAccountType)
	}

	return armcompute.VirtualMachine{
		Location: to.Ptr(spec.Location),
		Tags:     toTags(spec.Tags),
		Properties: &armcompute.VirtualMachineProperties{
			HardwareProfile: &armcompute.HardwareProfile{
				VMSize: to.Ptr(armcompute.VirtualMachineSizeTypes(spec.Size)),
			},
			OSProfile: &armcompute.OSProfile{
				ComputerName:  to.Ptr(spec.Name),
				AdminUsername: to.Ptr(spec.Admin.Username),
				LinuxConfiguration: &armcompute.LinuxConfiguration{
					DisablePasswordAuthentication: to.Ptr(true),
					SSH: &armcompute.SSHConfiguration{
						PublicKeys: []*armcompute.SSHPublicKey{
							{
								Path:    to.Ptr(spec.Admin.AuthorizedKeysPath()),
								KeyData: to.Ptr(spec.Admin.SSHPublicKey),
							},
						},
					},
				},
			},
			NetworkProfile: &armcompute.NetworkProfile{
				NetworkInterfaces: []*armcompute.NetworkInterfaceReference{
					{
						ID: to.Ptr(spec.NetworkInterfaceID),
						Properties: &armcompute.NetworkInterfaceReferenceProperties{
							Primary: to.Ptr(true),
						},
					},
				},
			},
			StorageProfile: &armcompute.StorageProfile{
				ImageReference: &armcompute.ImageReference{
					Publisher: to.Ptr(spec.Image.Publisher),
					Offer:     to.Ptr(spec.Image.Offer),
					SKU:       to.Ptr(spec.Image.SKU),
					Version:   to.Ptr(spec.Image.Version),
				},
				OSDisk: &armcompute.OSDisk{
					CreateOption: to.Ptr(armcompute.DiskCreateOptionTypesFromImage),
					OSType:       to.Ptr(armcompute.OperatingSystemTypesLinux),
					Caching:      to.Ptr(caching),
					ManagedDisk: &armcompute.ManagedDiskParameters{
						StorageAccountType: to.Ptr(storageType),
					},
				},
			},
		},
	}, nil
}

func virtualMachineHandle(vm armcompute.VirtualMachine) cloud.Handle {
	return cloud.Handle{
		Kind:     cloud.KindVirtualMachine,
		Name:     deref(vm.Name),
		ID:       deref(vm.ID),
		Location: deref(vm.Location),
	}
}
