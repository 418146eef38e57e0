package azure

import (
	"context"
	"fmt"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/arm"
	"github.com/Azure/azure-sdk-for-go/sdk/azidentity"

	"github.com/imamik/vmprovision/internal/cloud"
)

// Provider implements cloud.Provider against Azure Resource Manager.
type Provider struct {
	groups resourceGroupsAPI
	vnets  virtualNetworksAPI
	nics   interfacesAPI
	vms    virtualMachinesAPI
}

var _ cloud.Provider = (*Provider)(nil)

// NewProvider creates a provider for subscriptionID using cred.
func NewProvider(subscriptionID string, cred azcore.TokenCredential, opts *arm.ClientOptions) (*Provider, error) {
	if subscriptionID == "" {
		return nil, fmt.Errorf("azure subscription id is required")
	}
	clients, err := newSDKClients(subscriptionID, cred, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to create azure clients: %w", err)
	}
	return &Provider{
		groups: sdkResourceGroups{clients},
		vnets:  sdkVirtualNetworks{clients},
		nics:   sdkInterfaces{clients},
		vms:    sdkVirtualMachines{clients},
	}, nil
}

// NewProviderFromEnvironment authenticates with the default Azure credential
// chain (environment, workload identity, managed identity, Azure CLI).
func NewProviderFromEnvironment(subscriptionID string) (*Provider, error) {
	cred, err := azidentity.NewDefaultAzureCredential(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to obtain azure credential: %w", err)
	}
	return NewProvider(subscriptionID, cred, nil)
}

// Name implements cloud.Provider.
func (p *Provider) Name() string { return "azure" }

// CreateOrUpdateResourceGroup implements cloud.Provider.
func (p *Provider) CreateOrUpdateResourceGroup(ctx context.Context, spec cloud.ResourceGroupSpec) (cloud.Handle, error) {
	if err := spec.Validate(); err != nil {
		return cloud.Handle{}, err
	}
	group, err := p.groups.CreateOrUpdate(ctx, spec.Name, toResourceGroup(spec))
	if err != nil {
		return cloud.Handle{}, wrap(err, "create resource group %s", spec.Name)
	}
	return withName(resourceGroupHandle(group), spec.Name), nil
}

// GetResourceGroup implements cloud.Provider.
func (p *Provider) GetResourceGroup(ctx context.Context, name string) (cloud.Handle, error) {
	group, err := p.groups.Get(ctx, name)
	if err != nil {
		return cloud.Handle{}, wrap(err, "get resource group %s", name)
	}
	return withName(resourceGroupHandle(group), name), nil
}

// DeleteResourceGroup implements cloud.Provider. ARM deletes every resource
// in the group before the operation completes.
func (p *Provider) DeleteResourceGroup(ctx context.Context, name string) error {
	return wrap(p.groups.Delete(ctx, name), "delete resource group %s", name)
}

// CreateOrUpdateVirtualNetwork implements cloud.Provider.
func (p *Provider) CreateOrUpdateVirtualNetwork(ctx context.Context, group string, spec cloud.VirtualNetworkSpec) (cloud.Handle, error) {
	if err := spec.Validate(); err != nil {
		return cloud.Handle{}, err
	}
	vnet, err := p.vnets.CreateOrUpdate(ctx, group, spec.Name, toVirtualNetwork(spec))
	if err != nil {
		return cloud.Handle{}, wrap(err, "create virtual network %s in %s", spec.Name, group)
	}
	return withName(virtualNetworkHandle(vnet), spec.Name), nil
}

// CreateOrUpdateNetworkInterface implements cloud.Provider.
func (p *Provider) CreateOrUpdateNetworkInterface(ctx context.Context, group string, spec cloud.NetworkInterfaceSpec) (cloud.Handle, error) {
	if err := spec.Validate(); err != nil {
		return cloud.Handle{}, err
	}
	nic, err := p.nics.CreateOrUpdate(ctx, group, spec.Name, toInterface(spec))
	if err != nil {
		return cloud.Handle{}, wrap(err, "create network interface %s in %s", spec.Name, group)
	}
	return withName(interfaceHandle(nic), spec.Name), nil
}

// CreateOrUpdateVirtualMachine implements cloud.Provider.
func (p *Provider) CreateOrUpdateVirtualMachine(ctx context.Context, group string, spec cloud.VirtualMachineSpec) (cloud.Handle, error) {
	if err := spec.Validate(); err != nil {
		return cloud.Handle{}, err
	}
	params, err := toVirtualMachine(spec)
	if err != nil {
		return cloud.Handle{}, err
	}
	vm, err := p.vms.CreateOrUpdate(ctx, group, spec.Name, params)
	if err != nil {
		return cloud.Handle{}, wrap(err, "create virtual machine %s in %s", spec.Name, group)
	}
	return withName(virtualMachineHandle(vm), spec.Name), nil
}

func withName(h cloud.Handle, name string) cloud.Handle {
	if h.Name == "" {
		h.Name = name
	}
	return h
}
