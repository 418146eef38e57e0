package azure

import (
	"context"
	"time"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/arm"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/runtime"
	"github.com/Azure/azure-sdk-for-go/sdk/resourcemanager/compute/armcompute/v4"
	"github.com/Azure/azure-sdk-for-go/sdk/resourcemanager/network/armnetwork/v6"
	"github.com/Azure/azure-sdk-for-go/sdk/resourcemanager/resources/armresources"
)

// defaultPollFrequency is how often long-running operations are polled.
const defaultPollFrequency = 5 * time.Second

type resourceGroupsAPI interface {
	CreateOrUpdate(ctx context.Context, name string, group armresources.ResourceGroup) (armresources.ResourceGroup, error)
	Get(ctx context.Context, name string) (armresources.ResourceGroup, error)
	Delete(ctx context.Context, name string) error
}

type virtualNetworksAPI interface {
	CreateOrUpdate(ctx context.Context, group, name string, vnet armnetwork.VirtualNetwork) (armnetwork.VirtualNetwork, error)
}

type interfacesAPI interface {
	CreateOrUpdate(ctx context.Context, group, name string, nic armnetwork.Interface) (armnetwork.Interface, error)
}

type virtualMachinesAPI interface {
	CreateOrUpdate(ctx context.Context, group, name string, vm armcompute.VirtualMachine) (armcompute.VirtualMachine, error)
}

type sdkClients struct {
	groups *armresources.ResourceGroupsClient
	vnets  *armnetwork.VirtualNetworksClient
	nics   *armnetwork.InterfacesClient
	vms    *armcompute.VirtualMachinesClient
	poll   *runtime.PollUntilDoneOptions
}

func newSDKClients(subscriptionID string, cred azcore.TokenCredential, opts *arm.ClientOptions) (*sdkClients, error) {
	groups, err := armresources.NewResourceGroupsClient(subscriptionID, cred, opts)
	if err != nil {
		return nil, err
	}
	networkFactory, err := armnetwork.NewClientFactory(subscriptionID, cred, opts)
	if err != nil {
		return nil, err
	}
	vms, err := armcompute.NewVirtualMachinesClient(subscriptionID, cred, opts)
	if err != nil {
		return nil, err
	}
	return &sdkClients{
		groups: groups,
		vnets:  networkFactory.NewVirtualNetworksClient(),
		nics:   networkFactory.NewInterfacesClient(),
		vms:    vms,
		poll:   &runtime.PollUntilDoneOptions{Frequency: defaultPollFrequency},
	}, nil
}

type sdkResourceGroups struct{ c *sdkClients }

func (s sdkResourceGroups) CreateOrUpdate(ctx context.Context, name string, group armresources.ResourceGroup) (armresources.ResourceGroup, error) {
	resp, err := s.c.groups.CreateOrUpdate(ctx, name, group, nil)
	if err != nil {
		return armresources.ResourceGroup{}, err
	}
	return resp.ResourceGroup, nil
}

func (s sdkResourceGroups) Get(ctx context.Context, name string) (armresources.ResourceGroup, error) {
	resp, err := s.c.groups.Get(ctx, name, nil)
	if err != nil {
		return armresources.ResourceGroup{}, err
	}
	return resp.ResourceGroup, nil
}

func (s sdkResourceGroups) Delete(ctx context.Context, name string) error {
	poller, err := s.c.groups.BeginDelete(ctx, name, nil)
	if err != nil {
		return err
	}
	_, err = poller.PollUntilDone(ctx, s.c.poll)
	return err
}

type sdkVirtualNetworks struct{ c *sdkClients }

func (s sdkVirtualNetworks) CreateOrUpdate(ctx context.Context, group, name string, vnet armnetwork.VirtualNetwork) (armnetwork.VirtualNetwork, error) {
	poller, err := s.c.vnets.BeginCreateOrUpdate(ctx, group, name, vnet, nil)
	if err != nil {
		return armnetwork.VirtualNetwork{}, err
	}
	resp, err := poller.PollUntilDone(ctx, s.c.poll)
	if err != nil {
		return armnetwork.VirtualNetwork{}, err
	}
	return resp.VirtualNetwork, nil
}

type sdkInterfaces struct{ c *sdkClients }

func (s sdkInterfaces) CreateOrUpdate(ctx context.Context, group, name string, nic armnetwork.Interface) (armnetwork.Interface, error) {
	poller, err := s.c.nics.BeginCreateOrUpdate(ctx, group, name, nic, nil)
	if err != nil {
		return armnetwork.Interface{}, err
	}
	resp, err := poller.PollUntilDone(ctx, s.c.poll)
	if err != nil {
		return armnetwork.Interface{}, err
	}
	return resp.Interface, nil
}

type sdkVirtualMachines struct{ c *sdkClients }

func (s sdkVirtualMachines) CreateOrUpdate(ctx context.Context, group, name string, vm armcompute.VirtualMachine) (armcompute.VirtualMachine, error) {
	poller, err := s.c.vms.BeginCreateOrUpdate(ctx, group, name, vm, nil)
	if err != nil {
		return armcompute.VirtualMachine{}, err
	}
	resp, err := poller.PollUntilDone(ctx, s.c.poll)
	if err != nil {
		return armcompute.VirtualMachine{}, err
	}
	return resp.VirtualMachine, nil
}
