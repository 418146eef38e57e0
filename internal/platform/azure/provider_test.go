package azure

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore/runtime"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/to"
	"github.com/Azure/azure-sdk-for-go/sdk/resourcemanager/compute/armcompute/v4"
	"github.com/Azure/azure-sdk-for-go/sdk/resourcemanager/network/armnetwork/v6"
	"github.com/Azure/azure-sdk-for-go/sdk/resourcemanager/resources/armresources"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/imamik/vmprovision/internal/cloud"
)

const subscription = "/subscriptions/11111111-1111-1111-1111-111111111111"

func armError(status int, code string) error {
	req, _ := http.NewRequest(http.MethodGet, "https://management.azure.com"+subscription+"/resourcegroups/testRG", nil)
	return runtime.NewResponseError(&http.Response{
		Status:     http.StatusText(status),
		StatusCode: status,
		Header:     http.Header{"x-ms-error-code": []string{code}},
		Body:       io.NopCloser(strings.NewReader(`{"error":{"code":"` + code + `","message":"test"}}`)),
		Request:    req,
	})
}

type fakeGroups struct {
	groups    map[string]armresources.ResourceGroup
	lastSpec  armresources.ResourceGroup
	deleteErr error
	deleted   []string
}

func (f *fakeGroups) CreateOrUpdate(_ context.Context, name string, group armresources.ResourceGroup) (armresources.ResourceGroup, error) {
	f.lastSpec = group
	group.ID = to.Ptr(subscription + "/resourceGroups/" + name)
	group.Name = to.Ptr(name)
	if f.groups == nil {
		f.groups = map[string]armresources.ResourceGroup{}
	}
	f.groups[name] = group
	return group, nil
}

func (f *fakeGroups) Get(_ context.Context, name string) (armresources.ResourceGroup, error) {
	g, ok := f.groups[name]
	if !ok {
		return armresources.ResourceGroup{}, armError(http.StatusNotFound, "ResourceGroupNotFound")
	}
	return g, nil
}

func (f *fakeGroups) Delete(_ context.Context, name string) error {
	f.deleted = append(f.deleted, name)
	if f.deleteErr != nil {
		return f.deleteErr
	}
	if _, ok := f.groups[name]; !ok {
		return armError(http.StatusNotFound, "ResourceGroupNotFound")
	}
	delete(f.groups, name)
	return nil
}

type fakeVNets struct {
	last armnetwork.VirtualNetwork
	err  error
}

func (f *fakeVNets) CreateOrUpdate(_ context.Context, group, name string, vnet armnetwork.VirtualNetwork) (armnetwork.VirtualNetwork, error) {
	f.last = vnet
	if f.err != nil {
		return armnetwork.VirtualNetwork{}, f.err
	}
	id := subscription + "/resourceGroups/" + group + "/providers/Microsoft.Network/virtualNetworks/" + name
	vnet.ID = to.Ptr(id)
	vnet.Name = to.Ptr(name)
	for _, s := range vnet.Properties.Subnets {
		s.ID = to.Ptr(id + "/subnets/" + *s.Name)
	}
	return vnet, nil
}

type fakeNICs struct {
	last armnetwork.Interface
}

func (f *fakeNICs) CreateOrUpdate(_ context.Context, group, name string, nic armnetwork.Interface) (armnetwork.Interface, error) {
	f.last = nic
	nic.ID = to.Ptr(subscription + "/resourceGroups/" + group + "/providers/Microsoft.Network/networkInterfaces/" + name)
	nic.Name = to.Ptr(name)
	return nic, nil
}

type fakeVMs struct {
	last armcompute.VirtualMachine
	err  error
}

func (f *fakeVMs) CreateOrUpdate(_ context.Context, group, name string, vm armcompute.VirtualMachine) (armcompute.VirtualMachine, error) {
	f.last = vm
	if f.err != nil {
		return armcompute.VirtualMachine{}, f.err
	}
	vm.ID = to.Ptr(subscription + "/resourceGroups/" + group + "/providers/Microsoft.Compute/virtualMachines/" + name)
	// Name left unset to exercise the fallback.
	return vm, nil
}

type testProvider struct {
	*Provider
	groups *fakeGroups
	vnets  *fakeVNets
	nics   *fakeNICs
	vms    *fakeVMs
}

func newTestProvider() *testProvider {
	tp := &testProvider{
		groups: &fakeGroups{},
		vnets:  &fakeVNets{},
		nics:   &fakeNICs{},
		vms:    &fakeVMs{},
	}
	tp.Provider = &Provider{groups: tp.groups, vnets: tp.vnets, nics: tp.nics, vms: tp.vms}
	return tp
}

func sampleVM() cloud.VirtualMachineSpec {
	return cloud.VirtualMachineSpec{
		Name:               "testVM",
		Location:           "westus2",
		Size:               "Standard_F2",
		NetworkInterfaceID: "nic-id",
		Image:              cloud.ImageReference{Publisher: "Canonical", Offer: "UbuntuServer", SKU: "16.04-LTS", Version: "latest"},
		OSDisk:             cloud.OSDisk{Caching: cloud.CachingReadWrite, StorageAccountType: "Standard_LRS"},
		Admin:              cloud.AdminCredential{Username: "adminUser", SSHPublicKey: "ssh-rsa AAAA"},
		Tags:               map[string]string{"managed-by": "vmprovision"},
	}
}

func TestProvider_Name(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "azure", newTestProvider().Name())
}

func TestNewProvider_RequiresSubscription(t *testing.T) {
	t.Parallel()
	_, err := NewProvider("", nil, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "subscription id is required")
}

func TestResourceGroupLifecycle(t *testing.T) {
	t.Parallel()
	p := newTestProvider()
	ctx := context.Background()

	h, err := p.CreateOrUpdateResourceGroup(ctx, cloud.ResourceGroupSpec{
		Name:     "testRG",
		Location: "westus2",
		Tags:     map[string]string{"run-id": "r1"},
	})
	require.NoError(t, err)
	assert.Equal(t, cloud.Handle{
		Kind:     cloud.KindResourceGroup,
		Name:     "testRG",
		ID:       subscription + "/resourceGroups/testRG",
		Location: "westus2",
	}, h)
	assert.Equal(t, "westus2", *p.groups.lastSpec.Location)
	assert.Equal(t, "r1", *p.groups.lastSpec.Tags["run-id"])

	got, err := p.GetResourceGroup(ctx, "testRG")
	require.NoError(t, err)
	assert.Equal(t, h.ID, got.ID)

	require.NoError(t, p.DeleteResourceGroup(ctx, "testRG"))

	_, err = p.GetResourceGroup(ctx, "testRG")
	require.Error(t, err)
	assert.ErrorIs(t, err, cloud.ErrNotFound)

	err = p.DeleteResourceGroup(ctx, "testRG")
	assert.ErrorIs(t, err, cloud.ErrNotFound)
}

func TestCreateOrUpdateResourceGroup_InvalidSpec(t *testing.T) {
	t.Parallel()
	p := newTestProvider()

	_, err := p.CreateOrUpdateResourceGroup(context.Background(), cloud.ResourceGroupSpec{Name: "testRG"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "location is required")
	assert.Nil(t, p.groups.groups)
}

func TestCreateOrUpdateVirtualNetwork(t *testing.T) {
	t.Parallel()
	p := newTestProvider()

	h, err := p.CreateOrUpdateVirtualNetwork(context.Background(), "testRG", cloud.VirtualNetworkSpec{
		Name:         "testVnet",
		Location:     "westus2",
		AddressSpace: []string{"10.0.0.0/16"},
		Subnets:      []cloud.SubnetSpec{{Name: "testSubnet", AddressPrefix: "10.0.2.0/24"}},
	})
	require.NoError(t, err)

	sent := p.vnets.last
	require.NotNil(t, sent.Properties)
	assert.Equal(t, []*string{to.Ptr("10.0.0.0/16")}, sent.Properties.AddressSpace.AddressPrefixes)
	require.Len(t, sent.Properties.Subnets, 1)
	assert.Equal(t, "10.0.2.0/24", *sent.Properties.Subnets[0].Properties.AddressPrefix)

	assert.Equal(t, cloud.KindVirtualNetwork, h.Kind)
	subnet, ok := h.Child(cloud.KindSubnet, "testSubnet")
	require.True(t, ok)
	assert.Equal(t, h.ID+"/subnets/testSubnet", subnet.ID)
}

func TestCreateOrUpdateVirtualNetwork_ProviderError(t *testing.T) {
	t.Parallel()
	p := newTestProvider()
	p.vnets.err = armError(http.StatusBadRequest, "InvalidAddressPrefix")

	_, err := p.CreateOrUpdateVirtualNetwork(context.Background(), "testRG", cloud.VirtualNetworkSpec{
		Name:         "testVnet",
		Location:     "westus2",
		AddressSpace: []string{"10.0.0.0/16"},
		Subnets:      []cloud.SubnetSpec{{Name: "testSubnet", AddressPrefix: "10.0.2.0/24"}},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "create virtual network testVnet in testRG (InvalidAddressPrefix)")
	assert.NotErrorIs(t, err, cloud.ErrNotFound)
}

func TestCreateOrUpdateNetworkInterface(t *testing.T) {
	t.Parallel()
	p := newTestProvider()

	h, err := p.CreateOrUpdateNetworkInterface(context.Background(), "testRG", cloud.NetworkInterfaceSpec{
		Name:     "testNIC",
		Location: "westus2",
		IPConfigurations: []cloud.IPConfiguration{
			{Name: "internal", SubnetID: "subnet-id", Primary: true},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "testNIC", h.Name)

	configs := p.nics.last.Properties.IPConfigurations
	require.Len(t, configs, 1)
	assert.Equal(t, "internal", *configs[0].Name)
	assert.Equal(t, "subnet-id", *configs[0].Properties.Subnet.ID)
	assert.True(t, *configs[0].Properties.Primary)
	assert.Equal(t, armnetwork.IPAllocationMethodDynamic, *configs[0].Properties.PrivateIPAllocationMethod)
}

func TestCreateOrUpdateVirtualMachine(t *testing.T) {
	t.Parallel()
	p := newTestProvider()

	h, err := p.CreateOrUpdateVirtualMachine(context.Background(), "testRG", sampleVM())
	require.NoError(t, err)
	assert.Equal(t, "testVM", h.Name, "name falls back to the requested one")
	assert.Equal(t, cloud.KindVirtualMachine, h.Kind)

	props := p.vms.last.Properties
	require.NotNil(t, props)
	assert.Equal(t, armcompute.VirtualMachineSizeTypes("Standard_F2"), *props.HardwareProfile.VMSize)

	os := props.OSProfile
	assert.Equal(t, "testVM", *os.ComputerName)
	assert.Equal(t, "adminUser", *os.AdminUsername)
	assert.Nil(t, os.AdminPassword)
	assert.True(t, *os.LinuxConfiguration.DisablePasswordAuthentication)
	require.Len(t, os.LinuxConfiguration.SSH.PublicKeys, 1)
	assert.Equal(t, "/home/adminUser/.ssh/authorized_keys", *os.LinuxConfiguration.SSH.PublicKeys[0].Path)
	assert.Equal(t, "ssh-rsa AAAA", *os.LinuxConfiguration.SSH.PublicKeys[0].KeyData)

	require.Len(t, props.NetworkProfile.NetworkInterfaces, 1)
	assert.Equal(t, "nic-id", *props.NetworkProfile.NetworkInterfaces[0].ID)

	storage := props.StorageProfile
	assert.Equal(t, "Canonical", *storage.ImageReference.Publisher)
	assert.Equal(t, "UbuntuServer", *storage.ImageReference.Offer)
	assert.Equal(t, "16.04-LTS", *storage.ImageReference.SKU)
	assert.Equal(t, "latest", *storage.ImageReference.Version)
	assert.Equal(t, armcompute.DiskCreateOptionTypesFromImage, *storage.OSDisk.CreateOption)
	assert.Equal(t, armcompute.OperatingSystemTypesLinux, *storage.OSDisk.OSType)
	assert.Equal(t, armcompute.CachingTypesReadWrite, *storage.OSDisk.Caching)
	assert.Equal(t, armcompute.StorageAccountTypesStandardLRS, *storage.OSDisk.ManagedDisk.StorageAccountType)

	assert.Equal(t, "vmprovision", *p.vms.last.Tags["managed-by"])
}

func TestCreateOrUpdateVirtualMachine_BareImageRejected(t *testing.T) {
	t.Parallel()
	p := newTestProvider()
	vm := sampleVM()
	vm.Image = cloud.ImageReference{SKU: "ubuntu-24.04"}

	_, err := p.CreateOrUpdateVirtualMachine(context.Background(), "testRG", vm)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "is not a publisher:offer:sku:version reference")
}

func TestCreateOrUpdateVirtualMachine_ProviderError(t *testing.T) {
	t.Parallel()
	p := newTestProvider()
	p.vms.err = errors.New("connection reset")

	_, err := p.CreateOrUpdateVirtualMachine(context.Background(), "testRG", sampleVM())
	require.Error(t, err)
	assert.Equal(t, "create virtual machine testVM in testRG: connection reset", err.Error())
}

func TestDeleteResourceGroup_Error(t *testing.T) {
	t.Parallel()
	p := newTestProvider()
	p.groups.groups = map[string]armresources.ResourceGroup{"testRG": {}}
	p.groups.deleteErr = armError(http.StatusConflict, "ScopeLocked")

	err := p.DeleteResourceGroup(context.Background(), "testRG")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "delete resource group testRG (ScopeLocked)")
}
