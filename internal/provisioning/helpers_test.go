package provisioning

import (
	"fmt"
	"sync"

	"github.com/imamik/vmprovision/internal/cloud"
	"github.com/imamik/vmprovision/internal/cloud/fakes"
)

// recordingObserver records events and messages; observers derived with
// WithFields share the same log.
type recordingObserver struct {
	log    *eventLog
	fields map[string]string
}

type eventLog struct {
	mu       sync.Mutex
	events   []Event
	messages []string
}

func newRecordingObserver() *recordingObserver {
	return &recordingObserver{log: &eventLog{}, fields: map[string]string{}}
}

func (o *recordingObserver) Printf(format string, v ...any) {
	o.log.mu.Lock()
	defer o.log.mu.Unlock()
	o.log.messages = append(o.log.messages, fmt.Sprintf(format, v...))
}

func (o *recordingObserver) Event(event Event) {
	if event.Fields == nil {
		event.Fields = map[string]string{}
	}
	for k, v := range o.fields {
		if _, ok := event.Fields[k]; !ok {
			event.Fields[k] = v
		}
	}
	o.log.mu.Lock()
	defer o.log.mu.Unlock()
	o.log.events = append(o.log.events, event)
}

func (o *recordingObserver) WithFields(fields map[string]string) Observer {
	merged := make(map[string]string, len(o.fields)+len(fields))
	for k, v := range o.fields {
		merged[k] = v
	}
	for k, v := range fields {
		merged[k] = v
	}
	return &recordingObserver{log: o.log, fields: merged}
}

func (o *recordingObserver) eventsOfType(t EventType) []Event {
	o.log.mu.Lock()
	defer o.log.mu.Unlock()
	var out []Event
	for _, e := range o.log.events {
		if e.Type == t {
			out = append(out, e)
		}
	}
	return out
}

const (
	testGroup  = "testRG"
	testRegion = "westus2"
)

// sampleSteps builds the four-step workflow directly on the provider so the
// runner can be exercised without the step packages.
func sampleSteps(p cloud.Provider) []Step {
	rg := NewStep("ResourceGroup", nil, func(ctx *Context) (cloud.Handle, error) {
		return p.CreateOrUpdateResourceGroup(ctx, cloud.ResourceGroupSpec{Name: testGroup, Location: testRegion})
	})
	vnet := NewStep("VirtualNetwork", []string{"ResourceGroup"}, func(ctx *Context) (cloud.Handle, error) {
		return p.CreateOrUpdateVirtualNetwork(ctx, testGroup, cloud.VirtualNetworkSpec{
			Name:         "testVnet",
			Location:     testRegion,
			AddressSpace: []string{"10.0.0.0/16"},
			Subnets:      []cloud.SubnetSpec{{Name: "testSubnet", AddressPrefix: "10.0.2.0/24"}},
		})
	})
	nic := NewStep("NetworkInterface", []string{"VirtualNetwork"}, func(ctx *Context) (cloud.Handle, error) {
		vnet, err := ctx.Handles.Require("VirtualNetwork")
		if err != nil {
			return cloud.Handle{}, err
		}
		subnet, ok := vnet.Child(cloud.KindSubnet, "testSubnet")
		if !ok {
			return cloud.Handle{}, fmt.Errorf("subnet testSubnet missing")
		}
		return p.CreateOrUpdateNetworkInterface(ctx, testGroup, cloud.NetworkInterfaceSpec{
			Name:     "testNIC",
			Location: testRegion,
			IPConfigurations: []cloud.IPConfiguration{
				{Name: "internal", SubnetName: "testSubnet", SubnetID: subnet.ID, Primary: true},
			},
		})
	})
	vm := NewStep("VirtualMachine", []string{"NetworkInterface"}, func(ctx *Context) (cloud.Handle, error) {
		nic, err := ctx.Handles.Require("NetworkInterface")
		if err != nil {
			return cloud.Handle{}, err
		}
		return p.CreateOrUpdateVirtualMachine(ctx, testGroup, cloud.VirtualMachineSpec{
			Name:               "testVM",
			Location:           testRegion,
			Size:               "Standard_F2",
			NetworkInterfaceID: nic.ID,
			Image:              cloud.ImageReference{Publisher: "Canonical", Offer: "UbuntuServer", SKU: "16.04-LTS", Version: "latest"},
			OSDisk:             cloud.OSDisk{Caching: cloud.CachingReadWrite, StorageAccountType: "Standard_LRS"},
			Admin:              cloud.AdminCredential{Username: "adminUser", SSHPublicKey: "ssh-ed25519 AAAA test"},
		})
	})
	return []Step{rg, vnet, nic, vm}
}

// countingCleanup deletes the test group and counts invocations.
type countingCleanup struct {
	provider *fakes.Provider
	calls    int
	err      error
}

func (c *countingCleanup) Name() string { return "ResourceGroupTeardown" }

func (c *countingCleanup) Cleanup(ctx *Context) error {
	c.calls++
	if c.err != nil {
		return c.err
	}
	if c.provider == nil || !c.provider.HasResourceGroup(testGroup) {
		return nil
	}
	return c.provider.DeleteResourceGroup(ctx, testGroup)
}
