package infrastructure

import (
	"fmt"
	"time"

	"github.com/imamik/vmprovision/internal/cloud"
	"github.com/imamik/vmprovision/internal/provisioning"
)

// NetworkInterfaceStep creates a network interface attached to subnets of the
// virtual network produced by VirtualNetworkStep.
type NetworkInterfaceStep struct {
	Networks cloud.NetworkManager
	Spec     cloud.NetworkInterfaceSpec
	Timeout  time.Duration
}

// NewNetworkInterfaceStep creates the step for spec.
func NewNetworkInterfaceStep(networks cloud.NetworkManager, spec cloud.NetworkInterfaceSpec, timeout time.Duration) *NetworkInterfaceStep {
	return &NetworkInterfaceStep{Networks: networks, Spec: spec, Timeout: timeout}
}

// Name implements provisioning.Step.
func (s *NetworkInterfaceStep) Name() string { return StepNetworkInterface }

// Requires implements provisioning.Step.
func (s *NetworkInterfaceStep) Requires() []string {
	return []string{StepResourceGroup, StepVirtualNetwork}
}

// Create implements provisioning.Step.
func (s *NetworkInterfaceStep) Create(ctx *provisioning.Context) (cloud.Handle, error) {
	group, err := GroupFrom(ctx)
	if err != nil {
		return cloud.Handle{}, err
	}
	vnet, err := ctx.Handles.Require(StepVirtualNetwork)
	if err != nil {
		return cloud.Handle{}, err
	}

	spec := s.Spec
	spec.Location = defaultLocation(spec.Location, group)
	spec.Tags = resourceTags(ctx, group.Name, spec.Tags)
	spec.IPConfigurations, err = resolveSubnets(spec.IPConfigurations, vnet)
	if err != nil {
		return cloud.Handle{}, fmt.Errorf("network interface %s: %w", spec.Name, err)
	}

	callCtx, cancel := provisioning.CallContext(ctx, s.Timeout)
	defer cancel()

	ctx.Observer.Printf("Creating network interface %s...", spec.Name)
	handle, err := s.Networks.CreateOrUpdateNetworkInterface(callCtx, group.Name, spec)
	if err != nil {
		return cloud.Handle{}, fmt.Errorf("failed to create network interface %s: %w", spec.Name, err)
	}
	return handle, nil
}

// resolveSubnets fills SubnetID from the virtual network's subnet handles.
// Configurations that already carry an id are kept as they are.
func resolveSubnets(configs []cloud.IPConfiguration, vnet cloud.Handle) ([]cloud.IPConfiguration, error) {
	out := make([]cloud.IPConfiguration, len(configs))
	for i, c := range configs {
		if c.SubnetID == "" {
			subnet, ok := vnet.Child(cloud.KindSubnet, c.SubnetName)
			if !ok {
				return nil, fmt.Errorf("ip configuration %s references unknown subnet %q in %s", c.Name, c.SubnetName, vnet.Name)
			}
			c.SubnetID = subnet.ID
		}
		out[i] = c
	}
	return out, nil
}
