package infrastructure

import (
	"fmt"
	"time"

	"github.com/imamik/vmprovision/internal/cloud"
	"github.com/imamik/vmprovision/internal/provisioning"
)

// VirtualNetworkStep creates the virtual network and its subnets inside the
// group produced by ResourceGroupStep.
type VirtualNetworkStep struct {
	Networks cloud.NetworkManager
	Spec     cloud.VirtualNetworkSpec
	Timeout  time.Duration
}

// NewVirtualNetworkStep creates the step for spec.
func NewVirtualNetworkStep(networks cloud.NetworkManager, spec cloud.VirtualNetworkSpec, timeout time.Duration) *VirtualNetworkStep {
	return &VirtualNetworkStep{Networks: networks, Spec: spec, Timeout: timeout}
}

// Name implements provisioning.Step.
func (s *VirtualNetworkStep) Name() string { return StepVirtualNetwork }

// Requires implements provisioning.Step.
func (s *VirtualNetworkStep) Requires() []string { return []string{StepResourceGroup} }

// Create implements provisioning.Step. The returned handle carries one subnet
// child per configured subnet.
func (s *VirtualNetworkStep) Create(ctx *provisioning.Context) (cloud.Handle, error) {
	group, err := GroupFrom(ctx)
	if err != nil {
		return cloud.Handle{}, err
	}

	spec := s.Spec
	spec.Location = defaultLocation(spec.Location, group)
	spec.Tags = resourceTags(ctx, group.Name, spec.Tags)

	callCtx, cancel := provisioning.CallContext(ctx, s.Timeout)
	defer cancel()

	ctx.Observer.Printf("Creating virtual network %s (%v) with %d subnet(s)...", spec.Name, spec.AddressSpace, len(spec.Subnets))
	handle, err := s.Networks.CreateOrUpdateVirtualNetwork(callCtx, group.Name, spec)
	if err != nil {
		return cloud.Handle{}, fmt.Errorf("failed to create virtual network %s: %w", spec.Name, err)
	}

	for _, sub := range spec.Subnets {
		child, ok := handle.Child(cloud.KindSubnet, sub.Name)
		if !ok || child.IsZero() {
			return cloud.Handle{}, fmt.Errorf("virtual network %s: provider returned no id for subnet %s", spec.Name, sub.Name)
		}
		ctx.Observer.Printf("Subnet %s created", child.ID)
	}
	return handle, nil
}
