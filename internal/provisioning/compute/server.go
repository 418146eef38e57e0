package compute

import (
	"fmt"
	"time"

	"github.com/imamik/vmprovision/internal/cloud"
	"github.com/imamik/vmprovision/internal/provisioning"
	"github.com/imamik/vmprovision/internal/provisioning/infrastructure"
)

// StepVirtualMachine is the logical name of the virtual machine step.
const StepVirtualMachine = "VirtualMachine"

// VirtualMachineStep creates the virtual machine.
type VirtualMachineStep struct {
	Compute cloud.ComputeManager
	Spec    cloud.VirtualMachineSpec
	Timeout time.Duration
}

// NewVirtualMachineStep creates the step for spec.
func NewVirtualMachineStep(compute cloud.ComputeManager, spec cloud.VirtualMachineSpec, timeout time.Duration) *VirtualMachineStep {
	return &VirtualMachineStep{Compute: compute, Spec: spec, Timeout: timeout}
}

// Name implements provisioning.Step.
func (s *VirtualMachineStep) Name() string { return StepVirtualMachine }

// Requires implements provisioning.Step.
func (s *VirtualMachineStep) Requires() []string {
	return []string{infrastructure.StepResourceGroup, infrastructure.StepNetworkInterface}
}

// Create implements provisioning.Step.
func (s *VirtualMachineStep) Create(ctx *provisioning.Context) (cloud.Handle, error) {
	group, err := infrastructure.GroupFrom(ctx)
	if err != nil {
		return cloud.Handle{}, err
	}
	nic, err := ctx.Handles.Require(infrastructure.StepNetworkInterface)
	if err != nil {
		return cloud.Handle{}, err
	}

	spec := s.Spec
	if spec.Location == "" {
		spec.Location = group.Location
	}
	spec.NetworkInterfaceID = nic.ID
	spec.Tags = cloud.MergeTags(spec.Tags, cloud.Tags(group.Name, ctx.RunID))

	callCtx, cancel := provisioning.CallContext(ctx, s.Timeout)
	defer cancel()

	ctx.Observer.Printf("Creating virtual machine %s (%s, %s)...", spec.Name, spec.Size, spec.Image)
	handle, err := s.Compute.CreateOrUpdateVirtualMachine(callCtx, group.Name, spec)
	if err != nil {
		return cloud.Handle{}, fmt.Errorf("failed to create virtual machine %s: %w", spec.Name, err)
	}
	return handle, nil
}
