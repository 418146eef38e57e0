package infrastructure

import (
	"fmt"
	"time"

	"github.com/imamik/vmprovision/internal/cloud"
	"github.com/imamik/vmprovision/internal/provisioning"
)

// ResourceGroupStep creates the resource group.
type ResourceGroupStep struct {
	Groups  cloud.ResourceGroupManager
	Spec    cloud.ResourceGroupSpec
	Timeout time.Duration
}

// NewResourceGroupStep creates the step for spec.
func NewResourceGroupStep(groups cloud.ResourceGroupManager, spec cloud.ResourceGroupSpec, timeout time.Duration) *ResourceGroupStep {
	return &ResourceGroupStep{Groups: groups, Spec: spec, Timeout: timeout}
}

// Name implements provisioning.Step.
func (s *ResourceGroupStep) Name() string { return StepResourceGroup }

// Requires implements provisioning.Step.
func (s *ResourceGroupStep) Requires() []string { return nil }

// Create implements provisioning.Step.
func (s *ResourceGroupStep) Create(ctx *provisioning.Context) (cloud.Handle, error) {
	spec := s.Spec
	spec.Tags = resourceTags(ctx, spec.Name, spec.Tags)

	callCtx, cancel := provisioning.CallContext(ctx, s.Timeout)
	defer cancel()

	ctx.Observer.Printf("Creating resource group %s in %s...", spec.Name, spec.Location)
	handle, err := s.Groups.CreateOrUpdateResourceGroup(callCtx, spec)
	if err != nil {
		return cloud.Handle{}, fmt.Errorf("failed to create resource group %s: %w", spec.Name, err)
	}
	return handle, nil
}
