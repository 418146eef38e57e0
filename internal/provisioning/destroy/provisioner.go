package destroy

import (
	"errors"
	"fmt"
	"time"

	"github.com/imamik/vmprovision/internal/cloud"
	"github.com/imamik/vmprovision/internal/provisioning"
	"github.com/imamik/vmprovision/internal/provisioning/infrastructure"
)

// Name is the cleanup name reported in events and errors.
const Name = "ResourceGroupTeardown"

// Provisioner deletes the run's resource group.
type Provisioner struct {
	Groups cloud.ResourceGroupManager

	// GroupName is used when the run holds no resource group handle.
	GroupName string
	Timeout   time.Duration
}

// NewProvisioner creates a teardown for the named group.
func NewProvisioner(groups cloud.ResourceGroupManager, groupName string, timeout time.Duration) *Provisioner {
	return &Provisioner{Groups: groups, GroupName: groupName, Timeout: timeout}
}

// Name implements provisioning.Cleanup.
func (p *Provisioner) Name() string {
	return Name
}

// Cleanup implements provisioning.Cleanup.
func (p *Provisioner) Cleanup(ctx *provisioning.Context) error {
	callCtx, cancel := provisioning.CallContext(ctx, p.Timeout)
	defer cancel()

	name := p.GroupName
	if group, ok := ctx.Handles.Get(infrastructure.StepResourceGroup); ok {
		name = group.Name
	} else {
		_, err := p.Groups.GetResourceGroup(callCtx, name)
		if errors.Is(err, cloud.ErrNotFound) {
			ctx.Observer.Event(provisioning.Event{
				Type:     provisioning.EventResourceAbsent,
				Step:     Name,
				Resource: name,
				Message:  fmt.Sprintf("resource group %s does not exist, nothing to delete", name),
			})
			return nil
		}
		if err != nil {
			return &provisioning.ProviderError{Step: Name, Op: "get", Err: err}
		}
	}

	provisioning.LogResourceDeleting(ctx.Observer, Name, cloud.KindResourceGroup, name)
	err := p.Groups.DeleteResourceGroup(callCtx, name)
	if errors.Is(err, cloud.ErrNotFound) {
		err = nil
	}
	if err != nil {
		return &provisioning.ProviderError{Step: Name, Op: provisioning.OpDelete, Err: fmt.Errorf("failed to delete resource group %s: %w", name, err)}
	}
	provisioning.LogResourceDeleted(ctx.Observer, Name, cloud.KindResourceGroup, name)
	return nil
}
