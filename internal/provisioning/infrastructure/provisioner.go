package infrastructure

import (
	"github.com/imamik/vmprovision/internal/cloud"
	"github.com/imamik/vmprovision/internal/provisioning"
)

// Logical step names. Later steps declare these as requirements.
const (
	StepResourceGroup    = "ResourceGroup"
	StepVirtualNetwork   = "VirtualNetwork"
	StepNetworkInterface = "NetworkInterface"
)

// GroupFrom returns the resource group handle produced earlier in the run.
func GroupFrom(ctx *provisioning.Context) (cloud.Handle, error) {
	return ctx.Handles.Require(StepResourceGroup)
}

func resourceTags(ctx *provisioning.Context, group string, extra map[string]string) map[string]string {
	return cloud.MergeTags(extra, cloud.Tags(group, ctx.RunID))
}

func defaultLocation(location string, group cloud.Handle) string {
	if location != "" {
		return location
	}
	return group.Location
}
