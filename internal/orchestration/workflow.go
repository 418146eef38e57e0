package orchestration

import (
	"context"
	"fmt"

	"github.com/imamik/vmprovision/internal/cloud"
	"github.com/imamik/vmprovision/internal/config"
	"github.com/imamik/vmprovision/internal/provisioning"
	"github.com/imamik/vmprovision/internal/provisioning/compute"
	"github.com/imamik/vmprovision/internal/provisioning/destroy"
	"github.com/imamik/vmprovision/internal/provisioning/infrastructure"
)

// Option configures a workflow.
type Option func(*workflowOptions)

type workflowOptions struct {
	sshPublicKey string
	runner       []provisioning.RunnerOption
}

// WithSSHPublicKey sets the admin key when the configuration has none.
func WithSSHPublicKey(key string) Option {
	return func(o *workflowOptions) {
		o.sshPublicKey = key
	}
}

// WithRunnerOptions passes options through to the provisioning runner.
func WithRunnerOptions(opts ...provisioning.RunnerOption) Option {
	return func(o *workflowOptions) {
		o.runner = append(o.runner, opts...)
	}
}

// NewVirtualMachineWorkflow builds the runner that creates the configured
// virtual machine with its network and then deletes the resource group.
func NewVirtualMachineWorkflow(p cloud.Provider, cfg *config.Config, opts ...Option) (*provisioning.Runner, error) {
	o := applyOptions(opts)

	vmSpec, err := cfg.VirtualMachineSpec(o.sshPublicKey)
	if err != nil {
		return nil, fmt.Errorf("invalid virtual machine configuration: %w", err)
	}
	if vmSpec.Admin.SSHPublicKey == "" {
		return nil, fmt.Errorf("virtual machine %s: no ssh public key configured", vmSpec.Name)
	}

	create := cfg.Timeouts.Create
	steps := []provisioning.Step{
		infrastructure.NewResourceGroupStep(p, cfg.ResourceGroupSpec(), create),
		infrastructure.NewVirtualNetworkStep(p, cfg.VirtualNetworkSpec(), create),
		infrastructure.NewNetworkInterfaceStep(p, cfg.NetworkInterfaceSpec(), create),
		compute.NewVirtualMachineStep(p, vmSpec, create),
	}
	return provisioning.NewRunner(steps, teardown(p, cfg), o.runner...)
}

// DestroyResourceGroup deletes the configured resource group, if it exists.
// It runs the same teardown as a workflow, without any create step.
func DestroyResourceGroup(ctx context.Context, p cloud.Provider, cfg *config.Config, opts ...Option) (*provisioning.Result, error) {
	o := applyOptions(opts)
	runner, err := provisioning.NewRunner(nil, teardown(p, cfg), o.runner...)
	if err != nil {
		return nil, err
	}
	return runner.Run(ctx)
}

func teardown(p cloud.Provider, cfg *config.Config) provisioning.Cleanup {
	return destroy.NewProvisioner(p, cfg.ResourceGroup, cfg.Timeouts.Delete)
}

func applyOptions(opts []Option) *workflowOptions {
	o := &workflowOptions{}
	for _, opt := range opts {
		opt(o)
	}
	return o
}
