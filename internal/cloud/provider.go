package cloud

import (
	"context"
	"errors"
)

// ErrNotFound is returned by getters when the resource does not exist.
var ErrNotFound = errors.New("resource not found")

// ResourceGroupManager manages the root container.
type ResourceGroupManager interface {
	CreateOrUpdateResourceGroup(ctx context.Context, spec ResourceGroupSpec) (Handle, error)
	GetResourceGroup(ctx context.Context, name string) (Handle, error)
	// DeleteResourceGroup deletes the group and, by cascade, everything in it.
	DeleteResourceGroup(ctx context.Context, name string) error
}

// NetworkManager manages virtual networks and network interfaces.
type NetworkManager interface {
	// CreateOrUpdateVirtualNetwork returns a handle whose Children hold one
	// KindSubnet handle per entry in spec.Subnets.
	CreateOrUpdateVirtualNetwork(ctx context.Context, group string, spec VirtualNetworkSpec) (Handle, error)
	CreateOrUpdateNetworkInterface(ctx context.Context, group string, spec NetworkInterfaceSpec) (Handle, error)
}

// ComputeManager manages virtual machines.
type ComputeManager interface {
	CreateOrUpdateVirtualMachine(ctx context.Context, group string, spec VirtualMachineSpec) (Handle, error)
}

// Provider combines every capability the workflow needs. Authentication is
// the implementation's concern.
type Provider interface {
	ResourceGroupManager
	NetworkManager
	ComputeManager

	// Name returns a short provider identifier such as "azure".
	Name() string
}
