// Package orchestration assembles the provisioning workflow from configuration.
//
// It wires the steps of internal/provisioning subpackages to a cloud.Provider
// in their fixed order and attaches the resource group teardown:
//
//  1. ResourceGroup
//  2. VirtualNetwork with its subnet
//  3. NetworkInterface on that subnet
//  4. VirtualMachine using that interface
//  5. ResourceGroupTeardown (always)
//
// # Usage
//
//	runner, err := orchestration.NewVirtualMachineWorkflow(provider, cfg, orchestration.WithSSHPublicKey(key))
//	result, err := runner.Run(ctx)
//
// DestroyResourceGroup runs the teardown alone.
package orchestration
