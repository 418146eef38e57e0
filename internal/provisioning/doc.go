// Package provisioning runs an ordered list of provisioning steps followed by
// a guaranteed teardown.
//
// # Subpackages
//
//   - infrastructure/: Resource group, virtual network, network interface steps
//   - compute/: Virtual machine step
//   - destroy/: Resource group teardown
//
// # Core Types
//
// Step creates one resource and declares the steps whose handles it reads.
// Cleanup tears everything down once the create phase has finished or failed.
// Runner validates the step order up front, then drives a run through the
// RunState machine. Context carries the handles produced so far and the
// Observer used for structured events.
package provisioning
