// Package azure implements cloud.Provider on Azure Resource Manager.
//
// Each resource kind maps to one ARM resource: resource groups through
// armresources, virtual networks (with inline subnets) and network
// interfaces through armnetwork, virtual machines through armcompute.
// Long-running operations are polled to completion inside each call, so a
// returned handle always refers to a provisioned resource.
//
// The SDK clients sit behind small interfaces (see sdk.go) that return the
// final resource, which keeps the request mapping testable without HTTP.
package azure
