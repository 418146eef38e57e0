// Package infrastructure provides the network-side workflow steps.
//
// Steps run in this order, each reading the handles of the steps before it:
//
//  1. ResourceGroupStep creates the group that scopes every other resource
//  2. VirtualNetworkStep creates the address space and its subnets
//  3. NetworkInterfaceStep attaches an interface to a subnet by name
//
// Every resource is tagged with the managed-by marker, the group name and the
// run id.
package infrastructure
