// Package labels provides consistent labeling for Hetzner Cloud resources.
//
// Hetzner has no resource groups, so every resource created for a group
// carries the vmprovision.io/resource-group label and the group is
// torn down by label selector.
package labels
