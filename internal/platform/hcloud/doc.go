// Package hcloud implements cloud.Provider on the Hetzner Cloud API.
//
// Hetzner has no resource groups. A group is emulated by a spread placement
// group of the same name plus the vmprovision.io/resource-group label on
// every member resource; deleting the group deletes everything carrying
// the label. The remaining kinds map as follows:
//
//   - VirtualNetwork: a Network with one cloud subnet per subnet spec. Subnet
//     handles use "<network id>:<ip range>" as their id.
//   - NetworkInterface: an IPv4 Primary IP, labelled with the network it is
//     bound to.
//   - VirtualMachine: a Server using that Primary IP and attached to the
//     network. The admin user is created by cloud-init.
//
// Disk caching and storage account type have no Hetzner equivalent and are
// ignored.
package hcloud
