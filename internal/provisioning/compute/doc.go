// Package compute provides the virtual machine workflow step.
//
// The machine boots from the configured image, attaches the network interface
// created earlier in the run and accepts only SSH key logins for its admin
// user.
package compute
