// Package destroy tears down everything a run created.
//
// All resources live inside one resource group, so teardown is a single
// group deletion; the provider cascades it to the contained resources. When
// the group was never created in this run it is looked up by name first and
// nothing is deleted if it does not exist.
package destroy
