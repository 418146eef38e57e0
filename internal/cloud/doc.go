// Package cloud defines the resource model and the provider capability used by
// the provisioning workflow.
//
// Every resource lives inside a resource group. A provider creates resources
// with create-or-update semantics and removes them together by deleting the
// owning group. Provider implementations live under internal/platform; an
// in-memory provider for tests lives in the fakes subpackage.
package cloud
