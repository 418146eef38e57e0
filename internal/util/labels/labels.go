package labels

import (
	"sort"
	"strings"
)

// Prefix namespaces every label key set by vmprovision.
const Prefix = "vmprovision.io/"

// Standard label keys for Hetzner Cloud resources.
const (
	// KeyResourceGroup identifies the emulated resource group a resource belongs to
	KeyResourceGroup = Prefix + "resource-group"

	// KeyRunID identifies the workflow run that created the resource
	KeyRunID = Prefix + "run-id"

	// KeyManagedBy identifies the management system
	KeyManagedBy = Prefix + "managed-by"

	// KeyLocation records the location a resource group was created for
	KeyLocation = Prefix + "location"

	// KeyNetwork links a primary IP to the network its interface is bound to
	KeyNetwork = Prefix + "network"
)

// ManagedByVMProvision is the value of KeyManagedBy.
const ManagedByVMProvision = "vmprovision"

// maxValueLength is the Hetzner limit for label values.
const maxValueLength = 63

// LabelBuilder provides a fluent interface for building Hetzner Cloud resource labels.
type LabelBuilder struct {
	labels map[string]string
}

// NewLabelBuilder creates a new label builder with the resource group pre-set.
func NewLabelBuilder(group string) *LabelBuilder {
	return &LabelBuilder{
		labels: map[string]string{
			KeyResourceGroup: Sanitize(group),
			KeyManagedBy:     ManagedByVMProvision,
		},
	}
}

// WithLocation records the location.
func (lb *LabelBuilder) WithLocation(location string) *LabelBuilder {
	lb.labels[KeyLocation] = Sanitize(location)
	return lb
}

// WithNetwork links the resource to a network by id.
func (lb *LabelBuilder) WithNetwork(networkID string) *LabelBuilder {
	lb.labels[KeyNetwork] = networkID
	return lb
}

// MergeTags adds provider-neutral tags. Keys without a domain get the
// vmprovision.io/ prefix so that "run-id" becomes KeyRunID.
func (lb *LabelBuilder) MergeTags(tags map[string]string) *LabelBuilder {
	for k, v := range tags {
		if !strings.Contains(k, "/") {
			k = Prefix + k
		}
		lb.labels[k] = Sanitize(v)
	}
	return lb
}

// Build returns a copy of the labels map.
func (lb *LabelBuilder) Build() map[string]string {
	result := make(map[string]string, len(lb.labels))
	for k, v := range lb.labels {
		result[k] = v
	}
	return result
}

// SelectorForGroup returns a label selector for every resource in a group.
func SelectorForGroup(group string) map[string]string {
	return map[string]string{KeyResourceGroup: Sanitize(group)}
}

// Selector renders labels as a Hetzner label selector, sorted by key.
func Selector(labels map[string]string) string {
	keys := make([]string, 0, len(labels))
	for k := range labels {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+"="+labels[k])
	}
	return strings.Join(parts, ",")
}

// Sanitize makes v a valid label value: at most 63 characters of
// [a-zA-Z0-9._-], starting and ending with an alphanumeric character.
// Other characters become '-'.
func Sanitize(v string) string {
	b := []byte(v)
	for i, c := range b {
		if !isAlnum(c) && c != '.' && c != '_' && c != '-' {
			b[i] = '-'
		}
	}
	if len(b) > maxValueLength {
		b = b[:maxValueLength]
	}
	return strings.TrimFunc(string(b), func(r rune) bool {
		return r < 128 && !isAlnum(byte(r))
	})
}

// IsValidValue reports whether v is already a valid label value, so that
// Sanitize returns it unchanged.
func IsValidValue(v string) bool {
	return v != "" && Sanitize(v) == v
}

func isAlnum(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')
}
