// Package fakes provides an in-memory cloud.Provider for tests.
package fakes

import (
	"context"
	"fmt"
	"sync"

	"github.com/imamik/vmprovision/internal/cloud"
)

// Provider operations, used to inject failures and inspect calls.
const (
	OpCreateResourceGroup    = "CreateOrUpdateResourceGroup"
	OpGetResourceGroup       = "GetResourceGroup"
	OpDeleteResourceGroup    = "DeleteResourceGroup"
	OpCreateVirtualNetwork   = "CreateOrUpdateVirtualNetwork"
	OpCreateNetworkInterface = "CreateOrUpdateNetworkInterface"
	OpCreateVirtualMachine   = "CreateOrUpdateVirtualMachine"
)

const subscriptionID = "00000000-0000-0000-0000-000000000000"

// Call records one provider invocation.
type Call struct {
	Op    string
	Group string
	Name  string
}

type group struct {
	handle    cloud.Handle
	resources map[string]cloud.Handle // keyed by kind/name
	order     []string
}

// Provider simulates a cloud provider with create-or-update semantics and
// cascading group deletion.
type Provider struct {
	mu     sync.Mutex
	groups map[string]*group
	calls  []Call
	errors map[string]error
}

// NewProvider creates an empty fake provider.
func NewProvider() *Provider {
	return &Provider{
		groups: make(map[string]*group),
		errors: make(map[string]error),
	}
}

// FailOn makes every subsequent call of op return err.
func (p *Provider) FailOn(op string, err error) *Provider {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.errors[op] = err
	return p
}

// Calls returns a copy of the recorded calls in order.
func (p *Provider) Calls() []Call {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]Call, len(p.calls))
	copy(out, p.calls)
	return out
}

// Ops returns the recorded operation names in order.
func (p *Provider) Ops() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.calls))
	for _, c := range p.calls {
		out = append(out, c.Op)
	}
	return out
}

// CallCount returns how many times op was invoked.
func (p *Provider) CallCount(op string) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	n := 0
	for _, c := range p.calls {
		if c.Op == op {
			n++
		}
	}
	return n
}

// HasResourceGroup reports whether the group currently exists.
func (p *Provider) HasResourceGroup(name string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	_, ok := p.groups[name]
	return ok
}

// Resources returns the handles stored in a group in creation order.
func (p *Provider) Resources(groupName string) []cloud.Handle {
	p.mu.Lock()
	defer p.mu.Unlock()
	g, ok := p.groups[groupName]
	if !ok {
		return nil
	}
	out := make([]cloud.Handle, 0, len(g.order))
	for _, key := range g.order {
		out = append(out, g.resources[key])
	}
	return out
}

// Name implements cloud.Provider.
func (p *Provider) Name() string { return "fake" }

// record logs the call and returns the injected error for op, if any.
// Callers must hold p.mu.
func (p *Provider) record(op, groupName, name string) error {
	p.calls = append(p.calls, Call{Op: op, Group: groupName, Name: name})
	return p.errors[op]
}

// CreateOrUpdateResourceGroup implements cloud.Provider.
func (p *Provider) CreateOrUpdateResourceGroup(_ context.Context, spec cloud.ResourceGroupSpec) (cloud.Handle, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.record(OpCreateResourceGroup, spec.Name, spec.Name); err != nil {
		return cloud.Handle{}, err
	}
	if err := spec.Validate(); err != nil {
		return cloud.Handle{}, err
	}

	if g, ok := p.groups[spec.Name]; ok {
		return g.handle, nil
	}
	h := cloud.Handle{
		Kind:     cloud.KindResourceGroup,
		Name:     spec.Name,
		ID:       fmt.Sprintf("/subscriptions/%s/resourceGroups/%s", subscriptionID, spec.Name),
		Location: spec.Location,
	}
	p.groups[spec.Name] = &group{handle: h, resources: make(map[string]cloud.Handle)}
	return h, nil
}

// GetResourceGroup implements cloud.Provider.
func (p *Provider) GetResourceGroup(_ context.Context, name string) (cloud.Handle, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.record(OpGetResourceGroup, name, name); err != nil {
		return cloud.Handle{}, err
	}
	g, ok := p.groups[name]
	if !ok {
		return cloud.Handle{}, fmt.Errorf("resource group %s: %w", name, cloud.ErrNotFound)
	}
	return g.handle, nil
}

// DeleteResourceGroup implements cloud.Provider.
func (p *Provider) DeleteResourceGroup(_ context.Context, name string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.record(OpDeleteResourceGroup, name, name); err != nil {
		return err
	}
	if _, ok := p.groups[name]; !ok {
		return fmt.Errorf("resource group %s: %w", name, cloud.ErrNotFound)
	}
	delete(p.groups, name)
	return nil
}

// CreateOrUpdateVirtualNetwork implements cloud.Provider.
func (p *Provider) CreateOrUpdateVirtualNetwork(_ context.Context, groupName string, spec cloud.VirtualNetworkSpec) (cloud.Handle, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.record(OpCreateVirtualNetwork, groupName, spec.Name); err != nil {
		return cloud.Handle{}, err
	}
	if err := spec.Validate(); err != nil {
		return cloud.Handle{}, err
	}
	g, err := p.group(groupName)
	if err != nil {
		return cloud.Handle{}, err
	}

	id := p.resourceID(groupName, "Microsoft.Network/virtualNetworks", spec.Name)
	h := cloud.Handle{Kind: cloud.KindVirtualNetwork, Name: spec.Name, ID: id, Location: spec.Location}
	for _, sub := range spec.Subnets {
		h.Children = append(h.Children, cloud.Handle{
			Kind:     cloud.KindSubnet,
			Name:     sub.Name,
			ID:       id + "/subnets/" + sub.Name,
			Location: spec.Location,
		})
	}
	g.put(h)
	return h, nil
}

// CreateOrUpdateNetworkInterface implements cloud.Provider.
func (p *Provider) CreateOrUpdateNetworkInterface(_ context.Context, groupName string, spec cloud.NetworkInterfaceSpec) (cloud.Handle, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.record(OpCreateNetworkInterface, groupName, spec.Name); err != nil {
		return cloud.Handle{}, err
	}
	if err := spec.Validate(); err != nil {
		return cloud.Handle{}, err
	}
	g, err := p.group(groupName)
	if err != nil {
		return cloud.Handle{}, err
	}

	h := cloud.Handle{
		Kind:     cloud.KindNetworkInterface,
		Name:     spec.Name,
		ID:       p.resourceID(groupName, "Microsoft.Network/networkInterfaces", spec.Name),
		Location: spec.Location,
	}
	g.put(h)
	return h, nil
}

// CreateOrUpdateVirtualMachine implements cloud.Provider.
func (p *Provider) CreateOrUpdateVirtualMachine(_ context.Context, groupName string, spec cloud.VirtualMachineSpec) (cloud.Handle, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.record(OpCreateVirtualMachine, groupName, spec.Name); err != nil {
		return cloud.Handle{}, err
	}
	if err := spec.Validate(); err != nil {
		return cloud.Handle{}, err
	}
	g, err := p.group(groupName)
	if err != nil {
		return cloud.Handle{}, err
	}

	h := cloud.Handle{
		Kind:     cloud.KindVirtualMachine,
		Name:     spec.Name,
		ID:       p.resourceID(groupName, "Microsoft.Compute/virtualMachines", spec.Name),
		Location: spec.Location,
	}
	g.put(h)
	return h, nil
}

func (p *Provider) group(name string) (*group, error) {
	g, ok := p.groups[name]
	if !ok {
		return nil, fmt.Errorf("resource group %s: %w", name, cloud.ErrNotFound)
	}
	return g, nil
}

func (p *Provider) resourceID(groupName, resourceType, name string) string {
	return fmt.Sprintf("/subscriptions/%s/resourceGroups/%s/providers/%s/%s", subscriptionID, groupName, resourceType, name)
}

func (g *group) put(h cloud.Handle) {
	key := string(h.Kind) + "/" + h.Name
	if _, exists := g.resources[key]; !exists {
		g.order = append(g.order, key)
	}
	g.resources[key] = h
}

var _ cloud.Provider = (*Provider)(nil)
