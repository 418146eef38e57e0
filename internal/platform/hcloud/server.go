package hcloud

import (
	"context"
	"fmt"
	"strconv"

	"github.com/hetznercloud/hcloud-go/v2/hcloud"

	"github.com/imamik/vmprovision/internal/cloud"
	"github.com/imamik/vmprovision/internal/util/labels"
	"github.com/imamik/vmprovision/internal/util/retry"
)

// CreateOrUpdateVirtualMachine creates the server unless one with the same
// name exists. Servers cannot be reshaped in place, so an existing server is
// returned as is.
func (p *Provider) CreateOrUpdateVirtualMachine(ctx context.Context, group string, spec cloud.VirtualMachineSpec) (cloud.Handle, error) {
	if err := spec.Validate(); err != nil {
		return cloud.Handle{}, err
	}

	existing, _, err := p.client.Server.Get(ctx, spec.Name)
	if err != nil {
		return cloud.Handle{}, fmt.Errorf("failed to get server %s: %w", spec.Name, err)
	}
	if existing != nil {
		return serverHandle(existing, spec.Location), nil
	}

	opts, err := p.buildServerCreateOpts(ctx, group, spec)
	if err != nil {
		return cloud.Handle{}, fmt.Errorf("create virtual machine %s in %s: %w", spec.Name, group, err)
	}

	result, err := p.createServerWithRetry(ctx, opts)
	if err != nil {
		return cloud.Handle{}, fmt.Errorf("create virtual machine %s in %s: %w", spec.Name, group, err)
	}
	return serverHandle(result.Server, spec.Location), nil
}

// buildServerCreateOpts resolves all dependencies and builds server creation options.
func (p *Provider) buildServerCreateOpts(ctx context.Context, group string, spec cloud.VirtualMachineSpec) (hcloud.ServerCreateOpts, error) {
	ip, err := p.resolvePrimaryIP(ctx, spec.NetworkInterfaceID)
	if err != nil {
		return hcloud.ServerCreateOpts{}, err
	}

	network, err := p.resolveNetwork(ctx, ip)
	if err != nil {
		return hcloud.ServerCreateOpts{}, err
	}

	serverType, _, err := p.client.ServerType.Get(ctx, spec.Size)
	if err != nil {
		return hcloud.ServerCreateOpts{}, fmt.Errorf("failed to get server type: %w", err)
	}
	if serverType == nil {
		return hcloud.ServerCreateOpts{}, fmt.Errorf("server type not found: %s", spec.Size)
	}

	image, _, err := p.client.Image.GetForArchitecture(ctx, spec.Image.String(), serverType.Architecture)
	if err != nil {
		return hcloud.ServerCreateOpts{}, fmt.Errorf("failed to get image: %w", err)
	}
	if image == nil {
		return hcloud.ServerCreateOpts{}, fmt.Errorf("image not found: %s (%s)", spec.Image, serverType.Architecture)
	}

	placement, err := p.getGroupPlacement(ctx, group)
	if err != nil {
		return hcloud.ServerCreateOpts{}, err
	}

	serverLabels := labels.NewLabelBuilder(group).MergeTags(spec.Tags).Build()

	key, err := p.ensureSSHKey(ctx, spec.Name+"-"+spec.Admin.Username, spec.Admin.SSHPublicKey, serverLabels)
	if err != nil {
		return hcloud.ServerCreateOpts{}, err
	}

	data, err := userData(spec.Admin)
	if err != nil {
		return hcloud.ServerCreateOpts{}, err
	}

	opts := hcloud.ServerCreateOpts{
		Name:           spec.Name,
		ServerType:     serverType,
		Image:          image,
		SSHKeys:        []*hcloud.SSHKey{key},
		Labels:         serverLabels,
		UserData:       data,
		PlacementGroup: placement,
		Networks:       []*hcloud.Network{network},
		PublicNet: &hcloud.ServerCreatePublicNet{
			EnableIPv4: true,
			EnableIPv6: false,
			IPv4:       ip,
		},
	}
	if ip.Datacenter == nil {
		opts.Location = &hcloud.Location{Name: spec.Location}
	}
	return opts, nil
}

// resolvePrimaryIP loads the primary IP behind a network interface id.
func (p *Provider) resolvePrimaryIP(ctx context.Context, nicID string) (*hcloud.PrimaryIP, error) {
	id, err := strconv.ParseInt(nicID, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid network interface id %q", nicID)
	}
	ip, _, err := p.client.PrimaryIP.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get primary ip: %w", err)
	}
	if ip == nil {
		return nil, notFound("network interface", nicID)
	}
	return ip, nil
}

// resolveNetwork loads the network a primary IP is labelled with.
func (p *Provider) resolveNetwork(ctx context.Context, ip *hcloud.PrimaryIP) (*hcloud.Network, error) {
	raw := ip.Labels[labels.KeyNetwork]
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("network interface %s is not bound to a network", ip.Name)
	}
	network, _, err := p.client.Network.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get network: %w", err)
	}
	if network == nil {
		return nil, notFound("virtual network", raw)
	}
	return network, nil
}

// createServerWithRetry creates a server with exponential backoff retry logic.
func (p *Provider) createServerWithRetry(ctx context.Context, opts hcloud.ServerCreateOpts) (hcloud.ServerCreateResult, error) {
	var result hcloud.ServerCreateResult

	err := retry.Do(ctx, func(ctx context.Context) error {
		res, _, err := p.client.Server.Create(ctx, opts)
		if err != nil {
			if isInvalidParameter(err) {
				return retry.Fatal(err)
			}
			return err
		}
		result = res
		return nil
	}, p.retryOptions("server", opts.Name)...)
	if err != nil {
		return result, fmt.Errorf("failed to create server: %w", err)
	}

	if err := p.waitForActions(ctx, append([]*hcloud.Action{result.Action}, result.NextActions...)...); err != nil {
		return result, fmt.Errorf("failed to wait for server creation: %w", err)
	}
	return result, nil
}

func serverHandle(s *hcloud.Server, location string) cloud.Handle {
	if s.Datacenter != nil && s.Datacenter.Location != nil && s.Datacenter.Location.Name != "" {
		location = s.Datacenter.Location.Name
	}
	return cloud.Handle{
		Kind:     cloud.KindVirtualMachine,
		Name:     s.Name,
		ID:       strconv.FormatInt(s.ID, 10),
		Location: location,
	}
}
