package hcloud

import (
	"context"
	"fmt"
	"strconv"

	"github.com/hetznercloud/hcloud-go/v2/hcloud"

	"github.com/imamik/vmprovision/internal/cloud"
	"github.com/imamik/vmprovision/internal/util/labels"
)

// CreateOrUpdateNetworkInterface ensures an unassigned IPv4 Primary IP in the
// location's datacenter. The network of the primary ip configuration is
// recorded as a label so the server can be attached to it.
func (p *Provider) CreateOrUpdateNetworkInterface(ctx context.Context, group string, spec cloud.NetworkInterfaceSpec) (cloud.Handle, error) {
	if err := spec.Validate(); err != nil {
		return cloud.Handle{}, err
	}
	primary, _ := spec.PrimaryIPConfiguration()
	networkID, _, err := ParseSubnetID(primary.SubnetID)
	if err != nil {
		return cloud.Handle{}, fmt.Errorf("network interface %s: %w", spec.Name, err)
	}

	dc, err := p.resolveDatacenter(ctx, spec.Location)
	if err != nil {
		return cloud.Handle{}, fmt.Errorf("network interface %s: %w", spec.Name, err)
	}

	ipLabels := labels.NewLabelBuilder(group).
		MergeTags(spec.Tags).
		WithNetwork(strconv.FormatInt(networkID, 10)).
		Build()

	ip, err := (&EnsureOperation[*hcloud.PrimaryIP, hcloud.PrimaryIPCreateOpts, any]{
		Name:         spec.Name,
		ResourceType: "primary ip",
		Get:          p.client.PrimaryIP.Get,
		Create:       p.createPrimaryIP,
		Validate: func(ip *hcloud.PrimaryIP) error {
			if ip.Type != hcloud.PrimaryIPTypeIPv4 {
				return fmt.Errorf("primary ip %s exists but has type %s", spec.Name, ip.Type)
			}
			if ip.Labels[labels.KeyNetwork] != ipLabels[labels.KeyNetwork] {
				return fmt.Errorf("primary ip %s exists but is bound to network %q", spec.Name, ip.Labels[labels.KeyNetwork])
			}
			return nil
		},
		CreateOptsMapper: func() hcloud.PrimaryIPCreateOpts {
			return hcloud.PrimaryIPCreateOpts{
				Name:         spec.Name,
				Type:         hcloud.PrimaryIPTypeIPv4,
				AssigneeType: "server",
				Datacenter:   dc.Name, //nolint:staticcheck
				AutoDelete:   hcloud.Ptr(false),
				Labels:       ipLabels,
			}
		},
	}).Execute(ctx, p)
	if err != nil {
		return cloud.Handle{}, fmt.Errorf("create network interface %s in %s: %w", spec.Name, group, err)
	}

	return cloud.Handle{
		Kind:     cloud.KindNetworkInterface,
		Name:     ip.Name,
		ID:       strconv.FormatInt(ip.ID, 10),
		Location: spec.Location,
	}, nil
}

func (p *Provider) createPrimaryIP(ctx context.Context, opts hcloud.PrimaryIPCreateOpts) (*CreateResult[*hcloud.PrimaryIP], *hcloud.Response, error) {
	res, resp, err := p.client.PrimaryIP.Create(ctx, opts)
	if err != nil {
		return nil, resp, err
	}
	return &CreateResult[*hcloud.PrimaryIP]{Resource: res.PrimaryIP, Action: res.Action}, resp, nil
}

// resolveDatacenter returns the first datacenter in location.
func (p *Provider) resolveDatacenter(ctx context.Context, location string) (*hcloud.Datacenter, error) {
	dcs, err := p.client.Datacenter.All(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list datacenters: %w", err)
	}
	for _, dc := range dcs {
		if dc.Location != nil && dc.Location.Name == location {
			return dc, nil
		}
	}
	return nil, fmt.Errorf("no datacenter in location %s", location)
}
