package hcloud

import (
	"context"
	"fmt"
	"net"
	"net/netip"
	"strconv"
	"strings"

	"github.com/hetznercloud/hcloud-go/v2/hcloud"

	"github.com/imamik/vmprovision/internal/cloud"
	"github.com/imamik/vmprovision/internal/util/labels"
)

// locationZones maps Hetzner locations to network zones.
var locationZones = map[string]hcloud.NetworkZone{
	"fsn1": "eu-central",
	"nbg1": "eu-central",
	"hel1": "eu-central",
	"ash":  "us-east",
	"hil":  "us-west",
	"sin":  "ap-southeast",
}

// NetworkZone returns the network zone for a location, defaulting to eu-central.
func NetworkZone(location string) hcloud.NetworkZone {
	if zone, ok := locationZones[location]; ok {
		return zone
	}
	return "eu-central"
}

// CreateOrUpdateVirtualNetwork ensures the network and each of its subnets.
func (p *Provider) CreateOrUpdateVirtualNetwork(ctx context.Context, group string, spec cloud.VirtualNetworkSpec) (cloud.Handle, error) {
	if err := spec.Validate(); err != nil {
		return cloud.Handle{}, err
	}
	if len(spec.AddressSpace) != 1 {
		return cloud.Handle{}, fmt.Errorf("virtual network %s: hcloud networks have a single ip range, got %d", spec.Name, len(spec.AddressSpace))
	}
	ipRange := canonicalPrefix(spec.AddressSpace[0])
	networkLabels := labels.NewLabelBuilder(group).MergeTags(spec.Tags).Build()

	network, err := (&EnsureOperation[*hcloud.Network, hcloud.NetworkCreateOpts, hcloud.NetworkUpdateOpts]{
		Name:         spec.Name,
		ResourceType: "network",
		Get:          p.client.Network.Get,
		Create:       simpleCreate(p.client.Network.Create),
		Update:       p.client.Network.Update,
		Validate: func(network *hcloud.Network) error {
			if network.IPRange == nil || network.IPRange.String() != ipRange {
				return fmt.Errorf("network %s exists but with different IP range %v (expected %s)",
					spec.Name, network.IPRange, ipRange)
			}
			return nil
		},
		CreateOptsMapper: func() hcloud.NetworkCreateOpts {
			_, ipNet, _ := net.ParseCIDR(ipRange)
			return hcloud.NetworkCreateOpts{
				Name:    spec.Name,
				IPRange: ipNet,
				Labels:  networkLabels,
			}
		},
		UpdateOptsMapper: func(*hcloud.Network) hcloud.NetworkUpdateOpts {
			return hcloud.NetworkUpdateOpts{Labels: networkLabels}
		},
	}).Execute(ctx, p)
	if err != nil {
		return cloud.Handle{}, fmt.Errorf("create virtual network %s in %s: %w", spec.Name, group, err)
	}

	zone := NetworkZone(spec.Location)
	h := cloud.Handle{
		Kind:     cloud.KindVirtualNetwork,
		Name:     network.Name,
		ID:       strconv.FormatInt(network.ID, 10),
		Location: spec.Location,
	}
	for _, sub := range spec.Subnets {
		prefix := canonicalPrefix(sub.AddressPrefix)
		if err := p.ensureSubnet(ctx, network, prefix, zone); err != nil {
			return cloud.Handle{}, fmt.Errorf("create subnet %s in %s: %w", sub.Name, spec.Name, err)
		}
		h.Children = append(h.Children, cloud.Handle{
			Kind:     cloud.KindSubnet,
			Name:     sub.Name,
			ID:       SubnetID(network.ID, prefix),
			Location: spec.Location,
		})
	}
	return h, nil
}

// ensureSubnet adds a cloud subnet unless one with the same range exists.
func (p *Provider) ensureSubnet(ctx context.Context, network *hcloud.Network, ipRange string, zone hcloud.NetworkZone) error {
	for _, subnet := range network.Subnets {
		if subnet.IPRange != nil && subnet.IPRange.String() == ipRange {
			return nil
		}
	}

	_, ipNet, err := net.ParseCIDR(ipRange)
	if err != nil {
		return fmt.Errorf("invalid subnet ip range: %w", err)
	}

	action, _, err := p.client.Network.AddSubnet(ctx, network, hcloud.NetworkAddSubnetOpts{
		Subnet: hcloud.NetworkSubnet{
			Type:        hcloud.NetworkSubnetTypeCloud,
			IPRange:     ipNet,
			NetworkZone: zone,
		},
	})
	if err != nil {
		return fmt.Errorf("failed to add subnet: %w", err)
	}

	if err := p.waitForActions(ctx, action); err != nil {
		return fmt.Errorf("failed to wait for subnet creation: %w", err)
	}
	return nil
}

// SubnetID builds the identifier of a Hetzner subnet, which has no id of
// its own.
func SubnetID(networkID int64, ipRange string) string {
	return fmt.Sprintf("%d:%s", networkID, ipRange)
}

// ParseSubnetID splits a SubnetID value.
func ParseSubnetID(id string) (networkID int64, ipRange string, err error) {
	idPart, rangePart, ok := strings.Cut(id, ":")
	if !ok {
		return 0, "", fmt.Errorf("invalid subnet id %q", id)
	}
	networkID, err = strconv.ParseInt(idPart, 10, 64)
	if err != nil || networkID <= 0 {
		return 0, "", fmt.Errorf("invalid subnet id %q: bad network id", id)
	}
	if _, err := netip.ParsePrefix(rangePart); err != nil {
		return 0, "", fmt.Errorf("invalid subnet id %q: %w", id, err)
	}
	return networkID, rangePart, nil
}

// canonicalPrefix masks a validated CIDR so it compares equal to what the
// API returns.
func canonicalPrefix(cidr string) string {
	p, err := netip.ParsePrefix(cidr)
	if err != nil {
		return cidr
	}
	return p.Masked().String()
}
