package cloud

import (
	"errors"
	"fmt"
	"net/netip"
)

// Validate checks the resource group spec.
func (s ResourceGroupSpec) Validate() error {
	if s.Name == "" {
		return errors.New("resource group name is required")
	}
	if s.Location == "" {
		return fmt.Errorf("resource group %s: location is required", s.Name)
	}
	return nil
}

// Validate checks that the address space parses and that every subnet has a
// unique name and lies inside the address space.
func (s VirtualNetworkSpec) Validate() error {
	if s.Name == "" {
		return errors.New("virtual network name is required")
	}
	if len(s.AddressSpace) == 0 {
		return fmt.Errorf("virtual network %s: address space is empty", s.Name)
	}

	space := make([]netip.Prefix, 0, len(s.AddressSpace))
	for _, cidr := range s.AddressSpace {
		p, err := netip.ParsePrefix(cidr)
		if err != nil {
			return fmt.Errorf("virtual network %s: invalid address prefix %q: %w", s.Name, cidr, err)
		}
		space = append(space, p.Masked())
	}

	if len(s.Subnets) == 0 {
		return fmt.Errorf("virtual network %s: at least one subnet is required", s.Name)
	}

	seen := make(map[string]bool, len(s.Subnets))
	for _, sub := range s.Subnets {
		if sub.Name == "" {
			return fmt.Errorf("virtual network %s: subnet name is required", s.Name)
		}
		if seen[sub.Name] {
			return fmt.Errorf("virtual network %s: duplicate subnet %s", s.Name, sub.Name)
		}
		seen[sub.Name] = true

		p, err := netip.ParsePrefix(sub.AddressPrefix)
		if err != nil {
			return fmt.Errorf("subnet %s: invalid address prefix %q: %w", sub.Name, sub.AddressPrefix, err)
		}
		if !withinAny(space, p.Masked()) {
			return fmt.Errorf("subnet %s: prefix %s is outside the address space %v", sub.Name, sub.AddressPrefix, s.AddressSpace)
		}
	}
	return nil
}

func withinAny(space []netip.Prefix, p netip.Prefix) bool {
	for _, outer := range space {
		if outer.Bits() <= p.Bits() && outer.Contains(p.Addr()) {
			return true
		}
	}
	return false
}

// Validate checks that the interface has configurations bound to subnets and
// that exactly one of them is primary.
func (s NetworkInterfaceSpec) Validate() error {
	if s.Name == "" {
		return errors.New("network interface name is required")
	}
	if len(s.IPConfigurations) == 0 {
		return fmt.Errorf("network interface %s: at least one ip configuration is required", s.Name)
	}

	primaries := 0
	for _, c := range s.IPConfigurations {
		if c.Name == "" {
			return fmt.Errorf("network interface %s: ip configuration name is required", s.Name)
		}
		if c.SubnetID == "" {
			return fmt.Errorf("network interface %s: ip configuration %s has no subnet id", s.Name, c.Name)
		}
		if c.Primary {
			primaries++
		}
	}
	if primaries != 1 {
		return fmt.Errorf("network interface %s: exactly one primary ip configuration is required, got %d", s.Name, primaries)
	}
	return nil
}

// Validate checks the virtual machine spec.
func (s VirtualMachineSpec) Validate() error {
	switch {
	case s.Name == "":
		return errors.New("virtual machine name is required")
	case s.Size == "":
		return fmt.Errorf("virtual machine %s: size is required", s.Name)
	case s.NetworkInterfaceID == "":
		return fmt.Errorf("virtual machine %s: network interface id is required", s.Name)
	case s.Image.SKU == "":
		return fmt.Errorf("virtual machine %s: image is required", s.Name)
	case s.Admin.Username == "":
		return fmt.Errorf("virtual machine %s: admin username is required", s.Name)
	case s.Admin.SSHPublicKey == "":
		return fmt.Errorf("virtual machine %s: ssh public key is required", s.Name)
	}
	return nil
}
