package hcloud

import (
	"context"
	"errors"
	"fmt"

	"github.com/hetznercloud/hcloud-go/v2/hcloud"

	"github.com/imamik/vmprovision/internal/util/labels"
	"github.com/imamik/vmprovision/internal/util/retry"
)

// CleanupError represents accumulated errors from cleanup operations.
type CleanupError struct {
	Errors []error
}

func (e *CleanupError) Error() string {
	if len(e.Errors) == 1 {
		return e.Errors[0].Error()
	}
	return fmt.Sprintf("cleanup encountered %d errors: %v", len(e.Errors), e.Errors)
}

func (e *CleanupError) Unwrap() error {
	if len(e.Errors) == 1 {
		return e.Errors[0]
	}
	return errors.Join(e.Errors...)
}

// Add records err if it is non-nil.
func (e *CleanupError) Add(err error) {
	if err != nil {
		e.Errors = append(e.Errors, err)
	}
}

// HasErrors reports whether any error was recorded.
func (e *CleanupError) HasErrors() bool {
	return len(e.Errors) > 0
}

// resource is a constraint for the Hetzner Cloud resources a group can hold.
type resource interface {
	*hcloud.Server | *hcloud.PrimaryIP | *hcloud.Network | *hcloud.SSHKey
}

type resourceInfo struct {
	Name string
	ID   int64
}

func getResourceInfo[T resource](r T) resourceInfo {
	switch v := any(r).(type) {
	case *hcloud.Server:
		return resourceInfo{Name: v.Name, ID: v.ID}
	case *hcloud.PrimaryIP:
		return resourceInfo{Name: v.Name, ID: v.ID}
	case *hcloud.Network:
		return resourceInfo{Name: v.Name, ID: v.ID}
	case *hcloud.SSHKey:
		return resourceInfo{Name: v.Name, ID: v.ID}
	default:
		return resourceInfo{}
	}
}

// deleteResourcesByLabel lists resources with listFn and deletes each one,
// retrying while a resource is locked or still in use. Every resource is
// attempted; failures are joined.
func deleteResourcesByLabel[T resource](
	ctx context.Context,
	p *Provider,
	resourceType string,
	listFn func(context.Context) ([]T, error),
	deleteFn func(context.Context, T) error,
) error {
	resources, err := listFn(ctx)
	if err != nil {
		return fmt.Errorf("failed to list %s: %w", resourceType, err)
	}

	var deleteErrs []error
	for _, r := range resources {
		info := getResourceInfo(r)
		p.log.Info("deleting", "kind", resourceType, "name", info.Name, "id", info.ID)

		err := retry.Do(ctx, func(ctx context.Context) error {
			return classifyDeleteError(deleteFn(ctx, r))
		}, p.retryOptions(resourceType, info.Name)...)
		if err != nil {
			p.log.Error(err, "delete failed", "kind", resourceType, "name", info.Name, "id", info.ID)
			deleteErrs = append(deleteErrs, fmt.Errorf("%s %q: %w", resourceType, info.Name, err))
		}
	}

	return errors.Join(deleteErrs...)
}

// CleanupByLabel deletes every server, primary IP, network and SSH key
// matching the label selector, in that order so that nothing is deleted
// while still attached. All kinds are attempted even if some deletions fail.
func (p *Provider) CleanupByLabel(ctx context.Context, labelSelector map[string]string) error {
	selector := labels.Selector(labelSelector)
	p.log.Info("starting cleanup", "selector", selector)

	cleanupErrs := &CleanupError{}
	listOpts := hcloud.ListOpts{LabelSelector: selector}

	cleanupErrs.Add(wrapKind("servers", deleteResourcesByLabel(ctx, p, "server",
		func(ctx context.Context) ([]*hcloud.Server, error) {
			return p.client.Server.AllWithOpts(ctx, hcloud.ServerListOpts{ListOpts: listOpts})
		},
		func(ctx context.Context, s *hcloud.Server) error {
			res, _, err := p.client.Server.DeleteWithResult(ctx, s)
			if err != nil {
				return err
			}
			return p.waitForActions(ctx, res.Action)
		},
	)))

	cleanupErrs.Add(wrapKind("primary IPs", deleteResourcesByLabel(ctx, p, "primary ip",
		func(ctx context.Context) ([]*hcloud.PrimaryIP, error) {
			return p.client.PrimaryIP.AllWithOpts(ctx, hcloud.PrimaryIPListOpts{ListOpts: listOpts})
		},
		func(ctx context.Context, ip *hcloud.PrimaryIP) error {
			_, err := p.client.PrimaryIP.Delete(ctx, ip)
			return err
		},
	)))

	cleanupErrs.Add(wrapKind("networks", deleteResourcesByLabel(ctx, p, "network",
		func(ctx context.Context) ([]*hcloud.Network, error) {
			return p.client.Network.AllWithOpts(ctx, hcloud.NetworkListOpts{ListOpts: listOpts})
		},
		func(ctx context.Context, n *hcloud.Network) error {
			_, err := p.client.Network.Delete(ctx, n)
			return err
		},
	)))

	cleanupErrs.Add(wrapKind("SSH keys", deleteResourcesByLabel(ctx, p, "ssh key",
		func(ctx context.Context) ([]*hcloud.SSHKey, error) {
			return p.client.SSHKey.AllWithOpts(ctx, hcloud.SSHKeyListOpts{ListOpts: listOpts})
		},
		func(ctx context.Context, k *hcloud.SSHKey) error {
			_, err := p.client.SSHKey.Delete(ctx, k)
			return err
		},
	)))

	if cleanupErrs.HasErrors() {
		p.log.Info("cleanup completed with errors", "errors", len(cleanupErrs.Errors))
		return cleanupErrs
	}

	p.log.Info("cleanup complete", "selector", selector)
	return nil
}

func wrapKind(kind string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", kind, err)
}
