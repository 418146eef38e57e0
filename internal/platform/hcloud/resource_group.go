package hcloud

import (
	"context"
	"fmt"
	"strconv"

	"github.com/hetznercloud/hcloud-go/v2/hcloud"

	"github.com/imamik/vmprovision/internal/cloud"
	"github.com/imamik/vmprovision/internal/util/labels"
)

// CreateOrUpdateResourceGroup ensures the placement group that stands in for
// the resource group exists and carries the group labels.
func (p *Provider) CreateOrUpdateResourceGroup(ctx context.Context, spec cloud.ResourceGroupSpec) (cloud.Handle, error) {
	if err := spec.Validate(); err != nil {
		return cloud.Handle{}, err
	}
	if err := checkGroupName(spec.Name); err != nil {
		return cloud.Handle{}, err
	}

	groupLabels := labels.NewLabelBuilder(spec.Name).
		MergeTags(spec.Tags).
		WithLocation(spec.Location).
		Build()

	pg, err := (&EnsureOperation[*hcloud.PlacementGroup, hcloud.PlacementGroupCreateOpts, hcloud.PlacementGroupUpdateOpts]{
		Name:         spec.Name,
		ResourceType: "placement group",
		Get:          p.client.PlacementGroup.Get,
		Create:       p.createPlacementGroup,
		Update:       p.client.PlacementGroup.Update,
		Validate: func(pg *hcloud.PlacementGroup) error {
			if !isGroupPlacement(pg, spec.Name) {
				return fmt.Errorf("placement group %s exists but is not managed as a resource group", spec.Name)
			}
			return nil
		},
		CreateOptsMapper: func() hcloud.PlacementGroupCreateOpts {
			return hcloud.PlacementGroupCreateOpts{
				Name:   spec.Name,
				Type:   hcloud.PlacementGroupTypeSpread,
				Labels: groupLabels,
			}
		},
		UpdateOptsMapper: func(*hcloud.PlacementGroup) hcloud.PlacementGroupUpdateOpts {
			return hcloud.PlacementGroupUpdateOpts{Labels: groupLabels}
		},
	}).Execute(ctx, p)
	if err != nil {
		return cloud.Handle{}, fmt.Errorf("create resource group %s: %w", spec.Name, err)
	}
	return groupHandle(pg, spec.Location), nil
}

func (p *Provider) createPlacementGroup(ctx context.Context, opts hcloud.PlacementGroupCreateOpts) (*CreateResult[*hcloud.PlacementGroup], *hcloud.Response, error) {
	res, resp, err := p.client.PlacementGroup.Create(ctx, opts)
	if err != nil {
		return nil, resp, err
	}
	return &CreateResult[*hcloud.PlacementGroup]{Resource: res.PlacementGroup, Action: res.Action}, resp, nil
}

// GetResourceGroup returns cloud.ErrNotFound unless a placement group with
// the group label exists.
func (p *Provider) GetResourceGroup(ctx context.Context, name string) (cloud.Handle, error) {
	if err := checkGroupName(name); err != nil {
		return cloud.Handle{}, err
	}
	pg, err := p.getGroupPlacement(ctx, name)
	if err != nil {
		return cloud.Handle{}, err
	}
	return groupHandle(pg, ""), nil
}

// DeleteResourceGroup deletes every resource labelled with the group, then
// the placement group itself.
func (p *Provider) DeleteResourceGroup(ctx context.Context, name string) error {
	if err := checkGroupName(name); err != nil {
		return err
	}
	if _, err := p.getGroupPlacement(ctx, name); err != nil {
		return err
	}

	if err := p.CleanupByLabel(ctx, labels.SelectorForGroup(name)); err != nil {
		return fmt.Errorf("delete resource group %s: %w", name, err)
	}

	err := (&DeleteOperation[*hcloud.PlacementGroup]{
		Name:         name,
		ResourceType: "placement group",
		Get:          p.client.PlacementGroup.Get,
		Delete:       p.client.PlacementGroup.Delete,
	}).Execute(ctx, p)
	if err != nil {
		return fmt.Errorf("delete resource group %s: %w", name, err)
	}
	return nil
}

func (p *Provider) getGroupPlacement(ctx context.Context, name string) (*hcloud.PlacementGroup, error) {
	pg, _, err := p.client.PlacementGroup.Get(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("get resource group %s: %w", name, err)
	}
	if pg == nil || !isGroupPlacement(pg, name) {
		return nil, notFound("resource group", name)
	}
	return pg, nil
}

func isGroupPlacement(pg *hcloud.PlacementGroup, name string) bool {
	return pg.Labels[labels.KeyResourceGroup] == name
}

func groupHandle(pg *hcloud.PlacementGroup, location string) cloud.Handle {
	if l := pg.Labels[labels.KeyLocation]; l != "" {
		location = l
	}
	return cloud.Handle{
		Kind:     cloud.KindResourceGroup,
		Name:     pg.Name,
		ID:       strconv.FormatInt(pg.ID, 10),
		Location: location,
	}
}

// checkGroupName rejects names that do not survive as a label value
// unchanged. Two such names could share a group label and with it each
// other's resources.
func checkGroupName(name string) error {
	if !labels.IsValidValue(name) {
		return fmt.Errorf("resource group name %q is not a valid label value", name)
	}
	return nil
}
