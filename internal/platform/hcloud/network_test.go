package hcloud

import (
	"context"
	"net/http"
	"testing"

	"github.com/hetznercloud/hcloud-go/v2/hcloud"
	"github.com/hetznercloud/hcloud-go/v2/hcloud/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/imamik/vmprovision/internal/cloud"
	"github.com/imamik/vmprovision/internal/util/labels"
)

func vnetSpec() cloud.VirtualNetworkSpec {
	return cloud.VirtualNetworkSpec{
		Name:         "testVnet",
		Location:     "fsn1",
		AddressSpace: []string{"10.0.0.0/16"},
		Subnets:      []cloud.SubnetSpec{{Name: "testSubnet", AddressPrefix: "10.0.2.0/24"}},
		Tags:         map[string]string{cloud.TagRunID: "r1"},
	}
}

func TestCreateOrUpdateVirtualNetwork_Creates(t *testing.T) {
	t.Parallel()
	ts := newTestServer(t)

	var created, subnet map[string]any
	ts.handleFunc("/networks", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			created = decodeBody(t, r)
			jsonResponse(w, http.StatusCreated, schema.NetworkCreateResponse{
				Network: schema.Network{ID: 100, Name: "testVnet", IPRange: "10.0.0.0/16"},
			})
			return
		}
		jsonResponse(w, http.StatusOK, schema.NetworkListResponse{Networks: []schema.Network{}})
	})
	ts.handleFunc("/networks/100/actions/add_subnet", func(w http.ResponseWriter, r *http.Request) {
		subnet = decodeBody(t, r)
		jsonResponse(w, http.StatusCreated, map[string]any{"action": succeededAction(2, "add_subnet")})
	})

	h, err := ts.provider().CreateOrUpdateVirtualNetwork(context.Background(), "testRG", vnetSpec())
	require.NoError(t, err)

	assert.Equal(t, cloud.KindVirtualNetwork, h.Kind)
	assert.Equal(t, "100", h.ID)
	assert.Equal(t, "testVnet", h.Name)

	child, ok := h.Child(cloud.KindSubnet, "testSubnet")
	require.True(t, ok)
	assert.Equal(t, "100:10.0.2.0/24", child.ID)

	require.NotNil(t, created)
	assert.Equal(t, "10.0.0.0/16", created["ip_range"])
	createdLabels, ok := created["labels"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "testRG", createdLabels[labels.KeyResourceGroup])
	assert.Equal(t, "r1", createdLabels[labels.KeyRunID])

	require.NotNil(t, subnet)
	assert.Equal(t, "cloud", subnet["type"])
	assert.Equal(t, "10.0.2.0/24", subnet["ip_range"])
	assert.Equal(t, "eu-central", subnet["network_zone"])
}

func TestCreateOrUpdateVirtualNetwork_ExistingSubnetIsKept(t *testing.T) {
	t.Parallel()
	ts := newTestServer(t)

	existing := schema.Network{
		ID:      100,
		Name:    "testVnet",
		IPRange: "10.0.0.0/16",
		Subnets: []schema.NetworkSubnet{{Type: "cloud", IPRange: "10.0.2.0/24", NetworkZone: "eu-central", Gateway: "10.0.0.1"}},
	}
	ts.handleFunc("/networks", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			t.Error("existing network must not be recreated")
			return
		}
		jsonResponse(w, http.StatusOK, schema.NetworkListResponse{Networks: []schema.Network{existing}})
	})
	ts.handleFunc("/networks/100", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		jsonResponse(w, http.StatusOK, map[string]any{"network": existing})
	})
	ts.handleFunc("/networks/100/actions/add_subnet", func(w http.ResponseWriter, r *http.Request) {
		t.Error("existing subnet must not be added again")
	})

	h, err := ts.provider().CreateOrUpdateVirtualNetwork(context.Background(), "testRG", vnetSpec())
	require.NoError(t, err)
	require.Len(t, h.Children, 1)
	assert.Equal(t, "100:10.0.2.0/24", h.Children[0].ID)
}

func TestCreateOrUpdateVirtualNetwork_RangeMismatch(t *testing.T) {
	t.Parallel()
	ts := newTestServer(t)
	ts.handleFunc("/networks", func(w http.ResponseWriter, r *http.Request) {
		jsonResponse(w, http.StatusOK, schema.NetworkListResponse{Networks: []schema.Network{
			{ID: 100, Name: "testVnet", IPRange: "192.168.0.0/16"},
		}})
	})

	_, err := ts.provider().CreateOrUpdateVirtualNetwork(context.Background(), "testRG", vnetSpec())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "different IP range")
}

func TestCreateOrUpdateVirtualNetwork_SingleRangeOnly(t *testing.T) {
	t.Parallel()
	ts := newTestServer(t)

	spec := vnetSpec()
	spec.AddressSpace = []string{"10.0.0.0/16", "10.1.0.0/16"}

	_, err := ts.provider().CreateOrUpdateVirtualNetwork(context.Background(), "testRG", spec)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "single ip range")
	assert.Empty(t, ts.calls())
}

func TestNetworkZone(t *testing.T) {
	t.Parallel()
	tests := []struct {
		location string
		want     hcloud.NetworkZone
	}{
		{"fsn1", "eu-central"},
		{"nbg1", "eu-central"},
		{"hel1", "eu-central"},
		{"ash", "us-east"},
		{"hil", "us-west"},
		{"sin", "ap-southeast"},
		{"unknown", "eu-central"},
	}
	for _, tt := range tests {
		t.Run(tt.location, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, NetworkZone(tt.location))
		})
	}
}

func TestParseSubnetID(t *testing.T) {
	t.Parallel()

	id, ipRange, err := ParseSubnetID(SubnetID(100, "10.0.2.0/24"))
	require.NoError(t, err)
	assert.Equal(t, int64(100), id)
	assert.Equal(t, "10.0.2.0/24", ipRange)

	for _, bad := range []string{"", "100", "abc:10.0.2.0/24", "0:10.0.2.0/24", "100:not-a-cidr"} {
		_, _, err := ParseSubnetID(bad)
		assert.Error(t, err, "input %q", bad)
	}
}

func TestCreateOrUpdateNetworkInterface_Creates(t *testing.T) {
	t.Parallel()
	ts := newTestServer(t)

	ts.handleFunc("/datacenters", func(w http.ResponseWriter, r *http.Request) {
		jsonResponse(w, http.StatusOK, map[string]any{"datacenters": []any{
			map[string]any{"id": 2, "name": "nbg1-dc3", "location": map[string]any{"id": 2, "name": "nbg1"}},
			map[string]any{"id": 4, "name": "fsn1-dc14", "location": map[string]any{"id": 1, "name": "fsn1"}},
		}})
	})
	var sent map[string]any
	ts.handleFunc("/primary_ips", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			sent = decodeBody(t, r)
			jsonResponse(w, http.StatusCreated, map[string]any{
				"primary_ip": primaryIPJSON(7, "testNIC", map[string]string{labels.KeyNetwork: "100"}),
				"action":     nil,
			})
			return
		}
		jsonResponse(w, http.StatusOK, map[string]any{"primary_ips": []any{}})
	})

	h, err := ts.provider().CreateOrUpdateNetworkInterface(context.Background(), "testRG", cloud.NetworkInterfaceSpec{
		Name:     "testNIC",
		Location: "fsn1",
		IPConfigurations: []cloud.IPConfiguration{
			{Name: "internal", SubnetName: "testSubnet", SubnetID: "100:10.0.2.0/24", Primary: true},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, cloud.Handle{Kind: cloud.KindNetworkInterface, Name: "testNIC", ID: "7", Location: "fsn1"}, h)

	require.NotNil(t, sent)
	assert.Equal(t, "testNIC", sent["name"])
	assert.Equal(t, "ipv4", sent["type"])
	assert.Equal(t, "server", sent["assignee_type"])
	assert.Equal(t, "fsn1-dc14", sent["datacenter"])
	assert.Equal(t, false, sent["auto_delete"])
	sentLabels, ok := sent["labels"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "100", sentLabels[labels.KeyNetwork])
	assert.Equal(t, "testRG", sentLabels[labels.KeyResourceGroup])
}

func TestCreateOrUpdateNetworkInterface_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		location string
		subnetID string
		wantErr  string
	}{
		{"subnet id without network", "fsn1", "subnet-id", "invalid subnet id"},
		{"unknown location", "mars1", "100:10.0.2.0/24", "no datacenter in location mars1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			ts := newTestServer(t)
			ts.handleFunc("/datacenters", func(w http.ResponseWriter, r *http.Request) {
				jsonResponse(w, http.StatusOK, map[string]any{"datacenters": []any{
					map[string]any{"id": 4, "name": "fsn1-dc14", "location": map[string]any{"id": 1, "name": "fsn1"}},
				}})
			})
			ts.handleFunc("/primary_ips", func(w http.ResponseWriter, r *http.Request) {
				t.Error("no primary ip call expected")
			})

			_, err := ts.provider().CreateOrUpdateNetworkInterface(context.Background(), "testRG", cloud.NetworkInterfaceSpec{
				Name:     "testNIC",
				Location: tt.location,
				IPConfigurations: []cloud.IPConfiguration{
					{Name: "internal", SubnetID: tt.subnetID, Primary: true},
				},
			})
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
