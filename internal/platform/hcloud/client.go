package hcloud

import (
	"github.com/go-logr/logr"
	"github.com/hetznercloud/hcloud-go/v2/hcloud"

	"github.com/imamik/vmprovision/internal/cloud"
	"github.com/imamik/vmprovision/internal/config"
)

// Provider implements cloud.Provider using the Hetzner Cloud API.
type Provider struct {
	client   *hcloud.Client
	timeouts *config.Timeouts
	log      logr.Logger
}

var _ cloud.Provider = (*Provider)(nil)

// Option configures a Provider.
type Option func(*Provider)

// WithTimeouts sets custom timeouts and retry settings.
func WithTimeouts(t *config.Timeouts) Option {
	return func(p *Provider) {
		p.timeouts = t
	}
}

// WithHCloudClient sets a custom hcloud client (useful for testing).
func WithHCloudClient(hc *hcloud.Client) Option {
	return func(p *Provider) {
		p.client = hc
	}
}

// WithLogger sets the logger used for cleanup progress.
func WithLogger(log logr.Logger) Option {
	return func(p *Provider) {
		p.log = log
	}
}

// NewProvider creates a Provider authenticated with token.
func NewProvider(token string, opts ...Option) *Provider {
	p := &Provider{
		client:   hcloud.NewClient(hcloud.WithToken(token), hcloud.WithApplication("vmprovision", "")),
		timeouts: config.LoadTimeouts(),
		log:      logr.Discard(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Name implements cloud.Provider.
func (p *Provider) Name() string { return "hcloud" }
