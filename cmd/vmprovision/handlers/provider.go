// Package handlers implements the CLI commands.
//
// Collaborators are reached through package-level factory variables so tests
// can replace the cloud provider, the report uploader and the output stream.
package handlers

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/go-logr/logr"

	"github.com/imamik/vmprovision/internal/cloud"
	"github.com/imamik/vmprovision/internal/config"
	"github.com/imamik/vmprovision/internal/logging"
	"github.com/imamik/vmprovision/internal/platform/azure"
	"github.com/imamik/vmprovision/internal/platform/hcloud"
	"github.com/imamik/vmprovision/internal/platform/s3"
	"github.com/imamik/vmprovision/internal/util/keygen"
)

// reportUploader stores a rendered run report.
type reportUploader interface {
	Upload(ctx context.Context, bucket, key, contentType string, data []byte) error
}

// Factory function variables - can be replaced in tests.
var (
	loadConfig = config.Load

	newLogger = func() logr.Logger {
		return logging.FromEnv("vmprovision")
	}

	newProvider = defaultProvider

	newUploader = func(ctx context.Context, cfg config.ReportConfig) (reportUploader, error) {
		return s3.NewClient(ctx, cfg)
	}

	generateKeyPair = keygen.GenerateRSAKeyPair

	stdout io.Writer = os.Stdout
)

func defaultProvider(cfg *config.Config, log logr.Logger) (cloud.Provider, error) {
	switch cfg.Provider {
	case config.ProviderAzure:
		p, err := azure.NewProviderFromEnvironment(cfg.Azure.SubscriptionID)
		if err != nil {
			return nil, err
		}
		return p, nil
	case config.ProviderHCloud:
		return hcloud.NewProvider(cfg.HCloud.Token,
			hcloud.WithTimeouts(cfg.Timeouts),
			hcloud.WithLogger(log.WithName("hcloud")),
		), nil
	default:
		return nil, fmt.Errorf("unsupported provider %q", cfg.Provider)
	}
}

// setup loads the configuration and builds the logger and provider.
func setup() (*config.Config, logr.Logger, cloud.Provider, error) {
	log := newLogger()

	cfg, err := loadConfig()
	if err != nil {
		return nil, log, nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	p, err := newProvider(cfg, log)
	if err != nil {
		return nil, log, nil, fmt.Errorf("failed to create %s provider: %w", cfg.Provider, err)
	}
	return cfg, log, p, nil
}
