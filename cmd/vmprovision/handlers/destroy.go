package handlers

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/imamik/vmprovision/internal/orchestration"
	"github.com/imamik/vmprovision/internal/provisioning"
)

// Destroy handles the destroy command.
//
// It deletes the configured resource group and everything in it. A missing
// group is not an error.
func Destroy(ctx context.Context) error {
	cfg, log, p, err := setup()
	if err != nil {
		return err
	}

	log.Info("Destroying resource group", "provider", p.Name(), "resourceGroup", cfg.ResourceGroup)

	reg := prometheus.NewRegistry()
	res, err := orchestration.DestroyResourceGroup(ctx, p, cfg, orchestration.WithRunnerOptions(
		provisioning.WithObserver(provisioning.NewLogObserver(log)),
		provisioning.WithMetrics(provisioning.NewMetrics(reg)),
	))
	if res != nil {
		publish(ctx, log, cfg, p.Name(), res, reg)
	}
	return err
}
