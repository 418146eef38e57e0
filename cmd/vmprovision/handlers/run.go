package handlers

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/imamik/vmprovision/internal/orchestration"
	"github.com/imamik/vmprovision/internal/provisioning"
)

const generatedKeyBits = 4096

// Run handles the run command.
//
// It creates the configured virtual machine and its network, then deletes the
// resource group. When no SSH public key is configured a key pair is
// generated for the run; the private key is not kept because the machine
// does not outlive the run.
func Run(ctx context.Context) error {
	cfg, log, p, err := setup()
	if err != nil {
		return err
	}

	var opts []orchestration.Option
	if cfg.Machine.SSHPublicKey == "" {
		kp, err := generateKeyPair(generatedKeyBits)
		if err != nil {
			return err
		}
		log.Info("Generated SSH key pair for the run", "fingerprint", kp.Fingerprint)
		opts = append(opts, orchestration.WithSSHPublicKey(kp.AuthorizedKey(cfg.Machine.AdminUser+"@"+cfg.Machine.Name)))
	}

	reg := prometheus.NewRegistry()
	opts = append(opts, orchestration.WithRunnerOptions(
		provisioning.WithObserver(provisioning.NewLogObserver(log)),
		provisioning.WithMetrics(provisioning.NewMetrics(reg)),
	))

	runner, err := orchestration.NewVirtualMachineWorkflow(p, cfg, opts...)
	if err != nil {
		return err
	}

	log.Info("Provisioning virtual machine", "provider", p.Name(), "resourceGroup", cfg.ResourceGroup, "location", cfg.Location)
	res, runErr := runner.Run(ctx)
	publish(ctx, log, cfg, p.Name(), res, reg)
	return runErr
}
