package handlers

import (
	"context"
	"fmt"

	"github.com/go-logr/logr"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/imamik/vmprovision/internal/config"
	"github.com/imamik/vmprovision/internal/provisioning"
	"github.com/imamik/vmprovision/internal/report"
)

// publish prints the run report and hands it and the metrics to the
// configured sinks. Failures are logged and never change the run outcome.
func publish(ctx context.Context, log logr.Logger, cfg *config.Config, provider string, res *provisioning.Result, reg *prometheus.Registry) {
	r := report.New(res, provider, cfg.ResourceGroup)
	data, err := r.Marshal()
	if err != nil {
		log.Error(err, "Failed to render run report")
		return
	}
	if _, err := stdout.Write(data); err != nil {
		log.Error(err, "Failed to write run report")
	}

	if cfg.MetricsFile != "" {
		if err := prometheus.WriteToTextfile(cfg.MetricsFile, reg); err != nil {
			log.Error(err, "Failed to write metrics", "path", cfg.MetricsFile)
		}
	}

	if cfg.Report.Enabled() {
		if err := upload(ctx, cfg.Report, r.ObjectKey(), data); err != nil {
			log.Error(err, "Failed to upload run report", "bucket", cfg.Report.Bucket)
			return
		}
		log.Info("Uploaded run report", "bucket", cfg.Report.Bucket, "key", r.ObjectKey())
	}
}

func upload(ctx context.Context, cfg config.ReportConfig, key string, data []byte) error {
	u, err := newUploader(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to create report uploader: %w", err)
	}
	return u.Upload(ctx, cfg.Bucket, key, report.ContentType, data)
}
