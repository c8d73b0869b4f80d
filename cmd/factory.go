package cmd

import (
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/kumarse1/KGV2/internal/config"
	"github.com/kumarse1/KGV2/internal/llmclient"
	"github.com/kumarse1/KGV2/internal/metric"
	"github.com/kumarse1/KGV2/internal/pipeline"
)

// buildPipeline assembles the extraction cascade from the loaded
// configuration. An endpoint URL is not required: without one the two
// endpoint stages fail on their first call and the cascade falls through
// to the local stages, which is the intended offline behavior.
func buildPipeline(cfg *config.Config, logger *zap.Logger) (*pipeline.Orchestrator, error) {
	metrics := metric.NewMetrics()
	if err := metrics.Register(prometheus.DefaultRegisterer); err != nil {
		logger.Warn("Metrics registration failed, continuing without metrics", zap.Error(err))
		metrics = nil
	}

	client := llmclient.New(cfg.Endpoint, logger)
	prober := llmclient.NewProber(client, cfg.Endpoint.ProbeTimeout, metrics, logger)
	return pipeline.NewOrchestrator(client, prober, cfg.Extraction, cfg.Endpoint.GenerateTimeout, metrics, logger), nil
}
