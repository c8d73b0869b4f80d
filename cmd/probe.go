package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/kumarse1/KGV2/internal/config"
	"github.com/kumarse1/KGV2/internal/llmclient"
	"github.com/kumarse1/KGV2/internal/observability"
)

var probeCmd = &cobra.Command{
	Use:   "probe",
	Short: "Discover which request shape the configured endpoint accepts",
	Long: `Tries each known request-body shape against the endpoint in order
and reports the first one that answers correctly. Useful for checking
credentials and endpoint health before a full extraction run.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		logger := observability.GetLogger()
		cfg := config.Get()

		if cfg.Endpoint.URL == "" {
			return fmt.Errorf("no endpoint configured; set endpoint.url or KGV2_ENDPOINT_URL")
		}

		client := llmclient.New(cfg.Endpoint, logger)
		prober := llmclient.NewProber(client, cfg.Endpoint.ProbeTimeout, nil, logger)

		index, cand, err := prober.Probe(cmd.Context())
		if errors.Is(err, llmclient.ErrNoContract) {
			return fmt.Errorf("endpoint rejected every known request shape: %w", err)
		}
		if err != nil {
			return err
		}

		logger.Info("Probe succeeded",
			zap.Int("index", index),
			zap.String("candidate", cand.Name))
		fmt.Fprintf(cmd.OutOrStdout(), "endpoint accepts %q (candidate %d)\n", cand.Name, index)
		return nil
	},
}
