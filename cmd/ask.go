package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kumarse1/KGV2/api/schemas"
	"github.com/kumarse1/KGV2/internal/knowledgegraph"
	"github.com/kumarse1/KGV2/internal/observability"
	"github.com/kumarse1/KGV2/internal/query"
)

var askGraphFile string

var askCmd = &cobra.Command{
	Use:   "ask <question>",
	Short: "Ask a natural language question about an extracted graph",
	Long: `Loads a previously extracted graph JSON and answers questions like
"Who manages Billing System?", "What does Jane Doe manage?" or
"Show all servers". Unrecognized questions return example phrasings.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		logger := observability.GetLogger()

		raw, err := os.ReadFile(askGraphFile)
		if err != nil {
			return fmt.Errorf("failed to read graph file: %w", err)
		}

		// The file may be either a bare graph or a full extraction result.
		var result schemas.ExtractionResult
		if err := json.Unmarshal(raw, &result); err != nil || len(result.Graph.Nodes) == 0 {
			if err := json.Unmarshal(raw, &result.Graph); err != nil {
				return fmt.Errorf("failed to decode graph file: %w", err)
			}
		}

		kg := knowledgegraph.FromGraph(result.Graph, logger)
		engine := query.NewEngine(kg, logger)

		answer := engine.Ask(strings.Join(args, " "))
		out, err := json.MarshalIndent(answer, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to encode answer: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(out))
		return nil
	},
}

func init() {
	askCmd.Flags().StringVarP(&askGraphFile, "graph", "g", "graph.json", "path to the extracted graph JSON")
}
