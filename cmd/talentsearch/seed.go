package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/rosterhq/talentsearch/pkg/types"
)

var seedCmd = &cobra.Command{
	Use:   "seed [roster.json]",
	Short: "Load candidate profiles from a JSON file into the roster",
	Long: `Load candidate profiles from a JSON file into the roster.

The file holds an array of profiles:

  [{"id": 1, "name": "Alice Chen", "skills": ["python"], "experience_years": 6,
    "projects": ["X-ray Analysis"], "availability": "available"}]

Existing profiles with matching ids are replaced. The batch is atomic:
one invalid profile rejects the whole file.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		data, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("reading roster file: %w", err)
		}

		var candidates []types.CandidateProfile
		if err := json.Unmarshal(data, &candidates); err != nil {
			return fmt.Errorf("parsing roster file: %w", err)
		}
		if len(candidates) == 0 {
			return fmt.Errorf("roster file %s holds no candidates", args[0])
		}

		a, err := buildApp(ctx)
		if err != nil {
			return err
		}
		defer a.close()

		if err := a.store.UpsertCandidates(ctx, candidates); err != nil {
			return fmt.Errorf("storing roster: %w", err)
		}

		roster, err := a.store.ListCandidates(ctx)
		if err != nil {
			return fmt.Errorf("reloading roster: %w", err)
		}
		if err := a.pipe.Reindex(ctx, roster); err != nil {
			return fmt.Errorf("indexing roster: %w", err)
		}

		a.log.Info("roster seeded",
			zap.Int("loaded", len(candidates)),
			zap.Int("total", len(roster)))
		fmt.Fprintf(cmd.OutOrStdout(), "Loaded %d candidate(s); roster now holds %d.\n", len(candidates), len(roster))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(seedCmd)
}
