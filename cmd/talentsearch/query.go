package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/rosterhq/talentsearch/pkg/types"
)

var topK int

var queryCmd = &cobra.Command{
	Use:   "query [text]",
	Short: "Rank the roster against a free-text staffing query",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		a, err := buildApp(ctx)
		if err != nil {
			return err
		}
		defer a.close()

		queryText := strings.Join(args, " ")
		outcome, err := a.pipe.Retrieve(ctx, queryText, topK)
		if err != nil {
			return err
		}

		a.log.Debug("retrieval finished",
			zap.String("request_id", outcome.RequestID),
			zap.String("tier", outcome.TierUsed),
			zap.Bool("cache_hit", outcome.CacheHit))

		printOutcome(cmd, a, queryText, outcome)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(queryCmd)
	queryCmd.Flags().IntVarP(&topK, "top-k", "k", 5, "maximum number of candidates to return")
}

func printOutcome(cmd *cobra.Command, a *app, queryText string, outcome *types.RetrievalOutcome) {
	out := cmd.OutOrStdout()

	candidates, err := a.store.ListCandidates(cmd.Context())
	if err != nil {
		a.log.Warn("listing roster for display", zap.Error(err))
	}
	profiles := make(map[int64]*types.CandidateProfile, len(candidates))
	for i := range candidates {
		profiles[candidates[i].ID] = &candidates[i]
	}

	fmt.Fprintf(out, "Tier: %s", outcome.TierUsed)
	if outcome.CacheHit {
		fmt.Fprint(out, " (cached)")
	}
	fmt.Fprintf(out, " | %d result(s) in %dms\n\n", len(outcome.Results), outcome.ElapsedMS)

	for i, r := range outcome.Results {
		name := fmt.Sprintf("candidate %d", r.CandidateID)
		if c, ok := profiles[r.CandidateID]; ok {
			name = c.Name
		}
		fmt.Fprintf(out, "%d. %s  score=%.2f  confidence=%d%%\n", i+1, name, r.FinalScore, r.Confidence)
		if len(r.MatchReasons) > 0 {
			fmt.Fprintf(out, "   %s\n", strings.Join(r.MatchReasons, "; "))
		}
	}

	fmt.Fprintf(out, "\n%s\n", a.summ.Summarize(cmd.Context(), queryText, outcome, profiles))
}
