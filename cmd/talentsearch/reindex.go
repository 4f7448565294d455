package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var reindexCmd = &cobra.Command{
	Use:   "reindex",
	Short: "Rebuild the similarity indexes from the stored roster",
	Long: `Rebuild the similarity indexes from the stored roster.

Embeddings for unchanged profile texts come from the durable cache, so a
reindex after a small roster edit only embeds the edited profiles. With
retrieval.prewarm set, every configured tier's index is built now instead
of on the first query.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		a, err := buildApp(ctx)
		if err != nil {
			return err
		}
		defer a.close()

		roster, err := a.store.ListCandidates(ctx)
		if err != nil {
			return fmt.Errorf("loading roster: %w", err)
		}
		if err := a.pipe.Reindex(ctx, roster); err != nil {
			return fmt.Errorf("indexing roster: %w", err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Indexed %d candidate(s), corpus version %s.\n",
			a.pipe.CorpusLen(), a.pipe.CorpusVersion())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(reindexCmd)
}
