package main

import (
	"github.com/spf13/cobra"

	"github.com/aescanero/netqa-router/internal/retrieval"
)

var searchCmd = &cobra.Command{
	Use:   "search <query...>",
	Short: "Rank corpus sections for a query",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runSearch,
}

func init() {
	f := searchCmd.Flags()
	f.Int("top-k", 0, "number of results (default RETRIEVAL_TOP_K)")
	f.StringSlice("doc", nil, "restrict to these document numbers")

	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	f := cmd.Flags()
	topK, _ := f.GetInt("top-k")
	if topK <= 0 {
		topK = cfg.TopK
	}
	docs, _ := f.GetStringSlice("doc")

	hits := svc.Retriever.Search(joinArgs(args), retrieval.Options{
		TopK:        topK,
		Documents:   docs,
		BlendWeight: cfg.BlendWeight,
	})
	return printJSON(cmd.OutOrStdout(), hits)
}
