// Lookalike - Product Similarity Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/lookalike

package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/tomtom215/lookalike/internal/recommend"
)

func NewRecommendCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "recommend <product-id>",
		Short: "Show the products most similar to a product",
		Long: `Rank every other catalog product against the target and print the top k
with their text, image and combined scores and the reasons they matched.`,
		Args: cobra.ExactArgs(1),
		RunE: runRecommend,
	}

	cmd.Flags().Int("k", 0, "Number of recommendations (default from config)")
	cmd.Flags().StringSlice("candidates", nil, "Restrict ranking to these product ids")
	cmd.Flags().Bool("json", false, "Output in JSON format")
	addWeightFlags(cmd)
	return cmd
}

func runRecommend(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	rc := a.ranker.Config()
	w, err := weightsFromFlags(cmd, rc.Weights)
	if err != nil {
		return err
	}
	k, _ := cmd.Flags().GetInt("k")
	if k == 0 {
		k = rc.Limits.DefaultK
	}
	candidates, _ := cmd.Flags().GetStringSlice("candidates")

	list, err := a.ranker.Recommend(cmd.Context(), args[0], candidates, k, w)
	if err != nil {
		return fmt.Errorf("recommend: %w", err)
	}

	if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(list)
	}

	target, _ := a.catalog.Get(args[0])
	printList(cmd, target.Name, list)
	return nil
}

func printList(cmd *cobra.Command, targetName string, list *recommend.RecommendationList) {
	printf(cmd, "Similar to %s (%s), mode %s, text %.2f / image %.2f\n\n",
		list.TargetID, targetName, list.Mode, list.Weights.Text, list.Weights.Image)

	if len(list.Results) == 0 {
		printf(cmd, "no candidates\n")
		return
	}

	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "#\tID\tNAME\tSCORE\tTEXT\tIMAGE\tWHY")
	for i := range list.Results {
		r := &list.Results[i]
		_, _ = fmt.Fprintf(tw, "%d\t%s\t%s\t%.3f\t%s\t%s\t%s\n",
			i+1, r.CandidateID, truncate(r.Name, 40), r.CombinedScore,
			r.TextSimilarity, r.ImageSimilarity, strings.Join(r.Explanation.Reasons(), "; "))
	}
	_ = tw.Flush()

	md := list.Metadata
	printf(cmd, "\n%d candidates scored in %dms", md.Candidates, md.LatencyMS)
	if md.ImageAbsent > 0 {
		printf(cmd, ", %d without image similarity", md.ImageAbsent)
	}
	printf(cmd, "\n")
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
