// Lookalike - Product Similarity Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/lookalike

package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/tomtom215/lookalike/internal/catalog"
	"github.com/tomtom215/lookalike/internal/recommend"
)

func NewAnalyzeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Summarize the catalog and list its most similar pairs",
		Args:  cobra.NoArgs,
		RunE:  runAnalyze,
	}

	cmd.Flags().Int("pairs", 3, "Number of most similar pairs to list (0 skips pairing)")
	cmd.Flags().Bool("json", false, "Output in JSON format")
	addWeightFlags(cmd)
	return cmd
}

type analysis struct {
	Catalog catalog.Stats    `json:"catalog"`
	Pairs   []recommend.Pair `json:"pairs"`
	Ranker  recommend.Stats  `json:"ranker"`
}

func runAnalyze(cmd *cobra.Command, _ []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	w, err := weightsFromFlags(cmd, a.ranker.Config().Weights)
	if err != nil {
		return err
	}
	n, _ := cmd.Flags().GetInt("pairs")

	res := analysis{Catalog: catalog.ComputeStats(a.catalog), Pairs: []recommend.Pair{}}
	if n > 0 && a.catalog.Len() > 1 {
		res.Pairs, err = a.ranker.TopPairs(cmd.Context(), nil, n, w)
		if err != nil {
			return fmt.Errorf("pair analysis: %w", err)
		}
	}
	res.Ranker = a.ranker.Stats()

	if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(res)
	}
	printAnalysis(cmd, a.catalog, &res)
	return nil
}

func printAnalysis(cmd *cobra.Command, idx *catalog.Index, res *analysis) {
	s := res.Catalog
	printf(cmd, "Products:            %d\n", s.Products)
	printf(cmd, "With image:          %d (%.1f%%)\n", s.WithImage, s.ImageCoverage*100)
	printf(cmd, "Avg description:     %.0f chars\n", s.AvgDescriptionLength)

	if len(s.Categories) > 0 {
		printf(cmd, "\nCategories\n")
		tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
		for _, c := range s.Categories {
			_, _ = fmt.Fprintf(tw, "  %s\t%d\n", c.Category, c.Count)
		}
		_ = tw.Flush()
	}

	if len(res.Pairs) > 0 {
		printf(cmd, "\nMost similar pairs\n")
		tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
		for _, p := range res.Pairs {
			pa, _ := idx.Get(p.A)
			pb, _ := idx.Get(p.B)
			_, _ = fmt.Fprintf(tw, "  %.3f\t%s\t%s\t<->\t%s\t%s\n",
				p.CombinedScore, p.A, truncate(pa.Name, 30), p.B, truncate(pb.Name, 30))
		}
		_ = tw.Flush()
	}
}
