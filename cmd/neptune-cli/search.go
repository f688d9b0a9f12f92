package main

import (
	"context"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"neptune/internal/app"
	"neptune/internal/model"
)

// newSearchCmd creates the search subcommand.
func newSearchCmd() *cobra.Command {
	var (
		limit   int
		timeout time.Duration
	)

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search providers with a natural-language query",
		Long: `Search extracts location, category and price ceiling from the query,
ranks matching providers by Neptune Score and prints a summary.

Example:
  neptune-cli search "emergency plumber in Austin"
  neptune-cli search --json "dog grooming near Miami under $60"`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()

			application, err := app.New(ctx, cfg, log)
			if err != nil {
				return err
			}
			defer application.Close()

			resp, err := application.SearchService.Search(ctx, &model.SearchRequest{Query: strings.Join(args, " ")})
			if err != nil {
				return fmt.Errorf("search failed: %w", err)
			}

			if limit > 0 && len(resp.Providers) > limit {
				resp.Providers = resp.Providers[:limit]
			}

			if outputJSON {
				return writeJSON(cmd.OutOrStdout(), resp)
			}
			return printSearch(cmd.OutOrStdout(), resp)
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "maximum providers to print (0 for all)")
	cmd.Flags().DurationVar(&timeout, "timeout", 30*time.Second, "overall deadline for the search")

	return cmd
}

func printSearch(w io.Writer, resp *model.SearchResponse) error {
	fmt.Fprintf(w, "Query:    %s\n", resp.Query)
	if resp.Location != "" {
		fmt.Fprintf(w, "Location: %s\n", resp.Location)
	}
	if resp.Category != "" {
		fmt.Fprintf(w, "Category: %s\n", resp.Category)
	}
	if resp.MaxPrice != nil {
		fmt.Fprintf(w, "Under:    $%d\n", *resp.MaxPrice)
	}
	fmt.Fprintln(w)

	if len(resp.Providers) > 0 {
		tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "SCORE\tNAME\tCATEGORY\tLOCATION\tRATING\tPRICE\tAVAILABILITY")
		for _, p := range resp.Providers {
			fmt.Fprintf(tw, "%.1f\t%s\t%s\t%s\t%.1f (%d)\t%s\t%s\n",
				p.NeptuneScore, p.Name, p.Category, p.Location, p.Rating, p.ReviewCount, p.PriceRange, p.Availability)
		}
		if err := tw.Flush(); err != nil {
			return err
		}
		fmt.Fprintln(w)
	}

	_, err := fmt.Fprintln(w, resp.Summary)
	return err
}
