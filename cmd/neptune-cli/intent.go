package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"neptune/internal/service"
)

// newIntentCmd creates the intent subcommand. It needs no catalog.
func newIntentCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "intent <query>",
		Short: "Show the intent extracted from a query",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			intent := service.NewIntentExtractor(service.DefaultIntentRules()).Extract(strings.Join(args, " "))

			if outputJSON {
				return writeJSON(cmd.OutOrStdout(), intent)
			}

			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "Location: %s\n", orNone(intent.Location))
			fmt.Fprintf(w, "Category: %s\n", orNone(string(intent.Category)))
			if intent.MaxPrice != nil {
				fmt.Fprintf(w, "MaxPrice: %d\n", *intent.MaxPrice)
			} else {
				fmt.Fprintln(w, "MaxPrice: -")
			}
			return nil
		},
	}
}

func orNone(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
