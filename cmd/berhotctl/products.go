package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func productsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "products",
		Short: "List the product catalog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			catalog, err := loadCatalog()
			if err != nil {
				return err
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "KEY\tNAME\tORIGIN\tDASHBOARD\tDEFAULT")
			for _, p := range catalog.Products() {
				def := ""
				if p.Default {
					def = "yes"
				}
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s%s\t%s\n", p.Key, p.Name, p.Origin, p.BaseURL, p.DashboardPath, def)
			}
			return tw.Flush()
		},
	}

	cmd.AddCommand(assignCmd())
	return cmd
}

func assignCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "assign <classification>",
		Short: "Show the product a business classification is provisioned into",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			catalog, err := loadCatalog()
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), catalog.ForClassification(args[0]).POSProduct())
		},
	}
}
