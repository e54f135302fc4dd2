package main

import (
	"github.com/spf13/cobra"

	"torchgen/internal/catalog"
)

func newTemplatesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "templates",
		Short: "List the skeletons with their regions and placeholders",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cat := catalog.Default()

			var rows [][]string

			for _, name := range cat.Names() {
				tpl, _ := cat.Template(name)
				rows = append(rows, []string{
					name,
					catalog.Filename(name),
					joinOrDash(tpl.Labels()),
					joinOrDash(tpl.Placeholders()),
				})
			}

			return printTable(cmd.OutOrStdout(), []string{"TEMPLATE", "FILE", "REGIONS", "PLACEHOLDERS"}, rows)
		},
	}
}
