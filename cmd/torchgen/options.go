package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"torchgen/internal/option"
)

func newOptionsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "options",
		Short: "List the settings options",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			reg := option.Default()

			rows := make([][]string, 0, len(reg.Names()))
			for _, o := range reg.All() {
				rows = append(rows, []string{o.Name, describeKind(o), describeDefault(o), o.Description})
			}

			return printTable(cmd.OutOrStdout(), []string{"OPTION", "KIND", "DEFAULT", "DESCRIPTION"}, rows)
		},
	}
}

func describeKind(o option.Option) string {
	switch o.Kind {
	case option.KindFlag:
		return o.Kind.String()
	case option.KindChoice:
		return "one of " + joinOrDash(o.Choices)
	case option.KindList:
		return fmt.Sprintf("list of %s", o.Type)
	default:
		return o.Type.String()
	}
}

func describeDefault(o option.Option) string {
	switch {
	case o.Required:
		return "(required)"
	case o.HasDefault():
		return fmt.Sprint(o.Default)
	default:
		return "-"
	}
}
